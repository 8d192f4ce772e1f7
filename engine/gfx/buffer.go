package gfx

import "fmt"

// VertexBuffer owns a block of GPU vertex storage described by a layout.
type VertexBuffer struct {
	api    API
	id     BufferID
	layout BufferLayout
	size   int
}

// NewVertexBuffer allocates size bytes of uninitialized storage meant to be
// rewritten every frame.
func NewVertexBuffer(api API, layout BufferLayout, size int) *VertexBuffer {
	if size < 0 {
		panic(fmt.Sprintf("gfx: negative vertex buffer size %d", size))
	}
	return &VertexBuffer{api: api, id: api.CreateVertexBuffer(size), layout: layout, size: size}
}

// NewStaticVertexBuffer allocates storage initialized once with data.
func NewStaticVertexBuffer(api API, layout BufferLayout, data []byte) *VertexBuffer {
	return &VertexBuffer{api: api, id: api.CreateStaticVertexBuffer(data), layout: layout, size: len(data)}
}

func (b *VertexBuffer) ID() BufferID         { return b.id }
func (b *VertexBuffer) Layout() BufferLayout { return b.layout }
func (b *VertexBuffer) Size() int            { return b.size }

func (b *VertexBuffer) Bind()   { b.api.BindVertexBuffer(b.id) }
func (b *VertexBuffer) Unbind() { b.api.UnbindVertexBuffer() }

// Update overwrites the first len(data) bytes. Writing past the allocation
// is a caller bug and panics.
func (b *VertexBuffer) Update(data []byte) {
	if b.id == 0 {
		panic("gfx: update of destroyed vertex buffer")
	}
	if len(data) > b.size {
		panic(fmt.Sprintf("gfx: vertex buffer update of %d bytes exceeds allocation of %d", len(data), b.size))
	}
	b.api.BindVertexBuffer(b.id)
	b.api.UpdateVertexBuffer(data)
}

// Destroy releases the GPU storage. Safe to call more than once.
func (b *VertexBuffer) Destroy() {
	if b.id == 0 {
		return
	}
	b.api.DeleteBuffer(b.id)
	b.id = 0
}

// IndexBuffer owns GPU storage for uint32 indices.
type IndexBuffer struct {
	api      API
	id       BufferID
	capacity int
	count    int
}

// NewIndexBuffer allocates room for capacity indices, to be filled with Update.
func NewIndexBuffer(api API, capacity int) *IndexBuffer {
	if capacity < 0 {
		panic(fmt.Sprintf("gfx: negative index buffer capacity %d", capacity))
	}
	return &IndexBuffer{api: api, id: api.CreateIndexBuffer(capacity), capacity: capacity}
}

// NewStaticIndexBuffer allocates and fills storage once.
func NewStaticIndexBuffer(api API, indices []uint32) *IndexBuffer {
	return &IndexBuffer{
		api:      api,
		id:       api.CreateStaticIndexBuffer(indices),
		capacity: len(indices),
		count:    len(indices),
	}
}

func (b *IndexBuffer) ID() BufferID  { return b.id }
func (b *IndexBuffer) Capacity() int { return b.capacity }

// Count is the number of indices last written.
func (b *IndexBuffer) Count() int { return b.count }

func (b *IndexBuffer) Bind()   { b.api.BindIndexBuffer(b.id) }
func (b *IndexBuffer) Unbind() { b.api.UnbindIndexBuffer() }

// Update overwrites the first len(indices) slots. Exceeding the capacity
// panics.
func (b *IndexBuffer) Update(indices []uint32) {
	if b.id == 0 {
		panic("gfx: update of destroyed index buffer")
	}
	if len(indices) > b.capacity {
		panic(fmt.Sprintf("gfx: index buffer update of %d indices exceeds capacity of %d", len(indices), b.capacity))
	}
	b.api.BindIndexBuffer(b.id)
	b.api.UpdateIndexBuffer(indices)
	b.count = len(indices)
}

// Destroy releases the GPU storage. Safe to call more than once.
func (b *IndexBuffer) Destroy() {
	if b.id == 0 {
		return
	}
	b.api.DeleteBuffer(b.id)
	b.id = 0
}
