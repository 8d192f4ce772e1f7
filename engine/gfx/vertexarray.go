package gfx

// VertexArray binds one vertex buffer (and its layout) to one index buffer.
// It owns both and destroys them with itself.
type VertexArray struct {
	api API
	id  VertexArrayID
	vb  *VertexBuffer
	ib  *IndexBuffer
}

func NewVertexArray(api API) *VertexArray {
	return &VertexArray{api: api, id: api.CreateVertexArray()}
}

// SetBuffers registers vb's layout as vertex attributes 0..n-1 and records
// ib as the element buffer. It can only be called once.
func (va *VertexArray) SetBuffers(vb *VertexBuffer, ib *IndexBuffer) {
	if va.vb != nil {
		panic("gfx: vertex array already has buffers")
	}
	va.api.BindVertexArray(va.id)
	vb.Bind()
	layout := vb.Layout()
	for i, e := range layout.Elements() {
		va.api.AddVertexAttribute(i, e.Count, e.Type, e.Normalized, layout.Stride(), e.Offset)
	}
	ib.Bind()
	va.api.UnbindVertexArray()
	vb.Unbind()
	va.vb, va.ib = vb, ib
}

func (va *VertexArray) ID() VertexArrayID           { return va.id }
func (va *VertexArray) VertexBuffer() *VertexBuffer { return va.vb }
func (va *VertexArray) IndexBuffer() *IndexBuffer   { return va.ib }

func (va *VertexArray) Bind()   { va.api.BindVertexArray(va.id) }
func (va *VertexArray) Unbind() { va.api.UnbindVertexArray() }

// Destroy releases the array and the buffers it owns.
func (va *VertexArray) Destroy() {
	if va.vb != nil {
		va.vb.Destroy()
	}
	if va.ib != nil {
		va.ib.Destroy()
	}
	if va.id != 0 {
		va.api.DeleteVertexArray(va.id)
		va.id = 0
	}
}
