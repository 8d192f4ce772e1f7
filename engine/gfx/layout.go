package gfx

import "fmt"

// ElementType is the scalar type of one vertex attribute component.
type ElementType int

const (
	Float ElementType = iota
	Int
	UnsignedInt
	Bool
)

// Size returns the byte size of one component.
func (t ElementType) Size() int {
	switch t {
	case Float, Int, UnsignedInt:
		return 4
	case Bool:
		return 1
	default:
		return 0
	}
}

func (t ElementType) String() string {
	switch t {
	case Float:
		return "float"
	case Int:
		return "int"
	case UnsignedInt:
		return "uint"
	case Bool:
		return "bool"
	default:
		return fmt.Sprintf("ElementType(%d)", int(t))
	}
}

// LayoutElement is one named attribute of a vertex record.
type LayoutElement struct {
	Name       string
	Count      int
	Type       ElementType
	Normalized bool

	// Offset is filled in by NewBufferLayout.
	Offset int
}

// Size returns the byte size of the whole attribute.
func (e LayoutElement) Size() int { return e.Count * e.Type.Size() }

// BufferLayout describes the shape of one vertex record.
type BufferLayout struct {
	elements []LayoutElement
	stride   int
}

// NewBufferLayout computes offsets (prefix sums of element sizes) and the
// stride of a vertex record.
func NewBufferLayout(elems ...LayoutElement) (BufferLayout, error) {
	out := make([]LayoutElement, len(elems))
	offset := 0
	for i, e := range elems {
		if e.Count <= 0 {
			return BufferLayout{}, fmt.Errorf("%w: element %q has count %d", ErrInvalidLayout, e.Name, e.Count)
		}
		if e.Type.Size() == 0 {
			return BufferLayout{}, fmt.Errorf("%w: element %q has unknown type %v", ErrInvalidLayout, e.Name, e.Type)
		}
		e.Offset = offset
		offset += e.Size()
		out[i] = e
	}
	return BufferLayout{elements: out, stride: offset}, nil
}

// MustBufferLayout is NewBufferLayout for layouts known at compile time.
func MustBufferLayout(elems ...LayoutElement) BufferLayout {
	l, err := NewBufferLayout(elems...)
	if err != nil {
		panic(err)
	}
	return l
}

func (l BufferLayout) Elements() []LayoutElement { return l.elements }
func (l BufferLayout) Stride() int               { return l.stride }

// Offset returns the byte offset of the named element.
func (l BufferLayout) Offset(name string) (int, bool) {
	for _, e := range l.elements {
		if e.Name == name {
			return e.Offset, true
		}
	}
	return 0, false
}
