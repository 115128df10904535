package frame

// Node computes the rows of a virtual frame.
//
// RenderLine fills dst with row line of the given component of f, where f
// is the virtual frame that owns the node. dst is at least the component
// stride long. A node reads its upstream only through Line and never
// writes to it.
type Node interface {
	// Upstream returns the frame the node pulls from, or nil for generators.
	Upstream() *Frame
	// GetName returns the node name for identification in diagnostics.
	GetName() string
	// RenderLine computes one row into dst.
	RenderLine(f *Frame, dst []byte, component, line int)
}

// NodeFunc adapts a function into a Node without an upstream frame.
type NodeFunc func(f *Frame, dst []byte, component, line int)

// Upstream returns nil.
func (fn NodeFunc) Upstream() *Frame { return nil }

// GetName returns "func".
func (fn NodeFunc) GetName() string { return "func" }

// RenderLine calls fn.
func (fn NodeFunc) RenderLine(f *Frame, dst []byte, component, line int) {
	fn(f, dst, component, line)
}
