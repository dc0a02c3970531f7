// Package astmodel defines the node kinds the bundling core consumes and
// produces. Parsing source text into these nodes, and printing them back
// to source, is the job of an external collaborator (spec.md §1, §6); this
// package only fixes the shape of the tree the core transforms.
package astmodel

// Node is the marker interface implemented by every statement and
// expression kind. It carries no behavior of its own — dispatch happens
// by type switch in Walk and in the individual components, the way
// go/ast's own Inspect works, rather than through per-kind Accept/Visit
// methods.
type Node interface {
	astNode()
}

// Module is a parsed source file: a flat statement list plus the metadata
// the printer needs to reproduce formatting decisions it cares about.
type Module struct {
	Body     []Stmt
	Comments []Comment // left empty by the pyfront parser
}

// Comment is a comment attached to a line. The pyfront parser produces
// none, whatever the preserve_comments configuration option says.
type Comment struct {
	Line int
	Text string
}

func (*Module) astNode() {}
