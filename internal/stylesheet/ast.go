package stylesheet

// Node is any element of a parsed stylesheet. Bounds are byte offsets into
// the parsed text, end exclusive.
type Node interface {
	Bounds() (start, end int)
}

// Container is a node that holds child nodes
type Container interface {
	Node
	Children() []Node
	appendChild(Node)
	setEnd(int)
}

// Offsets records where a node sits in the source
type Offsets struct {
	Start int
	End   int
}

// Bounds implements Node
func (o Offsets) Bounds() (int, int) {
	return o.Start, o.End
}

func (o *Offsets) setEnd(end int) {
	o.End = end
}

// Block holds the children of a container node
type Block struct {
	Nodes []Node
}

// Children returns the child nodes in source order
func (b *Block) Children() []Node {
	return b.Nodes
}

func (b *Block) appendChild(n Node) {
	b.Nodes = append(b.Nodes, n)
}

// Root is the top of a parsed stylesheet
type Root struct {
	Offsets
	Block

	// After collects trailing raw text, including braces that closed nothing
	After string
}

// Rule is a selector with a declaration block
type Rule struct {
	Offsets
	Block
	Selector string
}

// AtRule is an @-rule, with or without a block
type AtRule struct {
	Offsets
	Block
	Name     string
	Params   string
	HasBlock bool
}

// Declaration is a property: value pair
type Declaration struct {
	Offsets
	Prop      string
	Value     string
	Important bool

	// ValueStart and ValueEnd delimit Value in the source
	ValueStart int
	ValueEnd   int
}

// NestedDeclaration is the nested property shorthand `font: 12px { family: x }`.
// It is a declaration in its own right and a container for the nested ones.
type NestedDeclaration struct {
	Offsets
	Block
	Prop  string
	Value string

	ValueStart int
	ValueEnd   int
}

// Comment is ignorable text
type Comment struct {
	Offsets
	Text   string
	Inline bool
}

// Walk calls fn for every node below n in depth-first order. Returning false
// from fn skips that node's children.
func Walk(n Node, fn func(Node) bool) {
	c, ok := n.(Container)
	if !ok {
		return
	}
	for _, child := range c.Children() {
		if fn(child) {
			Walk(child, fn)
		}
	}
}
