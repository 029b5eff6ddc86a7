// Package xmlmodel implements the tree model XForm runs against: a typed
// node, the string-value rule, deep copy, and document-order descendant
// iteration. It also owns loading raw XML text into that tree and
// serializing the tree back out.
package xmlmodel

// Kind tags the role a Node plays in the tree.
type Kind int

const (
	KindDocument Kind = iota
	KindElement
	KindAttribute
	KindText
	KindComment
	KindPI
)

func (k Kind) String() string {
	switch k {
	case KindDocument:
		return "document"
	case KindElement:
		return "element"
	case KindAttribute:
		return "attribute"
	case KindText:
		return "text"
	case KindComment:
		return "comment"
	case KindPI:
		return "pi"
	default:
		return "unknown"
	}
}

// Node is a single entry in the XML tree. Every non-root node has a
// Parent; attribute nodes are synthesized on demand by the path evaluator
// and are never linked into a Children slice.
type Node struct {
	Kind     Kind
	Name     string // element, attribute, pi
	Value    string // text, comment, pi, attribute
	Children []*Node
	Attrs    *AttrMap // element only
	Parent   *Node
}

// NewElement builds a childless, attribute-free element node.
func NewElement(name string) *Node {
	return &Node{Kind: KindElement, Name: name, Attrs: NewAttrMap()}
}

// NewText builds a text node carrying val.
func NewText(val string) *Node {
	return &Node{Kind: KindText, Value: val}
}

// StringValue is the string-value rule: a text/attribute node
// contributes its own value; an element/document contributes the
// concatenation of its descendant text values, in document order;
// everything else (comment, pi) contributes nothing.
func (n *Node) StringValue() string {
	if n == nil {
		return ""
	}
	switch n.Kind {
	case KindText, KindAttribute:
		return n.Value
	case KindElement, KindDocument:
		var b []byte
		for _, c := range n.Children {
			b = append(b, c.StringValue()...)
		}
		return string(b)
	default:
		return ""
	}
}

// Root walks parent links up to the top of the tree (the Document node,
// for a tree built by Load).
func (n *Node) Root() *Node {
	if n == nil {
		return nil
	}
	cur := n
	for cur.Parent != nil {
		cur = cur.Parent
	}
	return cur
}

// DeepCopy duplicates n. When recurse is true (the default the evaluator
// uses for constructor output and the copy() builtin), children are
// duplicated too and reparented under the copy; the copy's own Parent is
// always left nil, since a fresh copy by definition has no home yet.
func (n *Node) DeepCopy(recurse bool) *Node {
	if n == nil {
		return nil
	}
	cp := &Node{
		Kind:  n.Kind,
		Name:  n.Name,
		Value: n.Value,
	}
	if n.Attrs != nil {
		cp.Attrs = n.Attrs.Clone()
	}
	if recurse && len(n.Children) > 0 {
		cp.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			child := c.DeepCopy(true)
			child.Parent = cp
			cp.Children[i] = child
		}
	}
	return cp
}

// IterDescendants walks n's subtree in document order (parent before
// children, siblings left to right) and calls visit for every
// descendant — n itself is not visited.
func IterDescendants(n *Node, visit func(*Node)) {
	if n == nil {
		return
	}
	for _, c := range n.Children {
		visit(c)
		IterDescendants(c, visit)
	}
}

// Descendants collects IterDescendants into a slice, for callers (the
// desc and desc_or_self axes) that need a materialized sequence.
func Descendants(n *Node) []*Node {
	var out []*Node
	IterDescendants(n, func(c *Node) { out = append(out, c) })
	return out
}

// Attribute synthesizes a standalone attribute node for name on an
// element, or nil if the element carries no such attribute. Attribute
// nodes are never children of their element — the path evaluator's attr
// axis is the only place that creates them.
func (n *Node) Attribute(name string) *Node {
	if n == nil || n.Kind != KindElement || n.Attrs == nil {
		return nil
	}
	val, ok := n.Attrs.Get(name)
	if !ok {
		return nil
	}
	return &Node{Kind: KindAttribute, Name: name, Value: val, Parent: n}
}

// Attributes synthesizes one attribute node per entry in n's attribute
// map, in insertion order — used by the attr axis's wildcard test.
func (n *Node) Attributes() []*Node {
	if n == nil || n.Kind != KindElement || n.Attrs == nil {
		return nil
	}
	out := make([]*Node, 0, n.Attrs.Len())
	n.Attrs.ForEach(func(name, val string) {
		out = append(out, &Node{Kind: KindAttribute, Name: name, Value: val, Parent: n})
	})
	return out
}

// ChildElements returns n's element children, optionally filtered by name
// (name == "" means no filter). Used by the elements() builtin.
func (n *Node) ChildElements(name string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.Kind != KindElement {
			continue
		}
		if name != "" && c.Name != name {
			continue
		}
		out = append(out, c)
	}
	return out
}

// DirectText concatenates only n's direct text children — the "shallow"
// form the text() builtin offers as an alternative to the string-value
// rule.
func (n *Node) DirectText() string {
	if n == nil {
		return ""
	}
	var b []byte
	for _, c := range n.Children {
		if c.Kind == KindText {
			b = append(b, c.Value...)
		}
	}
	return string(b)
}
