package model

import "strings"

// Kind identifies the type of a document node.
type Kind int

const (
	KindUnknown Kind = iota
	KindDocument
	KindParagraph
	KindRun
	KindBreak
	KindNoBreakHyphen
	KindTable
	KindRow
	KindCell
	KindHyperlink
	KindDrawing
	KindImage
	KindText
	KindDeletedText
	KindTab
	KindSymbol
	KindBookmarkStart
	KindBookmarkEnd
	KindHeader
	KindFooter
	KindFootnote
	KindEndnote
	KindFootnoteReference
	KindEndnoteReference
	KindSimpleField
	KindComplexField
	KindInstruction
	KindVmlPicture
	KindVmlElement
	KindMath
	KindMathParagraph
	KindFraction
	KindNumerator
	KindDenominator
	KindRadical
	KindDegree
	KindBase
	KindSuperscript
	KindSubscript
	KindSuperArgument
	KindSubArgument
	KindNary
	KindDelimiter
	KindInserted
	KindDeleted
)

var kindNames = [...]string{
	KindUnknown:           "Unknown",
	KindDocument:          "Document",
	KindParagraph:         "Paragraph",
	KindRun:               "Run",
	KindBreak:             "Break",
	KindNoBreakHyphen:     "NoBreakHyphen",
	KindTable:             "Table",
	KindRow:               "Row",
	KindCell:              "Cell",
	KindHyperlink:         "Hyperlink",
	KindDrawing:           "Drawing",
	KindImage:             "Image",
	KindText:              "Text",
	KindDeletedText:       "DeletedText",
	KindTab:               "Tab",
	KindSymbol:            "Symbol",
	KindBookmarkStart:     "BookmarkStart",
	KindBookmarkEnd:       "BookmarkEnd",
	KindHeader:            "Header",
	KindFooter:            "Footer",
	KindFootnote:          "Footnote",
	KindEndnote:           "Endnote",
	KindFootnoteReference: "FootnoteReference",
	KindEndnoteReference:  "EndnoteReference",
	KindSimpleField:       "SimpleField",
	KindComplexField:      "ComplexField",
	KindInstruction:       "Instruction",
	KindVmlPicture:        "VmlPicture",
	KindVmlElement:        "VmlElement",
	KindMath:              "Math",
	KindMathParagraph:     "MathParagraph",
	KindFraction:          "Fraction",
	KindNumerator:         "Numerator",
	KindDenominator:       "Denominator",
	KindRadical:           "Radical",
	KindDegree:            "Degree",
	KindBase:              "Base",
	KindSuperscript:       "Superscript",
	KindSubscript:         "Subscript",
	KindSuperArgument:     "SuperArgument",
	KindSubArgument:       "SubArgument",
	KindNary:              "Nary",
	KindDelimiter:         "Delimiter",
	KindInserted:          "Inserted",
	KindDeleted:           "Deleted",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Unknown"
	}
	return kindNames[k]
}

// IsMath reports whether k belongs to the math family.
func (k Kind) IsMath() bool {
	return k >= KindMath && k <= KindDelimiter
}

// NodeID indexes a node inside its Tree.
type NodeID int

// NoNode is the parent of root nodes and of nodes before the parent pass.
const NoNode NodeID = -1

// CSS is a flat set of CSS declarations.
type CSS map[string]string

// Clone returns an independent copy of c.
func (c CSS) Clone() CSS {
	if c == nil {
		return nil
	}
	out := make(CSS, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Attr is a name/value pair kept in document order.
type Attr struct {
	Name  string
	Value string
}

// Node is one element of a parsed document. Fields beyond the common header
// are meaningful only for the kinds named in their comments.
type Node struct {
	Kind      Kind
	Parent    NodeID
	Children  []NodeID
	Style     CSS
	StyleName string
	ClassName string

	// Text, DeletedText, Instruction; SimpleField instruction text.
	Text string
	// BookmarkStart/End id, note id and reference id, relationship id of a
	// Hyperlink, Image or VML image.
	ID string
	// BookmarkStart name, VML tag name.
	Name string
	// Hyperlink target fragment.
	Anchor string
	// Break type, ComplexField character type, note type.
	Type string
	// Symbol font and character code.
	Font string
	Char string
	// Field lock and dirty flags.
	Lock  bool
	Dirty bool
	// Run: part of a complex field's instruction.
	FieldRun bool
	// Run: sup or sub.
	VertAlign string
	// BookmarkStart table column range.
	ColFirst int
	ColLast  int

	Paragraph *ParagraphProperties
	Section   *SectionProperties
	Table     *TableProperties
	// Row: repeat as header row.
	IsHeader bool
	// Cell: grid span and vertical merge state ("restart" or "continue").
	Span          int
	VerticalMerge string
	// Math element properties (chr, degHide, begChr, endChr).
	MathProps map[string]string
	// VML attributes in document order.
	Attrs []Attr
	// VML inline style attribute, copied verbatim.
	CSSText string
	// Image or VML image title.
	Title string
}

// TableProperties carries what a table needs beyond its CSS.
type TableProperties struct {
	Columns     []TableColumn
	CellStyle   CSS
	ColBandSize int
	RowBandSize int
}

// TableColumn is one entry of a table grid.
type TableColumn struct {
	Width string
}

// Tree is an arena of nodes. Parent and child links are indices into
// Nodes, which keeps cloning and the parent pass cheap.
type Tree struct {
	Nodes []Node
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{}
}

// New appends a node of the given kind and returns its id.
func (t *Tree) New(kind Kind) NodeID {
	return t.Add(Node{Kind: kind})
}

// Add appends n to the arena. Parent is reset until the parent pass runs.
func (t *Tree) Add(n Node) NodeID {
	n.Parent = NoNode
	t.Nodes = append(t.Nodes, n)
	return NodeID(len(t.Nodes) - 1)
}

// Node returns the node with the given id. The pointer stays valid only
// until the next Add.
func (t *Tree) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(t.Nodes) {
		return nil
	}
	return &t.Nodes[id]
}

// Kind returns the kind of id, or KindUnknown for invalid ids.
func (t *Tree) Kind(id NodeID) Kind {
	if n := t.Node(id); n != nil {
		return n.Kind
	}
	return KindUnknown
}

// Append adds children to parent.
func (t *Tree) Append(parent NodeID, children ...NodeID) {
	t.Nodes[parent].Children = append(t.Nodes[parent].Children, children...)
}

// Children returns the child ids of id.
func (t *Tree) Children(id NodeID) []NodeID {
	if n := t.Node(id); n != nil {
		return n.Children
	}
	return nil
}

// Clone copies the header and payload of id into a new node. The child
// slice and style map are copied so the clone can be edited independently;
// the children themselves are shared.
func (t *Tree) Clone(id NodeID) NodeID {
	n := t.Nodes[id]
	n.Children = append([]NodeID(nil), n.Children...)
	n.Style = n.Style.Clone()
	return t.Add(n)
}

// Copy returns a tree with its own node array and child slices. Node ids
// are unchanged, so edits that restructure the copy leave t intact.
func (t *Tree) Copy() *Tree {
	out := &Tree{Nodes: make([]Node, len(t.Nodes))}
	copy(out.Nodes, t.Nodes)
	for i := range out.Nodes {
		if c := out.Nodes[i].Children; c != nil {
			out.Nodes[i].Children = append([]NodeID(nil), c...)
		}
	}
	return out
}

// AttachParents walks the tree from root and records each node's parent.
// Nodes reachable twice keep the last parent seen.
func (t *Tree) AttachParents(root NodeID) {
	t.walk(root, func(parent, child NodeID) {
		t.Nodes[child].Parent = parent
	})
}

func (t *Tree) walk(id NodeID, fn func(parent, child NodeID)) {
	for _, c := range t.Nodes[id].Children {
		fn(id, c)
		t.walk(c, fn)
	}
}

// Walk calls fn for id and every descendant in document order. Returning
// false from fn skips the node's children.
func (t *Tree) Walk(id NodeID, fn func(id NodeID, n *Node) bool) {
	if !fn(id, &t.Nodes[id]) {
		return
	}
	for _, c := range t.Nodes[id].Children {
		t.Walk(c, fn)
	}
}

// Find returns the first node below id, including id, for which match
// returns true.
func (t *Tree) Find(id NodeID, match func(n *Node) bool) (NodeID, bool) {
	found := NoNode
	t.Walk(id, func(cur NodeID, n *Node) bool {
		if found != NoNode {
			return false
		}
		if match(n) {
			found = cur
			return false
		}
		return true
	})
	return found, found != NoNode
}

// TextContent concatenates the text of id and its descendants.
func (t *Tree) TextContent(id NodeID) string {
	var sb strings.Builder
	t.Walk(id, func(_ NodeID, n *Node) bool {
		if n.Kind == KindText {
			sb.WriteString(n.Text)
		}
		return true
	})
	return sb.String()
}
