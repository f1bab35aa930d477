package model

// Length is a CSS length such as "12.00pt". An empty Length means unset.
type Length = string

// Tab is a custom tab stop.
type Tab struct {
	Style    string // left, center, right, decimal, bar, clear, ...
	Leader   string // none, dot, hyphen, underscore, heavy, middleDot
	Position Length
}

// NumberingRef links a paragraph to a list level.
type NumberingRef struct {
	ID    string
	Level int
}

// LineSpacing holds the raw paragraph spacing attributes.
type LineSpacing struct {
	Before   Length
	After    Length
	Line     int
	LineRule string // auto, atLeast, exact
}

// On reports whether an optional on/off property is set to true. A nil
// pointer means the property was not given at this level.
func On(v *bool) bool {
	return v != nil && *v
}

// ParagraphProperties are the pPr values the renderer and splitter need
// beyond the CSS already folded into the node's style.
type ParagraphProperties struct {
	Section         *SectionProperties
	Tabs            []Tab
	Numbering       *NumberingRef
	TextAlignment   string
	LineSpacing     *LineSpacing
	KeepLines       *bool
	KeepNext        *bool
	PageBreakBefore *bool
	OutlineLevel    *int
	StyleName       string
	RunProps        *RunProperties
	Color           string
	FontSize        Length
}

// RunProperties are the rPr values kept outside of CSS.
type RunProperties struct {
	Color    string
	FontSize Length
}

// Border is one edge of a page or paragraph border.
type Border struct {
	Type   string
	Color  string
	Size   Length
	Offset Length
	Frame  bool
	Shadow bool
}

// Borders groups the four edges.
type Borders struct {
	Top    *Border
	Left   *Border
	Right  *Border
	Bottom *Border
}

// PageSize is the w:pgSz of a section.
type PageSize struct {
	Width       Length
	Height      Length
	Orientation string
}

// PageMargins is the w:pgMar of a section.
type PageMargins struct {
	Top    Length
	Right  Length
	Bottom Length
	Left   Length
	Header Length
	Footer Length
	Gutter Length
}

// Column is one explicit column of a multi-column section.
type Column struct {
	Space Length
	Width Length
}

// Columns is the w:cols of a section.
type Columns struct {
	Space           Length
	NumberOfColumns int
	Separator       bool
	EqualWidth      bool
	Columns         []Column
}

// PageNumber is the w:pgNumType of a section.
type PageNumber struct {
	Start     int
	ChapSep   string
	ChapStyle string
	Format    string
}

// HeaderFooterRef points to a header or footer part by relationship id.
type HeaderFooterRef struct {
	ID   string
	Type string // first, even or default
}

// SectionProperties is the layout of one document section.
type SectionProperties struct {
	Type        string
	PageSize    *PageSize
	PageMargins *PageMargins
	PageBorders *Borders
	PageNumber  *PageNumber
	Columns     *Columns
	HeaderRefs  []HeaderFooterRef
	FooterRefs  []HeaderFooterRef
	TitlePage   bool
}
