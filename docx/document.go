package docx

// nsW is the WordprocessingML main namespace.
const nsW = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// Relationship types understood by the loader.
const (
	RelOfficeDocument     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	RelFontTable          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/fontTable"
	RelImage              = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	RelNumbering          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering"
	RelStyles             = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	RelStylesWithEffects  = "http://schemas.microsoft.com/office/2007/relationships/stylesWithEffects"
	RelTheme              = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme"
	RelSettings           = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/settings"
	RelWebSettings        = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/webSettings"
	RelHyperlink          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink"
	RelFootnotes          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/footnotes"
	RelEndnotes           = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/endnotes"
	RelFooter             = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer"
	RelHeader             = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/header"
	RelExtendedProperties = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"
	RelCoreProperties     = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	RelCustomProperties   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/custom-properties"
)

// topLevelRel is a root relationship type and the path used when the
// package does not declare it.
type topLevelRel struct {
	Type   string
	Target string
}

var topLevelRels = []topLevelRel{
	{RelOfficeDocument, "word/document.xml"},
	{RelExtendedProperties, "docProps/app.xml"},
	{RelCoreProperties, "docProps/core.xml"},
	{RelCustomProperties, "docProps/custom.xml"},
}

// supportedNamespaces lists the namespaces whose mc:Choice branches are
// rendered. Every other Choice falls back to mc:Fallback.
var supportedNamespaces = map[string]bool{}

// Break types carried by model.KindBreak nodes.
const (
	BreakPage             = "page"
	BreakColumn           = "column"
	BreakTextWrapping     = "textWrapping"
	BreakLastRenderedPage = "lastRenderedPageBreak"
)
