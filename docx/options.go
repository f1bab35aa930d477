package docx

import (
	"fmt"

	"go.uber.org/zap"
)

// Options controls loading, parsing and rendering. The zero value is not
// useful; start from DefaultOptions.
type Options struct {
	// ClassName prefixes every generated CSS class.
	ClassName string
	// InWrapper wraps the rendered sections in a <ClassName>-wrapper div.
	InWrapper bool

	IgnoreWidth  bool
	IgnoreHeight bool
	IgnoreFonts  bool

	// BreakPages splits the document into sections at page breaks.
	BreakPages bool
	// IgnoreLastRenderedPageBreak disables splitting at the page breaks Word
	// recorded during its last layout pass.
	IgnoreLastRenderedPageBreak bool

	RenderHeaders   bool
	RenderFooters   bool
	RenderFootnotes bool
	RenderEndnotes  bool
	// RenderChanges shows tracked insertions and deletions.
	RenderChanges bool

	// UseBase64URL embeds images and fonts as data URLs.
	UseBase64URL bool
	// TrimXMLDeclaration strips XML prologs before parsing parts.
	TrimXMLDeclaration bool
	// KeepOrigin keeps each part's parsed XML so Word.Save can re-encode it.
	KeepOrigin bool
	// LoadUnknownParts keeps parts of unrecognised relationship types as raw
	// parts instead of skipping them.
	LoadUnknownParts bool

	// Debug logs unrecognised markup and broken references.
	Debug bool
	// Experimental enables tab stop simulation.
	Experimental bool

	// Logger receives diagnostics. Nil means no logging.
	Logger *zap.Logger
	// ResourceURL maps an embedded resource to the URL written into the
	// output when UseBase64URL is off. Nil writes the package path.
	ResourceURL func(path string, data []byte) string
}

// DefaultOptions returns the default option set.
func DefaultOptions() Options {
	return Options{
		ClassName:                   "docx",
		InWrapper:                   true,
		BreakPages:                  true,
		IgnoreLastRenderedPageBreak: true,
		RenderHeaders:               true,
		RenderFooters:               true,
		RenderFootnotes:             true,
		RenderEndnotes:              true,
		TrimXMLDeclaration:          true,
	}
}

// logger returns the configured logger or a no-op one.
func (o *Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// WarningKind classifies a tolerated problem.
type WarningKind int

const (
	// WarnUnknownElement marks markup the parser does not understand.
	WarnUnknownElement WarningKind = iota
	// WarnMissingBaseStyle marks a basedOn reference to an undefined style.
	WarnMissingBaseStyle
	// WarnMissingLinkedStyle marks a link reference to an undefined style.
	WarnMissingLinkedStyle
	// WarnStyleCycle marks a basedOn chain that loops.
	WarnStyleCycle
	// WarnMissingNumbering marks a numbering reference that cannot be resolved.
	WarnMissingNumbering
	// WarnMissingResource marks an image or font that could not be loaded.
	WarnMissingResource
	// WarnStyleTargetMismatch marks a style based on a style of another type.
	WarnStyleTargetMismatch
)

func (k WarningKind) String() string {
	switch k {
	case WarnUnknownElement:
		return "unknown-element"
	case WarnMissingBaseStyle:
		return "missing-base-style"
	case WarnMissingLinkedStyle:
		return "missing-linked-style"
	case WarnStyleCycle:
		return "style-cycle"
	case WarnMissingNumbering:
		return "missing-numbering"
	case WarnMissingResource:
		return "missing-resource"
	case WarnStyleTargetMismatch:
		return "style-target-mismatch"
	default:
		return "unknown"
	}
}

// Warning describes a problem that did not stop processing.
type Warning struct {
	Kind    WarningKind
	Part    string
	Message string
}

func (w Warning) String() string {
	if w.Part == "" {
		return fmt.Sprintf("%s: %s", w.Kind, w.Message)
	}
	return fmt.Sprintf("%s: %s: %s", w.Part, w.Kind, w.Message)
}
