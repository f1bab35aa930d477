package docxhtml

import (
	"github.com/tsawler/docxhtml/docx"
)

// options holds the configuration a Converter loads and renders with.
type options struct {
	docx docx.Options
}

// defaultOptions returns the default conversion options.
func defaultOptions() options {
	return options{docx: docx.DefaultOptions()}
}

// clone creates a copy of options. The logger and resource callback are
// shared, everything else is copied.
func (o options) clone() options {
	return options{docx: o.docx}
}
