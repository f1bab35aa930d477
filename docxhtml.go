// Package docxhtml provides a fluent API for converting Word documents
// (.docx) to HTML.
//
// Basic usage:
//
//	page, warnings, err := docxhtml.Open("report.docx").HTML()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", docxhtml.FormatWarnings(warnings))
//	}
//
// With options:
//
//	page, _, err := docxhtml.Open("report.docx").
//	    ClassName("doc").
//	    NoHeaders().
//	    UseBase64URL().
//	    HTML()
//
// For finer control, the docx, render and layout packages can be used
// directly.
package docxhtml

// Open returns a Converter for the .docx file at filename. The file is read
// by the first terminal operation.
//
// Example:
//
//	page, warnings, err := docxhtml.Open("document.docx").HTML()
func Open(filename string) *Converter {
	return &Converter{
		source:   sourceFile,
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromBytes returns a Converter for a package already in memory. data may
// also hold a bare document XML.
//
// Example:
//
//	data, _ := os.ReadFile("document.docx")
//	word, _, err := docxhtml.FromBytes(data).Document()
func FromBytes(data []byte) *Converter {
	return &Converter{
		source:  sourceBytes,
		data:    data,
		options: defaultOptions(),
	}
}

// FromString returns a Converter for a bare main document, the content of
// a word/document.xml without its package.
//
// Example:
//
//	page := docxhtml.MustHTML(docxhtml.FromString(xml).HTML())
func FromString(xml string) *Converter {
	return &Converter{
		source:  sourceText,
		text:    xml,
		options: defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	warnings := docxhtml.Must(docxhtml.Open("document.docx").RenderInto(body, head))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustHTML is a helper that wraps a call to HTML() or Document() and panics
// if the error is non-nil. It discards warnings and returns just the value.
//
// Example:
//
//	page := docxhtml.MustHTML(docxhtml.Open("document.docx").HTML())
func MustHTML[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
