package docxhtml

import (
	"strings"

	"github.com/tsawler/docxhtml/docx"
)

// Warning is a problem that did not stop the conversion, such as a style
// based on an undefined style or an image missing from the package.
type Warning = docx.Warning

// FormatWarnings joins warnings into a single line per warning.
func FormatWarnings(warnings []Warning) string {
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}
