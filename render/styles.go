package render

import (
	"fmt"
	"strings"

	"github.com/tsawler/docxhtml/docx"
	"github.com/tsawler/docxhtml/model"
)

// styleToString formats one CSS rule. Keys are written in sorted order and
// cssText, when set, is appended verbatim.
func styleToString(selector string, values model.CSS, cssText string) string {
	var sb strings.Builder
	sb.WriteString(selector)
	sb.WriteString(" {\n")
	for _, k := range sortedKeys(values) {
		fmt.Fprintf(&sb, "  %s: %s;\n", k, values[k])
	}
	if cssText = strings.TrimSpace(cssText); cssText != "" {
		sb.WriteString("  ")
		sb.WriteString(cssText)
		if !strings.HasSuffix(cssText, ";") {
			sb.WriteByte(';')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("}\n")
	return sb.String()
}

// defaultCSS is the fixed stylesheet every rendition starts with.
func defaultCSS(c string) string {
	return fmt.Sprintf(`
.%[1]s-wrapper { background: gray; padding: 30px; padding-bottom: 0px; display: flex; flex-flow: column; align-items: center; }
.%[1]s-wrapper>section.%[1]s { background: white; box-shadow: 0 0 10px rgba(0, 0, 0, 0.5); margin-bottom: 30px; }
.%[1]s { color: black; }
section.%[1]s { box-sizing: border-box; display: flex; flex-flow: column nowrap; position: relative; overflow: hidden; }
section.%[1]s>article { margin-bottom: auto; }
.%[1]s table { border-collapse: collapse; }
.%[1]s table td, .%[1]s table th { vertical-align: top; }
.%[1]s p { margin: 0pt; min-height: 1em; }
.%[1]s span { white-space: pre-wrap; overflow-wrap: break-word; }
.%[1]s a { color: inherit; text-decoration: inherit; }
`, c)
}

// themeCSS exposes the theme fonts and colors as custom properties. The
// variable names match the var() references written by the parser.
func themeCSS(className string, theme *docx.Theme) string {
	if theme == nil {
		return ""
	}
	vars := model.CSS{}
	if theme.MajorFont != nil {
		vars["--docx-majorHAnsi-font"] = theme.MajorFont.Latin
	}
	if theme.MinorFont != nil {
		vars["--docx-minorHAnsi-font"] = theme.MinorFont.Latin
	}
	for _, c := range theme.Colors {
		vars["--docx-"+c.Name+"-color"] = "#" + c.Value
	}
	return styleToString("."+className, vars, "")
}

// documentCSS renders the resolved document styles.
func documentCSS(styles *docx.StyleResolver) string {
	var sb strings.Builder
	for _, rule := range styles.Rules() {
		sb.WriteString(styleToString(rule.Selector, rule.Values, ""))
	}
	return sb.String()
}

// bulletJob is a numbering level whose bullet is a picture. The picture is
// loaded later and bound to variable on the root selector.
type bulletJob struct {
	variable string
	refID    string
}

// numberingCSS renders list levels as CSS counters. Picture bullets are
// returned as jobs for the resource loader.
func (r *Renderer) numberingCSS() (string, []bulletJob) {
	var (
		sb           strings.Builder
		rootCounters []string
		jobs         []bulletJob
	)
	numbering := r.word.Numbering

	for _, l := range numbering.Levels() {
		selector := "p." + numbering.ClassName(l.NumID, l.Level)
		listStyleType := "none"

		switch {
		case l.Bullet != nil:
			variable := strings.ToLower("--" + r.opts.ClassName + "-" + l.Bullet.ReferenceID)
			sb.WriteString(styleToString(selector+":before", model.CSS{
				"content":    "' '",
				"display":    "inline-block",
				"background": "var(" + variable + ")",
			}, l.Bullet.Style))
			jobs = append(jobs, bulletJob{variable: variable, refID: l.Bullet.ReferenceID})

		case l.LevelText != "":
			counter := numbering.Counter(l.NumID, l.Level)
			reset := counterReset(counter, l.Start)
			if l.Level > 0 {
				sb.WriteString(styleToString("p."+numbering.ClassName(l.NumID, l.Level-1), model.CSS{
					"counter-reset": reset,
				}, ""))
			} else {
				rootCounters = append(rootCounters, reset)
			}

			before := l.RStyle.Clone()
			if before == nil {
				before = model.CSS{}
			}
			before["content"] = numbering.Content(l)
			before["counter-increment"] = counter
			sb.WriteString(styleToString(selector+":before", before, ""))

		default:
			listStyleType = docx.NumFormatToCSS(l.Format)
		}

		values := l.PStyle.Clone()
		if values == nil {
			values = model.CSS{}
		}
		values["display"] = "list-item"
		values["list-style-position"] = "inside"
		values["list-style-type"] = listStyleType
		sb.WriteString(styleToString(selector, values, ""))
	}

	if len(rootCounters) > 0 {
		sb.WriteString(styleToString(r.rootSelector(), model.CSS{
			"counter-reset": strings.Join(rootCounters, " "),
		}, ""))
	}
	return sb.String(), jobs
}

// counterReset resets counter so that its first increment yields start.
func counterReset(counter string, start int) string {
	if start == 1 {
		return counter
	}
	return fmt.Sprintf("%s %d", counter, start-1)
}

// rootSelector is where document-wide custom properties and counters live.
func (r *Renderer) rootSelector() string {
	if r.opts.InWrapper {
		return "." + r.opts.ClassName + "-wrapper"
	}
	return ":root"
}

// fontFaceCSS renders the @font-face rule of one embedded font.
func fontFaceCSS(family, url, typ string) string {
	values := model.CSS{
		"font-family": family,
		"src":         "url(" + url + ")",
	}
	if typ == "bold" || typ == "boldItalic" {
		values["font-weight"] = "bold"
	}
	if typ == "italic" || typ == "boldItalic" {
		values["font-style"] = "italic"
	}
	return styleToString("@font-face", values, "")
}
