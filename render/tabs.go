package render

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/width"

	"github.com/tsawler/docxhtml/model"
	"github.com/tsawler/docxhtml/units"
)

const (
	maxTabs = 50
	// defaultTabSize applies when the settings part sets no default tab
	// stop, in points.
	defaultTabSize = 36.0
	// defaultFontSize is assumed for text without an explicit size, in
	// points.
	defaultFontSize = 11.0
)

// tabRef is a rendered tab waiting for its width.
type tabRef struct {
	span  *html.Node
	stops []model.Tab
	// width is the text width of the section, 0 when unknown.
	width float64
}

type tabStop struct {
	pos    float64
	leader string
	style  string
}

// contentWidth returns the text width of a section in points.
func contentWidth(props *model.SectionProperties) float64 {
	if props == nil || props.PageSize == nil {
		return 0
	}
	w := lengthToPoint(props.PageSize.Width)
	if m := props.PageMargins; m != nil {
		w -= lengthToPoint(m.Left) + lengthToPoint(m.Right)
	}
	if w < 0 {
		return 0
	}
	return w
}

func lengthToPoint(l model.Length) float64 {
	if l == "" {
		return 0
	}
	if !strings.HasSuffix(l, "pt") {
		return units.ParseTwips(l)
	}
	v, _ := strconv.ParseFloat(strings.TrimSuffix(l, "pt"), 64)
	return v
}

// layoutTabStops sizes every rendered tab to reach its tab stop. Without a
// layout engine, the pen position is estimated from the text before the
// tab.
func (r *Renderer) layoutTabStops(st *renderState) {
	size := defaultTabSize
	if s := r.word.SettingsPart; s != nil && s.Settings != nil && s.Settings.DefaultTabStop != "" {
		if v := lengthToPoint(s.Settings.DefaultTabStop); v > 0 {
			size = v
		}
	}

	widths := make(map[*html.Node]float64, len(st.tabs))
	cls := r.tabStopClass()
	for _, ref := range st.tabs {
		p := closest(ref.span, "p")
		if p == nil {
			continue
		}
		stops := tabStops(ref.stops, size, ref.width)
		left := measureBefore(p, ref.span, widths)

		var tab *tabStop
		for i := range stops {
			if stops[i].style != "clear" && stops[i].pos > left {
				tab = &stops[i]
				break
			}
		}
		if tab == nil {
			continue
		}

		w := tab.pos - left
		if tab.style == "right" || tab.style == "center" {
			mul := 1.0
			if tab.style == "center" {
				mul = 0.5
			}
			w -= mul * measureAfter(p, ref.span, cls)
		}
		if w < 0 {
			w = 0
		}
		widths[ref.span] = w
		applyTabWidth(ref.span, w, tab.leader)
	}
}

// tabStops returns the paragraph stops sorted by position, followed by
// default stops up to the text width.
func tabStops(tabs []model.Tab, size, textWidth float64) []tabStop {
	var stops []tabStop
	for _, t := range tabs {
		stops = append(stops, tabStop{pos: lengthToPoint(t.Position), leader: t.Leader, style: t.Style})
	}
	if len(stops) == 0 {
		stops = []tabStop{{pos: 0, leader: "none", style: "left"}}
	}
	sort.SliceStable(stops, func(i, j int) bool { return stops[i].pos < stops[j].pos })

	limit := textWidth
	if limit <= 0 {
		limit = float64(maxTabs) * size
	}
	for pos := stops[len(stops)-1].pos + size; pos < limit && len(stops) < maxTabs; pos += size {
		stops = append(stops, tabStop{pos: pos, leader: "none", style: "left"})
	}
	return stops
}

// measureBefore estimates the width of p's content ahead of span. Tabs
// already sized count with their width.
func measureBefore(p, span *html.Node, widths map[*html.Node]float64) float64 {
	var total float64
	var walk func(n *html.Node) bool
	walk = func(n *html.Node) bool {
		if n == span {
			return true
		}
		if w, ok := widths[n]; ok {
			total += w
			return false
		}
		if n.Type == html.TextNode {
			total += textWidth(n.Data, fontSize(n))
			return false
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(p)
	return total
}

// measureAfter estimates the width of the text between span and the next
// tab of the paragraph.
func measureAfter(p, span *html.Node, tabClass string) float64 {
	var total float64
	started := false
	var walk func(n *html.Node) bool
	walk = func(n *html.Node) bool {
		if n == span {
			started = true
			return false
		}
		if started && n.Type == html.ElementNode && hasClass(n, tabClass) {
			return true
		}
		if n.Type == html.TextNode {
			if started {
				total += textWidth(n.Data, fontSize(n))
			}
			return false
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(p)
	return total
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(getAttr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// fontSize returns the font size in effect for a text node, in points.
func fontSize(n *html.Node) float64 {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type != html.ElementNode {
			continue
		}
		if v, ok := parseStyle(getAttr(p, "style"))["font-size"]; ok && strings.HasSuffix(v, "pt") {
			if size := lengthToPoint(v); size > 0 {
				return size
			}
		}
		if p.Data == "p" {
			break
		}
	}
	return defaultFontSize
}

// textWidth estimates the advance of s. East Asian wide characters take a
// full em, spaces a quarter, everything else half.
func textWidth(s string, size float64) float64 {
	var em float64
	for _, c := range s {
		switch k := width.LookupRune(c).Kind(); {
		case k == width.EastAsianWide || k == width.EastAsianFullwidth:
			em += 1
		case c == ' ' || c == '\u00a0':
			em += 0.25
		default:
			em += 0.5
		}
	}
	return em * size
}

// applyTabWidth turns a tab span into a fixed-width blank with the leader
// of its stop.
func applyTabWidth(span *html.Node, w float64, leader string) {
	removeChildren(span)
	span.AppendChild(text("\u00a0"))

	css := model.CSS{
		"display":         "inline-block",
		"width":           fmt.Sprintf("%.0fpt", w),
		"text-decoration": "inherit",
	}
	switch leader {
	case "dot", "middleDot":
		css["text-decoration"] = "underline"
		css["text-decoration-style"] = "dotted"
	case "hyphen", "heavy", "underscore":
		css["text-decoration"] = "underline"
	}
	setStyle(span, css)
}
