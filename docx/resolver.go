package docx

import (
	"fmt"

	"github.com/tsawler/docxhtml/model"
)

// Rule is one CSS rule produced from the document styles.
type Rule struct {
	Selector string
	Values   model.CSS
}

// StyleResolver resolves basedOn inheritance and assigns CSS class names.
// Resolution happens once, when the resolver is built; styles are mutated
// in place.
type StyleResolver struct {
	className string
	styles    []*Style
	byID      map[string]*Style
	resolved  map[*Style]bool
	warn      *warningLog
}

// NewStyleResolver resolves styles against each other.
func NewStyleResolver(styles []*Style, opts Options) *StyleResolver {
	return newStyleResolver(styles, &opts, newWarningLog(&opts))
}

func newStyleResolver(styles []*Style, opts *Options, warn *warningLog) *StyleResolver {
	r := &StyleResolver{
		className: opts.ClassName,
		styles:    styles,
		byID:      make(map[string]*Style, len(styles)),
		resolved:  make(map[*Style]bool, len(styles)),
		warn:      warn,
	}

	for _, s := range styles {
		if s.ID != "" {
			r.byID[s.ID] = s
		}
	}

	for _, s := range styles {
		r.resolve(s, map[*Style]bool{})
	}
	for _, s := range styles {
		s.CSSName = r.CSSName(s.ID)
		if s.Linked != "" && r.byID[s.Linked] == nil {
			warn.add(WarnMissingLinkedStyle, "", fmt.Sprintf("can't find linked style %q of %q", s.Linked, s.ID))
		}
	}

	return r
}

// resolve merges the chain of base styles into s, bases first.
func (r *StyleResolver) resolve(s *Style, visiting map[*Style]bool) {
	if r.resolved[s] || s.BasedOn == "" {
		r.resolved[s] = true
		return
	}
	if visiting[s] {
		r.warn.add(WarnStyleCycle, "", fmt.Sprintf("basedOn chain of %q loops", s.ID))
		return
	}
	visiting[s] = true

	base, ok := r.byID[s.BasedOn]
	if !ok {
		r.warn.add(WarnMissingBaseStyle, "", fmt.Sprintf("can't find base style %q of %q", s.BasedOn, s.ID))
		r.resolved[s] = true
		return
	}

	r.resolve(base, visiting)

	if base.Target != "" && s.Target != "" && base.Target != s.Target {
		r.warn.add(WarnStyleTargetMismatch, "", fmt.Sprintf("style %q (%s) is based on %q (%s)", s.ID, s.Target, base.ID, base.Target))
		r.resolved[s] = true
		return
	}

	s.ParagraphProps = mergeParagraphProps(s.ParagraphProps, base.ParagraphProps)
	s.RunProps = mergeRunProps(s.RunProps, base.RunProps)

	for _, bs := range base.Styles {
		if own := findSubStyle(s.Styles, bs.Target, bs.Mod); own != nil {
			copyMissing(bs.Values, own.Values)
			continue
		}
		s.Styles = append(s.Styles, SubStyle{Target: bs.Target, Mod: bs.Mod, Values: bs.Values.Clone()})
	}

	r.resolved[s] = true
}

func findSubStyle(styles []SubStyle, target, mod string) *SubStyle {
	for i := range styles {
		if styles[i].Target == target && styles[i].Mod == mod {
			return &styles[i]
		}
	}
	return nil
}

// copyMissing adds the keys of from that to does not have.
func copyMissing(from, to model.CSS) {
	for k, v := range from {
		if _, ok := to[k]; !ok {
			to[k] = v
		}
	}
}

// mergeParagraphProps returns derived with unset fields taken from base.
// Neither argument is modified.
func mergeParagraphProps(derived, base *model.ParagraphProperties) *model.ParagraphProperties {
	if base == nil {
		return derived
	}
	out := *base
	if base.Numbering != nil {
		n := *base.Numbering
		out.Numbering = &n
	}
	if derived == nil {
		return &out
	}

	if derived.Section != nil {
		out.Section = derived.Section
	}
	if derived.Tabs != nil {
		out.Tabs = derived.Tabs
	}
	if derived.Numbering != nil {
		n := *derived.Numbering
		out.Numbering = &n
	}
	if derived.TextAlignment != "" {
		out.TextAlignment = derived.TextAlignment
	}
	if derived.LineSpacing != nil {
		out.LineSpacing = derived.LineSpacing
	}
	if derived.KeepLines != nil {
		out.KeepLines = derived.KeepLines
	}
	if derived.KeepNext != nil {
		out.KeepNext = derived.KeepNext
	}
	if derived.PageBreakBefore != nil {
		out.PageBreakBefore = derived.PageBreakBefore
	}
	if derived.OutlineLevel != nil {
		out.OutlineLevel = derived.OutlineLevel
	}
	if derived.StyleName != "" {
		out.StyleName = derived.StyleName
	}
	out.RunProps = mergeRunProps(derived.RunProps, base.RunProps)
	if derived.Color != "" {
		out.Color = derived.Color
	}
	if derived.FontSize != "" {
		out.FontSize = derived.FontSize
	}
	return &out
}

func mergeRunProps(derived, base *model.RunProperties) *model.RunProperties {
	if base == nil {
		return derived
	}
	out := *base
	if derived == nil {
		return &out
	}
	if derived.Color != "" {
		out.Color = derived.Color
	}
	if derived.FontSize != "" {
		out.FontSize = derived.FontSize
	}
	return &out
}

// CSSName returns the class name for a style id.
func (r *StyleResolver) CSSName(id string) string {
	if id == "" {
		return r.className
	}
	return r.className + "_" + EscapeClassName(id)
}

// Find returns the style with the given id, or nil.
func (r *StyleResolver) Find(id string) *Style {
	if r == nil || id == "" {
		return nil
	}
	return r.byID[id]
}

// ParagraphProps returns the resolved paragraph properties of style id, or
// nil when the style is unknown or sets none.
func (r *StyleResolver) ParagraphProps(id string) *model.ParagraphProperties {
	if s := r.Find(id); s != nil {
		return s.ParagraphProps
	}
	return nil
}

// Styles returns every style in document order, docDefaults included.
func (r *StyleResolver) Styles() []*Style {
	if r == nil {
		return nil
	}
	return r.styles
}

// Warnings returns the problems found while resolving.
func (r *StyleResolver) Warnings() []Warning {
	return r.warn.snapshot()
}

// Rules returns the CSS rules for all styles. Linked styles contribute
// their sub-styles, and a missing link is skipped. Default styles also match every element of their
// target inside the document container.
func (r *StyleResolver) Rules() []Rule {
	defaults := map[string]*Style{}
	for _, s := range r.styles {
		if s.IsDefault && defaults[s.Target] == nil {
			defaults[s.Target] = s
		}
	}

	var rules []Rule
	for _, s := range r.styles {
		subStyles := s.Styles
		if s.Linked != "" {
			if linked := r.byID[s.Linked]; linked != nil {
				subStyles = append(append([]SubStyle(nil), subStyles...), linked.Styles...)
			}
		}

		for _, sub := range subStyles {
			selector := s.Target + "." + s.CSSName + sub.Mod
			if s.Target != sub.Target {
				selector += " " + sub.Target
			}
			if s.Target != "" && defaults[s.Target] == s {
				selector = "." + r.className + " " + s.Target + ", " + selector
			}
			rules = append(rules, Rule{Selector: selector, Values: sub.Values})
		}
	}
	return rules
}
