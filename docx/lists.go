package docx

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/tsawler/docxhtml/model"
)

// ListLevel is one level of a concrete numbering, with its abstract
// definition and overrides already applied.
type ListLevel struct {
	NumID      string
	Level      int
	PStyleName string
	PStyle     model.CSS
	RStyle     model.CSS
	LevelText  string
	Suffix     string
	Format     string
	Start      int
	Bullet     *BulletPicture
}

type levelKey struct {
	numID string
	level int
}

// NumberingResolver expands every w:num against its abstract definition.
type NumberingResolver struct {
	className string
	levels    []*ListLevel
	byKey     map[levelKey]*ListLevel
	warn      *warningLog
}

// NewNumberingResolver expands defs. styles is used to follow numStyleLink
// references and may be nil.
func NewNumberingResolver(defs *NumberingDefinitions, styles *StyleResolver, opts Options) *NumberingResolver {
	return newNumberingResolver(defs, styles, &opts, newWarningLog(&opts))
}

func newNumberingResolver(defs *NumberingDefinitions, styles *StyleResolver, opts *Options, warn *warningLog) *NumberingResolver {
	r := &NumberingResolver{
		className: opts.ClassName,
		byKey:     make(map[levelKey]*ListLevel),
		warn:      warn,
	}
	if defs == nil {
		return r
	}

	abstracts := make(map[string]*AbstractNumbering, len(defs.Abstract))
	for _, a := range defs.Abstract {
		abstracts[a.ID] = a
	}
	nums := make(map[string]*Numbering, len(defs.Numberings))
	for _, n := range defs.Numberings {
		nums[n.ID] = n
	}
	bullets := make(map[string]*BulletPicture, len(defs.Bullets))
	for _, b := range defs.Bullets {
		bullets[b.ID] = b
	}

	for _, num := range defs.Numberings {
		abs := r.abstractFor(num, abstracts, nums, styles)
		if abs == nil {
			continue
		}

		levels := make(map[int]*NumberingLevel, len(abs.Levels))
		for _, l := range abs.Levels {
			levels[l.Level] = l
		}
		for _, o := range num.Overrides {
			if o.Definition != nil {
				levels[o.Level] = o.Definition
			}
			if o.Start >= 0 {
				if l, ok := levels[o.Level]; ok {
					copied := *l
					copied.Start = o.Start
					levels[o.Level] = &copied
				}
			}
		}

		order := make([]int, 0, len(levels))
		for lvl := range levels {
			order = append(order, lvl)
		}
		sort.Ints(order)

		for _, lvl := range order {
			def := levels[lvl]
			ll := &ListLevel{
				NumID:      num.ID,
				Level:      lvl,
				PStyleName: def.ParagraphStyle,
				PStyle:     def.PStyle,
				RStyle:     def.RStyle,
				LevelText:  def.Text,
				Suffix:     def.Suffix,
				Format:     def.Format,
				Start:      def.Start,
			}
			if def.BulletPictureID != "" {
				if b, ok := bullets[def.BulletPictureID]; ok {
					ll.Bullet = b
				} else {
					warn.add(WarnMissingNumbering, "", fmt.Sprintf("can't find bullet picture %s for numbering %s", def.BulletPictureID, num.ID))
				}
			}
			r.levels = append(r.levels, ll)
			r.byKey[levelKey{num.ID, lvl}] = ll
		}
	}

	r.linkParagraphStyles(styles)
	return r
}

// abstractFor returns the abstract definition of num, following
// numStyleLink through the numbering style it names.
func (r *NumberingResolver) abstractFor(num *Numbering, abstracts map[string]*AbstractNumbering, nums map[string]*Numbering, styles *StyleResolver) *AbstractNumbering {
	seen := map[string]bool{}
	abs := abstracts[num.AbstractID]

	for abs != nil && abs.NumStyleLink != "" && !seen[abs.ID] {
		seen[abs.ID] = true

		style := styles.Find(abs.NumStyleLink)
		if style == nil || style.ParagraphProps == nil || style.ParagraphProps.Numbering == nil {
			r.warn.add(WarnMissingNumbering, "", fmt.Sprintf("can't find numbering style %q", abs.NumStyleLink))
			return abs
		}
		linked, ok := nums[style.ParagraphProps.Numbering.ID]
		if !ok {
			r.warn.add(WarnMissingNumbering, "", fmt.Sprintf("numbering style %q points to missing numbering %s", abs.NumStyleLink, style.ParagraphProps.Numbering.ID))
			return abs
		}
		next := abstracts[linked.AbstractID]
		if next == nil {
			break
		}
		abs = next
	}

	if abs == nil {
		r.warn.add(WarnMissingNumbering, "", fmt.Sprintf("numbering %s refers to missing abstract numbering %s", num.ID, num.AbstractID))
	}
	return abs
}

// linkParagraphStyles gives paragraph styles named by a level's pStyle
// that level.
func (r *NumberingResolver) linkParagraphStyles(styles *StyleResolver) {
	for _, l := range r.levels {
		if l.PStyleName == "" {
			continue
		}
		style := styles.Find(l.PStyleName)
		if style != nil && style.ParagraphProps != nil && style.ParagraphProps.Numbering != nil {
			style.ParagraphProps.Numbering.Level = l.Level
		}
	}
}

// Levels returns every expanded level, grouped by numbering in document
// order.
func (r *NumberingResolver) Levels() []*ListLevel {
	if r == nil {
		return nil
	}
	return r.levels
}

// Level returns the level of numbering numID, or nil.
func (r *NumberingResolver) Level(numID string, level int) *ListLevel {
	if r == nil {
		return nil
	}
	return r.byKey[levelKey{numID, level}]
}

// ClassName is the paragraph class of a list level. It doubles as the CSS
// counter name.
func (r *NumberingResolver) ClassName(numID string, level int) string {
	return fmt.Sprintf("%s-num-%s-%d", r.className, numID, level)
}

// Counter returns the CSS counter of a list level.
func (r *NumberingResolver) Counter(numID string, level int) string {
	return r.ClassName(numID, level)
}

var levelPlaceholder = regexp.MustCompile(`%(\d+)`)

var levelSuffixes = map[string]string{
	"tab":   `\9`,
	"space": `\a0`,
}

// Content converts a level's text such as "%1.%2)" into a CSS content
// value. Each placeholder becomes a counter of the level it names, in that
// level's number format.
func (r *NumberingResolver) Content(l *ListLevel) string {
	text := l.LevelText
	if l.Format == "bullet" {
		text = bulletChar(text, l.Level)
	}

	var sb strings.Builder
	sb.WriteByte('"')
	last := 0
	for _, m := range levelPlaceholder.FindAllStringSubmatchIndex(text, -1) {
		sb.WriteString(escapeCSSString(text[last:m[0]]))

		n, _ := strconv.Atoi(text[m[2]:m[3]])
		format := l.Format
		if ref := r.Level(l.NumID, n-1); ref != nil {
			format = ref.Format
		}
		fmt.Fprintf(&sb, `"counter(%s, %s)"`, r.Counter(l.NumID, n-1), NumFormatToCSS(format))
		last = m[1]
	}
	sb.WriteString(escapeCSSString(text[last:]))
	sb.WriteString(levelSuffixes[l.Suffix])
	sb.WriteByte('"')
	return sb.String()
}

func escapeCSSString(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

var numFormats = map[string]string{
	"none":        "none",
	"bullet":      "disc",
	"decimal":     "decimal",
	"lowerLetter": "lower-alpha",
	"upperLetter": "upper-alpha",
	"lowerRoman":  "lower-roman",
	"upperRoman":  "upper-roman",
}

// NumFormatToCSS maps a w:numFmt value to a CSS list-style-type. Formats
// without a CSS counterpart pass through unchanged.
func NumFormatToCSS(format string) string {
	if v, ok := numFormats[format]; ok {
		return v
	}
	return format
}

// bulletChar returns lvlText when it renders without a symbol font and a
// standard bullet for the level otherwise.
func bulletChar(lvlText string, level int) string {
	bullets := []string{"•", "○", "■", "□", "▪", "▫", "►", "◦"}

	if lvlText != "" && !strings.Contains(lvlText, "%") && isRenderableBullet(lvlText) {
		return lvlText
	}
	if level >= 0 && level < len(bullets) {
		return bullets[level]
	}
	return "•"
}

// isRenderableBullet reports false for Private Use Area characters, which
// Word draws with Symbol or Wingdings, and for control characters.
func isRenderableBullet(s string) bool {
	for _, r := range s {
		if r >= 0xE000 && r <= 0xF8FF {
			return false
		}
		if r < 0x20 {
			return false
		}
	}
	return len(s) > 0
}
