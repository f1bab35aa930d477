// Package units converts WordprocessingML measurements into CSS lengths.
//
// Word stores most sizes as integers in a unit that depends on the element:
// twentieths of a point for page geometry and indentation, half points for
// font sizes, eighths of a point for borders, English Metric Units for
// drawings and so on. A Usage pairs the multiplier for one of those units
// with the CSS unit the converted value is expressed in.
package units

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Usage describes how a raw integer attribute maps onto a CSS length.
type Usage struct {
	Mul  float64
	Unit string
}

// Fixed usages found in WordprocessingML.
var (
	Dxa        = Usage{Mul: 0.05, Unit: "pt"}        // twentieths of a point
	Emu        = Usage{Mul: 1 / 12700.0, Unit: "pt"} // English Metric Units
	FontSize   = Usage{Mul: 0.5, Unit: "pt"}         // half points
	Border     = Usage{Mul: 0.125, Unit: "pt"}       // eighths of a point
	Point      = Usage{Mul: 1, Unit: "pt"}
	Percent    = Usage{Mul: 0.02, Unit: "%"} // fiftieths of a percent
	LineHeight = Usage{Mul: 1 / 240.0, Unit: ""}
	VmlEmu     = Usage{Mul: 1 / 12700.0, Unit: ""}
)

// hasUnit matches values that already carry a CSS unit.
var hasUnit = regexp.MustCompile(`.+(p[xt]|[%])$`)

// Convert turns a raw attribute value into a CSS length using u.
//
// Empty input yields an empty string. Values that already end in pt, px or %
// are returned unchanged. Other values are parsed as integers and scaled;
// anything that is not an integer yields an empty string.
func Convert(val string, u Usage) string {
	if val == "" {
		return ""
	}
	if hasUnit.MatchString(val) {
		return val
	}

	n, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		// Some producers write decimals where integers are expected.
		f, ferr := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if ferr != nil {
			return ""
		}
		n = int(f)
	}

	return Format(float64(n)*u.Mul, u.Unit)
}

// Format renders v with two decimals followed by unit.
func Format(v float64, unit string) string {
	return fmt.Sprintf("%.2f%s", v, unit)
}

// Bool decodes an OOXML on/off value. Values other than the recognised
// spellings return def.
func Bool(v string, def bool) bool {
	switch v {
	case "1", "on", "true":
		return true
	case "0", "off", "false":
		return false
	}
	return def
}

// Percentage parses a percentage attribute stored as hundredths.
func Percentage(v string) (float64, bool) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return float64(n) / 100, true
}

// AddSize combines two CSS lengths into a calc() expression. If either side
// is empty the other one is returned as is.
func AddSize(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return fmt.Sprintf("calc(%s + %s)", a, b)
}

// ParseTwips parses a twentieths-of-a-point attribute into points.
func ParseTwips(v string) float64 {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return float64(n) / 20
}
