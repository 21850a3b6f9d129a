// Package color recognizes literal CSS colors and serializes them to a
// canonical rgb()/rgba() form.
package color

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mazznoer/csscolorparser"
)

// Result is the outcome of Normalize. Value is the canonical serialization
// when IsColor is true and the untouched input otherwise.
type Result struct {
	IsColor bool
	Value   string
}

var (
	digitsPattern  = regexp.MustCompile(`^\d+$`)
	hexPattern     = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	keywordPattern = regexp.MustCompile(`^[a-zA-Z]+$`)
	// csscolorparser reads these as prefix-less hex, which CSS does not allow
	hexLettersPattern = regexp.MustCompile(`^[a-fA-F]+$`)
)

const memoSize = 2048

var memo = func() *lru.Cache[string, Result] {
	c, err := lru.New[string, Result](memoSize)
	if err != nil {
		panic(err)
	}
	return c
}()

// Normalize classifies value as a color and serializes it as rgb(r, g, b)
// or rgba(r, g, b, a). It is safe for concurrent use.
func Normalize(value string) Result {
	if r, ok := memo.Get(value); ok {
		return r
	}
	r := Result{Value: value}
	if c, ok := Parse(value); ok {
		r = Result{IsColor: true, Value: Format(c)}
	}
	memo.Add(value, r)
	return r
}

// Parse decodes a literal color: hex, a named keyword, transparent, or one
// of the rgb/hsl/hwb/lab/lch functions.
func Parse(value string) (csscolorparser.Color, bool) {
	v := strings.TrimSpace(value)
	switch {
	case v == "":
		return csscolorparser.Color{}, false
	case digitsPattern.MatchString(v):
		return csscolorparser.Color{}, false
	case strings.HasPrefix(v, "#"):
		if !hexPattern.MatchString(v) {
			return csscolorparser.Color{}, false
		}
		return parseLibrary(v)
	case keywordPattern.MatchString(v):
		if hexLettersPattern.MatchString(v) {
			return csscolorparser.Color{}, false
		}
		return parseLibrary(strings.ToLower(v))
	}
	fn, ok := SplitFunction(v)
	if !ok {
		return csscolorparser.Color{}, false
	}
	return fromFunction(fn)
}

func parseLibrary(v string) (csscolorparser.Color, bool) {
	c, err := csscolorparser.Parse(v)
	if err != nil {
		return csscolorparser.Color{}, false
	}
	return c, true
}

// Format serializes c with channels clamped to gamut and alpha rounded to
// two decimals. An opaque color is written as rgb(), anything else as rgba().
func Format(c csscolorparser.Color) string {
	r := channel255(c.R)
	g := channel255(c.G)
	b := channel255(c.B)
	a := math.Round(clamp01(c.A)*100) / 100
	if a >= 1 {
		return "rgb(" + strconv.Itoa(r) + ", " + strconv.Itoa(g) + ", " + strconv.Itoa(b) + ")"
	}
	return "rgba(" + strconv.Itoa(r) + ", " + strconv.Itoa(g) + ", " + strconv.Itoa(b) + ", " +
		strconv.FormatFloat(a, 'f', -1, 64) + ")"
}

// Hex renders a normalized color as #rrggbb or #rrggbbaa
func Hex(value string) (string, bool) {
	c, ok := Parse(value)
	if !ok {
		return "", false
	}
	return c.HexString(), true
}

func channel255(v float64) int {
	return int(math.Round(clamp01(v) * 255))
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
