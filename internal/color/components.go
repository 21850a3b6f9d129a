package color

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/mazznoer/csscolorparser"
)

var numberPattern = regexp.MustCompile(`^([+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?)(%|deg|rad|grad|turn)?$`)

type component struct {
	value float64
	unit  string
	none  bool
}

func parseComponent(s string) (component, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "none" {
		return component{none: true}, true
	}
	m := numberPattern.FindStringSubmatch(s)
	if m == nil {
		return component{}, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return component{}, false
	}
	return component{value: v, unit: m[2]}, true
}

func (c component) isAngle() bool {
	switch c.unit {
	case "deg", "rad", "grad", "turn":
		return true
	}
	return false
}

// hue converts to degrees; percentages are not hues
func (c component) hue() (float64, bool) {
	if c.none {
		return 0, true
	}
	switch c.unit {
	case "", "deg":
		return c.value, true
	case "rad":
		return c.value * 180 / math.Pi, true
	case "grad":
		return c.value * 0.9, true
	case "turn":
		return c.value * 360, true
	}
	return 0, false
}

// fraction maps a percentage or plain number onto [0, 1] given the plain
// number's full scale
func (c component) fraction(scale float64) (float64, bool) {
	if c.none {
		return 0, true
	}
	switch c.unit {
	case "%":
		return c.value / 100, true
	case "":
		return c.value / scale, true
	}
	return 0, false
}

// scaled maps a percentage onto a reference range, plain numbers as-is
func (c component) scaled(full float64) (float64, bool) {
	if c.none {
		return 0, true
	}
	switch c.unit {
	case "%":
		return c.value / 100 * full, true
	case "":
		return c.value, true
	}
	return 0, false
}

func fromFunction(fn Function) (csscolorparser.Color, bool) {
	if len(fn.Args) != 3 {
		return csscolorparser.Color{}, false
	}
	if fn.Legacy && !strings.HasPrefix(fn.Name, "rgb") && !strings.HasPrefix(fn.Name, "hsl") {
		return csscolorparser.Color{}, false
	}

	var cs [3]component
	for i, arg := range fn.Args {
		c, ok := parseComponent(arg)
		if !ok {
			return csscolorparser.Color{}, false
		}
		cs[i] = c
	}

	alpha := 1.0
	if fn.Alpha != "" {
		c, ok := parseComponent(fn.Alpha)
		if !ok {
			return csscolorparser.Color{}, false
		}
		if alpha, ok = c.fraction(1); !ok {
			return csscolorparser.Color{}, false
		}
		alpha = clamp01(alpha)
	}

	switch fn.Name {
	case "rgb", "rgba":
		var ch [3]float64
		for i, c := range cs {
			v, ok := c.fraction(255)
			if !ok {
				return csscolorparser.Color{}, false
			}
			ch[i] = v
		}
		return csscolorparser.Color{R: ch[0], G: ch[1], B: ch[2], A: alpha}, true

	case "hsl", "hsla", "hwb":
		h, ok := cs[0].hue()
		if !ok {
			return csscolorparser.Color{}, false
		}
		x, ok1 := cs[1].fraction(100)
		y, ok2 := cs[2].fraction(100)
		if !ok1 || !ok2 || cs[1].isAngle() || cs[2].isAngle() {
			return csscolorparser.Color{}, false
		}
		if fn.Name == "hwb" {
			return csscolorparser.FromHwb(h, x, y, alpha), true
		}
		return csscolorparser.FromHsl(h, x, y, alpha), true

	case "lab":
		l, ok1 := cs[0].scaled(100)
		a, ok2 := cs[1].scaled(125)
		b, ok3 := cs[2].scaled(125)
		if !ok1 || !ok2 || !ok3 {
			return csscolorparser.Color{}, false
		}
		return labToRGB(l, a, b, alpha), true

	case "lch":
		l, ok1 := cs[0].scaled(100)
		c, ok2 := cs[1].scaled(150)
		h, ok3 := cs[2].hue()
		if !ok1 || !ok2 || !ok3 {
			return csscolorparser.Color{}, false
		}
		return lchToRGB(l, c, h, alpha), true
	}
	return csscolorparser.Color{}, false
}
