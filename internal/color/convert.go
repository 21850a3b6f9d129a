package color

import (
	"math"

	"github.com/mazznoer/csscolorparser"
)

// D50 reference white, used by the CIE spaces
var (
	d50X = 0.3457 / 0.3585
	d50Y = 1.0
	d50Z = (1 - 0.3457 - 0.3585) / 0.3585

	labK = math.Pow(29, 3) / math.Pow(3, 3)
	labE = math.Pow(6, 3) / math.Pow(29, 3)
)

// labToRGB converts CIE Lab relative to the D50 white point, as CSS lab()
// is defined. csscolorparser.FromLab assumes D65 and drifts visibly.
func labToRGB(l, a, b, alpha float64) csscolorparser.Color {
	fy := (l + 16) / 116
	fx := a/500 + fy
	fz := fy - b/200

	x := labInverse(fx) * d50X
	y := labInverse(fy) * d50Y
	z := labInverse(fz) * d50Z

	return csscolorparser.Color{
		R: gammaEncode(x*3.1341359569958707 - y*1.6173863321612538 - 0.4906619460083532*z),
		G: gammaEncode(x*-0.978795502912089 + y*1.916254567259524 + 0.03344273116131949*z),
		B: gammaEncode(x*0.07195537988411677 - y*0.2289768264158322 + 1.405386058324125*z),
		A: alpha,
	}
}

func lchToRGB(l, c, h, alpha float64) csscolorparser.Color {
	var a, b float64
	if c != 0 {
		rad := h / 180 * math.Pi
		a = c * math.Cos(rad)
		b = c * math.Sin(rad)
	}
	return labToRGB(l, a, b, alpha)
}

func labInverse(v float64) float64 {
	if cube := v * v * v; cube > labE {
		return cube
	}
	return (116*v - 16) / labK
}

// gammaEncode converts a linear-light channel to sRGB
func gammaEncode(c float64) float64 {
	abs := math.Abs(c)
	if abs <= 0.0031308 {
		return c * 12.92
	}
	sign := 1.0
	if c < 0 {
		sign = -1
	}
	return sign * (1.055*math.Pow(abs, 1/2.4) - 0.055)
}
