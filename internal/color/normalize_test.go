package color_test

import (
	"testing"

	"bennypowers.dev/cssvar/internal/color"
	"github.com/mazznoer/csscolorparser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"transparent", "transparent", "rgba(0, 0, 0, 0)"},
		{"named", "tomato", "rgb(255, 99, 71)"},
		{"named uppercase", "RebeccaPurple", "rgb(102, 51, 153)"},
		{"hex3", "#333", "rgb(51, 51, 51)"},
		{"hex4", "#3333", "rgba(51, 51, 51, 0.2)"},
		{"hex6", "#333333", "rgb(51, 51, 51)"},
		{"hex8", "#33333333", "rgba(51, 51, 51, 0.2)"},
		{"hex8 alpha rounds", "#12345678", "rgba(18, 52, 86, 0.47)"},
		{"hex8 nearly opaque", "#123456fe", "rgb(18, 52, 86)"},
		{"rgb", "rgb(25, 60, 30)", "rgb(25, 60, 30)"},
		{"rgba", "rgba(25, 60, 30, 0.5)", "rgba(25, 60, 30, 0.5)"},
		{"rgb modern", "rgb(25 60 30 / 50%)", "rgba(25, 60, 30, 0.5)"},
		{"rgb percentages", "rgb(100% 0% 0%)", "rgb(255, 0, 0)"},
		{"hsl legacy", "hsl(235, 100%, 50%)", "rgb(0, 21, 255)"},
		{"hsl modern", "hsl(235 100% 50%)", "rgb(0, 21, 255)"},
		{"hsla slash", "hsla(235 100% 50% / .5)", "rgba(0, 21, 255, 0.5)"},
		{"hsl turn", "hsl(0.5turn 100% 50%)", "rgb(0, 255, 255)"},
		{"hsl negative hue wraps", "hsl(-125 100% 50%)", "rgb(0, 21, 255)"},
		{"hsl large hue wraps", "hsl(595deg 100% 50%)", "rgb(0, 21, 255)"},
		{"hwb", "hwb(194 0% 0%)", "rgb(0, 195, 255)"},
		{"hwb alpha", "hwb(194 0% 0% / .5)", "rgba(0, 195, 255, 0.5)"},
		{"hwb whiteness and blackness saturate to gray", "hwb(0 60% 60%)", "rgb(128, 128, 128)"},
		{"hsl desaturated", "hsl(90 0% 40%)", "rgb(102, 102, 102)"},
		{"lch", "lch(52.2345% 72.2 56.2)", "rgb(198, 93, 6)"},
		{"lch alpha", "lch(52.2345% 72.2 56.2 / .5)", "rgba(198, 93, 6, 0.5)"},
		// D50 white point; a D65 conversion yields rgb(203, 92, 6)
		{"lab", "lab(52.2345% 40.1645 59.9971)", "rgb(198, 93, 6)"},
		{"lab alpha", "lab(52.2345% 40.1645 59.9971 / .5)", "rgba(198, 93, 6, 0.5)"},
		{"surrounding space", "  #fff  ", "rgb(255, 255, 255)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := color.Normalize(tt.input)
			assert.True(t, got.IsColor)
			assert.Equal(t, tt.want, got.Value)
		})
	}
}

func TestNormalizeRejects(t *testing.T) {
	for _, input := range []string{
		"",
		"#34345",
		"#12",
		"flamingo",
		"color(display-p3 1 0.5 0)",
		"106",
		"123456",
		"abc",
		"face",
		"var(--x)",
		"rgb(1 2)",
		"rgb(1, 2, 3",
		"hwb(194, 0%, 0%)",
		"hsl(10% 100% 50%)",
		"1px solid red",
		"jsblock",
	} {
		t.Run(input, func(t *testing.T) {
			got := color.Normalize(input)
			assert.False(t, got.IsColor)
			assert.Equal(t, input, got.Value)
		})
	}
}

// Output must read back through an independent parser as the same channels
func TestNormalizeRoundTrip(t *testing.T) {
	for _, input := range []string{
		"#0af",
		"#00aaff80",
		"steelblue",
		"rgb(12, 34, 56)",
		"rgba(12, 34, 56, 0.25)",
		"hsl(120, 50%, 25%)",
		"hsl(300 80% 60% / 0.75)",
	} {
		t.Run(input, func(t *testing.T) {
			want, err := csscolorparser.Parse(input)
			require.NoError(t, err)

			got := color.Normalize(input)
			require.True(t, got.IsColor)
			back, err := csscolorparser.Parse(got.Value)
			require.NoError(t, err)

			wr, wg, wb, _ := want.RGBA255()
			br, bg, bb, _ := back.RGBA255()
			assert.InDelta(t, wr, br, 1)
			assert.InDelta(t, wg, bg, 1)
			assert.InDelta(t, wb, bb, 1)
			assert.InDelta(t, want.A, back.A, 0.01)
		})
	}
}

func TestNormalizeMemoized(t *testing.T) {
	first := color.Normalize("hsl(235, 100%, 50%)")
	second := color.Normalize("hsl(235, 100%, 50%)")
	assert.Equal(t, first, second)
}

func TestHex(t *testing.T) {
	hex, ok := color.Hex("rgb(255, 0, 0)")
	require.True(t, ok)
	assert.Equal(t, "#ff0000", hex)

	_, ok = color.Hex("nope")
	assert.False(t, ok)
}
