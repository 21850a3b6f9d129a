package color_test

import (
	"testing"

	"bennypowers.dev/cssvar/internal/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitFunction(t *testing.T) {
	tests := []struct {
		input   string
		want    color.Function
		rebuilt string
	}{
		{
			input:   "rgb(1, 2, 3)",
			want:    color.Function{Name: "rgb", Args: []string{"1", "2", "3"}, Legacy: true},
			rebuilt: "rgb(1, 2, 3)",
		},
		{
			input:   "rgba(var(--r, 0), 2, 3, .5)",
			want:    color.Function{Name: "rgba", Args: []string{"var(--r, 0)", "2", "3"}, Alpha: ".5", Legacy: true},
			rebuilt: "rgba(var(--r, 0), 2, 3, .5)",
		},
		{
			input:   "hsl(var(--h)  100%\t50% / var(--a))",
			want:    color.Function{Name: "hsl", Args: []string{"var(--h)", "100%", "50%"}, Alpha: "var(--a)"},
			rebuilt: "hsl(var(--h) 100% 50% / var(--a))",
		},
		{
			input:   "RGB(var(--rgb))",
			want:    color.Function{Name: "rgb", Args: []string{"var(--rgb)"}},
			rebuilt: "rgb(var(--rgb))",
		},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			fn, ok := color.SplitFunction(tt.input)
			require.True(t, ok)
			assert.Equal(t, tt.want, fn)
			assert.Equal(t, tt.rebuilt, fn.String())
		})
	}
}

func TestIsFunction(t *testing.T) {
	assert.True(t, color.IsFunction("lab(50% 0 0)"))
	assert.False(t, color.IsFunction("rgb()"))
	assert.False(t, color.IsFunction("rgb(1 2 3) red"))
	assert.False(t, color.IsFunction("color(srgb 1 0 0)"))
	assert.False(t, color.IsFunction("var(--x)"))
}
