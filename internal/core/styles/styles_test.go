package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply(t *testing.T) {
	t.Cleanup(func() { _ = Apply(DefaultTheme) })

	require.NoError(t, Apply("gruvbox"))
	want, _ := GetPalette("gruvbox")
	assert.Equal(t, want, CurrentPalette)

	require.NoError(t, Apply(""))
	want, _ = GetPalette(DefaultTheme)
	assert.Equal(t, want, CurrentPalette)

	err := Apply("neon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tokyo-night")
}

func TestThemeNamesSorted(t *testing.T) {
	names := ThemeNames()
	assert.IsIncreasing(t, names)
	assert.Contains(t, names, DefaultTheme)
}

func TestGlamourStyleUsesPalette(t *testing.T) {
	cfg := GlamourStyle()
	require.NotNil(t, cfg.Document.Color)
	assert.Equal(t, "#c0caf5", *cfg.Document.Color)
	assert.Nil(t, cfg.Document.Margin)
}
