package theme

import (
	"os"
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2"
	fynetheme "fyne.io/fyne/v2/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTheme_Sizes(t *testing.T) {
	th, err := New(DefaultStyle(), "")
	require.NoError(t, err)

	assert.Equal(t, float32(36), th.Size(fynetheme.SizeNameText))
	assert.Equal(t, float32(30), th.Size(fynetheme.SizeNameHeadingText))
	assert.Equal(t, float32(25), th.Size(fynetheme.SizeNameSubHeadingText))
	assert.Equal(t, float32(18), th.Size(fynetheme.SizeNameCaptionText))
	assert.Equal(t, fynetheme.DefaultTheme().Size(fynetheme.SizeNamePadding), th.Size(fynetheme.SizeNamePadding))
	assert.Equal(t, fyne.NewSize(750, 125), th.Style().LargeButtonMin)
}

func TestTheme_StyleIsACopy(t *testing.T) {
	th, err := New(DefaultStyle(), "")
	require.NoError(t, err)

	s := th.Style()
	s.TextSize = 99
	assert.Equal(t, float32(36), th.Size(fynetheme.SizeNameText))
}

func TestTheme_CustomFont(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Custom.ttf")
	require.NoError(t, os.WriteFile(path, []byte("not really a font"), 0o644))

	th, err := New(DefaultStyle(), path)
	require.NoError(t, err)

	assert.Equal(t, "Custom.ttf", th.Font(fyne.TextStyle{}).Name())
	assert.Equal(t, "Custom.ttf", th.Font(fyne.TextStyle{Bold: true}).Name())
	assert.NotEqual(t, "Custom.ttf", th.Font(fyne.TextStyle{Monospace: true}).Name())
}

func TestTheme_MissingFont(t *testing.T) {
	_, err := New(DefaultStyle(), filepath.Join(t.TempDir(), "missing.ttf"))
	assert.Error(t, err)
}
