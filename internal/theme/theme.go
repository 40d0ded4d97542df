// Package theme builds the application's look once at startup. A Theme is
// never modified after New returns; views read sizes from it.
package theme

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
	fynetheme "fyne.io/fyne/v2/theme"
)

// Style holds every size the views use.
type Style struct {
	TitleSize       float32
	HeadingSize     float32
	SubHeadingSize  float32
	TextSize        float32
	CaptionSize     float32
	LargeButtonText float32
	LargeButtonMin  fyne.Size
	GridSpacing     fyne.Size
}

// DefaultStyle matches the layout operators are used to: large type and
// oversized main-menu buttons.
func DefaultStyle() Style {
	return Style{
		TitleSize:       64,
		HeadingSize:     30,
		SubHeadingSize:  25,
		TextSize:        36,
		CaptionSize:     18,
		LargeButtonText: 36,
		LargeButtonMin:  fyne.NewSize(750, 125),
		GridSpacing:     fyne.NewSize(40, 20),
	}
}

// Theme implements fyne.Theme on top of the default theme.
type Theme struct {
	style Style
	font  fyne.Resource
	base  fyne.Theme
}

var _ fyne.Theme = (*Theme)(nil)

// New builds a theme from style. fontPath may name a TTF file used for all
// regular text; the empty string keeps the toolkit font.
func New(style Style, fontPath string) (*Theme, error) {
	t := &Theme{
		style: style,
		base:  fynetheme.DefaultTheme(),
	}

	if fontPath != "" {
		data, err := os.ReadFile(fontPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load font: %w", err)
		}
		t.font = fyne.NewStaticResource(filepath.Base(fontPath), data)
	}

	return t, nil
}

// Style returns a copy of the sizes the theme was built with.
func (t *Theme) Style() Style {
	return t.style
}

func (t *Theme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	return t.base.Color(name, variant)
}

func (t *Theme) Font(style fyne.TextStyle) fyne.Resource {
	if t.font != nil && !style.Monospace && !style.Symbol {
		return t.font
	}
	return t.base.Font(style)
}

func (t *Theme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

func (t *Theme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case fynetheme.SizeNameText:
		return t.style.TextSize
	case fynetheme.SizeNameHeadingText:
		return t.style.HeadingSize
	case fynetheme.SizeNameSubHeadingText:
		return t.style.SubHeadingSize
	case fynetheme.SizeNameCaptionText:
		return t.style.CaptionSize
	default:
		return t.base.Size(name)
	}
}

// LargeButtonTextColor is the label colour of main-menu buttons.
func (t *Theme) LargeButtonTextColor() color.Color {
	return color.White
}
