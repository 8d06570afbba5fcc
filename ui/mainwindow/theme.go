package mainwindow

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// DetailistTheme keeps the default look with an accent that stands out
// against screenshots and a darker backdrop behind the panes.
type DetailistTheme struct{}

var _ fyne.Theme = (*DetailistTheme)(nil)

func (t *DetailistTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return color.NRGBA{R: 0xE6, G: 0x4A, B: 0x19, A: 0xFF} // heatmap orange
	case theme.ColorNameSelection:
		return color.NRGBA{R: 0xE6, G: 0x4A, B: 0x19, A: 0x60}
	case theme.ColorNameScrollBar:
		return color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xFF}
	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

func (t *DetailistTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *DetailistTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *DetailistTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 3 // panes sit close together
	default:
		return theme.DefaultTheme().Size(name)
	}
}
