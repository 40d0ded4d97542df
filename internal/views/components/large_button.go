package components

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"patient-records/internal/theme"
)

// LargeButton is a main-menu button with oversized white text and a fixed
// minimum size.
type LargeButton struct {
	Button    *widget.Button
	label     *canvas.Text
	container *fyne.Container
}

// NewLargeButton creates a large button that calls onTapped when pressed.
func NewLargeButton(text string, th *theme.Theme, onTapped func()) *LargeButton {
	style := th.Style()

	button := widget.NewButton("", onTapped)
	button.Importance = widget.HighImportance

	label := canvas.NewText(text, th.LargeButtonTextColor())
	label.TextSize = style.LargeButtonText
	label.Alignment = fyne.TextAlignCenter

	sizer := canvas.NewRectangle(color.Transparent)
	sizer.SetMinSize(style.LargeButtonMin)

	return &LargeButton{
		Button:    button,
		label:     label,
		container: container.NewStack(sizer, button, container.NewCenter(label)),
	}
}

// Text returns the button caption.
func (lb *LargeButton) Text() string {
	return lb.label.Text
}

// GetContainer returns the button container
func (lb *LargeButton) GetContainer() *fyne.Container {
	return lb.container
}
