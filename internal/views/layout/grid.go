package layout

import (
	"fyne.io/fyne/v2"
)

// SpacedGridLayout arranges objects in a fixed number of columns with
// explicit horizontal and vertical gaps. Every cell takes the size of the
// largest object's minimum so the menu buttons line up.
type SpacedGridLayout struct {
	columns int
	spacing fyne.Size
}

func NewSpacedGridLayout(columns int, spacing fyne.Size) *SpacedGridLayout {
	if columns < 1 {
		columns = 1
	}
	return &SpacedGridLayout{
		columns: columns,
		spacing: spacing,
	}
}

func (sgl *SpacedGridLayout) Layout(objects []fyne.CanvasObject, containerSize fyne.Size) {
	visible := visibleObjects(objects)
	if len(visible) == 0 {
		return
	}

	cell := sgl.cellSize(visible)
	for i, obj := range visible {
		col := i % sgl.columns
		row := i / sgl.columns

		x := float32(col) * (cell.Width + sgl.spacing.Width)
		y := float32(row) * (cell.Height + sgl.spacing.Height)
		obj.Resize(cell)
		obj.Move(fyne.NewPos(x, y))
	}
}

func (sgl *SpacedGridLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	visible := visibleObjects(objects)
	if len(visible) == 0 {
		return fyne.NewSize(0, 0)
	}

	cell := sgl.cellSize(visible)
	cols := sgl.columns
	if len(visible) < cols {
		cols = len(visible)
	}
	rows := (len(visible) + sgl.columns - 1) / sgl.columns

	width := float32(cols)*cell.Width + float32(cols-1)*sgl.spacing.Width
	height := float32(rows)*cell.Height + float32(rows-1)*sgl.spacing.Height
	return fyne.NewSize(width, height)
}

func (sgl *SpacedGridLayout) cellSize(objects []fyne.CanvasObject) fyne.Size {
	var cell fyne.Size
	for _, obj := range objects {
		cell = cell.Max(obj.MinSize())
	}
	return cell
}

func visibleObjects(objects []fyne.CanvasObject) []fyne.CanvasObject {
	visible := make([]fyne.CanvasObject, 0, len(objects))
	for _, obj := range objects {
		if obj.Visible() {
			visible = append(visible, obj)
		}
	}
	return visible
}
