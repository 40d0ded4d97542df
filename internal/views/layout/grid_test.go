package layout

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"github.com/stretchr/testify/assert"
)

func rect(w, h float32) *canvas.Rectangle {
	r := canvas.NewRectangle(nil)
	r.SetMinSize(fyne.NewSize(w, h))
	return r
}

func TestSpacedGridLayout_MinSize(t *testing.T) {
	l := NewSpacedGridLayout(2, fyne.NewSize(40, 20))
	objects := []fyne.CanvasObject{rect(100, 50), rect(120, 40), rect(80, 60), rect(90, 30)}

	assert.Equal(t, fyne.NewSize(2*120+40, 2*60+20), l.MinSize(objects))
}

func TestSpacedGridLayout_MinSizeSingleRow(t *testing.T) {
	l := NewSpacedGridLayout(2, fyne.NewSize(40, 20))

	assert.Equal(t, fyne.NewSize(100, 50), l.MinSize([]fyne.CanvasObject{rect(100, 50)}))
	assert.Equal(t, fyne.NewSize(0, 0), l.MinSize(nil))
}

func TestSpacedGridLayout_Layout(t *testing.T) {
	l := NewSpacedGridLayout(2, fyne.NewSize(40, 20))
	objects := []fyne.CanvasObject{rect(100, 50), rect(100, 50), rect(100, 50)}

	l.Layout(objects, fyne.NewSize(500, 500))

	assert.Equal(t, fyne.NewPos(0, 0), objects[0].Position())
	assert.Equal(t, fyne.NewPos(140, 0), objects[1].Position())
	assert.Equal(t, fyne.NewPos(0, 70), objects[2].Position())
	assert.Equal(t, fyne.NewSize(100, 50), objects[2].Size())
}

func TestSpacedGridLayout_SkipsHidden(t *testing.T) {
	l := NewSpacedGridLayout(2, fyne.NewSize(10, 10))
	hidden := rect(300, 300)
	hidden.Hide()
	objects := []fyne.CanvasObject{hidden, rect(50, 50)}

	l.Layout(objects, fyne.NewSize(500, 500))

	assert.Equal(t, fyne.NewPos(0, 0), objects[1].Position())
	assert.Equal(t, fyne.NewSize(50, 50), l.MinSize(objects))
}
