package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"patient-records/internal/models"
)

// PatientList shows a search box above one button per patient.
type PatientList struct {
	container   *fyne.Container
	searchEntry *widget.Entry
	items       *fyne.Container
	emptyLabel  *widget.Label
	buttons     []*widget.Button

	searchHandler func(string)
	selectHandler func(models.PatientRecord)
	suppress      bool
}

// NewPatientList creates a new patient list component
func NewPatientList() *PatientList {
	pl := &PatientList{}
	pl.createComponents()
	pl.buildLayout()
	return pl
}

func (pl *PatientList) createComponents() {
	pl.searchEntry = widget.NewEntry()
	pl.searchEntry.SetPlaceHolder("Search by Patient ID or Name")
	pl.searchEntry.OnChanged = func(term string) {
		if pl.suppress || pl.searchHandler == nil {
			return
		}
		pl.searchHandler(term)
	}

	pl.emptyLabel = widget.NewLabel("No patients found")
	pl.items = container.NewVBox()
}

func (pl *PatientList) buildLayout() {
	pl.container = container.NewBorder(
		container.NewVBox(
			widget.NewLabel("Click on a patient ID to view details."),
			pl.searchEntry,
		),
		nil, nil, nil,
		container.NewVScroll(pl.items),
	)
}

// SetSearchHandler is called with the new term on every keystroke.
func (pl *PatientList) SetSearchHandler(handler func(string)) {
	pl.searchHandler = handler
}

// SetSelectHandler is called with the patient whose button was tapped.
func (pl *PatientList) SetSelectHandler(handler func(models.PatientRecord)) {
	pl.selectHandler = handler
}

// SetSearchTerm replaces the search text without notifying the handler.
func (pl *PatientList) SetSearchTerm(term string) {
	pl.suppress = true
	pl.searchEntry.SetText(term)
	pl.suppress = false
}

// SearchEntry returns the search input.
func (pl *PatientList) SearchEntry() *widget.Entry {
	return pl.searchEntry
}

// UpdatePatients replaces the listed patients. The order is kept as given.
func (pl *PatientList) UpdatePatients(patients []models.PatientRecord) {
	pl.buttons = pl.buttons[:0]
	objects := make([]fyne.CanvasObject, 0, len(patients))

	for _, p := range patients {
		patient := p
		button := widget.NewButton(patient.Summary(), func() {
			if pl.selectHandler != nil {
				pl.selectHandler(patient)
			}
		})
		button.Alignment = widget.ButtonAlignLeading
		pl.buttons = append(pl.buttons, button)
		objects = append(objects, button)
	}

	if len(objects) == 0 {
		objects = append(objects, pl.emptyLabel)
	}

	pl.items.Objects = objects
	pl.items.Refresh()
}

// Buttons returns the per-patient buttons in display order.
func (pl *PatientList) Buttons() []*widget.Button {
	return pl.buttons
}

// GetContainer returns the patient list container
func (pl *PatientList) GetContainer() *fyne.Container {
	return pl.container
}
