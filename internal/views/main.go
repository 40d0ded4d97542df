package views

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"patient-records/internal/models"
	"patient-records/internal/theme"
	"patient-records/internal/views/components"
	"patient-records/internal/views/layout"
)

const welcomeText = "Welcome to the Patient Management System"

// MainView owns the window content and swaps one screen in at a time. It
// holds no application state; the controller decides what is shown.
type MainView struct {
	window        fyne.Window
	theme         *theme.Theme
	mainContainer *fyne.Container
	content       *fyne.Container

	mainScreen       fyne.CanvasObject
	patientScreen    fyne.CanvasObject
	listScreen       fyne.CanvasObject
	medicationScreen fyne.CanvasObject

	menuButtons    map[string]*components.LargeButton
	patientForm    *components.Form
	patientTitle   *canvas.Text
	medicationForm *components.Form
	patientList    *components.PatientList
	statusBar      *components.StatusBar
	buttons        map[string]*widget.Button

	// Event handlers - connected to controller
	addPatientHandler              func()
	viewPatientsHandler            func()
	addMedicationHandler           func()
	exitHandler                    func()
	deletePatientHandler           func()
	savePatientHandler             func()
	savePatientAndReturnHandler    func()
	saveMedicationHandler          func()
	saveMedicationAndReturnHandler func()
	backHandler                    func()
	searchHandler                  func(string)
	selectPatientHandler           func(models.PatientRecord)
}

// NewMainView creates a new main view
func NewMainView(window fyne.Window, th *theme.Theme) *MainView {
	view := &MainView{
		window:      window,
		theme:       th,
		menuButtons: make(map[string]*components.LargeButton),
		buttons:     make(map[string]*widget.Button),
	}

	view.initializeComponents()
	view.buildScreens()
	view.buildLayout()

	return view
}

// initializeComponents creates all UI components
func (mv *MainView) initializeComponents() {
	mv.patientForm = components.NewForm()
	mv.medicationForm = components.NewForm()
	mv.patientList = components.NewPatientList()
	mv.statusBar = components.NewStatusBar()

	mv.patientList.SetSearchHandler(func(term string) {
		if mv.searchHandler != nil {
			mv.searchHandler(term)
		}
	})
	mv.patientList.SetSelectHandler(func(p models.PatientRecord) {
		if mv.selectPatientHandler != nil {
			mv.selectPatientHandler(p)
		}
	})
}

func (mv *MainView) buildScreens() {
	style := mv.theme.Style()

	menu := []struct {
		label   string
		handler *func()
	}{
		{"Add Patient Form", &mv.addPatientHandler},
		{"View Patients", &mv.viewPatientsHandler},
		{"Add Medication Form", &mv.addMedicationHandler},
		{"Exit", &mv.exitHandler},
	}
	grid := container.New(layout.NewSpacedGridLayout(2, style.GridSpacing))
	for _, item := range menu {
		handler := item.handler
		button := components.NewLargeButton(item.label, mv.theme, func() { invoke(*handler) })
		mv.menuButtons[item.label] = button
		grid.Add(button.GetContainer())
	}
	welcome := widget.NewRichTextFromMarkdown("# " + welcomeText)
	mv.mainScreen = container.NewCenter(container.NewVBox(welcome, grid))

	mv.patientTitle = mv.title("Patient Record Form")
	mv.patientScreen = mv.formScreen(mv.patientTitle, mv.patientForm, container.NewHBox(
		mv.button("patient.delete", "Delete", func() { invoke(mv.deletePatientHandler) }),
		mv.button("patient.save", "Save", mv.whenValid(mv.patientForm, "Save Patient", &mv.savePatientHandler)),
		mv.button("patient.saveReturn", "Save and Return", mv.whenValid(mv.patientForm, "Save Patient", &mv.savePatientAndReturnHandler)),
		mv.button("patient.back", "Back to Main", func() { invoke(mv.backHandler) }),
	))

	mv.medicationScreen = mv.formScreen(mv.title("Medication Form"), mv.medicationForm, container.NewHBox(
		mv.button("medication.save", "Save", mv.whenValid(mv.medicationForm, "Save Medication", &mv.saveMedicationHandler)),
		mv.button("medication.saveReturn", "Save and Return", mv.whenValid(mv.medicationForm, "Save Medication", &mv.saveMedicationAndReturnHandler)),
		mv.button("medication.back", "Back to Main", func() { invoke(mv.backHandler) }),
	))

	listHeading := widget.NewRichTextFromMarkdown("# Patient List")
	mv.listScreen = container.NewBorder(
		listHeading,
		mv.button("list.back", "Back to Main", func() { invoke(mv.backHandler) }),
		nil, nil,
		mv.patientList.GetContainer(),
	)
}

// buildLayout constructs the main layout
func (mv *MainView) buildLayout() {
	mv.content = container.NewStack(mv.mainScreen)
	mv.mainContainer = container.NewBorder(
		nil,                         // top
		mv.statusBar.GetContainer(), // bottom
		nil,                         // left
		nil,                         // right
		mv.content,                  // center
	)
	mv.window.SetContent(mv.mainContainer)
}

func (mv *MainView) title(text string) *canvas.Text {
	t := canvas.NewText(text, mv.theme.LargeButtonTextColor())
	t.TextSize = mv.theme.Style().TitleSize
	return t
}

func (mv *MainView) formScreen(title fyne.CanvasObject, form *components.Form, actions fyne.CanvasObject) fyne.CanvasObject {
	return container.NewBorder(
		title,
		actions,
		nil, nil,
		container.NewVScroll(form.GetContainer()),
	)
}

// button creates an action button registered under key, e.g. "patient.save".
func (mv *MainView) button(key, label string, onTapped func()) *widget.Button {
	b := widget.NewButton(label, onTapped)
	mv.buttons[key] = b
	return b
}

// whenValid wraps a save handler so it only runs when every form field
// parsed; otherwise the parse errors are shown.
func (mv *MainView) whenValid(form *components.Form, title string, handler *func()) func() {
	return func() {
		if err := form.Validate(); err != nil {
			mv.ShowError(title, err)
			return
		}
		invoke(*handler)
	}
}

func invoke(handler func()) {
	if handler != nil {
		handler()
	}
}

// Event handler setters - called by the application wiring

func (mv *MainView) SetAddPatientHandler(handler func())    { mv.addPatientHandler = handler }
func (mv *MainView) SetViewPatientsHandler(handler func())  { mv.viewPatientsHandler = handler }
func (mv *MainView) SetAddMedicationHandler(handler func()) { mv.addMedicationHandler = handler }
func (mv *MainView) SetExitHandler(handler func())          { mv.exitHandler = handler }
func (mv *MainView) SetDeletePatientHandler(handler func()) { mv.deletePatientHandler = handler }
func (mv *MainView) SetSavePatientHandler(handler func())   { mv.savePatientHandler = handler }
func (mv *MainView) SetBackHandler(handler func())          { mv.backHandler = handler }

func (mv *MainView) SetSavePatientAndReturnHandler(handler func()) {
	mv.savePatientAndReturnHandler = handler
}

func (mv *MainView) SetSaveMedicationHandler(handler func()) {
	mv.saveMedicationHandler = handler
}

func (mv *MainView) SetSaveMedicationAndReturnHandler(handler func()) {
	mv.saveMedicationAndReturnHandler = handler
}

// SetSearchHandler is called on every change of the patient search box.
func (mv *MainView) SetSearchHandler(handler func(string)) {
	mv.searchHandler = handler
}

// SetSelectPatientHandler is called when a patient in the list is tapped.
func (mv *MainView) SetSelectPatientHandler(handler func(models.PatientRecord)) {
	mv.selectPatientHandler = handler
}

// Screen display methods - called by the application wiring

// ShowMain displays the main menu
func (mv *MainView) ShowMain() {
	mv.show(mv.mainScreen)
}

// ShowPatientForm binds record to the patient form and displays it
func (mv *MainView) ShowPatientForm(record *models.PatientRecord, existing bool) {
	if existing {
		mv.patientTitle.Text = "Edit Patient Record"
	} else {
		mv.patientTitle.Text = record.FormTitle()
	}
	mv.patientTitle.Refresh()
	mv.patientForm.Bind(record)
	mv.show(mv.patientScreen)
}

// ShowPatientList displays the patient list with the given search text
func (mv *MainView) ShowPatientList(term string, patients []models.PatientRecord) {
	mv.patientList.SetSearchTerm(term)
	mv.patientList.UpdatePatients(patients)
	mv.show(mv.listScreen)
}

// UpdatePatientList refreshes the listed patients without touching the search box
func (mv *MainView) UpdatePatientList(patients []models.PatientRecord) {
	mv.patientList.UpdatePatients(patients)
}

// ShowMedicationForm binds med to the medication form and displays it
func (mv *MainView) ShowMedicationForm(med *models.Medication) {
	mv.medicationForm.Bind(med)
	mv.show(mv.medicationScreen)
}

func (mv *MainView) show(screen fyne.CanvasObject) {
	mv.content.Objects = []fyne.CanvasObject{screen}
	mv.content.Refresh()
}

// Button returns the action button registered under key, or nil.
func (mv *MainView) Button(key string) *widget.Button {
	return mv.buttons[key]
}

// MenuButton returns the main menu button with the given label, or nil.
func (mv *MainView) MenuButton(label string) *components.LargeButton {
	return mv.menuButtons[label]
}

// PatientForm returns the patient form component
func (mv *MainView) PatientForm() *components.Form {
	return mv.patientForm
}

// MedicationForm returns the medication form component
func (mv *MainView) MedicationForm() *components.Form {
	return mv.medicationForm
}

// PatientList returns the patient list component
func (mv *MainView) PatientList() *components.PatientList {
	return mv.patientList
}

// StatusBar returns the status bar component
func (mv *MainView) StatusBar() *components.StatusBar {
	return mv.statusBar
}

// Current returns the screen currently displayed
func (mv *MainView) Current() fyne.CanvasObject {
	if len(mv.content.Objects) == 0 {
		return nil
	}
	return mv.content.Objects[0]
}

// UpdateStatus updates the status bar message
func (mv *MainView) UpdateStatus(status string) {
	mv.statusBar.SetStatus(status)
}

// SetStoreInfo updates the store summary in the status bar
func (mv *MainView) SetStoreInfo(dir string, patients int) {
	mv.statusBar.SetStoreInfo(dir, patients)
}

// ShowError displays an error dialog
func (mv *MainView) ShowError(title string, err error) {
	d := dialog.NewError(err, mv.window)
	d.Show()
	mv.statusBar.SetStatus(title + " failed")
}

// GetContainer returns the main container
func (mv *MainView) GetContainer() *fyne.Container {
	return mv.mainContainer
}

// Show displays the view
func (mv *MainView) Show() {
	mv.window.Show()
}
