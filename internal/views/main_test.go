package views

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patient-records/internal/models"
	"patient-records/internal/theme"
)

func newTestView(t *testing.T) *MainView {
	t.Helper()
	app := test.NewTempApp(t)
	th, err := theme.New(theme.DefaultStyle(), "")
	require.NoError(t, err)
	return NewMainView(app.NewWindow("Patient Form"), th)
}

func TestMainView_StartsOnMainMenu(t *testing.T) {
	mv := newTestView(t)

	assert.Same(t, mv.mainScreen, mv.Current())
	assert.Same(t, mv.GetContainer(), mv.window.Content())
	for _, label := range []string{"Add Patient Form", "View Patients", "Add Medication Form", "Exit"} {
		require.NotNil(t, mv.MenuButton(label), label)
	}
}

func TestMainView_MenuButtonsCallHandlers(t *testing.T) {
	mv := newTestView(t)

	var called []string
	mv.SetAddPatientHandler(func() { called = append(called, "add") })
	mv.SetViewPatientsHandler(func() { called = append(called, "view") })
	mv.SetAddMedicationHandler(func() { called = append(called, "med") })
	mv.SetExitHandler(func() { called = append(called, "exit") })

	test.Tap(mv.MenuButton("Add Patient Form").Button)
	test.Tap(mv.MenuButton("View Patients").Button)
	test.Tap(mv.MenuButton("Add Medication Form").Button)
	test.Tap(mv.MenuButton("Exit").Button)

	assert.Equal(t, []string{"add", "view", "med", "exit"}, called)
}

func TestMainView_UnsetHandlersAreIgnored(t *testing.T) {
	mv := newTestView(t)

	assert.NotPanics(t, func() {
		test.Tap(mv.MenuButton("Exit").Button)
		test.Tap(mv.Button("list.back"))
	})
}

func TestMainView_ShowPatientFormBindsRecord(t *testing.T) {
	mv := newTestView(t)
	rec := &models.PatientRecord{ID: "patient_1", Name: "Jane"}

	mv.ShowPatientForm(rec, true)

	assert.Same(t, mv.patientScreen, mv.Current())
	assert.Equal(t, "Edit Patient Record", mv.patientTitle.Text)
	name, ok := mv.PatientForm().Entry("patient_name")
	require.True(t, ok)
	assert.Equal(t, "Jane", name.Text)

	mv.ShowPatientForm(models.NewPatientRecord(), false)
	assert.Equal(t, "Patient Record Form", mv.patientTitle.Text)
}

func TestMainView_SaveBlockedByUnparsableInput(t *testing.T) {
	mv := newTestView(t)
	saves := 0
	mv.SetSavePatientHandler(func() { saves++ })

	rec := models.NewPatientRecord()
	mv.ShowPatientForm(rec, false)
	weight, _ := mv.PatientForm().Entry("weight")
	weight.SetText("heavy")

	test.Tap(mv.Button("patient.save"))
	assert.Equal(t, 0, saves)
	assert.Equal(t, "Save Patient failed", mv.StatusBar().GetStatus())

	weight.SetText("70")
	test.Tap(mv.Button("patient.save"))
	assert.Equal(t, 1, saves)
	assert.Equal(t, float32(70), rec.Weight)
}

func TestMainView_PatientFormButtons(t *testing.T) {
	mv := newTestView(t)
	var called []string
	mv.SetDeletePatientHandler(func() { called = append(called, "delete") })
	mv.SetSavePatientAndReturnHandler(func() { called = append(called, "saveReturn") })
	mv.SetBackHandler(func() { called = append(called, "back") })

	mv.ShowPatientForm(models.NewPatientRecord(), false)
	test.Tap(mv.Button("patient.delete"))
	test.Tap(mv.Button("patient.saveReturn"))
	test.Tap(mv.Button("patient.back"))

	assert.Equal(t, []string{"delete", "saveReturn", "back"}, called)
}

func TestMainView_MedicationForm(t *testing.T) {
	mv := newTestView(t)
	var called []string
	mv.SetSaveMedicationHandler(func() { called = append(called, "save") })
	mv.SetSaveMedicationAndReturnHandler(func() { called = append(called, "saveReturn") })

	med := models.NewMedication()
	mv.ShowMedicationForm(med)
	assert.Same(t, mv.medicationScreen, mv.Current())

	name, ok := mv.MedicationForm().Entry("name")
	require.True(t, ok)
	test.Type(name, "Aspirin")

	test.Tap(mv.Button("medication.save"))
	test.Tap(mv.Button("medication.saveReturn"))

	assert.Equal(t, []string{"save", "saveReturn"}, called)
	assert.Equal(t, "Aspirin", med.Name)
}

func TestMainView_PatientList(t *testing.T) {
	mv := newTestView(t)
	var terms []string
	var selected models.PatientRecord
	mv.SetSearchHandler(func(term string) { terms = append(terms, term) })
	mv.SetSelectPatientHandler(func(p models.PatientRecord) { selected = p })

	patients := []models.PatientRecord{
		{ID: "patient_1", Name: "Ann"},
		{ID: "patient_2", Name: "Bob"},
	}
	mv.ShowPatientList("a", patients)

	assert.Same(t, mv.listScreen, mv.Current())
	assert.Equal(t, "a", mv.PatientList().SearchEntry().Text)
	assert.Empty(t, terms, "restoring the search box does not trigger a search")

	mv.PatientList().SearchEntry().SetText("an")
	assert.Equal(t, []string{"an"}, terms)

	mv.UpdatePatientList(patients[:1])
	buttons := mv.PatientList().Buttons()
	require.Len(t, buttons, 1)
	test.Tap(buttons[0])
	assert.Equal(t, "patient_1", selected.ID)
}

func TestMainView_ShowMainReturnsToMenu(t *testing.T) {
	mv := newTestView(t)

	mv.ShowMedicationForm(models.NewMedication())
	mv.ShowMain()

	assert.Same(t, mv.mainScreen, mv.Current())
}

func TestMainView_StoreInfo(t *testing.T) {
	mv := newTestView(t)

	mv.SetStoreInfo("patient_db", 3)
	mv.UpdateStatus("Saved")

	assert.Equal(t, "Store: patient_db, 3 patients", mv.StatusBar().GetStoreInfo())
	assert.Equal(t, "Saved", mv.StatusBar().GetStatus())
}
