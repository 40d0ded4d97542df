package controllers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"patient-records/internal/logger"
	"patient-records/internal/models"
	"patient-records/internal/services"
)

const opTimeout = 30 * time.Second

// MainController is the screen state machine. Every method runs to
// completion on the UI goroutine before the next event is handled, so it
// holds no locks.
type MainController struct {
	patients    *services.PatientService
	medications *services.MedicationService
	logger      logger.Logger

	screen          Screen
	patient         *models.PatientRecord
	patientProvided bool
	medication      *models.Medication
	searchTerm      string

	screenChangeHandler func(Screen)
	errorHandler        func(title string, err error)
	fatalHandler        func(err error)
	exitHandler         func()
}

// NewMainController starts on the main screen with empty form buffers.
func NewMainController(patients *services.PatientService, medications *services.MedicationService, log logger.Logger) *MainController {
	mc := &MainController{
		patients:    patients,
		medications: medications,
		logger:      log,
		screen:      MainScreen,
		patient:     models.NewPatientRecord(),
		medication:  models.NewMedication(),
	}
	mc.fatalHandler = func(err error) {
		mc.logger.Fatal("MainController", err, map[string]interface{}{"state": mc.State().String()})
	}
	mc.exitHandler = func() {}
	return mc
}

// SetScreenChangeHandler is called after every transition.
func (mc *MainController) SetScreenChangeHandler(handler func(Screen)) {
	mc.screenChangeHandler = handler
}

// SetErrorHandler receives recoverable errors such as validation failures.
func (mc *MainController) SetErrorHandler(handler func(title string, err error)) {
	mc.errorHandler = handler
}

// SetFatalHandler receives storage failures. The default logs at fatal level,
// which terminates the process.
func (mc *MainController) SetFatalHandler(handler func(err error)) {
	mc.fatalHandler = handler
}

// SetExitHandler is called by the Exit action.
func (mc *MainController) SetExitHandler(handler func()) {
	mc.exitHandler = handler
}

func (mc *MainController) Screen() Screen {
	return mc.screen
}

// Patient is the patient form buffer. Renderers edit it in place.
func (mc *MainController) Patient() *models.PatientRecord {
	return mc.patient
}

// PatientProvided reports whether the patient buffer was loaded from the
// store rather than started empty.
func (mc *MainController) PatientProvided() bool {
	return mc.patientProvided
}

// Medication is the medication form buffer.
func (mc *MainController) Medication() *models.Medication {
	return mc.medication
}

func (mc *MainController) SearchTerm() string {
	return mc.searchTerm
}

// Main screen actions

func (mc *MainController) AddPatient() {
	mc.transition(PatientFormScreen)
}

func (mc *MainController) ViewPatients() {
	mc.searchTerm = ""
	mc.transition(PatientListScreen)
}

func (mc *MainController) AddMedication() {
	mc.transition(MedicationFormScreen)
}

func (mc *MainController) Exit() {
	mc.logger.Info("MainController", "exit requested", nil)
	mc.exitHandler()
}

// Patient form actions

// SavePatient persists the buffer and clears it, staying on the form.
func (mc *MainController) SavePatient() {
	if mc.savePatient() {
		mc.notify()
	}
}

// SavePatientAndReturn persists the buffer, clears it and returns to Main.
func (mc *MainController) SavePatientAndReturn() {
	if mc.savePatient() {
		mc.transition(MainScreen)
	}
}

// DeletePatient removes the record in the buffer and returns to Main. A
// buffer without an identifier was never stored, so nothing happens.
func (mc *MainController) DeletePatient() {
	id := mc.patient.ID
	if id == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := mc.patients.Delete(ctx, id); err != nil {
		mc.fail("Delete Patient", err)
		return
	}

	mc.clearPatient()
	mc.transition(MainScreen)
}

// Back discards unsaved edits on the current screen and returns to Main.
func (mc *MainController) Back() {
	switch mc.screen {
	case PatientFormScreen:
		mc.clearPatient()
	case MedicationFormScreen:
		mc.medication.Reset()
	}
	mc.transition(MainScreen)
}

// Patient list actions

// SetSearchTerm changes the list filter.
func (mc *MainController) SetSearchTerm(term string) {
	mc.searchTerm = term
}

// Patients returns the patients matching the current search term, ordered by
// name. A storage failure yields an empty list after reporting it.
func (mc *MainController) Patients() []models.PatientRecord {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	patients, err := mc.patients.Search(ctx, mc.searchTerm)
	if err != nil {
		mc.reportError("Patient List", err)
		return nil
	}
	return patients
}

// SelectPatient loads record into the form buffer for editing.
func (mc *MainController) SelectPatient(record models.PatientRecord) {
	selected := record
	mc.patient = &selected
	mc.patientProvided = true
	mc.logger.Debug("MainController", "patient selected", map[string]interface{}{"id": record.ID})
	mc.transition(PatientFormScreen)
}

// Medication form actions

func (mc *MainController) SaveMedication() {
	if mc.saveMedication() {
		mc.notify()
	}
}

func (mc *MainController) SaveMedicationAndReturn() {
	if mc.saveMedication() {
		mc.transition(MainScreen)
	}
}

func (mc *MainController) savePatient() bool {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if _, err := mc.patients.Save(ctx, mc.patient); err != nil {
		mc.handleSaveError("Save Patient", err)
		return false
	}
	mc.clearPatient()
	return true
}

func (mc *MainController) saveMedication() bool {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if _, err := mc.medications.Save(ctx, mc.medication); err != nil {
		mc.handleSaveError("Save Medication", err)
		return false
	}
	mc.medication.Reset()
	return true
}

// handleSaveError keeps validation failures recoverable and treats anything
// else as a storage failure.
func (mc *MainController) handleSaveError(title string, err error) {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		mc.reportError(title, verr)
		return
	}
	mc.fail(title, err)
}

// fail records the controller state with a storage failure before handing
// it to the fatal handler.
func (mc *MainController) fail(title string, err error) {
	mc.logger.Error("MainController", err, map[string]interface{}{
		"title": title,
		"state": mc.State().String(),
	})
	mc.fatalHandler(err)
}

func (mc *MainController) reportError(title string, err error) {
	mc.logger.Warning("MainController", "recoverable error", map[string]interface{}{
		"title": title,
		"error": err.Error(),
	})
	if mc.errorHandler != nil {
		mc.errorHandler(title, err)
	}
}

func (mc *MainController) clearPatient() {
	mc.patient = models.NewPatientRecord()
	mc.patientProvided = false
}

func (mc *MainController) transition(to Screen) {
	from := mc.screen
	mc.screen = to
	mc.logger.Debug("MainController", "screen changed", map[string]interface{}{
		"from": from.String(),
		"to":   to.String(),
	})
	mc.notify()
}

func (mc *MainController) notify() {
	if mc.screenChangeHandler != nil {
		mc.screenChangeHandler(mc.screen)
	}
}

// State is a snapshot of the controller for diagnostics.
type State struct {
	Screen          Screen
	PatientID       string
	PatientProvided bool
	SearchTerm      string
}

func (mc *MainController) State() State {
	return State{
		Screen:          mc.screen,
		PatientID:       mc.patient.ID,
		PatientProvided: mc.patientProvided,
		SearchTerm:      mc.searchTerm,
	}
}

func (s State) String() string {
	return fmt.Sprintf("screen=%s patient=%q provided=%t search=%q", s.Screen, s.PatientID, s.PatientProvided, s.SearchTerm)
}
