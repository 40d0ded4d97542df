package app

import (
	"context"
	"time"

	"patient-records/internal/controllers"
	"patient-records/internal/logger"
	"patient-records/internal/models"
	"patient-records/internal/services"
	"patient-records/internal/views"
)

const countTimeout = 5 * time.Second

// Handlers connects the view's events to the controller and renders the
// controller's screen changes back into the view.
type Handlers struct {
	controller *controllers.MainController
	view       *views.MainView
	patients   *services.PatientService
	dataDir    string
	lifecycle  *Lifecycle
	logger     logger.Logger
}

func NewHandlers(
	controller *controllers.MainController,
	view *views.MainView,
	patients *services.PatientService,
	dataDir string,
	lifecycle *Lifecycle,
	log logger.Logger,
) *Handlers {
	return &Handlers{
		controller: controller,
		view:       view,
		patients:   patients,
		dataDir:    dataDir,
		lifecycle:  lifecycle,
		logger:     log,
	}
}

// Bind installs every handler on both sides.
func (h *Handlers) Bind() {
	c := h.controller
	v := h.view

	v.SetAddPatientHandler(c.AddPatient)
	v.SetViewPatientsHandler(c.ViewPatients)
	v.SetAddMedicationHandler(c.AddMedication)
	v.SetExitHandler(c.Exit)
	v.SetDeletePatientHandler(h.HandleDeletePatient)
	v.SetSavePatientHandler(h.withStatus(c.SavePatient, "Patient saved"))
	v.SetSavePatientAndReturnHandler(h.withStatus(c.SavePatientAndReturn, "Patient saved"))
	v.SetSaveMedicationHandler(h.withStatus(c.SaveMedication, "Medication saved"))
	v.SetSaveMedicationAndReturnHandler(h.withStatus(c.SaveMedicationAndReturn, "Medication saved"))
	v.SetBackHandler(c.Back)
	v.SetSearchHandler(h.HandleSearch)
	v.SetSelectPatientHandler(h.HandleSelectPatient)

	c.SetScreenChangeHandler(h.HandleScreenChange)
	c.SetErrorHandler(h.HandleError)
	c.SetFatalHandler(h.lifecycle.Abort)
	c.SetExitHandler(h.lifecycle.Quit)
}

// HandleScreenChange renders the controller's current screen.
func (h *Handlers) HandleScreenChange(screen controllers.Screen) {
	switch screen {
	case controllers.MainScreen:
		h.view.ShowMain()
	case controllers.PatientFormScreen:
		h.view.ShowPatientForm(h.controller.Patient(), h.controller.PatientProvided())
	case controllers.PatientListScreen:
		h.view.ShowPatientList(h.controller.SearchTerm(), h.controller.Patients())
	case controllers.MedicationFormScreen:
		h.view.ShowMedicationForm(h.controller.Medication())
	}
	h.refreshStoreInfo()
}

// HandleSearch refilters the list on every keystroke.
func (h *Handlers) HandleSearch(term string) {
	h.controller.SetSearchTerm(term)
	h.view.UpdatePatientList(h.controller.Patients())
}

func (h *Handlers) HandleSelectPatient(record models.PatientRecord) {
	h.controller.SelectPatient(record)
	h.view.UpdateStatus("Editing " + record.ID)
}

func (h *Handlers) HandleDeletePatient() {
	id := h.controller.Patient().ID
	h.controller.DeletePatient()
	if id != "" {
		h.view.UpdateStatus("Patient deleted")
	}
}

func (h *Handlers) HandleError(title string, err error) {
	h.view.ShowError(title, err)
}

// withStatus runs action and reports success when no error surfaced.
func (h *Handlers) withStatus(action func(), message string) func() {
	return func() {
		failed := false
		h.controller.SetErrorHandler(func(title string, err error) {
			failed = true
			h.HandleError(title, err)
		})
		defer h.controller.SetErrorHandler(h.HandleError)

		action()
		if !failed {
			h.view.UpdateStatus(message)
		}
	}
}

func (h *Handlers) refreshStoreInfo() {
	ctx, cancel := context.WithTimeout(context.Background(), countTimeout)
	defer cancel()

	count, err := h.patients.Count(ctx)
	if err != nil {
		h.logger.Warning("Handlers", "patient count unavailable", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	h.view.SetStoreInfo(h.dataDir, count)
}
