package app

import (
	"context"
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"

	"patient-records/internal/config"
	"patient-records/internal/controllers"
	"patient-records/internal/logger"
	"patient-records/internal/models"
	"patient-records/internal/services"
	"patient-records/internal/shutdown"
	"patient-records/internal/store"
	"patient-records/internal/theme"
	"patient-records/internal/views"
)

const (
	AppName         = "Patient Records"
	AppID           = "com.patientrecords.desktop"
	WindowTitle     = "Patient Form"
	MinWindowWidth  = 1280
	MinWindowHeight = 900
)

type Application struct {
	fyneApp    fyne.App
	window     fyne.Window
	logger     logger.Logger
	store      *store.Store
	patients   *services.PatientService
	controller *controllers.MainController
	view       *views.MainView
	handlers   *Handlers
	lifecycle  *Lifecycle
}

// NewApplication opens the store and builds the GUI on a new fyne app.
func NewApplication(cfg config.Config, log logger.Logger) (*Application, error) {
	return New(fyneapp.NewWithID(AppID), cfg, log)
}

// New builds the application on an existing fyne app.
func New(fyneApp fyne.App, cfg config.Config, log logger.Logger) (*Application, error) {
	th, err := theme.New(theme.DefaultStyle(), cfg.FontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to build theme: %w", err)
	}
	fyneApp.Settings().SetTheme(th)

	st, err := OpenStore(cfg, log)
	if err != nil {
		return nil, err
	}

	window := fyneApp.NewWindow(WindowTitle)
	if cfg.Fullscreen {
		window.SetFullScreen(true)
	} else {
		window.Resize(fyne.NewSize(MinWindowWidth, MinWindowHeight))
		window.CenterOnScreen()
	}
	window.SetMaster()

	ids := models.NewIDGenerator(time.Now)
	patients := services.NewPatientService(st, ids, log)
	medications := services.NewMedicationService(st, ids, log)

	controller := controllers.NewMainController(patients, medications, log)
	view := views.NewMainView(window, th)

	manager := shutdown.NewManager(log)
	manager.Register("store", st)
	manager.Register("controller", shutdown.Func(func() {
		log.Info("Application", "closing", map[string]interface{}{
			"state": controller.State().String(),
		})
	}))
	lifecycle := NewLifecycle(fyneApp, manager, log)

	application := &Application{
		fyneApp:    fyneApp,
		window:     window,
		logger:     log,
		store:      st,
		patients:   patients,
		controller: controller,
		view:       view,
		lifecycle:  lifecycle,
	}
	application.handlers = NewHandlers(controller, view, patients, st.Dir(), lifecycle, log)
	application.handlers.Bind()

	log.Info("Application", "initialization complete", map[string]interface{}{
		"data_dir":      st.Dir(),
		"decode_policy": cfg.DecodePolicy,
		"fullscreen":    cfg.Fullscreen,
	})
	return application, nil
}

// OpenStore opens the record store described by cfg.
func OpenStore(cfg config.Config, log logger.Logger) (*store.Store, error) {
	policy, err := cfg.Policy()
	if err != nil {
		return nil, err
	}
	st, err := store.Open(cfg.DataDir, store.Options{DecodePolicy: policy, Logger: log})
	if err != nil {
		return nil, fmt.Errorf("failed to open store in %s: %w", cfg.DataDir, err)
	}
	return st, nil
}

// Run shows the window and blocks until the UI loop ends.
func (a *Application) Run() error {
	a.window.SetCloseIntercept(func() {
		a.logger.Info("Application", "window close requested", nil)
		a.lifecycle.Quit()
	})
	a.lifecycle.Listen()

	a.handlers.HandleScreenChange(a.controller.Screen())
	a.view.Show()

	a.logger.Info("Application", "GUI displayed", nil)
	a.fyneApp.Run()

	// Covers quitting paths that bypass the lifecycle, e.g. the OS menu.
	a.lifecycle.Shutdown()
	return nil
}

// PatientCount reports the number of stored patients.
func (a *Application) PatientCount(ctx context.Context) (int, error) {
	return a.patients.Count(ctx)
}

func (a *Application) Controller() *controllers.MainController { return a.controller }
func (a *Application) View() *views.MainView                   { return a.view }
func (a *Application) Lifecycle() *Lifecycle                   { return a.lifecycle }
func (a *Application) Window() fyne.Window                     { return a.window }
