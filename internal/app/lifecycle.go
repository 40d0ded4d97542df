package app

import (
	"sync"

	"fyne.io/fyne/v2"

	"patient-records/internal/logger"
	"patient-records/internal/shutdown"
)

// Lifecycle ends the process in one of three ways: a normal quit (Exit
// button, window close, signal), or an abort after an unrecoverable error.
type Lifecycle struct {
	manager *shutdown.Manager
	logger  logger.Logger
	quit    func()
	once    sync.Once
}

func NewLifecycle(fyneApp fyne.App, manager *shutdown.Manager, log logger.Logger) *Lifecycle {
	return &Lifecycle{
		manager: manager,
		logger:  log,
		quit:    fyneApp.Quit,
	}
}

// SetQuitFunc replaces the call that stops the UI loop.
func (l *Lifecycle) SetQuitFunc(quit func()) {
	l.quit = quit
}

// Listen quits on SIGINT/SIGTERM.
func (l *Lifecycle) Listen() {
	l.manager.Listen(func() {
		fyne.Do(l.quit)
	})
}

// Shutdown closes registered components. Safe to call more than once.
func (l *Lifecycle) Shutdown() {
	l.once.Do(func() {
		l.logger.Info("Lifecycle", "shutdown sequence initiated", nil)
		l.manager.Shutdown()
	})
}

// Quit shuts down and stops the UI loop.
func (l *Lifecycle) Quit() {
	l.Shutdown()
	l.quit()
}

// Abort closes what it can and terminates through the logger's fatal path.
// Once a normal shutdown has begun, a failure caused by the store closing
// underneath a late UI action is logged and the quit continues.
func (l *Lifecycle) Abort(err error) {
	select {
	case <-l.Done():
		l.logger.Warning("Lifecycle", "error during shutdown", map[string]interface{}{
			"error": err.Error(),
		})
		return
	default:
	}
	l.Shutdown()
	l.logger.Fatal("Lifecycle", err, nil)
}

// Done is closed once shutdown has started.
func (l *Lifecycle) Done() <-chan struct{} {
	return l.manager.Done()
}
