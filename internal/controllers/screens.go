package controllers

// Screen is one mutually exclusive UI mode.
type Screen int

const (
	MainScreen Screen = iota
	PatientFormScreen
	PatientListScreen
	MedicationFormScreen
)

func (s Screen) String() string {
	switch s {
	case MainScreen:
		return "Main"
	case PatientFormScreen:
		return "PatientForm"
	case PatientListScreen:
		return "PatientList"
	case MedicationFormScreen:
		return "MedicationForm"
	default:
		return "Unknown"
	}
}
