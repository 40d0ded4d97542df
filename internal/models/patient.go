package models

import (
	"fmt"
	"strings"
)

// PatientRecord is the persisted patient snapshot. JSON names match the files
// written by earlier releases of the application.
type PatientRecord struct {
	Name     string  `json:"patient_name"`
	ID       string  `json:"patient_id"`
	Address  string  `json:"address"`
	City     string  `json:"city"`
	Phone    string  `json:"phone_number"`
	DOB      Date    `json:"dob"`
	Pregnant bool    `json:"pregnant"`
	Weight   float32 `json:"weight" validate:"finite,gte=0"`
	Height   float32 `json:"height" validate:"finite,gte=0"`
}

// NewPatientRecord returns the empty record a fresh form starts from.
func NewPatientRecord() *PatientRecord {
	return &PatientRecord{DOB: EpochDate}
}

func (p *PatientRecord) Reset() {
	*p = *NewPatientRecord()
}

// Matches reports whether term is a case-insensitive substring of the ID or
// the name. The empty term matches every record.
func (p *PatientRecord) Matches(term string) bool {
	needle := strings.ToLower(term)
	return strings.Contains(strings.ToLower(p.ID), needle) ||
		strings.Contains(strings.ToLower(p.Name), needle)
}

// Summary is the label used in the patient list.
func (p *PatientRecord) Summary() string {
	return fmt.Sprintf("%s - %s (DOB: %s)", p.ID, p.Name, p.DOB)
}

func (p *PatientRecord) FormTitle() string {
	return "Patient Record Form"
}

func (p *PatientRecord) Fields() []Field {
	return []Field{
		textField("patient_name", "Patient Name", &p.Name),
		textField("patient_id", "Patient ID", &p.ID).readOnly(),
		textField("address", "Address", &p.Address),
		textField("city", "City", &p.City),
		textField("phone_number", "Phone Number", &p.Phone),
		dateField("dob", "Date of Birth", &p.DOB),
		boolField("pregnant", "Pregnant", &p.Pregnant),
		floatField("weight", "Weight", &p.Weight),
		floatField("height", "Height", &p.Height),
	}
}
