package models

// Medication is append-only: each save is stored under a fresh identifier.
type Medication struct {
	Name        string  `json:"name"`
	Descriptor  string  `json:"medication_string"`
	Supplier    string  `json:"supplier"`
	CostPerPill float32 `json:"cost_per_pill" validate:"finite,gte=0"`
}

func NewMedication() *Medication {
	return &Medication{}
}

func (m *Medication) Reset() {
	*m = Medication{}
}

func (m *Medication) FormTitle() string {
	return "Medication Form"
}

func (m *Medication) Fields() []Field {
	return []Field{
		textField("name", "Name", &m.Name),
		textField("medication_string", "Medication String", &m.Descriptor),
		textField("supplier", "Supplier", &m.Supplier),
		floatField("cost_per_pill", "Cost Per Pill", &m.CostPerPill),
	}
}
