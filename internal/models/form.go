package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type FieldKind int

const (
	TextField FieldKind = iota
	DateField
	BoolField
	FloatField
)

func (k FieldKind) String() string {
	switch k {
	case TextField:
		return "text"
	case DateField:
		return "date"
	case BoolField:
		return "bool"
	case FloatField:
		return "float"
	default:
		return "unknown"
	}
}

// FormRenderable is implemented by every record type that can be shown as an
// editable form. Fields are bound to the receiver, so a renderer writes user
// edits straight back into the record.
type FormRenderable interface {
	FormTitle() string
	Fields() []Field
}

// Field is one editable value. Get and Set exchange the textual form shown in
// the UI; Set leaves the record untouched when the input does not parse.
type Field struct {
	Name     string
	Label    string
	Kind     FieldKind
	ReadOnly bool
	Get      func() string
	Set      func(string) error
}

func (f Field) readOnly() Field {
	f.ReadOnly = true
	return f
}

func textField(name, label string, target *string) Field {
	return Field{
		Name:  name,
		Label: label,
		Kind:  TextField,
		Get:   func() string { return *target },
		Set: func(s string) error {
			*target = s
			return nil
		},
	}
}

func dateField(name, label string, target *Date) Field {
	return Field{
		Name:  name,
		Label: label,
		Kind:  DateField,
		Get:   func() string { return target.String() },
		Set: func(s string) error {
			d, err := ParseDate(strings.TrimSpace(s))
			if err != nil {
				return fmt.Errorf("%s: %w", label, err)
			}
			*target = d
			return nil
		},
	}
}

func boolField(name, label string, target *bool) Field {
	return Field{
		Name:  name,
		Label: label,
		Kind:  BoolField,
		Get:   func() string { return strconv.FormatBool(*target) },
		Set: func(s string) error {
			b, err := strconv.ParseBool(strings.TrimSpace(s))
			if err != nil {
				return fmt.Errorf("%s: expected true or false, got %q", label, s)
			}
			*target = b
			return nil
		},
	}
}

func floatField(name, label string, target *float32) Field {
	return Field{
		Name:  name,
		Label: label,
		Kind:  FloatField,
		Get:   func() string { return strconv.FormatFloat(float64(*target), 'g', -1, 32) },
		Set: func(s string) error {
			s = strings.TrimSpace(s)
			if s == "" {
				*target = 0
				return nil
			}
			v, err := strconv.ParseFloat(s, 32)
			if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
				return fmt.Errorf("%s: %q is not a number", label, s)
			}
			*target = float32(v)
			return nil
		},
	}
}

