package components

import (
	"errors"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"patient-records/internal/models"
)

// Form renders any models.FormRenderable. Edits are written straight back
// into the bound record through its fields; input that does not parse is
// remembered and reported by Validate.
type Form struct {
	container *fyne.Container
	form      *widget.Form
	record    models.FormRenderable

	entries map[string]*widget.Entry
	checks  map[string]*widget.Check
	invalid map[string]error
	order   []string
}

// NewForm creates an empty form; call Bind to show a record.
func NewForm() *Form {
	f := &Form{
		form: widget.NewForm(),
	}
	f.container = container.NewVBox(f.form)
	f.reset()
	return f
}

func (f *Form) reset() {
	f.entries = make(map[string]*widget.Entry)
	f.checks = make(map[string]*widget.Check)
	f.invalid = make(map[string]error)
	f.order = nil
}

// Bind rebuilds the form for record. Called whenever the buffer behind the
// form is replaced (load, save, clear).
func (f *Form) Bind(record models.FormRenderable) {
	f.record = record
	f.reset()

	items := make([]*widget.FormItem, 0)
	for _, field := range record.Fields() {
		items = append(items, f.createItem(field))
		f.order = append(f.order, field.Name)
	}

	f.form.Items = items
	f.form.Refresh()
}

func (f *Form) createItem(field models.Field) *widget.FormItem {
	switch field.Kind {
	case models.BoolField:
		initial, _ := strconv.ParseBool(field.Get())
		check := widget.NewCheck("", nil)
		check.SetChecked(initial)
		check.OnChanged = func(checked bool) {
			f.note(field.Name, field.Set(strconv.FormatBool(checked)))
		}
		if field.ReadOnly {
			check.Disable()
		}
		f.checks[field.Name] = check
		return widget.NewFormItem(field.Label, check)

	default:
		entry := widget.NewEntry()
		switch field.Kind {
		case models.DateField:
			entry.SetPlaceHolder(models.DateLayout)
		case models.FloatField:
			entry.SetPlaceHolder("0")
		}
		entry.SetText(field.Get())
		entry.OnChanged = func(text string) {
			f.note(field.Name, field.Set(text))
		}
		if field.ReadOnly {
			entry.Disable()
		}
		f.entries[field.Name] = entry
		return widget.NewFormItem(field.Label, entry)
	}
}

// note remembers the outcome of the latest edit of a field.
func (f *Form) note(name string, err error) {
	if err != nil {
		f.invalid[name] = err
		return
	}
	delete(f.invalid, name)
}

// Validate returns the parse errors of every field whose current input was
// rejected, in field order.
func (f *Form) Validate() error {
	var errs []error
	for _, name := range f.order {
		if err, ok := f.invalid[name]; ok {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Entry returns the text input bound to the named field.
func (f *Form) Entry(name string) (*widget.Entry, bool) {
	e, ok := f.entries[name]
	return e, ok
}

// Check returns the checkbox bound to the named field.
func (f *Form) Check(name string) (*widget.Check, bool) {
	c, ok := f.checks[name]
	return c, ok
}

// GetContainer returns the form container
func (f *Form) GetContainer() *fyne.Container {
	return f.container
}
