package domain

import "fmt"

// FormMode is the state of the add/edit modal.
type FormMode int

const (
	// FormClosed means no modal is shown.
	FormClosed FormMode = iota

	// FormAdd composes a new quote from a draft.
	FormAdd

	// FormEdit modifies a working copy of an existing quote.
	FormEdit
)

// String returns the wire name of the mode.
func (m FormMode) String() string {
	switch m {
	case FormClosed:
		return "closed"
	case FormAdd:
		return "add"
	case FormEdit:
		return "edit"
	default:
		return "unknown"
	}
}

// Field names a editable quote field.
type Field string

// Editable fields.
const (
	FieldText     Field = "text"
	FieldAuthor   Field = "author"
	FieldCategory Field = "category"
)

// Fields returns the editable fields in form order.
func Fields() []Field {
	return []Field{FieldText, FieldAuthor, FieldCategory}
}

// ParseField validates a field name.
func ParseField(name string) (Field, error) {
	switch f := Field(name); f {
	case FieldText, FieldAuthor, FieldCategory:
		return f, nil
	default:
		return "", NewValidationErrorWithValue("field", "must be one of: text author category", name)
	}
}

// Form is the add/edit modal as a tagged variant. The zero value is closed.
// In add mode it carries a Draft; in edit mode it carries the id being
// edited and a working copy of that quote.
type Form struct {
	mode    FormMode
	draft   Draft
	working Quote
}

// ClosedForm returns the closed modal.
func ClosedForm() Form {
	return Form{mode: FormClosed}
}

// AddForm opens the modal in add mode with the given draft.
func AddForm(draft Draft) Form {
	return Form{mode: FormAdd, draft: draft}
}

// EditForm opens the modal in edit mode on a copy of q.
func EditForm(q Quote) Form {
	return Form{mode: FormEdit, working: q}
}

// Mode returns the current variant.
func (f Form) Mode() FormMode {
	return f.mode
}

// IsOpen reports whether the modal is shown.
func (f Form) IsOpen() bool {
	return f.mode != FormClosed
}

// AddDraft returns the draft when in add mode.
func (f Form) AddDraft() (Draft, bool) {
	if f.mode != FormAdd {
		return Draft{}, false
	}

	return f.draft, true
}

// WorkingCopy returns the quote being edited when in edit mode.
func (f Form) WorkingCopy() (Quote, bool) {
	if f.mode != FormEdit {
		return Quote{}, false
	}

	return f.working, true
}

// Values returns the field values the modal displays.
func (f Form) Values() Draft {
	switch f.mode {
	case FormAdd:
		return f.draft
	case FormEdit:
		return f.working.Draft()
	default:
		return Draft{}
	}
}

// Title returns the modal header.
func (f Form) Title() string {
	switch f.mode {
	case FormAdd:
		return "Add Quote"
	case FormEdit:
		return "Edit Quote"
	default:
		return ""
	}
}

// SubmitLabel returns the label of the commit button.
func (f Form) SubmitLabel() string {
	switch f.mode {
	case FormAdd:
		return "Save"
	case FormEdit:
		return "Update"
	default:
		return ""
	}
}

// Set returns a copy of the form with field set to value.
// Setting a field on a closed form is an error.
func (f Form) Set(field Field, value string) (Form, error) {
	if !f.IsOpen() {
		return f, NewConflictError("form", "modal is closed")
	}

	values, err := setField(f.Values(), field, value)
	if err != nil {
		return f, err
	}

	if f.mode == FormEdit {
		f.working = values.WithID(f.working.ID)
	} else {
		f.draft = values
	}

	return f, nil
}

func setField(d Draft, field Field, value string) (Draft, error) {
	switch field {
	case FieldText:
		d.Text = value
	case FieldAuthor:
		d.Author = value
	case FieldCategory:
		d.Category = Category(value)
	default:
		return d, NewValidationErrorWithValue("field", fmt.Sprintf("unknown field %q", field), string(field))
	}

	return d, nil
}
