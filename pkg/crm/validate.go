package crm

import (
	"fmt"
	"regexp"
	"strings"
)

// Validation happens in the calling layer before a store is invoked; the
// stores themselves trust their input. These rules mirror the entry forms.

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// FieldError describes a single failed validation rule.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string { return e.Field + ": " + e.Message }

// ValidationErrors aggregates every failed rule for one submission.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// errOrNil avoids returning a typed nil inside a non-nil error interface.
func (v ValidationErrors) errOrNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// ValidateContact checks a contact draft before Create or a merged contact
// before Update.
func ValidateContact(c Contact) error {
	var errs ValidationErrors
	if strings.TrimSpace(c.FirstName) == "" {
		errs = append(errs, FieldError{"firstName", "First name is required"})
	}
	if strings.TrimSpace(c.LastName) == "" {
		errs = append(errs, FieldError{"lastName", "Last name is required"})
	}
	switch {
	case strings.TrimSpace(c.Email) == "":
		errs = append(errs, FieldError{"email", "Email is required"})
	case !emailPattern.MatchString(c.Email):
		errs = append(errs, FieldError{"email", "Email is invalid"})
	}
	if strings.TrimSpace(c.Phone) == "" {
		errs = append(errs, FieldError{"phone", "Phone is required"})
	}
	if strings.TrimSpace(c.Company) == "" {
		errs = append(errs, FieldError{"company", "Company is required"})
	}
	if c.Status != "" && !c.Status.Valid() {
		errs = append(errs, FieldError{"status", fmt.Sprintf("%q is not a valid status", c.Status)})
	}
	return errs.errOrNil()
}

// ValidateDeal checks a deal draft.
func ValidateDeal(d Deal) error {
	var errs ValidationErrors
	if strings.TrimSpace(d.Title) == "" {
		errs = append(errs, FieldError{"title", "Deal title is required"})
	}
	if d.ContactID <= 0 {
		errs = append(errs, FieldError{"contactId", "Contact selection is required"})
	}
	if d.Value <= 0 {
		errs = append(errs, FieldError{"value", "Deal value must be a positive number"})
	}
	if d.Probability < 0 || d.Probability > 100 {
		errs = append(errs, FieldError{"probability", "Probability must be between 0 and 100"})
	}
	if d.ExpectedCloseDate.IsZero() {
		errs = append(errs, FieldError{"expectedCloseDate", "Expected close date is required"})
	}
	if d.Stage != "" && !d.Stage.Valid() {
		errs = append(errs, FieldError{"stage", fmt.Sprintf("%q is not a valid stage", d.Stage)})
	}
	return errs.errOrNil()
}

// ValidateActivity checks an activity draft.
func ValidateActivity(a Activity) error {
	var errs ValidationErrors
	if a.ContactID <= 0 {
		errs = append(errs, FieldError{"contactId", "Contact selection is required"})
	}
	if strings.TrimSpace(a.Description) == "" {
		errs = append(errs, FieldError{"description", "Description is required"})
	}
	if a.Type != "" && !a.Type.Valid() {
		errs = append(errs, FieldError{"type", fmt.Sprintf("%q is not a valid activity type", a.Type)})
	}
	return errs.errOrNil()
}
