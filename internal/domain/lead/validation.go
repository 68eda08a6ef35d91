package lead

import (
	"regexp"
	"strings"
	"time"

	"leadmanager/internal/pkg/validator"
)

var (
	emailPattern = regexp.MustCompile(`^\w+([\.-]?\w+)*@\w+([\.-]?\w+)*(\.\w{2,3})+$`)
	phonePattern = regexp.MustCompile(`^\d{10}$`)
)

func init() {
	validator.Register("lead_email", emailPattern.MatchString)
	validator.Register("lead_phone", phonePattern.MatchString)
	validator.Register("lead_status", func(v string) bool { return Status(v).IsValid() })
	validator.Register("lead_source", func(v string) bool { return Source(v).IsValid() })
	validator.Register("lead_date", func(v string) bool {
		_, err := parseDate(v)
		return err == nil
	})
}

// input is the normalized form of a create or update body.
type input struct {
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,lead_email"`
	Phone        string `json:"phone" validate:"required,lead_phone"`
	Status       Status `json:"status" validate:"lead_status"`
	Source       Source `json:"source" validate:"lead_source"`
	Notes        string `json:"notes"`
	FollowUpDate string `json:"followUpDate" validate:"omitempty,lead_date"`
	AssignedTo   string `json:"assignedTo"`
}

var messages = map[string]string{
	"name.required":          "Name is required",
	"email.required":         "Email is required",
	"email.lead_email":       "Please provide a valid email address",
	"phone.required":         "Phone number is required",
	"phone.lead_phone":       "Please provide a valid 10-digit phone number",
	"status.lead_status":     "Status must be one of: " + joinValues(Statuses),
	"source.lead_source":     "Source must be one of: " + joinValues(Sources),
	"followUpDate.lead_date": "Please provide a valid follow-up date",
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

// NormalizeEmail lowercases and trims an address; the result is the uniqueness key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *CreateLeadRequest) normalize() input {
	in := input{
		Name:       strings.TrimSpace(r.Name),
		Email:      NormalizeEmail(r.Email),
		Phone:      strings.TrimSpace(r.Phone),
		Status:     Status(strings.TrimSpace(string(r.Status))),
		Source:     Source(strings.TrimSpace(string(r.Source))),
		Notes:      strings.TrimSpace(r.Notes),
		AssignedTo: strings.TrimSpace(r.AssignedTo),
	}
	if in.Status == "" {
		in.Status = StatusNew
	}
	if in.Source == "" {
		in.Source = SourceWebsite
	}
	if r.FollowUpDate != nil {
		in.FollowUpDate = strings.TrimSpace(*r.FollowUpDate)
	}
	return in
}

// normalize returns the trimmed values and the Go names of the supplied fields.
func (r *UpdateLeadRequest) normalize() (input, []string) {
	var (
		in     input
		fields []string
	)
	if r.Name != nil {
		in.Name = strings.TrimSpace(*r.Name)
		fields = append(fields, "Name")
	}
	if r.Email != nil {
		in.Email = NormalizeEmail(*r.Email)
		fields = append(fields, "Email")
	}
	if r.Phone != nil {
		in.Phone = strings.TrimSpace(*r.Phone)
		fields = append(fields, "Phone")
	}
	if r.Status != nil {
		in.Status = Status(strings.TrimSpace(string(*r.Status)))
		fields = append(fields, "Status")
	}
	if r.Source != nil {
		in.Source = Source(strings.TrimSpace(string(*r.Source)))
		fields = append(fields, "Source")
	}
	if r.Notes != nil {
		in.Notes = strings.TrimSpace(*r.Notes)
		fields = append(fields, "Notes")
	}
	if r.FollowUpDate != nil {
		in.FollowUpDate = strings.TrimSpace(*r.FollowUpDate)
		fields = append(fields, "FollowUpDate")
	}
	if r.AssignedTo != nil {
		in.AssignedTo = strings.TrimSpace(*r.AssignedTo)
		fields = append(fields, "AssignedTo")
	}
	return in, fields
}

func validateCreate(in *input) error {
	return toValidationError(validator.Validate(in))
}

func validateUpdate(in *input, fields []string) error {
	return toValidationError(validator.ValidatePartial(in, fields...))
}

func toValidationError(errs []validator.FieldError) error {
	if len(errs) == 0 {
		return nil
	}
	out := &ValidationError{Fields: make([]FieldMessage, 0, len(errs))}
	for _, fe := range errs {
		msg, ok := messages[fe.Field+"."+fe.Tag]
		if !ok {
			msg = fe.Field + " is invalid"
		}
		out.Fields = append(out.Fields, FieldMessage{Field: fe.Field, Message: msg})
	}
	return out
}

// parseDate accepts RFC 3339 timestamps and bare YYYY-MM-DD dates (UTC midnight).
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// followUp converts a validated follow-up value; "" means no date.
func followUp(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := parseDate(s)
	if err != nil {
		return nil
	}
	return &t
}
