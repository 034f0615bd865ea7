package contact

import (
	"strings"

	"Storefront/pkg/kit"
)

// Message is a contact form submission. It is validated, acknowledged, and
// discarded; nothing persists or forwards it.
type Message struct {
	Name string `json:"name"`
	Body string `json:"message"`
}

// Validate reports missing required fields, nil when the message is valid.
// Whitespace-only input counts as missing; the field values stay untouched.
func (m Message) Validate() kit.FieldErrors {
	fields := kit.FieldErrors{}

	if strings.TrimSpace(m.Name) == "" {
		fields["name"] = "required"
	}
	if strings.TrimSpace(m.Body) == "" {
		fields["message"] = "required"
	}

	if len(fields) == 0 {
		return nil
	}
	return fields
}
