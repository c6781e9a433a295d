package download

import (
	"fmt"
	"strings"
)

// Status line messages shown next to the add form
const (
	StatusFieldsRequired = "Error: All fields (except icon) are required."
	StatusQueued         = "Added to download queue."
)

// ValidationError reports a blank required admission field
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// AdmissionForm holds the user supplied fields of an ad-hoc download
type AdmissionForm struct {
	Name     string
	Category string
	Icon     string
	URL      string
}

// Validate checks that name, category and URL are non-blank
func (f *AdmissionForm) Validate() error {
	switch {
	case strings.TrimSpace(f.Name) == "":
		return &ValidationError{Field: "name"}
	case strings.TrimSpace(f.Category) == "":
		return &ValidationError{Field: "category"}
	case strings.TrimSpace(f.URL) == "":
		return &ValidationError{Field: "url"}
	}
	return nil
}

// Clear resets the per-sound inputs; category and icon are kept for the
// next entry.
func (f *AdmissionForm) Clear() {
	f.Name = ""
	f.URL = ""
}
