package download

import (
	"errors"
	"testing"
)

func TestAdmissionFormValidate(t *testing.T) {
	tests := []struct {
		name  string
		form  AdmissionForm
		field string
	}{
		{"valid", AdmissionForm{Name: "Rain", Category: "nature", URL: "https://x"}, ""},
		{"icon optional", AdmissionForm{Name: "Rain", Category: "nature", Icon: "", URL: "https://x"}, ""},
		{"missing name", AdmissionForm{Name: "  ", Category: "nature", URL: "https://x"}, "name"},
		{"missing category", AdmissionForm{Name: "Rain", URL: "https://x"}, "category"},
		{"missing url", AdmissionForm{Name: "Rain", Category: "nature", URL: "\t"}, "url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.form.Validate()
			if tt.field == "" {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Expected *ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Expected field %q, got %q", tt.field, verr.Field)
			}
		})
	}
}

func TestAdmissionFormClear(t *testing.T) {
	form := AdmissionForm{Name: "Rain", Category: "nature", Icon: "🌧", URL: "https://x"}
	form.Clear()

	if form.Name != "" || form.URL != "" {
		t.Errorf("Expected name and URL cleared, got %+v", form)
	}
	if form.Category != "nature" || form.Icon != "🌧" {
		t.Errorf("Expected category and icon kept, got %+v", form)
	}
}
