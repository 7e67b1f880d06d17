package errors

import "testing"

func TestValidateBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"http", "http://act.example.org:8080", false},
		{"https with path", "https://act.example.org/api", false},

		{"empty", "", true},
		{"no scheme", "act.example.org", true},
		{"ftp scheme", "ftp://act.example.org", true},
		{"no host", "http://", true},
		{"control char", "http://act\x01.example.org", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBaseURL(tt.input)
			if tt.wantErr && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateBaseURL(%q) = %v, want INVALID_INPUT", tt.input, err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ValidateBaseURL(%q) = %v, want nil", tt.input, err)
			}
		})
	}
}

func TestValidateFileName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"png", "double.png", false},
		{"dot", "complete.dot", false},

		{"empty", "", true},
		{"with dir", "output/double.png", true},
		{"backslash", "output\\double.png", true},
		{"parent", "..", true},
		{"newline", "double\n.png", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateFileName(tt.input); (err != nil) != tt.wantErr {
				t.Errorf("ValidateFileName(%q) = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
