package validation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateEmailFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "jess@example.com", false},
		{"subdomain", "jess@mail.example.com.au", false},
		{"plus tag", "jess+billing@example.com", false},
		{"missing at", "jessexample.com", true},
		{"missing tld", "jess@example", true},
		{"spaces", "jess @example.com", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmailFormat(tt.input, "email")
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestCleanEmailInput(t *testing.T) {
	require.Equal(t, "jess@example.com", CleanEmailInput("  Jess@Example.COM  "))
}

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "Sup3rSecret", false},
		{"too short", "Ab1", true},
		{"no uppercase", "sup3rsecret", true},
		{"no lowercase", "SUP3RSECRET", true},
		{"no digit", "SuperSecret", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePasswordStrength(tt.input)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
