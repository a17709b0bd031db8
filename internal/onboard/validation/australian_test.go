package validation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCleanPhoneInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"already clean", "0412345678", "0412345678"},
		{"spaces", "0412 345 678", "0412345678"},
		{"country code", "+61412345678", "0412345678"},
		{"country code with spaces", "+61 412 345 678", "0412345678"},
		{"parentheses landline", "(02) 9876 5432", "0298765432"},
		{"hyphens", "0412-345-678", "0412345678"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, CleanPhoneInput(tt.input))
		})
	}
}

func TestValidateAustralianPhone(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"mobile", "0412345678", false},
		{"sydney landline", "0298765432", false},
		{"melbourne landline", "0398765432", false},
		{"brisbane landline", "0798765432", false},
		{"perth landline", "0898765432", false},
		{"too short", "12345", true},
		{"too long", "04123456789", true},
		{"bad prefix", "0512345678", true},
		{"no leading zero", "412345678", true},
		{"letters", "04abc45678", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAustralianPhone(tt.input, "phone_number")
			if tt.wantErr {
				require.Error(t, err)
				require.Contains(t, err.Error(), "phone_number")
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateABN(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "51824753556", false},
		{"bad checksum", "51824753557", true},
		{"too short", "5182475355", true},
		{"too long", "518247535561", true},
		{"letters", "5182475355a", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateABN(tt.input, "abn")
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestCleanABNInput(t *testing.T) {
	require.Equal(t, "51824753556", CleanABNInput("51 824 753 556"))
	require.Equal(t, "51824753556", CleanABNInput("51-824-753-556"))
}

func TestValidateACN(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid zeros", "000000019", false},
		{"valid", "004085616", false},
		{"bad check digit", "004085617", true},
		{"too short", "00408561", true},
		{"too long", "0040856160", true},
		{"letters", "00408561a", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateACN(tt.input, "acn")
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateBSB(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "062000", false},
		{"too short", "06200", true},
		{"too long", "0620001", true},
		{"letters", "06200a", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBSB(tt.input, "bsb")
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestCleanBSBInput(t *testing.T) {
	require.Equal(t, "062000", CleanBSBInput("062-000"))
	require.Equal(t, "062000", CleanBSBInput("062 000"))
}
