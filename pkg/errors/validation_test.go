package errors

import (
	"math"
	"strings"
	"testing"
)

func TestValidateWidth(t *testing.T) {
	tests := []struct {
		name    string
		input   float64
		wantErr bool
	}{
		{"typical", 1200, false},
		{"minimum", MinWidth, false},
		{"maximum", MaxWidth, false},
		{"fractional", 899.5, false},

		{"zero", 0, true},
		{"negative", -10, true},
		{"too wide", MaxWidth + 1, true},
		{"NaN", math.NaN(), true},
		{"Inf", math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWidth(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateWidth(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidWidth) {
				t.Errorf("ValidateWidth(%v) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidWidth)
			}
		})
	}
}

func TestParseWidth(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{"900", 900, false},
		{" 1024.5 ", 1024.5, false},
		{"", 0, true},
		{"wide", 0, true},
		{"0", 0, true},
		{"NaN", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseWidth(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseWidth(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseWidth(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestValidateThemeID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"camel case", "warmVintage", false},
		{"dashed", "high-contrast", false},
		{"digits", "dark2", false},

		{"empty", "", true},
		{"leading digit", "2dark", true},
		{"space", "warm vintage", true},
		{"script", "<script>", true},
		{"too long", "a" + strings.Repeat("b", 64), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateThemeID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateThemeID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple file", "photo.jpg", false},
		{"nested", "2024/iceland/photo.jpg", false},
		{"dots in name", "photo..final.jpg", false},

		{"empty", "", true},
		{"absolute", "/etc/passwd", true},
		{"parent", "../secret.jpg", true},
		{"nested parent", "a/../../b.jpg", true},
		{"backslash", "a\\b.jpg", true},
		{"null byte", "a\x00.jpg", true},
		{"newline", "a\n.jpg", true},
		{"too long", strings.Repeat("a", 501), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFormat(t *testing.T) {
	if err := ValidateFormat("svg", "json", "html", "svg"); err != nil {
		t.Errorf("ValidateFormat(svg) = %v, want nil", err)
	}
	err := ValidateFormat("png", "json", "html", "svg")
	if !Is(err, ErrCodeInvalidFormat) {
		t.Errorf("ValidateFormat(png) = %v, want %v", err, ErrCodeInvalidFormat)
	}
}

func TestValidateIdentifier(t *testing.T) {
	if err := ValidateIdentifier("collection", "travel-2023"); err != nil {
		t.Errorf("ValidateIdentifier(travel-2023) = %v, want nil", err)
	}
	for _, id := range []string{"", "9lives", "a b", "../x"} {
		if err := ValidateIdentifier("collection", id); !Is(err, ErrCodeInvalidInput) {
			t.Errorf("ValidateIdentifier(%q) = %v, want %v", id, err, ErrCodeInvalidInput)
		}
	}
}
