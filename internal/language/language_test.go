package language

import (
	"slices"
	"testing"
)

func TestToISO2(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		// 2-letter codes pass through
		{"en", "en"},
		{"EN", "en"},
		{"es", "es"},
		// 3-letter codes convert
		{"eng", "en"},
		{"spa", "es"},
		{"deu", "de"},
		// Caption tags keep the primary subtag
		{"en-US", "en"},
		{"en_GB", "en"},
		{"pt-BR", "pt"},
		// Word forms
		{"english", "en"},
		{"Spanish", "es"},
		{" german ", "de"},
		// Unrecognized
		{"", ""},
		{"   ", ""},
		{"@@", ""},
		{"not a language", ""},
	}
	for _, tt := range tests {
		if got := ToISO2(tt.input); got != tt.expected {
			t.Errorf("ToISO2(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en", "English"},
		{"es", "Spanish"},
		{"en-US", "American English"},
		{"", "Unknown"},
		{"@@", "@@"},
	}
	for _, tt := range tests {
		if got := DisplayName(tt.input); got != tt.expected {
			t.Errorf("DisplayName(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestDescribeAll(t *testing.T) {
	got := DescribeAll([]string{"en", "de", "@@"})
	want := []string{"en (English)", "de (German)", "@@"}
	if !slices.Equal(got, want) {
		t.Fatalf("DescribeAll = %v, want %v", got, want)
	}
	if got := DescribeAll(nil); len(got) != 0 {
		t.Fatalf("DescribeAll(nil) = %v", got)
	}
}
