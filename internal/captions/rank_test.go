package captions

import (
	"slices"
	"testing"
)

func TestRank(t *testing.T) {
	priority := []string{"en", "en-orig", "en-en", "en-US", "es", "fr", "de", "ja", "ko", "zh-Hans"}
	tests := []struct {
		name      string
		available []string
		want      []string
	}{
		{name: "none", available: nil, want: nil},
		{name: "exact", available: []string{"fr"}, want: []string{"fr"}},
		{name: "substring either direction", available: []string{"en-GB"}, want: []string{"en"}},
		{name: "priority order wins", available: []string{"de", "en-orig"}, want: []string{"en", "en-orig", "de"}},
		{name: "no match falls back to first available", available: []string{"pt-BR", "it"}, want: []string{"pt-BR"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Rank(tt.available, priority); !slices.Equal(got, tt.want) {
				t.Fatalf("Rank(%v) = %v, want %v", tt.available, got, tt.want)
			}
		})
	}
}
