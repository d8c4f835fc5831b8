package utils

import (
	"strings"
	"testing"
)

func TestGenerateOrderCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := GenerateOrderCode()
		if err != nil {
			t.Fatalf("GenerateOrderCode: %v", err)
		}
		if len(code) != OrderCodeLength {
			t.Fatalf("code %q has length %d, want %d", code, len(code), OrderCodeLength)
		}
		for _, r := range code {
			if !strings.ContainsRune(OrderCodeAlphabet, r) {
				t.Fatalf("code %q contains %q, not in alphabet", code, r)
			}
		}
		seen[code] = true
	}
	// 100 draws from a 31^8 space colliding would mean the generator is broken
	if len(seen) != 100 {
		t.Errorf("only %d distinct codes out of 100", len(seen))
	}
}

func TestOrderCodeAlphabetExcludesAmbiguousGlyphs(t *testing.T) {
	for _, r := range "ILO01" {
		if strings.ContainsRune(OrderCodeAlphabet, r) {
			t.Errorf("alphabet contains ambiguous glyph %q", r)
		}
	}
}
