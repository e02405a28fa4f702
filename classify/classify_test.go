package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubsidizedMixedCase(t *testing.T) {
	c := New(DefaultSubsidizedPhrases)
	assert.True(t, c.Classify("Bright 2BR near the park. Section 8 Welcome!"))
}

func TestAccessibilityPhrases(t *testing.T) {
	c := New(DefaultAccessibilityPhrases)

	tests := []struct {
		text string
		want bool
	}{
		{"Ground floor, WHEELCHAIR ACCESSIBLE entrance", true},
		{"Fully ADA compliant building", true},
		{"Third floor walk-up, no elevator", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, c.Classify(tt.text), "Classify(%q)", tt.text)
	}
}

func TestClassifyIsIdempotent(t *testing.T) {
	c := New(DefaultSubsidizedPhrases)
	texts := []string{"HCV welcome", "no vouchers", "Housing Choice Voucher holders apply"}

	for _, text := range texts {
		first := c.Classify(text)
		second := c.Classify(text)
		assert.Equal(t, first, second, "Classify(%q) changed between calls", text)
	}
}

func TestCustomPhrasesReplaceDefaults(t *testing.T) {
	c := New([]string{"  Sección 8 ", ""})

	assert.Equal(t, []string{"sección 8"}, c.Phrases())
	assert.True(t, c.Classify("Aceptamos SECCIÓN 8"))
	assert.False(t, c.Classify("Section 8 welcome"))
}
