package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smsledger/internal/logging"
	"smsledger/internal/models"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"already normalized", "SWIGGY", "SWIGGY"},
		{"lowercase", "swiggy", "SWIGGY"},
		{"mixed punctuation", "Swiggy*Bangalore!", "SWIGGYBANGALORE"},
		{"upi id preserved", "merchant@okaxis", "MERCHANT@OKAXIS"},
		{"whitespace collapsed", "  THE   SWIGGY  LTD ", "THE SWIGGY LTD"},
		{"digits kept", "7-Eleven 24", "7ELEVEN 24"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"Swiggy*Bangalore!", "merchant@okaxis", "  THE   SWIGGY  LTD ",
		"7-Eleven 24", "", "çafé ünïcode", "ALREADY NORMAL",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func testRules() []models.MerchantRule {
	return []models.MerchantRule{
		{Pattern: "SWIGGY", Merchant: "Swiggy", Category: "Food & Dining", Priority: 1},
		{Pattern: "AMAZON", Merchant: "Amazon", Category: "Shopping", Priority: 1},
	}
}

func TestResolve_SubstringMatch(t *testing.T) {
	r := New(logging.NewMockLogger())
	rules := testRules()

	tests := []struct {
		rawMerchant string
		wantMatch   bool
	}{
		{"SWIGGY", true},
		{"SWIGGY BANGALORE", true},
		{"THE SWIGGY LTD", true},
		{"swiggy*bangalore", true},
		{"SWIG", false},
		{"ZOMATO", false},
	}

	for _, tt := range tests {
		result, found := r.Resolve(tt.rawMerchant, rules)
		assert.Equal(t, tt.wantMatch, found, "merchant %q", tt.rawMerchant)
		if tt.wantMatch {
			assert.Equal(t, "Swiggy", result.Merchant)
			assert.Equal(t, "Food & Dining", result.Category)
			assert.Equal(t, models.RuleMatchConfidence, result.Confidence)
			assert.Equal(t, models.SourceRuleMatch, result.Source)
		}
	}
}

func TestResolve_HighestPriorityWins(t *testing.T) {
	r := New(logging.NewMockLogger())

	lowFirst := []models.MerchantRule{
		{Pattern: "SWIGGY", Merchant: "Swiggy Generic", Category: "Food & Dining", Priority: 1},
		{Pattern: "SWIGGY INSTAMART", Merchant: "Swiggy Instamart", Category: "Groceries", Priority: 5},
	}
	highFirst := []models.MerchantRule{
		{Pattern: "SWIGGY INSTAMART", Merchant: "Swiggy Instamart", Category: "Groceries", Priority: 5},
		{Pattern: "SWIGGY", Merchant: "Swiggy Generic", Category: "Food & Dining", Priority: 1},
	}

	for _, rules := range [][]models.MerchantRule{lowFirst, highFirst} {
		result, found := r.Resolve("SWIGGY INSTAMART GURGAON", rules)
		require.True(t, found)
		assert.Equal(t, "Swiggy Instamart", result.Merchant)
		assert.Equal(t, "Groceries", result.Category)
	}
}

func TestResolve_PriorityTieBrokenByListOrder(t *testing.T) {
	r := New(logging.NewMockLogger())

	rules := []models.MerchantRule{
		{Pattern: "SWIGGY", Merchant: "First", Category: "Food & Dining", Priority: 3},
		{Pattern: "SWIG", Merchant: "Second", Category: "Shopping", Priority: 3},
	}

	result, found := r.Resolve("SWIGGY", rules)
	require.True(t, found)
	assert.Equal(t, "First", result.Merchant)
}

func TestResolve_NoMatchCases(t *testing.T) {
	r := New(logging.NewMockLogger())
	rules := testRules()

	_, found := r.Resolve("", rules)
	assert.False(t, found, "empty merchant")

	_, found = r.Resolve(models.UnknownMerchant, rules)
	assert.False(t, found, "unknown sentinel")

	_, found = r.Resolve("SWIGGY", nil)
	assert.False(t, found, "nil rule list")

	_, found = r.Resolve("SWIGGY", []models.MerchantRule{})
	assert.False(t, found, "empty rule list")

	_, found = r.Resolve("***", rules)
	assert.False(t, found, "merchant normalizes to empty")
}
