package classifier

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smsledger/internal/logging"
	"smsledger/internal/models"
)

type fakeAIClient struct {
	response string
	err      error
	prompts  []string
}

func (c *fakeAIClient) Generate(_ context.Context, prompt string) (string, error) {
	c.prompts = append(c.prompts, prompt)
	if c.err != nil {
		return "", c.err
	}
	return c.response, nil
}

func newTestAdapter(client AIClient) *Adapter {
	return NewAdapter(client, nil, logging.NewMockLogger())
}

func TestClassify_ValidResponse(t *testing.T) {
	client := &fakeAIClient{
		response: `{"merchant": "Swiggy", "category": "Food & Dining", "confidence": 0.6}`,
	}
	adapter := newTestAdapter(client)

	result := adapter.Classify(context.Background(), "Rs 29 sent to SWIGGY", "SWIGGY")

	assert.Equal(t, "Swiggy", result.Merchant)
	assert.Equal(t, "Food & Dining", result.Category)
	assert.Equal(t, 0.6, result.Confidence)
	assert.Equal(t, models.SourceFallbackClassifier, result.Source)
}

func TestClassify_ConfidenceCapped(t *testing.T) {
	client := &fakeAIClient{
		response: `{"merchant": "SWIGGY", "category": "Food & Dining", "confidence": 0.99}`,
	}
	adapter := newTestAdapter(client)

	result := adapter.Classify(context.Background(), "msg", "SWIGGY")

	assert.Equal(t, models.FallbackConfidenceCap, result.Confidence,
		"fallback confidence must be capped even when the classifier reports 0.99")
}

func TestClassify_CodeFencedResponse(t *testing.T) {
	client := &fakeAIClient{
		response: "```json\n{\"merchant\": \"Swiggy\", \"category\": \"Food & Dining\", \"confidence\": 0.5}\n```",
	}
	adapter := newTestAdapter(client)

	result := adapter.Classify(context.Background(), "msg", "SWIGGY")

	assert.Equal(t, "Food & Dining", result.Category)
	assert.Equal(t, 0.5, result.Confidence)
}

func TestClassify_GarbageResponse(t *testing.T) {
	client := &fakeAIClient{response: "I think this is probably food related."}
	adapter := newTestAdapter(client)

	result := adapter.Classify(context.Background(), "msg", "SWIGGY")

	assert.Equal(t, "SWIGGY", result.Merchant, "merchant must fall back to the raw token")
	assert.Equal(t, models.UnknownCategory, result.Category)
	assert.Equal(t, 0.0, result.Confidence)
	assert.Equal(t, models.SourceFallbackClassifier, result.Source)
}

func TestClassify_ClientError(t *testing.T) {
	client := &fakeAIClient{err: errors.New("rate limited")}
	adapter := newTestAdapter(client)

	result := adapter.Classify(context.Background(), "msg", "SWIGGY")

	assert.Equal(t, "SWIGGY", result.Merchant)
	assert.Equal(t, models.UnknownCategory, result.Category)
	assert.Equal(t, 0.0, result.Confidence)
}

func TestClassify_CategoryOutsideAllowedSet(t *testing.T) {
	client := &fakeAIClient{
		response: `{"merchant": "Swiggy", "category": "Fast Food", "confidence": 0.9}`,
	}
	adapter := newTestAdapter(client)

	result := adapter.Classify(context.Background(), "msg", "SWIGGY")

	assert.Equal(t, models.UnknownCategory, result.Category)
	assert.Equal(t, 0.0, result.Confidence)
}

func TestClassify_InvalidConfidenceForcedToZero(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"negative", `{"merchant": "Swiggy", "category": "Food & Dining", "confidence": -0.5}`},
		{"above one", `{"merchant": "Swiggy", "category": "Food & Dining", "confidence": 12}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := newTestAdapter(&fakeAIClient{response: tt.response})
			result := adapter.Classify(context.Background(), "msg", "SWIGGY")
			assert.Equal(t, 0.0, result.Confidence)
			assert.Equal(t, "Food & Dining", result.Category)
		})
	}
}

func TestClassify_NilClient(t *testing.T) {
	adapter := newTestAdapter(nil)

	result := adapter.Classify(context.Background(), "msg", "SWIGGY")

	assert.Equal(t, "SWIGGY", result.Merchant)
	assert.Equal(t, models.UnknownCategory, result.Category)
	assert.Equal(t, 0.0, result.Confidence)
}

func TestClassify_PromptContainsMessageMerchantAndCategories(t *testing.T) {
	client := &fakeAIClient{
		response: `{"merchant": "Swiggy", "category": "Food & Dining", "confidence": 0.5}`,
	}
	adapter := newTestAdapter(client)

	adapter.Classify(context.Background(), "Rs 29 sent to SWIGGY", "SWIGGY")

	require.Len(t, client.prompts, 1)
	prompt := client.prompts[0]
	assert.Contains(t, prompt, "Rs 29 sent to SWIGGY")
	assert.Contains(t, prompt, "SWIGGY")
	assert.Contains(t, prompt, "Food & Dining")
	assert.Contains(t, prompt, models.UnknownCategory)
}

func TestClassify_LongMessageTruncatedInPrompt(t *testing.T) {
	client := &fakeAIClient{
		response: `{"merchant": "Swiggy", "category": "Food & Dining", "confidence": 0.5}`,
	}
	adapter := newTestAdapter(client)

	long := make([]byte, 2000)
	for i := range long {
		long[i] = 'a'
	}
	adapter.Classify(context.Background(), string(long), "SWIGGY")

	require.Len(t, client.prompts, 1)
	assert.Less(t, len(client.prompts[0]), 1500)
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"no fences", `{"a": 1}`, `{"a": 1}`},
		{"plain fences", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"json fences", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"surrounding whitespace", "  ```json\n{\"a\": 1}\n```  ", `{"a": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, stripCodeFences(tt.input))
		})
	}
}
