package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"smsledger/internal/logging"
	"smsledger/internal/models"
)

// maxPromptMessageLen bounds how much of the raw message is embedded in the
// prompt.
const maxPromptMessageLen = 500

// Adapter wraps an AIClient into the pipeline's fallback classifier. It is
// the single swallow-all boundary in the pipeline: Classify always returns a
// fully-formed result, representing every failure as a zero-confidence
// "Unknown" classification rather than an error.
type Adapter struct {
	client     AIClient
	categories []string
	logger     logging.Logger
}

// NewAdapter creates an Adapter. The categories list is the closed set the
// classifier may answer with; a nil list falls back to the default set. The
// client may be nil, in which case every classification is the unknown
// result.
func NewAdapter(client AIClient, categories []string, logger logging.Logger) *Adapter {
	if len(categories) == 0 {
		categories = models.DefaultCategories
	}
	if logger == nil {
		logger = logging.NewMockLogger()
	}
	return &Adapter{
		client:     client,
		categories: categories,
		logger:     logger,
	}
}

type classifierResponse struct {
	Merchant   string  `json:"merchant"`
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

// Classify asks the external model to classify the message. The returned
// confidence never exceeds the fallback cap, and the category is always a
// member of the configured closed set.
func (a *Adapter) Classify(ctx context.Context, message, rawMerchant string) models.ResolutionResult {
	if a.client == nil {
		a.logger.Debug("No AI client configured, returning unknown classification")
		return a.unknownResult(rawMerchant)
	}

	prompt := a.buildPrompt(message, rawMerchant)

	text, err := a.client.Generate(ctx, prompt)
	if err != nil {
		a.logger.WithError(err).WithField("merchant", rawMerchant).
			Warn("Fallback classification failed")
		return a.unknownResult(rawMerchant)
	}

	var parsed classifierResponse
	if err := json.Unmarshal([]byte(stripCodeFences(text)), &parsed); err != nil {
		a.logger.WithError(err).WithField("merchant", rawMerchant).
			Warn("Fallback classifier returned unparseable output")
		return a.unknownResult(rawMerchant)
	}

	result := models.ResolutionResult{
		Merchant:   strings.TrimSpace(parsed.Merchant),
		Category:   strings.TrimSpace(parsed.Category),
		Confidence: parsed.Confidence,
		Source:     models.SourceFallbackClassifier,
	}
	if result.Merchant == "" {
		result.Merchant = rawMerchant
	}

	if !a.isAllowedCategory(result.Category) {
		a.logger.WithField("category", result.Category).
			Debug("Fallback classifier returned category outside the allowed set")
		result.Category = models.UnknownCategory
		result.Confidence = 0
		return result
	}

	if result.Confidence < 0 || result.Confidence > 1 || result.Confidence != result.Confidence {
		result.Confidence = 0
	}
	if result.Confidence > models.FallbackConfidenceCap {
		result.Confidence = models.FallbackConfidenceCap
	}

	a.logger.WithFields(
		logging.Field{Key: "merchant", Value: result.Merchant},
		logging.Field{Key: "category", Value: result.Category},
		logging.Field{Key: "confidence", Value: result.Confidence},
	).Debug("Fallback classification accepted")

	return result
}

func (a *Adapter) unknownResult(rawMerchant string) models.ResolutionResult {
	return models.ResolutionResult{
		Merchant:   rawMerchant,
		Category:   models.UnknownCategory,
		Confidence: 0,
		Source:     models.SourceFallbackClassifier,
	}
}

func (a *Adapter) buildPrompt(message, rawMerchant string) string {
	if len(message) > maxPromptMessageLen {
		message = message[:maxPromptMessageLen]
	}

	return fmt.Sprintf(`You classify bank transaction notifications.

Message: %q
Extracted merchant: %q

Assign the transaction to exactly one of these categories:
%s

Respond with strict JSON only, no other text:
{"merchant": "<canonical merchant name>", "category": "<one category from the list>", "confidence": <number between 0 and 1>}`,
		message, rawMerchant, strings.Join(a.categories, ", "))
}

func (a *Adapter) isAllowedCategory(category string) bool {
	for _, c := range a.categories {
		if c == category {
			return true
		}
	}
	return false
}

// stripCodeFences removes surrounding Markdown code-fence markers that
// models often wrap JSON responses in.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// A language tag may follow the opening fence, e.g. ```json.
	if idx := strings.Index(s, "\n"); idx >= 0 {
		firstLine := strings.TrimSpace(s[:idx])
		if firstLine == "json" || firstLine == "" {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
