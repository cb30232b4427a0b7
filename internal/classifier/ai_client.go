// Package classifier is the fallback path of merchant resolution: when no
// rule matches, an external text-generation model is asked to classify the
// message, and its output is validated and confidence-capped before use.
package classifier

import "context"

// AIClient is the minimal surface the adapter needs from an external
// text-generation service: one prompt in, free text out. Keeping it this
// narrow lets tests substitute canned responses and keeps the provider
// choice out of the core.
type AIClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
