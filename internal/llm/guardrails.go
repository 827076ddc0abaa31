package llm

import (
	"context"
	"fmt"
	"strings"
)

// GuardrailResult is the outcome of a content safety check.
type GuardrailResult struct {
	IsSafe   bool
	Category string
	Reason   string
}

const safetyCheckSystemPrompt = `You are a content safety validator. Evaluate the following content for:
1. Harmful, offensive, or inappropriate content
2. Hallucinated or fabricated claims not supported by the provided context
3. Unprofessional tone or language
4. Off-topic content that doesn't address the task

Respond with ONLY one of these categories:
- SAFE: Content is appropriate and accurate
- UNSAFE_CONTENT: Contains harmful or inappropriate material
- HALLUCINATION: Contains claims not supported by context
- OFF_TOPIC: Doesn't address the intended task
- UNPROFESSIONAL_TONE: Language is not professional

Format: CATEGORY|brief reason`

// CheckOutputSafety validates generated content with a model-backed check.
// The check fails open: if the call itself errors, the content is allowed
// through with the error recorded as the reason.
func CheckOutputSafety(ctx context.Context, client Completer, content, contextNote string) GuardrailResult {
	userMessage := fmt.Sprintf("Content to evaluate:\n%s", content)
	if contextNote != "" {
		userMessage = fmt.Sprintf("Context:\n%s\n\n%s", contextNote, userMessage)
	}

	result, err := client.Complete(ctx, Request{
		System:    safetyCheckSystemPrompt,
		Messages:  []Message{{Role: "user", Content: userMessage}},
		MaxTokens: 100,
	})
	if err != nil {
		return GuardrailResult{
			IsSafe:   true,
			Category: "error",
			Reason:   fmt.Sprintf("guardrail check failed: %v", err),
		}
	}

	category, reason, _ := strings.Cut(strings.TrimSpace(result), "|")
	category = strings.ToLower(strings.TrimSpace(category))

	return GuardrailResult{
		IsSafe:   category == "safe",
		Category: category,
		Reason:   strings.TrimSpace(reason),
	}
}

// ValidateSummary checks an analysis summary for professional tone.
func ValidateSummary(ctx context.Context, client Completer, summary string) GuardrailResult {
	return CheckOutputSafety(ctx, client, summary,
		"This is a professional analysis summary for maintainers reviewing quickstart suggestions.")
}
