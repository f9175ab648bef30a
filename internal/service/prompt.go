package service

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Egor213/ExceptionSieve/internal/domain"
	"github.com/Egor213/ExceptionSieve/internal/severity"
)

const (
	maxPromptHistory    = 10
	maxPromptStackLines = 10
	promptTimeLayout    = time.RFC3339
)

const denoiseSystemInstruction = "You are the denoising assistant of an exception monitoring system. " +
	"Answer with a single JSON object and nothing else."

// BuildDenoisePrompt renders ev and up to ten prior occurrences for the model.
func BuildDenoisePrompt(ev *domain.ExceptionEvent, history []domain.ExceptionRecord, lookback time.Duration) string {
	var b strings.Builder

	b.WriteString("# Task\n")
	b.WriteString("Decide whether the new exception below deserves an alert.\n\n")

	b.WriteString("# Criteria\n")
	b.WriteString("1. Duplicate: same type, location and cause as a recent exception means no new alert.\n")
	b.WriteString("2. Burst: many identical or similar exceptions in a short time point to one systemic problem, merge them.\n")
	b.WriteString("3. New: a new exception type or a new location should alert.\n")
	b.WriteString("4. Escalation: a wider impact or higher severity than before should alert again.\n\n")

	b.WriteString("# New exception\n```\n")
	fmt.Fprintf(&b, "App: %s\n", ev.AppName)
	fmt.Fprintf(&b, "Environment: %s\n", ev.Environment)
	fmt.Fprintf(&b, "Type: %s\n", ev.ExceptionType)
	fmt.Fprintf(&b, "Message: %s\n", ev.Message)
	fmt.Fprintf(&b, "Location: %s\n", ev.ErrorLocation)
	fmt.Fprintf(&b, "Occurred at: %s\n", ev.OccurredAt.Format(promptTimeLayout))
	if ev.Request != nil {
		fmt.Fprintf(&b, "Request URI: %s\n", ev.Request.URI)
	}
	b.WriteString("Stack excerpt:\n")
	b.WriteString(truncateStack(ev.StackTrace, maxPromptStackLines))
	b.WriteString("\n```\n\n")

	fmt.Fprintf(&b, "# Exceptions of the last %s\n", lookback)
	if len(history) == 0 {
		b.WriteString("(no history, this is the first occurrence)\n\n")
	} else {
		fmt.Fprintf(&b, "%d records:\n\n", len(history))
		for i, rec := range history {
			if i == maxPromptHistory {
				break
			}
			fmt.Fprintf(&b, "## #%d\n```\n", i+1)
			fmt.Fprintf(&b, "ID: %d\n", rec.ID)
			fmt.Fprintf(&b, "Type: %s\n", rec.ExceptionType)
			fmt.Fprintf(&b, "Message: %s\n", rec.Message)
			fmt.Fprintf(&b, "Location: %s\n", rec.ErrorLocation)
			fmt.Fprintf(&b, "Occurred at: %s\n", rec.OccurredAt.Format(promptTimeLayout))
			fmt.Fprintf(&b, "Fingerprint: %s\n", rec.Fingerprint)
			b.WriteString("```\n\n")
		}
	}

	b.WriteString("# Output\n")
	b.WriteString("Return JSON in exactly this shape:\n```json\n")
	b.WriteString("{\n")
	b.WriteString("  \"shouldAlert\": true,\n")
	b.WriteString("  \"isDuplicate\": false,\n")
	b.WriteString("  \"similarityScore\": 0.0,\n")
	b.WriteString("  \"suggestedSeverity\": \"P0|P1|P2|P3|P4\",\n")
	b.WriteString("  \"reason\": \"short explanation\",\n")
	b.WriteString("  \"relatedExceptionIds\": [1, 2],\n")
	b.WriteString("  \"suggestion\": \"advice for the on-call engineer\"\n")
	b.WriteString("}\n```\n\n")
	b.WriteString("Return only the JSON object.\n")

	return b.String()
}

func truncateStack(stack string, maxLines int) string {
	lines := strings.Split(stack, "\n")
	if len(lines) <= maxLines {
		return stack
	}
	return strings.Join(lines[:maxLines], "\n") + "\n... (truncated)"
}

// ExtractJSON strips markdown fences and returns the text between the first '{' and the last '}'.
func ExtractJSON(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", ErrEmptyAIResponse
	}
	switch {
	case strings.HasPrefix(s, "```json"):
		s = s[len("```json"):]
	case strings.HasPrefix(s, "```"):
		s = s[len("```"):]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")

	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return "", ErrNoJSONObject
	}
	return s[start : end+1], nil
}

// ParseDecision turns a raw model answer into a decision.
func ParseDecision(raw string) (domain.DenoiseDecision, error) {
	body, err := ExtractJSON(raw)
	if err != nil {
		return domain.DenoiseDecision{}, err
	}

	// a missing shouldAlert still alerts
	d := domain.DenoiseDecision{ShouldAlert: true}
	if err := json.Unmarshal([]byte(body), &d); err != nil {
		return domain.DenoiseDecision{}, fmt.Errorf("decode AI decision: %w", err)
	}

	switch {
	case d.SimilarityScore < 0:
		d.SimilarityScore = 0
	case d.SimilarityScore > 1:
		d.SimilarityScore = 1
	}
	d.SuggestedSeverity = strings.ToUpper(strings.TrimSpace(d.SuggestedSeverity))
	if severity.Rank(d.SuggestedSeverity) > 4 {
		d.SuggestedSeverity = ""
	}
	return d, nil
}
