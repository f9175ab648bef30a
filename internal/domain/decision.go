package domain

type DenoiseDecision struct {
	ShouldAlert         bool    `json:"shouldAlert"`
	IsDuplicate         bool    `json:"isDuplicate"`
	SimilarityScore     float64 `json:"similarityScore"`
	SuggestedSeverity   string  `json:"suggestedSeverity"`
	Reason              string  `json:"reason"`
	RelatedExceptionIDs []int64 `json:"relatedExceptionIds"`
	Suggestion          string  `json:"suggestion"`
}

// FallbackDecision is returned whenever the model cannot give a usable answer.
// It always alerts.
func FallbackDecision(reason string) DenoiseDecision {
	return DenoiseDecision{
		ShouldAlert:       true,
		IsDuplicate:       false,
		SimilarityScore:   0,
		SuggestedSeverity: SeverityP3,
		Reason:            reason,
	}
}
