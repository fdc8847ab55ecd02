package suggest

// EstimateTokens estimates token count using the ~4 chars/token heuristic.
// Good enough for context budgeting. Not billing-accurate.
func EstimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	// Round up: (len + 3) / 4
	return (len(text) + 3) / 4
}
