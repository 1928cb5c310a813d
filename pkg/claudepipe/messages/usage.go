package messages

// UsageStats holds token counters from a result message.
type UsageStats struct {
	// InputTokens is the number of prompt tokens consumed.
	InputTokens int `json:"input_tokens"`
	// OutputTokens is the number of generated tokens.
	OutputTokens int `json:"output_tokens"`
	// CacheReadInputTokens counts prompt tokens served from cache.
	CacheReadInputTokens int `json:"cache_read_input_tokens,omitempty"`
	// CacheCreationInputTokens counts prompt tokens written to cache.
	CacheCreationInputTokens int `json:"cache_creation_input_tokens,omitempty"`
}

// TotalTokens returns input plus output tokens.
func (u UsageStats) TotalTokens() int {
	return u.InputTokens + u.OutputTokens
}

// CostInfo holds the cost breakdown from a result message.
type CostInfo struct {
	// TotalUSD is the total estimated cost in US dollars.
	TotalUSD float64 `json:"total_usd"`
	// InputUSD is the input-token share of the cost.
	InputUSD float64 `json:"input_usd,omitempty"`
	// OutputUSD is the output-token share of the cost.
	OutputUSD float64 `json:"output_usd,omitempty"`
}
