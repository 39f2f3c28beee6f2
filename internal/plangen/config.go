package plangen

// Config holds generation settings per request kind. Whole-plan requests
// need a much larger completion budget than single-day swaps.
type Config struct {
	PlanMaxTokens int
	DayMaxTokens  int
	ChatMaxTokens int
	Temperature   float64
}

// DefaultConfig returns sensible defaults for plan generation.
func DefaultConfig() Config {
	return Config{
		PlanMaxTokens: 8192,
		DayMaxTokens:  1024,
		ChatMaxTokens: 768,
		Temperature:   0.7,
	}
}
