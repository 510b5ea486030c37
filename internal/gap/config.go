package gap

// Config holds the tunable tables the analyzer matches against. Tables
// are data: adjusting coverage means editing a list, not the analysis
// steps.
type Config struct {
	// CriticalKeywords are topics a specification must not introduce
	// without backing exploration detail.
	CriticalKeywords []string

	// InsightMarkers identify exploration sentences that carry project
	// insight worth tracing into the specification.
	InsightMarkers []string

	// UserMarkers identify user-authored responses when weighing open
	// questions against answers.
	UserMarkers []string

	// BrevityThreshold is the exploration length, in runes, below which
	// the too-brief finding fires.
	BrevityThreshold int
}

// DefaultConfig returns the standard analysis tables.
func DefaultConfig() Config {
	return Config{
		CriticalKeywords: []string{
			"user", "customer", "stakeholder", "requirement", "feature",
			"technical", "architecture", "performance", "security",
			"risk", "constraint", "timeline", "budget", "resource",
		},
		InsightMarkers:   []string{"problem", "need", "goal", "challenge"},
		UserMarkers:      []string{"user:", "me:", "a:", "human:"},
		BrevityThreshold: 500,
	}
}
