// Package gap decides whether specification content adequately reflects
// exploration content, and vice versa, returning natural-language
// findings. Analysis is pure and advisory: when gaps exist the report
// recommends a flywheel iteration, but reverting phase state is always an
// explicit caller decision.
package gap

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/HendryAvila/compass/internal/project"
)

// Report is the outcome of one analysis run. It is transient and never
// persisted.
type Report struct {
	Findings       []string
	Recommendation string
}

// Clean reports whether the analysis found nothing to flag.
func (r Report) Clean() bool {
	return len(r.Findings) == 0
}

// Analyze runs the default analysis over the project's exploration text
// and its newest specification document. An empty specification is
// expected while the phase is still exploration, not a gap.
func Analyze(exploration, specification string, phase project.Phase) Report {
	return AnalyzeWith(exploration, specification, phase, DefaultConfig())
}

// AnalyzeWith runs the analysis with a caller-supplied table set. Steps
// run in a fixed order and findings keep that order, so identical inputs
// produce identical reports.
func AnalyzeWith(exploration, specification string, phase project.Phase, cfg Config) Report {
	if strings.TrimSpace(exploration) == "" {
		return finish([]string{"Exploration is incomplete: no session content recorded yet."})
	}
	if strings.TrimSpace(specification) == "" {
		if phase == project.PhaseExploration {
			return finish(nil)
		}
		return finish([]string{"Specification has not been started, but the project has moved past exploration."})
	}

	var findings []string
	explTokens := tokenize(exploration)
	specTokens := tokenize(specification)

	for _, keyword := range cfg.CriticalKeywords {
		if specTokens[keyword] && !explTokens[keyword] {
			findings = append(findings, fmt.Sprintf("Specification mentions %q but exploration lacks detail on it.", keyword))
		}
	}

	if utf8.RuneCountInString(strings.TrimSpace(exploration)) < cfg.BrevityThreshold {
		findings = append(findings, "Exploration content is too brief and may need deeper investigation.")
	}

	questions := strings.Count(exploration, "?")
	responses := 0
	lower := strings.ToLower(exploration)
	for _, marker := range cfg.UserMarkers {
		responses += strings.Count(lower, marker)
	}
	if questions > 2*responses {
		findings = append(findings, "Many exploration questions remain unanswered.")
	}

	if missing := missingInsights(exploration, specTokens, cfg); len(missing) > 0 {
		findings = append(findings, "Exploration insights missing from the specification: "+strings.Join(missing, "; "))
	}

	return finish(findings)
}

func finish(findings []string) Report {
	report := Report{Findings: findings}
	if len(findings) == 0 {
		report.Recommendation = "No gaps detected."
	} else {
		report.Recommendation = "Gaps found. Run or reopen exploration to close them before specification work continues."
	}
	return report
}

// missingInsights finds exploration sentences carrying an insight marker
// whose significant words are entirely absent from the specification.
// All such sentences batch into the order they appear in.
func missingInsights(exploration string, specTokens map[string]bool, cfg Config) []string {
	var missing []string
	for _, sentence := range splitSentences(exploration) {
		if !containsAny(strings.ToLower(sentence), cfg.InsightMarkers...) {
			continue
		}
		tokens := tokenize(sentence)
		if len(tokens) == 0 {
			continue
		}
		covered := false
		for word := range tokens {
			if specTokens[word] {
				covered = true
				break
			}
		}
		if !covered {
			missing = append(missing, sentence)
		}
	}
	return missing
}

// tokenize lowers the text and returns its alphabetic words longer than
// three runes as a set.
func tokenize(text string) map[string]bool {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	tokens := make(map[string]bool, len(words))
	for _, word := range words {
		if utf8.RuneCountInString(word) > 3 {
			tokens[word] = true
		}
	}
	return tokens
}

// splitSentences breaks text on sentence terminators, dropping blanks.
func splitSentences(text string) []string {
	raw := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	sentences := make([]string, 0, len(raw))
	for _, s := range raw {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			sentences = append(sentences, trimmed)
		}
	}
	return sentences
}

// containsAny returns true if text contains any of the given substrings.
func containsAny(text string, subs ...string) bool {
	for _, s := range subs {
		if strings.Contains(text, s) {
			return true
		}
	}
	return false
}
