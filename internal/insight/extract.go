// Package insight maps raw exploration conversation text to the ten-field
// Insight Bundle using keyword heuristics. Extraction is deterministic:
// identical input text and rule tables always produce an identical bundle.
// There is no language model here, only surface matching.
package insight

import "strings"

// DefaultText fills any field with no matches after every pass.
const DefaultText = "No specific information identified from exploration."

// Bundle is the structured summary derived from exploration text. It is
// recomputed on demand and never persisted standalone; generated
// specification documents embed its values.
type Bundle struct {
	PainPoints              string
	CoreFeatures            string
	Constraints             string
	Goals                   string
	Risks                   string
	Stakeholders            string
	SuccessCriteria         string
	TechnicalConsiderations string
	CurrentState            string
	TargetState             string
}

// Variables returns the bundle as a variable map keyed by the fixed,
// pattern-agnostic names templates substitute.
func (b Bundle) Variables() map[string]string {
	return map[string]string{
		FieldPainPoints:              b.PainPoints,
		FieldCoreFeatures:            b.CoreFeatures,
		FieldConstraints:             b.Constraints,
		FieldGoals:                   b.Goals,
		FieldRisks:                   b.Risks,
		FieldSuccessCriteria:         b.SuccessCriteria,
		FieldStakeholders:            b.Stakeholders,
		FieldTechnicalConsiderations: b.TechnicalConsiderations,
		FieldCurrentState:            b.CurrentState,
		FieldTargetState:             b.TargetState,
	}
}

// IsDefault reports whether a field value is the no-information sentinel.
func IsDefault(value string) bool {
	return value == DefaultText
}

// Extract computes the Insight Bundle for the given exploration text
// using the default rule table.
func Extract(text string) Bundle {
	return ExtractWith(text, DefaultRules())
}

// ExtractWith computes a bundle using a caller-supplied rule table.
func ExtractWith(text string, rules []Rule) Bundle {
	values := make(map[string]string, len(rules))
	lines := strings.Split(text, "\n")

	for _, rule := range rules {
		if rule.Contextual {
			values[rule.Field] = extractContextual(lines, rule.Keywords)
		} else {
			values[rule.Field] = extractDirect(text, lines, rule.Keywords)
		}
	}

	return Bundle{
		PainPoints:              values[FieldPainPoints],
		CoreFeatures:            values[FieldCoreFeatures],
		Constraints:             values[FieldConstraints],
		Goals:                   values[FieldGoals],
		Risks:                   values[FieldRisks],
		Stakeholders:            values[FieldStakeholders],
		SuccessCriteria:         values[FieldSuccessCriteria],
		TechnicalConsiderations: values[FieldTechnicalConsiderations],
		CurrentState:            values[FieldCurrentState],
		TargetState:             values[FieldTargetState],
	}
}

// extractContextual scans for question lines carrying a keyword and
// captures the next user-authored line — the answer, not the question.
func extractContextual(lines []string, keywords []string) string {
	var captures []string

	for i, line := range lines {
		if !isQuestionLine(line) || !containsAny(strings.ToLower(line), keywords...) {
			continue
		}
		if answer, ok := nextUserLine(lines, i+1); ok {
			captures = append(captures, answer)
		}
	}

	if len(captures) == 0 {
		return DefaultText
	}
	return strings.Join(captures, " ")
}

// extractDirect collects keyword-matching lines verbatim, falling back
// to sentence-level scanning when no whole line matches. Direct line
// matches preserve user phrasing precisely; the sentence pass catches
// keywords buried mid-paragraph.
func extractDirect(text string, lines []string, keywords []string) string {
	var matches []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if containsAny(strings.ToLower(trimmed), keywords...) {
			matches = append(matches, trimmed)
		}
	}
	if len(matches) > 0 {
		return strings.Join(matches, "\n")
	}

	for _, sentence := range splitSentences(text) {
		if containsAny(strings.ToLower(sentence), keywords...) {
			matches = append(matches, sentence)
		}
	}
	if len(matches) > 0 {
		return strings.Join(matches, " ")
	}

	return DefaultText
}

// isQuestionLine reports whether a line reads as the interviewing side:
// it contains a question mark or starts with an assistant marker.
func isQuestionLine(line string) bool {
	if strings.Contains(line, "?") {
		return true
	}
	lower := strings.ToLower(strings.TrimSpace(line))
	for _, marker := range assistantMarkers {
		if strings.HasPrefix(lower, marker) {
			return true
		}
	}
	return false
}

// nextUserLine finds the first user-authored line at or after start:
// non-empty, not itself a question line, with speaker and list markup
// stripped.
func nextUserLine(lines []string, start int) (string, bool) {
	for i := start; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" || isQuestionLine(trimmed) {
			continue
		}
		return stripMarkup(trimmed), true
	}
	return "", false
}

// stripMarkup removes a leading speaker marker and markdown list or
// heading prefixes from a captured response line.
func stripMarkup(line string) string {
	lower := strings.ToLower(line)
	for _, marker := range userMarkers {
		if strings.HasPrefix(lower, marker) {
			line = strings.TrimSpace(line[len(marker):])
			break
		}
	}
	return strings.TrimSpace(strings.TrimLeft(line, "-*#> "))
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
