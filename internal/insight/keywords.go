package insight

// Field keys double as the pattern-agnostic variable names the renderer
// substitutes into specification templates.
const (
	FieldPainPoints              = "PAIN_POINTS"
	FieldCoreFeatures            = "CORE_FEATURES"
	FieldConstraints             = "CONSTRAINTS"
	FieldGoals                   = "GOALS"
	FieldRisks                   = "RISKS"
	FieldStakeholders            = "STAKEHOLDERS"
	FieldSuccessCriteria         = "SUCCESS_CRITERIA"
	FieldTechnicalConsiderations = "TECHNICAL_CONSIDERATIONS"
	FieldCurrentState            = "CURRENT_STATE"
	FieldTargetState             = "TARGET_STATE"
)

// Rule configures extraction for one bundle field. Rules are data: the
// extractor is a pure function over (text, rules), so tuning a field
// means editing its keyword list, not the scanning code.
type Rule struct {
	Field    string
	Keywords []string

	// Contextual fields target dialogue structure: a question line
	// containing a keyword captures the next user-authored line, so the
	// answer populates the field rather than the question itself.
	Contextual bool
}

// DefaultRules returns the extraction table for the ten bundle fields.
func DefaultRules() []Rule {
	return []Rule{
		{
			Field:      FieldPainPoints,
			Keywords:   []string{"pain", "problem", "issue", "frustrat", "struggle", "difficult", "annoying", "complaint"},
			Contextual: true,
		},
		{
			Field:      FieldCoreFeatures,
			Keywords:   []string{"feature", "functionality", "capability", "should be able", "must have", "need to", "want to"},
			Contextual: true,
		},
		{
			Field:    FieldConstraints,
			Keywords: []string{"constraint", "limitation", "budget", "deadline", "restriction", "cannot", "limited", "compliance"},
		},
		{
			Field:    FieldGoals,
			Keywords: []string{"goal", "objective", "aim", "achieve", "outcome", "vision", "intend"},
		},
		{
			Field:    FieldRisks,
			Keywords: []string{"risk", "threat", "concern", "worry", "uncertain", "failure", "danger"},
		},
		{
			Field:    FieldStakeholders,
			Keywords: []string{"stakeholder", "user", "customer", "client", "team", "manager", "audience"},
		},
		{
			Field:    FieldSuccessCriteria,
			Keywords: []string{"success", "criteria", "metric", "measure", "kpi", "milestone"},
		},
		{
			Field:    FieldTechnicalConsiderations,
			Keywords: []string{"technical", "technology", "architecture", "platform", "integration", "infrastructure", "api", "database"},
		},
		{
			Field:    FieldCurrentState,
			Keywords: []string{"currently", "today", "existing", "right now", "as-is", "at the moment"},
		},
		{
			Field:    FieldTargetState,
			Keywords: []string{"future", "target", "to-be", "eventually", "desired", "end state", "roadmap"},
		},
	}
}

// assistantMarkers identify lines authored by the interviewing side of a
// conversation transcript.
var assistantMarkers = []string{"assistant:", "ai:", "claude:", "compass:", "q:"}

// userMarkers identify (and are stripped from) user-authored lines.
var userMarkers = []string{"user:", "me:", "a:", "human:"}
