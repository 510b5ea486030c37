package engine

import (
	"github.com/HendryAvila/compass/internal/archive"
	"github.com/HendryAvila/compass/internal/gap"
	"github.com/HendryAvila/compass/internal/insight"
	"github.com/HendryAvila/compass/internal/pattern"
	"github.com/HendryAvila/compass/internal/phase"
	"github.com/HendryAvila/compass/internal/project"
)

// SpecificationResult is the outcome of rendering a pattern.
type SpecificationResult struct {
	Pattern   string
	Document  string
	Path      string
	Bundle    insight.Bundle
	Unmatched []string // placeholders the pattern declared but nothing filled
}

// GenerateSpecification renders the named pattern against the insights
// extracted from the project's full exploration context and persists
// the document under a fresh timestamped name. Generating does not
// complete the specification phase; that is a separate, explicit step,
// so a caller can try several patterns before settling.
func (e *Engine) GenerateSpecification(name, patternName string) (*SpecificationResult, error) {
	p, err := e.loadProject(name)
	if err != nil {
		return nil, err
	}

	if p.Phase == project.PhaseExploration {
		return nil, precondition(
			"exploration phase not completed",
			"complete the exploration phase first",
		)
	}

	pat, err := e.patterns.Get(patternName)
	if err != nil {
		return nil, wrap(err)
	}

	context, err := e.archive.LoadContext(p.Slug)
	if err != nil {
		return nil, wrap(err)
	}

	bundle := insight.Extract(context)
	vars := bundle.Variables()
	vars["PROJECT_NAME"] = p.Name
	vars["EXPLORATION_SUMMARY"] = context
	vars["GENERATED_DATE"] = project.DateStamp()

	rendered := pattern.Render(pat, vars)

	path, err := e.writeSpecDocument(p.Slug, pat.Name, rendered.Document)
	if err != nil {
		return nil, wrap(err)
	}

	return &SpecificationResult{
		Pattern:   pat.Name,
		Document:  rendered.Document,
		Path:      path,
		Bundle:    bundle,
		Unmatched: rendered.Unmatched,
	}, nil
}

// MarkSpecificationComplete stamps the specification phase as done,
// unlocking execution. It requires the project to be in the
// specification phase with at least one generated document.
func (e *Engine) MarkSpecificationComplete(name string) (*project.Project, error) {
	p, err := e.loadProject(name)
	if err != nil {
		return nil, err
	}

	docs, err := e.specDocuments(p.Slug)
	if err != nil {
		return nil, wrap(err)
	}

	if err := phase.MarkSpecificationComplete(p, len(docs)); err != nil {
		return nil, wrap(err)
	}
	if err := e.store.Save(p); err != nil {
		return nil, wrap(err)
	}
	return p, nil
}

// gapSkipped is reported when project files cannot be read; gap
// analysis is advisory, so read failures degrade instead of erroring.
const gapSkipped = "Gap analysis skipped: project files could not be read."

// CheckGaps compares the exploration record against the newest
// specification document and reports mismatches. Findings never gate a
// transition; they feed the caller's decision to reopen a phase.
func (e *Engine) CheckGaps(name string) (gap.Report, error) {
	p, err := e.loadProject(name)
	if err != nil {
		return gap.Report{}, err
	}

	exploration, cerr := e.archive.LoadContext(p.Slug)
	if exploration == archive.NoPriorSessions {
		exploration = ""
	}
	specText, serr := e.newestSpecContent(p.Slug)
	if cerr != nil || serr != nil {
		return gap.Report{Recommendation: gapSkipped}, nil
	}

	return gap.Analyze(exploration, specText, p.Phase), nil
}
