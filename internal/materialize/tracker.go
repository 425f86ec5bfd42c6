package materialize

import (
	"github.com/opmodel/confgraph/internal/condition"
	"github.com/opmodel/confgraph/internal/parser"
)

// tracker remembers which units were skipped during one load. An imported
// unit is skipped when every unit that imported it was, or when its own
// register-phase conditions fail.
type tracker struct {
	conditions *condition.Evaluator
	skipped    map[string]bool
}

func newTracker(conditions *condition.Evaluator) *tracker {
	return &tracker{conditions: conditions, skipped: map[string]bool{}}
}

func (t *tracker) shouldSkip(u *parser.Unit) (bool, error) {
	if skip, ok := t.skipped[u.Name()]; ok {
		return skip, nil
	}
	// Provisional answer for import cycles.
	t.skipped[u.Name()] = false

	skip := false
	if u.IsImported() {
		skip = true
		for _, importer := range u.ImportedBy() {
			s, err := t.shouldSkip(importer)
			if err != nil {
				return false, err
			}
			if !s {
				skip = false
				break
			}
		}
	}
	if !skip && t.conditions != nil {
		var err error
		if skip, err = t.conditions.ShouldSkip(u.Metadata, condition.PhaseRegister); err != nil {
			return false, err
		}
	}
	t.skipped[u.Name()] = skip
	return skip, nil
}
