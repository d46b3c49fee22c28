package listing

import (
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/censeo/internal/common"
	"github.com/ternarybob/censeo/internal/models"
)

// Engine evaluates a requirement catalogue against a derived listing context.
type Engine struct {
	rules  []Rule
	logger arbor.ILogger
}

// NewEngine validates the catalogue and returns an engine over it.
func NewEngine(rules []Rule) (*Engine, error) {
	if err := ValidateCatalogue(rules); err != nil {
		return nil, err
	}
	return &Engine{
		rules:  rules,
		logger: common.GetLogger(),
	}, nil
}

// NewDefaultEngine returns an engine over the built-in catalogue.
func NewDefaultEngine() *Engine {
	engine, err := NewEngine(DefaultCatalogue())
	if err != nil {
		// The built-in catalogue is static; a validation failure here is a
		// programming error, not a runtime condition.
		panic(err)
	}
	return engine
}

// BuildRequirements derives the listing context and returns every catalogue
// rule that fires, in catalogue order, deduplicated by rule ID. The context
// is returned alongside so fact sheets and summaries can reuse the same
// posture and escalation picture.
func (e *Engine) BuildRequirements(
	overallBandNumeric int,
	escalations []models.BoardEscalation,
	refinedTags []models.RefinedTag,
) ([]models.Requirement, Context) {
	ctx := BuildContext(overallBandNumeric, escalations, refinedTags)

	requirements := make([]models.Requirement, 0, len(e.rules))
	seen := make(map[string]struct{}, len(e.rules))

	for _, rule := range e.rules {
		if !rule.Matches(&ctx) {
			continue
		}
		if _, dup := seen[rule.ID]; dup {
			continue
		}
		seen[rule.ID] = struct{}{}
		requirements = append(requirements, models.Requirement{
			ID:       rule.ID,
			Title:    rule.Title,
			Severity: rule.Severity,
			Text:     rule.Text,
		})
	}

	e.logger.Debug().
		Str("posture", string(ctx.Posture)).
		Int("band", ctx.OverallBand).
		Int("total_escalations", ctx.TotalEscalations).
		Int("requirements", len(requirements)).
		Msg("Listing requirements evaluated")

	return requirements, ctx
}
