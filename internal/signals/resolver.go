package signals

import (
	"strings"

	"github.com/ternarybob/censeo/internal/ddq"
	"github.com/ternarybob/censeo/internal/models"
)

// Resolver resolves named signals against an answer store snapshot using an
// injected registry. Resolution is pure: the same store always yields the
// same answer.
type Resolver struct {
	store    *ddq.AnswerStore
	registry *Registry
}

// NewResolver creates a resolver over an answer store.
func NewResolver(store *ddq.AnswerStore, registry *Registry) *Resolver {
	return &Resolver{store: store, registry: registry}
}

// Resolve looks up the best matching answer for a signal. Sources are tried
// in priority order; the first source with any candidate rows wins. A signal
// with no candidates anywhere resolves to nil, never an error.
func (r *Resolver) Resolve(signalName string) *models.SignalAnswer {
	for _, src := range r.registry.Sources(signalName) {
		best := r.bestAnswer(src.Sheet, src.QuestionIDs)
		if best == nil {
			continue
		}
		raw := strings.TrimSpace(best.RawResponse)
		citations := make([]string, 0, len(best.Citations))
		for _, c := range best.Citations {
			if c = strings.TrimSpace(c); c != "" {
				citations = append(citations, c)
			}
		}
		return &models.SignalAnswer{
			Signal:      signalName,
			Sheet:       src.Sheet,
			QuestionID:  strings.TrimSpace(best.QuestionID),
			RawResponse: raw,
			Bucket:      Normalize(raw),
			Confidence:  strings.TrimSpace(best.Confidence),
			Narrative:   strings.TrimSpace(best.Narrative),
			Citations:   citations,
			Numeric:     ExtractNumber(raw),
		}
	}
	return nil
}

// Missing reports whether a signal has no answer in the store.
func (r *Resolver) Missing(signalName string) bool {
	return r.Resolve(signalName) == nil
}

// bestAnswer gathers every candidate row across the aliased question ids for
// a sheet and picks the best one by (confidence rank, has citations, has
// narrative). The comparison is strictly "better than", so equal candidates
// resolve to the earliest-ingested row and selection stays deterministic.
func (r *Resolver) bestAnswer(sheet string, questionIDs []string) *models.AnswerRow {
	var candidates []*models.AnswerRow
	for _, qid := range questionIDs {
		candidates = append(candidates, r.store.Lookup(sheet, qid)...)
	}
	if len(candidates) == 0 {
		return nil
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if answerScore(c).betterThan(answerScore(best)) {
			best = c
		}
	}
	return best
}

type candidateScore struct {
	confidence   int
	hasCitations bool
	hasNarrative bool
}

func answerScore(a *models.AnswerRow) candidateScore {
	return candidateScore{
		confidence:   ConfidenceRank(a.Confidence),
		hasCitations: a.HasCitations(),
		hasNarrative: strings.TrimSpace(a.Narrative) != "",
	}
}

func (s candidateScore) betterThan(other candidateScore) bool {
	if s.confidence != other.confidence {
		return s.confidence > other.confidence
	}
	if s.hasCitations != other.hasCitations {
		return s.hasCitations
	}
	if s.hasNarrative != other.hasNarrative {
		return s.hasNarrative
	}
	return false
}
