// Package ddq ingests due-diligence questionnaire workbooks and indexes the
// extracted answer rows for signal resolution.
package ddq

import (
	"strings"

	"github.com/ternarybob/censeo/internal/models"
)

// AnswerStore indexes raw questionnaire rows by (sheet, question-id).
// Multiple candidate rows per key are possible (duplicate or renumbered
// questions); insertion order is preserved per key so resolver tie-breaks
// stay reproducible.
type AnswerStore struct {
	byKey map[string][]*models.AnswerRow
	rows  []*models.AnswerRow
}

// NewAnswerStore creates an empty store.
func NewAnswerStore() *AnswerStore {
	return &AnswerStore{
		byKey: make(map[string][]*models.AnswerRow),
	}
}

func answerKey(sheet, questionID string) string {
	return strings.TrimSpace(sheet) + "::" + strings.ToUpper(strings.TrimSpace(questionID))
}

// Add appends a row to the store. Rows with a blank question ID are ignored.
func (s *AnswerStore) Add(row *models.AnswerRow) {
	if row == nil || strings.TrimSpace(row.QuestionID) == "" {
		return
	}
	key := answerKey(row.Sheet, row.QuestionID)
	s.byKey[key] = append(s.byKey[key], row)
	s.rows = append(s.rows, row)
}

// Lookup returns all rows matching (sheet, question-id), in insertion order.
// Question IDs are matched case-insensitively and whitespace-trimmed.
func (s *AnswerStore) Lookup(sheet, questionID string) []*models.AnswerRow {
	return s.byKey[answerKey(sheet, questionID)]
}

// Rows returns every stored row in ingestion order.
func (s *AnswerStore) Rows() []*models.AnswerRow {
	return s.rows
}

// Len returns the number of stored rows.
func (s *AnswerStore) Len() int {
	return len(s.rows)
}
