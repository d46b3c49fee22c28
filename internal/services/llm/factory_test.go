package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ternarybob/censeo/internal/common"
	"github.com/ternarybob/censeo/internal/interfaces"
)

func TestNewServiceDefaultsToOffline(t *testing.T) {
	svc := NewService(&common.LLMConfig{Provider: "offline"})
	assert.Equal(t, interfaces.LLMModeOffline, svc.Mode())

	svc = NewService(nil)
	assert.Equal(t, interfaces.LLMModeOffline, svc.Mode())
}

func TestNewServiceClaudeWithoutKeyFallsBack(t *testing.T) {
	svc := NewService(&common.LLMConfig{
		Provider: "claude",
		Claude:   common.ClaudeConfig{Model: "claude-sonnet-4-20250514"},
	})
	assert.Equal(t, interfaces.LLMModeOffline, svc.Mode())
}

func TestNewServiceClaudeWithKey(t *testing.T) {
	svc := NewService(&common.LLMConfig{
		Provider: "claude",
		Claude: common.ClaudeConfig{
			APIKey:            "test-key",
			Model:             "claude-sonnet-4-20250514",
			MaxTokens:         1024,
			Timeout:           "30s",
			RequestsPerMinute: 10,
		},
	})
	assert.Equal(t, interfaces.LLMModeCloud, svc.Mode())
}

func TestNewClaudeServiceRejectsBadTimeout(t *testing.T) {
	_, err := NewClaudeService(&common.ClaudeConfig{
		APIKey:  "test-key",
		Timeout: "soon",
	})
	assert.Error(t, err)
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"fenced prose", "Here is the result:\n```json\n{\"a\":1}\n```\n", `{"a":1}`},
		{"no braces", "no structured output", "no structured output"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractJSON(tt.in))
		})
	}
}
