package llm

import (
	"github.com/ternarybob/censeo/internal/common"
	"github.com/ternarybob/censeo/internal/interfaces"
)

// NewService selects the narrative provider from configuration. The claude
// provider needs an API key; when the key is missing the service degrades
// to the offline generator instead of failing the run.
func NewService(config *common.LLMConfig) interfaces.LLMService {
	logger := common.GetLogger()

	if config != nil && config.Provider == "claude" {
		service, err := NewClaudeService(&config.Claude)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("Claude provider unavailable, using offline narrative generator")
			return NewOfflineService()
		}
		logger.Info().
			Str("model", config.Claude.Model).
			Msg("Using Claude narrative generator")
		return service
	}

	return NewOfflineService()
}
