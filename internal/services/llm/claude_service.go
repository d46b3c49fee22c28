// Package llm generates the narrative layers of a report: tag refinement,
// per-domain findings and the executive summary. A cloud-backed Claude
// service and a deterministic offline service implement the same interface,
// and every cloud failure is surfaced as an error so the caller can fall
// back to the rule-based builders.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/censeo/internal/common"
	"github.com/ternarybob/censeo/internal/interfaces"
	"github.com/ternarybob/censeo/internal/models"
)

const defaultClaudeTimeout = 60 * time.Second

var _ interfaces.LLMService = (*ClaudeService)(nil)

// ClaudeService generates narratives via the Anthropic API. All calls share
// a client-side rate limiter so batch report runs stay under the account
// quota regardless of how many sections are generated.
type ClaudeService struct {
	config  *common.ClaudeConfig
	client  anthropic.Client
	limiter *rate.Limiter
	timeout time.Duration
	logger  arbor.ILogger
}

// NewClaudeService creates a Claude-backed narrative service.
func NewClaudeService(config *common.ClaudeConfig) (*ClaudeService, error) {
	if config == nil || config.APIKey == "" {
		return nil, fmt.Errorf("claude API key is required")
	}

	timeout := defaultClaudeTimeout
	if config.Timeout != "" {
		parsed, err := time.ParseDuration(config.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid claude timeout %q: %w", config.Timeout, err)
		}
		timeout = parsed
	}

	limit := rate.Inf
	if config.RequestsPerMinute > 0 {
		limit = rate.Limit(config.RequestsPerMinute / 60.0)
	}

	client := anthropic.NewClient(
		option.WithAPIKey(config.APIKey),
	)

	return &ClaudeService{
		config:  config,
		client:  client,
		limiter: rate.NewLimiter(limit, 1),
		timeout: timeout,
		logger:  common.GetLogger(),
	}, nil
}

// Mode reports that narratives come from the cloud provider.
func (s *ClaudeService) Mode() interfaces.LLMMode {
	return interfaces.LLMModeCloud
}

// RefineTags asks the model to review each inferred tag against its evidence
// and returns include/exclude decisions. The model can only rule on tags it
// was given: unknown IDs in the response are dropped, and any input tag the
// response omits stays included so a partial answer never silently removes
// risk signals.
func (s *ClaudeService) RefineTags(ctx context.Context, tags []string, evidence map[string][]models.TagEvidence) ([]models.RefinedTag, error) {
	if len(tags) == 0 {
		return []models.RefinedTag{}, nil
	}

	payload := struct {
		Tags     []string                        `json:"tags"`
		Evidence map[string][]models.TagEvidence `json:"evidence"`
	}{Tags: tags, Evidence: evidence}

	input, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tag evidence: %w", err)
	}

	system := "You are a crypto-asset risk analyst reviewing machine-inferred risk tags " +
		"against their due-diligence questionnaire evidence. Exclude a tag only when its " +
		"evidence clearly does not support it. Never add tags that are not in the input. " +
		"Respond with JSON only: {\"tags\":[{\"id\":\"...\",\"include\":true,\"reason\":\"...\"}]}."

	text, err := s.complete(ctx, system, string(input))
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Tags []models.RefinedTag `json:"tags"`
	}
	if err := json.Unmarshal([]byte(extractJSON(text)), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse tag refinement response: %w", err)
	}

	decisions := make(map[string]models.RefinedTag, len(parsed.Tags))
	for _, t := range parsed.Tags {
		decisions[strings.TrimSpace(t.ID)] = t
	}

	out := make([]models.RefinedTag, 0, len(tags))
	for _, id := range tags {
		if d, ok := decisions[id]; ok {
			out = append(out, models.NewRefinedTag(id, d.Include, d.Reason))
			continue
		}
		out = append(out, models.NewRefinedTag(id, true, ""))
	}

	s.logger.Debug().
		Int("input_tags", len(tags)).
		Int("decisions", len(decisions)).
		Msg("Refined risk tags via Claude")

	return out, nil
}

// DomainFindings writes the narrative fields for one domain. The scoring
// fields are copied from the input stats afterwards, so the model can only
// influence prose, never bands or escalation counts.
func (s *ClaudeService) DomainFindings(ctx context.Context, domain models.DomainStats, escalations []models.BoardEscalation) (*models.DomainFinding, error) {
	payload := struct {
		Domain      models.DomainStats       `json:"domain"`
		Escalations []models.BoardEscalation `json:"escalations"`
	}{Domain: domain, Escalations: escalations}

	input, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode domain context: %w", err)
	}

	system := "You are a crypto-asset risk analyst writing a per-domain finding for a " +
		"listing committee. Base every statement strictly on the supplied escalation rows " +
		"and scores. Respond with JSON only: {\"one_line\":\"...\",\"strengths\":[],\"risks\":[],\"watchpoints\":[]}."

	text, err := s.complete(ctx, system, string(input))
	if err != nil {
		return nil, err
	}

	var finding models.DomainFinding
	if err := json.Unmarshal([]byte(extractJSON(text)), &finding); err != nil {
		return nil, fmt.Errorf("failed to parse domain finding response: %w", err)
	}

	finding.DomainCode = domain.Code
	finding.DomainName = domain.Name
	finding.BandName = domain.BandName
	finding.BandNumeric = domain.BandNumeric
	finding.AvgScore = domain.AvgScore
	finding.HasBoardEscalation = domain.HasBoardEscalation
	finding.BoardEscalationCount = domain.BoardEscalationCount

	return &finding, nil
}

// ExecutiveSummary condenses the assembled report into the board-facing
// summary. Generation metadata is always stamped locally.
func (s *ClaudeService) ExecutiveSummary(ctx context.Context, snapshot *models.ReportSnapshot) (*models.ExecutiveSummary, error) {
	if snapshot == nil {
		return nil, fmt.Errorf("snapshot is required")
	}

	input, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report snapshot: %w", err)
	}

	system := "You are a crypto-asset risk analyst writing the executive summary of a " +
		"listing risk report for a board committee. Use only facts present in the supplied " +
		"report. Respond with JSON only, matching this shape: " +
		"{\"headline_decision_view\":\"...\",\"overall_posture\":\"...\",\"one_paragraph_narrative\":\"...\"," +
		"\"key_positives\":[],\"risks_and_mitigations\":[{\"risk\":\"...\",\"mitigation\":\"...\"}]," +
		"\"notable_escalations\":[{\"domain\":\"...\",\"issue\":\"...\"}],\"open_questions\":[]}."

	text, err := s.complete(ctx, system, string(input))
	if err != nil {
		return nil, err
	}

	var summary models.ExecutiveSummary
	if err := json.Unmarshal([]byte(extractJSON(text)), &summary); err != nil {
		return nil, fmt.Errorf("failed to parse executive summary response: %w", err)
	}

	summary.GeneratedAt = time.Now().UTC().Format(time.RFC3339)
	summary.GeneratedBy = s.config.Model

	return &summary, nil
}

// complete sends a single system+user exchange and returns the concatenated
// text blocks of the response.
func (s *ClaudeService) complete(ctx context.Context, system, user string) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter wait failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(s.config.Model),
		MaxTokens: int64(s.config.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
	}

	message, err := s.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("claude API error: %w", err)
	}

	var text strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	if text.Len() == 0 {
		return "", fmt.Errorf("claude returned no text content")
	}

	return text.String(), nil
}

// extractJSON trims any prose the model wraps around a JSON object by
// slicing from the first opening brace to the last closing one.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}
