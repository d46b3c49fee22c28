package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/censeo/internal/common"
	"github.com/ternarybob/censeo/internal/models"
)

// Service writes an assembled report snapshot to the configured output
// formats under the configured directory.
type Service struct {
	config *common.ReportConfig
	logger arbor.ILogger
}

// NewService creates the report writer.
func NewService(config *common.ReportConfig) *Service {
	return &Service{
		config: config,
		logger: common.GetLogger(),
	}
}

// Write renders the snapshot to every configured format and returns the
// paths written. Formats render independently: one failing format aborts
// the run so a partial report set is never mistaken for a complete one.
func (s *Service) Write(snap *models.ReportSnapshot) ([]string, error) {
	if snap == nil {
		return nil, fmt.Errorf("snapshot is required")
	}

	outputDir := s.config.OutputDir
	if outputDir == "" {
		outputDir = "."
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	base := reportBaseName(snap)
	title := reportTitle(snap)

	markdown := ""
	var paths []string
	for _, format := range s.config.Formats {
		var (
			data []byte
			err  error
		)
		switch format {
		case "json":
			data, err = json.MarshalIndent(snap, "", "  ")
		case "html":
			if markdown == "" {
				markdown = ComposeMarkdown(snap)
			}
			data, err = RenderHTML(markdown, title)
		case "pdf":
			if markdown == "" {
				markdown = ComposeMarkdown(snap)
			}
			data, err = RenderPDF(markdown, title)
		default:
			return nil, fmt.Errorf("unsupported report format %q", format)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to render %s report: %w", format, err)
		}

		path := filepath.Join(outputDir, base+"."+format)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}

		s.logger.Info().
			Str("format", format).
			Str("path", path).
			Int("bytes", len(data)).
			Msg("Report written")
		paths = append(paths, path)
	}

	return paths, nil
}

func reportBaseName(snap *models.ReportSnapshot) string {
	prefix := strings.ToLower(strings.TrimSpace(snap.TokenFactSheet.Asset.Ticker))
	if prefix == "" {
		prefix = "report"
	}
	return prefix + "_" + snap.ReportID
}

func reportTitle(snap *models.ReportSnapshot) string {
	name := snap.TokenFactSheet.Asset.Name
	if name == "" {
		name = "Unknown token"
	}
	return name + " – Listing Risk Report"
}
