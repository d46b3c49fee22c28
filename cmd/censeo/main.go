package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/censeo/internal/common"
	"github.com/ternarybob/censeo/internal/ddq"
	"github.com/ternarybob/censeo/internal/interfaces"
	"github.com/ternarybob/censeo/internal/listing"
	"github.com/ternarybob/censeo/internal/models"
	"github.com/ternarybob/censeo/internal/risk"
	"github.com/ternarybob/censeo/internal/services/cache"
	"github.com/ternarybob/censeo/internal/services/llm"
	"github.com/ternarybob/censeo/internal/services/metadata"
	"github.com/ternarybob/censeo/internal/services/report"
	"github.com/ternarybob/censeo/internal/signals"
	"github.com/ternarybob/censeo/internal/snapshot"
)

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	configFiles  configPaths
	inputPath    = flag.String("input", "", "Path to the completed DDQ workbook (.xlsx)")
	tokenName    = flag.String("name", "", "Token name for the report header")
	tokenTicker  = flag.String("ticker", "", "Token ticker symbol")
	outputDir    = flag.String("out", "", "Report output directory (overrides config)")
	showVersion  = flag.Bool("version", false, "Print version information")
	showVersionV = flag.Bool("v", false, "Print version information (shorthand)")
)

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	flag.Parse()

	if *showVersion || *showVersionV {
		fmt.Printf("Censeo version %s\n", common.GetFullVersion())
		os.Exit(0)
	}

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "error: -input is required (path to the completed DDQ workbook)")
		flag.Usage()
		os.Exit(2)
	}

	// Startup order: config -> logger -> banner.
	if len(configFiles) == 0 {
		if _, err := os.Stat("censeo.toml"); err == nil {
			configFiles = append(configFiles, "censeo.toml")
		}
	}

	config, err := common.LoadConfig(configFiles...)
	if err != nil {
		arbor.NewLogger().Fatal().Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}
	if *outputDir != "" {
		config.Report.OutputDir = *outputDir
	}

	logger := common.InitLogger(config)
	common.PrintBanner(common.GetVersion())

	if err := run(config, logger); err != nil {
		logger.Fatal().Err(err).Msg("Report generation failed")
		os.Exit(1)
	}
}

func run(config *common.Config, logger arbor.ILogger) error {
	ctx := context.Background()

	// Parse the workbook into answers, domain stats and escalation rows.
	parser := ddq.NewParser(logger)
	workbook, err := parser.Parse(*inputPath)
	if err != nil {
		return fmt.Errorf("failed to parse DDQ workbook: %w", err)
	}
	logger.Info().
		Str("input", *inputPath).
		Int("answers", workbook.Answers.Len()).
		Int("domains", len(workbook.DomainStats)).
		Int("escalation_rows", len(workbook.Escalations)).
		Msg("DDQ workbook parsed")

	// Deterministic core: resolve signals and infer the risk tag set.
	registry, err := signals.NewDefaultRegistry()
	if err != nil {
		return fmt.Errorf("failed to load signal registry: %w", err)
	}
	resolver := signals.NewResolver(workbook.Answers, registry)
	inference := risk.NewEngine(resolver).Infer(workbook.TokenCategory)

	logger.Info().
		Int("tags", len(inference.Tags)).
		Str("token_type", string(inference.TokenType.Type)).
		Msg("Risk inference complete")

	// Best-effort issuer enrichment through the badger-backed cache.
	meta := models.TokenMeta{
		Name:      *tokenName,
		Ticker:    *tokenTicker,
		TokenType: string(inference.TokenType.Type),
	}

	var cacheSvc *cache.BadgerCache
	cacheSvc, err = cache.NewBadgerCache(logger, &config.Storage.Badger)
	if err != nil {
		logger.Warn().Err(err).Msg("Cache unavailable, metadata lookups will not be cached")
	} else {
		defer cacheSvc.Close()
	}

	var external *models.ExternalTokenMetadata
	if cacheSvc != nil {
		metaSvc := metadata.NewService(&config.Metadata, cacheSvc)
		external, err = metaSvc.Fetch(ctx, meta)
		if err != nil {
			logger.Warn().Err(err).Msg("External metadata lookup failed")
		}
	}

	// Narrative layer with deterministic fallback for every section.
	llmSvc := llm.NewService(&config.LLM)

	refined, err := llmSvc.RefineTags(ctx, inference.Tags, inference.Evidence)
	if err != nil {
		logger.Warn().Err(err).Msg("Tag refinement failed, keeping all inferred tags")
		refined = models.IncludeAll(inference.Tags)
	}

	dashboard := snapshot.BuildDashboard(workbook.DomainStats)
	realEscalations := snapshot.RealEscalations(workbook.Escalations)

	requirements, listingCtx := listing.NewDefaultEngine().
		BuildRequirements(dashboard.OverallBand.Numeric, workbook.Escalations, refined)

	findings := buildFindings(ctx, llmSvc, logger, workbook.DomainStats, workbook.Escalations)

	factSheet := snapshot.BuildTokenFactSheet(snapshot.FactSheetInput{
		Meta:            meta,
		Dashboard:       dashboard,
		RefinedTags:     refined,
		RealEscalations: realEscalations,
		ListingContext:  listingCtx,
		Requirements:    requirements,
		External:        external,
	})

	summary := snapshot.BuildExecutiveSummary(snapshot.SummaryInput{
		FactSheet:       factSheet,
		Dashboard:       dashboard,
		DomainFindings:  findings,
		RealEscalations: realEscalations,
		Requirements:    requirements,
		ListingContext:  listingCtx,
	})

	snap := snapshot.Assemble(dashboard, realEscalations, findings, refined,
		inference.Evidence, requirements, factSheet, summary)

	if llmSvc.Mode() == interfaces.LLMModeCloud {
		if generated, err := llmSvc.ExecutiveSummary(ctx, &snap); err != nil {
			logger.Warn().Err(err).Msg("LLM executive summary failed, using rule-based summary")
		} else {
			snap.ExecutiveSummary = *generated
		}
	}

	paths, err := report.NewService(&config.Report).Write(&snap)
	if err != nil {
		return err
	}

	logger.Info().
		Str("report_id", snap.ReportID).
		Str("posture", string(listingCtx.Posture)).
		Strs("outputs", paths).
		Msg("Report generation complete")
	return nil
}

// buildFindings generates one finding per domain, falling back to the
// rule-based builder when the narrative provider fails for a domain.
func buildFindings(ctx context.Context, llmSvc interfaces.LLMService, logger arbor.ILogger, domains []models.DomainStats, escalations []models.BoardEscalation) []models.DomainFinding {
	findings := make([]models.DomainFinding, 0, len(domains))
	for _, domain := range domains {
		var domainRows []models.BoardEscalation
		for _, esc := range escalations {
			if esc.DomainCode == domain.Code {
				domainRows = append(domainRows, esc)
			}
		}

		finding, err := llmSvc.DomainFindings(ctx, domain, domainRows)
		if err != nil || finding == nil {
			logger.Warn().Err(err).Str("domain", domain.Code).
				Msg("Domain narrative failed, using rule-based finding")
			fallback := snapshot.BuildDomainFindings([]models.DomainStats{domain}, domainRows)
			if len(fallback) > 0 {
				finding = &fallback[0]
			}
		}
		if finding != nil {
			findings = append(findings, *finding)
		}
	}
	return findings
}
