package ddq

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/xuri/excelize/v2"

	"github.com/ternarybob/censeo/internal/common"
	"github.com/ternarybob/censeo/internal/models"
)

const (
	// MasterSummarySheet carries the domain-level roll-up.
	MasterSummarySheet = "Master_Summary"
	// FundamentalsSheet carries the A1.1 token category.
	FundamentalsSheet = "Token Fundamentals & Governance"
)

// Sheets never scanned for answers or escalations.
var ignoredSheets = map[string]struct{}{
	MasterSummarySheet: {},
	"Overview":         {},
}

// Header patterns (lowercase substring matches). The workbook template keeps
// changing, so columns are located by substring rather than position.
var (
	domainColHeaders   = []string{"domain"}
	weightColHeaders   = []string{"weight"}
	avgScoreHeaders    = []string{"domain_avg_final_score", "average", "avg"}
	bandHeaders        = []string{"domain_risk_band", "risk band"}
	questionIDHeaders  = []string{"question_id"}
	questionTxtHeaders = []string{"question_text"}
	escFlagHeaders     = []string{"board_escalation_flag"}
	triggerRuleHeaders = []string{"trigger_rule_description"}
	narrativeHeaders   = []string{"narrative_justification"}
	citationsHeaders   = []string{"source_citations"}
	sourceDateHeaders  = []string{"most_recent_source_date"}
	stalenessHeaders   = []string{"staleness_class"}
	rawResponseHeaders = []string{"raw_response", "raw response", "response"}
	confidenceHeaders  = []string{"confidence"}
	rawPointsHeaders   = []string{"raw_points", "raw points"}
	finalScoreHeaders  = []string{"final_score", "final score"}
)

// Workbook is the fully parsed DDQ: domain roll-up, escalation rows, token
// category and the per-question answer index.
type Workbook struct {
	DomainStats   []models.DomainStats
	Escalations   []models.BoardEscalation
	TokenCategory *models.TokenCategory
	Answers       *AnswerStore
}

// Parser reads DDQ workbooks into the in-memory shapes the inference and
// reporting layers consume.
type Parser struct {
	logger arbor.ILogger
	now    func() time.Time
}

// NewParser creates a workbook parser.
func NewParser(logger arbor.ILogger) *Parser {
	return &Parser{
		logger: logger,
		now:    time.Now,
	}
}

// Parse opens and parses a DDQ workbook file.
func (p *Parser) Parse(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open DDQ workbook %s: %w", path, err)
	}
	defer f.Close()

	wb, err := p.parseFile(f)
	if err != nil {
		return nil, err
	}

	p.logger.Info().
		Int("domains", len(wb.DomainStats)).
		Int("escalation_rows", len(wb.Escalations)).
		Int("answers", wb.Answers.Len()).
		Msg("Parsed DDQ workbook")

	return wb, nil
}

func (p *Parser) parseFile(f *excelize.File) (*Workbook, error) {
	domainStats, err := p.parseDomainStats(f)
	if err != nil {
		return nil, err
	}

	escalations := p.parseBoardEscalations(f)
	answers := p.parseQuestionResponses(f)
	tokenCategory := p.parseTokenCategory(f)

	// Enrich domain stats with real-trigger counts. The counting here uses
	// the same classifier as the snapshot cards and the listing context.
	counts := make(map[string]int)
	for i := range escalations {
		if escalations[i].IsRealTrigger() {
			counts[escalations[i].DomainName]++
		}
	}
	for i := range domainStats {
		c := counts[domainStats[i].Name]
		domainStats[i].BoardEscalationCount = c
		domainStats[i].HasBoardEscalation = c > 0
	}

	return &Workbook{
		DomainStats:   domainStats,
		Escalations:   escalations,
		TokenCategory: tokenCategory,
		Answers:       answers,
	}, nil
}

// --- header utilities ---------------------------------------------------

// headerCell is one normalised header with its column index. Headers are
// kept in left-to-right column order so substring matches always resolve to
// the leftmost matching column, whatever the template looks like.
type headerCell struct {
	text string
	col  int
}

type headerMap []headerCell

func normaliseHeader(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// findHeaderRow locates the header row by looking for something that looks
// like "question_id" or "domain" in the first few rows.
func findHeaderRow(rows [][]string, maxSearchRows int) int {
	for i := 0; i < len(rows) && i < maxSearchRows; i++ {
		for _, cell := range rows[i] {
			norm := normaliseHeader(cell)
			if strings.Contains(norm, "question_id") || strings.Contains(norm, "domain") {
				return i
			}
		}
	}
	return -1
}

func buildHeaderMap(row []string) headerMap {
	hm := make(headerMap, 0, len(row))
	for col, cell := range row {
		if norm := normaliseHeader(cell); norm != "" {
			hm = append(hm, headerCell{text: norm, col: col})
		}
	}
	return hm
}

// findColumn returns the leftmost column whose header contains one of the
// patterns, trying patterns in order, or -1. A header row like
// "Domain | Weight | Domain_Avg_Final_Score | Domain_Risk_Band" has three
// headers matching "domain"; column order decides, so repeated parses of the
// same workbook always pick the same columns.
func findColumn(hm headerMap, patterns []string) int {
	for _, p := range patterns {
		for _, h := range hm {
			if strings.Contains(h.text, p) {
				return h.col
			}
		}
	}
	return -1
}

func cellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

func floatCellAt(row []string, col int) *float64 {
	s := cellAt(row, col)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return nil
	}
	return &v
}

// --- band mapping -------------------------------------------------------

// BandNumericFromName maps band strings to numeric 1-5 (0 for unknown).
func BandNumericFromName(bandName string) int {
	name := strings.ToLower(strings.TrimSpace(bandName))
	switch {
	case strings.HasPrefix(name, "very low"):
		return 1
	case strings.HasPrefix(name, "low"):
		return 2
	case strings.HasPrefix(name, "medium-high"):
		return 4
	case strings.HasPrefix(name, "high"):
		return 5
	case strings.HasPrefix(name, "medium"):
		return 3
	default:
		return 0
	}
}

// BandNameFromNumeric converts numeric bands back to display names.
func BandNameFromNumeric(n int) string {
	switch n {
	case 1:
		return "Very Low"
	case 2:
		return "Low"
	case 3:
		return "Medium"
	case 4:
		return "Medium-High"
	case 5:
		return "High"
	default:
		return "Unknown"
	}
}

// BandNameFromScore is the fallback when the workbook has no band column.
// Mirrors the workbook formula: <3 Very Low, <6 Low, <9 Medium,
// <12 Medium-High, else High.
func BandNameFromScore(score float64) string {
	switch {
	case score < 3:
		return "Very Low"
	case score < 6:
		return "Low"
	case score < 9:
		return "Medium"
	case score < 12:
		return "Medium-High"
	default:
		return "High"
	}
}

// --- Master_Summary -----------------------------------------------------

func (p *Parser) parseDomainStats(f *excelize.File) ([]models.DomainStats, error) {
	rows, err := f.GetRows(MasterSummarySheet)
	if err != nil {
		return nil, fmt.Errorf("expected sheet %q not found: %w", MasterSummarySheet, err)
	}

	headerRow := findHeaderRow(rows, 5)
	if headerRow < 0 {
		return nil, fmt.Errorf("could not find header row in %q", MasterSummarySheet)
	}
	hm := buildHeaderMap(rows[headerRow])

	domainCol := findColumn(hm, domainColHeaders)
	if domainCol < 0 {
		return nil, fmt.Errorf("could not find a Domain column in %q", MasterSummarySheet)
	}
	weightCol := findColumn(hm, weightColHeaders)
	avgScoreCol := findColumn(hm, avgScoreHeaders)
	bandCol := findColumn(hm, bandHeaders)

	var stats []models.DomainStats
	for i := headerRow + 1; i < len(rows); i++ {
		name := cellAt(rows[i], domainCol)
		if name == "" {
			// Stop at the first blank domain row
			break
		}

		weight := 0.0
		if v := floatCellAt(rows[i], weightCol); v != nil {
			weight = *v
		}
		avgScore := 0.0
		if v := floatCellAt(rows[i], avgScoreCol); v != nil {
			avgScore = *v
		}

		bandName := cellAt(rows[i], bandCol)
		if bandName == "" {
			bandName = BandNameFromScore(avgScore)
		}

		stats = append(stats, models.DomainStats{
			Code:        name, // no separate short-code column in the template
			Name:        name,
			Weight:      weight,
			AvgScore:    avgScore,
			BandName:    bandName,
			BandNumeric: BandNumericFromName(bandName),
		})
	}

	return stats, nil
}

// --- board escalations --------------------------------------------------

func parseCitationList(raw string) []models.Citation {
	var citations []models.Citation
	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		if part != "" {
			citations = append(citations, models.Citation{Label: part, URL: part})
		}
	}
	return citations
}

// parseBoardEscalations scans all non-ignored sheets for rows with a set
// Board_Escalation_Flag. All flagged rows are kept, including "No Review"
// narratives; real-trigger classification happens downstream.
func (p *Parser) parseBoardEscalations(f *excelize.File) []models.BoardEscalation {
	var escalations []models.BoardEscalation

	for _, sheetName := range f.GetSheetList() {
		if _, ok := ignoredSheets[sheetName]; ok {
			continue
		}

		rows, err := f.GetRows(sheetName)
		if err != nil {
			continue
		}
		headerRow := findHeaderRow(rows, 5)
		if headerRow < 0 {
			continue
		}
		hm := buildHeaderMap(rows[headerRow])

		escFlagCol := findColumn(hm, escFlagHeaders)
		if escFlagCol < 0 {
			continue
		}
		qidCol := findColumn(hm, questionIDHeaders)
		qtextCol := findColumn(hm, questionTxtHeaders)
		triggerCol := findColumn(hm, triggerRuleHeaders)
		narrativeCol := findColumn(hm, narrativeHeaders)
		citationsCol := findColumn(hm, citationsHeaders)
		dateCol := findColumn(hm, sourceDateHeaders)
		staleCol := findColumn(hm, stalenessHeaders)

		for i := headerRow + 1; i < len(rows); i++ {
			questionID := cellAt(rows[i], qidCol)
			questionText := cellAt(rows[i], qtextCol)
			if questionID == "" && questionText == "" {
				continue
			}

			flag := cellAt(rows[i], escFlagCol)
			if flag == "" {
				continue
			}

			id := fmt.Sprintf("%s_%s", sheetName, questionID)
			if questionID == "" {
				id = fmt.Sprintf("%s_%d", sheetName, i+1)
			}

			sourceDate := cellAt(rows[i], dateCol)
			escalations = append(escalations, models.BoardEscalation{
				ID:                   id,
				DomainCode:           sheetName,
				DomainName:           sheetName,
				QuestionID:           questionID,
				QuestionText:         questionText,
				Flag:                 flag,
				TriggerRule:          cellAt(rows[i], triggerCol),
				RawNarrative:         cellAt(rows[i], narrativeCol),
				MostRecentSourceDate: sourceDate,
				StalenessClass:       common.NormalizeStalenessClass(cellAt(rows[i], staleCol), sourceDate, p.now()),
				Citations:            parseCitationList(cellAt(rows[i], citationsCol)),
			})
		}
	}

	return escalations
}

// --- per-question responses (answer store) ------------------------------

// parseQuestionResponses extracts all per-question responses from eligible
// DDQ tabs. Any sheet with Question_ID and Raw_Response columns is treated
// as an answer sheet.
func (p *Parser) parseQuestionResponses(f *excelize.File) *AnswerStore {
	store := NewAnswerStore()

	for _, sheetName := range f.GetSheetList() {
		if _, ok := ignoredSheets[sheetName]; ok {
			continue
		}

		rows, err := f.GetRows(sheetName)
		if err != nil {
			continue
		}
		headerRow := findHeaderRow(rows, 5)
		if headerRow < 0 {
			continue
		}
		hm := buildHeaderMap(rows[headerRow])

		qidCol := findColumn(hm, questionIDHeaders)
		rawCol := findColumn(hm, rawResponseHeaders)
		if qidCol < 0 || rawCol < 0 {
			continue
		}
		qtextCol := findColumn(hm, questionTxtHeaders)
		confCol := findColumn(hm, confidenceHeaders)
		narrativeCol := findColumn(hm, narrativeHeaders)
		citationsCol := findColumn(hm, citationsHeaders)
		escFlagCol := findColumn(hm, escFlagHeaders)
		triggerCol := findColumn(hm, triggerRuleHeaders)
		rawPointsCol := findColumn(hm, rawPointsHeaders)
		finalScoreCol := findColumn(hm, finalScoreHeaders)

		for i := headerRow + 1; i < len(rows); i++ {
			qid := cellAt(rows[i], qidCol)
			if qid == "" {
				continue
			}
			// Guard against template placeholder rows
			if low := strings.ToLower(qid); low == "none" || low == "nan" {
				continue
			}

			var citations []string
			for _, part := range strings.Split(cellAt(rows[i], citationsCol), ";") {
				if part = strings.TrimSpace(part); part != "" {
					citations = append(citations, part)
				}
			}

			store.Add(&models.AnswerRow{
				Sheet:          sheetName,
				QuestionID:     qid,
				QuestionText:   cellAt(rows[i], qtextCol),
				RawResponse:    cellAt(rows[i], rawCol),
				Confidence:     cellAt(rows[i], confCol),
				Narrative:      cellAt(rows[i], narrativeCol),
				Citations:      citations,
				EscalationFlag: cellAt(rows[i], escFlagCol),
				TriggerRule:    cellAt(rows[i], triggerCol),
				RawPoints:      floatCellAt(rows[i], rawPointsCol),
				FinalScore:     floatCellAt(rows[i], finalScoreCol),
				RowNumber:      i + 1,
			})
		}
	}

	return store
}

// --- token category (A1.1) ----------------------------------------------

// ParsePrimarySecondary parses strings like
// "Primary: Native L1; Secondary: Gas/Fee" into their two parts.
func ParsePrimarySecondary(raw string) (primary, secondary string) {
	txt := strings.TrimSpace(raw)
	if txt == "" {
		return "", ""
	}

	parts := []string{}
	for _, part := range strings.Split(strings.ReplaceAll(txt, ",", ";"), ";") {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}

	for _, part := range parts {
		low := strings.ToLower(part)
		val := part
		if idx := strings.Index(part, ":"); idx >= 0 {
			val = part[idx+1:]
		}
		val = strings.TrimSpace(val)
		switch {
		case strings.HasPrefix(low, "primary"):
			primary = val
		case strings.HasPrefix(low, "secondary"):
			secondary = val
		}
	}

	// Fallback: two unlabelled parts
	if primary == "" && secondary == "" && len(parts) == 2 {
		primary, secondary = parts[0], parts[1]
	}

	return primary, secondary
}

func (p *Parser) parseTokenCategory(f *excelize.File) *models.TokenCategory {
	rows, err := f.GetRows(FundamentalsSheet)
	if err != nil {
		return nil
	}
	headerRow := findHeaderRow(rows, 5)
	if headerRow < 0 {
		return nil
	}
	hm := buildHeaderMap(rows[headerRow])

	qidCol := findColumn(hm, questionIDHeaders)
	rawCol := findColumn(hm, rawResponseHeaders)
	if qidCol < 0 || rawCol < 0 {
		return nil
	}
	confCol := findColumn(hm, confidenceHeaders)
	narrativeCol := findColumn(hm, narrativeHeaders)

	for i := headerRow + 1; i < len(rows); i++ {
		if strings.ToUpper(cellAt(rows[i], qidCol)) != "A1.1" {
			continue
		}
		raw := cellAt(rows[i], rawCol)
		primary, secondary := ParsePrimarySecondary(raw)
		return &models.TokenCategory{
			QuestionID:  "A1.1",
			Raw:         raw,
			Primary:     primary,
			Secondary:   secondary,
			Confidence:  cellAt(rows[i], confCol),
			Narrative:   cellAt(rows[i], narrativeCol),
			SourceSheet: FundamentalsSheet,
		}
	}

	return nil
}
