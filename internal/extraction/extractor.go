package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/smallbiznis/recouvro/internal/clock"
	"github.com/smallbiznis/recouvro/internal/locale"
	"github.com/smallbiznis/recouvro/internal/observability/metrics"
	"github.com/smallbiznis/recouvro/internal/oracle"
	"go.uber.org/zap"
)

// Extractor turns raw invoice text or documents into structured drafts.
type Extractor struct {
	gen     oracle.Generator
	log     *zap.Logger
	metrics *metrics.Metrics
}

// New builds an Extractor.
func New(gen oracle.Generator, log *zap.Logger, m *metrics.Metrics) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{
		gen:     gen,
		log:     log.Named("extraction"),
		metrics: m,
	}
}

const textPromptFormat = `You are an expert accountant AI. Extract the invoice details from the following text.
If data is missing, make a reasonable estimate based on context or leave blank.

Text: %q`

func filePrompt(lang locale.Language) string {
	labels := "Faible, Moyen, Élevé"
	if lang == locale.English {
		labels = "Low, Medium, High"
	}
	return fmt.Sprintf(`You are an expert accountant AI. Analyze this invoice document. Extract the following details: clientName, amount (number only), dueDate (YYYY-MM-DD), and assess the riskLevel (%s).`, labels)
}

// ExtractText analyzes pasted invoice text.
func (e *Extractor) ExtractText(ctx context.Context, text string, lang locale.Language) (Draft, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Draft{}, ErrEmptyInput
	}
	return e.extract(ctx, []oracle.Part{{Text: fmt.Sprintf(textPromptFormat, text)}})
}

// ExtractFile analyzes an uploaded invoice document.
func (e *Extractor) ExtractFile(ctx context.Context, data []byte, mimeType string, lang locale.Language) (Draft, error) {
	if len(data) == 0 {
		return Draft{}, ErrEmptyInput
	}
	parts := []oracle.Part{
		{Inline: &oracle.Blob{MIMEType: mimeType, Data: data}},
		{Text: filePrompt(lang)},
	}
	return e.extract(ctx, parts)
}

type wireDraft struct {
	ClientName string  `json:"clientName"`
	Amount     float64 `json:"amount"`
	DueDate    string  `json:"dueDate"`
	RiskLevel  string  `json:"riskLevel"`
}

func (e *Extractor) extract(ctx context.Context, parts []oracle.Part) (Draft, error) {
	start := time.Now()
	schema := BuildDraftJSONSchema()

	text, err := e.gen.GenerateText(ctx, oracle.Request{
		Parts:            parts,
		ResponseSchema:   schema,
		ResponseMIMEType: "application/json",
	})
	elapsed := time.Since(start)
	if err != nil {
		e.metrics.RecordExtraction("oracle_error")
		e.metrics.RecordOracleRequest("extraction", "error", elapsed)
		e.log.Warn("extraction.oracle_error",
			zap.Error(err),
			zap.Int64("elapsed_ms", elapsed.Milliseconds()),
		)
		return Draft{}, err
	}
	e.metrics.RecordOracleRequest("extraction", "ok", elapsed)

	raw := []byte(strings.TrimSpace(text))
	if err := oracle.ValidateJSONAgainstSchema(schema, raw); err != nil {
		e.metrics.RecordExtraction("malformed")
		e.log.Warn("extraction.schema_validation_failed",
			zap.Error(err),
			zap.Int("raw_bytes", len(raw)),
		)
		return Draft{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	var decoded wireDraft
	if err := json.Unmarshal(raw, &decoded); err != nil {
		e.metrics.RecordExtraction("malformed")
		return Draft{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	draft := Draft{
		ID:            uuid.NewString(),
		ClientName:    strings.TrimSpace(decoded.ClientName),
		Amount:        decoded.Amount,
		DueDate:       strings.TrimSpace(decoded.DueDate),
		RiskLevel:     ParseRiskLevel(decoded.RiskLevel),
		Status:        DraftStatusPending,
		MissingFields: missingFields(decoded.ClientName, decoded.Amount, decoded.DueDate),
	}

	e.metrics.RecordExtraction("ok")
	e.log.Info("extraction.done",
		zap.String("draft_id", draft.ID),
		zap.String("risk_level", string(draft.RiskLevel)),
		zap.Strings("missing_fields", draft.MissingFields),
		zap.Int64("elapsed_ms", elapsed.Milliseconds()),
	)
	return draft, nil
}

// FallbackDraft is the deterministic sentinel applied when the oracle fails.
func FallbackDraft(clk clock.Clock, lang locale.Language) Draft {
	name := "Client Inconnu (Erreur API)"
	if lang == locale.English {
		name = "Unknown Client (API Error)"
	}
	return Draft{
		ID:            uuid.NewString(),
		ClientName:    name,
		Amount:        0,
		DueDate:       clk.Now().Format("2006-01-02"),
		RiskLevel:     RiskLow,
		Status:        DraftStatusPending,
		MissingFields: []string{"amount"},
	}
}
