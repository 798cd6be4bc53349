package dunning

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/smallbiznis/recouvro/internal/locale"
	"github.com/smallbiznis/recouvro/internal/observability/metrics"
	"github.com/smallbiznis/recouvro/internal/oracle"
	"go.uber.org/zap"
)

// MaxLevels is the escalation depth of a sequence.
const MaxLevels = 3

// Generator produces three-tier dunning sequences via the oracle.
type Generator struct {
	gen     oracle.Generator
	log     *zap.Logger
	metrics *metrics.Metrics
}

// New builds a Generator.
func New(gen oracle.Generator, log *zap.Logger, m *metrics.Metrics) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{
		gen:     gen,
		log:     log.Named("dunning"),
		metrics: m,
	}
}

const promptFormat = `Generate 3 dunning emails (relances) for a debt collection scenario.
Language: %s.
Client: %s
Amount: %.2f EUR.

Level 1: Polite, empathetic reminder (J+3).
Level 2: Firm reminder, mentioning Terms & Conditions (J+10).
Level 3: Formal notice (Mise en demeure), mentioning legal codes (J+20).

Return strictly valid JSON.`

// GenerateSequence produces the escalation sequence for a client and amount.
func (g *Generator) GenerateSequence(ctx context.Context, clientName string, amount float64, lang locale.Language) ([]Draft, error) {
	start := time.Now()
	schema := BuildSequenceJSONSchema()
	prompt := fmt.Sprintf(promptFormat, lang.Name(), clientName, amount)

	text, err := g.gen.GenerateText(ctx, oracle.Request{
		Parts:            []oracle.Part{{Text: prompt}},
		ResponseSchema:   schema,
		ResponseMIMEType: "application/json",
	})
	elapsed := time.Since(start)
	if err != nil {
		g.metrics.RecordSequence("oracle_error")
		g.metrics.RecordOracleRequest("sequence", "error", elapsed)
		g.log.Warn("dunning.oracle_error",
			zap.Error(err),
			zap.Int64("elapsed_ms", elapsed.Milliseconds()),
		)
		return nil, err
	}
	g.metrics.RecordOracleRequest("sequence", "ok", elapsed)

	raw := []byte(strings.TrimSpace(text))
	if err := oracle.ValidateJSONAgainstSchema(schema, raw); err != nil {
		g.metrics.RecordSequence("malformed")
		g.log.Warn("dunning.schema_validation_failed",
			zap.Error(err),
			zap.Int("raw_bytes", len(raw)),
		)
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	var decoded []Draft
	if err := json.Unmarshal(raw, &decoded); err != nil {
		g.metrics.RecordSequence("malformed")
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	sequence := Normalize(decoded)
	g.metrics.RecordSequence("ok")
	g.log.Info("dunning.sequence_generated",
		zap.String("client_name", clientName),
		zap.Int("levels", len(sequence)),
		zap.Int64("elapsed_ms", elapsed.Milliseconds()),
	)
	return sequence, nil
}

// Normalize sorts drafts by level, maps localized tone labels to the
// canonical enum and truncates to MaxLevels. Under-delivery is kept as-is.
func Normalize(drafts []Draft) []Draft {
	out := make([]Draft, len(drafts))
	copy(out, drafts)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Level < out[j].Level })
	if len(out) > MaxLevels {
		out = out[:MaxLevels]
	}
	for i := range out {
		out[i].Tone = ParseTone(string(out[i].Tone))
		out[i].Subject = strings.TrimSpace(out[i].Subject)
	}
	return out
}
