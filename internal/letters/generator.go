package letters

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/smallbiznis/recouvro/internal/locale"
	"github.com/smallbiznis/recouvro/internal/observability/metrics"
	"github.com/smallbiznis/recouvro/internal/oracle"
	"go.uber.org/zap"
)

// Generator drafts administrative letters via the oracle.
type Generator struct {
	gen     oracle.Generator
	log     *zap.Logger
	metrics *metrics.Metrics
}

func New(gen oracle.Generator, log *zap.Logger, m *metrics.Metrics) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{
		gen:     gen,
		log:     log.Named("letters"),
		metrics: m,
	}
}

var promptMap = map[Kind]map[locale.Language]string{
	KindFineDispute: {
		locale.French:  "Rédige une lettre de contestation formelle pour une amende majorée.",
		locale.English: "Write a formal dispute letter for a fine.",
	},
	KindVisa: {
		locale.French:  "Rédige une lettre de motivation pour un visa freelance.",
		locale.English: "Write a cover letter for a freelance visa.",
	},
	KindReview: {
		locale.French:  "Rédige une réponse diplomatique à un avis client négatif.",
		locale.English: "Write a diplomatic response to a negative customer review.",
	},
}

const promptFormat = `%s
Context: %q
Language: %s

Response (Body only):`

// Generate drafts the letter body for the given kind and user context.
func (g *Generator) Generate(ctx context.Context, kind Kind, contextText string, lang locale.Language) (Letter, error) {
	instructions, ok := promptMap[kind]
	if !ok {
		return Letter{}, ErrUnknownKind
	}
	contextText = strings.TrimSpace(contextText)
	if contextText == "" {
		return Letter{}, ErrEmptyContext
	}

	prompt := fmt.Sprintf(promptFormat, instructions[lang], contextText, lang.Name())

	start := time.Now()
	text, err := g.gen.GenerateText(ctx, oracle.Request{
		Parts: []oracle.Part{{Text: prompt}},
	})
	elapsed := time.Since(start)
	if err != nil {
		g.metrics.RecordOracleRequest("letter", "error", elapsed)
		g.log.Warn("letters.oracle_error",
			zap.String("kind", string(kind)),
			zap.Error(err),
			zap.Int64("elapsed_ms", elapsed.Milliseconds()),
		)
		return Letter{}, err
	}
	g.metrics.RecordOracleRequest("letter", "ok", elapsed)

	g.log.Info("letters.generated",
		zap.String("kind", string(kind)),
		zap.String("language", string(lang)),
		zap.Int64("elapsed_ms", elapsed.Milliseconds()),
	)
	return Letter{
		Kind:     kind,
		Language: string(lang),
		Body:     strings.TrimSpace(text),
	}, nil
}
