package dunning

import (
	"context"
	"errors"
	"testing"

	"github.com/smallbiznis/recouvro/internal/locale"
	"github.com/smallbiznis/recouvro/internal/oracle"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func stubOracle(reply string, err error) oracle.Generator {
	return oracle.GeneratorFunc(func(ctx context.Context, req oracle.Request) (string, error) {
		return reply, err
	})
}

const fullSequence = `[
  {"level":1,"subject":"Petit rappel","body":"Bonjour...","tone":"Empathique"},
  {"level":2,"subject":"Relance ferme","body":"Conformément aux CGV...","tone":"Ferme"},
  {"level":3,"subject":"Mise en demeure","body":"Article L441-10...","tone":"Légal"}
]`

func TestGenerateSequenceThreeLevels(t *testing.T) {
	gen := New(stubOracle(fullSequence, nil), zap.NewNop(), nil)

	seq, err := gen.GenerateSequence(context.Background(), "Acme Corp", 1250.50, locale.French)
	if err != nil {
		t.Fatalf("GenerateSequence: %v", err)
	}
	if len(seq) != 3 {
		t.Fatalf("expected 3 drafts, got %d", len(seq))
	}
	assert.Equal(t, []Tone{ToneEmpathetic, ToneFirm, ToneLegal}, []Tone{seq[0].Tone, seq[1].Tone, seq[2].Tone})
	assert.Equal(t, 1, seq[0].Level)
	assert.Equal(t, 3, seq[2].Level)
}

func TestGenerateSequenceSortsOutOfOrderLevels(t *testing.T) {
	reply := `[
	  {"level":3,"subject":"Mise en demeure","body":"c","tone":"legal"},
	  {"level":1,"subject":"Rappel","body":"a","tone":"empathetic"},
	  {"level":2,"subject":"Relance","body":"b","tone":"firm"}
	]`
	gen := New(stubOracle(reply, nil), zap.NewNop(), nil)

	seq, err := gen.GenerateSequence(context.Background(), "Acme", 100, locale.French)
	if err != nil {
		t.Fatalf("GenerateSequence: %v", err)
	}
	assert.Equal(t, []int{1, 2, 3}, []int{seq[0].Level, seq[1].Level, seq[2].Level})
}

func TestGenerateSequenceTruncatesOverDelivery(t *testing.T) {
	reply := `[
	  {"level":1,"subject":"a","body":"a","tone":"empathetic"},
	  {"level":2,"subject":"b","body":"b","tone":"firm"},
	  {"level":3,"subject":"c","body":"c","tone":"legal"},
	  {"level":4,"subject":"d","body":"d","tone":"legal"}
	]`
	gen := New(stubOracle(reply, nil), zap.NewNop(), nil)

	seq, err := gen.GenerateSequence(context.Background(), "Acme", 100, locale.French)
	if err != nil {
		t.Fatalf("GenerateSequence: %v", err)
	}
	if len(seq) != MaxLevels {
		t.Fatalf("expected %d drafts, got %d", MaxLevels, len(seq))
	}
}

func TestGenerateSequenceAcceptsUnderDelivery(t *testing.T) {
	reply := `[
	  {"level":1,"subject":"a","body":"a","tone":"empathetic"},
	  {"level":2,"subject":"b","body":"b","tone":"firm"}
	]`
	gen := New(stubOracle(reply, nil), zap.NewNop(), nil)

	seq, err := gen.GenerateSequence(context.Background(), "Acme", 100, locale.French)
	if err != nil {
		t.Fatalf("GenerateSequence: %v", err)
	}
	if len(seq) != 2 {
		t.Fatalf("expected 2 drafts, got %d", len(seq))
	}
}

func TestGenerateSequenceMalformed(t *testing.T) {
	cases := map[string]string{
		"object not array": `{"level":1,"subject":"a","body":"a","tone":"x"}`,
		"missing subject":  `[{"level":1,"body":"a","tone":"x"}]`,
		"empty body":       `[{"level":1,"subject":"a","body":"","tone":"x"}]`,
		"prose":            `Here are your three reminder emails:`,
	}
	for name, reply := range cases {
		t.Run(name, func(t *testing.T) {
			gen := New(stubOracle(reply, nil), zap.NewNop(), nil)
			_, err := gen.GenerateSequence(context.Background(), "Acme", 100, locale.French)
			if !errors.Is(err, ErrMalformedResponse) {
				t.Fatalf("expected ErrMalformedResponse, got %v", err)
			}
		})
	}
}

func TestGenerateSequenceSurfacesOracleFailure(t *testing.T) {
	gen := New(stubOracle("", oracle.ErrUnavailable), zap.NewNop(), nil)

	_, err := gen.GenerateSequence(context.Background(), "Acme", 100, locale.French)
	if !errors.Is(err, oracle.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestParseToneLabels(t *testing.T) {
	assert.Equal(t, ToneEmpathetic, ParseTone("Empathique"))
	assert.Equal(t, ToneFirm, ParseTone("Ferme"))
	assert.Equal(t, ToneLegal, ParseTone("Mise en demeure"))
	assert.Equal(t, ToneLegal, ParseTone("juridique"))
	assert.Equal(t, Tone("solemn"), ParseTone("Solemn"))
}
