package letters

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smallbiznis/recouvro/internal/locale"
	"github.com/smallbiznis/recouvro/internal/oracle"
)

func TestGenerateFineDispute(t *testing.T) {
	var captured oracle.Request
	gen := New(oracle.GeneratorFunc(func(ctx context.Context, req oracle.Request) (string, error) {
		captured = req
		return "  Madame, Monsieur,\n\nJe conteste cette amende.  ", nil
	}), nil, nil)

	letter, err := gen.Generate(context.Background(), KindFineDispute, "Amende de stationnement majorée, Paris", locale.French)
	assert.NoError(t, err)
	assert.Equal(t, KindFineDispute, letter.Kind)
	assert.Equal(t, "fr", letter.Language)
	assert.Equal(t, "Madame, Monsieur,\n\nJe conteste cette amende.", letter.Body)

	prompt := captured.Parts[0].Text
	assert.True(t, strings.HasPrefix(prompt, "Rédige une lettre de contestation formelle"))
	assert.Contains(t, prompt, "Amende de stationnement majorée, Paris")
	assert.Contains(t, prompt, "Language: French")
}

func TestGenerateEnglishVisaLetter(t *testing.T) {
	var captured oracle.Request
	gen := New(oracle.GeneratorFunc(func(ctx context.Context, req oracle.Request) (string, error) {
		captured = req
		return "Dear Sir or Madam,", nil
	}), nil, nil)

	letter, err := gen.Generate(context.Background(), KindVisa, "Freelance developer, 5 years in France", locale.English)
	assert.NoError(t, err)
	assert.Equal(t, "en", letter.Language)
	assert.Contains(t, captured.Parts[0].Text, "Write a cover letter for a freelance visa.")
	assert.Contains(t, captured.Parts[0].Text, "Language: English")
}

func TestGenerateRejectsUnknownKind(t *testing.T) {
	gen := New(oracle.GeneratorFunc(func(ctx context.Context, req oracle.Request) (string, error) {
		t.Fatal("oracle should not be called")
		return "", nil
	}), nil, nil)

	_, err := gen.Generate(context.Background(), Kind("poem"), "context", locale.French)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestGenerateRejectsEmptyContext(t *testing.T) {
	gen := New(oracle.GeneratorFunc(func(ctx context.Context, req oracle.Request) (string, error) {
		t.Fatal("oracle should not be called")
		return "", nil
	}), nil, nil)

	_, err := gen.Generate(context.Background(), KindReview, "   ", locale.French)
	assert.ErrorIs(t, err, ErrEmptyContext)
}

func TestGenerateSurfacesOracleFailure(t *testing.T) {
	gen := New(oracle.GeneratorFunc(func(ctx context.Context, req oracle.Request) (string, error) {
		return "", oracle.ErrUnavailable
	}), nil, nil)

	_, err := gen.Generate(context.Background(), KindReview, "1 star review", locale.English)
	assert.ErrorIs(t, err, oracle.ErrUnavailable)
}

func TestParseKind(t *testing.T) {
	for _, value := range []string{"fine", "visa", "review"} {
		kind, ok := ParseKind(value)
		assert.True(t, ok)
		assert.Equal(t, Kind(value), kind)
	}
	_, ok := ParseKind("novel")
	assert.False(t, ok)
}
