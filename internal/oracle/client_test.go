package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/smallbiznis/recouvro/internal/config"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClient(config.OracleConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL,
		Model:   "test-model",
		Timeout: 5 * time.Second,
	}, zap.NewNop())
	return client, srv
}

func TestGenerateTextReturnsFirstCandidate(t *testing.T) {
	var gotPath string
	var gotBody map[string]any

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{
					{"text": "hello "},
					{"text": "world"},
				}}},
			},
		})
	})

	text, err := client.GenerateText(context.Background(), Request{
		Parts:             []Part{{Text: "ping"}},
		SystemInstruction: "be terse",
		ResponseMIMEType:  "application/json",
		ResponseSchema:    map[string]any{"type": "object"},
	})
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if text != "hello world" {
		t.Fatalf("unexpected text %q", text)
	}
	if gotPath != "/models/test-model:generateContent" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if _, ok := gotBody["systemInstruction"]; !ok {
		t.Fatalf("system instruction not sent: %v", gotBody)
	}
	genCfg, ok := gotBody["generationConfig"].(map[string]any)
	if !ok {
		t.Fatalf("generationConfig not sent: %v", gotBody)
	}
	if genCfg["responseMimeType"] != "application/json" {
		t.Fatalf("response mime type not sent: %v", genCfg)
	}
}

func TestGenerateTextInlineData(t *testing.T) {
	var gotBody generateRequest

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": "ok"}}}},
			},
		})
	})

	_, err := client.GenerateText(context.Background(), Request{
		Parts: []Part{
			{Inline: &Blob{MIMEType: "application/pdf", Data: []byte("fake")}},
			{Text: "analyze"},
		},
	})
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if len(gotBody.Contents) != 1 || len(gotBody.Contents[0].Parts) != 2 {
		t.Fatalf("unexpected contents: %+v", gotBody.Contents)
	}
	inline := gotBody.Contents[0].Parts[0].InlineData
	if inline == nil || inline.MIMEType != "application/pdf" || inline.Data == "" {
		t.Fatalf("inline data not encoded: %+v", gotBody.Contents[0].Parts[0])
	}
}

func TestGenerateTextHistoryPrecedesPrompt(t *testing.T) {
	var gotBody generateRequest

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": "ok"}}}},
			},
		})
	})

	_, err := client.GenerateText(context.Background(), Request{
		History: []Turn{
			{Role: "user", Parts: []Part{{Text: "hi"}}},
			{Role: "model", Parts: []Part{{Text: "hello"}}},
		},
		Parts: []Part{{Text: "next"}},
	})
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if len(gotBody.Contents) != 3 {
		t.Fatalf("expected 3 contents, got %d", len(gotBody.Contents))
	}
	if gotBody.Contents[0].Role != "user" || gotBody.Contents[1].Role != "model" {
		t.Fatalf("history roles wrong: %+v", gotBody.Contents)
	}
	if gotBody.Contents[2].Parts[0].Text != "next" {
		t.Fatalf("prompt not last: %+v", gotBody.Contents[2])
	}
}

func TestGenerateTextUnavailableOnServerError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.GenerateText(context.Background(), Request{Parts: []Part{{Text: "ping"}}})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestGenerateTextEmptyResponse(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"candidates": []map[string]any{}})
	})

	_, err := client.GenerateText(context.Background(), Request{Parts: []Part{{Text: "ping"}}})
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}
