package oracle

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/smallbiznis/recouvro/internal/config"
	"go.uber.org/zap"
)

// Client is a generateContent REST client.
type Client struct {
	cfg        config.OracleConfig
	httpClient *http.Client
	log        *zap.Logger
}

// NewClient builds the REST client from oracle configuration.
func NewClient(cfg config.OracleConfig, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		log:        log.Named("oracle.client"),
	}
}

type generationConfig struct {
	Temperature      float64        `json:"temperature,omitempty"`
	ResponseMIMEType string         `json:"responseMimeType,omitempty"`
	ResponseSchema   map[string]any `json:"responseSchema,omitempty"`
}

type wirePart struct {
	Text       string          `json:"text,omitempty"`
	InlineData *wireInlineData `json:"inlineData,omitempty"`
}

type wireInlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type wireContent struct {
	Role  string     `json:"role,omitempty"`
	Parts []wirePart `json:"parts"`
}

type generateRequest struct {
	SystemInstruction *wireContent      `json:"systemInstruction,omitempty"`
	Contents          []wireContent     `json:"contents"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GenerateText performs one generateContent call and returns the first
// candidate's concatenated text.
func (c *Client) GenerateText(ctx context.Context, req Request) (string, error) {
	reqID := uuid.NewString()
	start := time.Now()

	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = c.cfg.Model
	}

	payload := generateRequest{
		Contents: buildContents(req),
	}
	if instruction := strings.TrimSpace(req.SystemInstruction); instruction != "" {
		payload.SystemInstruction = &wireContent{Parts: []wirePart{{Text: instruction}}}
	}
	if req.ResponseSchema != nil || req.Temperature > 0 || req.ResponseMIMEType != "" {
		payload.GenerationConfig = &generationConfig{
			Temperature:      req.Temperature,
			ResponseMIMEType: req.ResponseMIMEType,
			ResponseSchema:   req.ResponseSchema,
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode oracle request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent",
		strings.TrimRight(c.cfg.BaseURL, "/"), model)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build oracle request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		httpReq.Header.Set("x-goog-api-key", c.cfg.APIKey)
	}

	c.log.Debug("oracle.request",
		zap.String("req_id", reqID),
		zap.String("model", model),
		zap.Int("content_length", len(body)),
	)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.log.Error("oracle.send_error",
			zap.String("req_id", reqID),
			zap.Error(err),
			zap.Int64("elapsed_ms", time.Since(start).Milliseconds()),
		)
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	c.log.Debug("oracle.response",
		zap.String("req_id", reqID),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(raw)),
		zap.Int64("elapsed_ms", time.Since(start).Milliseconds()),
	)

	if resp.StatusCode/100 != 2 {
		c.log.Warn("oracle.non_2xx",
			zap.String("req_id", reqID),
			zap.Int("status", resp.StatusCode),
		)
		return "", fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var decoded generateResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	text := firstCandidateText(decoded)
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func buildContents(req Request) []wireContent {
	contents := make([]wireContent, 0, len(req.History)+1)
	for _, turn := range req.History {
		contents = append(contents, wireContent{
			Role:  turn.Role,
			Parts: buildParts(turn.Parts),
		})
	}
	if len(req.Parts) > 0 {
		contents = append(contents, wireContent{
			Role:  "user",
			Parts: buildParts(req.Parts),
		})
	}
	return contents
}

func buildParts(parts []Part) []wirePart {
	wire := make([]wirePart, 0, len(parts))
	for _, part := range parts {
		if part.Inline != nil {
			wire = append(wire, wirePart{InlineData: &wireInlineData{
				MIMEType: part.Inline.MIMEType,
				Data:     base64.StdEncoding.EncodeToString(part.Inline.Data),
			}})
			continue
		}
		wire = append(wire, wirePart{Text: part.Text})
	}
	return wire
}

func firstCandidateText(resp generateResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String()
}

var _ Generator = (*Client)(nil)
