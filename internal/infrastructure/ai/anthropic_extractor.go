package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/leatherworks/warehouse-api/internal/application/dto"
	"github.com/leatherworks/warehouse-api/internal/application/ports"
	"github.com/leatherworks/warehouse-api/internal/domain"
)

// Verificar en tiempo de compilación que AnthropicExtractor implementa InvoiceExtractor.
var _ ports.InvoiceExtractor = (*AnthropicExtractor)(nil)

const (
	anthropicMessagesURL = "https://api.anthropic.com/v1/messages"
	anthropicVersion     = "2023-06-01"
)

// AnthropicExtractor lee facturas con la API REST de Anthropic (Claude, entrada de imagen o PDF).
type AnthropicExtractor struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
}

// NewAnthropicExtractor construye el adaptador.
// Si apiKey está vacío las llamadas devuelven error descriptivo en lugar de panic.
func NewAnthropicExtractor(apiKey, model string) *AnthropicExtractor {
	return &AnthropicExtractor{
		apiKey:   apiKey,
		model:    model,
		endpoint: anthropicMessagesURL,
		httpClient: &http.Client{
			// El use case impone además un context.WithTimeout de 60 s.
			Timeout: 90 * time.Second,
		},
	}
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string             `json:"role"`
	Content []anthropicContent `json:"content"`
}

type anthropicContent struct {
	Type   string           `json:"type"` // text | image | document
	Text   string           `json:"text,omitempty"`
	Source *anthropicSource `json:"source,omitempty"`
}

type anthropicSource struct {
	Type      string `json:"type"` // base64
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// ExtractInvoice envía el archivo codificado en base64 a Claude y parsea el JSON devuelto.
func (s *AnthropicExtractor) ExtractInvoice(ctx context.Context, content []byte, mimeType string) (*dto.OCRResult, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("%w: AI: ANTHROPIC_API_KEY no configurado", domain.ErrUpstream)
	}

	block := anthropicContent{
		Type: "image",
		Source: &anthropicSource{
			Type:      "base64",
			MediaType: mimeType,
			Data:      base64.StdEncoding.EncodeToString(content),
		},
	}
	if mimeType == "application/pdf" {
		block.Type = "document"
	}

	payload := anthropicRequest{
		Model:     s.model,
		MaxTokens: 4096,
		System:    invoiceSystemPrompt,
		Messages: []anthropicMessage{{
			Role:    "user",
			Content: []anthropicContent{block, {Type: "text", Text: invoiceUserPrompt}},
		}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("AI: serializar request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("AI: crear HTTP request: %w", err)
	}
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("content-type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: AI: timeout o cancelación: %v", domain.ErrUpstream, ctx.Err())
		}
		return nil, fmt.Errorf("%w: AI: llamada HTTP fallida: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: AI: leer respuesta: %v", domain.ErrUpstream, err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp anthropicResponse
		if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && errResp.Error != nil {
			return nil, fmt.Errorf("%w: AI: Anthropic error (%s): %s", domain.ErrUpstream, errResp.Error.Type, errResp.Error.Message)
		}
		return nil, fmt.Errorf("%w: AI: Anthropic HTTP %d", domain.ErrUpstream, resp.StatusCode)
	}

	var anthResp anthropicResponse
	if err := json.Unmarshal(rawBody, &anthResp); err != nil {
		return nil, fmt.Errorf("%w: AI: deserializar respuesta Anthropic: %v", domain.ErrUpstream, err)
	}
	for _, c := range anthResp.Content {
		if c.Type == "text" && c.Text != "" {
			result, err := parseOCRText(c.Text)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
			}
			return result, nil
		}
	}
	return nil, fmt.Errorf("%w: AI: Claude devolvió respuesta vacía", domain.ErrUpstream)
}
