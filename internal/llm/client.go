package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"PilatesStudioManager/internal/models"
)

const (
	defaultBaseURL  = "https://generativelanguage.googleapis.com/v1beta"
	modelID         = "gemini-2.5-flash"
	chatTemperature = 0.7
)

// Fixed user-presentable strings: the assistant surface never shows a raw
// error, and never an empty reply.
const (
	FallbackUnavailable = "Houve um erro ao conectar com o assistente inteligente. Verifique sua chave de API ou tente novamente mais tarde."
	FallbackEmpty       = "Desculpe, não consegui processar sua solicitação no momento."
)

type Config struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

type Client struct {
	cfg Config
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{cfg: cfg}
}

type generateRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Ask forwards a single user message plus static studio context to the model
// and returns the assistant text. It never returns an error: any failure
// yields FallbackUnavailable, an empty model reply yields FallbackEmpty.
// Each call is independent; no conversation memory is sent.
func (c *Client) Ask(ctx context.Context, message string, studio *models.Studio) string {
	text, err := c.generateContent(ctx, message, SystemInstruction(studio))
	if err != nil {
		log.Printf("[ERROR] llm.Ask(): %v", err)
		return FallbackUnavailable
	}
	if strings.TrimSpace(text) == "" {
		return FallbackEmpty
	}
	return text
}

// SystemInstruction builds the fixed consultant directive, embedding the
// studio name and address when a record is available.
func SystemInstruction(studio *models.Studio) string {
	studioInfo := "O usuário é um dono de estúdio de Pilates."
	if studio != nil {
		name := studio.Name
		if name == "" {
			name = "Sem nome"
		}
		address := studio.Address
		if address == "" {
			address = "Local não informado"
		}
		studioInfo = fmt.Sprintf("O usuário é dono de um estúdio de Pilates chamado %q localizado em %q.", name, address)
	}

	return "Você é um consultor sênior especializado em gestão de estúdios de Pilates e bem-estar.\n" +
		studioInfo + "\n" +
		"Responda de forma concisa, profissional e motivadora.\n" +
		"Use formatação Markdown para listas ou ênfase.\n" +
		"O idioma deve ser Português do Brasil."
}

func (c *Client) generateContent(ctx context.Context, message, instruction string) (string, error) {
	reqBody, err := json.Marshal(generateRequest{
		Contents: []content{
			{Role: "user", Parts: []part{{Text: message}}},
		},
		SystemInstruction: &content{Parts: []part{{Text: instruction}}},
		GenerationConfig:  &generationConfig{Temperature: chatTemperature},
	})
	if err != nil {
		return "", err
	}

	url := c.cfg.BaseURL + "/models/" + modelID + ":generateContent"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(reqBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.New("Gemini API call failed with status: " + resp.Status)
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", err
	}

	if len(genResp.Candidates) == 0 {
		return "", nil
	}
	var sb strings.Builder
	for _, p := range genResp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}
