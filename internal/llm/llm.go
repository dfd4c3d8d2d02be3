// Package llm cria o model.LLM único compartilhado por todos os agentes: um
// deployment do Azure OpenAI ou um modelo Gemini, escolhido pela configuração.
package llm

import (
	"context"
	"fmt"
	"iter"
	"net/http"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/rs/zerolog/log"
	"google.golang.org/adk/model"
	"google.golang.org/adk/model/gemini"
	"google.golang.org/genai"

	"github.com/vitormoschetta/travel-supervisor/internal/config"
	"github.com/vitormoschetta/travel-supervisor/internal/metrics"
)

const providerTimeout = 120 * time.Second

// New valida cfg e cria o provedor configurado. Nenhuma chamada de rede é
// feita aqui.
func New(ctx context.Context, cfg *config.Config) (model.LLM, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		m   model.LLM
		err error
	)
	switch cfg.Provider {
	case config.ProviderAzure:
		m, err = newAzure(cfg.Azure)
	case config.ProviderGemini:
		m, err = newGemini(ctx, cfg.Gemini)
	}
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("provider", cfg.Provider).
		Str("model", m.Name()).
		Msg("LLM client initialized")
	return Instrument(m, cfg.Provider), nil
}

func newAzure(cfg config.AzureConfig) (model.LLM, error) {
	var source TokenSource
	if cfg.UsesCredential() {
		cred, err := azidentity.NewDefaultAzureCredential(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create azure credential: %w", err)
		}
		source = NewCredentialTokenSource(cred, cfg.TokenScope)
	}
	return NewAzureModel(cfg, source, &http.Client{Timeout: providerTimeout})
}

func newGemini(ctx context.Context, cfg config.GeminiConfig) (model.LLM, error) {
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.UsesVertex() {
		cc = &genai.ClientConfig{
			Backend:  genai.BackendVertexAI,
			Project:  cfg.Project,
			Location: cfg.Location,
		}
	}

	m, err := gemini.NewModel(ctx, cfg.Model, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create model: %w", err)
	}
	return m, nil
}

type instrumented struct {
	model.LLM
	provider string
}

// Instrument contabiliza cada chamada ao provedor nas métricas de LLM.
func Instrument(m model.LLM, provider string) model.LLM {
	return &instrumented{LLM: m, provider: provider}
}

func (m *instrumented) GenerateContent(ctx context.Context, req *model.LLMRequest, stream bool) iter.Seq2[*model.LLMResponse, error] {
	return func(yield func(*model.LLMResponse, error) bool) {
		status := "ok"
		defer func() {
			metrics.LLMCalls.WithLabelValues(m.provider, status).Inc()
		}()

		for resp, err := range m.LLM.GenerateContent(ctx, req, stream) {
			if err != nil {
				status = "error"
				log.Ctx(ctx).Error().Err(err).Str("provider", m.provider).Msg("LLM call failed")
			}
			if !yield(resp, err) {
				return
			}
		}
	}
}

// Probe envia um prompt mínimo e informa se o provedor respondeu.
func Probe(ctx context.Context, m model.LLM) error {
	req := &model.LLMRequest{
		Model:    m.Name(),
		Contents: []*genai.Content{genai.NewContentFromText("Reply with the single word OK.", genai.RoleUser)},
		Config:   &genai.GenerateContentConfig{},
	}

	answered := false
	for resp, err := range m.GenerateContent(ctx, req, false) {
		if err != nil {
			return err
		}
		if resp == nil {
			continue
		}
		if resp.ErrorCode != "" {
			return fmt.Errorf("provider error %s: %s", resp.ErrorCode, resp.ErrorMessage)
		}
		answered = true
	}
	if !answered {
		return fmt.Errorf("provider returned no response")
	}
	return nil
}
