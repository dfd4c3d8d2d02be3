package llm

import (
	"context"
	"fmt"
	"iter"
	"net/http"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/adk/model"

	"github.com/vitormoschetta/travel-supervisor/internal/config"
)

// AzureModel atende as requisições de modelo do ADK a partir de um
// deployment de chat completions do Azure OpenAI.
type AzureModel struct {
	client     *openai.Client
	deployment string
}

// NewAzureModel cria o cliente. Com API key, a chave vai no header api-key;
// sem ela, source precisa fornecer bearer tokens.
func NewAzureModel(cfg config.AzureConfig, source TokenSource, httpClient *http.Client) (*AzureModel, error) {
	if cfg.Endpoint == "" || cfg.Deployment == "" || cfg.APIVersion == "" {
		return nil, &config.ConfigurationError{Reason: "azure endpoint, deployment and api version are required"}
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	oc := openai.DefaultAzureConfig(cfg.APIKey, cfg.Endpoint)
	oc.APIVersion = cfg.APIVersion
	deployment := cfg.Deployment
	oc.AzureModelMapperFunc = func(string) string { return deployment }

	if cfg.UsesCredential() {
		if source == nil {
			return nil, &config.ConfigurationError{Reason: "azure credential token source is required without an API key"}
		}
		oc.APIType = openai.APITypeAzureAD
		base := httpClient.Transport
		httpClient = &http.Client{
			Timeout: httpClient.Timeout,
			Transport: &AuthenticatedTransport{
				Base:   base,
				Header: "Authorization",
				Prefix: "Bearer ",
				Source: source,
			},
		}
	}
	oc.HTTPClient = httpClient

	return &AzureModel{
		client:     openai.NewClientWithConfig(oc),
		deployment: deployment,
	}, nil
}

func (m *AzureModel) Name() string {
	return m.deployment
}

// GenerateContent sempre responde com uma única resposta completa; stream é
// ignorado.
func (m *AzureModel) GenerateContent(ctx context.Context, req *model.LLMRequest, _ bool) iter.Seq2[*model.LLMResponse, error] {
	return func(yield func(*model.LLMResponse, error) bool) {
		yield(m.generate(ctx, req))
	}
}

func (m *AzureModel) generate(ctx context.Context, req *model.LLMRequest) (*model.LLMResponse, error) {
	chatReq, err := toChatRequest(m.deployment, req)
	if err != nil {
		return nil, err
	}

	resp, err := m.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, fmt.Errorf("azure chat completion failed: %w", err)
	}
	return fromChatResponse(resp)
}
