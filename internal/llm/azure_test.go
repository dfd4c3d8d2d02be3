package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/adk/model"
	"google.golang.org/genai"

	"github.com/vitormoschetta/travel-supervisor/internal/config"
)

type fakeCredential struct {
	calls int
	err   error
	ttl   time.Duration
}

func (f *fakeCredential) GetToken(context.Context, policy.TokenRequestOptions) (azcore.AccessToken, error) {
	f.calls++
	if f.err != nil {
		return azcore.AccessToken{}, f.err
	}
	ttl := f.ttl
	if ttl == 0 {
		ttl = time.Hour
	}
	return azcore.AccessToken{Token: "aad-token", ExpiresOn: time.Now().Add(ttl)}, nil
}

func azureConfig(endpoint, key string) config.AzureConfig {
	return config.AzureConfig{
		Endpoint:   endpoint,
		APIKey:     key,
		Deployment: "gpt-4o-20240806",
		APIVersion: "2024-10-21",
		TokenScope: config.DefaultAzureTokenScope,
	}
}

func completion(msg openai.ChatCompletionMessage) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		ID: "chatcmpl-1",
		Choices: []openai.ChatCompletionChoice{
			{Index: 0, Message: msg, FinishReason: openai.FinishReasonStop},
		},
		Usage: openai.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
	}
}

func collect(t *testing.T, m model.LLM, req *model.LLMRequest) *model.LLMResponse {
	t.Helper()
	var out *model.LLMResponse
	for resp, err := range m.GenerateContent(context.Background(), req, false) {
		require.NoError(t, err)
		out = resp
	}
	require.NotNil(t, out)
	return out
}

func TestAzureModelAPIKey(t *testing.T) {
	var got openai.ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/openai/deployments/gpt-4o-20240806/chat/completions", r.URL.Path)
		assert.Equal(t, "2024-10-21", r.URL.Query().Get("api-version"))
		assert.Equal(t, "secret", r.Header.Get("api-key"))
		assert.Empty(t, r.Header.Get("Authorization"))

		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(completion(openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleAssistant,
			Content: "The cheapest trip is to New York.",
		}))
	}))
	defer srv.Close()

	m, err := NewAzureModel(azureConfig(srv.URL, "secret"), nil, srv.Client())
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-20240806", m.Name())

	resp := collect(t, m, &model.LLMRequest{
		Contents: []*genai.Content{genai.NewContentFromText("cheapest trip?", genai.RoleUser)},
		Config: &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText("You are a supervisor.", genai.RoleUser),
		},
	})

	require.Len(t, got.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, got.Messages[0].Role)
	assert.Equal(t, "You are a supervisor.", got.Messages[0].Content)
	assert.Equal(t, openai.ChatMessageRoleUser, got.Messages[1].Role)

	require.NotNil(t, resp.Content)
	assert.Equal(t, genai.RoleModel, resp.Content.Role)
	require.Len(t, resp.Content.Parts, 1)
	assert.Equal(t, "The cheapest trip is to New York.", resp.Content.Parts[0].Text)
	assert.True(t, resp.TurnComplete)
	assert.Equal(t, int32(15), resp.UsageMetadata.TotalTokenCount)
}

func TestAzureModelCredential(t *testing.T) {
	cred := &fakeCredential{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer aad-token", r.Header.Get("Authorization"))
		assert.Empty(t, r.Header.Get("api-key"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(completion(openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleAssistant,
			Content: "ok",
		}))
	}))
	defer srv.Close()

	source := NewCredentialTokenSource(cred, config.DefaultAzureTokenScope)
	m, err := NewAzureModel(azureConfig(srv.URL, ""), source, srv.Client())
	require.NoError(t, err)

	req := &model.LLMRequest{Contents: []*genai.Content{genai.NewContentFromText("hi", genai.RoleUser)}}
	collect(t, m, req)
	collect(t, m, req)

	assert.Equal(t, 1, cred.calls, "token should be cached")
}

func TestAzureModelCredentialRequired(t *testing.T) {
	_, err := NewAzureModel(azureConfig("https://example.openai.azure.com", ""), nil, nil)

	var cfgErr *config.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestAzureModelToolCalls(t *testing.T) {
	var got openai.ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(completion(openai.ChatCompletionMessage{
			Role: openai.ChatMessageRoleAssistant,
			ToolCalls: []openai.ToolCall{{
				ID:   "call_2",
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      "divide",
					Arguments: `{"a": 10, "b": 2}`,
				},
			}},
		}))
	}))
	defer srv.Close()

	m, err := NewAzureModel(azureConfig(srv.URL, "secret"), nil, srv.Client())
	require.NoError(t, err)

	resp := collect(t, m, &model.LLMRequest{
		Contents: []*genai.Content{
			genai.NewContentFromText("add 2 and 3 then divide 10 by 2", genai.RoleUser),
			{
				Role: genai.RoleModel,
				Parts: []*genai.Part{{FunctionCall: &genai.FunctionCall{
					ID: "call_1", Name: "add", Args: map[string]any{"a": 2, "b": 3},
				}}},
			},
			{
				Role: genai.RoleUser,
				Parts: []*genai.Part{{FunctionResponse: &genai.FunctionResponse{
					ID: "call_1", Name: "add", Response: map[string]any{"result": 5},
				}}},
			},
		},
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{{FunctionDeclarations: []*genai.FunctionDeclaration{
				{
					Name:        "divide",
					Description: "Returns the division of two numbers.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"a": {Type: genai.TypeNumber},
							"b": {Type: genai.TypeNumber},
						},
						Required: []string{"a", "b"},
					},
				},
			}}},
		},
	})

	require.Len(t, got.Messages, 3)
	assert.Equal(t, openai.ChatMessageRoleAssistant, got.Messages[1].Role)
	require.Len(t, got.Messages[1].ToolCalls, 1)
	assert.Equal(t, "call_1", got.Messages[1].ToolCalls[0].ID)
	assert.JSONEq(t, `{"a":2,"b":3}`, got.Messages[1].ToolCalls[0].Function.Arguments)
	assert.Equal(t, openai.ChatMessageRoleTool, got.Messages[2].Role)
	assert.Equal(t, "call_1", got.Messages[2].ToolCallID)
	assert.JSONEq(t, `{"result":5}`, got.Messages[2].Content)

	require.Len(t, got.Tools, 1)
	assert.Equal(t, "divide", got.Tools[0].Function.Name)
	params, err := json.Marshal(got.Tools[0].Function.Parameters)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"object","properties":{"a":{"type":"number"},"b":{"type":"number"}},"required":["a","b"]}`, string(params))

	require.Len(t, resp.Content.Parts, 1)
	fc := resp.Content.Parts[0].FunctionCall
	require.NotNil(t, fc)
	assert.Equal(t, "call_2", fc.ID)
	assert.Equal(t, "divide", fc.Name)
	assert.Equal(t, map[string]any{"a": 10.0, "b": 2.0}, fc.Args)
}

func TestAzureModelProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"code":"401","message":"Access denied"}}`))
	}))
	defer srv.Close()

	m, err := NewAzureModel(azureConfig(srv.URL, "wrong"), nil, srv.Client())
	require.NoError(t, err)

	err = Probe(context.Background(), m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "azure chat completion failed")
}

func TestProbe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(completion(openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleAssistant,
			Content: "OK",
		}))
	}))
	defer srv.Close()

	m, err := NewAzureModel(azureConfig(srv.URL, "secret"), nil, srv.Client())
	require.NoError(t, err)

	assert.NoError(t, Probe(context.Background(), Instrument(m, config.ProviderAzure)))
}
