package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

var ErrNoChoices = errors.New("completion returned no choices")

// toChatRequest converte uma requisição do ADK em uma requisição de chat completions.
func toChatRequest(deployment string, req *model.LLMRequest) (openai.ChatCompletionRequest, error) {
	out := openai.ChatCompletionRequest{Model: deployment}

	if cfg := req.Config; cfg != nil {
		if sys := contentText(cfg.SystemInstruction); sys != "" {
			out.Messages = append(out.Messages, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleSystem,
				Content: sys,
			})
		}
		if cfg.Temperature != nil {
			out.Temperature = *cfg.Temperature
		}
		tools, err := toTools(cfg.Tools)
		if err != nil {
			return out, err
		}
		out.Tools = tools
	}

	for _, c := range req.Contents {
		msgs, err := toMessages(c)
		if err != nil {
			return out, err
		}
		out.Messages = append(out.Messages, msgs...)
	}
	return out, nil
}

func toMessages(c *genai.Content) ([]openai.ChatCompletionMessage, error) {
	if c == nil {
		return nil, nil
	}

	if c.Role == genai.RoleModel {
		msg := openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleAssistant,
			Content: contentText(c),
		}
		for _, p := range c.Parts {
			if p == nil || p.FunctionCall == nil {
				continue
			}
			args, err := json.Marshal(p.FunctionCall.Args)
			if err != nil {
				return nil, fmt.Errorf("failed to encode arguments of %s: %w", p.FunctionCall.Name, err)
			}
			msg.ToolCalls = append(msg.ToolCalls, openai.ToolCall{
				ID:   p.FunctionCall.ID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      p.FunctionCall.Name,
					Arguments: string(args),
				},
			})
		}
		if msg.Content == "" && len(msg.ToolCalls) == 0 {
			return nil, nil
		}
		return []openai.ChatCompletionMessage{msg}, nil
	}

	var msgs []openai.ChatCompletionMessage
	for _, p := range c.Parts {
		if p == nil || p.FunctionResponse == nil {
			continue
		}
		body, err := json.Marshal(p.FunctionResponse.Response)
		if err != nil {
			return nil, fmt.Errorf("failed to encode response of %s: %w", p.FunctionResponse.Name, err)
		}
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:       openai.ChatMessageRoleTool,
			ToolCallID: p.FunctionResponse.ID,
			Name:       p.FunctionResponse.Name,
			Content:    string(body),
		})
	}
	if text := contentText(c); text != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: text,
		})
	}
	return msgs, nil
}

func toTools(tools []*genai.Tool) ([]openai.Tool, error) {
	var out []openai.Tool
	for _, t := range tools {
		if t == nil {
			continue
		}
		for _, fd := range t.FunctionDeclarations {
			params, err := declarationParameters(fd)
			if err != nil {
				return nil, err
			}
			out = append(out, openai.Tool{
				Type: openai.ToolTypeFunction,
				Function: &openai.FunctionDefinition{
					Name:        fd.Name,
					Description: fd.Description,
					Parameters:  params,
				},
			})
		}
	}
	return out, nil
}

func declarationParameters(fd *genai.FunctionDeclaration) (json.RawMessage, error) {
	switch {
	case fd.ParametersJsonSchema != nil:
		b, err := json.Marshal(fd.ParametersJsonSchema)
		if err != nil {
			return nil, fmt.Errorf("failed to encode schema of %s: %w", fd.Name, err)
		}
		return b, nil
	case fd.Parameters != nil:
		b, err := json.Marshal(schemaToMap(fd.Parameters))
		if err != nil {
			return nil, fmt.Errorf("failed to encode schema of %s: %w", fd.Name, err)
		}
		return b, nil
	default:
		return json.RawMessage(`{"type":"object","properties":{}}`), nil
	}
}

// schemaToMap converte o dialeto de schema do Gemini (tipos em maiúsculas)
// em JSON schema puro.
func schemaToMap(s *genai.Schema) map[string]any {
	m := map[string]any{}
	if s.Type != "" {
		m["type"] = strings.ToLower(string(s.Type))
	}
	if s.Description != "" {
		m["description"] = s.Description
	}
	if len(s.Enum) > 0 {
		m["enum"] = s.Enum
	}
	if s.Items != nil {
		m["items"] = schemaToMap(s.Items)
	}
	if len(s.Properties) > 0 {
		props := make(map[string]any, len(s.Properties))
		for name, p := range s.Properties {
			props[name] = schemaToMap(p)
		}
		m["properties"] = props
	}
	if len(s.Required) > 0 {
		m["required"] = s.Required
	}
	if m["type"] == "object" && m["properties"] == nil {
		m["properties"] = map[string]any{}
	}
	return m
}

// fromChatResponse converte a primeira choice de volta em uma resposta do ADK.
func fromChatResponse(resp openai.ChatCompletionResponse) (*model.LLMResponse, error) {
	if len(resp.Choices) == 0 {
		return nil, ErrNoChoices
	}
	choice := resp.Choices[0]

	content := &genai.Content{Role: genai.RoleModel}
	if choice.Message.Content != "" {
		content.Parts = append(content.Parts, &genai.Part{Text: choice.Message.Content})
	}
	for _, tc := range choice.Message.ToolCalls {
		args := map[string]any{}
		if strings.TrimSpace(tc.Function.Arguments) != "" {
			if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
				return nil, fmt.Errorf("failed to decode arguments of %s: %w", tc.Function.Name, err)
			}
		}
		content.Parts = append(content.Parts, &genai.Part{
			FunctionCall: &genai.FunctionCall{
				ID:   tc.ID,
				Name: tc.Function.Name,
				Args: args,
			},
		})
	}

	return &model.LLMResponse{
		Content:      content,
		TurnComplete: true,
		FinishReason: finishReason(choice.FinishReason),
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
			PromptTokenCount:     int32(resp.Usage.PromptTokens),
			CandidatesTokenCount: int32(resp.Usage.CompletionTokens),
			TotalTokenCount:      int32(resp.Usage.TotalTokens),
		},
	}, nil
}

func finishReason(r openai.FinishReason) genai.FinishReason {
	switch r {
	case openai.FinishReasonLength:
		return genai.FinishReasonMaxTokens
	case openai.FinishReasonContentFilter:
		return genai.FinishReasonSafety
	default:
		return genai.FinishReasonStop
	}
}

func contentText(c *genai.Content) string {
	if c == nil {
		return ""
	}
	var sb strings.Builder
	for _, p := range c.Parts {
		if p != nil && p.Text != "" {
			sb.WriteString(p.Text)
		}
	}
	return sb.String()
}
