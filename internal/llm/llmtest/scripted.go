// Package llmtest fornece um model.LLM roteirizado para testes.
package llmtest

import (
	"context"
	"fmt"
	"iter"
	"sync"

	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

// Scripted responde cada chamada a GenerateContent com a próxima resposta da
// fila e registra as requisições recebidas.
type Scripted struct {
	mu       sync.Mutex
	replies  []reply
	Requests []*model.LLMRequest
}

type reply struct {
	content *genai.Content
	err     error
}

func New() *Scripted {
	return &Scripted{}
}

// Text enfileira uma resposta de texto simples.
func (s *Scripted) Text(text string) *Scripted {
	return s.push(reply{content: genai.NewContentFromText(text, genai.RoleModel)})
}

// Call enfileira uma resposta com chamada de função.
func (s *Scripted) Call(id, name string, args map[string]any) *Scripted {
	return s.push(reply{content: &genai.Content{
		Role:  genai.RoleModel,
		Parts: []*genai.Part{{FunctionCall: &genai.FunctionCall{ID: id, Name: name, Args: args}}},
	}})
}

// Fail enfileira um erro.
func (s *Scripted) Fail(err error) *Scripted {
	return s.push(reply{err: err})
}

func (s *Scripted) push(r reply) *Scripted {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies = append(s.replies, r)
	return s
}

func (s *Scripted) Name() string {
	return "scripted"
}

func (s *Scripted) GenerateContent(_ context.Context, req *model.LLMRequest, _ bool) iter.Seq2[*model.LLMResponse, error] {
	return func(yield func(*model.LLMResponse, error) bool) {
		s.mu.Lock()
		s.Requests = append(s.Requests, req)
		if len(s.replies) == 0 {
			s.mu.Unlock()
			yield(nil, fmt.Errorf("scripted model: no reply queued for call %d", len(s.Requests)))
			return
		}
		r := s.replies[0]
		s.replies = s.replies[1:]
		s.mu.Unlock()

		if r.err != nil {
			yield(nil, r.err)
			return
		}
		yield(&model.LLMResponse{Content: r.content, TurnComplete: true}, nil)
	}
}

// Texts retorna cada parte de texto de cada content em req, em ordem.
func Texts(req *model.LLMRequest) []string {
	var out []string
	for _, c := range req.Contents {
		if c == nil {
			continue
		}
		for _, p := range c.Parts {
			if p != nil && p.Text != "" {
				out = append(out, p.Text)
			}
		}
	}
	return out
}
