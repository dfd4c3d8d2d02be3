// Package tools contém o registro de ferramentas entregue aos agentes, ao
// servidor MCP e à CLI. Cada ferramenta é registrada uma vez com um handler
// tipado; o registro deriva dele o JSON schema e as integrações com o framework.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/invopop/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
	"google.golang.org/adk/tool"
	"google.golang.org/adk/tool/functiontool"

	"github.com/vitormoschetta/travel-supervisor/internal/metrics"
)

var (
	ErrUnknownTool = errors.New("unknown tool")
	ErrNotFinite   = errors.New("result is not a finite number")
)

// Result é o contrato único de toda ferramenta: um valor ou uma mensagem de
// erro, nunca os dois.
type Result struct {
	Value any    `json:"result,omitempty"`
	Error string `json:"error,omitempty"`
}

func (r Result) OK() bool {
	return r.Error == ""
}

// NewResult converte o retorno de um handler em Result. Mensagens de erro
// recebem o prefixo "Error: " para o modelo tratá-las como falhas em banda.
func NewResult(v any, err error) Result {
	if err == nil && !finite(v) {
		err = ErrNotFinite
	}
	if err != nil {
		return Result{Error: "Error: " + err.Error()}
	}
	return Result{Value: v}
}

// finite retorna false para NaN e ±Inf, que o JSON não consegue representar.
func finite(v any) bool {
	switch f := v.(type) {
	case float64:
		return !math.IsInf(f, 0) && !math.IsNaN(f)
	case float32:
		return !math.IsInf(float64(f), 0) && !math.IsNaN(float64(f))
	}
	return true
}

// Tool é uma entrada do registro.
type Tool struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Schema      *jsonschema.Schema `json:"parameters"`

	invoke func(ctx context.Context, args json.RawMessage) Result
	adk    func() (tool.Tool, error)
	mcp    func(s *mcp.Server)
}

// Invoke decodifica os argumentos JSON e executa o handler.
func (t *Tool) Invoke(ctx context.Context, args json.RawMessage) Result {
	return t.invoke(ctx, args)
}

type Registry struct {
	tools map[string]*Tool
	order []string
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]*Tool)}
}

// Register adiciona um handler tipado com o nome name. Registrar o mesmo nome
// duas vezes substitui a entrada anterior.
func Register[In, Out any](r *Registry, name, description string, fn func(context.Context, In) (Out, error)) {
	call := func(ctx context.Context, in In) Result {
		out, err := fn(ctx, in)
		res := NewResult(out, err)

		status := "ok"
		if !res.OK() {
			status = "error"
		}
		metrics.ToolCalls.WithLabelValues(name, status).Inc()
		log.Ctx(ctx).Debug().Str("tool", name).Str("status", status).Msg("[TOOL] executed")
		return res
	}

	t := &Tool{
		Name:        name,
		Description: description,
		Schema:      schemaFor[In](),
		invoke: func(ctx context.Context, args json.RawMessage) Result {
			var in In
			if len(args) == 0 {
				args = json.RawMessage("{}")
			}
			if err := json.Unmarshal(args, &in); err != nil {
				metrics.ToolCalls.WithLabelValues(name, "error").Inc()
				return Result{Error: fmt.Sprintf("Error: invalid arguments: %v", err)}
			}
			return call(ctx, in)
		},
		adk: func() (tool.Tool, error) {
			return functiontool.New(functiontool.Config{
				Name:        name,
				Description: description,
			}, func(ctx tool.Context, in In) (Result, error) {
				return call(ctx, in), nil
			})
		},
		mcp: func(s *mcp.Server) {
			mcp.AddTool(s, &mcp.Tool{Name: name, Description: description},
				func(ctx context.Context, _ *mcp.CallToolRequest, in In) (*mcp.CallToolResult, Result, error) {
					res := call(ctx, in)
					if !res.OK() {
						return &mcp.CallToolResult{
							IsError: true,
							Content: []mcp.Content{&mcp.TextContent{Text: res.Error}},
						}, res, nil
					}
					return nil, res, nil
				})
		},
	}

	if _, exists := r.tools[name]; !exists {
		r.order = append(r.order, name)
	}
	r.tools[name] = t
}

func (r *Registry) Get(name string) (*Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// List retorna as ferramentas na ordem de registro.
func (r *Registry) List() []*Tool {
	out := make([]*Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Invoke executa a ferramenta pelo nome com argumentos JSON.
func (r *Registry) Invoke(ctx context.Context, name string, args json.RawMessage) (Result, error) {
	t, ok := r.tools[name]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return t.Invoke(ctx, args), nil
}

// ADKTools cria function tools para as entradas pedidas, na ordem dada.
func (r *Registry) ADKTools(names ...string) ([]tool.Tool, error) {
	out := make([]tool.Tool, 0, len(names))
	for _, name := range names {
		t, ok := r.tools[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
		}
		ft, err := t.adk()
		if err != nil {
			return nil, fmt.Errorf("failed to create tool %s: %w", name, err)
		}
		out = append(out, ft)
	}
	return out, nil
}

// MCPServer expõe todas as ferramentas registradas pelo Model Context Protocol.
func (r *Registry) MCPServer(impl *mcp.Implementation) *mcp.Server {
	s := mcp.NewServer(impl, nil)
	for _, t := range r.List() {
		t.mcp(s)
	}
	return s
}

func schemaFor[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}
