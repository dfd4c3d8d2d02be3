// Package service executa uma conversa pelo framework de agentes por trás de
// uma única chamada Invoke.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/genai"

	"github.com/vitormoschetta/travel-supervisor/internal/model"
)

var (
	ErrNoUserMessage = errors.New("conversation must end with a user message")
	ErrEmptyResponse = errors.New("agent returned no text response")
)

// Invoker transforma uma conversa na resposta final do assistente.
type Invoker interface {
	Invoke(ctx context.Context, messages []model.Message) (string, error)
}

// Orchestrator implementa Invoker sobre um runner do ADK. Cada chamada recebe
// sua própria sessão, então chamadas concorrentes não compartilham estado.
type Orchestrator struct {
	root     agent.Agent
	runner   *runner.Runner
	sessions *SessionManager
}

func NewOrchestrator(appName string, root agent.Agent) (*Orchestrator, error) {
	svc := session.InMemoryService()

	r, err := runner.New(runner.Config{
		AppName:        appName,
		Agent:          root,
		SessionService: svc,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create runner: %w", err)
	}

	return &Orchestrator{
		root:     root,
		runner:   r,
		sessions: NewSessionManager(svc, appName),
	}, nil
}

// Invoke reproduz todas as mensagens exceto a última em uma sessão nova,
// executa a última e retorna o texto do último evento que não é do usuário,
// sem barras invertidas.
func (o *Orchestrator) Invoke(ctx context.Context, messages []model.Message) (string, error) {
	if len(messages) == 0 || messages[len(messages)-1].Role != model.RoleUser {
		return "", ErrNoUserMessage
	}
	last := messages[len(messages)-1]

	sess, err := o.sessions.Open(ctx, messages[:len(messages)-1], o.root.Name())
	if err != nil {
		return "", err
	}
	defer o.sessions.Close(context.WithoutCancel(ctx), sess.ID())

	logger := log.Ctx(ctx).With().Str("session_id", sess.ID()).Logger()
	logger.Debug().Int("history", len(messages)-1).Msg("running supervisor")

	var final string
	userContent := genai.NewContentFromText(last.Content, genai.RoleUser)
	for ev, err := range o.runner.Run(ctx, o.sessions.UserID(), sess.ID(), userContent, agent.RunConfig{}) {
		if err != nil {
			return "", fmt.Errorf("agent run failed: %w", err)
		}
		if ev == nil || ev.Partial || ev.Author == model.RoleUser {
			continue
		}
		if ev.ErrorCode != "" {
			return "", fmt.Errorf("agent run failed: %s: %s", ev.ErrorCode, ev.ErrorMessage)
		}
		if text := eventText(ev); text != "" {
			logger.Debug().Str("author", ev.Author).Msg("agent replied")
			final = text
		}
	}

	if final == "" {
		return "", ErrEmptyResponse
	}
	return strings.ReplaceAll(final, `\`, ""), nil
}

func eventText(ev *session.Event) string {
	if ev.Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, p := range ev.Content.Parts {
		if p != nil && p.Text != "" && !p.Thought {
			sb.WriteString(p.Text)
		}
	}
	return strings.TrimSpace(sb.String())
}
