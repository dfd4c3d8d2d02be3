package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"google.golang.org/adk/session"
	"google.golang.org/genai"

	"github.com/vitormoschetta/travel-supervisor/internal/model"
)

const defaultUserID = "default-user"

// SessionManager abre uma sessão descartável do ADK por requisição, com a
// conversa enviada pelo cliente, e a remove no final.
type SessionManager struct {
	service session.Service
	appName string
	userID  string
}

func NewSessionManager(svc session.Service, appName string) *SessionManager {
	return &SessionManager{
		service: svc,
		appName: appName,
		userID:  defaultUserID,
	}
}

// Open cria uma sessão e reproduz o histórico nela. Mensagens do assistente
// são atribuídas a assistantAuthor; mensagens de sistema e vazias não são reproduzidas.
func (sm *SessionManager) Open(ctx context.Context, history []model.Message, assistantAuthor string) (session.Session, error) {
	resp, err := sm.service.Create(ctx, &session.CreateRequest{
		AppName:   sm.appName,
		UserID:    sm.userID,
		SessionID: generateSessionID(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	sess := resp.Session

	invocationID := "history-" + sess.ID()
	for _, msg := range history {
		if strings.TrimSpace(msg.Content) == "" {
			continue
		}
		var ev *session.Event
		switch msg.Role {
		case model.RoleUser:
			ev = session.NewEvent(invocationID)
			ev.Author = model.RoleUser
			ev.Content = genai.NewContentFromText(msg.Content, genai.RoleUser)
		case model.RoleAssistant:
			ev = session.NewEvent(invocationID)
			ev.Author = assistantAuthor
			ev.Content = genai.NewContentFromText(msg.Content, genai.RoleModel)
		default:
			continue
		}
		if err := sm.service.AppendEvent(ctx, sess, ev); err != nil {
			sm.Close(ctx, sess.ID())
			return nil, fmt.Errorf("failed to seed session history: %w", err)
		}
	}
	return sess, nil
}

func (sm *SessionManager) Close(ctx context.Context, sessionID string) {
	err := sm.service.Delete(ctx, &session.DeleteRequest{
		AppName:   sm.appName,
		UserID:    sm.userID,
		SessionID: sessionID,
	})
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("session_id", sessionID).Msg("failed to delete session")
	}
}

func (sm *SessionManager) UserID() string {
	return sm.userID
}

func generateSessionID() string {
	return uuid.NewString()
}
