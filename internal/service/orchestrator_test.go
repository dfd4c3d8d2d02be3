package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/adk/session"

	"github.com/vitormoschetta/travel-supervisor/internal/agents"
	"github.com/vitormoschetta/travel-supervisor/internal/llm/llmtest"
	"github.com/vitormoschetta/travel-supervisor/internal/model"
	"github.com/vitormoschetta/travel-supervisor/internal/tools"
)

const testApp = "travel-supervisor-test"

func newOrchestrator(t *testing.T, llm *llmtest.Scripted) *Orchestrator {
	t.Helper()
	sup, err := agents.NewSupervisor(llm, tools.NewDefaultRegistry())
	require.NoError(t, err)
	o, err := NewOrchestrator(testApp, sup)
	require.NoError(t, err)
	return o
}

func TestInvokeReturnsFinalText(t *testing.T) {
	llm := llmtest.New().Text(`The cheapest trip is \New York\.`)
	o := newOrchestrator(t, llm)

	got, err := o.Invoke(context.Background(), []model.Message{
		{Role: model.RoleUser, Content: "A"},
		{Role: model.RoleAssistant, Content: "B"},
		{Role: model.RoleUser, Content: "cheapest trip?"},
	})

	require.NoError(t, err)
	assert.Equal(t, "The cheapest trip is New York.", got)

	require.Len(t, llm.Requests, 1)
	texts := llmtest.Texts(llm.Requests[0])
	assert.Contains(t, texts, "A")
	assert.Contains(t, texts, "B")
	assert.Contains(t, texts, "cheapest trip?")
}

func TestInvokeDelegatesToSubAgent(t *testing.T) {
	llm := llmtest.New().
		Call("call-1", "transfer_to_agent", map[string]any{"agent_name": agents.MathsAgentName}).
		Call("call-2", tools.AddName, map[string]any{"a": 2, "b": 3}).
		Text("2 + 3 = 5")
	o := newOrchestrator(t, llm)

	got, err := o.Invoke(context.Background(), []model.Message{
		{Role: model.RoleUser, Content: "what is 2 + 3?"},
	})

	require.NoError(t, err)
	assert.Equal(t, "2 + 3 = 5", got)
	assert.Len(t, llm.Requests, 3)
}

func TestInvokeProviderError(t *testing.T) {
	o := newOrchestrator(t, llmtest.New().Fail(errors.New("quota exceeded")))

	_, err := o.Invoke(context.Background(), []model.Message{{Role: model.RoleUser, Content: "hi"}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestInvokeEmptyResponse(t *testing.T) {
	o := newOrchestrator(t, llmtest.New().Text(""))

	_, err := o.Invoke(context.Background(), []model.Message{{Role: model.RoleUser, Content: "hi"}})

	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestInvokeRequiresUserMessage(t *testing.T) {
	o := newOrchestrator(t, llmtest.New())

	_, err := o.Invoke(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoUserMessage)

	_, err = o.Invoke(context.Background(), []model.Message{
		{Role: model.RoleUser, Content: "A"},
		{Role: model.RoleAssistant, Content: "B"},
	})
	assert.ErrorIs(t, err, ErrNoUserMessage)
}

func TestInvokeRemovesSession(t *testing.T) {
	o := newOrchestrator(t, llmtest.New().Text("done"))
	ctx := context.Background()

	_, err := o.Invoke(ctx, []model.Message{{Role: model.RoleUser, Content: "hi"}})
	require.NoError(t, err)

	resp, err := o.sessions.service.List(ctx, &session.ListRequest{AppName: testApp, UserID: o.sessions.UserID()})
	require.NoError(t, err)
	assert.Empty(t, resp.Sessions)
}

func TestOpenSkipsEmptyMessages(t *testing.T) {
	sm := NewSessionManager(session.InMemoryService(), testApp)
	ctx := context.Background()

	sess, err := sm.Open(ctx, model.BuildMessages(model.ChatMessage{
		Message: "next",
		History: []model.Turn{{User: "A"}, {Assistant: "B"}},
	}), agents.SupervisorName)
	require.NoError(t, err)
	defer sm.Close(ctx, sess.ID())

	got, err := sm.service.Get(ctx, &session.GetRequest{AppName: testApp, UserID: sm.UserID(), SessionID: sess.ID()})
	require.NoError(t, err)
	assert.Equal(t, 3, got.Session.Events().Len())
}
