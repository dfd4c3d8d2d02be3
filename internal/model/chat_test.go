package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildMessages(t *testing.T) {
	msgs := BuildMessages(ChatMessage{
		Message: "And a hotel?",
		History: []Turn{
			{User: "A", Assistant: "B"},
			{User: "C", Assistant: "D"},
		},
	})

	assert.Equal(t, []Message{
		{Role: RoleUser, Content: "A"},
		{Role: RoleAssistant, Content: "B"},
		{Role: RoleUser, Content: "C"},
		{Role: RoleAssistant, Content: "D"},
		{Role: RoleUser, Content: "And a hotel?"},
	}, msgs)
}

func TestBuildMessagesWithoutHistory(t *testing.T) {
	msgs := BuildMessages(ChatMessage{Message: "Hi"})

	assert.Equal(t, []Message{{Role: RoleUser, Content: "Hi"}}, msgs)
}

func TestBuildMessagesKeepsEmptyHalves(t *testing.T) {
	msgs := BuildMessages(ChatMessage{
		Message: "next",
		History: []Turn{{User: "only user"}, {Assistant: "only assistant"}},
	})

	assert.Equal(t, []Message{
		{Role: RoleUser, Content: "only user"},
		{Role: RoleAssistant, Content: ""},
		{Role: RoleUser, Content: ""},
		{Role: RoleAssistant, Content: "only assistant"},
		{Role: RoleUser, Content: "next"},
	}, msgs)
}
