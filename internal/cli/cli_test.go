package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestToolsList(t *testing.T) {
	out, err := run(t, "tools", "list")
	require.NoError(t, err)

	var listed []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &listed))
	require.Len(t, listed, 9)
	assert.Equal(t, "search_flights_options", listed[0]["name"])
	assert.Equal(t, "divide", listed[8]["name"])
}

func TestToolsCall(t *testing.T) {
	out, err := run(t, "tools", "call", "divide", `{"a": 10, "b": 2}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"result": 5}`, out)

	out, err = run(t, "tools", "call", "divide", `{"a": 1, "b": 0}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error": "Error: division by zero"}`, out)
}

func TestToolsCallUnknown(t *testing.T) {
	_, err := run(t, "tools", "call", "weather")

	assert.Error(t, err)
}
