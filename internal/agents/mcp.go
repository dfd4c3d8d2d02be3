package agents

import (
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/model"
	"google.golang.org/adk/tool"
	"google.golang.org/adk/tool/mcptoolset"

	"github.com/vitormoschetta/travel-supervisor/internal/config"
	"github.com/vitormoschetta/travel-supervisor/internal/llm"
	"github.com/vitormoschetta/travel-supervisor/internal/tools"
)

// NewRemoteToolset conecta a um servidor MCP externo. Retorna nil quando
// nenhum endpoint está configurado.
func NewRemoteToolset(cfg config.MCPConfig) (tool.Toolset, error) {
	if cfg.Endpoint == "" {
		return nil, nil
	}
	if cfg.Token == "" {
		log.Warn().Msg("MCP_TOKEN is not set, MCP requests may be rejected")
	}

	transport := &mcp.StreamableClientTransport{
		Endpoint:   cfg.Endpoint,
		HTTPClient: llm.NewAuthenticatedClient("Authorization", "Bearer ", llm.StaticToken(cfg.Token), 30*time.Second),
	}

	log.Info().Str("endpoint", cfg.Endpoint).Msg("connecting to MCP endpoint")

	ts, err := mcptoolset.New(mcptoolset.Config{
		Transport: transport,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MCP tool set: %w", err)
	}

	log.Info().Msg("MCP toolset initialized")
	return ts, nil
}

// NewSupervisorWithRemote cria o supervisor e, quando há um endpoint MCP
// configurado, anexa o toolset remoto a ele.
func NewSupervisorWithRemote(m model.LLM, reg *tools.Registry, cfg config.MCPConfig) (agent.Agent, error) {
	remote, err := NewRemoteToolset(cfg)
	if err != nil {
		return nil, err
	}
	if remote == nil {
		return NewSupervisor(m, reg)
	}
	return NewSupervisor(m, reg, remote)
}
