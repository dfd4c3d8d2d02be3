package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"google.golang.org/adk/agent"
	adkmodel "google.golang.org/adk/model"

	"github.com/vitormoschetta/travel-supervisor/internal/agents"
	"github.com/vitormoschetta/travel-supervisor/internal/config"
	"github.com/vitormoschetta/travel-supervisor/internal/handler"
	"github.com/vitormoschetta/travel-supervisor/internal/llm"
	"github.com/vitormoschetta/travel-supervisor/internal/logging"
	"github.com/vitormoschetta/travel-supervisor/internal/service"
	"github.com/vitormoschetta/travel-supervisor/internal/tools"
)

const version = "v0.1.0"

// Server representa o servidor HTTP com todas as dependências
type Server struct {
	Config       *config.Config
	LLM          adkmodel.LLM
	Registry     *tools.Registry
	Agent        agent.Agent
	Orchestrator *service.Orchestrator
	Handler      *handler.Handler
	Router       chi.Router
}

// NewServer cria o cliente LLM, as ferramentas, os agentes e o orquestrador uma única vez.
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	m, err := llm.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewServerWithModel(cfg, m)
}

// NewServerWithModel monta todas as dependências sobre um modelo já existente.
func NewServerWithModel(cfg *config.Config, m adkmodel.LLM) (*Server, error) {
	registry := tools.NewDefaultRegistry()

	sup, err := agents.NewSupervisorWithRemote(m, registry, cfg.MCP)
	if err != nil {
		return nil, err
	}

	orch, err := service.NewOrchestrator(cfg.AppName, sup)
	if err != nil {
		return nil, err
	}

	s := &Server{
		Config:       cfg,
		LLM:          m,
		Registry:     registry,
		Agent:        sup,
		Orchestrator: orch,
		Handler:      handler.NewHandler(cfg, orch, registry, m),
	}
	s.SetupRouter()
	return s, nil
}

// SetupRouter configura as rotas e middlewares do Chi
func (s *Server) SetupRouter() {
	r := chi.NewRouter()
	h := s.Handler

	r.Use(middleware.RealIP)
	for _, mw := range logging.Middleware(log.Logger) {
		r.Use(mw)
	}
	r.Use(middleware.Recoverer)
	r.Use(cors.New(corsOptions(s.Config.Server.CORSAllowedOrigins)).Handler)

	r.Get("/", h.HandleRoot)
	r.Get("/health", h.HandleHealth)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	mcpServer := s.Registry.MCPServer(&mcp.Implementation{Name: s.Config.AppName, Version: version})
	r.Handle("/mcp", mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return mcpServer
	}, nil))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(s.Config.Server.RequestTimeout))

		r.Get("/health/llm", h.HandleLLMHealth)
		r.Get("/health/azure", h.HandleLLMHealth)
		r.Post("/chat", h.HandleChat)

		r.Route("/api", func(r chi.Router) {
			r.Get("/tools", h.HandleTools)
			r.Post("/tools/{name}", h.HandleInvokeTool)
		})
	})

	s.Router = r
}

// Start serve até ctx ser cancelado e então faz o graceful shutdown.
func (s *Server) Start(ctx context.Context) error {
	addr := s.Config.Server.Addr
	writeTimeout := s.Config.Server.RequestTimeout + 15*time.Second

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      s.Router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", addr).
			Str("provider", s.Config.Provider).
			Str("model", s.LLM.Name()).
			Str("agent", s.Agent.Name()).
			Msg("HTTP server started")
		log.Info().Msg("endpoints: GET / | GET /health | GET /health/llm | POST /chat | GET /api/tools | POST /api/tools/{name} | /mcp | GET /metrics")

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server failed: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Info().Msg("server stopped gracefully")
	return nil
}

// corsOptions reflete a origem da requisição quando "*" está configurado,
// pois navegadores rejeitam "*" literal em respostas com credenciais.
func corsOptions(origins []string) cors.Options {
	opts := cors.Options{
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}
	if lo.Contains(origins, "*") {
		opts.AllowOriginFunc = func(string) bool { return true }
	} else {
		opts.AllowedOrigins = origins
	}
	return opts
}
