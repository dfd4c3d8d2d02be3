package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/rs/zerolog/hlog"
	adkmodel "google.golang.org/adk/model"

	"github.com/vitormoschetta/travel-supervisor/internal/config"
	"github.com/vitormoschetta/travel-supervisor/internal/llm"
	"github.com/vitormoschetta/travel-supervisor/internal/metrics"
	"github.com/vitormoschetta/travel-supervisor/internal/model"
	"github.com/vitormoschetta/travel-supervisor/internal/service"
	"github.com/vitormoschetta/travel-supervisor/internal/tools"
)

const probeTimeout = 30 * time.Second

// Handler contém as dependências necessárias para os handlers HTTP
type Handler struct {
	invoker  service.Invoker
	registry *tools.Registry
	llm      adkmodel.LLM
	cfg      *config.Config
	validate *validator.Validate
}

func NewHandler(cfg *config.Config, invoker service.Invoker, registry *tools.Registry, m adkmodel.LLM) *Handler {
	v, err := newValidator()
	if err != nil {
		panic(err)
	}

	return &Handler{
		invoker:  invoker,
		registry: registry,
		llm:      m,
		cfg:      cfg,
		validate: v,
	}
}

func newValidator() (*validator.Validate, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		return nil, fmt.Errorf("failed to register notblank validation: %w", err)
	}
	return v, nil
}

// HandleRoot informa que a API está no ar.
func (h *Handler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Chatbot API is running"})
}

func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// HandleLLMHealth retorna a configuração do provedor e se uma chamada
// simples de completion funciona.
func (h *Handler) HandleLLMHealth(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{"config": h.cfg.Diagnostics()}

	ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
	defer cancel()

	if err := llm.Probe(ctx, h.llm); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("LLM health probe failed")
		body["status"] = "unhealthy"
		body["error"] = err.Error()
		writeJSON(w, http.StatusServiceUnavailable, body)
		return
	}

	body["status"] = "healthy"
	writeJSON(w, http.StatusOK, body)
}

// HandleChat processa a conversa pelo supervisor.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	logger := hlog.FromRequest(r)
	defer r.Body.Close()

	var req model.ChatMessage
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn().Err(err).Msg("invalid chat body")
		metrics.ChatRequests.WithLabelValues("invalid").Inc()
		writeJSON(w, http.StatusUnprocessableEntity, model.ErrorResponse{Detail: "Invalid JSON body: " + err.Error()})
		return
	}
	if err := h.validate.Struct(req); err != nil {
		metrics.ChatRequests.WithLabelValues("invalid").Inc()
		writeJSON(w, http.StatusUnprocessableEntity, model.ErrorResponse{Detail: validationDetail(err)})
		return
	}

	logger.Info().Int("history", len(req.History)).Msg("processing chat message")

	start := time.Now()
	resp, err := h.invoker.Invoke(r.Context(), model.BuildMessages(req))
	metrics.ChatDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		logger.Error().Err(err).Fields(h.cfg.Diagnostics()).Msg("chat failed")
		metrics.ChatRequests.WithLabelValues("error").Inc()

		detail := "Error processing request"
		if h.cfg.Server.ExposeErrorDetails {
			detail += ": " + err.Error()
		}
		writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{Detail: detail})
		return
	}

	metrics.ChatRequests.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, model.ChatResponse{Response: resp, Success: true})
}

// HandleTools lista as ferramentas registradas com seus schemas de parâmetros.
func (h *Handler) HandleTools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"tools": h.registry.List()})
}

// HandleInvokeTool chama uma ferramenta diretamente usando o corpo da
// requisição como argumentos.
func (h *Handler) HandleInvokeTool(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	name := chi.URLParam(r, "name")

	args, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Detail: "failed to read body"})
		return
	}

	res, err := h.registry.Invoke(r.Context(), name, args)
	if errors.Is(err, tools.ErrUnknownTool) {
		writeJSON(w, http.StatusNotFound, model.ErrorResponse{Detail: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func validationDetail(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return "field " + fe.Field() + " failed on the '" + fe.Tag() + "' rule"
	}
	return err.Error()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
