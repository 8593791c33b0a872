package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/cardex/internal/domain"
	"github.com/kailas-cloud/cardex/internal/domain/query"
	cataloguc "github.com/kailas-cloud/cardex/internal/usecase/catalog"
	chatuc "github.com/kailas-cloud/cardex/internal/usecase/chat"
	healthuc "github.com/kailas-cloud/cardex/internal/usecase/health"
	suggestuc "github.com/kailas-cloud/cardex/internal/usecase/suggest"
)

// API error codes returned in JSON error bodies.
const (
	codeBadRequest        = "bad_request"
	codeNotFound          = "not_found"
	codeChatNotConfigured = "chat_not_configured"
	codeChatProviderError = "chat_provider_error"
	codeInternalError     = "internal_error"
)

// errorResponse is the JSON error body for every non-2xx response.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server is the HTTP API for the card catalog.
type Server struct {
	catalog       *cataloguc.Service
	suggest       *suggestuc.Service
	chat          *chatuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	catalog *cataloguc.Service,
	suggest *suggestuc.Service,
	chat *chatuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		catalog: catalog,
		suggest: suggest,
		chat:    chat,
		health:  health,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrInvalidMessages, http.StatusBadRequest, codeBadRequest),
		sentinelHandler(domain.ErrChatNotConfigured, http.StatusInternalServerError, codeChatNotConfigured),
		sentinelHandler(domain.ErrChatProviderError, http.StatusBadGateway, codeChatProviderError),
	}
	return s
}

// Routes registers all API routes on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/api/cards", s.ListCards)
	r.Get("/api/cards/featured", s.FeaturedCards)
	r.Get("/api/cards/{slug}", s.GetCard)
	r.Get("/api/cards/{slug}/similar", s.SimilarCards)
	r.Get("/api/compare", s.CompareCards)
	r.Get("/api/search", s.SearchCards)
	r.Post("/api/chat", s.Chat)
	r.Get("/healthz", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// listResponse is the GET /api/cards body.
type listResponse struct {
	Cards      []domain.Card `json:"cards"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	TotalPages int           `json:"totalPages"`
	Issuers    []string      `json:"issuers"`
}

// ListCards handles GET /api/cards.
func (s *Server) ListCards(w http.ResponseWriter, r *http.Request) {
	page, err := s.catalog.List(r.Context(), queryFromParams(r))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{
		Cards:      emptyIfNil(page.Cards),
		Total:      page.Total,
		Page:       page.Page,
		TotalPages: page.TotalPages,
		Issuers:    page.Issuers,
	})
}

// queryFromParams builds a listing query from URL parameters. Unknown or
// malformed values are dropped; page and limit are coerced downstream.
func queryFromParams(r *http.Request) query.Query {
	params := r.URL.Query()

	q := query.Query{
		CardType:    params.Get("type"),
		Network:     params.Get("network"),
		Issuer:      params.Get("issuer"),
		RewardsType: params.Get("rewardsType"),
		Search:      params.Get("search"),
		MinFee:      parseFloatParam(params.Get("minFee")),
		MaxFee:      parseFloatParam(params.Get("maxFee")),
	}

	if sort := query.Sort(params.Get("sort")); sort.IsValid() {
		q.Sort = sort
	}
	if page, err := strconv.Atoi(params.Get("page")); err == nil {
		q.Page = page
	}
	if limit, err := strconv.Atoi(params.Get("limit")); err == nil {
		q.Limit = limit
	}

	return q
}

func parseFloatParam(raw string) *float64 {
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &f
}

// cardsResponse is the body for the selection endpoints.
type cardsResponse struct {
	Cards []domain.Card `json:"cards"`
}

// FeaturedCards handles GET /api/cards/featured.
func (s *Server) FeaturedCards(w http.ResponseWriter, r *http.Request) {
	cards, err := s.catalog.Featured(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cardsResponse{Cards: emptyIfNil(cards)})
}

// GetCard handles GET /api/cards/{slug}.
func (s *Server) GetCard(w http.ResponseWriter, r *http.Request) {
	card, err := s.catalog.Get(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

// SimilarCards handles GET /api/cards/{slug}/similar.
func (s *Server) SimilarCards(w http.ResponseWriter, r *http.Request) {
	cards, err := s.catalog.Similar(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cardsResponse{Cards: emptyIfNil(cards)})
}

// CompareCards handles GET /api/compare?ids=a,b,c.
func (s *Server) CompareCards(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("ids")
	if raw == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, "ids parameter is required")
		return
	}

	ids := make([]string, 0)
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}

	cards, err := s.catalog.Compare(r.Context(), ids)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cardsResponse{Cards: emptyIfNil(cards)})
}

// searchResponse is the GET /api/search body.
type searchResponse struct {
	Results []domain.Card `json:"results"`
}

// SearchCards handles GET /api/search?q=.
func (s *Server) SearchCards(w http.ResponseWriter, r *http.Request) {
	results, err := s.suggest.Suggest(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResponse{Results: emptyIfNil(results)})
}

// chatRequest is the POST /api/chat body.
type chatRequest struct {
	Messages []domain.ChatMessage `json:"messages"`
}

// Chat handles POST /api/chat. The completion streams back as server-sent
// events: one `data: {"content": ...}` chunk per delta, then `data: [DONE]`.
// Errors after the stream has started are delivered as a `data: {"error":
// ...}` event; everything the client already received stays delivered.
func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Messages) == 0 {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Messages array required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, codeInternalError, "streaming unsupported")
		return
	}

	streaming := false
	err := s.chat.Stream(r.Context(), req.Messages, func(delta string) error {
		if !streaming {
			startEventStream(w)
			streaming = true
		}
		if err := writeSSEChunk(w, sseChunk{Content: delta}); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	})

	if err != nil {
		if !streaming {
			s.handleDomainError(w, err)
			return
		}
		// Headers are gone; the best we can do is an in-band error event.
		s.logger.Warn("chat stream aborted", zap.Error(err))
		_ = writeSSEChunk(w, sseChunk{Error: "Stream error"})
		flusher.Flush()
		return
	}

	if !streaming {
		startEventStream(w)
	}
	_, _ = w.Write([]byte("data: [DONE]\n\n"))
	flusher.Flush()
}

// sseChunk is one chat stream event payload.
type sseChunk struct {
	Content string `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
}

func startEventStream(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
}

func writeSSEChunk(w http.ResponseWriter, chunk sseChunk) error {
	data, err := json.Marshal(chunk)
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte("data: " + string(data) + "\n\n")); err != nil {
		return err
	}
	return nil
}

// HealthCheck handles GET /healthz.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// emptyIfNil keeps list fields serializing as [] rather than null.
func emptyIfNil(cards []domain.Card) []domain.Card {
	if cards == nil {
		return []domain.Card{}
	}
	return cards
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrInvalidMessages,
		domain.ErrChatNotConfigured,
		domain.ErrChatProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
