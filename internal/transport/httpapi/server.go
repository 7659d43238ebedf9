// Package httpapi exposes the retrieval and recommendation surface over
// chi-routed JSON endpoints.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mirae-commerce/shopdex/internal/domain"
	"github.com/mirae-commerce/shopdex/internal/metrics"
	healthuc "github.com/mirae-commerce/shopdex/internal/usecase/health"
)

// maxHistoryTurns bounds the transcript a chat request may carry.
const maxHistoryTurns = 100

// unavailableNotice is shown to browsing users when the index is unreachable.
// Search degrades to an empty page instead of an error page.
const unavailableNotice = "Product search is temporarily unavailable. Please try again in a moment."

// Server hosts the JSON API over the retrieval and recommendation usecases.
type Server struct {
	retriever   Retriever
	recommender Recommender
	health      *healthuc.Service
	maxResults  int
	logger      *zap.Logger
}

// NewServer creates an HTTP API server. maxResults caps the top parameter of
// the browse and search endpoints.
func NewServer(
	retriever Retriever,
	recommender Recommender,
	health *healthuc.Service,
	maxResults int,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		retriever:   retriever,
		recommender: recommender,
		health:      health,
		maxResults:  maxResults,
		logger:      logger,
	}
}

// Router assembles the chi router with middleware and all routes.
func (s *Server) Router(apiKeys []string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(s.requestLog)
	r.Use(metrics.Middleware())
	r.Use(BearerAuthMiddleware(apiKeys))

	r.Get("/health", s.handleHealth)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", s.handleProducts)
		r.Get("/search", s.handleSearch)
		r.Post("/chat", s.handleChat)
	})

	return r
}

type productListResponse struct {
	Items  []domain.ProductRecord `json:"items"`
	Notice string                 `json:"notice,omitempty"`
}

type chatRequest struct {
	Message string            `json:"message"`
	History []domain.ChatTurn `json:"history"`
}

type chatResponse struct {
	Message string                `json:"message"`
	Product *domain.ProductRecord `json:"product,omitempty"`
}

// handleProducts handles GET /api/products.
func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	top := s.topParam(r)

	items, err := s.retriever.ListAll(r.Context(), top)
	if err != nil {
		s.logger.Warn("product listing failed", zap.Error(err))
		writeJSON(w, http.StatusOK, productListResponse{
			Items:  []domain.ProductRecord{},
			Notice: unavailableNotice,
		})
		return
	}

	writeJSON(w, http.StatusOK, productListResponse{Items: items})
}

// handleSearch handles GET /api/search. Bad parameters are the caller's
// fault and get a 400; a failing backend degrades to an empty result page.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}

	strategy := domain.StrategyHybrid
	if raw := r.URL.Query().Get("strategy"); raw != "" {
		parsed, err := domain.ParseStrategy(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "unknown strategy "+strconv.Quote(raw))
			return
		}
		strategy = parsed
	}

	var fields []string
	if raw := r.URL.Query().Get("fields"); raw != "" {
		for _, f := range strings.Split(raw, ",") {
			if f = strings.TrimSpace(f); f != "" {
				fields = append(fields, f)
			}
		}
	}

	items, err := s.retriever.Retrieve(r.Context(), domain.QuerySpec{
		Text:     q,
		Strategy: strategy,
		Fields:   fields,
		TopK:     s.topParam(r),
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidQuery) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Warn("search failed",
			zap.String("strategy", string(strategy)), zap.Error(err))
		writeJSON(w, http.StatusOK, productListResponse{
			Items:  []domain.ProductRecord{},
			Notice: unavailableNotice,
		})
		return
	}

	writeJSON(w, http.StatusOK, productListResponse{Items: items})
}

// handleChat handles POST /api/chat. The recommender degrades internally, so
// a well-formed request always gets a 200 with an assistant message.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}
	if len(req.History) > maxHistoryTurns {
		writeError(w, http.StatusBadRequest,
			"history must not exceed "+strconv.Itoa(maxHistoryTurns)+" turns")
		return
	}

	history := append(req.History, domain.ChatTurn{
		Role:    domain.RoleUser,
		Content: req.Message,
	})
	rec := s.recommender.Recommend(r.Context(), req.Message, history)

	writeJSON(w, http.StatusOK, chatResponse{
		Message: rec.Message,
		Product: rec.Product,
	})
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}

// requestLog emits one canonical log line per request.
func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Info("http_request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.Int("response_bytes", ww.BytesWritten()),
		)
	})
}

// topParam reads the top query parameter, clamped to [1, maxResults].
// Absent or malformed values fall back to maxResults.
func (s *Server) topParam(r *http.Request) int {
	raw := r.URL.Query().Get("top")
	if raw == "" {
		return s.maxResults
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 || n > s.maxResults {
		return s.maxResults
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
