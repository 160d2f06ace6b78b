package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/okian/playersim/internal/domain/model"
	"github.com/okian/playersim/pkg/logger"
)

// similarRequest is the validated form of a similarity request.
// Limit zero means the service default; the upper bound is the service's.
type similarRequest struct {
	PlayerID string `validate:"required,max=64,printascii"`
	Position string `validate:"required,oneof=QB RB WR TE"`
	Scope    string `validate:"required,oneof=season career"`
	Limit    int    `validate:"gte=0"`
	Season   int    `validate:"omitempty,gte=1900,lte=2200"`
}

// SimilarHandler serves GET /v1/players/{playerID}/similar.
type SimilarHandler struct {
	deps     Dependencies
	validate *validator.Validate
	logger   logger.Logger
}

// NewSimilarHandler creates the handler.
func NewSimilarHandler(deps Dependencies, l logger.Logger) *SimilarHandler {
	return &SimilarHandler{deps: deps, validate: validator.New(), logger: l}
}

// HandleGetSimilar answers one similarity query.
func (h *SimilarHandler) HandleGetSimilar(w http.ResponseWriter, r *http.Request) {
	req, err := h.parse(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	resp, err := h.deps.FindSimilar(r.Context(), model.Query{
		PlayerID: req.PlayerID,
		Position: model.Position(req.Position),
		Scope:    model.Scope(req.Scope),
		Limit:    req.Limit,
		Season:   req.Season,
	})
	if err != nil {
		status, code := statusFor(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error(r.Context(), "similarity query failed",
				logger.String("player_id", req.PlayerID),
				logger.Int("status", status),
				logger.Error(err))
		}
		writeError(w, status, code, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *SimilarHandler) parse(r *http.Request) (similarRequest, error) {
	q := r.URL.Query()
	req := similarRequest{
		PlayerID: chi.URLParam(r, "playerID"),
		Position: strings.ToUpper(strings.TrimSpace(q.Get("position"))),
		Scope:    strings.ToLower(strings.TrimSpace(q.Get("scope"))),
	}
	if req.Scope == "" {
		req.Scope = string(model.ScopeCareer)
	}
	var err error
	if req.Limit, err = intParam(q.Get("limit")); err != nil {
		return req, fmt.Errorf("%w: limit: %w", ErrBadRequest, err)
	}
	if req.Season, err = intParam(q.Get("season")); err != nil {
		return req, fmt.Errorf("%w: season: %w", ErrBadRequest, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return req, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return req, nil
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
