package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/rushteam/bagrec/core"
	"github.com/rushteam/bagrec/pkg/logging"
	"github.com/rushteam/bagrec/pkg/validation"
)

const maxBodyBytes = 1 << 20

type location struct {
	Lat *float64 `json:"lat" validate:"required,latitude"`
	Lng *float64 `json:"lng" validate:"required,longitude"`
}

// forYouRequest 是个性化推荐的请求体。偏好字段目前只透传给规则过滤器（rctx.params）。
type forYouRequest struct {
	UserID             string    `json:"user_id" validate:"required"`
	DietaryPreferences []string  `json:"dietary_preferences"`
	FavoriteCuisines   []string  `json:"favorite_cuisines"`
	FavoriteVendors    []string  `json:"favorite_vendors"`
	PastOrders         []string  `json:"past_orders"`
	Location           *location `json:"location"`
	Count              int       `json:"count" validate:"gte=0"`
}

func (req *forYouRequest) params() map[string]any {
	p := map[string]any{
		"dietary_preferences": nonNil(req.DietaryPreferences),
		"favorite_cuisines":   nonNil(req.FavoriteCuisines),
		"favorite_vendors":    nonNil(req.FavoriteVendors),
		"past_orders":         nonNil(req.PastOrders),
	}
	if req.Location != nil {
		p["location"] = map[string]any{"lat": *req.Location.Lat, "lng": *req.Location.Lng}
	}
	return p
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

type nearbyQuery struct {
	Lat    *float64 `validate:"required,latitude"`
	Lng    *float64 `validate:"required,longitude"`
	Radius float64
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"message": "ChopNow Recommendation Engine API"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.opts.Ready != nil {
		if err := s.opts.Ready(r.Context()); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "message": err.Error()})
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleForYou(w http.ResponseWriter, r *http.Request) {
	var req forYouRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "invalid_body", fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if !s.valid(w, &req) {
		return
	}

	s.recommend(w, r, &core.RecommendContext{
		Strategy: core.StrategyPersonalized,
		UserID:   req.UserID,
		Count:    req.Count,
		Params:   req.params(),
	})
}

func (s *Server) handleNearby(w http.ResponseWriter, r *http.Request) {
	q, err := s.parseNearby(r)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "invalid_query", err.Error())
		return
	}
	if !s.valid(w, q) {
		return
	}

	s.recommend(w, r, &core.RecommendContext{
		Strategy: core.StrategyNearby,
		Point:    core.Coordinate{Lat: *q.Lat, Lng: *q.Lng},
		RadiusKm: q.Radius,
	})
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	s.recommend(w, r, &core.RecommendContext{Strategy: core.StrategyTrending})
}

func (s *Server) handlePopular(w http.ResponseWriter, r *http.Request) {
	s.recommend(w, r, &core.RecommendContext{Strategy: core.StrategyPopular})
}

func (s *Server) parseNearby(r *http.Request) (*nearbyQuery, error) {
	values := r.URL.Query()
	q := &nearbyQuery{Radius: s.opts.DefaultRadiusKm}

	for _, p := range []struct {
		name string
		dst  **float64
	}{
		{"lat", &q.Lat},
		{"lng", &q.Lng},
	} {
		raw := values.Get(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%s must be a number", p.name)
		}
		*p.dst = &v
	}

	if raw := values.Get("radius"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.New("radius must be a number")
		}
		q.Radius = v
	}
	return q, nil
}

func (s *Server) valid(w http.ResponseWriter, v any) bool {
	err := validation.Struct(v)
	if err == nil {
		return true
	}
	var verr *validation.Error
	if errors.As(err, &verr) {
		respondValidation(w, verr)
		return false
	}
	respondError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
	return false
}

func (s *Server) recommend(w http.ResponseWriter, r *http.Request, rctx *core.RecommendContext) {
	ctx := r.Context()
	res, err := s.rec.Recommend(ctx, rctx)
	if err != nil {
		status, code := errorStatus(err)
		logger := logging.Ctx(ctx)
		logger.Error().Err(err).Str("strategy", string(rctx.Strategy)).Int("status", status).Msg("recommendation failed")
		respondError(w, status, code, err.Error())
		return
	}
	if res.Degraded() {
		w.Header().Set(degradedHeader, string(res.RequestedType))
	}
	respondJSON(w, http.StatusOK, res)
}

func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, core.ErrEmptyCatalog), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, "recommendations_unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "recommendations_timeout"
	case errors.Is(err, core.ErrInvalidInput):
		return http.StatusUnprocessableEntity, "invalid_request"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
