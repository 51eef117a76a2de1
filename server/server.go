// Package server 提供推荐服务的 HTTP 接口。
//
// 路由基于 chi：
//
//	GET  /                          服务信息
//	POST /recommendations/for-you   个性化推荐
//	GET  /recommendations/nearby    附近推荐（lat、lng 必填，radius 可选）
//	GET  /recommendations/trending  趋势推荐
//	GET  /recommendations/popular   热门推荐
//	GET  /healthz                   健康检查
//	GET  /metrics                   Prometheus 指标
//
// 降级链耗尽时返回 503，请求参数校验失败返回 422。
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/rushteam/bagrec/core"
	"github.com/rushteam/bagrec/recommend"
)

// Recommender 是 HTTP 层依赖的推荐能力，*recommend.Orchestrator 实现了它。
type Recommender interface {
	Recommend(ctx context.Context, rctx *core.RecommendContext) (*recommend.Result, error)
}

// Options 是 Server 的参数。
type Options struct {
	// DefaultRadiusKm 附近推荐未指定 radius 时使用
	DefaultRadiusKm float64
	// RequestTimeout 单个请求的处理超时，0 表示不限制
	RequestTimeout time.Duration
	CORSOrigins    []string
	// Ready 供 /healthz 判断服务是否可用，为 nil 时总是可用
	Ready  func(ctx context.Context) error
	Logger zerolog.Logger
}

// Server 持有路由与处理函数。
type Server struct {
	rec    Recommender
	opts   Options
	logger zerolog.Logger
	router chi.Router
}

// New 创建 Server 并注册路由。
//
//nolint:gocritic // Options 按值传递
func New(rec Recommender, opts Options) *Server {
	if opts.DefaultRadiusKm <= 0 {
		opts.DefaultRadiusKm = 5.0
	}
	s := &Server{rec: rec, opts: opts, logger: opts.Logger}
	s.router = s.routes()
	return s
}

// Handler 返回根 http.Handler。
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestID)
	r.Use(s.accessLog)
	r.Use(metricsMiddleware)
	if len(s.opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.opts.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
			ExposedHeaders: []string{requestIDHeader, degradedHeader},
			MaxAge:         300,
		}))
	}

	r.Get("/", s.handleRoot)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/recommendations", func(r chi.Router) {
		r.Use(timeout(s.opts.RequestTimeout))
		r.Post("/for-you", s.handleForYou)
		r.Get("/nearby", s.handleNearby)
		r.Get("/trending", s.handleTrending)
		r.Get("/popular", s.handlePopular)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, "not_found", "resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})
	return r
}
