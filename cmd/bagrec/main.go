// Command bagrec 启动惊喜袋推荐 HTTP 服务。
//
// 配置按 默认值 -> YAML 文件（BAGREC_CONFIG 或 ./config.yaml）-> BAGREC_ 环境变量 加载，
// 启动前会读取当前目录的 .env 文件（如果存在）。
//
//	bagrec                # 启动服务
//	bagrec -seed          # 把 store.fixture_path 的夹具写入 Redis 后退出
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/rushteam/bagrec/config"
	"github.com/rushteam/bagrec/pkg/logging"
	"github.com/rushteam/bagrec/recommend"
	"github.com/rushteam/bagrec/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	seed := flag.Bool("seed", false, "write fixtures to redis and exit")
	flag.Parse()

	// .env 不存在时忽略
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "bagrec: %v\n", err)
		os.Exit(1)
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *seed {
		err = seedRedis(ctx, cfg)
	} else {
		err = run(ctx, cfg)
	}
	if err != nil {
		logger := logging.Component("main")
		logger.Error().Err(err).Msg("bagrec exited with error")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	logger := logging.Component("main")

	stores, err := buildStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer stores.Close()

	filters, err := buildFilters(cfg)
	if err != nil {
		return err
	}

	orch := recommend.New(stores.deps, recommend.Config{
		DefaultCount:  cfg.Recommend.DefaultCount,
		MaxCount:      cfg.Recommend.MaxCount,
		FallbackLimit: cfg.Recommend.FallbackLimit,
	},
		recommend.WithLogger(logging.Component("recommend")),
		recommend.WithFilters(filters...),
	)

	if stores.refresher != nil && stores.refresher.Interval > 0 {
		go stores.refresher.Run(ctx)
	}

	srv := server.New(orch, server.Options{
		DefaultRadiusKm: cfg.Recommend.DefaultRadiusKm,
		RequestTimeout:  cfg.Server.RequestTimeout,
		CORSOrigins:     cfg.Server.CORSOrigins,
		Ready:           stores.ready,
		Logger:          logging.Component("http"),
	})

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Handler(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", cfg.Server.Addr).
			Str("backend", cfg.Store.Backend).
			Bool("feast", cfg.Feast.Enabled).
			Msg("bagrec listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
