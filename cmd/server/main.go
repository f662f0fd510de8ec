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

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"talleres-api/config"
	"talleres-api/internal/api/handler"
	"talleres-api/internal/api/middleware"
	"talleres-api/internal/api/router"
	"talleres-api/internal/metrics"
	"talleres-api/internal/repository"
	"talleres-api/internal/service"
	"talleres-api/pkg/database"
	"talleres-api/pkg/jwt"
	applogger "talleres-api/pkg/logger"
	"talleres-api/pkg/mail"
	"talleres-api/pkg/redis"
	"talleres-api/pkg/validation"
)

// version 构建时通过 -ldflags "-X main.version=..." 注入
var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "", "配置文件路径（默认查找 ./config/config.yaml）")
	migrateOnly := flag.Bool("migrate-only", false, "仅执行数据库迁移后退出")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, *migrateOnly); err != nil {
		logger.Error("服务异常退出", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger, migrateOnly bool) error {
	logger.Info("talleres-api 启动",
		zap.String("version", version),
		zap.Int("port", cfg.Server.Port),
		zap.Bool("migrate_only", migrateOnly),
	)

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		return err
	}
	defer database.Close(db, logger)

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		return err
	}
	if migrateOnly {
		return nil
	}

	if err := validation.Register(); err != nil {
		return fmt.Errorf("注册校验规则失败: %w", err)
	}
	metrics.Init(version)

	// Redis 不可用时降级运行：黑名单与限流放行
	var (
		blacklist   service.TokenBlacklist
		tokenCheck  middleware.TokenBlacklist
		rateLimiter middleware.RateLimiter
	)
	if rdb, err := redis.NewClient(&cfg.Redis, logger); err != nil {
		logger.Warn("Redis 不可用，Token 黑名单与限流已停用", zap.Error(err))
	} else {
		defer func() {
			if err := rdb.Close(); err != nil {
				logger.Warn("关闭 Redis 连接失败", zap.Error(err))
			}
		}()
		blacklist, tokenCheck, rateLimiter = rdb, rdb, rdb
	}

	jwtMgr := jwt.NewManager(&cfg.Auth)
	mailer := mail.NewMailer(&cfg.Mail, cfg.Server.BaseURL, logger)

	repo := repository.NewRepository(db, cfg.Database.QueryTimeout)
	svc := service.NewService(cfg, repo, jwtMgr, blacklist, mailer, logger)
	h := handler.NewHandler(svc, repo)

	srv := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router.Setup(cfg, h, router.Deps{
			JWT:       jwtMgr,
			Blacklist: tokenCheck,
			Limiter:   rateLimiter,
			Logger:    logger,
		}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      45 * time.Second, // 大于 query_timeout
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		metrics.NewDBCollector(repo).Start(gctx, 15*time.Second)
		return nil
	})
	g.Go(func() error {
		logger.Info("HTTP 服务已监听", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP 服务异常: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("开始优雅关闭")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("服务已关闭")
	return nil
}
