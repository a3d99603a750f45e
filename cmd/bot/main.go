package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	tele "gopkg.in/telebot.v3"

	"github.com/selam-school/result-bot/internal/handler"
	"github.com/selam-school/result-bot/internal/repository"
	"github.com/selam-school/result-bot/internal/service"
	"github.com/selam-school/result-bot/pkg/cache"
	"github.com/selam-school/result-bot/pkg/config"
	"github.com/selam-school/result-bot/pkg/export"
	"github.com/selam-school/result-bot/pkg/jobs"
	"github.com/selam-school/result-bot/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	identityRepo, err := repository.NewIdentityRepository(cfg.State.Dir, logr)
	if err != nil {
		logr.Sugar().Fatalw("identity store init failed", "error", err)
	}
	auditRepo, err := repository.NewAuditRepository(cfg.State.Dir)
	if err != nil {
		logr.Sugar().Fatalw("audit trail init failed", "error", err)
	}

	cacheRepo := repository.NewCacheRepository(nil, logr)
	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(context.Background(), cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, result cache disabled", "error", err)
		} else {
			cacheRepo = repository.NewCacheRepository(client, logr)
			defer client.Close() //nolint:errcheck
		}
	}

	metrics := service.NewMetricsService()
	auditSvc := service.NewAuditService(auditRepo, logr, jobs.QueueConfig{})

	pins := service.NewPINService(cfg.Registration.PINMaxAttempts)
	validate := validator.New()
	registrations := service.NewRegistrationService(identityRepo, pins, auditSvc, metrics, validate, logr, cfg.Registration.PendingTTL)
	sessions := service.NewSessionService(identityRepo, auditSvc, logr)

	sheets := repository.NewSheetRepository(cfg.Data.Dir, logr)
	results := service.NewResultService(sheets, cacheRepo, cfg.Cache.TTL, metrics, logr)
	dedup := service.NewCallbackDedup(cfg.Callbacks.DedupWindow)

	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.Bot.Token,
		Poller: &tele.LongPoller{Timeout: cfg.Bot.PollTimeout},
		OnError: func(err error, c tele.Context) {
			logr.Sugar().Errorw("unhandled update error", "error", err)
		},
	})
	if err != nil {
		logr.Sugar().Fatalw("bot init failed", "error", err)
	}

	sender := handler.NewSender(cfg.Bot.SendRetries, metrics, logr)
	exporter := export.NewPDFExporter()
	handler.NewCommandHandler(sessions, registrations, results, exporter, sender, metrics, logr).Register(bot)
	handler.NewCallbackHandler(dedup, sessions, registrations, results, sender, metrics, logr).Register(bot)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	auditSvc.Start(ctx)
	defer auditSvc.Stop()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.GinMiddleware(logr))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	ops := &http.Server{Addr: fmt.Sprintf(":%d", cfg.OpsPort), Handler: r}
	go func() {
		logr.Sugar().Infow("ops server starting", "addr", ops.Addr)
		if err := ops.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Errorw("ops server failed", "error", err)
		}
	}()

	go func() {
		logr.Sugar().Infow("bot starting", "env", cfg.Env)
		bot.Start()
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	bot.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := ops.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Warnw("ops server shutdown", "error", err)
	}
}
