// Command server runs the learning platform HTTP API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/acme/autocert"

	"github.com/iliyamo/learning-platform/internal/config"
	"github.com/iliyamo/learning-platform/internal/database"
	"github.com/iliyamo/learning-platform/internal/handler"
	"github.com/iliyamo/learning-platform/internal/jobs"
	"github.com/iliyamo/learning-platform/internal/logger"
	"github.com/iliyamo/learning-platform/internal/mail"
	"github.com/iliyamo/learning-platform/internal/middleware"
	"github.com/iliyamo/learning-platform/internal/notify"
	"github.com/iliyamo/learning-platform/internal/payment"
	"github.com/iliyamo/learning-platform/internal/queue"
	"github.com/iliyamo/learning-platform/internal/repository"
	"github.com/iliyamo/learning-platform/internal/router"
	"github.com/iliyamo/learning-platform/internal/service"
	"github.com/iliyamo/learning-platform/internal/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := zerolog.New(os.Stderr)
		l.Fatal().Err(err).Msg("load config")
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	defer db.Close()
	if err := database.MigrateUp(db); err != nil {
		log.Fatal().Err(err).Msg("apply migrations")
	}

	users := repository.NewUserRepo(db)
	courses := repository.NewCourseRepo(db)
	lessons := repository.NewLessonRepo(db)
	subs := repository.NewSubscriptionRepo(db)
	payments := repository.NewPaymentRepo(db)

	gw, err := payment.FromConfig(cfg.Payment)
	if err != nil {
		log.Fatal().Err(err).Msg("payment gateway")
	}

	sender, closeMail := mailSender(ctx, cfg.Mail, log)
	defer closeMail()
	dispatcher := notify.NewDispatcher(subs, sender, log)

	courseSvc := service.NewCourseService(courses, lessons, subs, dispatcher)
	lessonSvc := service.NewLessonService(lessons, courses, dispatcher)
	subSvc := service.NewSubscriptionService(subs, courses)
	paySvc := service.NewPaymentService(payments, courses, gw, cfg.Payment.Timeout, log)

	// Redis is optional: without it the limiter and the cache pass through
	rdb, err := config.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, caching and rate limiting disabled")
		rdb = nil
	} else {
		defer rdb.Close()
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = validation.New()
	e.HTTPErrorHandler = handler.ErrorHandler
	e.Use(middleware.RequestID(), middleware.RequestLogger(log))

	router.RegisterRoutes(e, db)
	v1 := router.Protected(e, router.Auth{
		JWTSecret: cfg.Auth.JWTSecret,
		Users:     users,
		Redis:     rdb,
		Cache:     cfg.Cache,
		RateLimit: cfg.RateLimit,
		Log:       log,
	})
	router.RegisterContent(v1, &handler.CourseHandler{Courses: courseSvc}, &handler.LessonHandler{Lessons: lessonSvc})
	router.RegisterBilling(v1, &handler.SubscriptionHandler{Subscriptions: subSvc}, &handler.PaymentHandler{Payments: paySvc})

	jobsMgr := jobs.NewManager(paySvc, cfg.Reconcile, log)
	if err := jobsMgr.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("start jobs")
	}
	defer jobsMgr.Stop()

	go func() {
		var err error
		if len(cfg.TLS.Hosts) > 0 {
			e.AutoTLSManager.HostPolicy = autocert.HostWhitelist(cfg.TLS.Hosts...)
			e.AutoTLSManager.Cache = autocert.DirCache(cfg.TLS.CacheDir)
			log.Info().Strs("hosts", cfg.TLS.Hosts).Str("env", cfg.Env).Msg("listening on :443")
			err = e.StartAutoTLS(":443")
		} else {
			addr := ":" + cfg.Port
			log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
			err = e.Start(addr)
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// mailSender builds the notification transport.  With the queue transport
// notices are published to RabbitMQ and a consumer in this process relays
// them to SMTP; the returned func releases whatever was opened.
func mailSender(ctx context.Context, cfg config.MailConfig, log zerolog.Logger) (mail.Sender, func()) {
	smtpSender := mail.NewSMTPSender(mail.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPass,
		From:     cfg.From,
	})
	switch cfg.Transport {
	case "smtp":
		return smtpSender, func() {}
	case "queue":
		pub := queue.NewPublisher(cfg.AMQPURL, cfg.Queue, log)
		consumer := queue.NewConsumer(cfg.AMQPURL, cfg.Queue, smtpSender, log)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("mail consumer stopped")
			}
		}()
		return pub, func() { _ = pub.Close() }
	default:
		return mail.LogSender{Log: log.With().Str("component", "mail").Logger()}, func() {}
	}
}
