package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pracsphere/pracsphere/modules/notifications"
	"github.com/pracsphere/pracsphere/pkg/config"
	"github.com/pracsphere/pracsphere/pkg/email"
	"github.com/pracsphere/pracsphere/pkg/httpserver"
	"github.com/pracsphere/pracsphere/pkg/logger"
	"github.com/pracsphere/pracsphere/pkg/mongo"
	"github.com/pracsphere/pracsphere/pkg/requestid"
	"github.com/pracsphere/pracsphere/svc/notifier"
)

type appConfig struct {
	AppBaseURL               string `env:"APP_BASE_URL" envDefault:"http://localhost:3000"`
	SchedulerAutostart       bool   `env:"SCHEDULER_AUTOSTART" envDefault:"true"`
	SchedulerIntervalMinutes int    `env:"SCHEDULER_INTERVAL_MINUTES" envDefault:"60"`
	EmailDevDir              string `env:"EMAIL_DEV_DIR" envDefault:"tmp/emails"`
}

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("server exited", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var (
		appCfg    appConfig
		logCfg    logger.Config
		mongoCfg  mongo.Config
		emailCfg  email.Config
		httpCfg   httpserver.Config
		moduleCfg notifications.Config
	)
	config.MustLoad(&appCfg)
	config.MustLoad(&logCfg)
	config.MustLoad(&mongoCfg)
	config.MustLoad(&emailCfg)
	config.MustLoad(&httpCfg)
	config.MustLoad(&moduleCfg)

	log := logger.NewFromConfig(logCfg, logger.WithService("pracsphere"))
	slog.SetDefault(log)

	db, err := mongo.NewWithDatabase(ctx, mongoCfg)
	if err != nil {
		return fmt.Errorf("connect to mongodb: %w", err)
	}
	defer func() {
		if err := db.Client().Disconnect(context.Background()); err != nil {
			log.Error("failed to disconnect from mongodb", logger.Error(err))
		}
	}()

	sender, err := newSender(emailCfg, appCfg, log)
	if err != nil {
		return fmt.Errorf("configure email sender: %w", err)
	}

	storage := notifier.NewMongoStorage(db)
	dispatcher := notifier.NewEmailDispatcher(sender, tasksURL(appCfg.AppBaseURL))

	ctrl, err := notifier.New(storage, storage, dispatcher, notifier.WithLogger(log))
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}
	if appCfg.SchedulerAutostart {
		st := ctrl.Start(appCfg.SchedulerIntervalMinutes)
		log.Info("scheduler autostarted", slog.Int("interval_minutes", st.IntervalMinutes))
	}
	defer ctrl.Stop()

	module := notifications.NewService(moduleCfg, ctrl, sender, log)

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(middleware.Recoverer)
	r.Get("/health", httpserver.HealthCheckHandler(ctx, log, mongo.Healthcheck(db.Client())))
	r.Mount("/api", module.Handle())

	srv := httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log))
	if err := srv.Run(ctx, r); err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// newSender picks Postmark when a server token is configured and falls
// back to writing emails to disk for local development.
func newSender(cfg email.Config, app appConfig, log *slog.Logger) (email.EmailSender, error) {
	if cfg.PostmarkServerToken != "" {
		return email.NewPostmarkClient(cfg)
	}
	log.Warn("postmark token not set, using dev email sender", slog.String("dir", app.EmailDevDir))
	return email.NewDevSender(app.EmailDevDir), nil
}

func tasksURL(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + "/tasks"
}
