package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/rahul4469/review-sentiment/internal/config"
	"github.com/rahul4469/review-sentiment/internal/controllers"
	"github.com/rahul4469/review-sentiment/internal/logging"
	"github.com/rahul4469/review-sentiment/internal/middleware"
	"github.com/rahul4469/review-sentiment/internal/models"
	"github.com/rahul4469/review-sentiment/internal/services"
	"github.com/rahul4469/review-sentiment/internal/views"
	"github.com/rahul4469/review-sentiment/migrations"
	"github.com/rahul4469/review-sentiment/templates"
)

func main() {
	cfg := config.MustLoad()
	logger := logging.InitLogger(cfg.LogLevel, cfg.IsDevelopment())

	if err := run(cfg, logger); err != nil {
		slog.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

// stores are the persistence backends picked at startup.
type stores struct {
	analyses models.AnalysisStore
	visitors models.VisitorStore
	checks   []controllers.HealthCheck
	close    func()
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	if cfg.Database.URL == "" {
		slog.Warn("DATABASE_URL not set, history is kept in memory")
		return &stores{
			analyses: models.NewMemoryAnalysisStore(),
			visitors: models.NewMemoryVisitorStore(),
			close:    func() {},
		}, nil
	}

	slog.Info("connecting to database")
	db, err := models.NewDatabase(ctx, models.DefaultDatabaseConfig(cfg.Database.URL))
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(migrations.FS, "."); err != nil {
		db.Close()
		return nil, err
	}
	slog.Info("database ready")

	return &stores{
		analyses: models.NewAnalysisService(db.Pool),
		visitors: models.NewVisitorService(db.Pool),
		checks:   []controllers.HealthCheck{{Name: "database", Check: db.Health}},
		close:    db.Close,
	}, nil
}

// newAnalyzer builds the configured backend, wrapped by the result cache
// when Valkey is configured.
func newAnalyzer(ctx context.Context, cfg *config.Config) (services.Analyzer, []controllers.HealthCheck, func(), error) {
	var analyzer services.Analyzer
	var checks []controllers.HealthCheck
	closer := func() {}

	switch cfg.Analyzer.Backend {
	case config.BackendRemote:
		remote := services.NewRemoteAnalyzer(cfg.Analyzer.URL, cfg.Analyzer.Timeout)
		checks = append(checks, controllers.HealthCheck{Name: "analyzer", Check: remote.Health})
		analyzer = remote
		slog.Info("using remote analyzer", slog.String("url", cfg.Analyzer.URL))
	default:
		vader, err := services.NewVaderAnalyzer(cfg.Analyzer.NeutralThreshold, services.BatchOptions{
			Workers: cfg.Analyzer.Workers,
			MaxRows: cfg.Limits.MaxCSVRows,
		})
		if err != nil {
			return nil, nil, nil, err
		}
		analyzer = vader
		slog.Info("using local VADER analyzer", slog.Float64("neutral_threshold", vader.NeutralThreshold()))
	}

	if !cfg.Cache.Enabled() {
		return analyzer, checks, closer, nil
	}

	cache, err := services.NewValkeyCache(ctx, services.ValkeyConfig{
		Address:  cfg.Cache.Address,
		Password: cfg.Cache.Password,
		TLS:      cfg.Cache.TLS,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	slog.Info("valkey cache enabled", slog.String("address", cfg.Cache.Address), slog.Duration("ttl", cfg.Cache.TTL))

	return services.NewCachedAnalyzer(analyzer, cache, cfg.Cache.TTL), checks, cache.Close, nil
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Setup the stores ---------------
	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	// Setup Services ---------------
	analyzer, analyzerChecks, closeAnalyzer, err := newAnalyzer(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeAnalyzer()

	// Setup Controllers ---------------
	staticC := controllers.NewStaticController(st.analyses, controllers.StaticTemplates{
		Home: views.MustParseFS(templates.FS, "pages/home.gohtml"),
	})
	reviewC := controllers.NewReviewController(
		analyzer,
		st.analyses,
		views.MustParseFS(templates.FS, "pages/review.gohtml"),
		cfg.Server.RequestTimeout,
	)
	dashboardC := controllers.NewDashboardController(
		analyzer,
		st.analyses,
		controllers.DashboardTemplates{
			Upload: views.MustParseFS(templates.FS, "pages/dashboard.gohtml"),
			Result: views.MustParseFS(templates.FS, "pages/dashboard_result.gohtml"),
		},
		cfg.Server.RequestTimeout,
		cfg.Limits.MaxCSVRows,
	)
	historyC := controllers.NewHistoryController(
		st.analyses,
		views.MustParseFS(templates.FS, "pages/history.gohtml"),
		cfg.Limits.HistoryLimit,
	)
	analyzeC := controllers.NewAnalyzeController(analyzer, cfg.Server.RequestTimeout, cfg.Limits.MaxCSVRows)
	langC := controllers.NewLangController(cfg.Security.SecureCookies)

	vmw := middleware.NewVisitorMiddleware(
		st.visitors,
		cfg.Security.VisitorCookieName,
		cfg.Security.VisitorCookieAge,
		cfg.Security.SecureCookies,
	)
	csrfMw := middleware.CSRF([]byte(cfg.Security.CSRFSecret), cfg.Security.SecureCookies, cfg.Security.TrustedOrigins)

	// Setup router and routes
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Language)

	r.Get("/healthz", controllers.Health(append(st.checks, analyzerChecks...)...))

	// ---- JSON API, same contract as the analysis service ----
	r.Post("/analyze-single", analyzeC.PostAnalyzeSingle)
	r.Post("/analyze-csv", analyzeC.PostAnalyzeCSV)

	// ---- Pages ----
	r.Group(func(r chi.Router) {
		r.Use(middleware.LimitUpload)
		r.Use(csrfMw)
		r.Use(vmw.SetVisitor)

		r.Get("/", staticC.GetHome)
		r.Get("/lang/{code}", langC.GetLang)

		r.Get("/review", reviewC.GetReview)
		r.Post("/review", reviewC.PostReview)

		r.Get("/dashboard", dashboardC.GetDashboard)
		r.Post("/dashboard", dashboardC.PostDashboard)
		r.Get("/dashboard/{id}", dashboardC.GetResult)
		r.Get("/dashboard/{id}/export.csv", dashboardC.GetExport)

		r.Get("/history", historyC.GetHistory)
		r.Post("/history/{id}/delete", historyC.PostDelete)
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start the Server
	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", slog.String("address", cfg.Server.Address), slog.String("env", cfg.Server.Environment))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down server gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
