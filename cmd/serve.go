package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/common-nighthawk/go-figure"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gin-gonic/gin"
	"github.com/princinho/catalogsite/cache"
	"github.com/princinho/catalogsite/cms"
	"github.com/princinho/catalogsite/config"
	"github.com/princinho/catalogsite/jobs"
	"github.com/princinho/catalogsite/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	shutdownTimeout = 30 * time.Second
	cachePrefix     = "catalogsite:"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the catalog site, quote intake and admin view",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.RunE = runServe
}

// loadConfig reads .env, the optional config file and the environment.
func loadConfig() (*config.Config, error) {
	config.LoadEnv()
	return config.Load(configPath)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	flush, err := logger.Init(cfg.Logger)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer flush()

	if cfg.Logger.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	store := cache.New(ctx, cfg.Redis, cachePrefix, cfg.Directus.CacheTTL)
	client := cms.NewClient(cfg.Directus)
	catalog := cms.NewCatalog(client, store, cfg.Directus)
	quotes := cms.NewQuotes(client, cfg.Directus.ReadToken)
	if !quotes.CanRead() {
		zap.L().Warn("DIRECTUS_READ_TOKEN is not set, the admin quote view will not work")
	}
	if cfg.Admin.Secret == "" {
		zap.L().Warn("ADMIN_SECRET is not set, admin access is disabled")
	}

	sched := jobs.NewScheduler()
	if err := sched.AddRefresh("catalog-refresh", cfg.Jobs.RefreshSchedule, catalog, refreshTimeout(cfg.Directus)); err != nil {
		return fmt.Errorf("schedule catalog refresh: %w", err)
	}
	sched.Start()

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           NewRouter(cfg, catalog, quotes),
		ReadHeaderTimeout: 10 * time.Second,
	}

	figure.NewFigure("catalogsite", "small", true).Print()
	fmt.Println()
	zap.L().Info("listening",
		zap.String("addr", srv.Addr),
		zap.String("directus", client.BaseURL()),
		zap.String("site", cfg.Server.SiteURL))

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("http server", zap.Error(err))
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				zap.L().Info("shutting down http server")
				return srv.Shutdown(ctx)
			},
			"scheduler": sched.Stop,
		},
	)
	exitCode := <-wait
	zap.L().Info("exited", zap.Int("code", exitCode))
	flush()
	os.Exit(exitCode)
	return nil
}

// refreshTimeout bounds one catalog refresh, which makes several CMS reads.
func refreshTimeout(cfg config.DirectusConfig) time.Duration {
	return cms.FetchTimeout(cfg) * 3
}
