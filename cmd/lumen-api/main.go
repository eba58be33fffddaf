package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/lumenlabs/lumen/backend/internal/assistant"
	"github.com/lumenlabs/lumen/backend/internal/canvases"
	"github.com/lumenlabs/lumen/backend/internal/config"
	"github.com/lumenlabs/lumen/backend/internal/courses"
	"github.com/lumenlabs/lumen/backend/internal/database"
	"github.com/lumenlabs/lumen/backend/internal/identity"
	"github.com/lumenlabs/lumen/backend/internal/journals"
	"github.com/lumenlabs/lumen/backend/internal/logging"
	"github.com/lumenlabs/lumen/backend/internal/profile"
	"github.com/lumenlabs/lumen/backend/internal/server"
	"github.com/lumenlabs/lumen/backend/internal/spaces"
	"github.com/lumenlabs/lumen/backend/internal/storage"
	"github.com/lumenlabs/lumen/backend/internal/tasks"
)

var (
	cfgFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lumen-api",
		Short: "Lumen workspace backend service",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}

	setupFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupFlags(cmd *cobra.Command) {
	config.ApplyDefaults(viper.GetViper())
	defaults := config.NewViper()
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to configuration file")
	cmd.PersistentFlags().String("http-address", defaults.GetString("http.address"), "HTTP listen address")
	cmd.PersistentFlags().String("database-path", defaults.GetString("database.path"), "SQLite database path")
	cmd.PersistentFlags().String("log-level", defaults.GetString("log.level"), "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().Int("reply-delay-ms", defaults.GetInt("assistant.reply_delay_ms"), "Simulated reply delay in milliseconds")

	bindFlag(cmd, "http.address", "http-address")
	bindFlag(cmd, "database.path", "database-path")
	bindFlag(cmd, "log.level", "log-level")
	bindFlag(cmd, "assistant.reply_delay_ms", "reply-delay-ms")
}

func bindFlag(cmd *cobra.Command, key, flag string) {
	if err := viper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	if err := viper.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if cfgFile != "" && errors.As(err, &configNotFound) {
			return err
		}
	}

	return nil
}

func runServer(ctx context.Context) error {
	appConfig, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(appConfig.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	db, err := database.OpenSQLite(appConfig.DatabasePath, logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	store, err := storage.NewDatabaseStore(storage.DatabaseStoreConfig{Database: db})
	if err != nil {
		return err
	}
	ids := identity.NewBase36Provider()

	spacesService, err := spaces.NewService(spaces.ServiceConfig{
		Store:      store,
		IDProvider: ids,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	canvasService, err := canvases.NewService(canvases.ServiceConfig{
		Store:      store,
		IDProvider: ids,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	journalService, err := journals.NewService(journals.ServiceConfig{
		Store:      store,
		IDProvider: ids,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	taskService, err := tasks.NewService(tasks.ServiceConfig{
		Store:      store,
		IDProvider: ids,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	catalog, err := courses.NewCatalog(courses.CatalogConfig{
		Store:  store,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	enrollments, err := courses.NewEnrollments(courses.EnrollmentsConfig{
		Store:   store,
		Catalog: catalog,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	profileService, err := profile.NewService(profile.ServiceConfig{
		Store:       store,
		IDProvider:  ids,
		Spaces:      spacesService,
		Journals:    journalService,
		Enrollments: enrollments,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	replies := assistant.NewSimulatedGenerator(assistant.SimulatedGeneratorConfig{
		Delay: time.Duration(appConfig.ReplyDelayMS) * time.Millisecond,
	})

	handler, err := server.NewHTTPHandler(server.Dependencies{
		Spaces:      spacesService,
		Canvases:    canvasService,
		Journals:    journalService,
		Tasks:       taskService,
		Profile:     profileService,
		Catalog:     catalog,
		Enrollments: enrollments,
		Replies:     replies,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:    appConfig.HTTPAddress,
		Handler: handler,
	}

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("address", appConfig.HTTPAddress))
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-signalCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
