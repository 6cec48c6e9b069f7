package cmd

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tsingjyujing/glossa/config"
	"github.com/tsingjyujing/glossa/controller"
	"github.com/tsingjyujing/glossa/detector"
	"github.com/tsingjyujing/glossa/utils"
	_ "modernc.org/sqlite"
)

var logger = logrus.New()

func readConfig() (*viper.Viper, *config.Envelope) {
	viperInstance := viper.New()
	viperInstance.SetConfigName("config")
	viperInstance.SetConfigType("yaml")
	viperInstance.AddConfigPath("/etc/glossa/")
	viperInstance.AddConfigPath("$HOME/.glossa")
	viperInstance.AddConfigPath("./config")
	viperInstance.SetEnvPrefix("GLOSSA")
	viperInstance.AutomaticEnv()
	if err := viperInstance.ReadInConfig(); err != nil {
		logger.WithError(err).Fatal("fatal error config file")
	}
	logger.Infof("Using config file: %s", viperInstance.ConfigFileUsed())
	// Set default values
	viperInstance.SetDefault("server.address", ":8080")
	viperInstance.SetDefault("server.database", "db.sqlite")
	envelope, err := config.LoadConfigFromFile(viperInstance.ConfigFileUsed())
	if err != nil {
		logger.WithError(err).Fatal("Failed to parse configuration")
	}
	return viperInstance, envelope
}

func NewServerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Starting the language detection server",
		Run: func(cmd *cobra.Command, args []string) {
			echoServer := echo.New()
			goCtx := cmd.Context()
			viperInstance, envelope := readConfig()

			db, err := sql.Open("sqlite", viperInstance.GetString("server.database"))
			if err != nil {
				logger.WithError(err).Fatal("Failed to open database")
			}
			if _, err := db.ExecContext(goCtx, controller.GetDDL()); err != nil {
				logger.WithError(err).Fatal("Failed to create tables")
			}

			hub := detector.NewHub()
			// Warm the bundled registries so the first request does not
			// pay the profile load.
			if _, err := hub.Default(); err != nil {
				logger.WithError(err).Fatal("Failed to load default profiles")
			}
			if _, err := hub.DefaultShortText(); err != nil {
				logger.WithError(err).Fatal("Failed to load short-text profiles")
			}
			if dir := envelope.Server.ProfileDir; dir != "" {
				name := envelope.Server.ProfileName
				if name == "" {
					name = "custom"
				}
				registry, err := hub.GetOrCreate(name)
				if err != nil {
					logger.WithError(err).Fatalf("Invalid profile registry name: %s", name)
				}
				if err := registry.LoadDirectory(dir); err != nil {
					logger.WithError(err).Fatalf("Failed to load profiles from %s", dir)
				}
				logger.Infof("Loaded %d profiles into registry %s", len(registry.Languages()), name)
			}

			c, err := controller.NewController(db, hub, envelope.Server.SimplifyCJK)
			if err != nil {
				logger.WithError(err).Fatal("Failed to create controller")
			}

			echoServer.Use(echoprometheus.NewMiddleware("glossa"))
			echoServer.GET("/metrics", echoprometheus.NewHandler())
			echoServer.GET("/health", func(c echo.Context) error {
				return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
			})
			echoServer.Use(middleware.CORS()) // Enable CORS for all origins

			// RESTful API routes
			apiGroup := echoServer.Group("/api/v1")
			apiGroup.Use(middleware.Logger())

			// Apply Bearer Token authentication if tokens are configured
			tokens := envelope.Server.Tokens
			if len(tokens) > 0 {
				logger.Infof("Bearer token authentication enabled with %d token(s)", len(tokens))
				apiGroup.Use(utils.CreateBearerTokenMiddleware(tokens))
			} else {
				logger.Warn("Bearer token authentication disabled - no tokens configured")
			}

			// Detection
			apiGroup.POST("/detect", c.DetectLanguage)
			apiGroup.GET("/languages", c.ListLanguages)

			// History
			historyGroup := apiGroup.Group("/history")
			historyGroup.GET("", c.ListDetections)
			historyGroup.GET("/:detection_id", c.GetDetection)

			// Start server in a goroutine
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			go func() {
				addr := viperInstance.GetString("server.address")
				logger.Infof("Starting server on %s", addr)
				if err := echoServer.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.WithError(err).Error("Server start error")
				}
			}()

			// Wait for interrupt signal to gracefully shutdown the server with a timeout
			<-ctx.Done()
			stop()
			logger.Info("Shutting down server gracefully, press Ctrl+C again to force")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := echoServer.Shutdown(shutdownCtx); err != nil {
				logger.WithError(err).Error("Server forced to shutdown")
			}

			if err := c.Close(); err != nil {
				logger.WithError(err).Error("Failed to close controller")
			}

			logger.Info("Server stopped gracefully")
		},
	}
}
