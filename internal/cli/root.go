package cli

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"prepquiz-service/internal/config"
	"prepquiz-service/internal/logger"
)

var (
	port       string
	configPath string
)

// Execute runs the CLI.
func Execute() error {
	_ = godotenv.Load() // .env is optional
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envPort := os.Getenv("PORT")
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}

	cmd := &cobra.Command{
		Use:   "prepquiz",
		Short: "Timed disaster-preparedness quizzes with a daily challenge",
	}

	cmd.PersistentFlags().StringVar(&port, "port", envPort, "port to listen on (defaults to server.port, then 8080)")
	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config")
	cmd.AddCommand(NewStartCmd(&configPath, &port))
	cmd.AddCommand(NewMigrateCmd(&configPath))
	cmd.AddCommand(NewDailyCmd(&configPath))
	cmd.AddCommand(NewAttemptsCmd(&configPath))
	return cmd
}

func newLogger(cfg config.Config) zerolog.Logger {
	return logger.Setup(cfg.Log.Level, cfg.Log.Format, os.Stderr)
}
