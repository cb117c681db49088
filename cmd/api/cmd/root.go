package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"medicine-reminder/internal/config"
	"medicine-reminder/internal/platform/logger"
)

var (
	cfgFile  string
	envFile  string
	logLevel string

	cfg *config.Config
	log logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "medicine-reminder",
	Short: "Medicine Reminder: registro de medicamentos y recordatorios",
	Long: `Servicio HTTP para registrar medicamentos, consultar fichas en openFDA,
escanear códigos de barras y recibir recordatorios por websocket.

Sin subcomando levanta el servidor (igual que "serve").`,
	PersistentPreRunE: setup,
	RunE:              runServe,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func setup(_ *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load(config.Options{EnvFile: envFile, ConfigFile: cfgFile})
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	log = logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.App,
		Output: os.Stderr,
	})
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "archivo de configuración (yaml/json/toml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "archivo .env (opcional)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug | info | warn | error")

	rootCmd.AddCommand(serveCmd, migrateCmd, lookupCmd, scanCmd, registerCmd)
}
