package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/frahmantamala/workspace-booking/internal"
	"github.com/frahmantamala/workspace-booking/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	clearData  bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "workspace-booking",
	Short: "Workspace Booking",
	Long:  `Desk and room booking for a coworking space.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// a missing .env file is fine
		_ = godotenv.Load()
		logger.Init(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"))
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*internal.Config, error) {
	// Check if we're running in Docker environment
	if os.Getenv("APP_ENV") == "production" || os.Getenv("DOCKER_ENV") == "true" {
		// Load configuration from environment variables (Docker deployment)
		cfg := internal.LoadConfigFromEnv()
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("error validating config from environment: %w", err)
		}
		return cfg, nil
	}

	// Load configuration from file (development)
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.SetEnvPrefix("ENV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	var cfg internal.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("error validating config: %w", err)
	}

	if lvl := cfg.Observability.Logging.Level; lvl != "" && os.Getenv("LOG_LEVEL") == "" {
		logger.Init(os.Getenv("APP_ENV"), lvl)
	}

	return &cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", ".", "directory containing config.yml")
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "Clear existing data before seeding")

	rootCmd.AddCommand(httpServerCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(exportCmd)
}
