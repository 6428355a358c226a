package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/stromabio/stroma/internal/httpd"
	"github.com/stromabio/stroma/pkg/payments"
)

var serveConfigPath string

// serveConfig is the on-disk configuration for the server process.
type serveConfig struct {
	Addr         string   `yaml:"addr"`
	Token        string   `yaml:"token"`
	DataDir      string   `yaml:"data_dir"`
	StaticDir    string   `yaml:"static_dir"`
	ContentTypes []string `yaml:"content_types"`
	Payments     struct {
		Endpoint  string `yaml:"endpoint"`
		SecretKey string `yaml:"secret_key"`
	} `yaml:"payments"`
}

func loadServeConfig(path string) (serveConfig, error) {
	cfg := serveConfig{
		Addr:         ":8080",
		DataDir:      "data",
		ContentTypes: []string{"blog", "products"},
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("invalid config: %w", err)
		}
	}
	// Secrets prefer the environment over the config file.
	if v := os.Getenv("STROMA_TOKEN"); v != "" {
		cfg.Token = v
	}
	if v := os.Getenv("STROMA_PAYMENT_SECRET"); v != "" {
		cfg.Payments.SecretKey = v
	}
	return cfg, nil
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the content API and static site server",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadServeConfig(serveConfigPath)
		if err != nil {
			fatal("Error loading config", err)
		}

		var processor *payments.Client
		if cfg.Payments.Endpoint != "" {
			processor = payments.NewClient(payments.Config{
				Endpoint:  cfg.Payments.Endpoint,
				SecretKey: cfg.Payments.SecretKey,
				Logger:    slog.Default(),
			})
		}

		server, err := httpd.NewServer(httpd.Config{
			Addr:         cfg.Addr,
			Token:        cfg.Token,
			DataDir:      cfg.DataDir,
			StaticDir:    cfg.StaticDir,
			ContentTypes: cfg.ContentTypes,
			Payments:     processor,
			Logger:       slog.Default(),
		})
		if err != nil {
			fatal("Error initializing server", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := server.ListenAndServe(ctx); err != nil {
			fatal("Server error", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", "", "Path to a YAML config file")
}
