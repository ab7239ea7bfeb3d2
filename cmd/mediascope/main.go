package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"mediascope/internal/config"
	"mediascope/internal/pipeline"
	"mediascope/internal/server"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "mediascope",
	Short:   "Interactive media intelligence dashboard",
	Long:    "mediascope cleans uploaded media activity CSVs, derives summary views, and narrates each chart with generated insights.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetFlags(log.LstdFlags | log.Lshortfile)
		} else {
			log.SetFlags(log.LstdFlags)
		}

		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		// Best-effort .env load so GEMINI_API_KEY can live next to the project.
		_ = godotenv.Load()

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		if path == "" {
			cfg = config.Default()
			return nil
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(serveCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("mediascope", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/mediascope/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Set the GEMINI_API_KEY environment variable to enable insights.")
		return nil
	},
}

// --- analyze command ---

var withInsights bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file.csv]",
	Short: "Clean and aggregate a CSV, printing the summary views",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening %s: %w", args[0], err)
		}
		defer f.Close()

		pipe := pipeline.New(cfg)
		if !withInsights {
			pipe.DisableInsights()
		}

		a, err := pipe.Run(context.Background(), filepath.Base(args[0]), f)
		if err != nil {
			return err
		}

		for i, step := range a.Steps {
			fmt.Printf("Step %d/%d: %s — %s\n", i+1, len(a.Steps), step.Name, step.Summary)
		}

		for _, v := range a.Views {
			fmt.Printf("\n%s\n", v.Title)
			if len(v.Rows) == 0 {
				fmt.Println("  (no data)")
			}
			for _, row := range v.Rows {
				fmt.Printf("  %-24s %d\n", row.Label, row.Value)
			}
			if text, ok := a.Insights[v.Key]; ok && withInsights {
				fmt.Printf("\n  Insights: %s\n", text)
			}
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&withInsights, "insights", false, "Request generated commentary per view")
}

// --- serve command ---

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local dashboard server",
	RunE: func(cmd *cobra.Command, args []string) error {
		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		fmt.Printf("Starting server at http://localhost:%d\n", port)
		fmt.Println("Press Ctrl+C to stop")
		return server.Serve(pipeline.New(cfg), port)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to run server on (overrides config)")
}
