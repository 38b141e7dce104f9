package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/movietally/movietally/config"
	"github.com/movietally/movietally/movieserver"
	"github.com/movietally/movietally/report"
	"github.com/movietally/movietally/scan"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  *movieserver.Client

	// Command flags
	serverHost  string
	serverPort  int
	username    string
	password    string
	years       []int
	verbose     bool
	filterExpr  string
	concurrency int
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "movietally",
	Short: "Count movies per year on a movie catalog server",
	Long: `movietally logs into a movie catalog server and counts how many movies
exist for each requested year. The server paginates its data without
exposing a total, so the tool discovers the extent of each year by
scanning pages concurrently, and transparently renews its session when
it expires mid-scan.`,
	PersistentPreRunE: initializeApp,
	RunE:              runCount,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// SetVersion stores the build metadata injected by the linker.
func SetVersion(version, buildTime string) {
	rootCmd.Version = fmt.Sprintf("%s (built %s)", version, buildTime)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&serverHost, "server", "s", "", "server host")
	rootCmd.PersistentFlags().IntVarP(&serverPort, "port", "P", 0, "server port (default 8080)")
	rootCmd.PersistentFlags().StringVarP(&username, "username", "u", "", "username for authentication")
	rootCmd.PersistentFlags().StringVarP(&password, "password", "p", "", "password for authentication")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.Flags().IntSliceVarP(&years, "year", "Y", nil, "year to count movies for (repeatable)")
	rootCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "expression selecting which year totals to report (variables: year, total, pages)")
	rootCmd.Flags().IntVarP(&concurrency, "concurrency", "c", 0, "maximum concurrent page requests")

	// Add subcommands
	rootCmd.AddCommand(testCmd)
}

// initializeApp initializes the configuration and the server client
func initializeApp(cmd *cobra.Command, args []string) error {
	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Command-line flags override config file values
	if serverHost != "" {
		cfg.Server.Host = serverHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = serverPort
	}
	if username != "" {
		cfg.Auth.Username = username
	}
	if password != "" {
		cfg.Auth.Password = password
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Scan.Concurrency = concurrency
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}

	// Setup logger
	logger = setupLogger(cfg.Logging, verbose)

	// Create server client
	opts := []movieserver.Option{movieserver.WithTimeout(cfg.Scan.Timeout)}
	if cfg.Scan.RequestRate > 0 {
		opts = append(opts, movieserver.WithRateLimit(cfg.Scan.RequestRate))
	}
	client, err = movieserver.NewClient(cfg.Server.Host, cfg.Server.Port, logger, opts...)
	if err != nil {
		return fmt.Errorf("failed to create server client: %w", err)
	}

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig, verbose bool) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}
	if verbose {
		level = zerolog.DebugLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format, colored only when stderr is a terminal
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

func runCount(cmd *cobra.Command, args []string) error {
	if len(years) == 0 {
		return fmt.Errorf("at least one year is required (use -Y)")
	}

	resultFilter, err := report.Compile(filterExpr)
	if err != nil {
		return err
	}

	auth := scan.AuthenticatorFunc(func(ctx context.Context) (string, error) {
		return client.Authenticate(ctx, cfg.Auth.Username, cfg.Auth.Password)
	})
	scanner := scan.NewScanner(client, cfg.Scan.Concurrency, logger)
	coordinator := scan.NewCoordinator(scanner, auth, cfg.Scan.MaxReauth, logger)
	orchestrator := scan.NewOrchestrator(coordinator, auth, logger)

	logger.Debug().Ints("years", years).Msg("Filtering movies by year")

	totals, err := orchestrator.Run(cmd.Context(), years)
	if err != nil {
		return err
	}

	selected, err := report.Apply(totals, resultFilter)
	if err != nil {
		return err
	}

	report.Render(os.Stdout, selected)
	return nil
}

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connection and credentials against the server",
	Long:  `Authenticate against the configured movie server to verify the address and credentials.`,
	RunE:  runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	fmt.Printf("Testing connection to %s:%d...\n", cfg.Server.Host, cfg.Server.Port)

	if _, err := client.Authenticate(cmd.Context(), cfg.Auth.Username, cfg.Auth.Password); err != nil {
		return err
	}

	fmt.Println("✓ Authentication successful!")
	return nil
}
