package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/AI2HU/dbmanager/internal/config"
	"github.com/AI2HU/dbmanager/internal/db"
	"github.com/AI2HU/dbmanager/internal/logger"
	"github.com/AI2HU/dbmanager/internal/shell"
)

// variant describes one of the two programs
type variant struct {
	use        string
	short      string
	long       string
	title      string
	numericIDs bool
	// section selects the database block of the config this program uses
	section func(cfg *config.Config) *config.DatabaseConfig
}

var sqlVariant = variant{
	use:   "sqlmanager",
	short: "Manage users and posts in a relational database",
	long: `sqlmanager is an interactive menu for creating, listing and deleting
users and their posts in SQLite (default) or PostgreSQL.

Run without arguments to start the menu.`,
	title:      "DATABASE MANAGER",
	numericIDs: true,
	section:    func(cfg *config.Config) *config.DatabaseConfig { return &cfg.SQLDatabase },
}

var mongoVariant = variant{
	use:   "mongomanager",
	short: "Manage users and posts in MongoDB",
	long: `mongomanager is an interactive menu for creating, listing and deleting
users and their posts in MongoDB.

The connection URI can be overridden with MONGO_ATLAS_CLUSTER_URI.
Run without arguments to start the menu.`,
	title:   "MONGODB MANAGER",
	section: func(cfg *config.Config) *config.DatabaseConfig { return &cfg.NoSQLDatabase },
}

// app holds the state shared by one program's commands
type app struct {
	variant  variant
	cfgFile  string
	logLevel string
	noColor  bool
	cfg      *config.Config
	database db.Database
}

// NewSQLCommand builds the sqlmanager root command
func NewSQLCommand() *cobra.Command {
	a := &app{variant: sqlVariant}
	root := a.rootCommand()
	root.AddCommand(a.migrateCommand())
	return root
}

// NewMongoCommand builds the mongomanager root command
func NewMongoCommand() *cobra.Command {
	a := &app{variant: mongoVariant}
	return a.rootCommand()
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:               a.variant.use,
		Short:             a.variant.short,
		Long:              a.variant.long,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.closeDatabase()
		},
		RunE: a.runShell,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.dbmanager/config.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warning, error (overrides config)")
	root.Flags().BoolVar(&a.noColor, "no-color", false, "disable colored output")

	// Disable completion command
	root.CompletionOptions.DisableDefaultCmd = true

	root.AddCommand(a.initCommand())
	root.AddCommand(a.apiCommand())

	return root
}

// configPath resolves --config, then DBMANAGER_CONFIG_PATH, then the default
func (a *app) configPath() string {
	if a.cfgFile != "" {
		return a.cfgFile
	}
	return config.GetConfigPath()
}

// setup loads configuration, configures logging and connects to the store
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadOrDefault(a.configPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.cfg = cfg

	level := cfg.LogLevel
	if a.logLevel != "" {
		level = a.logLevel
	}
	parsed, err := logger.ParseLogLevel(level)
	logger.Init(parsed, os.Stderr)
	if err != nil {
		logger.Warning("%v, using INFO", err)
	}

	// init tests its own connection
	if cmd.Name() == "init" {
		return nil
	}

	database, err := openDatabase(*a.variant.section(cfg))
	if err != nil {
		return err
	}

	ctx, cancel := a.connectContext()
	defer cancel()

	if err := database.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	a.database = database

	logger.Info("connected to %s", a.variant.section(cfg).Provider)
	return nil
}

// closeDatabase disconnects the store once. Commands defer it because cobra
// skips PersistentPostRunE when RunE fails.
func (a *app) closeDatabase() error {
	if a.database == nil {
		return nil
	}
	err := a.database.Disconnect(context.Background())
	a.database = nil
	return err
}

func (a *app) connectContext() (context.Context, context.CancelFunc) {
	if a.cfg != nil && a.cfg.OperationTimeout > 0 {
		return context.WithTimeout(context.Background(), a.cfg.OperationTimeout)
	}
	return context.WithCancel(context.Background())
}

func (a *app) runShell(cmd *cobra.Command, args []string) error {
	defer a.closeDatabase()

	color := !a.noColor && isatty.IsTerminal(os.Stdout.Fd())

	sh := shell.New(a.database, cmd.InOrStdin(), cmd.OutOrStdout(), shell.Options{
		Title:      a.variant.title,
		NumericIDs: a.variant.numericIDs,
		Color:      color,
		Timeout:    a.cfg.OperationTimeout,
	})

	return sh.Run(context.Background())
}
