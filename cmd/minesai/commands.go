package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tomasstrnad1997/minesai/config"
	"github.com/tomasstrnad1997/minesai/db"
	"github.com/tomasstrnad1997/minesai/runner"
	"github.com/tomasstrnad1997/minesai/server"
)

var (
	log = logrus.New()
	cfg config.Config

	configPath string
	logLevel   string
	logJSON    bool
	dbPath     string

	rootCmd = &cobra.Command{
		Use:               "minesai",
		Short:             "A minesweeper playing agent driven by logical inference",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}

	playCmd = &cobra.Command{
		Use:   "play",
		Short: "Play a batch of games and print a summary",
		Args:  cobra.NoArgs,
		RunE:  runPlay, // Defined in cmd_play.go
	}

	initdbCmd = &cobra.Command{
		Use:   "initdb",
		Short: "Create the result database tables",
		Args:  cobra.NoArgs,
		Run:   runInitDB, // Defined in cmd_db.go
	}

	statsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Print aggregate results of the stored games",
		Args:  cobra.NoArgs,
		RunE:  runStats, // Defined in cmd_db.go
	}

	replayCmd = &cobra.Command{
		Use:   "replay [game_id]",
		Short: "Print the recorded moves of a stored game",
		Args:  cobra.ExactArgs(1),
		RunE:  runReplay, // Defined in cmd_db.go
	}

	watchCmd = &cobra.Command{
		Use:   "watch [addr]",
		Short: "Print the games streamed by a running play --feed-addr",
		Args:  cobra.ExactArgs(1),
		RunE:  runWatch, // Defined in cmd_watch.go
	}
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "path to a YAML config file")
	flags.StringVar(&logLevel, "log-level", "", "log level (overrides log_level)")
	flags.BoolVar(&logJSON, "log-json", false, "log in JSON format")
	flags.StringVar(&dbPath, "db", "", "sqlite database path (overrides db_path and DB_PATH)")

	addPlayFlags(playCmd)
	statsCmd.Flags().IntVar(&recentGames, "recent", 0, "also list this many most recent games")

	rootCmd.AddCommand(playCmd, initdbCmd, statsCmd, replayCmd, watchCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	cfg = loaded
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)
	if logJSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	runner.SetLogger(log)
	server.SetLogger(log)
	return nil
}

func openStore() (*db.SQLStore, error) {
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("no database configured: set db_path, DB_PATH or --db")
	}
	return db.OpenStore(cfg.DBPath)
}
