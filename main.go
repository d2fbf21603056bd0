// Package main provides the entry point for the laoshi CLI application.
package main

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	homedir "github.com/mitchellh/go-homedir"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/dgnsrekt/laoshi/ui"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile  string
	dataDir     string
	serverURL   string
	voice       string
	langCode    string
	speed       float64
	debug       bool
	startAdding bool

	rootCmd = &cobra.Command{
		Use:   "laoshi",
		Short: "Practice Chinese vocabulary by ear",
		Long: paragraph(
			fmt.Sprintf("\nDrill your vocabulary %s: hear each entry first, reveal it after.", keyword("by ear")),
		),
		SilenceErrors: false,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: func(*cobra.Command, []string) error {
			return runTUI()
		},
	}
)

func validateOptions(_ *cobra.Command) error {
	// grab config values from Viper
	dataDir = viper.GetString("data-dir")
	serverURL = viper.GetString("server")
	voice = viper.GetString("voice")
	langCode = viper.GetString("lang")
	speed = viper.GetFloat64("speed")
	debug = viper.GetBool("debug")
	startAdding = viper.GetBool("update")

	expanded, err := homedir.Expand(dataDir)
	if err != nil {
		return fmt.Errorf("unable to expand data directory: %w", err)
	}
	dataDir = expanded

	u, err := url.ParseRequestURI(serverURL)
	if err != nil {
		return fmt.Errorf("invalid server address %q: %w", serverURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s is not a supported protocol", u.Scheme)
	}

	if speed < 0.5 || speed > 2.0 {
		return fmt.Errorf("speed must be between 0.5 and 2.0, got %.2f", speed)
	}

	if debug {
		log.SetLevel(log.DebugLevel)
	}
	return nil
}

func runTUI() error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("laoshi needs an interactive terminal")
	}

	// Read environment to get debugging stuff
	cfg, err := env.ParseAs[ui.Config]()
	if err != nil {
		return fmt.Errorf("error parsing config: %v", err)
	}

	cfg.DataDir = dataDir
	cfg.ServerURL = serverURL
	cfg.Voice = voice
	cfg.LangCode = langCode
	cfg.Speed = speed
	cfg.Debug = debug
	cfg.StartAdding = startAdding

	// Run Bubble Tea program
	if _, err := ui.NewProgram(cfg).Run(); err != nil {
		return fmt.Errorf("unable to run tui program: %w", err)
	}
	return nil
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.Flags().StringVar(&dataDir, "data-dir", ".", "directory holding the vocabulary files and audio cache")
	rootCmd.Flags().StringVar(&serverURL, "server", "http://localhost:8880", "speech server address")
	rootCmd.Flags().StringVar(&voice, "voice", "zf_xiaoxiao", "speech server voice")
	rootCmd.Flags().StringVar(&langCode, "lang", "z", "speech server language code")
	rootCmd.Flags().Float64Var(&speed, "speed", 1.0, "synthesis speed for the default-speed files")
	rootCmd.Flags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
	rootCmd.Flags().BoolVarP(&startAdding, "update", "u", false, "open straight onto the add-words screen")

	// Config bindings
	_ = viper.BindPFlag("data-dir", rootCmd.Flags().Lookup("data-dir"))
	_ = viper.BindPFlag("server", rootCmd.Flags().Lookup("server"))
	_ = viper.BindPFlag("voice", rootCmd.Flags().Lookup("voice"))
	_ = viper.BindPFlag("lang", rootCmd.Flags().Lookup("lang"))
	_ = viper.BindPFlag("speed", rootCmd.Flags().Lookup("speed"))
	_ = viper.BindPFlag("debug", rootCmd.Flags().Lookup("debug"))
	_ = viper.BindPFlag("update", rootCmd.Flags().Lookup("update"))

	viper.SetDefault("data-dir", ".")
	viper.SetDefault("server", "http://localhost:8880")
	viper.SetDefault("voice", "zf_xiaoxiao")
	viper.SetDefault("lang", "z")
	viper.SetDefault("speed", 1.0)

	rootCmd.AddCommand(configCmd, manCmd, exportCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "laoshi")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "laoshi")}, dirs...)
	}

	if c := os.Getenv("LAOSHI_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("laoshi")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("laoshi")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "laoshi.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
