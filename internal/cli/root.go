// Package cli implements the keyphrase command tree.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/keyphrase/internal/logging"
	"github.com/ppiankov/keyphrase/internal/model"
)

// version is overridden at build time with -ldflags "-X ...cli.version=...".
var version = "0.1.0"

const envPrefix = "KEYPHRASE"

// globalOptions carries the persistent flags and the config source shared by
// every subcommand.
type globalOptions struct {
	cfgFile   string
	verbose   bool
	logLevel  string
	logFormat string

	v      *viper.Viper
	stdin  io.Reader
	stderr io.Writer
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd(os.Stdin, os.Stderr).Execute()
}

func newRootCmd(stdin io.Reader, stderr io.Writer) *cobra.Command {
	opts := &globalOptions{
		v:      viper.New(),
		stdin:  stdin,
		stderr: stderr,
	}

	cmd := &cobra.Command{
		Use:   "keyphrase",
		Short: "Keyphrase - RAKE keyphrase extraction with query re-ranking",
		Long: `Keyphrase extracts candidate keyphrases from documents with RAKE
(Rapid Automatic Keyword Extraction) and re-ranks them by similarity to a
query.

Documents can be local files, standard input ("-") or http(s) URLs.
Similarity combines Jaro-Winkler token matches with a positional decay,
and near-tied phrases are ordered by their RAKE score.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.initConfig()
		},
	}
	cmd.SetErr(stderr)

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.cfgFile, "config", "", "config file (default: $HOME/.keyphrase/config.yaml)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", "", "log format (console, json)")

	cmd.AddCommand(
		newVersionCmd(),
		newExtractCmd(opts),
		newRankCmd(opts),
		newBatchCmd(opts),
		newConfigCmd(opts),
	)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "keyphrase v%s\n", version)
		},
	}
}

// initConfig points viper at the config file and the KEYPHRASE_* environment.
// A missing default config file is not an error; a missing explicit one is.
func (o *globalOptions) initConfig() error {
	registerDefaults(o.v)

	if o.cfgFile != "" {
		o.v.SetConfigFile(o.cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		o.v.AddConfigPath(filepath.Join(home, ".keyphrase"))
		o.v.SetConfigType("yaml")
		o.v.SetConfigName("config")
	}

	o.v.SetEnvPrefix(envPrefix)
	o.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	o.v.AutomaticEnv()

	if err := o.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if o.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
		return nil
	}

	if o.verbose {
		fmt.Fprintf(o.stderr, "Using config file: %s\n", o.v.ConfigFileUsed())
	}
	return nil
}

// runtime decodes the effective configuration and builds the logger.
func (o *globalOptions) runtime() (*model.Config, *zap.Logger, error) {
	cfg, err := loadConfig(o.v)
	if err != nil {
		return nil, nil, err
	}

	if o.verbose {
		cfg.Output.Verbose = true
		if o.logLevel == "" && cfg.Log.Level == model.DefaultConfig().Log.Level {
			cfg.Log.Level = "info"
		}
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Log.Format = o.logFormat
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// loadConfig decodes v onto the built-in defaults.
func loadConfig(v *viper.Viper) (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// registerDefaults declares every config key so that KEYPHRASE_* variables
// resolve even when no config file mentions the key.
func registerDefaults(v *viper.Viper) {
	data, err := yaml.Marshal(model.DefaultConfig())
	if err != nil {
		return
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return
	}
	setDefaults(v, "", tree)

	for _, key := range []string{"http.http_proxy", "http.https_proxy", "http.no_proxy"} {
		v.SetDefault(key, "")
	}
}

func setDefaults(v *viper.Viper, prefix string, tree map[string]any) {
	for key, val := range tree {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		if sub, ok := val.(map[string]any); ok {
			setDefaults(v, full, sub)
			continue
		}
		v.SetDefault(full, val)
	}
}
