package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/arvarik/whoop-go/v2/internal/output"
	"github.com/arvarik/whoop-go/v2/whoop"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Exit codes returned by the CLI.
const (
	exitCodeError        = 1
	exitCodeAuthRequired = 2
)

var errNotLoggedIn = errors.New("not logged in: run 'whoop auth login' or set WHOOP_ACCESS_TOKEN")

// app carries the state shared by every command.
type app struct {
	v      *viper.Viper
	out    io.Writer
	errOut io.Writer
	now    func() time.Time

	cfgFile string
	logger  *slog.Logger
	format  output.Format
}

func newApp(out, errOut io.Writer) *app {
	v := viper.New()
	v.SetEnvPrefix("WHOOP")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return &app{
		v:      v,
		out:    out,
		errOut: errOut,
		now:    time.Now,
		logger: slog.New(slog.DiscardHandler),
		format: output.Table,
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "whoop",
		Short: "Query the WHOOP Developer API",
		Long: `whoop talks to the WHOOP Developer API (v2).

Configure your app credentials in $XDG_CONFIG_HOME/whoop/config.yaml
(client_id, client_secret, redirect_uri) or via WHOOP_CLIENT_ID,
WHOOP_CLIENT_SECRET and WHOOP_REDIRECT_URI, then run 'whoop auth login'.
Alternatively set WHOOP_ACCESS_TOKEN to use a token obtained elsewhere.`,
		Version:       whoop.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default $XDG_CONFIG_HOME/whoop/config.yaml)")
	flags.StringP("output", "o", string(output.Table), "output format: table, json or yaml")
	flags.BoolP("verbose", "v", false, "log debug output to stderr")
	flags.String("token-file", "", "OAuth token location (default $XDG_CONFIG_HOME/whoop/token.json)")
	flags.String("base-url", "", "override the API base URL")
	_ = flags.MarkHidden("base-url")

	for key, name := range map[string]string{
		"output":     "output",
		"verbose":    "verbose",
		"token_file": "token-file",
		"base_url":   "base-url",
	} {
		_ = a.v.BindPFlag(key, flags.Lookup(name))
	}

	root.AddCommand(
		newAuthCmd(a),
		newProfileCmd(a),
		newBodyCmd(a),
		newSummaryCmd(a),
		newCyclesCmd(a),
		newSleepCmd(a),
		newRecoveryCmd(a),
		newWorkoutsCmd(a),
	)

	return root
}

// setup reads the config file and applies the global flags.
func (a *app) setup() error {
	if err := a.readConfig(); err != nil {
		return err
	}

	format, err := output.ParseFormat(a.v.GetString("output"))
	if err != nil {
		return err
	}
	a.format = format

	level := slog.LevelWarn
	if a.v.GetBool("verbose") {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(a.errOut, &slog.HandlerOptions{Level: level}))

	return nil
}

func (a *app) readConfig() error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", a.cfgFile, err)
		}
		return nil
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return nil
	}
	a.v.AddConfigPath(filepath.Join(dir, "whoop"))
	a.v.SetConfigName("config")
	a.v.SetConfigType("yaml")

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

func (a *app) render(v any) error {
	return output.Write(a.out, a.format, v)
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	var authErr *whoop.AuthenticationError
	if errors.Is(err, errNotLoggedIn) || errors.As(err, &authErr) {
		return exitCodeAuthRequired
	}
	return exitCodeError
}
