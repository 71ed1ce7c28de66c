package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"

	"Chance_bot_v1/bot"
	"Chance_bot_v1/config"
	"Chance_bot_v1/launcher"
	"Chance_bot_v1/logging"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d: %s", e.Code, e.Message)
}

// deps holds what the commands touch outside the process.
type deps struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	dir    string

	loadConfig func(files ...string) (*config.AppConfig, error)
	startBot   func(ctx context.Context, cfg *config.AppConfig, logger *log.Logger) error
	lookPath   func(file string) (string, error)
	runner     launcher.Runner
}

func defaultDeps() deps {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	return deps{
		in:         os.Stdin,
		out:        os.Stdout,
		errOut:     os.Stderr,
		dir:        wd,
		loadConfig: config.LoadConfig,
		startBot:   bot.Start,
		lookPath:   exec.LookPath,
		runner:     launcher.ExecRunner{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr},
	}
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d := defaultDeps()
	return exitCode(d.errOut, newRootCmd(d).ExecuteContext(ctx))
}

func exitCode(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Message != "" {
			fmt.Fprintln(w, exitErr.Message)
		}
		return exitErr.Code
	}
	fmt.Fprintln(w, err)
	return 1
}

func newRootCmd(d deps) *cobra.Command {
	var logLevel string

	run := newRunCmd(d, &logLevel)
	cmd := &cobra.Command{
		Use:           "chancebot",
		Short:         "Chance RTP Discord bot",
		Long:          "Posts new Chance lotteries to Discord, answers RTP slash commands and sends lottery alerts.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          run.RunE,
	}
	cmd.SetIn(d.in)
	cmd.SetOut(d.out)
	cmd.SetErr(d.errOut)

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); overrides LOG_LEVEL")
	cmd.AddCommand(run, newBootstrapCmd(d, &logLevel))
	return cmd
}

func newRunCmd(d deps, logLevel *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Connect to Discord and run the bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := d.loadConfig()
			if err != nil {
				return &ExitError{Code: 2, Message: err.Error()}
			}
			level := cfg.LogLevel
			if *logLevel != "" {
				level = *logLevel
			}
			logger := logging.New(d.errOut, level)
			if !cfg.EnvFileLoaded {
				logger.Warn("No .env file found, using process environment")
			}
			if err := cfg.Validate(); err != nil {
				logger.Error("❌ " + err.Error())
				return &ExitError{Code: 1, Message: "Please set the missing variables in your .env file"}
			}

			logger.Info("Starting Chance Discord Bot...")
			if err := d.startBot(cmd.Context(), cfg, logger); err != nil {
				return fmt.Errorf("bot stopped: %w", err)
			}
			return nil
		},
	}
}

func newBootstrapCmd(d deps, logLevel *string) *cobra.Command {
	var (
		profile     string
		profileFile string
		noPause     bool
	)

	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Prepare .env and the runtime environment, then launch the bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if profileFile == "" {
				if def := filepath.Join(d.dir, "launcher.yaml"); fileExists(def) {
					profileFile = def
				}
			}
			p, err := launcher.LoadProfile(profile, profileFile)
			if err != nil {
				return &ExitError{Code: 2, Message: err.Error()}
			}

			level := *logLevel
			if level == "" {
				level = "info"
			}
			b := &launcher.Bootstrapper{
				Profile:  p,
				Root:     d.dir,
				LookPath: d.lookPath,
				Runner:   d.runner,
				Logger:   logging.New(d.errOut, level),
			}
			if !noPause {
				b.Pause = pauser(d.in, d.errOut)
			}

			if _, err := b.Run(cmd.Context()); err != nil {
				return &ExitError{Code: launcher.ExitCode(err), Message: err.Error()}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&profile, "profile", "python", "launch profile (go, python)")
	cmd.Flags().StringVar(&profileFile, "profile-file", "", "YAML file overriding profile fields (default ./launcher.yaml when present)")
	cmd.Flags().BoolVar(&noPause, "no-pause", false, "do not wait for Enter after creating .env or on errors")
	return cmd
}

// pauser prints msg and waits for a line on in.
func pauser(in io.Reader, out io.Writer) func(string) {
	r := bufio.NewReader(in)
	return func(msg string) {
		fmt.Fprint(out, msg)
		_, _ = r.ReadString('\n')
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
