package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"Chance_bot_v1/logging"

	"github.com/charmbracelet/log"
)

var ErrInterpreterMissing = errors.New("interpreter not found on PATH")

// Command is one subprocess invocation.
type Command struct {
	Name string
	Args []string
	Dir  string
	Env  []string
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Runner starts a command and waits for it.
type Runner interface {
	Run(ctx context.Context, c Command) error
}

// DefaultGracePeriod is how long a cancelled child has to exit after the
// interrupt before it is killed.
const DefaultGracePeriod = 10 * time.Second

// ExecRunner runs commands with os/exec, wiring them to the given stdio.
// Cancelling ctx interrupts the child and waits up to GracePeriod for it.
type ExecRunner struct {
	Stdin          io.Reader
	Stdout, Stderr io.Writer
	GracePeriod    time.Duration
}

func (r ExecRunner) Run(ctx context.Context, c Command) error {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	cmd.Env = c.Env
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	cmd.Cancel = func() error {
		if runtime.GOOS == "windows" {
			return cmd.Process.Kill()
		}
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = r.GracePeriod
	if cmd.WaitDelay <= 0 {
		cmd.WaitDelay = DefaultGracePeriod
	}

	err := cmd.Run()
	// A child that shut down cleanly on the interrupt is not a failure.
	if err != nil && ctx.Err() != nil && cmd.ProcessState != nil && cmd.ProcessState.Success() {
		return nil
	}
	return err
}

// Report records what a bootstrap run did.
type Report struct {
	Interpreter   string
	ConfigCreated bool
	EnvCreated    bool
}

// Bootstrapper prepares the working directory described by Profile and then
// launches the bot. Steps run strictly in order.
type Bootstrapper struct {
	Profile Profile
	Root    string

	LookPath func(file string) (string, error)
	Runner   Runner
	// Pause waits for the operator. Nil skips pauses.
	Pause   func(message string)
	Environ func() []string
	Logger  *log.Logger
}

func (b *Bootstrapper) logger() *log.Logger { return logging.OrDiscard(b.Logger) }

func (b *Bootstrapper) pause(msg string) {
	if b.Pause != nil {
		b.Pause(msg)
	}
}

func (b *Bootstrapper) runner() Runner {
	if b.Runner == nil {
		return ExecRunner{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
	}
	return b.Runner
}

func (b *Bootstrapper) path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(b.Root, name)
}

// Run executes every step and finally the bot itself. The bot's exit status
// comes back as an error ExitCode understands.
func (b *Bootstrapper) Run(ctx context.Context) (*Report, error) {
	if err := b.Profile.Validate(); err != nil {
		return nil, err
	}
	root, err := filepath.Abs(b.Root)
	if err != nil {
		return nil, fmt.Errorf("launcher: resolve root: %w", err)
	}
	b.Root = root

	report := &Report{}
	if report.Interpreter, err = b.CheckInterpreter(); err != nil {
		return report, err
	}
	if report.ConfigCreated, err = b.EnsureConfig(); err != nil {
		return report, fmt.Errorf("launcher: config: %w", err)
	}
	if report.EnvCreated, err = b.EnsureEnvironment(ctx, report.Interpreter); err != nil {
		return report, fmt.Errorf("launcher: environment: %w", err)
	}
	env := b.Activate()
	if err := b.InstallDependencies(ctx, report.Interpreter, env); err != nil {
		return report, fmt.Errorf("launcher: install: %w", err)
	}
	if err := b.Launch(ctx, report.Interpreter, env); err != nil {
		return report, fmt.Errorf("launcher: launch: %w", err)
	}
	return report, nil
}

// CheckInterpreter resolves the first available interpreter.
func (b *Bootstrapper) CheckInterpreter() (string, error) {
	lookPath := b.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	for _, name := range b.Profile.Interpreters {
		if p, err := lookPath(name); err == nil {
			b.logger().Info("✅ Interpreter found", "path", p)
			return p, nil
		}
	}
	b.logger().Error(fmt.Sprintf("❌ %s is not installed or not in PATH", strings.Join(b.Profile.Interpreters, "/")))
	b.pause("Install it, then press Enter to exit...")
	return "", fmt.Errorf("launcher: %w: tried %s", ErrInterpreterMissing, strings.Join(b.Profile.Interpreters, ", "))
}

// EnsureConfig copies the template to the config file when the config file
// does not exist yet.
func (b *Bootstrapper) EnsureConfig() (bool, error) {
	if b.Profile.ConfigFile == "" || b.Profile.ConfigTemplate == "" {
		return false, nil
	}
	dst := b.path(b.Profile.ConfigFile)
	if _, err := os.Stat(dst); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, err
	}

	data, err := os.ReadFile(b.path(b.Profile.ConfigTemplate))
	if err != nil {
		return false, err
	}
	if err := os.WriteFile(dst, data, 0o600); err != nil {
		return false, err
	}
	b.logger().Warn(fmt.Sprintf("⚠️ Created %s from %s", b.Profile.ConfigFile, b.Profile.ConfigTemplate))
	b.logger().Warn("Fill in DISCORD_BOT_TOKEN and the channel IDs before continuing")
	b.pause(fmt.Sprintf("Edit %s, then press Enter to continue...", b.Profile.ConfigFile))
	return true, nil
}

// EnsureEnvironment creates the environment directory when it is missing.
func (b *Bootstrapper) EnsureEnvironment(ctx context.Context, interpreter string) (bool, error) {
	dir := b.path(b.Profile.EnvDir)
	if info, err := os.Stat(dir); err == nil {
		if !info.IsDir() {
			return false, fmt.Errorf("%s exists and is not a directory", dir)
		}
		return false, nil
	}

	b.logger().Info("📦 Creating environment", "dir", b.Profile.EnvDir)
	if len(b.Profile.CreateEnv) == 0 {
		return true, os.MkdirAll(dir, 0o755)
	}
	if err := b.runner().Run(ctx, b.command(b.Profile.CreateEnv, interpreter, b.environ())); err != nil {
		return false, err
	}
	return true, nil
}

// Activate returns the child process environment. The launcher's own
// environment is left alone.
func (b *Bootstrapper) Activate() []string {
	env := b.environ()
	if !b.Profile.Activate {
		return env
	}
	return activate(env, b.path(b.Profile.EnvDir), b.binDir())
}

func activate(environ []string, envDir, binDir string) []string {
	out := make([]string, 0, len(environ)+2)
	path := ""
	for _, kv := range environ {
		k, v, _ := strings.Cut(kv, "=")
		switch {
		case strings.EqualFold(k, "PATH"):
			path = v
		case k == "VIRTUAL_ENV", k == "PYTHONHOME":
		default:
			out = append(out, kv)
		}
	}
	if path != "" {
		path = binDir + string(os.PathListSeparator) + path
	} else {
		path = binDir
	}
	return append(out, "VIRTUAL_ENV="+envDir, "PATH="+path)
}

func (b *Bootstrapper) InstallDependencies(ctx context.Context, interpreter string, env []string) error {
	if b.Profile.Manifest != "" {
		if _, err := os.Stat(b.path(b.Profile.Manifest)); err != nil {
			return fmt.Errorf("manifest: %w", err)
		}
	}
	for _, tmpl := range b.Profile.Install {
		c := b.command(tmpl, interpreter, env)
		b.logger().Info("📥 Installing dependencies", "cmd", c.String())
		if err := b.runner().Run(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

// Launch starts the bot and blocks until it exits.
func (b *Bootstrapper) Launch(ctx context.Context, interpreter string, env []string) error {
	c := b.command(b.Profile.Launch, interpreter, env)
	b.logger().Info("🚀 Starting bot", "cmd", c.String())
	return b.runner().Run(ctx, c)
}

func (b *Bootstrapper) environ() []string {
	if b.Environ != nil {
		return b.Environ()
	}
	return os.Environ()
}

func (b *Bootstrapper) binDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(b.path(b.Profile.EnvDir), "Scripts")
	}
	return filepath.Join(b.path(b.Profile.EnvDir), "bin")
}

func (b *Bootstrapper) command(tmpl []string, interpreter string, env []string) Command {
	exe := ""
	if runtime.GOOS == "windows" {
		exe = ".exe"
	}
	r := strings.NewReplacer(
		"{interpreter}", interpreter,
		"{env_python}", filepath.Join(b.binDir(), "python"+exe),
		"{env_bin}", b.binDir(),
		"{env}", b.path(b.Profile.EnvDir),
		"{manifest}", b.Profile.Manifest,
		"{exe}", exe,
	)
	args := make([]string, len(tmpl))
	for i, a := range tmpl {
		args[i] = r.Replace(a)
	}
	return Command{Name: filepath.FromSlash(args[0]), Args: args[1:], Dir: b.Root, Env: env}
}

// ExitCode maps a Run error to a process exit code. A launched program's own
// non-zero status is passed through.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var coder interface{ ExitCode() int }
	if errors.As(err, &coder) && coder.ExitCode() > 0 {
		return coder.ExitCode()
	}
	return 1
}
