package launcher

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type exitStatus int

func (e exitStatus) Error() string { return "exit status" }
func (e exitStatus) ExitCode() int { return int(e) }

// fakeRunner records commands. The venv command creates the directory it names.
type fakeRunner struct {
	calls  []Command
	launch error
}

func (f *fakeRunner) Run(_ context.Context, c Command) error {
	f.calls = append(f.calls, c)
	if slices.Contains(c.Args, "venv") {
		return os.MkdirAll(c.Args[len(c.Args)-1], 0o755)
	}
	if slices.Contains(c.Args, "bot.py") {
		return f.launch
	}
	return nil
}

func (f *fakeRunner) steps() []string {
	var out []string
	for _, c := range f.calls {
		switch {
		case slices.Contains(c.Args, "venv"):
			out = append(out, "create")
		case slices.Contains(c.Args, "pip"):
			out = append(out, "install")
		case slices.Contains(c.Args, "bot.py"):
			out = append(out, "launch")
		default:
			out = append(out, c.String())
		}
	}
	return out
}

func lookPath(found ...string) func(string) (string, error) {
	return func(name string) (string, error) {
		if slices.Contains(found, name) {
			return "/usr/bin/" + name, nil
		}
		return "", exec.ErrNotFound
	}
}

func newWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.example"), []byte("DISCORD_BOT_TOKEN=your_token_here\nCHANNEL_NEW_LOTTERIES=0\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "requirements.txt"), []byte("discord.py\n"), 0o644))
	return dir
}

func newBootstrapper(t *testing.T, root string, runner *fakeRunner, found ...string) (*Bootstrapper, *[]string) {
	t.Helper()
	p, err := Builtin("python")
	require.NoError(t, err)
	var pauses []string
	return &Bootstrapper{
		Profile:  p,
		Root:     root,
		LookPath: lookPath(found...),
		Runner:   runner,
		Pause:    func(msg string) { pauses = append(pauses, msg) },
		Environ:  func() []string { return []string{"HOME=/home/bot", "PATH=/usr/bin", "PYTHONHOME=/opt/py", "VIRTUAL_ENV=/old"} },
	}, &pauses
}

func TestRun_MissingInterpreter(t *testing.T) {
	root := newWorkspace(t)
	runner := &fakeRunner{}
	b, pauses := newBootstrapper(t, root, runner)

	_, err := b.Run(context.Background())
	require.ErrorIs(t, err, ErrInterpreterMissing)
	require.Equal(t, 1, ExitCode(err))
	require.Len(t, *pauses, 1)

	require.Empty(t, runner.calls)
	require.NoFileExists(t, filepath.Join(root, ".env"))
	require.NoDirExists(t, filepath.Join(root, ".venv"))
}

func TestRun_FreshWorkspace(t *testing.T) {
	root := newWorkspace(t)
	runner := &fakeRunner{}
	b, pauses := newBootstrapper(t, root, runner, "python")

	report, err := b.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, &Report{Interpreter: "/usr/bin/python", ConfigCreated: true, EnvCreated: true}, report)

	want, err := os.ReadFile(filepath.Join(root, ".env.example"))
	require.NoError(t, err)
	got, err := os.ReadFile(filepath.Join(root, ".env"))
	require.NoError(t, err)
	require.Equal(t, want, got)
	require.Len(t, *pauses, 1)

	if diff := cmp.Diff([]string{"create", "install", "launch"}, runner.steps()); diff != "" {
		t.Errorf("steps mismatch (-want +got):\n%s", diff)
	}
	require.DirExists(t, filepath.Join(root, ".venv"))
}

func TestRun_Idempotent(t *testing.T) {
	root := newWorkspace(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), []byte("DISCORD_BOT_TOKEN=real\n"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(root, ".venv"), 0o755))

	runner := &fakeRunner{}
	b, pauses := newBootstrapper(t, root, runner, "python3")

	report, err := b.Run(context.Background())
	require.NoError(t, err)
	require.False(t, report.ConfigCreated)
	require.False(t, report.EnvCreated)
	require.Empty(t, *pauses)
	require.Equal(t, []string{"install", "launch"}, runner.steps())

	got, err := os.ReadFile(filepath.Join(root, ".env"))
	require.NoError(t, err)
	require.Equal(t, "DISCORD_BOT_TOKEN=real\n", string(got))
}

func TestRun_PropagatesExitCode(t *testing.T) {
	root := newWorkspace(t)
	runner := &fakeRunner{launch: exitStatus(3)}
	b, _ := newBootstrapper(t, root, runner, "python3")

	_, err := b.Run(context.Background())
	require.Error(t, err)
	require.Equal(t, 3, ExitCode(err))
}

func TestRun_MissingManifest(t *testing.T) {
	root := newWorkspace(t)
	require.NoError(t, os.Remove(filepath.Join(root, "requirements.txt")))
	runner := &fakeRunner{}
	b, _ := newBootstrapper(t, root, runner, "python3")

	_, err := b.Run(context.Background())
	require.ErrorIs(t, err, os.ErrNotExist)
	require.True(t, strings.HasPrefix(err.Error(), "launcher: install:"))
	require.Equal(t, []string{"create"}, runner.steps())
}

func TestActivate(t *testing.T) {
	got := activate([]string{"HOME=/h", "PATH=/usr/bin", "PYTHONHOME=/x", "VIRTUAL_ENV=/old"}, "/w/.venv", "/w/.venv/bin")
	want := []string{"HOME=/h", "VIRTUAL_ENV=/w/.venv", "PATH=/w/.venv/bin" + string(os.PathListSeparator) + "/usr/bin"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("activate mismatch (-want +got):\n%s", diff)
	}

	require.Equal(t, []string{"VIRTUAL_ENV=/e", "PATH=/e/bin"}, activate(nil, "/e", "/e/bin"))
}

func TestCommandExpansion(t *testing.T) {
	b, _ := newBootstrapper(t, "/work", &fakeRunner{})
	c := b.command(b.Profile.Install[0], "/usr/bin/python3", nil)
	require.Equal(t, filepath.Join("/work", ".venv", "bin", "python"), c.Name)
	require.Equal(t, []string{"-m", "pip", "install", "-r", "requirements.txt"}, c.Args)
	require.Equal(t, "/work", c.Dir)
}

func TestLoadProfile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "launcher.yaml")
	require.NoError(t, os.WriteFile(file, []byte("env_dir: env\nlaunch: [\"{env_python}\", \"main.py\"]\n"), 0o644))

	p, err := LoadProfile("python", file)
	require.NoError(t, err)
	require.Equal(t, "env", p.EnvDir)
	require.Equal(t, []string{"{env_python}", "main.py"}, p.Launch)
	require.Equal(t, []string{"python3", "python"}, p.Interpreters)

	_, err = LoadProfile("ruby", "")
	require.ErrorIs(t, err, ErrUnknownProfile)

	require.NoError(t, os.WriteFile(file, []byte("launch: []\n"), 0o644))
	_, err = LoadProfile("go", file)
	require.ErrorContains(t, err, "launch is empty")
}

func TestBuiltin_ReturnsCopy(t *testing.T) {
	p, err := Builtin("go")
	require.NoError(t, err)
	p.Install[0][0] = "changed"

	again, err := Builtin("go")
	require.NoError(t, err)
	require.Equal(t, "{interpreter}", again.Install[0][0])
}

func TestExitCode(t *testing.T) {
	require.Equal(t, 0, ExitCode(nil))
	require.Equal(t, 1, ExitCode(errors.New("boom")))
	require.Equal(t, 2, ExitCode(errors.Join(errors.New("wrap"), exitStatus(2))))
}

func shell(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("needs POSIX signals")
	}
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	return sh
}

func runUntilReady(t *testing.T, r ExecRunner, script string, args ...string) (context.CancelFunc, <-chan error) {
	t.Helper()
	sh := shell(t)
	ready := filepath.Join(t.TempDir(), "ready")
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	done := make(chan error, 1)
	go func() {
		done <- r.Run(ctx, Command{Name: sh, Args: append([]string{"-c", script, "sh", ready}, args...)})
	}()
	require.Eventually(t, func() bool {
		_, err := os.Stat(ready)
		return err == nil
	}, 5*time.Second, 10*time.Millisecond)
	return cancel, done
}

func TestExecRunner_CancelLetsChildCleanUp(t *testing.T) {
	cleaned := filepath.Join(t.TempDir(), "cleaned")
	script := `trap 'sleep 0.3; echo done > "$2"; exit 0' INT; : > "$1"; while :; do sleep 0.05; done`
	cancel, done := runUntilReady(t, ExecRunner{GracePeriod: 5 * time.Second}, script, cleaned)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("runner did not return after cancel")
	}
	require.FileExists(t, cleaned)
}

func TestExecRunner_KillsAfterGracePeriod(t *testing.T) {
	script := `trap '' INT; : > "$1"; while :; do sleep 0.05; done`
	cancel, done := runUntilReady(t, ExecRunner{GracePeriod: 200 * time.Millisecond}, script)

	cancel()
	select {
	case err := <-done:
		require.Error(t, err)
		require.Equal(t, 1, ExitCode(err))
	case <-time.After(10 * time.Second):
		t.Fatal("runner did not return after grace period")
	}
}
