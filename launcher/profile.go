package launcher

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrUnknownProfile = errors.New("unknown profile")

// Profile describes how to prepare and start one flavour of the bot.
//
// Command templates may use these placeholders:
//
//	{interpreter}  the resolved interpreter path
//	{env}          absolute path of the environment directory
//	{env_bin}      the environment's bin (Scripts on Windows) directory
//	{env_python}   the environment's python executable
//	{manifest}     the dependency manifest
//	{exe}          ".exe" on Windows, empty elsewhere
type Profile struct {
	Name         string   `yaml:"name"`
	Interpreters []string `yaml:"interpreters"`

	ConfigFile     string `yaml:"config_file"`
	ConfigTemplate string `yaml:"config_template"`

	EnvDir string `yaml:"env_dir"`
	// CreateEnv builds the environment. When empty the directory is just created.
	CreateEnv []string `yaml:"create_env"`
	// Activate exports VIRTUAL_ENV and puts the env's bin dir first on PATH.
	Activate bool `yaml:"activate"`

	Manifest string     `yaml:"manifest"`
	Install  [][]string `yaml:"install"`
	Launch   []string   `yaml:"launch"`
}

var builtins = map[string]Profile{
	"python": {
		Name:           "python",
		Interpreters:   []string{"python3", "python"},
		ConfigFile:     ".env",
		ConfigTemplate: ".env.example",
		EnvDir:         ".venv",
		CreateEnv:      []string{"{interpreter}", "-m", "venv", "{env}"},
		Activate:       true,
		Manifest:       "requirements.txt",
		Install: [][]string{
			{"{env_python}", "-m", "pip", "install", "-r", "{manifest}"},
		},
		Launch: []string{"{env_python}", "bot.py"},
	},
	"go": {
		Name:           "go",
		Interpreters:   []string{"go"},
		ConfigFile:     ".env",
		ConfigTemplate: ".env.example",
		EnvDir:         "bin",
		Manifest:       "go.mod",
		Install: [][]string{
			{"{interpreter}", "mod", "download"},
			{"{interpreter}", "build", "-o", "{env}/chancebot{exe}", "."},
		},
		Launch: []string{"{env}/chancebot{exe}", "run"},
	},
}

// Builtin returns a copy of a built-in profile.
func Builtin(name string) (Profile, error) {
	p, ok := builtins[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w %q (have %s)", ErrUnknownProfile, name, strings.Join(ProfileNames(), ", "))
	}
	p.Interpreters = append([]string(nil), p.Interpreters...)
	p.CreateEnv = append([]string(nil), p.CreateEnv...)
	p.Launch = append([]string(nil), p.Launch...)
	install := make([][]string, len(p.Install))
	for i, c := range p.Install {
		install[i] = append([]string(nil), c...)
	}
	p.Install = install
	return p, nil
}

func ProfileNames() []string {
	names := make([]string, 0, len(builtins))
	for n := range builtins {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// LoadProfile starts from the named built-in and overlays the fields set in
// the YAML file at path. An empty path means no overrides.
func LoadProfile(name, path string) (Profile, error) {
	p, err := Builtin(name)
	if err != nil {
		return Profile{}, err
	}
	if path == "" {
		return p, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read profile file: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("parse profile file %s: %w", path, err)
	}
	return p, p.Validate()
}

func (p Profile) Validate() error {
	var problems []string
	if len(p.Interpreters) == 0 {
		problems = append(problems, "interpreters is empty")
	}
	if p.EnvDir == "" {
		problems = append(problems, "env_dir is empty")
	}
	if len(p.Launch) == 0 {
		problems = append(problems, "launch is empty")
	}
	if p.ConfigTemplate != "" && p.ConfigFile == "" {
		problems = append(problems, "config_template set without config_file")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid profile %q: %s", p.Name, strings.Join(problems, "; "))
	}
	return nil
}
