package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/atomicstack/tmux-portal/internal/app"
	"github.com/atomicstack/tmux-portal/internal/search"
	"github.com/pelletier/go-toml/v2"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	Dir     string
	File    File
	Flags   map[string]string
	Args    []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

// File mirrors config.toml. Pointer fields distinguish "absent" from the
// zero value so defaults can apply.
type File struct {
	SearchPaths    []string      `toml:"search_paths"`
	SearchPatterns []FilePattern `toml:"search_patterns"`
	ShowWindowIDs  *bool         `toml:"show_window_ids"`
	LineNumbers    LineNumbers   `toml:"line_numbers"`
}

type FilePattern struct {
	Name    string   `toml:"name"`
	Paths   []string `toml:"paths"`
	Pattern string   `toml:"pattern"`
}

type LineNumbers struct {
	Padding *int `toml:"padding"`
}

const (
	envSocketPath = "TMUX_PORTAL_SOCKET"
	envWidth      = "TMUX_PORTAL_WIDTH"
	envHeight     = "TMUX_PORTAL_HEIGHT"
	envShowFooter = "TMUX_PORTAL_FOOTER"
	envTrace      = "TMUX_PORTAL_TRACE"
	envLogFile    = "TMUX_PORTAL_LOG_FILE"
	envConfigDir  = "TMUX_PORTAL_CONFIG_DIR"
)

const (
	configFileName      = "config.toml"
	historyFileName     = "history.json"
	defaultLinePadding  = 5
	defaultConfigSample = `# tmux-portal configuration.

# Show tmux window ids next to window names.
# show_window_ids = true

# [line_numbers]
# padding = 5

# Project search patterns. Each path component is either a literal
# directory name or a {session}/{window} placeholder. A pattern without
# a {session} placeholder uses its name as the session.
#
# [[search_patterns]]
# name = "projects"
# paths = ["~/src"]
# pattern = "{session}/{window}"
`
)

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	fs := flag.NewFlagSet("tmux-portal", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	socket := fs.String("socket", envOrDefault(env, envSocketPath, ""), "path to the tmux socket (overrides environment detection)")
	width := fs.Int("width", envOrInt(env, envWidth, 0), "desired viewport width in cells (0 uses terminal width)")
	height := fs.Int("height", envOrInt(env, envHeight, 0), "desired viewport height in rows (0 uses terminal height)")
	footer := fs.Bool("footer", envOrBool(env, envShowFooter, false), "enable footer hint row (disabled by default)")
	trace := fs.Bool("trace", envOrBool(env, envTrace, false), "enable verbose JSON trace logging")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, ""), "path to the log file")
	configDir := fs.String("config-dir", envOrDefault(env, envConfigDir, ""), "directory holding config.toml and history.json")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *width < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", *width)
	}
	if *height < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", *height)
	}

	dir, err := resolveDir(*configDir)
	if err != nil {
		return Config{}, err
	}
	file, err := loadFile(dir)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		App: app.Config{
			SocketPath:        *socket,
			Width:             *width,
			Height:            *height,
			ShowFooter:        *footer,
			HistoryPath:       filepath.Join(dir, historyFileName),
			Patterns:          patterns(file),
			ShowWindowIDs:     file.ShowWindowIDs == nil || *file.ShowWindowIDs,
			LineNumberPadding: linePadding(file),
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		Dir:  dir,
		File: file,
		Flags: map[string]string{
			"socket":    *socket,
			"width":     strconv.Itoa(*width),
			"height":    strconv.Itoa(*height),
			"footer":    strconv.FormatBool(*footer),
			"trace":     strconv.FormatBool(*trace),
			"logFile":   *logFile,
			"configDir": dir,
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

// resolveDir picks the configuration directory and ensures it exists. A
// directory that cannot be created is a startup failure.
func resolveDir(override string) (string, error) {
	dir := override
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("locate config directory: %w", err)
		}
		dir = filepath.Join(base, "tmux-portal")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory %s: %w", dir, err)
	}
	return dir, nil
}

// loadFile reads config.toml from dir, writing a commented sample on
// first run so users have something to edit.
func loadFile(dir string) (File, error) {
	path := filepath.Join(dir, configFileName)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		if werr := os.WriteFile(path, []byte(defaultConfigSample), 0o644); werr != nil {
			return File{}, fmt.Errorf("write default config %s: %w", path, werr)
		}
		return File{}, nil
	}
	if err != nil {
		return File{}, fmt.Errorf("read config %s: %w", path, err)
	}
	var file File
	if err := toml.Unmarshal(data, &file); err != nil {
		return File{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return file, nil
}

// patterns converts the file's pattern entries into search patterns.
// The legacy search_paths key behaves like a {session}/{window} pattern, but
// only when no explicit search_patterns are configured.
func patterns(file File) []search.Pattern {
	if len(file.SearchPatterns) == 0 {
		if len(file.SearchPaths) == 0 {
			return nil
		}
		return []search.Pattern{{
			Name:     "git-style",
			Roots:    expandAll(file.SearchPaths),
			Template: "{session}/{window}",
		}}
	}
	out := make([]search.Pattern, 0, len(file.SearchPatterns))
	for _, p := range file.SearchPatterns {
		out = append(out, search.Pattern{
			Name:     p.Name,
			Roots:    expandAll(p.Paths),
			Template: p.Pattern,
		})
	}
	return out
}

func linePadding(file File) int {
	if file.LineNumbers.Padding == nil {
		return defaultLinePadding
	}
	if *file.LineNumbers.Padding < 0 {
		return 0
	}
	return *file.LineNumbers.Padding
}

func expandAll(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		out = append(out, expandHome(p))
	}
	return out
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// Validate ensures required minimum configuration is present.
func Validate(cfg Config) error {
	// Additional validation hooks can be placed here as configuration evolves.
	return nil
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}
