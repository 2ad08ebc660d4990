package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/mithrel/genieblog/internal/render"
)

// applyDefaults seeds Viper with defaults defined in GetConfigOptions.
func applyDefaults(v *viper.Viper) {
	for _, o := range GetConfigOptions() {
		v.SetDefault(o.Key, o.Default)
	}
}

// Load resolves configuration with precedence: defaults < file < env.
// The provided Viper instance is mutated with defaults, file contents, and env.
func Load(ctx context.Context, v *viper.Viper) error {
	if v.ConfigFileUsed() == "" {
		v.SetConfigName("config")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "genieblog"))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "genieblog"))
		}
		v.AddConfigPath(".")
	}

	applyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && v.ConfigFileUsed() != "" {
			if _, statErr := os.Stat(v.ConfigFileUsed()); statErr == nil {
				return fmt.Errorf("read config %s: %w", v.ConfigFileUsed(), err)
			}
		}
	}

	// Environment variables: GENIEBLOG_* (highest among these sources)
	v.SetEnvPrefix("genieblog")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if v.GetString("data_dir") == "" {
		v.Set("data_dir", defaultDataDir())
	}
	if strings.TrimSpace(v.GetString("gemini.api_key")) == "" {
		if k := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); k != "" {
			v.Set("gemini.api_key", k)
		}
	}
	// Allow comma-separated env override for tls.domains
	if s := strings.TrimSpace(os.Getenv("GENIEBLOG_TLS_DOMAINS")); s != "" {
		v.Set("tls.domains", splitList(s))
	}
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// defaultDataDir resolves default data dir: $XDG_DATA_HOME/genieblog or ~/.local/share/genieblog
func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "genieblog")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "genieblog")
}

// DefaultConfigPath resolves the standard config.toml location.
func DefaultConfigPath() string {
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		home, _ := os.UserHomeDir()
		xdg = filepath.Join(home, ".config")
	}
	return filepath.Join(xdg, "genieblog", "config.toml")
}

// ResolveDataDir returns data_dir with ~ expanded.
func ResolveDataDir(v *viper.Viper) string {
	dir := v.GetString("data_dir")
	if dir == "" {
		dir = defaultDataDir()
	}
	if len(dir) > 0 && dir[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, dir[1:])
		}
	}
	return dir
}

// ResolveDBPath returns the sqlite DB file path.
func ResolveDBPath(v *viper.Viper) string {
	return filepath.Join(ResolveDataDir(v), "genieblog.db")
}

// ResolveOutputDir returns output_dir, falling back to data_dir/output.
func ResolveOutputDir(v *viper.Viper) string {
	if d := strings.TrimSpace(v.GetString("output_dir")); d != "" {
		return d
	}
	return filepath.Join(ResolveDataDir(v), "output")
}

// CheckConfigValidity reports every problem in the config as one error.
func CheckConfigValidity(v *viper.Viper) error {
	var errs []error
	add := func(format string, args ...any) { errs = append(errs, fmt.Errorf(format, args...)) }

	if strings.TrimSpace(v.GetString("data_dir")) == "" {
		add("data_dir is required")
	}
	if strings.TrimSpace(v.GetString("http_addr")) == "" {
		add("http_addr is required")
	}
	for _, k := range []string{"api_url", "research.gaps_url", "research.questions_url", "research.methodology_url"} {
		if !validHTTPURL(v.GetString(k)) {
			add("%s must be an http(s) url", k)
		}
	}
	for _, k := range []string{"research.timeout", "research.methodology_timeout"} {
		if v.GetDuration(k) <= 0 {
			add("%s must be greater than 0", k)
		}
	}
	for _, k := range []string{"progress.step_delay", "progress.reveal_delay"} {
		if v.GetDuration(k) < 0 {
			add("%s must not be negative", k)
		}
	}
	if strings.TrimSpace(v.GetString("gemini.model")) == "" {
		add("gemini.model is required")
	}
	if _, err := render.ParseEngine(v.GetString("render.engine")); err != nil {
		add("render.engine: %v", err)
	}
	if v.GetInt("render.width") < 0 {
		add("render.width must not be negative")
	}
	cert, key := v.GetString("tls.cert_file"), v.GetString("tls.key_file")
	if (cert == "") != (key == "") {
		add("tls.cert_file and tls.key_file must be set together")
	}
	if cert != "" && len(v.GetStringSlice("tls.domains")) > 0 {
		add("tls.domains and tls.cert_file are mutually exclusive")
	}
	return errors.Join(errs...)
}

func validHTTPURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
