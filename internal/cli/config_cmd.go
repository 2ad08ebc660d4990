package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	xterm "github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/mithrel/genieblog/internal/config"
	"github.com/mithrel/genieblog/internal/keys"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}
	cmd.AddCommand(newConfigGenerateCmd())
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigSecretCmd())
	return cmd
}

func newConfigGenerateCmd() *cobra.Command {
	var out string
	var overwrite bool
	var update bool
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a default config.toml",
		// Must work even when the current config does not load.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				out = config.DefaultConfigPath()
			}
			if overwrite && update {
				return fmt.Errorf("choose either --overwrite or --update")
			}
			return writeConfigFile(cmd, out, overwrite, update)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output path for config.toml")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "overwrite existing config (creates a backup)")
	cmd.Flags().BoolVar(&update, "update", false, "merge defaults into existing config (creates a backup)")
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			v := getApp(cmd).Cfg
			w := cmd.OutOrStdout()
			if used := v.ConfigFileUsed(); used != "" {
				_, _ = fmt.Fprintf(w, "# config file: %s\n", used)
			}
			for _, o := range config.GetConfigOptions() {
				val := v.Get(o.Key)
				if isSecretKey(o.Key) && v.GetString(o.Key) != "" {
					val = "(set)"
				}
				_, _ = fmt.Fprintf(w, "%s = %v\n", o.Key, val)
			}
			return nil
		},
	}
}

func isSecretKey(key string) bool { return keys.IsSecret(key) }

func newConfigSecretCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Store gemini.api_key or auth.token in the system keyring",
		// The keyring is reachable without a valid config.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	}
	cmd.AddCommand(&cobra.Command{
		Use:       "set <key>",
		Short:     "Read a secret from stdin (or a prompt) and store it",
		Args:      cobra.ExactArgs(1),
		ValidArgs: keys.SecretKeys,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !keys.IsSecret(args[0]) {
				return fmt.Errorf("not a secret key: %s", args[0])
			}
			val, err := readSecret(cmd, args[0])
			if err != nil {
				return err
			}
			if val == "" {
				return fmt.Errorf("empty value")
			}
			if err := (&keys.KeyringStore{}).Put(args[0], []byte(val)); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Stored %s in keyring\n", args[0])
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:       "delete <key>",
		Short:     "Remove a secret from the keyring",
		Args:      cobra.ExactArgs(1),
		ValidArgs: keys.SecretKeys,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !keys.IsSecret(args[0]) {
				return fmt.Errorf("not a secret key: %s", args[0])
			}
			return (&keys.KeyringStore{}).Delete(args[0])
		},
	})
	return cmd
}

func readSecret(cmd *cobra.Command, key string) (string, error) {
	if !xterm.IsTerminal(os.Stdin.Fd()) || cmd.InOrStdin() != os.Stdin {
		data, err := io.ReadAll(cmd.InOrStdin())
		return strings.TrimSpace(string(data)), err
	}
	var val string
	input := huh.NewInput().
		Title(key).
		EchoMode(huh.EchoModePassword).
		Value(&val)
	if err := huh.NewForm(huh.NewGroup(input)).Run(); err != nil {
		return "", err
	}
	return strings.TrimSpace(val), nil
}

func writeConfigFile(cmd *cobra.Command, out string, overwrite, update bool) error {
	if err := os.MkdirAll(filepath.Dir(out), 0o700); err != nil {
		return err
	}

	exists := fileExists(out)
	if exists && !overwrite && !update {
		return fmt.Errorf("config already exists at %s; use --overwrite to replace (this will delete your current config) or --update to merge defaults", out)
	}

	content := ""
	if update && exists {
		data, err := os.ReadFile(out)
		if err != nil {
			return err
		}
		updated, changed := config.UpdateTOML(string(data))
		if !changed {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Config already up to date: %s\n", out)
			return nil
		}
		content = updated
	} else {
		content = config.RenderDefaultTOML()
	}

	var backupPath string
	if exists && (overwrite || update) {
		var err error
		backupPath, err = backupConfig(out)
		if err != nil {
			return err
		}
	}

	if err := os.WriteFile(out, []byte(content), 0o600); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
	if backupPath != "" {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Backup: %s\n", backupPath)
	}
	return nil
}

func backupConfig(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	backup := path + ".bak"
	if fileExists(backup) {
		backup = fmt.Sprintf("%s.bak-%s", path, time.Now().Format("20060102-150405"))
	}
	if err := os.WriteFile(backup, data, 0o600); err != nil {
		return "", err
	}
	return backup, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
