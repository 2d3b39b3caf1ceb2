package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mithrel/ticketlist/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and generate the ticketlist configuration",
	}
	cmd.AddCommand(newConfigGenerateCmd())
	cmd.AddCommand(newConfigShowCmd())
	return cmd
}

// generateMode is what `config generate` does to the target file.
type generateMode int

const (
	modeCreate generateMode = iota
	modeReplace
	modeMerge
)

func newConfigGenerateCmd() *cobra.Command {
	var out string
	var overwrite, update, toStdout bool
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a config.toml with every ticketlist option and its default",
		Example: `  ticketlist config generate
  ticketlist config generate --update
  ticketlist config generate --stdout > ticketlist.toml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if overwrite && update {
				return fmt.Errorf("--overwrite and --update are mutually exclusive")
			}
			if toStdout {
				_, err := io.WriteString(cmd.OutOrStdout(), config.RenderDefaultTOML())
				return err
			}
			if out == "" {
				out = config.DefaultConfigPath()
			}
			mode := modeCreate
			switch {
			case update:
				mode = modeMerge
			case overwrite:
				mode = modeReplace
			}
			return generateConfig(cmd.Context(), cmd.OutOrStdout(), out, mode)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "target path (default: $XDG_CONFIG_HOME/ticketlist/config.toml)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace an existing config, keeping a backup")
	cmd.Flags().BoolVar(&update, "update", false, "add missing options to an existing config, keeping a backup")
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "print the default config instead of writing a file")
	return cmd
}

// generateConfig writes the config at path according to mode and checks
// that the written file still loads and validates.
func generateConfig(ctx context.Context, w io.Writer, path string, mode generateMode) error {
	existing, err := os.ReadFile(path)
	exists := err == nil
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read %s: %w", path, err)
	}

	content := config.RenderDefaultTOML()
	switch {
	case exists && mode == modeCreate:
		return fmt.Errorf("config already exists at %s (use --update to add missing options or --overwrite to replace it)", path)
	case exists && mode == modeMerge:
		merged, changed := config.UpdateTOML(string(existing))
		if !changed {
			fmt.Fprintf(w, "Config at %s already has every ticketlist option\n", path)
			return nil
		}
		content = merged
	case !exists:
		mode = modeCreate
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	var backup string
	if exists {
		if backup, err = backupConfig(path, existing); err != nil {
			return fmt.Errorf("backup %s: %w", path, err)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return err
	}
	if err := checkConfigFile(ctx, path); err != nil {
		return fmt.Errorf("generated config at %s does not load: %w", path, err)
	}

	switch mode {
	case modeCreate:
		fmt.Fprintf(w, "Created config at %s\n", path)
	case modeReplace:
		fmt.Fprintf(w, "Replaced config at %s\n", path)
	case modeMerge:
		fmt.Fprintf(w, "Merged missing options into %s\n", path)
	}
	if backup != "" {
		fmt.Fprintf(w, "Previous config saved as %s\n", backup)
	}
	return nil
}

// checkConfigFile loads path the way the root command does and validates it.
func checkConfigFile(ctx context.Context, path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := config.Load(ctx, v); err != nil {
		return err
	}
	return config.CheckConfigValidity(v)
}

// backupConfig copies data next to path as path.bak, or path.bak.N when
// earlier backups exist.
func backupConfig(path string, data []byte) (string, error) {
	backup := path + ".bak"
	for n := 1; fileExists(backup); n++ {
		backup = fmt.Sprintf("%s.bak.%d", path, n)
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

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings after defaults, file, env and flags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getApp(cmd).Cfg
			w := cmd.OutOrStdout()
			source := cfg.ConfigFileUsed()
			if !fileExists(source) {
				source = "defaults"
			}
			fmt.Fprintf(w, "# source: %s\n", source)
			for _, opt := range config.GetConfigOptions() {
				fmt.Fprintf(w, "%s = %q\n", opt.Key, cfg.GetString(opt.Key))
			}
			return nil
		},
	}
}
