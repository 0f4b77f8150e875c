// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/jeranaias/tatvax-tui/internal/config"
)

func configCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change configuration",
		Long: `Show or change configuration.

Examples:
  tatvax config show
  tatvax config path
  tatvax config init
  tatvax config get server.url
  tatvax config set session.language hi`,
	}
	cmd.AddCommand(configShowCmd(e), configPathCmd(e), configInitCmd(e), configGetCmd(e), configSetCmd(e))
	return cmd
}

// configFile returns the file the config commands read and write.
func (e *env) configFile() (string, error) {
	if e.flags.ConfigPath != "" {
		return e.flags.ConfigPath, nil
	}
	if path := config.FindConfigFile(); path != "" {
		return path, nil
	}
	return config.ConfigPathTOML()
}

func configShowCmd(e *env) *cobra.Command {
	var jsonMode bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: e.wrap(func(cmd *cobra.Command, args []string) error {
			cfg := e.app.Config
			if jsonMode {
				return NewJSONResponse("config show", cfg).Write(e.app.Out)
			}
			return toml.NewEncoder(e.app.Out).Encode(cfg)
		}),
	}
	cmd.Flags().BoolVar(&jsonMode, "json", false, "output as JSON")
	return cmd
}

func configPathCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: e.wrap(func(cmd *cobra.Command, args []string) error {
			path, err := e.configFile()
			if err != nil {
				return err
			}
			e.app.Printer.Line("%s", path)
			return nil
		}),
	}
}

func configInitCmd(e *env) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: e.wrap(func(cmd *cobra.Command, args []string) error {
			path, err := e.configFile()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return NewCommandError("config init", path+" already exists (use --force to overwrite)", ExitUsageError, nil)
			}
			if err := config.SaveToPath(config.Default(), path); err != nil {
				return NewCommandError("config init", "write failed", ExitConfigError, err)
			}
			e.app.Printer.Success("Wrote " + path)
			return nil
		}),
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}

func configGetCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:       "get <key>",
		Short:     "Print one configuration value",
		Args:      cobra.ExactArgs(1),
		ValidArgs: config.GetAllKeys(),
		RunE: e.wrap(func(cmd *cobra.Command, args []string) error {
			v, err := e.app.Config.Get(args[0])
			if err != nil {
				return NewCommandError("config get", args[0], ExitUsageError, err)
			}
			e.app.Printer.Line("%v", v)
			return nil
		}),
	}
}

func configSetCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:       "set <key> <value>",
		Short:     "Change one value in the config file",
		Args:      cobra.ExactArgs(2),
		ValidArgs: config.GetAllKeys(),
		RunE: e.wrap(func(cmd *cobra.Command, args []string) error {
			path, err := e.configFile()
			if err != nil {
				return err
			}

			// Start from the file, not the effective config, so that flag
			// overrides are not written back.
			cfg := config.Default()
			if _, statErr := os.Stat(path); statErr == nil {
				loaded, err := config.LoadFromPath(path)
				if err != nil {
					return NewCommandError("config set", "cannot read "+path, ExitConfigError, err)
				}
				cfg = loaded
			}

			if err := cfg.Set(args[0], args[1]); err != nil {
				return NewCommandError("config set", args[0], ExitUsageError, err)
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("config set %s: %w", args[0], err)
			}
			if err := config.SaveToPath(cfg, path); err != nil {
				return NewCommandError("config set", "write failed", ExitConfigError, err)
			}
			e.app.Printer.Success(fmt.Sprintf("%s = %s", args[0], args[1]))
			return nil
		}),
	}
}
