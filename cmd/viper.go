// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/crdb-ca/crdb-ca/constants"
)

var v *viper.Viper //nolint:gochecknoglobals

// initViper binds every flag of the command tree to viper so that flags can be
// given as CRDBCA_<COMMAND>_<FLAG> environment variables or config file keys.
func initViper(cmd *cobra.Command) error {
	v = viper.New()

	v.SetEnvPrefix(constants.EnvPrefix)

	// "new-node.ca-path" is looked up as CRDBCA_NEW_NODE_CA_PATH
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	v.AutomaticEnv()

	return bindFlagsWithPath(cmd, v, "")
}

// readConfigFile merges a YAML file into viper. Top level keys are the global
// flag names, nested maps are keyed by command name:
//
//	log-level: debug
//	new-ca:
//	  days: 730
func readConfigFile(path string) error {
	if path == "" {
		return nil
	}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	log.Debug("Loaded config file", "path", v.ConfigFileUsed())

	return nil
}

func isRootCommand(cmd *cobra.Command) bool {
	return cmd.Name() == rootCmdName || cmd.Name() == ""
}

// bindFlagsWithPath binds the flags of cmd under its dotted command path
// and recurses into subcommands.
func bindFlagsWithPath(cmd *cobra.Command, v *viper.Viper, parentPath string) error {
	path := parentPath

	root := isRootCommand(cmd)
	if !root {
		path = joinKey(parentPath, cmd.Name())
	}

	cmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		// root persistent flags are global, CRDBCA_<FLAG>
		if root {
			_ = v.BindPFlag(f.Name, f)
		}

		if path != "" {
			_ = v.BindPFlag(joinKey(path, f.Name), f)
		}
	})

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if cmd.PersistentFlags().Lookup(f.Name) != nil {
			return
		}

		// local flags are only reachable through the command path
		if path != "" {
			_ = v.BindPFlag(joinKey(path, f.Name), f)
		}
	})

	for _, sub := range cmd.Commands() {
		if err := bindFlagsWithPath(sub, v, path); err != nil {
			return err
		}
	}

	return nil
}

func joinKey(path, name string) string {
	if path == "" {
		return name
	}

	return path + "." + name
}

// updateOptionsFromViper copies values found by viper (env or config file) into
// every flag of cmd that was not set on the command line. Flags are bound to
// Options fields, so setting the flag updates the options.
func updateOptionsFromViper(cmd *cobra.Command, _ *Options) {
	cmdPath := getCommandPath(cmd)

	flags := make(map[string]*pflag.Flag)

	collect := func(fs *pflag.FlagSet) {
		fs.VisitAll(func(f *pflag.Flag) {
			if _, ok := flags[f.Name]; !ok {
				flags[f.Name] = f
			}
		})
	}

	collect(cmd.Flags())
	collect(cmd.PersistentFlags())

	for p := cmd.Parent(); p != nil; p = p.Parent() {
		collect(p.PersistentFlags())
	}

	for _, f := range flags {
		updateFlagFromViper(f, cmdPath)
	}
}

// getCommandPath returns the dotted path of cmd below the root, e.g. "new-node".
func getCommandPath(cmd *cobra.Command) string {
	var parts []string

	for c := cmd; c != nil && !isRootCommand(c); c = c.Parent() {
		parts = append([]string{c.Name()}, parts...)
	}

	return strings.Join(parts, ".")
}

// updateFlagFromViper sets f from viper unless it was given on the command line.
// The command scoped key wins over the global key of a root persistent flag.
func updateFlagFromViper(f *pflag.Flag, cmdPath string) {
	if f.Changed {
		return
	}

	key := joinKey(cmdPath, f.Name)
	found := v.IsSet(key)

	if !found && cmdPath != "" && slices.Contains(v.AllKeys(), f.Name) {
		key = f.Name
		found = v.IsSet(key)
	}

	if !found {
		return
	}

	var val string

	switch f.Value.Type() {
	case "stringSlice", "stringArray":
		val = strings.Join(v.GetStringSlice(key), ",")
	default:
		// pflag values parse their own string form, durations and counts included
		val = v.GetString(key)
	}

	if val == "" {
		return
	}

	if err := f.Value.Set(val); err != nil {
		log.Warn("Ignoring invalid value from environment or config file",
			"key", key, "value", val, "error", err)
	}
}
