// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package cmd

import (
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/crdb-ca/crdb-ca/cmd/version"
)

const rootCmdName = "crdb-ca"

func subcommandRegisterFuncs() []func(*Options) (*cobra.Command, error) {
	return []func(*Options) (*cobra.Command, error){
		newCACmd,
		newNodeCmd,
		newUserCmd,
		listCmd,
		versionCmd,
	}
}

// Entrypoint returns the root command with all subcommands attached and their
// flags bound to environment variables.
func Entrypoint() (*cobra.Command, error) {
	o := GetOptions()

	c := &cobra.Command{
		Use:   rootCmdName,
		Short: "create a private CA and sign node and user certificates with openssl",
		Long: "crdb-ca creates a certificate authority for a database cluster and signs\n" +
			"node and user certificates with it by driving the openssl command line tool.\n" +
			"Every flag can also be set with a CRDBCA_<COMMAND>_<FLAG> environment variable\n" +
			"or in a YAML file passed with --config.",
		PersistentPreRunE: func(cobraCmd *cobra.Command, _ []string) error {
			return preRunFn(cobraCmd, o)
		},
		SilenceUsage: true,
	}

	c.PersistentFlags().CountVarP(&o.Global.DebugCount, "debug", "d", "enable debug mode")
	c.PersistentFlags().StringVarP(&o.Global.LogLevel, "log-level", "", o.Global.LogLevel,
		"logging level; one of [debug, info, warn, error, fatal]")
	c.PersistentFlags().StringVarP(&o.Global.OpenSSL, "openssl", "", o.Global.OpenSSL,
		"openssl binary or command line to run it, e.g. \"docker run --rm -v $PWD:$PWD -w $PWD alpine/openssl\"")
	c.PersistentFlags().DurationVarP(&o.Global.Timeout, "timeout", "", o.Global.Timeout,
		"timeout for each openssl invocation, e.g: 30s, 1m; 0 disables the timeout")
	c.PersistentFlags().StringVarP(&o.Global.ConfigFile, "config", "c", "",
		"path to a YAML file with flag values keyed by command name")
	_ = c.MarkPersistentFlagFilename("config", "yaml", "yml")

	for _, f := range subcommandRegisterFuncs() {
		sub, err := f(o)
		if err != nil {
			return nil, err
		}

		c.AddCommand(sub)
	}

	if err := initViper(c); err != nil {
		return nil, err
	}

	return c, nil
}

func preRunFn(cobraCmd *cobra.Command, o *Options) error {
	// the config file itself can only come from the flag or CRDBCA_CONFIG
	if o.Global.ConfigFile == "" {
		o.Global.ConfigFile = v.GetString("config")
	}

	if err := readConfigFile(o.Global.ConfigFile); err != nil {
		return err
	}

	updateOptionsFromViper(cobraCmd, o)

	// setting log level
	switch {
	case o.Global.DebugCount > 0:
		log.SetLevel(log.DebugLevel)
	default:
		l, err := log.ParseLevel(o.Global.LogLevel)
		if err != nil {
			return err
		}

		log.SetLevel(l)
	}

	// openssl output and logs go to stderr, list output to stdout
	log.SetOutput(os.Stderr)

	log.SetTimeFormat(time.TimeOnly)

	return nil
}

func versionCmd(o *Options) (*cobra.Command, error) {
	return version.NewVersionCmd(func() (version.Prober, error) {
		s, err := o.Global.newSigner()
		if err != nil {
			return nil, err
		}

		return s, nil
	}), nil
}
