// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package version

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/crdb-ca/crdb-ca/constants"
	"github.com/crdb-ca/crdb-ca/openssl"
)

// Version variables set at build time (e.g., with -ldflags).
var (
	Version = "0.0.0"
	commit  = "none"
	date    = "unknown"
)

const repoURL = "https://github.com/crdb-ca/crdb-ca"

// Prober reports the release of the openssl tool in use.
type Prober interface {
	Version(ctx context.Context) (*openssl.Release, error)
}

// NewVersionCmd returns the version command. newProber is called lazily so that
// flags such as --openssl are already parsed.
func NewVersionCmd(newProber func() (Prober, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "show crdb-ca and openssl versions",
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			return printVersion(cobraCmd.Context(), cobraCmd.OutOrStdout(), newProber)
		},
	}
}

func printVersion(ctx context.Context, w io.Writer, newProber func() (Prober, error)) error {
	fmt.Fprintf(w, "    version: %s\n", Version)
	fmt.Fprintf(w, "     commit: %s\n", commit)
	fmt.Fprintf(w, "       date: %s\n", date)
	fmt.Fprintf(w, "     source: %s\n", repoURL)

	checkStatus := os.Getenv(constants.EnvVersionCheck)
	log.Debugf("Env: %s=%s", constants.EnvVersionCheck, checkStatus)

	if strings.Contains(strings.ToLower(checkStatus), "disable") {
		return nil
	}

	p, err := newProber()
	if err != nil {
		return err
	}

	rel, err := p.Version(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "    openssl: %s\n", rel.Raw)

	if !rel.Supported() {
		log.Warn("openssl is older than the minimum supported release, signing may fail",
			"found", rel.Version.String(), "minimum", openssl.MinimumVersion)
	}

	return nil
}
