// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/crdb-ca/crdb-ca/cert"
	"github.com/crdb-ca/crdb-ca/constants"
	crdbcaerrors "github.com/crdb-ca/crdb-ca/errors"
)

func listCmd(o *Options) (*cobra.Command, error) {
	c := &cobra.Command{
		Use:     "list",
		Short:   "list certificates issued by the CA",
		Long:    "list the certificates recorded in the index of the CA",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			return listFn(cobraCmd.OutOrStdout(), o, time.Now())
		},
	}

	c.Flags().StringVarP(&o.List.CAPath, "ca-path", "", o.List.CAPath,
		"directory holding the CA")
	c.Flags().StringVarP(&o.List.CAPrefix, "ca-prefix", "", o.List.CAPrefix,
		"file name prefix of the CA key, certificate and config")
	c.Flags().StringVarP(&o.List.Format, "format", "f", o.List.Format,
		"output format. One of [table, json, yaml]")

	return c, nil
}

func listFn(w io.Writer, o *Options, now time.Time) error {
	p, err := cert.NewCAPaths(o.List.CAPath, o.List.CAPrefix)
	if err != nil {
		return err
	}

	entries, err := cert.ReadIndex(p)
	if err != nil {
		return err
	}

	switch o.List.Format {
	case constants.FormatJSON:
		if entries == nil {
			entries = []cert.IndexEntry{}
		}

		b, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal to JSON: %w", err)
		}

		fmt.Fprintln(w, string(b))
	case constants.FormatYAML:
		b, err := yaml.Marshal(entries)
		if err != nil {
			return fmt.Errorf("failed to marshal to YAML: %w", err)
		}

		fmt.Fprint(w, string(b))
	case constants.FormatTable:
		if len(entries) == 0 {
			fmt.Fprintln(w, "No certificates issued by this CA")
			return nil
		}

		printIndexTable(w, entries, now)
	default:
		return fmt.Errorf("%w: unknown output format %q", crdbcaerrors.ErrIncorrectInput, o.List.Format)
	}

	return nil
}

func printIndexTable(w io.Writer, entries []cert.IndexEntry, now time.Time) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatTitle

	t.AppendHeader(table.Row{"SERIAL", "STATUS", "SUBJECT", "EXPIRES", "", "REVOKED"})

	for _, e := range entries {
		revoked := constants.NotApplicable
		if !e.Revoked.IsZero() {
			revoked = e.Revoked.Format(time.DateOnly)
		}

		t.AppendRow(table.Row{
			e.Serial,
			string(e.Status),
			e.Subject,
			e.Expires.Format(time.DateOnly),
			humanize.RelTime(e.Expires, now, "ago", "from now"),
			revoked,
		})
	}

	t.Render()
}
