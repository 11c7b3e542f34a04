// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/crdb-ca/crdb-ca/cert"
)

func newCACmd(o *Options) (*cobra.Command, error) {
	c := &cobra.Command{
		Use:   "new-ca",
		Short: "create a new certificate authority",
		Long: "create the CA key (unless it exists), config and self-signed certificate and\n" +
			"initialise the serial and index files used when signing certificates",
		Args: cobra.NoArgs,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			return newCAFn(cobraCmd, o)
		},
	}

	c.Flags().StringVarP(&o.NewCA.OrganizationUnit, "ou", "", o.NewCA.OrganizationUnit,
		"organizational unit of the CA certificate")
	c.Flags().StringVarP(&o.NewCA.CommonName, "cn", "", o.NewCA.CommonName,
		"common name of the CA certificate")
	c.Flags().StringVarP(&o.NewCA.Digest, "md", "", o.NewCA.Digest,
		"message digest used for signing")
	c.Flags().IntVarP(&o.NewCA.Days, "days", "", o.NewCA.Days,
		"validity of the CA certificate and default validity of signed certificates, in days")
	c.Flags().StringVarP(&o.NewCA.CADir, "ca-dir", "", o.NewCA.CADir,
		"directory holding the CA files")
	c.Flags().StringVarP(&o.NewCA.Prefix, "prefix", "", o.NewCA.Prefix,
		"file name prefix of the CA key, certificate and config")
	c.Flags().IntVarP(&o.NewCA.KeySize, "key-size", "", o.NewCA.KeySize,
		"size in bits of a newly generated RSA key")
	c.Flags().BoolVarP(&o.NewCA.KeepDatabase, "keep-db", "", o.NewCA.KeepDatabase,
		"keep the existing index and serial files instead of resetting them")

	c.Example = `# Create a CA in ./ca with the defaults
crdb-ca new-ca

# Recreate the CA certificate without forgetting issued certificates
crdb-ca new-ca --cn "Prod CA" --days 730 --keep-db`

	return c, nil
}

func newCAFn(cobraCmd *cobra.Command, o *Options) error {
	p, err := cert.NewCAPaths(o.NewCA.CADir, o.NewCA.Prefix)
	if err != nil {
		return err
	}

	ca, err := o.Global.newCA()
	if err != nil {
		return err
	}

	return ca.Create(cobraCmd.Context(), p, o.NewCA.toCAOptions())
}
