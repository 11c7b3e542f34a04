// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/crdb-ca/crdb-ca/cert"
)

func newUserCmd(o *Options) (*cobra.Command, error) {
	c := &cobra.Command{
		Use:   "new-user",
		Short: "generate and sign a user certificate",
		Long: "generate the user key (unless it exists) and a CSR, and sign it with the CA\n" +
			"for client authentication. The user name is the common name and the only SAN.",
		Args: cobra.NoArgs,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			return newUserFn(cobraCmd, o)
		},
	}

	c.Flags().StringVarP(&o.NewUser.Name, "name", "", o.NewUser.Name,
		"user name (required)")
	c.Flags().StringVarP(&o.NewUser.CertPath, "cert-path", "", o.NewUser.CertPath,
		"directory to store the user key and certificate in")
	c.Flags().StringVarP(&o.NewUser.CAPath, "ca-path", "", o.NewUser.CAPath,
		"directory holding the CA")
	c.Flags().StringVarP(&o.NewUser.CAPrefix, "ca-prefix", "", o.NewUser.CAPrefix,
		"file name prefix of the CA key, certificate and config")
	c.Flags().StringVarP(&o.NewUser.Organization, "organization", "", o.NewUser.Organization,
		"organization name of the user certificate")
	c.Flags().IntVarP(&o.NewUser.KeySize, "key-size", "", o.NewUser.KeySize,
		"size in bits of a newly generated RSA key")

	c.Example = `# Sign a client certificate for the root user
crdb-ca new-user --name root`

	return c, nil
}

func newUserFn(cobraCmd *cobra.Command, o *Options) error {
	userOpts := o.NewUser.toUserOptions()

	if err := userOpts.Validate(); err != nil {
		return err
	}

	caPaths, err := cert.NewCAPaths(o.NewUser.CAPath, o.NewUser.CAPrefix)
	if err != nil {
		return err
	}

	leaf, err := cert.NewLeafPaths(o.NewUser.CertPath, o.NewUser.Name)
	if err != nil {
		return err
	}

	ca, err := o.Global.newCA()
	if err != nil {
		return err
	}

	return ca.IssueUser(cobraCmd.Context(), caPaths, leaf, userOpts)
}
