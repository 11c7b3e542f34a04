// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/crdb-ca/crdb-ca/cert"
)

func newNodeCmd(o *Options) (*cobra.Command, error) {
	c := &cobra.Command{
		Use:   "new-node [flags] SAN...",
		Short: "generate and sign a node certificate",
		Long: "generate the node key (unless it exists) and a CSR, and sign it with the CA.\n" +
			"SANs are one or more subject alternative names in openssl notation, e.g. DNS:foo or IP:1.2.3.4",
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return newNodeFn(cobraCmd, o, args)
		},
	}

	c.Flags().StringVarP(&o.NewNode.Name, "name", "", o.NewNode.Name,
		"node name, used as organization name and file name (required)")
	c.Flags().StringVarP(&o.NewNode.CertPath, "cert-path", "", o.NewNode.CertPath,
		"directory to store the node key and certificate in")
	c.Flags().StringVarP(&o.NewNode.CAPath, "ca-path", "", o.NewNode.CAPath,
		"directory holding the CA")
	c.Flags().StringVarP(&o.NewNode.CAPrefix, "ca-prefix", "", o.NewNode.CAPrefix,
		"file name prefix of the CA key, certificate and config")
	c.Flags().IntVarP(&o.NewNode.KeySize, "key-size", "", o.NewNode.KeySize,
		"size in bits of a newly generated RSA key")
	c.Flags().BoolVarP(&o.NewNode.SkipSANValidation, "skip-san-validation", "", o.NewNode.SkipSANValidation,
		"pass SANs to openssl without checking their type and value")

	c.Example = `# Sign a certificate for node foo, reachable by two names and an address
crdb-ca new-node --name foo DNS:foo DNS:foo.mydomain IP:1.2.3.4`

	return c, nil
}

func newNodeFn(cobraCmd *cobra.Command, o *Options, sans []string) error {
	nodeOpts := o.NewNode.toNodeOptions(sans)

	// reject bad input before the CA or cert directories are looked at
	if err := nodeOpts.Validate(); err != nil {
		return err
	}

	caPaths, err := cert.NewCAPaths(o.NewNode.CAPath, o.NewNode.CAPrefix)
	if err != nil {
		return err
	}

	leaf, err := cert.NewLeafPaths(o.NewNode.CertPath, o.NewNode.Name)
	if err != nil {
		return err
	}

	ca, err := o.Global.newCA()
	if err != nil {
		return err
	}

	return ca.IssueNode(cobraCmd.Context(), caPaths, leaf, nodeOpts)
}
