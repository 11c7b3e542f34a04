// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package cmd

import (
	"time"

	"github.com/crdb-ca/crdb-ca/cert"
	"github.com/crdb-ca/crdb-ca/constants"
	"github.com/crdb-ca/crdb-ca/exec"
	"github.com/crdb-ca/crdb-ca/openssl"
)

const (
	defaultCADays = 3650
	defaultCADir  = "ca"
	defaultPrefix = "ca"
)

var optionsInstance *Options //nolint:gochecknoglobals

// GetOptions returns the global options instance if it exists
// or creates a new one with default values for all options.
func GetOptions() *Options {
	if optionsInstance == nil {
		optionsInstance = &Options{
			Global: &GlobalOptions{
				LogLevel: "info",
				OpenSSL:  openssl.DefaultCommand,
			},
			NewCA: &NewCAOptions{
				OrganizationUnit: "Cockroach",
				CommonName:       "Cockroach CA",
				Digest:           "sha256",
				Days:             defaultCADays,
				CADir:            defaultCADir,
				Prefix:           defaultPrefix,
				KeySize:          constants.DefaultKeySize,
			},
			NewNode: &NewNodeOptions{
				CertPath: "node",
				CAPath:   defaultCADir,
				CAPrefix: defaultPrefix,
				KeySize:  constants.DefaultKeySize,
			},
			NewUser: &NewUserOptions{
				CertPath:     "user",
				CAPath:       defaultCADir,
				CAPrefix:     defaultPrefix,
				Organization: "CockroachDB",
				KeySize:      constants.DefaultKeySize,
			},
			List: &ListOptions{
				CAPath:   defaultCADir,
				CAPrefix: defaultPrefix,
				Format:   constants.FormatTable,
			},
		}
	}

	return optionsInstance
}

type Options struct {
	Global  *GlobalOptions
	NewCA   *NewCAOptions
	NewNode *NewNodeOptions
	NewUser *NewUserOptions
	List    *ListOptions
}

type GlobalOptions struct {
	LogLevel   string
	DebugCount int
	// OpenSSL is the openssl binary, or a command line wrapping it.
	OpenSSL    string
	Timeout    time.Duration
	ConfigFile string

	// executor replaces the local subprocess executor, used by tests.
	executor exec.Executor
}

// newSigner returns the openssl signer configured by the global options.
func (o *GlobalOptions) newSigner() (*openssl.Signer, error) {
	opts := []openssl.SignerOption{
		openssl.WithTimeout(o.Timeout),
	}

	if o.executor != nil {
		opts = append(opts, openssl.WithExecutor(o.executor))
	}

	return openssl.NewSigner(o.OpenSSL, opts...)
}

func (o *GlobalOptions) newCA() (*cert.CA, error) {
	s, err := o.newSigner()
	if err != nil {
		return nil, err
	}

	return cert.NewCA(s), nil
}

type NewCAOptions struct {
	OrganizationUnit string
	CommonName       string
	Digest           string
	Days             int
	CADir            string
	Prefix           string
	KeySize          int
	KeepDatabase     bool
}

func (o *NewCAOptions) toCAOptions() *cert.CAOptions {
	return &cert.CAOptions{
		OrganizationUnit: o.OrganizationUnit,
		CommonName:       o.CommonName,
		Digest:           o.Digest,
		Days:             o.Days,
		KeySize:          o.KeySize,
		KeepDatabase:     o.KeepDatabase,
	}
}

type NewNodeOptions struct {
	Name              string
	CertPath          string
	CAPath            string
	CAPrefix          string
	KeySize           int
	SkipSANValidation bool
}

func (o *NewNodeOptions) toNodeOptions(sans []string) *cert.NodeOptions {
	return &cert.NodeOptions{
		Name:              o.Name,
		SANs:              sans,
		SkipSANValidation: o.SkipSANValidation,
		KeySize:           o.KeySize,
	}
}

type NewUserOptions struct {
	Name         string
	CertPath     string
	CAPath       string
	CAPrefix     string
	Organization string
	KeySize      int
}

func (o *NewUserOptions) toUserOptions() *cert.UserOptions {
	return &cert.UserOptions{
		Name:         o.Name,
		Organization: o.Organization,
		KeySize:      o.KeySize,
	}
}

type ListOptions struct {
	CAPath   string
	CAPrefix string
	Format   string
}
