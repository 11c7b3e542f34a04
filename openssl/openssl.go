// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

// Package openssl drives the openssl command line tool. Every operation is a single
// blocking subprocess call; a non-zero exit is returned as an error carrying the
// step that failed and the tool's stderr.
package openssl

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/crdb-ca/crdb-ca/exec"
)

// DefaultCommand is the openssl binary looked up on PATH.
const DefaultCommand = "openssl"

// Signer invokes openssl to create keys, CSRs and certificates.
type Signer struct {
	base     *exec.ExecCmd
	executor exec.Executor
	timeout  time.Duration
}

// SignerOption configures a Signer.
type SignerOption func(*Signer)

// WithTimeout bounds every openssl invocation. Zero means no timeout.
func WithTimeout(d time.Duration) SignerOption {
	return func(s *Signer) {
		s.timeout = d
	}
}

// WithExecutor replaces the executor used to run openssl.
func WithExecutor(e exec.Executor) SignerOption {
	return func(s *Signer) {
		s.executor = e
	}
}

// NewSigner returns a Signer running command, which is split into words
// so wrappers like "docker run --rm -v $PWD:/w -w /w alpine/openssl" work.
func NewSigner(command string, opts ...SignerOption) (*Signer, error) {
	if strings.TrimSpace(command) == "" {
		command = DefaultCommand
	}

	base, err := exec.NewExecCmdFromString(command)
	if err != nil {
		return nil, fmt.Errorf("failed to parse openssl command %q: %w", command, err)
	}

	if len(base.GetCmd()) == 0 {
		return nil, fmt.Errorf("failed to parse openssl command %q: %w", command, exec.ErrEmptyCmd)
	}

	s := &Signer{
		base:     base,
		executor: exec.NewLocalExecutor(),
	}

	for _, o := range opts {
		o(s)
	}

	return s, nil
}

// GenRSA generates an RSA private key of the given size at keyPath.
func (s *Signer) GenRSA(ctx context.Context, keyPath string, bits int) error {
	_, err := s.run(ctx, "generating private key", s.base.WithArgs(
		"genrsa",
		"-out", keyPath,
		strconv.Itoa(bits),
	))
	return err
}

// SelfSignRequest describes a self-signed CA certificate.
type SelfSignRequest struct {
	Config string
	Key    string
	Out    string
	Days   int
}

// SelfSign creates a self-signed certificate using the req section of the config.
func (s *Signer) SelfSign(ctx context.Context, r SelfSignRequest) error {
	_, err := s.run(ctx, "creating CA certificate", s.base.WithArgs(
		"req", "-new", "-x509",
		"-config", r.Config,
		"-key", r.Key,
		"-out", r.Out,
		"-days", strconv.Itoa(r.Days),
		"-batch",
	))
	return err
}

// CSRRequest describes a certificate signing request.
type CSRRequest struct {
	Config string
	Key    string
	Out    string
}

// NewCSR creates a certificate signing request.
func (s *Signer) NewCSR(ctx context.Context, r CSRRequest) error {
	_, err := s.run(ctx, "generating CSR", s.base.WithArgs(
		"req", "-new",
		"-config", r.Config,
		"-key", r.Key,
		"-out", r.Out,
		"-batch",
	))
	return err
}

// SignRequest describes the signing of a CSR by a CA using `openssl ca`.
type SignRequest struct {
	// CADir is the working directory of the signing process. The CA config
	// refers to its database and serial files relative to it.
	CADir      string
	Config     string
	Key        string
	Cert       string
	Policy     string
	Extensions string
	In         string
	Out        string
	OutDir     string
}

// SignCSR signs a CSR with the CA, updating the CA's index and serial files.
func (s *Signer) SignCSR(ctx context.Context, r SignRequest) error {
	cmd := s.base.WithArgs(
		"ca",
		"-config", r.Config,
		"-keyfile", r.Key,
		"-cert", r.Cert,
		"-policy", r.Policy,
		"-extensions", r.Extensions,
		"-out", r.Out,
		"-outdir", r.OutDir,
		"-in", r.In,
		"-batch",
	).InDir(r.CADir)

	_, err := s.run(ctx, "signing certificate", cmd)
	return err
}

func (s *Signer) run(ctx context.Context, step string, cmd *exec.ExecCmd) (*exec.ExecResult, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	log.Debugf("openssl: %s", step)

	res, err := s.executor.Exec(ctx, cmd)
	if err != nil {
		if res != nil {
			if stderr := strings.TrimSpace(res.GetStdErrString()); stderr != "" {
				return res, fmt.Errorf("error %s: %w\n%s", step, err, stderr)
			}
		}
		return res, fmt.Errorf("error %s: %w", step, err)
	}

	return res, nil
}
