// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package cert

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/crdb-ca/crdb-ca/constants"
	crdbcaerrors "github.com/crdb-ca/crdb-ca/errors"
	"github.com/crdb-ca/crdb-ca/openssl"
	"github.com/crdb-ca/crdb-ca/utils"
)

// Signer is the external tool doing the cryptographic work.
type Signer interface {
	GenRSA(ctx context.Context, keyPath string, bits int) error
	SelfSign(ctx context.Context, r openssl.SelfSignRequest) error
	NewCSR(ctx context.Context, r openssl.CSRRequest) error
	SignCSR(ctx context.Context, r openssl.SignRequest) error
}

// CA creates a certificate authority on disk and issues node and user certificates with it.
// It keeps no state between calls: everything lives in the directories the paths point to.
//
// Each operation is a linear sequence of steps that are either idempotent (directory exists,
// key exists) or fatal. A failure leaves already written files in place and stops.
type CA struct {
	signer Signer
}

// NewCA returns a CA delegating key generation and signing to signer.
func NewCA(signer Signer) *CA {
	return &CA{signer: signer}
}

// Create creates (or recreates) the CA described by p.
// An existing CA key is reused. The config and certificate are always regenerated and,
// unless o.KeepDatabase is set and both files exist, the index and serial files are reset.
func (ca *CA) Create(ctx context.Context, p CAPaths, o *CAOptions) error {
	cnf, err := RenderCAConfig(o)
	if err != nil {
		return err
	}

	log.Info("Creating CA", "dir", p.Dir, "cn", o.CommonName, "ou", o.OrganizationUnit,
		"md", o.Digest, "days", o.Days)

	if err := ensureDirectory(p.Dir); err != nil {
		return err
	}

	if err := ca.ensureKey(ctx, p.KeyAbsFilename(), o.KeySize); err != nil {
		return err
	}

	if err := utils.CreateFile(p.ConfigAbsFilename(), cnf); err != nil {
		return fmt.Errorf("failed to write CA config: %w", err)
	}

	log.Info("Wrote CA config", "path", p.ConfigAbsFilename())

	err = ca.signer.SelfSign(ctx, openssl.SelfSignRequest{
		Config: p.ConfigAbsFilename(),
		Key:    p.KeyAbsFilename(),
		Out:    p.CertAbsFilename(),
		Days:   o.Days,
	})
	if err != nil {
		return err
	}

	log.Info("Created CA certificate", "path", p.CertAbsFilename())

	return resetDatabase(p, o.KeepDatabase)
}

// IssueNode creates a key (if absent), CSR and certificate for a node, signed with the
// node extension profile (server and client auth).
func (ca *CA) IssueNode(ctx context.Context, caPaths CAPaths, leaf LeafPaths, o *NodeOptions) error {
	cnf, err := RenderNodeConfig(o)
	if err != nil {
		return err
	}

	log.Info("Issuing node certificate", "name", o.Name, "sans", strings.Join(o.SANs, ","))

	return ca.issue(ctx, caPaths, leaf, cnf, o.KeySize, NodeExtensionsSection)
}

// IssueUser creates a key (if absent), CSR and certificate for a user, signed with the
// client extension profile (client auth only).
func (ca *CA) IssueUser(ctx context.Context, caPaths CAPaths, leaf LeafPaths, o *UserOptions) error {
	cnf, err := RenderUserConfig(o)
	if err != nil {
		return err
	}

	log.Info("Issuing user certificate", "name", o.Name, "organization", o.Organization)

	return ca.issue(ctx, caPaths, leaf, cnf, o.KeySize, UserExtensionsSection)
}

func (ca *CA) issue(ctx context.Context, caPaths CAPaths, leaf LeafPaths, cnf string,
	keySize int, extensions string,
) error {
	if err := checkCABundle(caPaths); err != nil {
		return err
	}

	if err := ensureDirectory(leaf.Dir); err != nil {
		return err
	}

	if err := ca.ensureKey(ctx, leaf.KeyAbsFilename(), keySize); err != nil {
		return err
	}

	if err := utils.CreateFile(leaf.ConfigAbsFilename(), cnf); err != nil {
		return fmt.Errorf("failed to write certificate config: %w", err)
	}

	log.Info("Wrote certificate config", "path", leaf.ConfigAbsFilename())

	err := ca.signer.NewCSR(ctx, openssl.CSRRequest{
		Config: leaf.ConfigAbsFilename(),
		Key:    leaf.KeyAbsFilename(),
		Out:    leaf.CSRAbsFilename(),
	})
	if err != nil {
		return err
	}

	log.Info("Generated CSR", "path", leaf.CSRAbsFilename())

	err = ca.signer.SignCSR(ctx, openssl.SignRequest{
		CADir:      caPaths.Dir,
		Config:     caPaths.ConfigAbsFilename(),
		Key:        caPaths.KeyAbsFilename(),
		Cert:       caPaths.CertAbsFilename(),
		Policy:     SigningPolicy,
		Extensions: extensions,
		In:         leaf.CSRAbsFilename(),
		Out:        leaf.CertAbsFilename(),
		OutDir:     leaf.Dir,
	})
	if err != nil {
		return fmt.Errorf("failed to sign certificate for %s: %w", leaf.Name, err)
	}

	log.Info("Signed certificate", "path", leaf.CertAbsFilename())

	return nil
}

// ensureKey generates a key at path unless one already exists there.
// An existing key is authoritative and is never overwritten.
func (ca *CA) ensureKey(ctx context.Context, path string, bits int) error {
	if utils.FileExists(path) {
		log.Warn("Key already exists, not creating a new one", "path", path)
		return nil
	}

	if bits == 0 {
		bits = constants.DefaultKeySize
	}

	if err := ca.signer.GenRSA(ctx, path, bits); err != nil {
		return err
	}

	log.Info("Generated private key", "path", path, "bits", bits)

	return nil
}

func ensureDirectory(dir string) error {
	created, err := utils.CreateDirectory(dir, constants.PermissionsDirDefault)
	if err != nil {
		return err
	}

	if created {
		log.Info("Created directory", "path", dir)
	} else {
		log.Info("Directory already exists, continuing", "path", dir)
	}

	return nil
}

// checkCABundle makes sure the files needed for signing are in place before
// anything is written for the new certificate.
func checkCABundle(p CAPaths) error {
	for _, f := range []string{
		p.KeyAbsFilename(),
		p.CertAbsFilename(),
		p.ConfigAbsFilename(),
		p.IndexAbsFilename(),
		p.SerialAbsFilename(),
	} {
		if !utils.FileExists(f) {
			return fmt.Errorf("%w: %s, create the CA with new-ca first", crdbcaerrors.ErrFileNotFound, f)
		}
	}

	return nil
}

// resetDatabase truncates the index and writes the initial serial.
// This forgets every certificate issued so far, so it is reported loudly.
func resetDatabase(p CAPaths, keep bool) error {
	index, serial := p.IndexAbsFilename(), p.SerialAbsFilename()

	if keep && utils.FileExists(index) && utils.FileExists(serial) {
		log.Info("Keeping existing CA database", "index", index, "serial", serial)
		return nil
	}

	if entries, err := ReadIndex(p); err == nil && len(entries) > 0 {
		log.Warn("Resetting CA database, previously issued certificates are forgotten",
			"issued", len(entries), "index", index)
	}

	if err := utils.WriteFile(index, nil); err != nil {
		return fmt.Errorf("failed to reset %s: %w", index, err)
	}

	log.Info("Index was reset", "path", index)

	if err := utils.CreateFile(serial, constants.InitialSerial+"\n"); err != nil {
		return fmt.Errorf("failed to reset %s: %w", serial, err)
	}

	log.Info("Serial was reset", "path", serial)

	return nil
}
