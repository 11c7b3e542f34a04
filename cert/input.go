// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package cert

import (
	"fmt"
	"regexp"
	"strings"

	crdbcaerrors "github.com/crdb-ca/crdb-ca/errors"
)

var errIncorrectInput = crdbcaerrors.ErrIncorrectInput

var digestRe = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

// configMetaChars have a meaning inside an openssl config value: # starts a
// comment, $ expands a variable and \ escapes the next character.
const configMetaChars = `#$\`

// CAOptions holds the parameters of a new CA.
type CAOptions struct {
	OrganizationUnit string
	CommonName       string
	Digest           string
	Days             int
	KeySize          int
	// KeepDatabase skips the reset of the index and serial files when both exist.
	KeepDatabase bool
}

// Validate checks the options before anything is written to disk.
func (o *CAOptions) Validate() error {
	if o.Days <= 0 {
		return fmt.Errorf("%w: days must be positive, got %d", errIncorrectInput, o.Days)
	}

	if !digestRe.MatchString(o.Digest) {
		return fmt.Errorf("%w: invalid message digest %q", errIncorrectInput, o.Digest)
	}

	if err := validateKeySize(o.KeySize); err != nil {
		return err
	}

	if err := validateConfigValue("organizational unit", o.OrganizationUnit); err != nil {
		return err
	}

	return validateConfigValue("common name", o.CommonName)
}

// NodeOptions holds the parameters of a node certificate.
type NodeOptions struct {
	Name string
	SANs []string
	// SkipSANValidation embeds SAN entries as given, only rejecting line breaks.
	SkipSANValidation bool
	KeySize           int
}

// Validate checks the options before anything is written to disk.
func (o *NodeOptions) Validate() error {
	if err := validateConfigValue("name", o.Name); err != nil {
		return err
	}

	if err := validateKeySize(o.KeySize); err != nil {
		return err
	}

	if o.SkipSANValidation {
		return CheckSANsEmbeddable(o.SANs)
	}

	return ValidateSANs(o.SANs)
}

// UserOptions holds the parameters of a user certificate.
type UserOptions struct {
	Name         string
	Organization string
	KeySize      int
}

// Validate checks the options before anything is written to disk.
func (o *UserOptions) Validate() error {
	if err := validateConfigValue("name", o.Name); err != nil {
		return err
	}

	if err := ValidateSANs([]string{UserSAN(o.Name)}); err != nil {
		return fmt.Errorf("user name %q can't be used as a DNS SAN: %w", o.Name, err)
	}

	if err := validateKeySize(o.KeySize); err != nil {
		return err
	}

	return validateConfigValue("organization", o.Organization)
}

// validateKeySize accepts zero, which selects the default key size.
func validateKeySize(bits int) error {
	if bits != 0 && bits < 1024 {
		return fmt.Errorf("%w: key size must be at least 1024 bits, got %d", errIncorrectInput, bits)
	}
	return nil
}

// validateConfigValue rejects values that would break out of their config line
// or be rewritten by openssl when the config is loaded.
func validateConfigValue(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("%w: %s is required", errIncorrectInput, field)
	}

	if strings.ContainsAny(v, "\r\n") {
		return fmt.Errorf("%w: %s must not contain line breaks", errIncorrectInput, field)
	}

	if strings.ContainsAny(v, configMetaChars) {
		return fmt.Errorf("%w: %s %q must not contain any of %s", errIncorrectInput, field, v, configMetaChars)
	}

	return nil
}

// validateFileName checks a value used as a base file name.
func validateFileName(field, v string) error {
	if err := validateConfigValue(field, v); err != nil {
		return err
	}

	if strings.ContainsAny(v, `/\`) || v == "." || v == ".." {
		return fmt.Errorf("%w: %s %q must not contain path separators", errIncorrectInput, field, v)
	}

	return nil
}
