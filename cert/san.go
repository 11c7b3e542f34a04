// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package cert

import (
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"

	crdbcaerrors "github.com/crdb-ca/crdb-ca/errors"
)

// SAN type prefixes understood by the subjectAltName extension of openssl configs.
const (
	SANTypeDNS   = "DNS"
	SANTypeIP    = "IP"
	SANTypeEmail = "email"
	SANTypeURI   = "URI"
	SANTypeRID   = "RID"
)

var (
	dnsLabel = `[A-Za-z0-9_]([A-Za-z0-9_-]{0,61}[A-Za-z0-9_])?`
	dnsRe    = regexp.MustCompile(`^(\*\.)?` + dnsLabel + `(\.` + dnsLabel + `)*\.?$`)
	ridRe    = regexp.MustCompile(`^[0-9]+(\.[0-9]+)+$`)
)

// ValidateSANs checks that there is at least one entry and that every entry has
// the TYPE:value form with a well-formed value for its type.
func ValidateSANs(sans []string) error {
	if len(sans) == 0 {
		return crdbcaerrors.ErrMissingSANs
	}

	for _, s := range sans {
		if err := ValidateSAN(s); err != nil {
			return err
		}
	}

	return nil
}

// ValidateSAN checks a single subject alternative name entry, e.g. DNS:node1 or IP:10.0.0.1.
func ValidateSAN(san string) error {
	typ, value, ok := strings.Cut(san, ":")
	if !ok || value == "" {
		return fmt.Errorf("%w %q: expected TYPE:value", crdbcaerrors.ErrInvalidSAN, san)
	}

	if strings.ContainsAny(value, " \t\r\n,") {
		return fmt.Errorf("%w %q: value must not contain whitespace or commas", crdbcaerrors.ErrInvalidSAN, san)
	}

	if strings.ContainsAny(value, configMetaChars) {
		return fmt.Errorf("%w %q: value must not contain any of %s", crdbcaerrors.ErrInvalidSAN, san, configMetaChars)
	}

	switch typ {
	case SANTypeDNS:
		if len(value) > 253 || !dnsRe.MatchString(value) {
			return fmt.Errorf("%w %q: not a valid DNS name", crdbcaerrors.ErrInvalidSAN, san)
		}
	case SANTypeIP:
		if net.ParseIP(value) == nil {
			return fmt.Errorf("%w %q: not a valid IP address", crdbcaerrors.ErrInvalidSAN, san)
		}
	case SANTypeEmail:
		if local, domain, ok := strings.Cut(value, "@"); !ok || local == "" || !dnsRe.MatchString(domain) {
			return fmt.Errorf("%w %q: not a valid email address", crdbcaerrors.ErrInvalidSAN, san)
		}
	case SANTypeURI:
		if u, err := url.Parse(value); err != nil || u.Scheme == "" {
			return fmt.Errorf("%w %q: not an absolute URI", crdbcaerrors.ErrInvalidSAN, san)
		}
	case SANTypeRID:
		if !ridRe.MatchString(value) {
			return fmt.Errorf("%w %q: not a dotted OID", crdbcaerrors.ErrInvalidSAN, san)
		}
	default:
		return fmt.Errorf("%w %q: unsupported type %q, use one of %s, %s, %s, %s or %s",
			crdbcaerrors.ErrInvalidSAN, san, typ, SANTypeDNS, SANTypeIP, SANTypeEmail, SANTypeURI, SANTypeRID)
	}

	return nil
}

// CheckSANsEmbeddable is the pass-through check used when validation is skipped:
// entries are embedded verbatim, only line breaks and config metacharacters that would
// corrupt the config are rejected.
func CheckSANsEmbeddable(sans []string) error {
	if len(sans) == 0 {
		return crdbcaerrors.ErrMissingSANs
	}

	for _, s := range sans {
		if strings.TrimSpace(s) == "" || strings.ContainsAny(s, "\r\n") {
			return fmt.Errorf("%w %q: empty or multi-line entry", crdbcaerrors.ErrInvalidSAN, s)
		}

		if strings.ContainsAny(s, configMetaChars) {
			return fmt.Errorf("%w %q: must not contain any of %s", crdbcaerrors.ErrInvalidSAN, s, configMetaChars)
		}
	}

	return nil
}

// UserSAN is the single SAN embedded in user certificates.
func UserSAN(name string) string {
	return SANTypeDNS + ":" + name
}
