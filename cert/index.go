// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package cert

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	crdbcaerrors "github.com/crdb-ca/crdb-ca/errors"
)

// Status of a certificate in the CA index.
type Status string

const (
	StatusValid   Status = "valid"
	StatusRevoked Status = "revoked"
	StatusExpired Status = "expired"
)

var statusFlags = map[string]Status{
	"V": StatusValid,
	"R": StatusRevoked,
	"E": StatusExpired,
}

// IndexEntry is one issued certificate as recorded by `openssl ca` in the CA index.
type IndexEntry struct {
	Status           Status    `json:"status" yaml:"status"`
	Expires          time.Time `json:"expires" yaml:"expires"`
	Revoked          time.Time `json:"revoked,omitzero" yaml:"revoked,omitempty"`
	RevocationReason string    `json:"revocation_reason,omitempty" yaml:"revocation_reason,omitempty"`
	Serial           string    `json:"serial" yaml:"serial"`
	Filename         string    `json:"filename" yaml:"filename"`
	Subject          string    `json:"subject" yaml:"subject"`
}

// ReadIndex reads and parses the index file of the CA.
func ReadIndex(p CAPaths) ([]IndexEntry, error) {
	f, err := os.Open(p.IndexAbsFilename())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s, create the CA with new-ca first",
				crdbcaerrors.ErrFileNotFound, p.IndexAbsFilename())
		}
		return nil, err
	}
	defer f.Close()

	return ParseIndex(f)
}

// ParseIndex parses the tab separated index format:
// status, expiry, revocation[,reason], serial, filename, subject.
func ParseIndex(r io.Reader) ([]IndexEntry, error) {
	var entries []IndexEntry

	s := bufio.NewScanner(r)
	line := 0

	for s.Scan() {
		line++

		text := strings.TrimRight(s.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}

		fields := strings.Split(text, "\t")
		if len(fields) != 6 {
			return nil, fmt.Errorf("index line %d: expected 6 tab separated fields, got %d", line, len(fields))
		}

		status, ok := statusFlags[fields[0]]
		if !ok {
			return nil, fmt.Errorf("index line %d: unknown status %q", line, fields[0])
		}

		expires, err := parseIndexTime(fields[1])
		if err != nil {
			return nil, fmt.Errorf("index line %d: %w", line, err)
		}

		e := IndexEntry{
			Status:   status,
			Expires:  expires,
			Serial:   fields[3],
			Filename: fields[4],
			Subject:  fields[5],
		}

		if fields[2] != "" {
			ts, reason, _ := strings.Cut(fields[2], ",")

			e.Revoked, err = parseIndexTime(ts)
			if err != nil {
				return nil, fmt.Errorf("index line %d: %w", line, err)
			}

			e.RevocationReason = reason
		}

		entries = append(entries, e)
	}

	if err := s.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// parseIndexTime parses UTCTime (YYMMDDHHMMSSZ) and GeneralizedTime (YYYYMMDDHHMMSSZ) stamps.
func parseIndexTime(v string) (time.Time, error) {
	layout := "060102150405Z"
	if len(v) == len("20060102150405Z") {
		layout = "20060102150405Z"
	}

	t, err := time.Parse(layout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", v, err)
	}

	return t, nil
}
