// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package cert

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	crdbcaerrors "github.com/crdb-ca/crdb-ca/errors"
)

func TestParseIndex(t *testing.T) {
	in := strings.Join([]string{
		"V\t350101120000Z\t\t01\tunknown\t/O=node1",
		"R\t350101120000Z\t240601083000Z,keyCompromise\t02\tunknown\t/O=CockroachDB/CN=root",
		"",
		"E\t20200101000000Z\t\t0A\t0A.pem\t/O=old",
	}, "\n") + "\n"

	got, err := ParseIndex(strings.NewReader(in))
	require.NoError(t, err)

	want := []IndexEntry{
		{
			Status:   StatusValid,
			Expires:  time.Date(2035, 1, 1, 12, 0, 0, 0, time.UTC),
			Serial:   "01",
			Filename: "unknown",
			Subject:  "/O=node1",
		},
		{
			Status:           StatusRevoked,
			Expires:          time.Date(2035, 1, 1, 12, 0, 0, 0, time.UTC),
			Revoked:          time.Date(2024, 6, 1, 8, 30, 0, 0, time.UTC),
			RevocationReason: "keyCompromise",
			Serial:           "02",
			Filename:         "unknown",
			Subject:          "/O=CockroachDB/CN=root",
		},
		{
			Status:   StatusExpired,
			Expires:  time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
			Serial:   "0A",
			Filename: "0A.pem",
			Subject:  "/O=old",
		},
	}

	if d := cmp.Diff(want, got); d != "" {
		t.Fatalf("ParseIndex() mismatch (-want +got):\n%s", d)
	}
}

func TestParseIndexErrors(t *testing.T) {
	tests := map[string]string{
		"too few fields": "V\t350101120000Z\t01\n",
		"unknown status": "X\t350101120000Z\t\t01\tunknown\t/O=a\n",
		"bad expiry":     "V\tnever\t\t01\tunknown\t/O=a\n",
		"bad revocation": "R\t350101120000Z\tyesterday\t01\tunknown\t/O=a\n",
	}

	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseIndex(strings.NewReader(in))
			assert.Error(t, err)
		})
	}
}

func TestReadIndex(t *testing.T) {
	dir := t.TempDir()
	p := mustCAPaths(t, dir)

	_, err := ReadIndex(p)
	require.ErrorIs(t, err, crdbcaerrors.ErrFileNotFound)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.txt"), nil, 0o644))

	entries, err := ReadIndex(p)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
