// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package cert

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	crdbcaerrors "github.com/crdb-ca/crdb-ca/errors"
)

func TestCAPaths(t *testing.T) {
	p, err := NewCAPaths("ca", "root")
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(p.Dir))
	assert.Equal(t, filepath.Join(p.Dir, "root.key"), p.KeyAbsFilename())
	assert.Equal(t, filepath.Join(p.Dir, "root.crt"), p.CertAbsFilename())
	assert.Equal(t, filepath.Join(p.Dir, "root.cnf"), p.ConfigAbsFilename())
	assert.Equal(t, filepath.Join(p.Dir, "index.txt"), p.IndexAbsFilename())
	assert.Equal(t, filepath.Join(p.Dir, "serial.txt"), p.SerialAbsFilename())
}

func TestLeafPaths(t *testing.T) {
	p, err := NewLeafPaths("node", "foo")
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(p.Dir))
	assert.Equal(t, filepath.Join(p.Dir, "foo.key"), p.KeyAbsFilename())
	assert.Equal(t, filepath.Join(p.Dir, "foo.crt"), p.CertAbsFilename())
	assert.Equal(t, filepath.Join(p.Dir, "foo.csr"), p.CSRAbsFilename())
	assert.Equal(t, filepath.Join(p.Dir, "foo.cnf"), p.ConfigAbsFilename())
}

func TestPathsRejectBadNames(t *testing.T) {
	for _, name := range []string{"", "../foo", "a/b", "..", "x\ny"} {
		_, err := NewLeafPaths("node", name)
		assert.ErrorIs(t, err, crdbcaerrors.ErrIncorrectInput, "name %q", name)

		_, err = NewCAPaths("ca", name)
		assert.ErrorIs(t, err, crdbcaerrors.ErrIncorrectInput, "prefix %q", name)
	}

	_, err := NewCAPaths("", "ca")
	assert.ErrorIs(t, err, crdbcaerrors.ErrIncorrectInput)
}
