// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package cert

import (
	"testing"

	crdbcaerrors "github.com/crdb-ca/crdb-ca/errors"
	"github.com/stretchr/testify/assert"
)

func TestValidateSAN(t *testing.T) {
	tests := []struct {
		san     string
		wantErr bool
	}{
		{san: "DNS:foo"},
		{san: "DNS:foo.mydomain"},
		{san: "DNS:*.cluster.local"},
		{san: "DNS:localhost."},
		{san: "DNS:_srv.example.com"},
		{san: "IP:1.2.3.4"},
		{san: "IP:::1"},
		{san: "IP:fd00::10"},
		{san: "email:admin@example.com"},
		{san: "URI:spiffe://cluster.local/ns/default"},
		{san: "RID:1.2.3.4"},
		{san: "foo", wantErr: true},
		{san: "DNS:", wantErr: true},
		{san: "dns:foo", wantErr: true},
		{san: "DNS:foo bar", wantErr: true},
		{san: "DNS:foo,IP:1.2.3.4", wantErr: true},
		{san: "DNS:-foo", wantErr: true},
		{san: "DNS:foo..bar", wantErr: true},
		{san: "IP:1.2.3.256", wantErr: true},
		{san: "IP:node1", wantErr: true},
		{san: "email:admin", wantErr: true},
		{san: "URI:/relative/path", wantErr: true},
		{san: "URI:https://foo/#frag", wantErr: true},
		{san: "URI:https://foo/$x", wantErr: true},
		{san: "RID:abc", wantErr: true},
		{san: "otherName:1.2.3;UTF8:foo", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.san, func(t *testing.T) {
			err := ValidateSAN(tt.san)
			if tt.wantErr {
				assert.ErrorIs(t, err, crdbcaerrors.ErrInvalidSAN)
				assert.ErrorIs(t, err, crdbcaerrors.ErrIncorrectInput)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateSANsEmpty(t *testing.T) {
	assert.ErrorIs(t, ValidateSANs(nil), crdbcaerrors.ErrMissingSANs)
	assert.ErrorIs(t, CheckSANsEmbeddable([]string{}), crdbcaerrors.ErrMissingSANs)
}

func TestCheckSANsEmbeddable(t *testing.T) {
	assert.NoError(t, CheckSANsEmbeddable([]string{"whatever goes", "DNS:foo"}))
	assert.ErrorIs(t, CheckSANsEmbeddable([]string{"DNS:foo\n[ ca ]"}), crdbcaerrors.ErrInvalidSAN)
	assert.ErrorIs(t, CheckSANsEmbeddable([]string{"  "}), crdbcaerrors.ErrInvalidSAN)
	assert.ErrorIs(t, CheckSANsEmbeddable([]string{"DNS:foo #bar"}), crdbcaerrors.ErrInvalidSAN)
	assert.ErrorIs(t, CheckSANsEmbeddable([]string{"DNS:$ENV::host"}), crdbcaerrors.ErrInvalidSAN)
}
