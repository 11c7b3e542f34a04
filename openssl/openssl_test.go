// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package openssl_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crdb-ca/crdb-ca/exec"
	"github.com/crdb-ca/crdb-ca/openssl"
	"github.com/crdb-ca/crdb-ca/openssl/openssltest"
)

func newSigner(t *testing.T, command string) (*openssl.Signer, *openssltest.FakeExecutor) {
	t.Helper()

	fake := openssltest.NewFakeExecutor()
	s, err := openssl.NewSigner(command, openssl.WithExecutor(fake))
	require.NoError(t, err)

	return s, fake
}

func TestSignerArguments(t *testing.T) {
	dir := t.TempDir()
	key := filepath.Join(dir, "ca.key")
	cnf := filepath.Join(dir, "ca.cnf")
	crt := filepath.Join(dir, "ca.crt")

	s, fake := newSigner(t, "")
	ctx := context.Background()

	require.NoError(t, s.GenRSA(ctx, key, 2048))
	require.NoError(t, s.SelfSign(ctx, openssl.SelfSignRequest{Config: cnf, Key: key, Out: crt, Days: 3650}))

	want := [][]string{
		{"openssl", "genrsa", "-out", key, "2048"},
		{
			"openssl", "req", "-new", "-x509", "-config", cnf, "-key", key,
			"-out", crt, "-days", "3650", "-batch",
		},
	}

	got := make([][]string, 0, len(fake.Commands))
	for _, c := range fake.Commands {
		got = append(got, c.GetCmd())
	}

	if d := cmp.Diff(want, got); d != "" {
		t.Fatalf("commands mismatch (-want +got):\n%s", d)
	}
}

func TestSignCSRRunsInCADir(t *testing.T) {
	s, fake := newSigner(t, "/usr/local/bin/openssl")
	fake.FailOn["ca"] = true

	err := s.SignCSR(context.Background(), openssl.SignRequest{
		CADir:      "/srv/ca",
		Config:     "/srv/ca/ca.cnf",
		Key:        "/srv/ca/ca.key",
		Cert:       "/srv/ca/ca.crt",
		Policy:     "signing_policy",
		Extensions: "signing_node_req",
		In:         "/srv/node/foo.csr",
		Out:        "/srv/node/foo.crt",
		OutDir:     "/srv/node",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, exec.ErrNonZeroExit))
	assert.Contains(t, err.Error(), "error signing certificate")
	assert.Contains(t, err.Error(), "forced failure of ca")

	require.Len(t, fake.Commands, 1)
	c := fake.Commands[0]
	assert.Equal(t, "/srv/ca", c.Dir)
	assert.Equal(t, "/usr/local/bin/openssl", c.GetCmd()[0])
	assert.Equal(t, "-batch", c.GetCmd()[len(c.GetCmd())-1])
	assert.Contains(t, c.GetCmdString(), "-extensions signing_node_req")
	assert.Contains(t, c.GetCmdString(), "-policy signing_policy")
}

func TestNewSignerWrapperCommand(t *testing.T) {
	s, fake := newSigner(t, "docker run --rm alpine/openssl")

	require.NoError(t, s.GenRSA(context.Background(), filepath.Join(t.TempDir(), "k"), 4096))
	require.Len(t, fake.Commands, 1)
	assert.Equal(t, []string{"docker", "run", "--rm", "alpine/openssl", "genrsa"}, fake.Commands[0].GetCmd()[:5])

	_, err := openssl.NewSigner(`"unterminated`)
	assert.Error(t, err)
}

func TestParseRelease(t *testing.T) {
	tests := []struct {
		name          string
		out           string
		wantFlavor    string
		wantVersion   string
		wantSupported bool
		wantErr       bool
	}{
		{
			name:          "openssl 3",
			out:           "OpenSSL 3.0.2 15 Mar 2022 (Library: OpenSSL 3.0.2 15 Mar 2022)\n",
			wantFlavor:    "OpenSSL",
			wantVersion:   "3.0.2",
			wantSupported: true,
		},
		{
			name:          "openssl 1.1.1 letter release",
			out:           "OpenSSL 1.1.1w  11 Sep 2023",
			wantFlavor:    "OpenSSL",
			wantVersion:   "1.1.1",
			wantSupported: true,
		},
		{
			name:          "openssl 1.0.2",
			out:           "OpenSSL 1.0.2k-fips  26 Jan 2017",
			wantFlavor:    "OpenSSL",
			wantVersion:   "1.0.2",
			wantSupported: false,
		},
		{
			name:          "libressl",
			out:           "LibreSSL 3.3.6",
			wantFlavor:    "LibreSSL",
			wantVersion:   "3.3.6",
			wantSupported: true,
		},
		{
			name:    "garbage",
			out:     "command not found",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := openssl.ParseRelease(tt.out)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantFlavor, r.Flavor)
			assert.Equal(t, tt.wantVersion, r.Version.String())
			assert.Equal(t, tt.wantSupported, r.Supported())
		})
	}
}

func TestSignerVersion(t *testing.T) {
	s, fake := newSigner(t, "openssl")
	fake.VersionOutput = "OpenSSL 3.2.1 30 Jan 2024\n"

	r, err := s.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "3.2.1", r.Version.String())

	fake.FailOn["version"] = true
	_, err = s.Version(context.Background())
	assert.ErrorIs(t, err, exec.ErrNonZeroExit)
}
