// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package utils

import (
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGetRegexpCaptureGroups(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		search  string
		want    map[string]string
		wantErr bool
		errStr  string
	}{
		{
			name:    "openssl_version",
			pattern: `^(?P<flavor>OpenSSL|LibreSSL)\s+(?P<version>\d+\.\d+\.\d+)`,
			search:  "OpenSSL 3.0.13 30 Jan 2024 (Library: OpenSSL 3.0.13 30 Jan 2024)",
			want: map[string]string{
				"flavor":  "OpenSSL",
				"version": "3.0.13",
			},
		},
		{
			name:    "partial_named_groups",
			pattern: `(?P<type>DNS|IP):(\S+)`,
			search:  "IP:1.2.3.4",
			want: map[string]string{
				"type": "IP",
			},
		},
		{
			name:    "no_named_groups",
			pattern: `(\w+):(\S+)`,
			search:  "DNS:foo",
			want:    map[string]string{},
		},
		{
			name:    "no_match",
			pattern: `^(?P<flavor>OpenSSL|LibreSSL)\s`,
			search:  "BoringSSL",
			wantErr: true,
			errStr:  "does not match regexp",
		},
		{
			name:    "empty_search",
			pattern: `(?P<word>\w+)`,
			search:  "",
			wantErr: true,
			errStr:  "does not match regexp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GetRegexpCaptureGroups(regexp.MustCompile(tt.pattern), tt.search)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got none")
				}

				if !strings.Contains(err.Error(), tt.errStr) {
					t.Errorf("error %q does not contain %q", err, tt.errStr)
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if d := cmp.Diff(tt.want, got); d != "" {
				t.Errorf("capture groups mismatch (-want +got):\n%s", d)
			}
		})
	}
}
