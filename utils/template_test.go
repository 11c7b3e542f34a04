// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package utils

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRenderTemplate(t *testing.T) {
	tests := map[string]struct {
		text    string
		data    any
		want    string
		wantErr bool
	}{
		"plain field": {
			text: "default_days = {{ .Days }}",
			data: struct{ Days int }{Days: 365},
			want: "default_days = 365",
		},
		"sprig join": {
			text: "subjectAltName = {{ join \", \" .SANs }}",
			data: map[string]any{"SANs": []string{"DNS:foo", "IP:1.2.3.4"}},
			want: "subjectAltName = DNS:foo, IP:1.2.3.4",
		},
		"sprig default": {
			text: "{{ .MD | default \"sha256\" }}",
			data: map[string]any{"MD": ""},
			want: "sha256",
		},
		"missing map key": {
			text:    "{{ .Missing }}",
			data:    map[string]any{},
			wantErr: true,
		},
		"parse error": {
			text:    "{{ .Days ",
			data:    nil,
			wantErr: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := RenderTemplate(name, tc.text, tc.data)
			if (err != nil) != tc.wantErr {
				t.Fatalf("RenderTemplate() error = %v, wantErr %v", err, tc.wantErr)
			}

			if tc.wantErr {
				return
			}

			if d := cmp.Diff(tc.want, got); d != "" {
				t.Fatalf("RenderTemplate() mismatch (-want +got):\n%s", d)
			}
		})
	}
}
