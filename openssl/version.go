// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package openssl

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	gover "github.com/hashicorp/go-version"

	"github.com/crdb-ca/crdb-ca/utils"
)

// MinimumVersion is the oldest OpenSSL release known to understand the generated configs
// (copy_extensions with req_extensions and critical keyUsage).
const MinimumVersion = "1.1.1"

var versionRe = regexp.MustCompile(`^(?P<flavor>OpenSSL|LibreSSL)\s+(?P<version>\d+\.\d+\.\d+)`)

// Release is the parsed output of `openssl version`.
type Release struct {
	// Flavor is either OpenSSL or LibreSSL.
	Flavor  string
	Version *gover.Version
	Raw     string
}

// Version runs `openssl version` and parses its output.
func (s *Signer) Version(ctx context.Context) (*Release, error) {
	res, err := s.run(ctx, "querying version", s.base.WithArgs("version"))
	if err != nil {
		return nil, err
	}

	return ParseRelease(res.GetStdOutString())
}

// ParseRelease parses an `openssl version` line such as
// "OpenSSL 3.0.2 15 Mar 2022 (Library: OpenSSL 3.0.2 15 Mar 2022)" or "OpenSSL 1.1.1w  11 Sep 2023".
// Letter suffixes of 1.x patch releases are dropped.
func ParseRelease(out string) (*Release, error) {
	raw := strings.TrimSpace(out)

	m, err := utils.GetRegexpCaptureGroups(versionRe, raw)
	if err != nil {
		return nil, fmt.Errorf("unrecognized openssl version output: %w", err)
	}

	v, err := gover.NewVersion(m["version"])
	if err != nil {
		return nil, fmt.Errorf("failed to parse openssl version %q: %w", m["version"], err)
	}

	return &Release{
		Flavor:  m["flavor"],
		Version: v,
		Raw:     raw,
	}, nil
}

// Supported reports whether the release is recent enough. LibreSSL releases are
// accepted as they follow their own numbering.
func (r *Release) Supported() bool {
	if r.Flavor != "OpenSSL" {
		return true
	}

	return r.Version.GreaterThanOrEqual(gover.Must(gover.NewVersion(MinimumVersion)))
}
