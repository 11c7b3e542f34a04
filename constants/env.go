// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package constants

const (
	// EnvPrefix prefixes every environment variable bound to a command line flag,
	// e.g. CRDBCA_NEW_CA_DAYS for `new-ca --days`.
	EnvPrefix = "CRDBCA"

	// EnvVersionCheck disables the openssl version probe of the version command when set to "disable".
	EnvVersionCheck = "CRDBCA_OPENSSL_CHECK"
)
