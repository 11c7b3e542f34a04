// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package constants

import "os"

const (
	// DefaultKeySize is the RSA modulus size used for generated keys.
	DefaultKeySize = 2048

	// InitialSerial is written to the serial file when a CA database is initialised.
	InitialSerial = "01"

	NotApplicable = "N/A"
)

const (
	KeyFileSuffix  = ".key"
	CertFileSuffix = ".crt"
	CSRFileSuffix  = ".csr"
	CnfFileSuffix  = ".cnf"

	IndexFileName  = "index.txt"
	SerialFileName = "serial.txt"
)

const (
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatTable = "table"
)

const (
	PermissionsDirDefault  os.FileMode = 0o755
	PermissionsFileDefault os.FileMode = 0o644
)
