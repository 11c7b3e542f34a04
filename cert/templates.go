// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package cert

import (
	"github.com/crdb-ca/crdb-ca/utils"
)

// Section names of the CA config referenced at signing time.
const (
	SigningPolicy         = "signing_policy"
	NodeExtensionsSection = "signing_node_req"
	UserExtensionsSection = "signing_client_req"
)

// CAConfigTemplate is the openssl config of the CA. It is used both to create the
// self-signed CA certificate (req section) and to sign node and client CSRs.
var CAConfigTemplate = `# OpenSSL CA configuration file
[ ca ]
default_ca = CA_default

[ CA_default ]
default_days = {{ .Days }}
database = index.txt
serial = serial.txt
default_md = {{ .Digest }}
copy_extensions = copy
unique_subject = no

# Used to create the CA certificate.
[ req ]
prompt = no
distinguished_name = distinguished_name
x509_extensions = extensions

[ distinguished_name ]
organizationName = {{ .OrganizationUnit }}
commonName = {{ .CommonName }}

[ extensions ]
keyUsage = critical,digitalSignature,nonRepudiation,keyEncipherment,keyCertSign
basicConstraints = critical,CA:true,pathlen:1

# Common policy for nodes and users.
[ signing_policy ]
organizationName = supplied
commonName = optional

# Used to sign node certificates.
[ signing_node_req ]
keyUsage = critical,digitalSignature,keyEncipherment
extendedKeyUsage = serverAuth,clientAuth

# Used to sign client certificates.
[ signing_client_req ]
keyUsage = critical,digitalSignature,keyEncipherment
extendedKeyUsage = clientAuth
`

// NodeConfigTemplate is the openssl config of a node CSR.
var NodeConfigTemplate = `# OpenSSL node configuration file
[ req ]
prompt = no
distinguished_name = distinguished_name
req_extensions = extensions

[ distinguished_name ]
organizationName = {{ .Name }}

[ extensions ]
subjectAltName = {{ join ", " .SANs }}
`

// UserConfigTemplate is the openssl config of a user (client) CSR.
var UserConfigTemplate = `# OpenSSL client configuration file
[ req ]
prompt = no
distinguished_name = distinguished_name
req_extensions = extensions

[ distinguished_name ]
organizationName = {{ .Organization }}
commonName = {{ .Name }}

[ extensions ]
subjectAltName = {{ .SAN }}
`

// RenderCAConfig validates o and renders the CA config for it.
func RenderCAConfig(o *CAOptions) (string, error) {
	if err := o.Validate(); err != nil {
		return "", err
	}

	return utils.RenderTemplate("ca.cnf", CAConfigTemplate, o)
}

// RenderNodeConfig renders the CSR config of a node. SAN entries are embedded verbatim.
func RenderNodeConfig(o *NodeOptions) (string, error) {
	if err := o.Validate(); err != nil {
		return "", err
	}

	return utils.RenderTemplate("node.cnf", NodeConfigTemplate, o)
}

// RenderUserConfig renders the CSR config of a user with exactly one SAN, DNS:<name>.
func RenderUserConfig(o *UserOptions) (string, error) {
	if err := o.Validate(); err != nil {
		return "", err
	}

	return utils.RenderTemplate("user.cnf", UserConfigTemplate, struct {
		*UserOptions
		SAN string
	}{
		UserOptions: o,
		SAN:         UserSAN(o.Name),
	})
}
