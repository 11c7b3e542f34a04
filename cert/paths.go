// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package cert

import (
	"fmt"
	"path/filepath"

	"github.com/crdb-ca/crdb-ca/constants"
)

// CAPaths is a handle to an on-disk CA bundle: the CA key, certificate and config
// named after a prefix, plus the serial and index files shared by all signing operations.
// All paths are absolute so that signing can run with the CA directory as working directory.
type CAPaths struct {
	Dir    string
	Prefix string
}

// NewCAPaths returns the handle of the CA stored in dir with file name prefix.
func NewCAPaths(dir, prefix string) (CAPaths, error) {
	if dir == "" {
		return CAPaths{}, fmt.Errorf("%w: CA directory must not be empty", errIncorrectInput)
	}

	if err := validateFileName("CA prefix", prefix); err != nil {
		return CAPaths{}, err
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return CAPaths{}, err
	}

	return CAPaths{Dir: abs, Prefix: prefix}, nil
}

func (p CAPaths) KeyAbsFilename() string {
	return filepath.Join(p.Dir, p.Prefix+constants.KeyFileSuffix)
}

func (p CAPaths) CertAbsFilename() string {
	return filepath.Join(p.Dir, p.Prefix+constants.CertFileSuffix)
}

func (p CAPaths) ConfigAbsFilename() string {
	return filepath.Join(p.Dir, p.Prefix+constants.CnfFileSuffix)
}

func (p CAPaths) IndexAbsFilename() string {
	return filepath.Join(p.Dir, constants.IndexFileName)
}

func (p CAPaths) SerialAbsFilename() string {
	return filepath.Join(p.Dir, constants.SerialFileName)
}

// LeafPaths is a handle to the files of a node or user certificate.
type LeafPaths struct {
	Dir  string
	Name string
}

// NewLeafPaths returns the handle of the certificate called name stored in dir.
func NewLeafPaths(dir, name string) (LeafPaths, error) {
	if dir == "" {
		return LeafPaths{}, fmt.Errorf("%w: certificate directory must not be empty", errIncorrectInput)
	}

	if err := validateFileName("name", name); err != nil {
		return LeafPaths{}, err
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return LeafPaths{}, err
	}

	return LeafPaths{Dir: abs, Name: name}, nil
}

func (p LeafPaths) KeyAbsFilename() string {
	return filepath.Join(p.Dir, p.Name+constants.KeyFileSuffix)
}

func (p LeafPaths) CertAbsFilename() string {
	return filepath.Join(p.Dir, p.Name+constants.CertFileSuffix)
}

func (p LeafPaths) CSRAbsFilename() string {
	return filepath.Join(p.Dir, p.Name+constants.CSRFileSuffix)
}

func (p LeafPaths) ConfigAbsFilename() string {
	return filepath.Join(p.Dir, p.Name+constants.CnfFileSuffix)
}
