// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/crdb-ca/crdb-ca/constants"
)

// FileExists returns true if filename exists and is not a directory.
func FileExists(filename string) bool {
	f, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !f.IsDir()
}

// CreateFile writes content to a file by path `file`, truncating it if it exists.
func CreateFile(file, content string) error {
	return WriteFile(file, []byte(content))
}

// WriteFile writes data to a file by path `file`, truncating it if it exists.
// Permissions of an existing file are preserved.
func WriteFile(file string, data []byte) error {
	f, err := os.OpenFile(file, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, constants.PermissionsFileDefault)
	if err != nil {
		return err
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// CreateDirectory creates a directory by a path with a mode/permission specified by perm.
// If the directory already exists the function does nothing and reports created=false.
// Any other failure, including a non-directory occupying the path, is returned as an error.
func CreateDirectory(path string, perm os.FileMode) (created bool, err error) {
	fi, err := os.Stat(path)
	switch {
	case err == nil && fi.IsDir():
		return false, nil
	case err == nil:
		return false, fmt.Errorf("unable to make directory %s: path exists and is not a directory", path)
	case !errors.Is(err, fs.ErrNotExist):
		return false, fmt.Errorf("unable to make directory %s: %w", path, err)
	}

	if err := os.MkdirAll(path, perm); err != nil {
		return false, fmt.Errorf("unable to make directory %s: %w", path, err)
	}

	return true, nil
}
