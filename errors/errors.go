// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package errors

import (
	"errors"
	"fmt"
)

// ErrFileNotFound is returned when a file is not found.
var ErrFileNotFound = errors.New("file not found")

// ErrIncorrectInput is returned when the user input is incorrect.
var ErrIncorrectInput = errors.New("incorrect input")

// ErrMissingSANs is returned when a node certificate is requested without subject alternative names.
var ErrMissingSANs = fmt.Errorf("%w: SANs are required", ErrIncorrectInput)

// ErrInvalidSAN is returned when a subject alternative name can't be embedded in a config file.
var ErrInvalidSAN = fmt.Errorf("%w: invalid subject alternative name", ErrIncorrectInput)
