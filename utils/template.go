// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package utils

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// TemplateFuncs is the function map available to every rendered template.
var TemplateFuncs = sprig.TxtFuncMap()

// RenderTemplate parses text as a template called name and executes it with data.
// Missing map keys are reported as errors instead of rendering "<no value>".
func RenderTemplate(name, text string, data any) (string, error) {
	t, err := template.New(name).
		Option("missingkey=error").
		Funcs(TemplateFuncs).
		Parse(text)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	buf := new(bytes.Buffer)

	if err := t.Execute(buf, data); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", name, err)
	}

	return buf.String(), nil
}
