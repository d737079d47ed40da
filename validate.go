// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dispatch

import (
	"sort"
	"strings"
)

// FieldErrors is the structured payload produced by a validation
// collaborator: field name to human-readable message. It is embedded in
// 400 and 500 problem descriptions.
type FieldErrors map[string]string

// Error implements error. Fields are rendered in sorted order so the
// message is stable.
func (fe FieldErrors) Error() string {
	if len(fe) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("validation failed: ")
	for i, k := range keys {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(fe[k])
	}
	return b.String()
}

// Validator is the schema-validation collaborator consulted by
// Endpoint.Invoke. Implementations typically coerce and validate path and
// query parameters against a declared schema on the request side, and
// check the rendered body against a response schema on the response side.
//
// The engine only needs the success/failure distinction plus the error
// payload; full schema semantics live outside this module.
type Validator interface {
	// Params validates the request parameters and body. A non-nil return
	// short-circuits the handler with a 400 description.
	Params(c *Context) FieldErrors

	// Response validates the response description after the handler ran.
	// A non-nil return overwrites the response with a 500 description.
	Response(c *Context) FieldErrors
}

// ValidatorFuncs adapts two functions to the Validator interface.
// Either function may be nil, in which case that side always passes.
type ValidatorFuncs struct {
	ParamsFunc   func(c *Context) FieldErrors
	ResponseFunc func(c *Context) FieldErrors
}

// Params implements Validator.
func (v ValidatorFuncs) Params(c *Context) FieldErrors {
	if v.ParamsFunc == nil {
		return nil
	}
	return v.ParamsFunc(c)
}

// Response implements Validator.
func (v ValidatorFuncs) Response(c *Context) FieldErrors {
	if v.ResponseFunc == nil {
		return nil
	}
	return v.ResponseFunc(c)
}
