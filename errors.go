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

import "errors"

var (
	// ErrEmptyMethod indicates that a route was registered with an empty HTTP method.
	ErrEmptyMethod = errors.New("route method must not be empty")

	// ErrEmptyPath indicates that a route was registered with an empty path.
	ErrEmptyPath = errors.New("route path must not be empty")

	// ErrPathNotRooted indicates that a route path does not start with '/'.
	ErrPathNotRooted = errors.New("route path must start with '/'")

	// ErrUnterminatedPlaceholder indicates a '{' without a matching '}' in a path template.
	ErrUnterminatedPlaceholder = errors.New("unterminated parameter placeholder")

	// ErrEmptyPlaceholder indicates an empty '{}' placeholder in a path template.
	ErrEmptyPlaceholder = errors.New("parameter placeholder must be named")

	// ErrMixedSegment indicates a path segment that mixes literal text with a placeholder.
	ErrMixedSegment = errors.New("segment must be fully literal or a single placeholder")

	// ErrDuplicateParameter indicates that two placeholders in one template share a name.
	ErrDuplicateParameter = errors.New("duplicate parameter name in path template")

	// ErrHandlerAlreadySet indicates that SetHandler was called twice on one endpoint.
	ErrHandlerAlreadySet = errors.New("endpoint handler already set")

	// ErrUnknownFaultKind indicates a fault kind that was never declared.
	ErrUnknownFaultKind = errors.New("unknown fault kind")

	// ErrKindAlreadyDeclared indicates a fault kind declared twice.
	ErrKindAlreadyDeclared = errors.New("fault kind already declared")

	// ErrKindParentUnknown indicates a fault kind declared with an undeclared parent.
	ErrKindParentUnknown = errors.New("fault kind parent not declared")

	// ErrResponseCommitted indicates an attempt to render into a committed response.
	ErrResponseCommitted = errors.New("response already written")
)
