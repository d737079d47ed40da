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
	"fmt"
	"strings"
)

// Pattern is a compiled path template with {name} placeholders.
// Compilation happens once at registration; matching is a single pass over
// the concrete request path with no backtracking.
//
// A template like "/users/{id}/posts/{post_id}" compiles into per-segment
// instructions: literal segments are compared by position, placeholder
// segments capture the concrete segment under the placeholder name.
type Pattern struct {
	template string

	// Parallel slices indexed by segment position.
	// literals[i] is checked when params[i] == "" (literal segment);
	// otherwise params[i] names the capture for position i.
	literals []string
	params   []string

	paramCount int
}

// Compile parses a path template into a Pattern.
// Returns (nil, nil) for fully literal templates: those need no pattern
// and are resolved by exact map lookup instead.
//
// Template rules:
//   - must start with '/'
//   - each segment is either fully literal or a single {name} placeholder
//   - placeholder names must be non-empty and unique within one template
func Compile(template string) (*Pattern, error) {
	if template == "" {
		return nil, ErrEmptyPath
	}
	if template[0] != '/' {
		return nil, fmt.Errorf("%w: %q", ErrPathNotRooted, template)
	}

	if !strings.ContainsRune(template, '{') {
		if strings.ContainsRune(template, '}') {
			return nil, fmt.Errorf("%w: %q", ErrUnterminatedPlaceholder, template)
		}
		return nil, nil // literal template, exact lookup only
	}

	segments := splitPath(template)
	p := &Pattern{
		template: template,
		literals: make([]string, len(segments)),
		params:   make([]string, len(segments)),
	}

	seen := make(map[string]struct{}, 4)
	for i, seg := range segments {
		switch {
		case strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}"):
			name := seg[1 : len(seg)-1]
			if name == "" {
				return nil, fmt.Errorf("%w: %q", ErrEmptyPlaceholder, template)
			}
			if strings.ContainsAny(name, "{}") {
				return nil, fmt.Errorf("%w: %q", ErrMixedSegment, template)
			}
			if _, dup := seen[name]; dup {
				return nil, fmt.Errorf("%w: %q in %q", ErrDuplicateParameter, name, template)
			}
			seen[name] = struct{}{}
			p.params[i] = name
			p.paramCount++
		case strings.ContainsAny(seg, "{}"):
			return nil, fmt.Errorf("%w: %q in %q", ErrMixedSegment, seg, template)
		default:
			p.literals[i] = seg
		}
	}

	return p, nil
}

// MustCompile is like Compile but panics on invalid templates.
// Intended for static route tables built at startup.
func MustCompile(template string) *Pattern {
	p, err := Compile(template)
	if err != nil {
		panic(fmt.Sprintf("dispatch.MustCompile(%q): %v", template, err))
	}
	return p
}

// Template returns the original path template.
func (p *Pattern) Template() string { return p.template }

// ParamCount returns the number of placeholders in the template.
func (p *Pattern) ParamCount() int { return p.paramCount }

// Match attempts to match a concrete request path against the pattern.
// On success it returns the captured parameters keyed by placeholder name.
// On failure it returns (nil, false).
//
// Matching is segment-exact: the path must have the same number of
// segments as the template, every literal segment must compare equal, and
// every placeholder captures exactly one non-empty segment.
func (p *Pattern) Match(path string) (map[string]string, bool) {
	if len(path) == 0 || path[0] != '/' {
		return nil, false
	}

	// Reject by segment count before allocating anything.
	want := len(p.literals)
	if countSegments(path) != want {
		return nil, false
	}

	var captured map[string]string

	start := 1
	for i := range want {
		end := start
		for end < len(path) && path[end] != '/' {
			end++
		}
		seg := path[start:end]

		if name := p.params[i]; name != "" {
			if seg == "" {
				return nil, false
			}
			if captured == nil {
				captured = make(map[string]string, p.paramCount)
			}
			captured[name] = seg
		} else if seg != p.literals[i] {
			return nil, false
		}
		start = end + 1
	}

	return captured, true
}

// Overlaps reports whether two patterns could both match one concrete path.
// Used for diagnostics at registration time: two same-method overlapping
// patterns make resolution order-dependent.
func (p *Pattern) Overlaps(other *Pattern) bool {
	if other == nil || len(p.literals) != len(other.literals) {
		return false
	}
	for i := range p.literals {
		if p.params[i] != "" || other.params[i] != "" {
			continue // a placeholder position matches anything
		}
		if p.literals[i] != other.literals[i] {
			return false
		}
	}
	return true
}

// splitPath splits a rooted path into its segments.
// "/" and "" yield no segments.
func splitPath(path string) []string {
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// countSegments counts path segments without allocating.
func countSegments(path string) int {
	trimmed := strings.TrimPrefix(path, "/")
	if trimmed == "" {
		return 0
	}
	return strings.Count(trimmed, "/") + 1
}
