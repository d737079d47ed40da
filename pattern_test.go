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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile_LiteralTemplateReturnsNil(t *testing.T) {
	t.Parallel()

	p, err := Compile("/users/active")
	require.NoError(t, err)
	assert.Nil(t, p, "literal templates resolve by exact lookup, no pattern needed")
}

func TestCompile_Placeholders(t *testing.T) {
	t.Parallel()

	p, err := Compile("/users/{id}/posts/{post_id}")
	require.NoError(t, err)
	require.NotNil(t, p)

	assert.Equal(t, "/users/{id}/posts/{post_id}", p.Template())
	assert.Equal(t, 2, p.ParamCount())
}

func TestCompile_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		template string
		wantErr  error
	}{
		{"empty", "", ErrEmptyPath},
		{"not rooted", "users/{id}", ErrPathNotRooted},
		{"empty placeholder", "/users/{}", ErrEmptyPlaceholder},
		{"unterminated", "/users/id}", ErrUnterminatedPlaceholder},
		{"mixed segment", "/users/v{id}", ErrMixedSegment},
		{"duplicate name", "/a/{id}/b/{id}", ErrDuplicateParameter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Compile(tt.template)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPattern_Match(t *testing.T) {
	t.Parallel()

	p := MustCompile("/users/{id}/posts/{post_id}")

	params, ok := p.Match("/users/42/posts/7")
	require.True(t, ok)
	assert.Equal(t, map[string]string{"id": "42", "post_id": "7"}, params)
}

func TestPattern_MatchRejects(t *testing.T) {
	t.Parallel()

	p := MustCompile("/users/{id}")

	tests := []struct {
		name string
		path string
	}{
		{"too few segments", "/users"},
		{"too many segments", "/users/42/extra"},
		{"literal mismatch", "/posts/42"},
		{"empty capture", "/users//"},
		{"not rooted", "users/42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, ok := p.Match(tt.path)
			assert.False(t, ok)
		})
	}
}

func TestPattern_MatchSinglePlaceholderEverySegment(t *testing.T) {
	t.Parallel()

	p := MustCompile("/{a}/{b}/{c}")

	params, ok := p.Match("/x/y/z")
	require.True(t, ok)
	assert.Equal(t, map[string]string{"a": "x", "b": "y", "c": "z"}, params)
}

func TestPattern_Overlaps(t *testing.T) {
	t.Parallel()

	base := MustCompile("/users/{id}")

	overlapping := MustCompile("/{resource}/42")
	assert.True(t, base.Overlaps(overlapping), "placeholder positions admit any segment")

	disjoint := MustCompile("/posts/{id}/comments")
	assert.False(t, base.Overlaps(disjoint), "different segment counts never overlap")

	literalClash := MustCompile("/groups/{id}")
	assert.False(t, base.Overlaps(literalClash), "differing literals cannot both match")
}

func TestMustCompile_PanicsOnInvalid(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		MustCompile("not-rooted")
	})
}

func TestSplitPath(t *testing.T) {
	t.Parallel()

	assert.Nil(t, splitPath("/"))
	assert.Nil(t, splitPath(""))
	assert.Equal(t, []string{"a", "b"}, splitPath("/a/b"))
	assert.Equal(t, 0, countSegments("/"))
	assert.Equal(t, 2, countSegments("/a/b"))
}
