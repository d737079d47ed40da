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

import "fmt"

// Kind tags a fault with its place in a declared "is-a" hierarchy.
// The hierarchy is explicit rather than derived from Go types so
// nearest-ancestor matching is reproducible: every kind except the root
// declares exactly one parent, and rescue resolution walks from the raised
// kind toward the root, most specific first.
type Kind string

// Built-in fault kinds. KindFault is the root of the hierarchy; a rescue
// hook registered for it catches every fault that nothing more specific
// handles.
const (
	KindFault    Kind = "fault"
	KindArgument Kind = "argument"
	KindState    Kind = "state"
	KindConflict Kind = "conflict"
	KindNotFound Kind = "not_found"
	KindTimeout  Kind = "timeout"
	KindInternal Kind = "internal"
	KindPanic    Kind = "panic"
)

// builtinParents declares the built-in hierarchy:
//
//	fault
//	├── argument
//	├── state
//	│   └── conflict
//	├── not_found
//	├── timeout
//	└── internal
//	    └── panic
var builtinParents = map[Kind]Kind{
	KindArgument: KindFault,
	KindState:    KindFault,
	KindConflict: KindState,
	KindNotFound: KindFault,
	KindTimeout:  KindFault,
	KindInternal: KindFault,
	KindPanic:    KindInternal,
}

// Fault is the recoverable application exception raised by hooks and
// handlers. It unwinds to the pipeline boundary, where the orchestrator
// resolves a rescue hook by nearest-ancestor kind match. An unmatched
// fault propagates to the Dispatch caller.
type Fault struct {
	Kind    Kind
	Message string
	Err     error // optional underlying cause
	Value   any   // original panic value for wrapped panics
}

// NewFault creates a fault of the given kind.
func NewFault(kind Kind, format string, values ...any) *Fault {
	return &Fault{Kind: kind, Message: fmt.Sprintf(format, values...)}
}

// WrapFault creates a fault carrying an underlying error.
func WrapFault(kind Kind, err error) *Fault {
	return &Fault{Kind: kind, Message: err.Error(), Err: err}
}

// Error implements error.
func (f *Fault) Error() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// Unwrap exposes the underlying cause to errors.Is and errors.As.
func (f *Fault) Unwrap() error { return f.Err }

// asFault normalizes a recovered panic value into a Fault. Raised faults
// pass through; errors and arbitrary values wrap as KindPanic so a rescue
// hook for KindPanic (or an ancestor) can recover runtime panics too.
func asFault(rec any) *Fault {
	switch v := rec.(type) {
	case *Fault:
		return v
	case error:
		return &Fault{Kind: KindPanic, Message: v.Error(), Err: v, Value: rec}
	default:
		return &Fault{Kind: KindPanic, Message: fmt.Sprint(rec), Value: rec}
	}
}

// RescueHook recovers from a fault. It receives the same per-request
// context as every other hook; whatever response it builds becomes the
// dispatch result. A rescue hook may re-raise by panicking again.
type RescueHook func(*Context, *Fault)

// Registry maps fault kinds to rescue hooks and owns the kind hierarchy.
// Registration happens at startup; resolution is read-only per request.
type Registry struct {
	parents map[Kind]Kind
	hooks   map[Kind]RescueHook
}

// NewRegistry creates a registry seeded with the built-in kind hierarchy.
func NewRegistry() *Registry {
	parents := make(map[Kind]Kind, len(builtinParents)+4)
	for k, p := range builtinParents {
		parents[k] = p
	}
	return &Registry{
		parents: parents,
		hooks:   make(map[Kind]RescueHook),
	}
}

// DeclareKind adds a custom kind under an already-declared parent.
func (r *Registry) DeclareKind(kind, parent Kind) error {
	if kind == KindFault {
		return fmt.Errorf("%w: %q", ErrKindAlreadyDeclared, kind)
	}
	if _, exists := r.parents[kind]; exists {
		return fmt.Errorf("%w: %q", ErrKindAlreadyDeclared, kind)
	}
	if parent != KindFault {
		if _, exists := r.parents[parent]; !exists {
			return fmt.Errorf("%w: %q", ErrKindParentUnknown, parent)
		}
	}
	r.parents[kind] = parent
	return nil
}

// Register binds a rescue hook to a kind, replacing any previous hook for
// that kind. Last write wins.
func (r *Registry) Register(kind Kind, hook RescueHook) error {
	if kind != KindFault {
		if _, exists := r.parents[kind]; !exists {
			return fmt.Errorf("%w: %q", ErrUnknownFaultKind, kind)
		}
	}
	r.hooks[kind] = hook
	return nil
}

// Resolve walks the fault's kind ancestry, most specific first, and
// returns the first registered hook, or nil when the walk exhausts.
// An undeclared kind on the fault still falls back to the root, so a
// KindFault hook remains a true catch-all.
func (r *Registry) Resolve(f *Fault) RescueHook {
	kind := f.Kind
	for steps := 0; steps <= len(r.parents)+1; steps++ {
		if hook, ok := r.hooks[kind]; ok {
			return hook
		}
		if kind == KindFault {
			return nil
		}
		parent, ok := r.parents[kind]
		if !ok {
			parent = KindFault
		}
		kind = parent
	}
	return nil
}

// Ancestry returns the kind chain from kind to the root, most specific
// first. Useful for diagnostics and tests.
func (r *Registry) Ancestry(kind Kind) []Kind {
	chain := []Kind{kind}
	for kind != KindFault {
		parent, ok := r.parents[kind]
		if !ok {
			parent = KindFault
		}
		chain = append(chain, parent)
		kind = parent
		if len(chain) > len(r.parents)+2 {
			break // chain longer than the declared hierarchy means a cycle
		}
	}
	return chain
}
