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

// haltSignal is the non-local exit used by Halt. It is a distinguished
// control-flow signal, not an error: fault dispatch re-raises it untouched
// and only the outermost dispatch boundary consumes it, returning the
// response the signal carries.
type haltSignal struct {
	response *Response
}

// raiseHalt marks the response halted and unwinds to the dispatch
// boundary. It never returns.
func raiseHalt(res *Response) {
	res.markHalted()
	panic(haltSignal{response: res})
}

// isHalt reports whether a recovered panic value is the halt signal.
func isHalt(rec any) bool {
	_, ok := rec.(haltSignal)
	return ok
}
