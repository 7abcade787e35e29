// Copyright 2026 Blink Labs Software
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

// Package ui provides the surfaces the contract client renders into: a plain
// text renderer for the command line and an HTML page served over HTTP.
package ui

import (
	"fmt"
	"io"
	"sync"
)

// Element IDs of the page surface
const (
	ElementLoader = "loader"
	ElementInfo   = "info"
	ElementName   = "name"
	ElementAge    = "age"
	ElementButton = "button"
	ElementError  = "error"
)

// Renderer receives the display updates produced by the contract client
type Renderer interface {
	ShowLoader()
	HideLoader()
	RenderInfo(text string)
	RenderError(err error)
}

// NopRenderer discards all updates
type NopRenderer struct{}

func (NopRenderer) ShowLoader()            {}
func (NopRenderer) HideLoader()            {}
func (NopRenderer) RenderInfo(text string) {}
func (NopRenderer) RenderError(err error)  {}

// TextRenderer writes info and errors as lines of text. Loader changes are only written when
// Verbose is set
type TextRenderer struct {
	w       io.Writer
	mu      sync.Mutex
	Verbose bool
}

// NewTextRenderer returns a TextRenderer writing to w
func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{w: w}
}

func (r *TextRenderer) ShowLoader() {
	if r.Verbose {
		r.printf("Loading...\n")
	}
}

func (r *TextRenderer) HideLoader() {}

func (r *TextRenderer) RenderInfo(text string) {
	r.printf("%s\n", text)
}

func (r *TextRenderer) RenderError(err error) {
	r.printf("ERROR: %s\n", err)
}

func (r *TextRenderer) printf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.w, format, args...)
}
