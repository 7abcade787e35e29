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

package ui

import (
	"context"
	"encoding/json"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/blinklabs-io/infocontract/internal/ratelimiter"
)

// Submitter handles a form submission from the page
type Submitter interface {
	SubmitInfo(ctx context.Context, name string, age uint64) error
}

// PageState is a snapshot of the page elements
type PageState struct {
	LoaderVisible bool   `json:"loader"`
	Info          string `json:"info"`
	Error         string `json:"error,omitempty"`
}

// Page is an in-memory document with the loader, info, and error elements. It implements
// Renderer, and its Handler serves the document and accepts submissions
type Page struct {
	mu        sync.RWMutex
	state     PageState
	title     string
	submitter Submitter
	limiter   *ratelimiter.MapLimiter
	logger    *slog.Logger

	// submitTimeout bounds each submission. Zero means the request context alone applies
	submitTimeout time.Duration
}

// PageOptionFunc is a type that represents functions that modify the Page config
type PageOptionFunc func(*Page)

// WithTitle specifies the page title
func WithTitle(title string) PageOptionFunc {
	return func(p *Page) {
		p.title = title
	}
}

// WithSubmitter specifies what handles POST /submit
func WithSubmitter(submitter Submitter) PageOptionFunc {
	return func(p *Page) {
		p.submitter = submitter
	}
}

// WithRateLimiter limits submissions per client address. A nil limiter allows everything
func WithRateLimiter(limiter *ratelimiter.MapLimiter) PageOptionFunc {
	return func(p *Page) {
		p.limiter = limiter
	}
}

// WithSubmitTimeout bounds how long a submission, including waiting for the transaction to be
// mined, may run. Zero disables the bound
func WithSubmitTimeout(timeout time.Duration) PageOptionFunc {
	return func(p *Page) {
		p.submitTimeout = timeout
	}
}

// WithPageLogger specifies the logger to use
func WithPageLogger(logger *slog.Logger) PageOptionFunc {
	return func(p *Page) {
		p.logger = logger
	}
}

// NewPage returns a Page with the loader visible
func NewPage(options ...PageOptionFunc) *Page {
	p := &Page{
		state: PageState{LoaderVisible: true},
		title: "InfoContract",
	}
	// Apply provided options functions
	for _, option := range options {
		option(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// SetSubmitter sets what handles POST /submit. The page is usually created before the client
// that submits through it
func (p *Page) SetSubmitter(submitter Submitter) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.submitter = submitter
}

func (p *Page) ShowLoader() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.LoaderVisible = true
}

func (p *Page) HideLoader() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.LoaderVisible = false
}

func (p *Page) RenderInfo(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Info = text
	p.state.Error = ""
}

func (p *Page) RenderError(err error) {
	if err == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Error = err.Error()
}

// State returns a snapshot of the page
func (p *Page) State() PageState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Handler returns the HTTP handler for the page
func (p *Page) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", p.handleIndex)
	mux.HandleFunc("GET /info", p.handleInfo)
	mux.HandleFunc("POST /submit", p.handleSubmit)
	return mux
}

func (p *Page) handleIndex(w http.ResponseWriter, r *http.Request) {
	p.writePage(w, http.StatusOK)
}

func (p *Page) handleInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(p.State())
}

func (p *Page) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if !p.limiter.Allow(clientKey(r), time.Now()) {
		http.Error(w, "too many submissions", http.StatusTooManyRequests)
		return
	}
	p.mu.RLock()
	submitter := p.submitter
	p.mu.RUnlock()
	if submitter == nil {
		http.Error(w, "submissions are not enabled", http.StatusServiceUnavailable)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form: "+err.Error(), http.StatusBadRequest)
		return
	}
	name := strings.TrimSpace(r.PostForm.Get(ElementName))
	age, err := strconv.ParseUint(strings.TrimSpace(r.PostForm.Get(ElementAge)), 10, 64)
	if err != nil {
		http.Error(w, "invalid age: must be a non-negative integer", http.StatusBadRequest)
		return
	}
	ctx := r.Context()
	if p.submitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.submitTimeout)
		defer cancel()
	}
	if err := submitter.SubmitInfo(ctx, name, age); err != nil {
		p.logger.Error(
			"submission failed",
			"component", "ui",
			"error", err,
		)
		p.writePage(w, http.StatusBadGateway)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (p *Page) writePage(w http.ResponseWriter, status int) {
	data := struct {
		Title string
		PageState
	}{
		Title:     p.title,
		PageState: p.State(),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplate.Execute(w, data); err != nil {
		p.logger.Error(
			"failed to render page",
			"component", "ui",
			"error", err,
		)
	}
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{ .Title }}</title>
</head>
<body>
<h1>{{ .Title }}</h1>
<div id="loader"{{ if not .LoaderVisible }} style="display: none"{{ end }}>Loading...</div>
<div id="info">{{ .Info }}</div>
<div id="error"{{ if not .Error }} style="display: none"{{ end }}>{{ .Error }}</div>
<form method="post" action="/submit">
<input id="name" name="name" type="text" placeholder="Name">
<input id="age" name="age" type="number" min="0" placeholder="Age">
<button id="button" type="submit">Update</button>
</form>
</body>
</html>
`))
