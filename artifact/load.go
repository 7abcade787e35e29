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

package artifact

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// maxArtifactSize bounds how much of an HTTP response we are willing to read
const maxArtifactSize = 32 << 20

// NewFromFile loads an artifact from a local file
func NewFromFile(path string) (*Artifact, error) {
	dataFile, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer dataFile.Close()
	return NewFromReader(dataFile)
}

// NewFromReader parses an artifact from JSON
func NewFromReader(r io.Reader) (*Artifact, error) {
	a := &Artifact{}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, a); err != nil {
		return nil, fmt.Errorf("malformed artifact: %w", err)
	}
	if err := a.validate(); err != nil {
		return nil, fmt.Errorf("malformed artifact: %w", err)
	}
	return a, nil
}

// Fetch retrieves an artifact over HTTP. A nil client uses http.DefaultClient
func Fetch(ctx context.Context, httpClient *http.Client, artifactURL string) (*Artifact, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, artifactURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", artifactURL, resp.StatusCode)
	}
	return NewFromReader(io.LimitReader(resp.Body, maxArtifactSize))
}

// fileURLPath returns the filesystem path for a file URL. A host other than localhost is taken as
// the first element of a relative path, so file://build/X.json names build/X.json
func fileURLPath(u *url.URL) string {
	if u.Opaque != "" {
		return u.Opaque
	}
	if u.Host == "" || u.Host == "localhost" {
		return u.Path
	}
	return u.Host + u.Path
}

// Load retrieves an artifact from an http(s) URL, a file:// URL, or a plain filesystem path
func Load(ctx context.Context, httpClient *http.Client, location string) (*Artifact, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, fmt.Errorf("no artifact location specified")
	}
	u, err := url.Parse(location)
	if err == nil {
		switch u.Scheme {
		case "http", "https":
			return Fetch(ctx, httpClient, location)
		case "file":
			return NewFromFile(fileURLPath(u))
		}
	}
	return NewFromFile(location)
}
