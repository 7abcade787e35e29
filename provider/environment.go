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

package provider

import (
	"context"
	"os"
	"strings"
)

// InjectedProviderEnv names the environment variable a host process uses to hand
// us an already configured node endpoint
const InjectedProviderEnv = "WEB3_PROVIDER_URI"

// FromEnvironment is the default InjectorFunc. It dials the endpoint named by
// InjectedProviderEnv, or returns nil when the variable is unset
func FromEnvironment(options ...ProviderOptionFunc) InjectorFunc {
	return func(ctx context.Context) (Provider, error) {
		endpoint := strings.TrimSpace(os.Getenv(InjectedProviderEnv))
		if endpoint == "" {
			return nil, nil
		}
		opts := append([]ProviderOptionFunc{}, options...)
		opts = append(opts, WithSource(SourceInjected))
		p, err := Dial(ctx, endpoint, opts...)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
}
