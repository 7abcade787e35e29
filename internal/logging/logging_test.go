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

package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blinklabs-io/infocontract/internal/logging"
)

func TestParseLevel(t *testing.T) {
	level, err := logging.ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
	level, err = logging.ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)
	_, err = logging.ParseLevel("loud")
	assert.Error(t, err)
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(&buf, "info", "text")
	require.NoError(t, err)
	logger.Debug("hidden")
	logger.Info("provider ready", "component", "client", "private_key", "0x4f3edf98")
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "component=client")
	assert.Contains(t, out, "private_key=[REDACTED]")
	assert.NotContains(t, out, "0x4f3edf98")
}

func TestNewJSONRedactsGroupsAndWith(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(&buf, "debug", "json")
	require.NoError(t, err)
	logger.With("api_token", "abc").Debug(
		"config loaded",
		slog.Group("transaction", slog.String("privateKey", "0x4f3edf98"), slog.Uint64("gasLimit", 500000)),
	)
	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "[REDACTED]", record["api_token"])
	group, ok := record["transaction"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "[REDACTED]", group["privateKey"])
	assert.Equal(t, float64(500000), group["gasLimit"])
}

func TestNewInvalid(t *testing.T) {
	_, err := logging.New(&bytes.Buffer{}, "info", "xml")
	assert.Error(t, err)
	_, err = logging.New(&bytes.Buffer{}, "chatty", "text")
	assert.Error(t, err)
}
