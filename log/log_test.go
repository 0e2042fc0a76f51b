// Copyright (c) 2025 The Solido developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithContext_FollowsDefault(t *testing.T) {
	logger := WithContext("pkg", "test")

	old := Root()
	defer SetDefault(old)

	var buf bytes.Buffer
	SetDefault(NewLogger(NewHandler(&buf, LevelDebug, true, false)))

	logger.With("op", "deposit").Info("processed", "amount", 42)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "processed", record["msg"])
	assert.Equal(t, "test", record["pkg"])
	assert.Equal(t, "deposit", record["op"])
	assert.EqualValues(t, 42, record["amount"])
}

func TestWithContext_LevelFilter(t *testing.T) {
	old := Root()
	defer SetDefault(old)

	var buf bytes.Buffer
	SetDefault(NewLogger(NewHandler(&buf, LevelWarn, true, false)))

	WithContext("pkg", "test").Debug("hidden")
	assert.Zero(t, buf.Len())
}

func TestLevelFromString(t *testing.T) {
	for name, want := range map[string]slog.Level{
		"trace": LevelTrace,
		"debug": LevelDebug,
		"INFO":  LevelInfo,
		"warn":  LevelWarn,
		"error": LevelError,
		"crit":  LevelCrit,
	} {
		lvl, err := LevelFromString(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, lvl, name)
	}

	_, err := LevelFromString("loud")
	assert.Error(t, err)
}
