// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "entry", cfg: Config{Entry: "config"}},
		{name: "list without entry", cfg: Config{List: true}},
		{name: "serve without entry", cfg: Config{ServePort: 8080}},
		{name: "no entry", cfg: Config{}, wantErr: "entry point is required"},
		{name: "bad format", cfg: Config{Entry: "config", Format: "toml"}, wantErr: "invalid format"},
		{name: "bad port", cfg: Config{ServePort: 70000}, wantErr: "invalid serve port"},
		{name: "tree and list", cfg: Config{Entry: "config", Tree: true, List: true}, wantErr: "cannot be combined"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := NewConfig(tc.cfg)

			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, cfg.Format)
		})
	}
}

func TestNewLogger_LevelAndFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := newLogger("warn", "json", &buf)

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"k":"v"`)
}
