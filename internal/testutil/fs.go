// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package testutil

import (
	"context"
	"log/slog"
	"os"
	"path"
	"testing"

	"github.com/spf13/afero"
	"github.com/specialistvlad/expconf/internal/ctxlog"
	"github.com/stretchr/testify/require"
)

// ConfRoot is the directory NewMemFs writes conf trees under.
const ConfRoot = "/conf"

// NewMemFs writes files (relative path -> content) under ConfRoot of a fresh
// in-memory file system.
func NewMemFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(ConfRoot, 0o755))
	for name, content := range files {
		p := path.Join(ConfRoot, name)
		require.NoError(t, fs.MkdirAll(path.Dir(p), 0o755))
		require.NoError(t, afero.WriteFile(fs, p, []byte(content), 0o644))
	}
	return fs
}

// Context returns a context carrying a debug logger that writes into the
// returned buffer. The buffer is dumped when EXPCONF_TEST_LOGS=true.
func Context(t *testing.T) (context.Context, *SafeBuffer) {
	t.Helper()

	buf := &SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	t.Cleanup(func() {
		if os.Getenv("EXPCONF_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), buf.String())
		}
	})
	return ctxlog.WithLogger(context.Background(), logger), buf
}
