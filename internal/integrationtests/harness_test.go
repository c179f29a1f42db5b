// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package integrationtests

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/specialistvlad/expconf/internal/app"
	"github.com/specialistvlad/expconf/internal/loader"
	"github.com/specialistvlad/expconf/internal/testutil"
)

// harnessResult holds the outcome of one App invocation.
type harnessResult struct {
	Output    string
	LogOutput string
	Err       error
	App       *app.App
}

// runApp runs an App end to end against an in-memory conf tree built from
// files. cfg.ConfDir is ignored.
func runApp(t *testing.T, files map[string]string, cfg app.Config) *harnessResult {
	t.Helper()

	out := &bytes.Buffer{}
	logs := &testutil.SafeBuffer{}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "debug"
	}
	t.Cleanup(func() {
		if os.Getenv("EXPCONF_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})

	appConfig, err := app.NewConfig(cfg)
	if err != nil {
		return &harnessResult{Err: err}
	}

	l := loader.New(testutil.NewMemFs(t, files), testutil.ConfRoot)
	testApp, err := app.NewApp(out, logs, appConfig, l)
	if err != nil {
		return &harnessResult{LogOutput: logs.String(), Err: err}
	}

	runErr := testApp.Run(context.Background())
	return &harnessResult{
		Output:    out.String(),
		LogOutput: logs.String(),
		Err:       runErr,
		App:       testApp,
	}
}
