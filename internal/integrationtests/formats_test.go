// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package integrationtests

import (
	"testing"

	"github.com/specialistvlad/expconf/internal/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormats_MixedTreeResolves(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	files := map[string]string{
		"config.yaml": `
defaults:
  - model: small
  - _self_
seed: 1
`,
		"model/small.hcl": `
n_layer = 2
dims    = [64, 128]
`,
		"experiment/run.hcl": `
_package_ = "_global_"
defaults = [
  "/config",
  "_self_",
]
seed = 7
`,
	}

	// --- Act ---
	result := runApp(t, files, app.Config{Entry: "run"})

	// --- Assert ---
	require.NoError(t, result.Err)
	assert.Equal(t, "model:\n  n_layer: 2\n  dims:\n    - 64\n    - 128\nseed: 7\n", result.Output)
}

func TestFormats_SameDocumentInTwoFormats(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"config.yaml":     "defaults:\n  - model: small\n",
		"model/small.yml": "n_layer: 2\n",
		"model/small.hcl": "n_layer = 3\n",
	}

	result := runApp(t, files, app.Config{Entry: "config"})

	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), `document "model/small" is defined more than once`)
}

func TestFormats_PackageHeaderMovesKeys(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"config.yaml": "defaults:\n  - trainer: fast\n  - _self_\n",
		"trainer/fast.yaml": `# @package _global_
trainer:
  lr: 0.01
seed: 3
`,
	}

	result := runApp(t, files, app.Config{Entry: "config"})

	require.NoError(t, result.Err)
	assert.Equal(t, "trainer:\n  lr: 0.01\nseed: 3\n", result.Output)
}

func TestFormats_HiddenFilesIgnored(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"config.yaml":       "seed: 1\n",
		".draft.yaml":       "seed: [\n",
		"model/.small.yaml": "n_layer: [\n",
	}

	result := runApp(t, files, app.Config{Entry: "config"})

	require.NoError(t, result.Err)
	assert.Equal(t, "seed: 1\n", result.Output)
}
