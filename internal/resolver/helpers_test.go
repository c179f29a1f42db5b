// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package resolver

import (
	"context"
	"testing"

	"github.com/specialistvlad/expconf/internal/config"
	"github.com/specialistvlad/expconf/internal/loader"
	"github.com/specialistvlad/expconf/internal/registry"
	"github.com/specialistvlad/expconf/internal/testutil"
	"github.com/stretchr/testify/require"
)

// testTree is shared by most resolver tests. Documents that are broken on
// purpose (cycles, typos) only fail when resolved directly.
var testTree = map[string]string{
	"config.yaml": `
defaults:
  - model: gpt2_85M
  - _self_
trainer:
  batch_size: 32
  lr: 0.001
`,
	"model/gpt2_85M.yaml": "n_layer: 12\nn_head: 12\nresid_pdrop: 0.1\n",
	"model/gpt2_5M.yaml":  "n_layer: 6\nresid_pdrop: 0.1\n",
	"model/gpt2_kw.yaml": `
defaults:
  - kwargs: wide
  - _self_
n_layer: 24
`,
	"model/kwargs/wide.yaml": "n_inner: 4096\n",
	"model/tiny.yaml":        "n_layer: 1\n",
	"dataset/tiny.yaml":      "name: tiny\n",
	"dataset/small.yaml":     "name: small\n",
	"tokenizer/custom.yaml":  "# @package tok.settings\nname: custom\n",
	"experiment/small.yaml": `# @package _global_
defaults:
  - /config
  - override /model: gpt2_5M
  - _self_
model:
  resid_pdrop: 0.3
`,
	"self_first.yaml": `
defaults:
  - _self_
  - model: gpt2_85M
model:
  n_layer: 99
`,
	"self_last.yaml": `
defaults:
  - model: gpt2_85M
  - _self_
model:
  n_layer: 99
`,
	"self_implicit.yaml": `
defaults:
  - model: gpt2_85M
model:
  n_layer: 99
`,
	"needs.yaml": `
experiment:
  name: ???
  seed: 1
`,
	"supplied.yaml": `
defaults:
  - needs
  - _self_
experiment:
  name: run
`,
	"many.yaml": `
a: ???
b:
  c: ???
  d: 1
`,
	"merge_base.yaml": `
a:
  x: 1
  y: 2
`,
	"merge_top.yaml": `
defaults:
  - merge_base
  - _self_
a:
  y: 3
  z: 4
`,
	"cycle_a.yaml":   "defaults:\n  - cycle_b\n",
	"cycle_b.yaml":   "defaults:\n  - cycle_a\n",
	"typo.yaml":      "defaults:\n  - model: gpt2_5m\n",
	"typo_base.yaml": "defaults:\n  - confg\n",
	"nogroup.yaml":   "defaults:\n  - optimizer: adam\n",
	"optional.yaml":  "defaults:\n  - optional optimizer: adam\n  - optional model: none\nx: 1\n",
	"dup.yaml":       "defaults:\n  - model: gpt2_85M\n  - model: gpt2_5M\n",
	"adds.yaml":      "defaults:\n  - override /model: gpt2_5M\n",
	"pick.yaml":      "defaults:\n  - model: ???\n  - _self_\nx: 1\n",
	"none.yaml":      "defaults:\n  - model: null\nx: 1\n",
	"kw.yaml":        "defaults:\n  - model: gpt2_kw\n",
	"kw_override.yaml": `
defaults:
  - model: gpt2_kw
  - override /model: gpt2_5M
`,
	"custom_pkg.yaml": "defaults:\n  - tokenizer: custom\n",
	"interp.yaml": `
trainer:
  batch_size: 8
run:
  name: "exp-${trainer.batch_size}"
  home: "${oc.env:EXPCONF_TEST_HOME,/tmp}"
  user: "${oc.env:EXPCONF_TEST_USER}"
  copy: "${trainer}"
  literal: "\\${not.a.ref}"
`,
	"interp_bad.yaml": `
a: "${b}"
b: "${a}"
`,
}

func newTestResolver(t *testing.T, files map[string]string, opts ...Option) (*Resolver, context.Context) {
	t.Helper()

	ctx, _ := testutil.Context(t)
	docs, err := loader.New(testutil.NewMemFs(t, files), testutil.ConfRoot).Load(ctx)
	require.NoError(t, err)
	reg := registry.New()
	reg.Populate(docs)
	return New(reg, opts...), ctx
}

func mustResolve(t *testing.T, r *Resolver, ctx context.Context, entry string, overrides ...string) *config.Config {
	t.Helper()
	cfg, err := r.Resolve(ctx, entry, overrides...)
	require.NoError(t, err)
	return cfg
}

func mustInt(t *testing.T, cfg *config.Config, path string) int64 {
	t.Helper()
	v, err := cfg.Int(path)
	require.NoError(t, err)
	return v
}
