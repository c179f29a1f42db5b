// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package confnode

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/specialistvlad/expconf/internal/confpath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func mustPath(raw string) confpath.Path {
	return confpath.MustParse(raw)
}

func TestParseYAML_SentinelRegardlessOfQuoting(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	src := `
plain: ???
single: '???'
double: "???"
not_sentinel: "???x"
`
	// --- Act ---
	n := mustYAML(t, src)

	// --- Assert ---
	for _, key := range []string{"plain", "single", "double"} {
		v, ok := n.Field(key)
		require.True(t, ok)
		assert.True(t, v.IsMissing(), "%s should be the sentinel", key)
	}
	v, _ := n.Field("not_sentinel")
	assert.False(t, v.IsMissing())
}

func TestParseYAML_Scalars(t *testing.T) {
	t.Parallel()

	n := mustYAML(t, `
i: 180000
f: 0.3
b: true
s: tokens
z: null
e: 1e-4
`)
	check := func(key string, want any) {
		v, ok := n.Field(key)
		require.True(t, ok, key)
		assert.Equal(t, want, v.Value(), key)
	}
	check("i", int64(180000))
	check("f", 0.3)
	check("b", true)
	check("s", "tokens")
	check("e", 1e-4)

	z, _ := n.Field("z")
	assert.True(t, z.IsNull())
}

func TestParseYAML_EmptyDocument(t *testing.T) {
	t.Parallel()

	n, err := ParseYAML([]byte("# nothing here\n"))
	require.NoError(t, err)
	assert.True(t, n.IsMapping())
	assert.Equal(t, 0, n.Len())
}

func TestParseYAML_MergeKeys(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	src := `
base: &base
  lr: 0.001
  steps: 10
fast: &fast
  lr: 0.01
  warmup: 1
single:
  <<: *base
  steps: 20
multi:
  <<: [*fast, *base]
  name: combo
`
	// --- Act ---
	n := mustYAML(t, src)

	// --- Assert ---
	single, _ := n.Field("single")
	assert.Equal(t, []string{"lr", "steps"}, single.Keys())
	steps, _ := single.Field("steps")
	assert.Equal(t, int64(20), steps.Value(), "explicit keys win over merged ones")

	multi, _ := n.Field("multi")
	assert.Equal(t, []string{"lr", "warmup", "steps", "name"}, multi.Keys())
	lr, _ := multi.Field("lr")
	assert.Equal(t, 0.01, lr.Value(), "earlier mappings in the list win")
	s, _ := multi.Field("steps")
	assert.Equal(t, int64(10), s.Value())
}

func TestParseYAML_MergeKeyRejectsNonMappings(t *testing.T) {
	t.Parallel()

	for _, src := range []string{
		"a:\n  <<: [1, 2]\n",
		"a:\n  <<: scalar\n",
	} {
		_, err := ParseYAML([]byte(src))
		require.Error(t, err, src)
		assert.Contains(t, err.Error(), "merge key expects a mapping", src)
	}
}

func TestMissingPaths_ReportsEveryPath(t *testing.T) {
	t.Parallel()

	n := mustYAML(t, `
experiment: {name: "???", seed: 1}
dataset: {subconfig: "???"}
tasks: [a, "???"]
`)
	var got []string
	for _, p := range MissingPaths(n) {
		got = append(got, p.String())
	}
	assert.Equal(t, []string{"experiment.name", "dataset.subconfig", "tasks[1]"}, got)
}

func TestWithAndWithout(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	base := mustYAML(t, `model: {name: gpt2, model_kwargs: {n_layer: 6}}`)

	// --- Act ---
	added, err := base.With(mustPath("model.model_kwargs.resid_pdrop"), Scalar(0.3), true)
	require.NoError(t, err)
	_, strictErr := base.With(mustPath("model.unknown"), Scalar(1), false)
	removed, err := added.Without(mustPath("model.model_kwargs.n_layer"))
	require.NoError(t, err)

	// --- Assert ---
	require.Error(t, strictErr)
	assert.Equal(t, map[string]any{"model": map[string]any{
		"name":         "gpt2",
		"model_kwargs": map[string]any{"resid_pdrop": 0.3},
	}}, ToAny(removed))
	// The original stays untouched.
	_, ok := base.Lookup(mustPath("model.model_kwargs.resid_pdrop"))
	assert.False(t, ok)
}

func TestNest(t *testing.T) {
	t.Parallel()

	n, err := Nest(confpath.Keys("model", "kwargs"), Mapping(Field{Key: "a", Value: Scalar(1)}))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"model": map[string]any{"kwargs": map[string]any{"a": int64(1)}}}, ToAny(n))

	_, err = Nest(confpath.Path{confpath.IndexStep(0)}, Null())
	require.Error(t, err)
}

func TestEncoders_KeepKeyOrder(t *testing.T) {
	t.Parallel()

	n := mustYAML(t, `
zeta: 1
alpha: {beta: "???", x: [1, 2.5]}
`)
	js, err := json.Marshal(n)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":1,"alpha":{"beta":"???","x":[1,2.5]}}`, string(js))

	out, err := yaml.Marshal(n)
	require.NoError(t, err)
	assert.Equal(t, "zeta: 1\nalpha:\n    beta: ???\n    x:\n        - 1\n        - 2.5\n", string(out))
}

func TestEqual_IgnoresKeyOrder(t *testing.T) {
	t.Parallel()

	a := mustYAML(t, `{x: 1, y: [a, b]}`)
	b := mustYAML(t, `{y: [a, b], x: 1}`)
	c := mustYAML(t, `{y: [b, a], x: 1}`)

	assert.True(t, Equal(a, b))
	assert.False(t, Equal(a, c))
}

func TestInterpolate(t *testing.T) {
	t.Parallel()

	env := func(k string) (string, bool) {
		if k == "HF_USER" {
			return "zeb", true
		}
		return "", false
	}

	n := mustYAML(t, `
experiment: {group: childes, name: "${experiment.group}-${model.name}"}
model: {name: gpt2_5M}
copy: ${model}
user: ${oc.env:HF_USER}
fallback: ${oc.env:NOT_SET,default-user}
literal: '\${not.a.ref}'
`)
	out, err := Interpolate(n, env)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"experiment": map[string]any{"group": "childes", "name": "childes-gpt2_5M"},
		"model":      map[string]any{"name": "gpt2_5M"},
		"copy":       map[string]any{"name": "gpt2_5M"},
		"user":       "zeb",
		"fallback":   "default-user",
		"literal":    "${not.a.ref}",
	}, ToAny(out))
}

func TestInterpolate_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		src  string
	}{
		{name: "missing key", src: `a: ${b.c}`},
		{name: "cycle", src: "a: ${b}\nb: ${a}"},
		{name: "self reference", src: `a: {x: "${a}"}`},
		{name: "unterminated", src: `a: "${b"`},
		{name: "mapping in string", src: "m: {x: 1}\na: \"pre-${m}\""},
		{name: "unset env", src: `a: ${oc.env:EXPCONF_SURELY_UNSET}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Interpolate(mustYAML(t, tc.src), os.LookupEnv)
			require.Error(t, err)
			var ie *InterpolationError
			assert.ErrorAs(t, err, &ie)
		})
	}
}
