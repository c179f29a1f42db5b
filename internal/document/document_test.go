// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package document

import (
	"testing"

	"github.com/specialistvlad/expconf/internal/confnode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_SplitsDefaultsFromBody(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	src := []byte(`# @package _global_
defaults:
  - /config
  - override /model: gpt2_5M
  - optional tokenizer: char
  - dataset: null
  - trainer: ???
  - _self_

data_preprocessing:
  subsample: 180000
`)
	root, err := confnode.ParseYAML(src)
	require.NoError(t, err)

	// --- Act ---
	doc, err := New("childes_multilingual_180k", "experiment", "conf/experiment/childes_multilingual_180k.yaml", PackageHeader(src), root)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, "experiment/childes_multilingual_180k", doc.Ref())
	assert.Equal(t, "", doc.Package, "_global_ places the body at the root")
	assert.True(t, doc.HasSelf())
	assert.Equal(t, []string{"data_preprocessing"}, doc.Body.Keys())

	require.Len(t, doc.Defaults, 6)
	assert.Equal(t, Entry{Kind: EntryBase, Name: "config", Absolute: true, Raw: "/config"}, doc.Defaults[0])
	assert.Equal(t, Entry{Kind: EntryOverride, Group: "model", Name: "gpt2_5M", Absolute: true, Raw: "override /model: gpt2_5M"}, doc.Defaults[1])
	assert.True(t, doc.Defaults[2].Optional)
	assert.Equal(t, "tokenizer", doc.Defaults[2].Group)
	assert.True(t, doc.Defaults[3].IsNull())
	assert.True(t, doc.Defaults[4].Required)
	assert.False(t, doc.Defaults[4].IsNull())
	assert.Equal(t, EntrySelf, doc.Defaults[5].Kind)
}

func TestNew_DefaultPackageIsGroup(t *testing.T) {
	t.Parallel()

	root, err := confnode.ParseYAML([]byte("name: gpt2\n"))
	require.NoError(t, err)

	doc, err := New("small", "model/kwargs", "x.yaml", "", root)
	require.NoError(t, err)
	assert.Equal(t, "model.kwargs", doc.Package)
	assert.False(t, doc.HasSelf())
	assert.Nil(t, doc.Defaults)
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		src  string
	}{
		{name: "top level list", src: "- a\n- b\n"},
		{name: "defaults not a list", src: "defaults: config\n"},
		{name: "two keys in entry", src: "defaults:\n  - {model: a, dataset: b}\n"},
		{name: "duplicate self", src: "defaults:\n  - _self_\n  - _self_\n"},
		{name: "package override", src: "defaults:\n  - model@foo: a\n"},
		{name: "list of variants", src: "defaults:\n  - model: [a, b]\n"},
		{name: "invalid name", src: "defaults:\n  - 'bad name'\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			root, err := confnode.ParseYAML([]byte(tc.src))
			require.NoError(t, err)

			_, err = New("doc", "", "doc.yaml", "", root)
			require.Error(t, err)
		})
	}
}

func TestEntry_Targets(t *testing.T) {
	t.Parallel()

	rel := Entry{Kind: EntryGroup, Group: "kwargs", Name: "small"}
	abs := Entry{Kind: EntryGroup, Group: "model", Name: "gpt2_5M", Absolute: true}
	base := Entry{Kind: EntryBase, Name: "gpt2_base"}

	assert.Equal(t, "model/kwargs", rel.TargetGroup("model"))
	assert.Equal(t, "kwargs", rel.TargetGroup(""))
	assert.Equal(t, "model", abs.TargetGroup("experiment"))
	assert.Equal(t, "model/gpt2_base", base.TargetRef("model"))
	assert.Equal(t, "gpt2_base", base.TargetRef(""))
}

func TestResolvePackage(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		header, group, want string
	}{
		{"", "", ""},
		{"", "model", "model"},
		{"", "a/b", "a.b"},
		{"_global_", "experiment", ""},
		{"_group_", "a/b", "a.b"},
		{"_global_.trainer", "experiment", "trainer"},
		{"_group_.extra", "model", "model.extra"},
		{"custom.place", "model", "custom.place"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, ResolvePackage(tc.header, tc.group), "header=%q group=%q", tc.header, tc.group)
	}
}

func TestPackageHeader(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "_global_", PackageHeader([]byte("\n# @package _global_\na: 1\n")))
	assert.Equal(t, "model", PackageHeader([]byte("# a comment\n#@package model\n")))
	assert.Equal(t, "", PackageHeader([]byte("a: 1\n# @package late\n")))
}

func TestParseDirective(t *testing.T) {
	t.Parallel()

	e, err := ParseDirective("override /model: gpt2_5M")
	require.NoError(t, err)
	assert.Equal(t, EntryOverride, e.Kind)
	assert.Equal(t, "model", e.Group)
	assert.Equal(t, "gpt2_5M", e.Name)

	e, err = ParseDirective("/config")
	require.NoError(t, err)
	assert.Equal(t, EntryBase, e.Kind)
	assert.True(t, e.Absolute)

	e, err = ParseDirective("dataset: null")
	require.NoError(t, err)
	assert.True(t, e.IsNull())
}
