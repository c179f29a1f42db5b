// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package document models one configuration document: its identity in the
// conf tree, the package its keys land under, its defaults list and its own
// body.
//
// A conf tree looks like this:
//
//	conf/
//	  config.yaml              root document "config"
//	  model/gpt2_85M.yaml      variant "gpt2_85M" of group "model"
//	  experiment/base.yaml     variant "base" of group "experiment"
//
// The defaults list accepts four entry forms:
//
//	defaults:
//	  - base_settings          # another document, relative to this group
//	  - /config                # another document, absolute
//	  - model: gpt2_85M        # select a variant of a group
//	  - override /model: gpt2_5M
//	  - _self_                 # where this document's own keys apply
package document
