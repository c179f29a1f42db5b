// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package config defines the resolved, read-only experiment configuration
// handed to training and evaluation code, along with the Loader interface
// that supplies the documents it is composed from.
//
// A *Config is built once per resolution and passed explicitly to every
// component that needs it. Fields are read by dotted path:
//
//	bs, err := cfg.Int("trainer.batch_size")
//	p, err := cfg.Float("model.model_kwargs.resid_pdrop")
//
// Concrete loaders live in separate packages; see internal/loader.
package config
