// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package confpath implements the dotted addresses used to reach a value in a
// configuration tree, e.g. `trainer.batch_size` or
// `model.model_kwargs.resid_pdrop`. Sequence elements are written with an
// index suffix: `experiment.blimp_tasks[2]`.
//
// The same syntax is used by consumers reading fields, by the resolver when it
// reports unresolved required fields, and by command-line overrides.
package confpath
