// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package schema

import (
	"fmt"
	"slices"

	"github.com/go-viper/mapstructure/v2"
	"github.com/hashicorp/go-multierror"
	"github.com/specialistvlad/expconf/internal/config"
)

var (
	joinUttsValues      = []string{"dynamic", "static"}
	subsampleTypeValues = []string{"examples", "words", "tokens"}
)

// Decode converts a resolved configuration into its typed form. Unknown
// keys and values of the wrong type are errors.
func Decode(cfg *config.Config) (*TransformerSegmentationConfig, error) {
	plain, err := cfg.ToMap()
	if err != nil {
		return nil, err
	}

	var out TransformerSegmentationConfig
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &out,
		ErrorUnused: true,
		TagName:     "mapstructure",
	})
	if err != nil {
		return nil, fmt.Errorf("creating decoder: %w", err)
	}
	if err := dec.Decode(plain); err != nil {
		return nil, fmt.Errorf("config %q does not match the training schema: %w", cfg.Entry(), err)
	}
	return &out, nil
}

// Validate checks field constraints and reports every violation at once.
func (c *TransformerSegmentationConfig) Validate() error {
	var errs *multierror.Error
	fail := func(path, format string, args ...any) {
		errs = multierror.Append(errs, &config.FieldError{Path: path, Reason: fmt.Sprintf(format, args...)})
	}

	required := map[string]string{
		"experiment.name":     c.Experiment.Name,
		"experiment.group":    c.Experiment.Group,
		"dataset.name":        c.Dataset.Name,
		"dataset.subconfig":   c.Dataset.Subconfig,
		"dataset.text_column": c.Dataset.TextColumn,
		"tokenizer.name":      c.Tokenizer.Name,
		"model.name":          c.Model.Name,
	}
	keys := make([]string, 0, len(required))
	for k := range required {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if required[k] == "" {
			fail(k, "must not be empty")
		}
	}

	if c.Experiment.ResumeCheckpointPath != nil && !c.Experiment.OfflineRun && !c.Experiment.DryRun && c.Experiment.ResumeRunID == nil {
		fail("experiment.resume_run_id", "is required when resuming an online run")
	}

	dp := c.DataPreprocessing
	if dp.MaxInputLength <= 0 {
		fail("data_preprocessing.max_input_length", "must be positive, got %d", dp.MaxInputLength)
	}
	if dp.JoinUtts != nil && !slices.Contains(joinUttsValues, *dp.JoinUtts) {
		fail("data_preprocessing.join_utts", "must be one of %v, got %q", joinUttsValues, *dp.JoinUtts)
	}
	if dp.SubsampleType != nil && !slices.Contains(subsampleTypeValues, *dp.SubsampleType) {
		fail("data_preprocessing.subsample_type", "must be one of %v, got %q", subsampleTypeValues, *dp.SubsampleType)
	}
	if dp.Subsample != nil {
		if *dp.Subsample <= 0 {
			fail("data_preprocessing.subsample", "must be positive, got %d", *dp.Subsample)
		}
		if dp.SubsampleType == nil {
			fail("data_preprocessing.subsample_type", "must be set when subsample is set")
		}
	}

	tr := c.Trainer
	if tr.BatchSize <= 0 {
		fail("trainer.batch_size", "must be positive, got %d", tr.BatchSize)
	}
	if tr.LR <= 0 {
		fail("trainer.lr", "must be positive, got %g", tr.LR)
	}
	if tr.MaxTrainingSteps <= 0 {
		fail("trainer.max_training_steps", "must be positive, got %d", tr.MaxTrainingSteps)
	}
	if tr.NumWarmupSteps < 0 || tr.NumWarmupSteps > tr.MaxTrainingSteps {
		fail("trainer.num_warmup_steps", "must be between 0 and max_training_steps, got %d", tr.NumWarmupSteps)
	}

	if err := errs.ErrorOrNil(); err != nil {
		return fmt.Errorf("invalid training config: %w", err)
	}
	return nil
}
