// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package schema

// ExperimentParams identifies a run and switches optional evaluations.
type ExperimentParams struct {
	Seed int `mapstructure:"seed"`
	// Name of the run; usually set per experiment.
	Name string `mapstructure:"name"`
	// Group the run belongs to, analogous to a wandb project.
	Group                 string  `mapstructure:"group"`
	DryRun                bool    `mapstructure:"dry_run"`
	OfflineRun            bool    `mapstructure:"offline_run"`
	EvaluateSegmentation  bool    `mapstructure:"evaluate_segmentation"`
	SegmentationSubsample *int    `mapstructure:"segmentation_subsample"`
	EvaluateBabySLM       bool    `mapstructure:"evaluate_babyslm"`
	BlimpTasks            *string `mapstructure:"blimp_tasks"`
	ResumeCheckpointPath  *string `mapstructure:"resume_checkpoint_path"`
	// ResumeRunID is needed when resuming a run that logs online.
	ResumeRunID *string `mapstructure:"resume_run_id"`
}

// DatasetParams selects the corpus.
type DatasetParams struct {
	Name string `mapstructure:"name"`
	// Subconfig is the language or split, e.g. English.
	Subconfig             string `mapstructure:"subconfig"`
	TextColumn            string `mapstructure:"text_column"`
	IsPhonemes            bool   `mapstructure:"is_phonemes"`
	MaxAge                *int   `mapstructure:"max_age"`
	RemoveChildUtterances *bool  `mapstructure:"remove_child_utterances"`
	ValidSize             *int   `mapstructure:"valid_size"`
}

// TokenizerParams names the pretrained tokenizer.
type TokenizerParams struct {
	Name string `mapstructure:"name"`
}

// DataPreprocessingParams controls tokenization and subsampling.
type DataPreprocessingParams struct {
	MaxInputLength int `mapstructure:"max_input_length"`
	// JoinUtts is "dynamic", "static" or unset.
	JoinUtts             *string `mapstructure:"join_utts"`
	RemoveWordBoundaries bool    `mapstructure:"remove_word_boundaries"`
	Subsample            *int    `mapstructure:"subsample"`
	// SubsampleType is "examples", "words", "tokens" or unset.
	SubsampleType *string `mapstructure:"subsample_type"`
}

// ModelParams names the architecture and its constructor arguments.
type ModelParams struct {
	Name        string         `mapstructure:"name"`
	ModelKwargs map[string]any `mapstructure:"model_kwargs"`
}

// TrainerParams holds optimisation settings.
type TrainerParams struct {
	BatchSize        int     `mapstructure:"batch_size"`
	LR               float64 `mapstructure:"lr"`
	NumWarmupSteps   int     `mapstructure:"num_warmup_steps"`
	MaxTrainingSteps int     `mapstructure:"max_training_steps"`
	LoggingSteps     *int    `mapstructure:"logging_steps"`
	SaveSteps        *int    `mapstructure:"save_steps"`
	EvalSteps        *int    `mapstructure:"eval_steps"`
}

// TransformerSegmentationConfig is the whole training configuration.
type TransformerSegmentationConfig struct {
	Experiment        ExperimentParams        `mapstructure:"experiment"`
	Dataset           DatasetParams           `mapstructure:"dataset"`
	Tokenizer         TokenizerParams         `mapstructure:"tokenizer"`
	DataPreprocessing DataPreprocessingParams `mapstructure:"data_preprocessing"`
	Model             ModelParams             `mapstructure:"model"`
	Trainer           TrainerParams           `mapstructure:"trainer"`
}
