// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/expconf/internal/app"
)

// Exit codes.
const (
	ExitFailure = 1
	ExitUsage   = 2
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("expconf", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
expconf - composes experiment configurations from a tree of YAML/HCL documents.

Usage:
  expconf [options] ENTRY_POINT [OVERRIDE...]

Arguments:
  ENTRY_POINT
    A root document (config), a group variant (experiment/childes_multilingual_180k)
    or a variant name that is unique across groups (childes_multilingual_180k).
  OVERRIDE
    key=value     replace an existing value (dataset.subconfig=English)
    +key=value    add a new key
    ++key=value   add or replace a key
    ~key          delete a key
    group=variant select a different variant of a group (model=gpt2_5M)

Options must come before ENTRY_POINT.

Options:
`)
		flagSet.PrintDefaults()
	}

	confDirFlag := flagSet.String("conf-dir", "", "Path to the conf tree. Defaults to the bundled tree.")
	cFlag := flagSet.String("c", "", "Path to the conf tree (shorthand).")
	formatFlag := flagSet.String("format", app.FormatYAML, "Output format. Options: 'yaml' or 'json'.")
	treeFlag := flagSet.Bool("tree", false, "Print the composition tree instead of the config.")
	listFlag := flagSet.Bool("list", false, "List root documents and group variants.")
	strictFlag := flagSet.Bool("strict", false, "Check the config against the training schema.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	serveHostFlag := flagSet.String("serve-host", app.DefaultServeHost, "Interface to bind in serve mode. Use 0.0.0.0 to listen on all interfaces.")
	servePortFlag := flagSet.Int("serve-port", 0, "Serve configs over HTTP on this port instead of printing. 0 is disabled.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	confDir := *confDirFlag
	if confDir == "" {
		confDir = *cFlag
	}

	var entry string
	var overrides []string
	if flagSet.NArg() > 0 {
		entry = flagSet.Arg(0)
		overrides = flagSet.Args()[1:]
	}
	slog.Debug("Entry point determined.", "entry", entry, "overrides", overrides)

	if entry == "" && !*listFlag && *servePortFlag == 0 {
		slog.Debug("No entry point provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}
	if strings.HasPrefix(entry, "-") {
		return nil, false, &ExitError{Code: ExitUsage, Message: fmt.Sprintf("invalid entry point %q: options must come before it", entry)}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: ExitUsage, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: ExitUsage, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		ConfDir:   confDir,
		Entry:     entry,
		Overrides: overrides,
		Format:    strings.ToLower(*formatFlag),
		Tree:      *treeFlag,
		List:      *listFlag,
		Strict:    *strictFlag,
		LogFormat: logFormat,
		LogLevel:  logLevel,
		ServePort: *servePortFlag,
		ServeHost: *serveHostFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
