// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package loader

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
	"github.com/specialistvlad/expconf/internal/confnode"
	"github.com/specialistvlad/expconf/internal/ctxlog"
	"github.com/specialistvlad/expconf/internal/document"
)

// documentPattern matches every document a conf tree may contain.
const documentPattern = "**/*.{yaml,yml,hcl}"

// Loader reads a conf tree rooted at a directory of an afero.Fs.
type Loader struct {
	fs   afero.Fs
	root string
}

// New creates a loader for the tree rooted at root inside fsys. An empty root
// or "." means the root of fsys.
func New(fsys afero.Fs, root string) *Loader {
	if root != "" && root != "." {
		fsys = afero.NewBasePathFs(fsys, root)
	}
	return &Loader{fs: fsys, root: root}
}

// NewOS creates a loader for a directory on the local file system.
func NewOS(dir string) *Loader {
	return New(afero.NewOsFs(), dir)
}

// Load reads every document of the tree. All parse failures are collected
// and returned together.
func (l *Loader) Load(ctx context.Context) ([]*document.Document, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Document loader started.", "root", l.root)

	files, err := l.discover()
	if err != nil {
		return nil, fmt.Errorf("failed to list documents under %q: %w", l.root, err)
	}
	logger.Debug("Discovered document files.", "count", len(files))

	var docs []*document.Document
	var errs *multierror.Error
	for _, file := range files {
		doc, err := l.loadFile(file)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		logger.Debug("Loaded document.", "ref", doc.Ref(), "package", doc.Package, "defaults", len(doc.Defaults), "file", file)
		docs = append(docs, doc)
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}

	logger.Debug("Document loading complete.", "documents", len(docs))
	return docs, nil
}

// discover returns the tree-relative paths of all documents, sorted. Hidden
// files and directories are skipped.
func (l *Loader) discover() ([]string, error) {
	matches, err := doublestar.Glob(afero.NewIOFS(l.fs), documentPattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}
	var out []string
	for _, m := range matches {
		if isHidden(m) {
			continue
		}
		out = append(out, m)
	}
	sort.Strings(out)
	return out, nil
}

func isHidden(p string) bool {
	for _, part := range strings.Split(p, "/") {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

// loadFile parses one document. Its group is the directory relative to the
// tree root and its name is the file name without extension.
func (l *Loader) loadFile(file string) (*document.Document, error) {
	src, err := afero.ReadFile(l.fs, file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file, err)
	}

	ext := path.Ext(file)
	name := strings.TrimSuffix(path.Base(file), ext)
	group := path.Dir(file)
	if group == "." {
		group = ""
	}

	var (
		root   *confnode.Node
		header string
	)
	switch ext {
	case ".hcl":
		root, header, err = parseHCL(src, file)
	default:
		root, header, err = parseYAML(src)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", file, err)
	}
	return document.New(name, group, file, header, root)
}
