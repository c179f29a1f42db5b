// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package confnode

import (
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/expconf/internal/confpath"
)

// EnvFunc looks up an environment variable, see os.LookupEnv.
type EnvFunc func(key string) (string, bool)

// InterpolationError reports a `${...}` expression that could not be
// resolved.
type InterpolationError struct {
	Path confpath.Path
	Expr string
	Err  error
}

func (e *InterpolationError) Error() string {
	return fmt.Sprintf("interpolation %q at %q: %v", e.Expr, e.Path.String(), e.Err)
}

func (e *InterpolationError) Unwrap() error { return e.Err }

var errCycle = errors.New("reference cycle")

// Interpolate replaces `${a.b}` references with the value found at that path
// and `${oc.env:NAME}` / `${oc.env:NAME,default}` with environment values.
// A string that is exactly one reference takes the referenced node as is, of
// any kind; references embedded in longer strings must point at scalars.
// `\${` escapes a literal `${`.
func Interpolate(root *Node, env EnvFunc) (*Node, error) {
	in := &interpolator{
		root:     root,
		env:      env,
		cache:    make(map[string]*Node),
		visiting: make(map[string]bool),
	}
	return in.node(confpath.Root, root)
}

type interpolator struct {
	root     *Node
	env      EnvFunc
	cache    map[string]*Node
	visiting map[string]bool
}

func (in *interpolator) node(p confpath.Path, n *Node) (*Node, error) {
	switch n.Kind() {
	case KindMapping:
		out := &Node{kind: KindMapping, fields: make(map[string]*Node, len(n.keys))}
		for _, k := range n.keys {
			child, err := in.node(p.Child(k), n.fields[k])
			if err != nil {
				return nil, err
			}
			out.set(k, child)
		}
		return out, nil
	case KindSequence:
		items := make([]*Node, len(n.items))
		for i, it := range n.items {
			child, err := in.node(p.Elem(i), it)
			if err != nil {
				return nil, err
			}
			items[i] = child
		}
		return &Node{kind: KindSequence, items: items}, nil
	case KindScalar:
		if s, ok := n.scalar.(string); ok && strings.Contains(s, "${") {
			return in.str(p, s)
		}
	}
	return n, nil
}

// str expands every reference in s.
func (in *interpolator) str(p confpath.Path, s string) (*Node, error) {
	parts, err := splitTemplate(s)
	if err != nil {
		return nil, &InterpolationError{Path: p, Expr: s, Err: err}
	}
	if len(parts) == 1 && parts[0].ref {
		return in.ref(p, parts[0].text)
	}

	var sb strings.Builder
	for _, part := range parts {
		if !part.ref {
			sb.WriteString(part.text)
			continue
		}
		v, err := in.ref(p, part.text)
		if err != nil {
			return nil, err
		}
		if v.Kind() == KindMapping || v.Kind() == KindSequence {
			return nil, &InterpolationError{Path: p, Expr: part.text, Err: fmt.Errorf("cannot embed a %s in a string", v.Kind())}
		}
		sb.WriteString(v.String())
	}
	return Scalar(sb.String()), nil
}

// ref resolves a single reference expression.
func (in *interpolator) ref(p confpath.Path, expr string) (*Node, error) {
	if rest, ok := strings.CutPrefix(expr, "oc.env:"); ok {
		name, def, hasDef := strings.Cut(rest, ",")
		name = strings.TrimSpace(name)
		if in.env != nil {
			if v, ok := in.env(name); ok {
				return Scalar(v), nil
			}
		}
		if hasDef {
			return Scalar(strings.Trim(strings.TrimSpace(def), `'"`)), nil
		}
		return nil, &InterpolationError{Path: p, Expr: expr, Err: fmt.Errorf("environment variable %s is not set", name)}
	}

	target, err := confpath.Parse(strings.TrimSpace(expr))
	if err != nil {
		return nil, &InterpolationError{Path: p, Expr: expr, Err: err}
	}
	key := target.String()
	if v, ok := in.cache[key]; ok {
		return v, nil
	}
	if in.visiting[key] {
		return nil, &InterpolationError{Path: p, Expr: expr, Err: errCycle}
	}
	raw, ok := in.root.Lookup(target)
	if !ok {
		return nil, &InterpolationError{Path: p, Expr: expr, Err: fmt.Errorf("key %q not found", key)}
	}

	in.visiting[key] = true
	v, err := in.node(target, raw)
	delete(in.visiting, key)
	if err != nil {
		return nil, err
	}
	in.cache[key] = v
	return v, nil
}

type templatePart struct {
	text string
	ref  bool
}

func splitTemplate(s string) ([]templatePart, error) {
	var parts []templatePart
	var lit strings.Builder
	for i := 0; i < len(s); {
		if strings.HasPrefix(s[i:], `\${`) {
			lit.WriteString("${")
			i += 3
			continue
		}
		if strings.HasPrefix(s[i:], "${") {
			end := strings.IndexByte(s[i+2:], '}')
			if end < 0 {
				return nil, errors.New("unterminated ${")
			}
			if lit.Len() > 0 {
				parts = append(parts, templatePart{text: lit.String()})
				lit.Reset()
			}
			parts = append(parts, templatePart{text: s[i+2 : i+2+end], ref: true})
			i += end + 3
			continue
		}
		lit.WriteByte(s[i])
		i++
	}
	if lit.Len() > 0 {
		parts = append(parts, templatePart{text: lit.String()})
	}
	return parts, nil
}
