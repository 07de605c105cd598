package units

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"unicode"
)

type prefixSet int

const (
	noPrefixes prefixSet = iota
	siPrefixes
	binaryPrefixes
)

type prefix struct {
	symbol string
	factor float64
}

// Longer symbols first so "Ki" wins over "K".
var (
	siShort = []prefix{
		{"da", 1e1},
		{"k", 1e3}, {"M", 1e6}, {"G", 1e9}, {"T", 1e12}, {"P", 1e15},
		{"d", 1e-1}, {"c", 1e-2}, {"m", 1e-3}, {"u", 1e-6}, {"n", 1e-9}, {"p", 1e-12},
	}
	binaryShort = []prefix{
		{"Ki", 1 << 10}, {"Mi", 1 << 20}, {"Gi", 1 << 30}, {"Ti", 1 << 40}, {"Pi", 1 << 50},
		{"k", 1e3}, {"K", 1e3}, {"M", 1e6}, {"G", 1e9}, {"T", 1e12}, {"P", 1e15},
	}
)

func (p prefixSet) list() []prefix {
	switch p {
	case siPrefixes:
		return siShort
	case binaryPrefixes:
		return binaryShort
	default:
		return nil
	}
}

// Unit is a named unit. One unit equals Factor base units of its dimension;
// Offset is added before scaling, which is only meaningful for absolute
// temperature scales.
type Unit struct {
	Name   string
	Factor float64
	Offset float64
	Dim    Dimension

	prefixes prefixSet
	builtin  bool
}

// Builtin reports whether the unit ships with the registry.
func (u *Unit) Builtin() bool { return u.builtin }

// Registry resolves unit names, including SI and binary prefixes, and
// accepts new definitions at runtime.
type Registry struct {
	mu         sync.RWMutex
	units      map[string]*Unit
	generation uint64
}

// NewRegistry returns a registry populated with the built-in units.
func NewRegistry() *Registry {
	r := &Registry{units: make(map[string]*Unit, len(builtinUnits)*2)}
	for _, def := range builtinUnits {
		u := &Unit{
			Name:     def.names[0],
			Factor:   def.factor,
			Offset:   def.offset,
			Dim:      def.dim,
			prefixes: def.prefixes,
			builtin:  true,
		}
		for _, name := range def.names {
			alias := *u
			alias.Name = name
			r.units[name] = &alias
		}
	}
	return r
}

// Lookup resolves name to a unit. Exact names win over prefixed forms.
func (r *Registry) Lookup(name string) (*Unit, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if u, ok := r.units[name]; ok {
		return u, true
	}
	for _, base := range r.units {
		for _, p := range base.prefixes.list() {
			if !strings.HasPrefix(name, p.symbol) || name[len(p.symbol):] != base.Name {
				continue
			}
			return &Unit{
				Name:   name,
				Factor: base.Factor * p.factor,
				Dim:    base.Dim,
			}, true
		}
	}
	return nil, false
}

// Define registers (or replaces) a non-built-in unit equal to factor base
// units of dim.
func (r *Registry) Define(name string, factor float64, dim Dimension) (*Unit, error) {
	if !ValidName(name) {
		return nil, fmt.Errorf("%w: %q is not a valid unit name", ErrInvalidUnit, name)
	}
	if math.IsNaN(factor) || math.IsInf(factor, 0) || factor <= 0 {
		return nil, fmt.Errorf("%w: %q must be a positive finite multiple", ErrInvalidUnit, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.units[name]; ok && existing.builtin {
		return nil, fmt.Errorf("%w: %q", ErrUnitExists, name)
	}
	u := &Unit{Name: name, Factor: factor, Dim: dim.Combine(nil, 1)}
	r.units[name] = u
	r.generation++
	return u, nil
}

// DefineBase registers a new base unit with a dimension of its own.
func (r *Registry) DefineBase(name string) (*Unit, error) {
	return r.Define(name, 1, Dim(name, 1))
}

// Names returns every registered unit name in sorted order. Prefixed forms
// are not enumerated.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.units))
	for name := range r.units {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Generation counts successful definitions since the registry was created.
func (r *Registry) Generation() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.generation
}

// ValidName reports whether s is usable as a unit or variable name.
func ValidName(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		if c == '_' || unicode.IsLetter(c) {
			continue
		}
		if i > 0 && unicode.IsDigit(c) {
			continue
		}
		return false
	}
	return true
}
