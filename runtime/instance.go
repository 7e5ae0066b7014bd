// Package runtime executes a compiled instruction stream against a data
// store: a single-threaded stack machine with a value stack, an input
// stack, a jump-path stack, and a current-result register (spec.md §4.5).
package runtime

import (
	"go.uber.org/zap"

	"github.com/garnish-lang/garnish-go/compiler"
	"github.com/garnish-lang/garnish-go/store"
)

const defaultJumpPathBound = 1024

// Resolver is a host hook consulted by the Resolve opcode when a symbol is
// not found in the current input or its surrounding pair context
// (spec.md §4.5, "or a host-supplied resolver").
type Resolver interface {
	Resolve(name string) (store.Ref, bool)
}

// Applier is a host hook consulted when PerformApply's base value is an
// ExternalMethod rather than an Expression or Partial.
type Applier interface {
	Apply(name string, arg store.Ref) (store.Ref, error)
}

// Option configures an Instance, following the functional-options idiom
// used throughout this codebase's constructors.
type Option func(*Instance)

// WithResolver installs a host symbol resolver.
func WithResolver(r Resolver) Option {
	return func(i *Instance) { i.resolver = r }
}

// WithApplier installs a host external-method applier.
func WithApplier(a Applier) Option {
	return func(i *Instance) { i.applier = a }
}

// WithJumpPathBound overrides the default jump-path stack bound.
func WithJumpPathBound(n int) Option {
	return func(i *Instance) { i.jumpPathBound = n }
}

// WithLogger installs a trace logger; every instruction is logged at debug
// level when set.
func WithLogger(l *zap.Logger) Option {
	return func(i *Instance) { i.log = l }
}

// Instance is one runtime execution context over a compiled Program and its
// backing Store. A Store may be shared read-only across Instances; each
// Instance owns its own stacks and cursor.
type Instance struct {
	Program *compiler.Program
	Store   *store.Store

	cursor  int
	values  []store.Ref
	inputs  []store.Ref
	jumpPath []int
	listMarks []int
	result  store.Ref
	hasResult bool

	jumpPathBound int
	resolver      Resolver
	applier       Applier
	log           *zap.Logger

	boolTrue, boolFalse       store.Ref
	boolTrueSet, boolFalseSet bool

	iterSignal iterSignal
}

// New creates an Instance ready to run prog against st.
func New(prog *compiler.Program, st *store.Store, opts ...Option) *Instance {
	i := &Instance{
		Program:       prog,
		Store:         st,
		jumpPathBound: defaultJumpPathBound,
	}
	for _, o := range opts {
		o(i)
	}
	return i
}

func (i *Instance) pushValue(r store.Ref) { i.values = append(i.values, r) }

func (i *Instance) popValue() (store.Ref, error) {
	if len(i.values) == 0 {
		return 0, &InstructionError{Cursor: i.cursor, Reason: "value stack underflow"}
	}
	n := len(i.values) - 1
	v := i.values[n]
	i.values = i.values[:n]
	return v, nil
}

func (i *Instance) peekValue() (store.Ref, error) {
	if len(i.values) == 0 {
		return 0, &InstructionError{Cursor: i.cursor, Reason: "value stack underflow"}
	}
	return i.values[len(i.values)-1], nil
}

func (i *Instance) pushJumpPath(addr int) error {
	if len(i.jumpPath) >= i.jumpPathBound {
		return &JumpPathOverflow{Cursor: i.cursor, Bound: i.jumpPathBound}
	}
	i.jumpPath = append(i.jumpPath, addr)
	return nil
}

func (i *Instance) popJumpPath() (int, bool) {
	if len(i.jumpPath) == 0 {
		return 0, false
	}
	n := len(i.jumpPath) - 1
	addr := i.jumpPath[n]
	i.jumpPath = i.jumpPath[:n]
	return addr, true
}
