// Package resolver implements §4.9, the fixed-point engine, together
// with the expression visitor (§4.5), element computer (§4.6),
// inherited-configuration walk (§4.8), and throw finder (§4.4) as
// separate files operating on one shared *Resolver — mirroring the
// teacher's internal/semantic package, which folds its mutually
// recursive analysis passes (analyze_classes_inheritance.go,
// analyze_exceptions.go, and the rest) into one package of methods on
// *Analyzer rather than a web of importing leaf packages. The four
// components are mutually recursive here exactly as they are in the
// specification, so splitting them into separate Go packages would
// recreate the same import cycle the teacher's single-package design
// avoids.
package resolver

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/effectcheck/internal/ast"
	"github.com/cwbudde/effectcheck/internal/config"
	"github.com/cwbudde/effectcheck/internal/overrides"
	"github.com/cwbudde/effectcheck/internal/types"
)

// WellKnownTypes names the handful of built-in exception/error types the
// expression visitor must produce itself rather than read off an
// annotation: the implicit throw of a failed dynamic dispatch, a failed
// cast, and the fallback rethrow target. The host supplies its real
// type objects; New defaults to generic stand-ins so the resolver is
// usable standalone in tests.
type WellKnownTypes struct {
	NoSuchMethodError types.Type
	TypeError         types.Type
	Object            types.Type
}

func defaultWellKnownTypes() WellKnownTypes {
	// NoSuchMethodError and TypeError sit on the Error side of the
	// Exception/Error split, so `safe` code is allowed to surface them
	// undeclared.
	return WellKnownTypes{
		NoSuchMethodError: types.NewClassType("NoSuchMethodError", nil),
		TypeError:         types.NewClassType("TypeError", nil),
		Object:            types.Object,
	}
}

// InternalError is the typed panic value for internal assertion
// failures (§7: "Internal assertion failure — propagates as a host
// exception"). Resolver.Settle recovers it into a returned error at the
// host boundary, mirroring cmd/dwscript/cmd/compile.go's pattern of
// turning panics from deeper layers into structured errors at the CLI
// boundary.
type InternalError struct {
	Reason string
}

func (e *InternalError) Error() string { return "resolver: internal error: " + e.Reason }

// depKey is the unified identity used by the dependents multimap and
// dirty set: either an AST node key or an element location, never both.
type depKey struct {
	node   ast.NodeKey
	elem   config.ElementLocation
	isElem bool
}

func nodeKey(n ast.Node) depKey               { return depKey{node: n.Key()} }
func elemKey(l config.ElementLocation) depKey { return depKey{elem: l, isElem: true} }

// Resolver owns the two memo tables, the dependents graph, and the
// dirty set described in §4.9's Lifecycle and Memoization paragraphs.
// One Resolver is scoped to a single analysis session; every field is
// destroyed with it.
type Resolver struct {
	mu sync.Mutex

	overrides *overrides.Table

	exprConfigs map[ast.NodeKey]config.Configuration
	elemConfigs map[config.ElementLocation]config.Configuration

	// elements indexes every registered declaration by location, so the
	// settle loop and the inherited-configuration walk can look one up
	// by name without the host re-supplying it on every request.
	elements map[config.ElementLocation]ast.Element

	dependents map[depKey]map[depKey]bool
	dirty      map[depKey]bool

	// inProgress implements the per-element recursion-protection flag
	// from §4.9: a location present here is currently being computed: a
	// reentrant request returns a provisional Configuration::empty.
	inProgress map[config.ElementLocation]bool

	wellKnown WellKnownTypes
}

// SetWellKnownTypes overrides the built-in exception/error types used by
// the expression visitor's implicit-throw rules (failed dispatch, failed
// cast, bare rethrow with no enclosing type).
func (r *Resolver) SetWellKnownTypes(w WellKnownTypes) { r.wellKnown = w }

// New creates a Resolver backed by the given override table (pass
// overrides.NewTable() for an empty one).
func New(table *overrides.Table) *Resolver {
	if table == nil {
		table = overrides.NewTable()
	}
	return &Resolver{
		overrides:   table,
		exprConfigs: make(map[ast.NodeKey]config.Configuration),
		elemConfigs: make(map[config.ElementLocation]config.Configuration),
		elements:    make(map[config.ElementLocation]ast.Element),
		dependents:  make(map[depKey]map[depKey]bool),
		dirty:       make(map[depKey]bool),
		inProgress:  make(map[config.ElementLocation]bool),
		wellKnown:   defaultWellKnownTypes(),
	}
}

// Register seeds the resolver with a declaration reachable by later
// lookups (inherited-configuration walks, the fixed-point settle loop's
// initial dirty set) and marks it dirty for the first settle pass.
func (r *Resolver) Register(elem ast.Element) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.elements[elem.Location()] = elem
	r.dirty[elemKey(elem.Location())] = true
}

// RegisterAll registers every element in elems.
func (r *Resolver) RegisterAll(elems []ast.Element) {
	for _, e := range elems {
		r.Register(e)
	}
}

// lookupElement resolves a previously registered declaration by
// location, used by the inherited-configuration walk and the element
// computer's override/inheritance steps.
func (r *Resolver) lookupElement(loc config.ElementLocation) (ast.Element, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.elements[loc]
	return e, ok
}

// addDependent records that reading `n`'s cached configuration
// contributed to computing `reader` (§4.9 Dependents graph). Self-edges
// are dropped: a host-level request uses the requested node itself as
// the reader identity, and re-dirtying a node because its own value
// changed would keep the settle loop spinning.
func (r *Resolver) addDependent(n, reader depKey) {
	if n == reader {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.dependents[n]
	if !ok {
		set = make(map[depKey]bool)
		r.dependents[n] = set
	}
	set[reader] = true
}

func (r *Resolver) markDirty(k depKey) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dirty[k] = true
}

// request threads the "currently computing" identity through the
// mutually recursive visitor/computer calls so that every cache read
// can record a dependents edge, without relying on goroutine-local
// state.
type request struct {
	reader  depKey
	library string // originating library, for §4.8's private-member visibility rule

	// rethrowType is the caught exception type in scope for a bare
	// `rethrow` expression (§4.5: "enclosing catch's exception type, else
	// Object"); nil outside any catch clause body.
	rethrowType types.Type
}

// ElementConfiguration returns elem's memoized Configuration, computing
// it on first request. Intended for host callers outside any resolver
// computation (e.g. a lint driver); internal recursive calls go through
// computeElement directly so they can pass a *request.
func (r *Resolver) ElementConfiguration(elem ast.Element) config.Configuration {
	req := &request{reader: elemKey(elem.Location()), library: elem.Location().Library}
	return r.getElementConfiguration(elem, req)
}

// ExpressionConfiguration returns expr's memoized Configuration relative
// to the enclosing element enclosingLib (used for private-member
// visibility when the expression resolves a property access).
func (r *Resolver) ExpressionConfiguration(expr ast.Expression, enclosingLib string) config.Configuration {
	req := &request{reader: nodeKey(expr), library: enclosingLib}
	return r.getExpressionConfiguration(expr, req)
}

// getElementConfiguration is the memoized, recursion-protected entry
// point every internal caller uses.
func (r *Resolver) getElementConfiguration(elem ast.Element, req *request) config.Configuration {
	cfg, _ := r.getElementConfigurationChecked(elem, req)
	return cfg
}

// getElementConfigurationChecked additionally reports whether the
// returned value is final. known=false means the element is currently
// being computed (here or on another settle goroutine) and the caller
// received a provisional Configuration::empty — per §4.9, the inner
// requester treats that as "no information" rather than as an element
// with no invoke slot.
func (r *Resolver) getElementConfigurationChecked(elem ast.Element, req *request) (config.Configuration, bool) {
	loc := elem.Location()
	key := elemKey(loc)
	r.addDependent(key, req.reader)

	r.mu.Lock()
	if cached, ok := r.elemConfigs[loc]; ok && !r.inProgress[loc] {
		r.mu.Unlock()
		return cached, true
	}
	if r.inProgress[loc] {
		// Reentrant request during this element's own computation:
		// §4.9 "Requesting an element configuration from inside its own
		// computation yields None to the inner requester only." Both the
		// in-flight element and the reader are marked dirty so the
		// settle loop replaces the provisional answer.
		r.mu.Unlock()
		r.markDirty(key)
		r.markDirty(req.reader)
		return config.Empty(), false
	}
	r.inProgress[loc] = true
	r.mu.Unlock()

	// The element computes under its own identity so that every cache
	// read inside records a dependents edge to the immediate consumer,
	// not the outermost requester.
	childReq := &request{reader: key, library: loc.Library}
	result := r.computeElement(elem, childReq)

	r.mu.Lock()
	r.elemConfigs[loc] = result
	delete(r.inProgress, loc)
	r.mu.Unlock()

	return result, true
}

func (r *Resolver) getExpressionConfiguration(expr ast.Expression, req *request) config.Configuration {
	key := nodeKey(expr)
	r.addDependent(key, req.reader)

	r.mu.Lock()
	if cached, ok := r.exprConfigs[key.node]; ok {
		r.mu.Unlock()
		return cached
	}
	r.mu.Unlock()

	childReq := &request{reader: key, library: req.library, rethrowType: req.rethrowType}
	result := r.computeExpression(expr, childReq)

	r.mu.Lock()
	r.exprConfigs[key.node] = result
	r.mu.Unlock()

	return result
}

// Settle drives the fixed-point loop from §4.9's pseudocode: repeatedly
// recompute every dirty node in parallel, until the dirty set is empty.
// Recomputation reuses the same memoized entry points, so a node whose
// inputs did not actually change leaves the cache untouched and
// contributes no further dirty dependents.
func (r *Resolver) Settle(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			r.mu.Lock()
			r.dirty = make(map[depKey]bool)
			r.mu.Unlock()
			return ctx.Err()
		default:
		}

		r.mu.Lock()
		if len(r.dirty) == 0 {
			r.mu.Unlock()
			return nil
		}
		snapshot := make([]depKey, 0, len(r.dirty))
		for k := range r.dirty {
			snapshot = append(snapshot, k)
		}
		r.dirty = make(map[depKey]bool)
		r.mu.Unlock()

		g, gctx := errgroup.WithContext(ctx)
		for _, k := range snapshot {
			k := k
			g.Go(func() error {
				return r.resettle(gctx, k)
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}
}

// resettle recomputes a single dirty node and, if its cached value
// changed, marks every recorded dependent dirty for the next
// iteration.
func (r *Resolver) resettle(ctx context.Context, k depKey) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if ie, ok := rec.(*InternalError); ok {
				err = ie
				return
			}
			err = &InternalError{Reason: "panic during settle"}
		}
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !k.isElem {
		// A dirty expression node: its cached value was computed against
		// inputs that have since changed. The node object itself is not
		// retained, so the stale entry is evicted and every consumer is
		// re-run; the consumer's recomputation rebuilds the expression
		// fresh on its next read.
		r.mu.Lock()
		_, had := r.exprConfigs[k.node]
		delete(r.exprConfigs, k.node)
		deps := r.copyDependentsLocked(k)
		r.mu.Unlock()
		if had {
			for _, d := range deps {
				r.markDirty(d)
			}
		}
		return nil
	}

	elem, ok := r.lookupElement(k.elem)
	if !ok {
		return nil
	}
	r.mu.Lock()
	old, hadOld := r.elemConfigs[k.elem]
	r.mu.Unlock()

	req := &request{reader: k, library: k.elem.Library}
	next := r.computeElement(elem, req)

	r.mu.Lock()
	changed := !hadOld || !old.Equal(next)
	r.elemConfigs[k.elem] = next
	deps := r.copyDependentsLocked(k)
	r.mu.Unlock()

	if changed {
		for _, d := range deps {
			r.markDirty(d)
		}
	}
	return nil
}

// copyDependentsLocked snapshots k's dependents while r.mu is held, so
// the caller can dirty them without racing concurrent addDependent
// writes to the same set.
func (r *Resolver) copyDependentsLocked(k depKey) []depKey {
	set := r.dependents[k]
	if len(set) == 0 {
		return nil
	}
	out := make([]depKey, 0, len(set))
	for d := range set {
		out = append(out, d)
	}
	return out
}
