package engine

import (
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"

	"github.com/roach88/strata/internal/ir"
)

// Scope is one namespace node of the type registry.
//
// A scope maps local names to registered declarations. Child scopes are
// keyed by declaration name, so nesting mirrors declaration nesting. All
// scopes of one tree share a registry that records registration order for
// the final graph.
type Scope struct {
	axis     *ir.Axis
	parent   *Scope
	path     ir.QualifiedName
	children map[string]*Scope
	reserved map[string]bool
	entries  map[string]*registration
	registry *registry
}

type registration struct {
	owner any
	hash  string
	node  *ir.Node
}

type registry struct {
	nodes []*ir.Node
	trace *ResolutionTrace
}

// NewScope creates a root scope over axis.
func NewScope(axis *ir.Axis) *Scope {
	return &Scope{
		axis:     axis,
		children: make(map[string]*Scope),
		reserved: make(map[string]bool),
		entries:  make(map[string]*registration),
		registry: &registry{trace: &ResolutionTrace{}},
	}
}

// Axis returns the version axis shared by the whole tree.
func (s *Scope) Axis() *ir.Axis {
	return s.axis
}

// Path returns the qualified name of the scope. The root has an empty path.
func (s *Scope) Path() ir.QualifiedName {
	return s.path
}

// IsRoot reports whether s has no parent.
func (s *Scope) IsRoot() bool {
	return s.parent == nil
}

// Parent returns the enclosing scope, or nil at the root.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// Root returns the outermost scope of the tree.
func (s *Scope) Root() *Scope {
	for s.parent != nil {
		s = s.parent
	}
	return s
}

// Trace returns the resolution trace shared by the tree.
func (s *Scope) Trace() *ResolutionTrace {
	return s.registry.trace
}

// Nested returns the child scope for name, creating it on first use.
// Repeated calls with the same name return the same scope.
func (s *Scope) Nested(name string) *Scope {
	if child, ok := s.children[name]; ok {
		return child
	}
	child := &Scope{
		axis:     s.axis,
		parent:   s,
		path:     s.path.Child(name),
		children: make(map[string]*Scope),
		reserved: make(map[string]bool),
		entries:  make(map[string]*registration),
		registry: s.registry,
	}
	s.children[name] = child
	return child
}

// Reserve makes name known in s before its content exists, so that
// QualifiedNameOf and Lookup succeed for forward references. Collisions are
// decided at Register, once content is available.
func (s *Scope) Reserve(name string) (ir.QualifiedName, error) {
	if name == "" {
		return "", &ir.Error{Code: ir.ErrCodeInvalidDeclaration, Message: "declaration name is empty", Declaration: string(s.path)}
	}
	s.reserved[name] = true
	return s.path.Child(name), nil
}

// Register records timeline under name and returns its qualified name.
//
// The first call for a name assigns the qualified name. A later call with
// the same owner, or with a timeline of identical content, is idempotent and
// returns the same name. Any other later call fails with DUPLICATE_NAME.
// owner must be comparable; builders pass themselves.
func (s *Scope) Register(name string, owner any, timeline *ir.Timeline[ir.Declaration]) (ir.QualifiedName, error) {
	qname, err := s.Reserve(name)
	if err != nil {
		return "", err
	}
	if timeline.Len() == 0 {
		return "", &ir.Error{Code: ir.ErrCodeEmptyTimeline, Message: "cannot register an empty timeline", Declaration: string(qname)}
	}
	first := timeline.Entries()[0].Value

	hash := ir.TimelineHash(timeline)
	if existing, ok := s.entries[name]; ok {
		if existing.owner == owner || existing.hash == hash {
			return qname, nil
		}
		return "", duplicateNameError(qname)
	}

	node := &ir.Node{
		Name:     qname,
		Kind:     first.Kind(),
		TopLevel: s.IsRoot(),
		Timeline: timeline,
	}
	s.entries[name] = &registration{owner: owner, hash: hash, node: node}
	s.registry.nodes = append(s.registry.nodes, node)

	log.Debug().
		Str("name", string(qname)).
		Str("kind", string(node.Kind)).
		Int("revisions", timeline.Len()).
		Msg("declaration registered")
	return qname, nil
}

// QualifiedNameOf returns the qualified name of a name reserved or
// registered in s, without registering anything. It does not search
// enclosing scopes.
func (s *Scope) QualifiedNameOf(name string) (ir.QualifiedName, error) {
	if !s.reserved[name] {
		return "", unknownDeclarationError(name, s.path)
	}
	return s.path.Child(name), nil
}

// Lookup resolves name against s and then each enclosing scope, returning
// the first qualified name found.
func (s *Scope) Lookup(name string) (ir.QualifiedName, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.reserved[name] {
			return cur.path.Child(name), true
		}
	}
	return "", false
}

// Node returns the registered node for a local name of s.
func (s *Scope) Node(name string) (*ir.Node, bool) {
	r, ok := s.entries[name]
	if !ok {
		return nil, false
	}
	return r.node, true
}

// Registered returns the number of declarations registered in the tree.
func (s *Scope) Registered() int {
	return len(s.registry.nodes)
}

// Pending returns the qualified names reserved in the tree but never
// registered, sorted.
func (s *Scope) Pending() []ir.QualifiedName {
	var out []ir.QualifiedName
	s.Root().walk(func(sc *Scope) {
		for name := range sc.reserved {
			if _, ok := sc.entries[name]; !ok {
				out = append(out, sc.path.Child(name))
			}
		}
	})
	slices.Sort(out)
	return out
}

func (s *Scope) walk(fn func(*Scope)) {
	fn(s)
	for _, child := range s.children {
		child.walk(fn)
	}
}

// Graph assembles the immutable graph from every registration in the tree,
// in registration order.
func (s *Scope) Graph() (*ir.Graph, error) {
	nodes := make([]*ir.Node, len(s.registry.nodes))
	copy(nodes, s.registry.nodes)
	g, err := ir.NewGraph(s.axis, nodes)
	if err != nil {
		return nil, fmt.Errorf("assemble graph: %w", err)
	}
	return g, nil
}
