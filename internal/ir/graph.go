package ir

import "fmt"

// Node is one registered declaration and its full history.
type Node struct {
	Name     QualifiedName
	Kind     DeclKind
	TopLevel bool
	Timeline *Timeline[Declaration]
}

// Graph is the resolved, immutable set of declarations produced by one
// evaluation pass. Nodes are in registration order.
type Graph struct {
	Axis  *Axis
	Nodes []*Node

	byName map[QualifiedName]*Node
}

// NewGraph indexes nodes by name. Later nodes with a duplicate name are
// rejected with DUPLICATE_NAME.
func NewGraph(axis *Axis, nodes []*Node) (*Graph, error) {
	g := &Graph{
		Axis:   axis,
		Nodes:  nodes,
		byName: make(map[QualifiedName]*Node, len(nodes)),
	}
	for _, n := range nodes {
		if _, dup := g.byName[n.Name]; dup {
			return nil, &Error{Code: ErrCodeDuplicateName, Message: "name registered twice in graph", Declaration: string(n.Name)}
		}
		g.byName[n.Name] = n
	}
	return g, nil
}

// Lookup returns the node registered under name.
func (g *Graph) Lookup(name QualifiedName) (*Node, bool) {
	n, ok := g.byName[name]
	return n, ok
}

// Resolve returns the snapshot of name in force at v.
func (g *Graph) Resolve(name QualifiedName, v Version) (Declaration, error) {
	n, ok := g.byName[name]
	if !ok {
		return nil, &Error{Code: ErrCodeUnknownDeclaration, Message: "no declaration with this name", Declaration: string(name)}
	}
	d, err := n.Timeline.Resolve(v)
	if err != nil {
		return nil, WithDeclaration(err, string(name))
	}
	return d, nil
}

// AsOf returns every declaration snapshot in force at v, in graph order.
func (g *Graph) AsOf(v Version) ([]Declaration, error) {
	if !g.Axis.Contains(v) {
		return nil, &Error{Code: ErrCodeUnknownVersion, Message: fmt.Sprintf("version %q is not on the axis", v)}
	}
	out := make([]Declaration, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		d, err := n.Timeline.Resolve(v)
		if err != nil {
			return nil, WithDeclaration(err, string(n.Name))
		}
		out = append(out, d)
	}
	return out, nil
}

// ChangedAt returns the names of declarations whose content changed at v.
// At the baseline every declaration is reported.
func (g *Graph) ChangedAt(v Version) []QualifiedName {
	var names []QualifiedName
	for _, n := range g.Nodes {
		if n.Timeline.HasChangedAt(v) {
			names = append(names, n.Name)
		}
	}
	return names
}

// Revisions returns the total number of timeline entries across all nodes.
func (g *Graph) Revisions() int {
	total := 0
	for _, n := range g.Nodes {
		total += n.Timeline.Len()
	}
	return total
}

// Document is the serializable form of a Graph.
type Document struct {
	IRVersion    string         `json:"ir_version" yaml:"ir_version"`
	Axis         []Version      `json:"axis" yaml:"axis"`
	Declarations []DocumentDecl `json:"declarations" yaml:"declarations"`
}

// DocumentDecl is one declaration with its revisions.
type DocumentDecl struct {
	Name      QualifiedName `json:"name" yaml:"name"`
	Kind      DeclKind      `json:"kind" yaml:"kind"`
	TopLevel  bool          `json:"top_level" yaml:"top_level"`
	Revisions []Revision    `json:"revisions" yaml:"revisions"`
}

// Revision is one timeline entry with its interval and canonical content.
type Revision struct {
	Since   Version        `json:"since" yaml:"since"`
	Until   Version        `json:"until,omitempty" yaml:"until,omitempty"`
	Hash    string         `json:"hash" yaml:"hash"`
	Content map[string]any `json:"content" yaml:"content"`
}

// Export converts the graph into its serializable document.
func (g *Graph) Export() Document {
	doc := Document{
		IRVersion:    IRVersion,
		Axis:         g.Axis.Versions(),
		Declarations: make([]DocumentDecl, 0, len(g.Nodes)),
	}
	for _, n := range g.Nodes {
		entries := n.Timeline.Entries()
		intervals := n.Timeline.Intervals()
		dd := DocumentDecl{
			Name:      n.Name,
			Kind:      n.Kind,
			TopLevel:  n.TopLevel,
			Revisions: make([]Revision, len(entries)),
		}
		for i, e := range entries {
			dd.Revisions[i] = Revision{
				Since:   intervals[i].Since,
				Until:   intervals[i].Until,
				Hash:    DeclarationHash(e.Value),
				Content: ToPlain(e.Value.Canonical()).(map[string]any),
			}
		}
		doc.Declarations = append(doc.Declarations, dd)
	}
	return doc
}

// CanonicalDocument returns the export as canonical IR content, suitable
// for golden snapshots and graph hashing.
func (g *Graph) CanonicalDocument() IRObject {
	decls := make(IRArray, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		revs := make(IRArray, 0, n.Timeline.Len())
		intervals := n.Timeline.Intervals()
		for i, e := range n.Timeline.entries {
			rev := IRObject{
				"since":   IRString(intervals[i].Since),
				"content": e.Value.Canonical(),
			}
			if !intervals[i].IsOpen() {
				rev["until"] = IRString(intervals[i].Until)
			}
			revs = append(revs, rev)
		}
		decls = append(decls, IRObject{
			"name":      IRString(n.Name),
			"kind":      IRString(n.Kind),
			"top_level": IRBool(n.TopLevel),
			"revisions": revs,
		})
	}
	axis := make(IRArray, g.Axis.Len())
	for i, v := range g.Axis.versions {
		axis[i] = IRString(v)
	}
	return IRObject{
		"ir_version":   IRString(IRVersion),
		"axis":         axis,
		"declarations": decls,
	}
}

// GraphHash computes the content address of a whole graph.
func GraphHash(g *Graph) string {
	return hashWithDomain(DomainGraph, MustMarshalCanonical(g.CanonicalDocument()))
}
