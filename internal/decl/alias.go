package decl

import (
	"github.com/roach88/strata/internal/engine"
	"github.com/roach88/strata/internal/ir"
)

// aliasHint names an anonymous declaration used directly as alias backing.
const aliasHint = "value"

// Alias gives a name to another type. It changes whenever its backing does.
type Alias struct {
	base
	backing Type
}

// NewAlias creates an alias builder.
func NewAlias(name string, backing Type, opts ...Option) *Alias {
	a := &Alias{base: newBase(ir.KindAlias, name, opts), backing: backing}
	a.init(a.build)
	return a
}

// SetBacking replaces the backing type before resolution.
func (a *Alias) SetBacking(t Type) error {
	if err := a.mutable(); err != nil {
		return err
	}
	a.backing = t
	return nil
}

func (a *Alias) build(qname ir.QualifiedName, child *engine.Scope) (*ir.Timeline[ir.Declaration], error) {
	if a.backing == nil {
		return nil, &ir.Error{Code: ir.ErrCodeInvalidDeclaration, Message: "alias needs a backing type"}
	}
	backing, err := a.backing.Get(child, aliasHint, false)
	if err != nil {
		return nil, err
	}
	return engine.BuildTimelineAt[ir.Declaration](child.Axis(), backing.Versions(), func(v ir.Version) (ir.Declaration, error) {
		ref, err := backing.Resolve(v)
		if err != nil {
			return nil, err
		}
		return ir.Alias{Name: qname, Backing: ref}, nil
	}, ir.Equal)
}
