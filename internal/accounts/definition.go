package accounts

import (
	"github.com/cleared-dev/ledger/internal/id"
	"github.com/cleared-dev/ledger/internal/model"
)

// Definition is a named ledger category. Standard and custom definitions both
// satisfy it; parents are referenced by ID and resolved through an Index.
type Definition interface {
	ID() id.ID
	Name() string
	EquationVariable() model.Equation
	// ParentID returns the parent's ID, or false for a root definition.
	ParentID() (id.ID, bool)
	IsStandard() bool
}

// StandardDefinition is an entry of the built-in catalogue.
type StandardDefinition struct {
	id       id.ID
	key      string
	name     string
	equation model.Equation
	parent   id.ID
}

func (d *StandardDefinition) ID() id.ID                        { return d.id }
func (d *StandardDefinition) Name() string                     { return d.name }
func (d *StandardDefinition) EquationVariable() model.Equation { return d.equation }
func (d *StandardDefinition) IsStandard() bool                 { return true }

// Key returns the catalogue key, e.g. "CommonStock".
func (d *StandardDefinition) Key() string { return d.key }

func (d *StandardDefinition) ParentID() (id.ID, bool) {
	return d.parent, !d.parent.IsZero()
}

// CustomDefinition is created at runtime under an existing parent.
type CustomDefinition struct {
	id       id.ID
	name     string
	equation model.Equation
	parent   id.ID
}

func (d *CustomDefinition) ID() id.ID                        { return d.id }
func (d *CustomDefinition) Name() string                     { return d.name }
func (d *CustomDefinition) EquationVariable() model.Equation { return d.equation }
func (d *CustomDefinition) IsStandard() bool                 { return false }

func (d *CustomDefinition) ParentID() (id.ID, bool) {
	return d.parent, !d.parent.IsZero()
}

// isRoot reports whether def has no parent.
func isRoot(def Definition) bool {
	_, ok := def.ParentID()
	return !ok
}

// hasParent reports whether def's parent is parentID.
func hasParent(def Definition, parentID id.ID) bool {
	p, ok := def.ParentID()
	return ok && p == parentID
}

// isNil reports whether def is nil or a typed nil pointer.
func isNil(def Definition) bool {
	switch d := def.(type) {
	case nil:
		return true
	case *StandardDefinition:
		return d == nil
	case *CustomDefinition:
		return d == nil
	}
	return false
}
