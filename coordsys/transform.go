/*
Copyright © 2024 the CDM authors.
This file is part of CDM.

CDM is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

CDM is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with CDM.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package coordsys describes grid coordinate systems: coordinate
// transforms between a grid's coordinate system and a reference system,
// and vertical grid coordinates.
package coordsys

import "strings"

// TransformType distinguishes horizontal projections from vertical
// transforms.
type TransformType int

const (
	// Projection transforms map between geographic and projected
	// horizontal coordinates.
	Projection TransformType = iota
	// Vertical transforms map a dimensionless vertical coordinate to a
	// physical height or pressure.
	Vertical
)

func (t TransformType) String() string {
	switch t {
	case Projection:
		return "Projection"
	case Vertical:
		return "Vertical"
	}
	return "Unknown"
}

// Parameter is a named transform parameter with either a string value or
// one or more numeric values.
type Parameter struct {
	Name        string
	StringValue string
	Values      []float64
}

// IsString reports whether the parameter carries a string value.
func (p Parameter) IsString() bool { return p.StringValue != "" }

// Value returns the first numeric value, or 0 if there is none.
func (p Parameter) Value() float64 {
	if len(p.Values) == 0 {
		return 0
	}
	return p.Values[0]
}

// Transform is a function description from a coordinate system to a
// reference coordinate system: a name, the naming authority, the
// transform type, and the parameter list needed to instantiate it.
// It is immutable.
type Transform struct {
	name, authority string
	transformType   TransformType
	params          []Parameter
}

// NewTransform creates a transform. The parameter list is copied; name
// must be unique within the owning coordinate system.
func NewTransform(name, authority string, t TransformType, params []Parameter) *Transform {
	return &Transform{
		name:          name,
		authority:     authority,
		transformType: t,
		params:        append([]Parameter{}, params...),
	}
}

// Name returns the transform name.
func (t *Transform) Name() string { return t.name }

// Authority returns the naming authority.
func (t *Transform) Authority() string { return t.authority }

// Type returns the transform type.
func (t *Transform) Type() TransformType { return t.transformType }

// Parameters returns a copy of the parameter list.
func (t *Transform) Parameters() []Parameter {
	return append([]Parameter{}, t.params...)
}

// FindParameter looks up a parameter by name, ignoring case.
func (t *Transform) FindParameter(name string) (Parameter, bool) {
	for _, p := range t.params {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Parameter{}, false
}

// Equal reports whether two transforms have the same name, authority,
// type, and parameter names in the same order.
func (t *Transform) Equal(o *Transform) bool {
	if t == o {
		return true
	}
	if t == nil || o == nil {
		return false
	}
	if t.name != o.name || t.authority != o.authority || t.transformType != o.transformType {
		return false
	}
	if len(t.params) != len(o.params) {
		return false
	}
	for i := range t.params {
		if t.params[i].Name != o.params[i].Name {
			return false
		}
	}
	return true
}

func (t *Transform) String() string { return t.name }
