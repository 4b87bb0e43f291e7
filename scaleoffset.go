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

package cdm

import (
	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// ScaleOffset unpacks packed variable data following the NetCDF
// scale_factor/add_offset convention: unpacked = packed*Scale + Offset.
type ScaleOffset struct {
	Scale, Offset float64
}

// ReadScaleOffset reads the scale_factor and add_offset attributes of
// variable v. Absent attributes leave the identity transform (scale 1,
// offset 0).
func ReadScaleOffset(h *cdf.Header, v string) ScaleOffset {
	so := ScaleOffset{Scale: 1}
	if s := attrFloats(h, v, AttrScaleFactor); len(s) > 0 {
		so.Scale = s[0]
	}
	if o := attrFloats(h, v, AttrAddOffset); len(o) > 0 {
		so.Offset = o[0]
	}
	return so
}

// IsIdentity reports whether applying s leaves values unchanged.
func (s ScaleOffset) IsIdentity() bool { return s.Scale == 1 && s.Offset == 0 }

// Apply unpacks a single value.
func (s ScaleOffset) Apply(v float64) float64 {
	if s.IsIdentity() {
		return v
	}
	return v*s.Scale + s.Offset
}

// ApplyDense unpacks every element of a in place and returns a.
func (s ScaleOffset) ApplyDense(a *sparse.DenseArray) *sparse.DenseArray {
	if a == nil || s.IsIdentity() {
		return a
	}
	for i, v := range a.Elements {
		a.Elements[i] = v*s.Scale + s.Offset
	}
	return a
}
