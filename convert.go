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
	"github.com/ctessum/sparse"
)

// ConvertSlice applies Convert to every element of data, returning a new
// slice of the same type and length. data may be a []float64 or a
// []float32; any other type is returned unchanged.
//
// When HasMissing is false, or data is not a float slice, the input is
// returned as-is rather than copied. Callers in large-array pipelines may
// rely on that reference identity to avoid allocation; it is part of the
// contract, not an accident of implementation.
func (p *MissingPolicy) ConvertSlice(data interface{}) interface{} {
	if !p.HasMissing() {
		return data
	}
	switch d := data.(type) {
	case []float64:
		out := make([]float64, len(d))
		for i, v := range d {
			out[i] = p.Convert(v)
		}
		return out
	case []float32:
		out := make([]float32, len(d))
		for i, v := range d {
			out[i] = float32(p.Convert(float64(v)))
		}
		return out
	}
	// Not floating-point data: nothing to convert. Packed integer data
	// must be unpacked with a ScaleOffset before missing conversion.
	return data
}

// ConvertDense applies Convert to every element of a, returning a new
// array with the same shape. When HasMissing is false or a is nil, a
// itself is returned; the same aliasing contract as ConvertSlice applies.
func (p *MissingPolicy) ConvertDense(a *sparse.DenseArray) *sparse.DenseArray {
	if a == nil || !p.HasMissing() {
		return a
	}
	out := sparse.ZerosDense(a.Shape...)
	for i, v := range a.Elements {
		out.Elements[i] = p.Convert(v)
	}
	return out
}
