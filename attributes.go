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
	"log"
	"strconv"
	"strings"

	"github.com/ctessum/cdf"
)

// NetCDF attribute names interpreted by this package.
const (
	AttrValidRange   = "valid_range"
	AttrValidMin     = "valid_min"
	AttrValidMax     = "valid_max"
	AttrFillValue    = "_FillValue"
	AttrMissingValue = "missing_value"
	AttrScaleFactor  = "scale_factor"
	AttrAddOffset    = "add_offset"
)

// EnhanceMode holds the dataset- or variable-level switches controlling
// which metadata counts toward missing-data classification.
type EnhanceMode struct {
	FillValueIsMissing   bool
	InvalidDataIsMissing bool
	MissingDataIsMissing bool
}

// DefaultEnhanceMode enables all three missing-data interpretations,
// matching the usual dataset-opening defaults.
var DefaultEnhanceMode = EnhanceMode{
	FillValueIsMissing:   true,
	InvalidDataIsMissing: true,
	MissingDataIsMissing: true,
}

// attrFloats returns the numeric attribute a of variable v as float64s,
// or nil if the attribute is absent or is a string.
func attrFloats(h *cdf.Header, v, a string) []float64 {
	switch t := h.GetAttribute(v, a).(type) {
	case []uint8:
		r := make([]float64, len(t))
		for i, x := range t {
			r[i] = float64(x)
		}
		return r
	case []int16:
		r := make([]float64, len(t))
		for i, x := range t {
			r[i] = float64(x)
		}
		return r
	case []int32:
		r := make([]float64, len(t))
		for i, x := range t {
			r[i] = float64(x)
		}
		return r
	case []float32:
		r := make([]float64, len(t))
		for i, x := range t {
			r[i] = float64(x)
		}
		return r
	case []float64:
		return t
	}
	return nil
}

// typeRank orders the CDF numeric types by width: BYTE < SHORT < INT <
// FLOAT < DOUBLE. Strings and absent values rank zero.
func typeRank(val interface{}) int {
	switch val.(type) {
	case []uint8:
		return 1
	case []int16:
		return 2
	case []int32:
		return 3
	case []float32:
		return 4
	case []float64:
		return 5
	}
	return 0
}

func attrRank(h *cdf.Header, v, a string) int {
	return typeRank(h.GetAttribute(v, a))
}

// varRank returns the type rank of variable v's elements.
func varRank(h *cdf.Header, v string) int {
	return typeRank(h.ZeroValue(v, 0))
}

// isCharVariable reports whether variable v has element type CHAR.
func isCharVariable(h *cdf.Header, v string) bool {
	_, ok := h.ZeroValue(v, 0).(string)
	return ok
}

// ReadMissingConfig extracts the missing-data metadata of variable v from
// header h: the valid range (from valid_range, or valid_min/valid_max when
// valid_range is absent), the fill value, and the missing-value list.
//
// Attribute values stored packed are unpacked with the variable's
// scale/offset. The valid bounds are assumed to be stored unpacked when
// their type is as wide as the wider of scale_factor and add_offset and
// wider than the packed data; otherwise they are unpacked here. A negative
// scale factor can leave the bounds reversed after unpacking, so they are
// swapped here if needed; the resolver itself never reorders them.
//
// A string missing_value on a CHAR variable is interpreted as a single
// character code. On a numeric variable it is parsed as a number, and
// unparseable text is dropped with a logged warning.
func ReadMissingConfig(h *cdf.Header, v string, mode EnhanceMode) MissingConfig {
	c := MissingConfig{
		FillValueIsMissing:   mode.FillValueIsMissing,
		InvalidDataIsMissing: mode.InvalidDataIsMissing,
		MissingDataIsMissing: mode.MissingDataIsMissing,
	}
	so := ReadScaleOffset(h, v)

	validRank := 0
	if vr := attrFloats(h, v, AttrValidRange); len(vr) >= 2 {
		c.ValidMin, c.ValidMax = vr[0], vr[1]
		c.HasValidMin, c.HasValidMax = true, true
		validRank = attrRank(h, v, AttrValidRange)
	} else {
		// Only consult valid_min/valid_max when valid_range is absent.
		if vm := attrFloats(h, v, AttrValidMin); len(vm) > 0 {
			c.ValidMin = vm[0]
			c.HasValidMin = true
			validRank = attrRank(h, v, AttrValidMin)
		}
		if vm := attrFloats(h, v, AttrValidMax); len(vm) > 0 {
			c.ValidMax = vm[0]
			c.HasValidMax = true
			if r := attrRank(h, v, AttrValidMax); r > validRank {
				validRank = r
			}
		}
	}
	if c.HasValidMin || c.HasValidMax {
		soRank := attrRank(h, v, AttrScaleFactor)
		if r := attrRank(h, v, AttrAddOffset); r > soRank {
			soRank = r
		}
		// Bounds as wide as the scale/offset type and wider than the
		// packed data were stored unpacked; everything else needs
		// unpacking.
		if !(validRank == soRank && validRank > varRank(h, v)) {
			if c.HasValidMin {
				c.ValidMin = so.Apply(c.ValidMin)
			}
			if c.HasValidMax {
				c.ValidMax = so.Apply(c.ValidMax)
			}
		}
		if c.HasValidMin && c.HasValidMax && c.ValidMin > c.ValidMax {
			c.ValidMin, c.ValidMax = c.ValidMax, c.ValidMin
		}
	}

	if fv := attrFloats(h, v, AttrFillValue); len(fv) > 0 {
		c.HasFillValue = true
		c.FillValue = so.Apply(fv[0])
	}

	switch mv := h.GetAttribute(v, AttrMissingValue).(type) {
	case nil:
	case string:
		if isCharVariable(h, v) {
			code := 0.0
			if mv != "" {
				code = float64(mv[0])
			}
			c.MissingValues = []float64{code}
		} else if f, err := strconv.ParseFloat(strings.TrimSpace(mv), 64); err == nil {
			c.MissingValues = []float64{f}
		} else {
			log.Printf("cdm: variable %s: ignoring unparseable missing_value %q", v, mv)
		}
	default:
		vals := attrFloats(h, v, AttrMissingValue)
		c.MissingValues = make([]float64, len(vals))
		for i, m := range vals {
			c.MissingValues[i] = so.Apply(m)
		}
	}
	return c
}

// ReadMissingPolicy extracts the missing-data metadata of variable v and
// constructs the policy in one step.
func ReadMissingPolicy(h *cdf.Header, v string, mode EnhanceMode) *MissingPolicy {
	return NewMissingPolicy(ReadMissingConfig(h, v, mode))
}
