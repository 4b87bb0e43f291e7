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

// Package cdm interprets NetCDF variable metadata: valid ranges, fill
// values, missing values, and scale/offset packing. Its core type is
// MissingPolicy, which classifies samples as valid or missing and
// replaces missing samples with NaN.
package cdm

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// defaultMaxRelativeDiff is the tolerance used for all nearly-equal and
// fuzzy-bound comparisons. It is a single package-wide constant; per-field
// tolerances are intentionally not supported.
const defaultMaxRelativeDiff = 1.0e-5

// nearlyEquals reports whether a and b are equal within
// defaultMaxRelativeDiff, using an absolute tolerance near zero and a
// relative tolerance elsewhere.
func nearlyEquals(a, b float64) bool {
	return floats.EqualWithinAbsOrRel(a, b, defaultMaxRelativeDiff, defaultMaxRelativeDiff)
}

// MissingConfig holds the inputs for constructing a MissingPolicy.
// It is typically produced by ReadMissingConfig, but may be filled in
// directly. To change the policy for a variable, modify a copy of the
// config and construct a new policy; policies themselves never change.
type MissingConfig struct {
	// FillValueIsMissing specifies whether samples matching the fill
	// value are classified as missing.
	FillValueIsMissing bool
	// InvalidDataIsMissing specifies whether samples outside the valid
	// range are classified as missing.
	InvalidDataIsMissing bool
	// MissingDataIsMissing specifies whether samples matching the
	// missing-value list are classified as missing.
	MissingDataIsMissing bool

	HasValidMin, HasValidMax bool
	ValidMin, ValidMax       float64

	HasFillValue bool
	FillValue    float64

	// MissingValues is the raw missing-value candidate list, in
	// attribute order.
	MissingValues []float64
}

// MissingPolicy decides whether samples of a variable are valid or
// missing, and converts missing samples to NaN. It is immutable after
// construction and safe for concurrent use without synchronization.
type MissingPolicy struct {
	fillValueIsMissing   bool
	invalidDataIsMissing bool
	missingDataIsMissing bool

	hasValidMin, hasValidMax bool
	validMin, validMax       float64
	// Bounds widened by the comparison tolerance, fixed at construction.
	fuzzyValidMin, fuzzyValidMax float64

	hasFillValue bool
	fillValue    float64

	hasMissingValue bool
	missingValues   []float64
}

// NewMissingPolicy constructs a policy from c.
//
// When c.MissingDataIsMissing is true, the missing-value candidates are
// filtered: NaNs are dropped, candidates matching the fill value are
// dropped if the fill value is itself treated as missing, and candidates
// outside the fuzzy valid range are dropped if out-of-range data is
// itself treated as missing. Surviving candidates keep their original
// order. When c.MissingDataIsMissing is false the list is kept as given.
func NewMissingPolicy(c MissingConfig) *MissingPolicy {
	p := &MissingPolicy{
		fillValueIsMissing:   c.FillValueIsMissing,
		invalidDataIsMissing: c.InvalidDataIsMissing,
		missingDataIsMissing: c.MissingDataIsMissing,
		hasValidMin:          c.HasValidMin,
		hasValidMax:          c.HasValidMax,
		validMin:             c.ValidMin,
		validMax:             c.ValidMax,
		fuzzyValidMin:        c.ValidMin - defaultMaxRelativeDiff,
		fuzzyValidMax:        c.ValidMax + defaultMaxRelativeDiff,
		hasFillValue:         c.HasFillValue,
		fillValue:            c.FillValue,
	}
	if p.missingDataIsMissing && len(c.MissingValues) > 0 {
		mv := make([]float64, 0, len(c.MissingValues))
		for _, m := range c.MissingValues {
			if math.IsNaN(m) {
				continue
			}
			if p.fillValueIsMissing && p.hasFillValue && nearlyEquals(m, p.fillValue) {
				continue
			}
			if p.invalidDataIsMissing && p.hasValidMin && m < p.fuzzyValidMin {
				continue
			}
			if p.invalidDataIsMissing && p.hasValidMax && m > p.fuzzyValidMax {
				continue
			}
			mv = append(mv, m)
		}
		p.missingValues = mv
	} else {
		p.missingValues = append([]float64{}, c.MissingValues...)
	}
	p.hasMissingValue = len(p.missingValues) > 0
	return p
}

// HasValidData reports whether a valid minimum or maximum is set.
func (p *MissingPolicy) HasValidData() bool { return p.hasValidMin || p.hasValidMax }

// ValidMin returns the valid minimum. Only meaningful when a minimum
// was configured.
func (p *MissingPolicy) ValidMin() float64 { return p.validMin }

// ValidMax returns the valid maximum. Only meaningful when a maximum
// was configured.
func (p *MissingPolicy) ValidMax() float64 { return p.validMax }

// IsInvalidData reports whether val is NaN or outside the fuzzy valid
// range. The range comparison happens even when no bound was configured,
// so callers deciding missingness from the valid range must first check
// HasValidData, as IsMissing does.
func (p *MissingPolicy) IsInvalidData(val float64) bool {
	if math.IsNaN(val) {
		return true
	}
	return val > p.fuzzyValidMax || val < p.fuzzyValidMin
}

// HasFillValue reports whether a fill value is set.
func (p *MissingPolicy) HasFillValue() bool { return p.hasFillValue }

// FillValue returns the fill value. Only meaningful when HasFillValue
// is true.
func (p *MissingPolicy) FillValue() float64 { return p.fillValue }

// IsFillValue reports whether val matches the fill value within the
// comparison tolerance.
func (p *MissingPolicy) IsFillValue(val float64) bool {
	return p.hasFillValue && nearlyEquals(val, p.fillValue)
}

// HasMissingValue reports whether the filtered missing-value list is
// non-empty.
func (p *MissingPolicy) HasMissingValue() bool { return p.hasMissingValue }

// MissingValues returns a copy of the stored missing-value list.
func (p *MissingPolicy) MissingValues() []float64 {
	return append([]float64{}, p.missingValues...)
}

// IsMissingValue reports whether val matches any stored missing value
// within the comparison tolerance.
func (p *MissingPolicy) IsMissingValue(val float64) bool {
	for _, m := range p.missingValues {
		if nearlyEquals(val, m) {
			return true
		}
	}
	return false
}

// HasMissing reports whether any sample of this variable could ever be
// classified missing. When it returns false, Convert is the identity
// and the bulk conversion functions return their input unchanged.
func (p *MissingPolicy) HasMissing() bool {
	return (p.invalidDataIsMissing && p.HasValidData()) ||
		(p.fillValueIsMissing && p.hasFillValue) ||
		(p.missingDataIsMissing && p.hasMissingValue)
}

// IsMissing reports whether val is classified missing. NaN is always
// missing. Otherwise each enabled policy is checked: the missing-value
// list, the fill value, and the valid range. Each clause is gated by its
// own flag and configuration so an unconfigured check cannot produce a
// false positive.
func (p *MissingPolicy) IsMissing(val float64) bool {
	if math.IsNaN(val) {
		return true
	}
	return (p.missingDataIsMissing && p.hasMissingValue && p.IsMissingValue(val)) ||
		(p.fillValueIsMissing && p.hasFillValue && p.IsFillValue(val)) ||
		(p.invalidDataIsMissing && p.HasValidData() && p.IsInvalidData(val))
}

// Convert returns NaN if val is missing, and val itself, bit for bit,
// otherwise.
func (p *MissingPolicy) Convert(val float64) float64 {
	if p.IsMissing(val) {
		return math.NaN()
	}
	return val
}
