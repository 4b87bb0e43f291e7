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
	"math"
	"reflect"
	"testing"
)

func TestMissingFillValue(t *testing.T) {
	p := NewMissingPolicy(MissingConfig{
		FillValueIsMissing: true,
		HasFillValue:       true,
		FillValue:          -999.0,
	})
	if !p.HasMissing() {
		t.Error("policy with a fill value should have missing data")
	}
	if !p.IsMissing(-999.0) {
		t.Error("-999 should be missing")
	}
	if !p.IsMissing(-999.00001) {
		t.Error("-999.00001 should be missing within tolerance")
	}
	if p.IsMissing(5.0) {
		t.Error("5 should not be missing")
	}
	if !p.IsFillValue(-999.0) || p.IsFillValue(0) {
		t.Error("fill value misclassified")
	}
}

func TestMissingValidRange(t *testing.T) {
	p := NewMissingPolicy(MissingConfig{
		InvalidDataIsMissing: true,
		HasValidMin:          true,
		ValidMin:             0.0,
		HasValidMax:          true,
		ValidMax:             100.0,
	})
	if !p.HasValidData() {
		t.Error("valid range should be set")
	}
	if !p.IsMissing(150.0) {
		t.Error("150 should be missing")
	}
	if p.IsMissing(50.0) {
		t.Error("50 should not be missing")
	}
	if !p.IsMissing(math.NaN()) {
		t.Error("NaN should always be missing")
	}
	if p.IsMissing(100.0) || p.IsMissing(0.0) {
		t.Error("bounds are inclusive")
	}
}

func TestMissingValueFiltering(t *testing.T) {
	raw := []float64{5.0, -999.0, math.NaN()}
	p := NewMissingPolicy(MissingConfig{
		FillValueIsMissing:   true,
		MissingDataIsMissing: true,
		HasFillValue:         true,
		FillValue:            -999.0,
		MissingValues:        raw,
	})
	want := []float64{5.0}
	if got := p.MissingValues(); !reflect.DeepEqual(got, want) {
		t.Errorf("filtered missing values: got %v, want %v", got, want)
	}
	if !p.HasMissingValue() {
		t.Error("filtered list should be non-empty")
	}
	if !p.IsMissing(5.0) {
		t.Error("5 should be missing")
	}
	// The fill value still matches through the fill-value clause.
	if !p.IsMissing(-999.0) {
		t.Error("-999 should be missing via the fill value")
	}
}

// Without MissingDataIsMissing the raw list is stored unfiltered.
func TestMissingValueUnfiltered(t *testing.T) {
	raw := []float64{5.0, -999.0}
	p := NewMissingPolicy(MissingConfig{
		FillValueIsMissing: true,
		HasFillValue:       true,
		FillValue:          -999.0,
		MissingValues:      raw,
	})
	if got := p.MissingValues(); !reflect.DeepEqual(got, raw) {
		t.Errorf("got %v, want %v", got, raw)
	}
	if !p.HasMissingValue() {
		t.Error("unfiltered list should be non-empty")
	}
	// The list is stored but not enabled, so it contributes nothing.
	if p.IsMissing(5.0) {
		t.Error("5 should not be missing when MissingDataIsMissing is false")
	}
}

func TestMissingRangeFiltering(t *testing.T) {
	p := NewMissingPolicy(MissingConfig{
		InvalidDataIsMissing: true,
		MissingDataIsMissing: true,
		HasValidMin:          true,
		ValidMin:             0,
		HasValidMax:          true,
		ValidMax:             10,
		MissingValues:        []float64{-5, 3, 20},
	})
	want := []float64{3}
	if got := p.MissingValues(); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

// The filtered list must be a subset of the input, in input order.
func TestFilteringMonotonic(t *testing.T) {
	raw := []float64{7, 3, math.NaN(), 9, 1, 8}
	p := NewMissingPolicy(MissingConfig{
		InvalidDataIsMissing: true,
		MissingDataIsMissing: true,
		HasValidMin:          true,
		ValidMin:             2,
		MissingValues:        raw,
	})
	got := p.MissingValues()
	j := 0
	for _, m := range raw {
		if j < len(got) && got[j] == m {
			j++
		}
	}
	if j != len(got) {
		t.Errorf("filtered list %v is not an ordered subset of %v", got, raw)
	}
}

func TestAllFlagsOff(t *testing.T) {
	p := NewMissingPolicy(MissingConfig{
		HasValidMin:   true,
		ValidMin:      0,
		HasValidMax:   true,
		ValidMax:      1,
		HasFillValue:  true,
		FillValue:     -999,
		MissingValues: []float64{5},
	})
	if p.HasMissing() {
		t.Error("no policy flag is enabled, so nothing can be missing")
	}
	for _, v := range []float64{-999, 5, 2, 0.5} {
		if p.IsMissing(v) {
			t.Errorf("IsMissing(%v) should be false with all flags off", v)
		}
		if got := p.Convert(v); got != v {
			t.Errorf("Convert(%v) = %v, want identity", v, got)
		}
	}
}

func TestConvertProperties(t *testing.T) {
	p := NewMissingPolicy(MissingConfig{
		FillValueIsMissing:   true,
		InvalidDataIsMissing: true,
		MissingDataIsMissing: true,
		HasValidMin:          true,
		ValidMin:             -1000,
		HasValidMax:          true,
		ValidMax:             1000,
		HasFillValue:         true,
		FillValue:            -999,
		MissingValues:        []float64{5},
	})
	samples := []float64{-999, 5, 1500, -1500, 0, 3.25, 999.999, math.NaN(), math.Inf(1)}
	for _, v := range samples {
		got := p.Convert(v)
		if p.IsMissing(v) {
			if !math.IsNaN(got) {
				t.Errorf("Convert(%v) = %v, want NaN", v, got)
			}
		} else if got != v {
			t.Errorf("Convert(%v) = %v, want bitwise identity", v, got)
		}
		// Idempotence: converting a converted value changes nothing
		// observable (NaN stays NaN, valid stays valid).
		got2 := p.Convert(got)
		if math.IsNaN(got) != math.IsNaN(got2) || (!math.IsNaN(got) && got != got2) {
			t.Errorf("Convert not idempotent for %v", v)
		}
	}
}

func TestIsInvalidDataWithoutRange(t *testing.T) {
	p := NewMissingPolicy(MissingConfig{InvalidDataIsMissing: true})
	// NaN is invalid even with no range configured; finite values are
	// compared against the zero-value fuzzy bounds. Callers gate on
	// HasValidData, and IsMissing must not trip on the range clause.
	if !p.IsInvalidData(math.NaN()) {
		t.Error("NaN should be invalid")
	}
	if p.HasValidData() {
		t.Error("no valid range is configured")
	}
	if p.IsMissing(50.0) {
		t.Error("IsMissing must gate the range check with HasValidData")
	}
}

func TestNearlyEquals(t *testing.T) {
	if !nearlyEquals(1.0, 1.0+1e-7) {
		t.Error("values within relative tolerance should match")
	}
	if nearlyEquals(1.0, 1.1) {
		t.Error("distant values should not match")
	}
	if !nearlyEquals(0, 1e-6) {
		t.Error("near-zero comparison should use the absolute tolerance")
	}
}
