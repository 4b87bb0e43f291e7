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
	"reflect"
	"testing"

	"github.com/ctessum/cdf"
)

// testHeader returns a mutable header with one dimension "x" of length 4
// and one variable "T" with the given element type witness.
func testHeader(val interface{}) *cdf.Header {
	h := cdf.NewHeader([]string{"x"}, []int{4})
	h.AddVariable("T", []string{"x"}, val)
	return h
}

func TestReadMissingConfigValidRange(t *testing.T) {
	h := testHeader([]float32{})
	h.AddAttribute("T", AttrValidRange, []float32{0, 100})
	h.AddAttribute("T", AttrFillValue, []float32{-999})

	c := ReadMissingConfig(h, "T", DefaultEnhanceMode)
	if !c.HasValidMin || !c.HasValidMax {
		t.Fatal("valid range not read")
	}
	if c.ValidMin != 0 || c.ValidMax != 100 {
		t.Errorf("range [%v, %v], want [0, 100]", c.ValidMin, c.ValidMax)
	}
	if !c.HasFillValue || c.FillValue != -999 {
		t.Errorf("fill value %v, want -999", c.FillValue)
	}
}

func TestReadMissingConfigMinMax(t *testing.T) {
	h := testHeader([]float64{})
	h.AddAttribute("T", AttrValidMin, []float64{5})
	c := ReadMissingConfig(h, "T", DefaultEnhanceMode)
	if !c.HasValidMin || c.HasValidMax {
		t.Fatal("expected only a minimum")
	}
	if c.ValidMin != 5 {
		t.Errorf("min %v, want 5", c.ValidMin)
	}
}

// valid_range attributes stored packed must be unpacked with the
// variable's scale/offset.
func TestReadMissingConfigPacked(t *testing.T) {
	h := testHeader([]int16{})
	h.AddAttribute("T", AttrScaleFactor, []float64{0.5})
	h.AddAttribute("T", AttrAddOffset, []float64{100})
	h.AddAttribute("T", AttrValidRange, []int16{-200, 200})
	h.AddAttribute("T", AttrFillValue, []int16{-32767})
	h.AddAttribute("T", AttrMissingValue, []int16{-32000})

	c := ReadMissingConfig(h, "T", DefaultEnhanceMode)
	if c.ValidMin != 0 || c.ValidMax != 200 {
		t.Errorf("range [%v, %v], want [0, 200]", c.ValidMin, c.ValidMax)
	}
	if c.FillValue != -32767*0.5+100 {
		t.Errorf("fill value %v not unpacked", c.FillValue)
	}
	if want := -32000*0.5 + 100.0; !reflect.DeepEqual(c.MissingValues, []float64{want}) {
		t.Errorf("missing values %v, want [%v]", c.MissingValues, want)
	}
}

// Bounds as wide as the scale/offset type and wider than the packed data
// were stored unpacked already.
func TestReadMissingConfigStoredUnpacked(t *testing.T) {
	h := testHeader([]int16{})
	h.AddAttribute("T", AttrScaleFactor, []float64{0.5})
	h.AddAttribute("T", AttrAddOffset, []float64{100})
	h.AddAttribute("T", AttrValidRange, []float64{0, 200})

	c := ReadMissingConfig(h, "T", DefaultEnhanceMode)
	if c.ValidMin != 0 || c.ValidMax != 200 {
		t.Errorf("range [%v, %v] was rescaled, want [0, 200]", c.ValidMin, c.ValidMax)
	}
}

// A negative scale factor reverses the bounds during unpacking; they
// must come out swapped back.
func TestReadMissingConfigNegativeScale(t *testing.T) {
	h := testHeader([]int16{})
	h.AddAttribute("T", AttrScaleFactor, []float32{-1})
	h.AddAttribute("T", AttrValidRange, []int16{0, 100})

	c := ReadMissingConfig(h, "T", DefaultEnhanceMode)
	if c.ValidMin != -100 || c.ValidMax != 0 {
		t.Errorf("range [%v, %v], want [-100, 0]", c.ValidMin, c.ValidMax)
	}
}

func TestReadMissingConfigStringMissingValue(t *testing.T) {
	t.Run("numeric text", func(t *testing.T) {
		h := testHeader([]float32{})
		h.AddAttribute("T", AttrMissingValue, "-888.0")
		c := ReadMissingConfig(h, "T", DefaultEnhanceMode)
		if !reflect.DeepEqual(c.MissingValues, []float64{-888}) {
			t.Errorf("got %v, want [-888]", c.MissingValues)
		}
	})
	t.Run("unparseable text dropped", func(t *testing.T) {
		h := testHeader([]float32{})
		h.AddAttribute("T", AttrMissingValue, "n/a")
		c := ReadMissingConfig(h, "T", DefaultEnhanceMode)
		if len(c.MissingValues) != 0 {
			t.Errorf("got %v, want empty", c.MissingValues)
		}
	})
	t.Run("char variable", func(t *testing.T) {
		h := testHeader("")
		h.AddAttribute("T", AttrMissingValue, "X")
		c := ReadMissingConfig(h, "T", DefaultEnhanceMode)
		if !reflect.DeepEqual(c.MissingValues, []float64{float64('X')}) {
			t.Errorf("got %v, want [%v]", c.MissingValues, float64('X'))
		}
	})
	t.Run("char variable empty string", func(t *testing.T) {
		h := testHeader("")
		h.AddAttribute("T", AttrMissingValue, "")
		c := ReadMissingConfig(h, "T", DefaultEnhanceMode)
		if !reflect.DeepEqual(c.MissingValues, []float64{0}) {
			t.Errorf("got %v, want [0]", c.MissingValues)
		}
	})
}

func TestReadMissingPolicy(t *testing.T) {
	h := testHeader([]float32{})
	h.AddAttribute("T", AttrFillValue, []float32{-999})
	h.AddAttribute("T", AttrMissingValue, []float32{-999, 5})

	p := ReadMissingPolicy(h, "T", DefaultEnhanceMode)
	if !p.HasMissing() {
		t.Fatal("expected missing data")
	}
	// -999 is filtered out of the missing list as a duplicate of the
	// fill value but still classifies as missing.
	if got, want := p.MissingValues(), []float64{5}; !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if !p.IsMissing(-999) || !p.IsMissing(5) || p.IsMissing(7) {
		t.Error("classification incorrect")
	}

	off := ReadMissingPolicy(h, "T", EnhanceMode{})
	if off.HasMissing() {
		t.Error("all modes off should disable missing classification")
	}
}

func TestAttrFloats(t *testing.T) {
	h := testHeader([]float32{})
	h.AddAttribute("T", "bytes", []uint8{1, 2})
	h.AddAttribute("T", "shorts", []int16{3})
	h.AddAttribute("T", "ints", []int32{4})
	h.AddAttribute("T", "text", "hello")

	cases := []struct {
		name string
		want []float64
	}{
		{"bytes", []float64{1, 2}},
		{"shorts", []float64{3}},
		{"ints", []float64{4}},
		{"text", nil},
		{"absent", nil},
	}
	for _, c := range cases {
		if got := attrFloats(h, "T", c.name); !reflect.DeepEqual(got, c.want) {
			t.Errorf("%s: got %v, want %v", c.name, got, c.want)
		}
	}
}
