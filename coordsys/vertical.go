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

package coordsys

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/ctessum/cdf"
	"github.com/ctessum/unit"
)

// AxisType classifies a vertical coordinate axis.
type AxisType int

const (
	// AxisGeoZ is a vertical axis in unrecognized or dimensionless units.
	AxisGeoZ AxisType = iota
	// AxisHeight is a vertical axis in units of length.
	AxisHeight
	// AxisPressure is a vertical axis in units of pressure.
	AxisPressure
)

func (a AxisType) String() string {
	switch a {
	case AxisHeight:
		return "Height"
	case AxisPressure:
		return "Pressure"
	}
	return "GeoZ"
}

// verticalUnits maps common vertical level unit strings to their
// physical dimensions.
var verticalUnits = map[string]unit.Dimensions{
	"Pa":        unit.Pascal,
	"hPa":       unit.Pascal,
	"kPa":       unit.Pascal,
	"mb":        unit.Pascal,
	"mbar":      unit.Pascal,
	"millibar":  unit.Pascal,
	"millibars": unit.Pascal,
	"m":         unit.Meter,
	"meter":     unit.Meter,
	"meters":    unit.Meter,
	"metre":     unit.Meter,
	"metres":    unit.Meter,
	"km":        unit.Meter,
	"gpm":       unit.Meter,
	"ft":        unit.Meter,
	"feet":      unit.Meter,
}

// levelDimensions returns the physical dimensions of a level unit
// string, or nil when the unit is not recognized.
func levelDimensions(units string) unit.Dimensions {
	if d, ok := verticalUnits[strings.TrimSpace(units)]; ok {
		return d
	}
	return nil
}

// VerticalCoord is the vertical coordinate of a grid coordinate system:
// a named level set with units and an up or down orientation. Levels are
// accumulated with AddLevels and the result can be written into a NetCDF
// header as a CF coordinate variable.
type VerticalCoord struct {
	name        string
	description string
	units       string
	positive    string // "up" or "down"
	levels      []float64
	use         bool
}

// NewVerticalCoord creates a vertical coordinate named name. When use is
// false the coordinate is a placeholder for a grid without a real
// vertical dimension: it reports one level and is never written to a
// header.
func NewVerticalCoord(name, description, units string, positiveUp, use bool) *VerticalCoord {
	positive := "down"
	if positiveUp {
		positive = "up"
	}
	return &VerticalCoord{
		name:        name,
		description: description,
		units:       units,
		positive:    positive,
		use:         use,
	}
}

// Name returns the vertical coordinate name.
func (vc *VerticalCoord) Name() string { return vc.name }

// Units returns the level units.
func (vc *VerticalCoord) Units() string { return vc.units }

// Positive returns "up" or "down".
func (vc *VerticalCoord) Positive() string { return vc.positive }

// NLevels returns the number of levels, or 1 for an unused coordinate.
func (vc *VerticalCoord) NLevels() int {
	if !vc.use {
		return 1
	}
	return len(vc.levels)
}

// Levels returns a copy of the level values in coordinate order.
func (vc *VerticalCoord) Levels() []float64 {
	return append([]float64{}, vc.levels...)
}

// AddLevels merges values into the level set, dropping duplicates. The
// set is kept sorted ascending, or descending when positive is "down".
func (vc *VerticalCoord) AddLevels(values []float64) {
	for _, v := range values {
		if vc.containsLevel(v) {
			continue
		}
		vc.levels = append(vc.levels, v)
		if !vc.use && len(vc.levels) > 1 {
			log.Printf("coordsys: unused vertical coordinate %s has %d levels", vc.name, len(vc.levels))
		}
	}
	sort.Float64s(vc.levels)
	if vc.positive == "down" {
		for i, j := 0, len(vc.levels)-1; i < j; i, j = i+1, j-1 {
			vc.levels[i], vc.levels[j] = vc.levels[j], vc.levels[i]
		}
	}
}

// MatchLevels reports whether values, deduplicated and put in coordinate
// order, equal the stored level set.
func (vc *VerticalCoord) MatchLevels(values []float64) bool {
	other := &VerticalCoord{positive: vc.positive, use: true}
	other.AddLevels(values)
	if len(other.levels) != len(vc.levels) {
		return false
	}
	for i, v := range other.levels {
		if v != vc.levels[i] {
			return false
		}
	}
	return true
}

// Index returns the position of level in the coordinate, or -1.
func (vc *VerticalCoord) Index(level float64) int {
	for i, v := range vc.levels {
		if v == level {
			return i
		}
	}
	return -1
}

func (vc *VerticalCoord) containsLevel(level float64) bool {
	return vc.Index(level) >= 0
}

// AxisType classifies the coordinate from its level units: pressure
// units give AxisPressure, length units AxisHeight, and anything else
// AxisGeoZ.
func (vc *VerticalCoord) AxisType() AxisType {
	d := levelDimensions(vc.units)
	switch {
	case d == nil:
		return AxisGeoZ
	case d.Matches(unit.Pascal):
		return AxisPressure
	case d.Matches(unit.Meter):
		return AxisHeight
	}
	return AxisGeoZ
}

// Dimension returns the dimension name and length this coordinate
// contributes to a NetCDF header. Headers fix their dimensions at
// construction, so callers declare this dimension when creating the
// header and then call AddToHeader. The length of an unused coordinate
// is 1, matching NLevels.
func (vc *VerticalCoord) Dimension() (string, int) {
	return vc.name, vc.NLevels()
}

// AddToHeader adds the coordinate variable and its CF attributes to a
// mutable header whose dimensions already include this coordinate's
// dimension. axes lists the coordinate axes of the variables using this
// coordinate system, outermost first. transform optionally names the
// coordinate transform tied to the horizontal system; it is omitted for
// latitude/longitude grids. Unused coordinates are not written.
func (vc *VerticalCoord) AddToHeader(h *cdf.Header, axes []string, transform string) error {
	if !vc.use {
		return nil
	}
	found := false
	for _, d := range h.Dimensions("") {
		if d == vc.name {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("coordsys: header has no dimension %s", vc.name)
	}

	h.AddVariable(vc.name, []string{vc.name}, []float64{})
	if vc.description != "" {
		h.AddAttribute(vc.name, "long_name", vc.description)
	}
	if vc.units != "" {
		h.AddAttribute(vc.name, "units", vc.units)
	}
	h.AddAttribute(vc.name, "positive", vc.positive)
	h.AddAttribute(vc.name, "_CoordinateAxisType", vc.AxisType().String())
	if len(axes) > 0 {
		h.AddAttribute(vc.name, "_CoordinateAxes", strings.Join(axes, " "))
	}
	if transform != "" {
		h.AddAttribute(vc.name, "_CoordinateTransforms", transform)
	}
	return nil
}

// WriteLevels writes the level values into the coordinate variable of f,
// which must have been created from a header prepared with AddToHeader.
func (vc *VerticalCoord) WriteLevels(f *cdf.File) error {
	if !vc.use {
		return nil
	}
	w := f.Writer(vc.name, nil, nil)
	if _, err := w.Write(vc.Levels()); err != nil {
		return fmt.Errorf("coordsys: writing levels for %s: %v", vc.name, err)
	}
	return nil
}
