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
	"strings"

	"github.com/ctessum/geom/proj"
)

// GridMappingName is the CF parameter naming the horizontal projection
// of a grid-mapping variable.
const GridMappingName = "grid_mapping_name"

// CF grid-mapping parameter names used when building PROJ.4 strings.
const (
	paramStandardParallel  = "standard_parallel"
	paramCentralMeridian   = "longitude_of_central_meridian"
	paramProjOriginLon     = "longitude_of_projection_origin"
	paramProjOriginLat     = "latitude_of_projection_origin"
	paramFalseEasting      = "false_easting"
	paramFalseNorthing     = "false_northing"
	paramScaleFactorAtLon  = "scale_factor_at_central_meridian"
	paramEarthRadius       = "earth_radius"
	paramSemiMajorAxis     = "semi_major_axis"
	paramSemiMinorAxis     = "semi_minor_axis"
	paramInverseFlattening = "inverse_flattening"
)

// Proj4 renders a projection transform's CF grid-mapping parameters as a
// PROJ.4 initialization string. The supported grid mappings are
// latitude_longitude, lambert_conformal_conic, mercator,
// transverse_mercator, and albers_conical_equal_area.
func (t *Transform) Proj4() (string, error) {
	if t.transformType != Projection {
		return "", fmt.Errorf("coordsys: %s is a %v transform, not a projection", t.name, t.transformType)
	}
	gm, ok := t.FindParameter(GridMappingName)
	if !ok || !gm.IsString() {
		return "", fmt.Errorf("coordsys: transform %s has no %s parameter", t.name, GridMappingName)
	}

	var b strings.Builder
	switch gm.StringValue {
	case "latitude_longitude":
		b.WriteString("+proj=longlat")
	case "lambert_conformal_conic":
		b.WriteString("+proj=lcc")
		if sp, ok := t.FindParameter(paramStandardParallel); ok && len(sp.Values) > 0 {
			b.WriteString(fmt.Sprintf(" +lat_1=%g", sp.Values[0]))
			if len(sp.Values) > 1 {
				b.WriteString(fmt.Sprintf(" +lat_2=%g", sp.Values[1]))
			} else {
				b.WriteString(fmt.Sprintf(" +lat_2=%g", sp.Values[0]))
			}
		}
		t.appendNumeric(&b, paramProjOriginLat, "lat_0")
		t.appendNumeric(&b, paramCentralMeridian, "lon_0")
		t.appendNumeric(&b, paramFalseEasting, "x_0")
		t.appendNumeric(&b, paramFalseNorthing, "y_0")
	case "mercator":
		b.WriteString("+proj=merc")
		t.appendNumeric(&b, paramProjOriginLon, "lon_0")
		t.appendNumeric(&b, paramStandardParallel, "lat_ts")
		t.appendNumeric(&b, paramFalseEasting, "x_0")
		t.appendNumeric(&b, paramFalseNorthing, "y_0")
	case "transverse_mercator":
		b.WriteString("+proj=tmerc")
		t.appendNumeric(&b, paramProjOriginLat, "lat_0")
		t.appendNumeric(&b, paramCentralMeridian, "lon_0")
		t.appendNumeric(&b, paramScaleFactorAtLon, "k_0")
		t.appendNumeric(&b, paramFalseEasting, "x_0")
		t.appendNumeric(&b, paramFalseNorthing, "y_0")
	case "albers_conical_equal_area":
		b.WriteString("+proj=aea")
		if sp, ok := t.FindParameter(paramStandardParallel); ok && len(sp.Values) > 0 {
			b.WriteString(fmt.Sprintf(" +lat_1=%g", sp.Values[0]))
			if len(sp.Values) > 1 {
				b.WriteString(fmt.Sprintf(" +lat_2=%g", sp.Values[1]))
			}
		}
		t.appendNumeric(&b, paramProjOriginLat, "lat_0")
		t.appendNumeric(&b, paramCentralMeridian, "lon_0")
		t.appendNumeric(&b, paramFalseEasting, "x_0")
		t.appendNumeric(&b, paramFalseNorthing, "y_0")
	default:
		return "", fmt.Errorf("coordsys: unsupported grid mapping %q", gm.StringValue)
	}

	if r, ok := t.FindParameter(paramEarthRadius); ok {
		b.WriteString(fmt.Sprintf(" +a=%g +b=%g", r.Value(), r.Value()))
	} else if a, ok := t.FindParameter(paramSemiMajorAxis); ok {
		b.WriteString(fmt.Sprintf(" +a=%g", a.Value()))
		if bb, ok := t.FindParameter(paramSemiMinorAxis); ok {
			b.WriteString(fmt.Sprintf(" +b=%g", bb.Value()))
		} else if rf, ok := t.FindParameter(paramInverseFlattening); ok {
			b.WriteString(fmt.Sprintf(" +rf=%g", rf.Value()))
		}
	}
	return b.String(), nil
}

func (t *Transform) appendNumeric(b *strings.Builder, param, proj4Name string) {
	if p, ok := t.FindParameter(param); ok && len(p.Values) > 0 {
		fmt.Fprintf(b, " +%s=%g", proj4Name, p.Value())
	}
}

// SR parses the transform's PROJ.4 representation into a spatial
// reference usable for coordinate conversion.
func (t *Transform) SR() (*proj.SR, error) {
	s, err := t.Proj4()
	if err != nil {
		return nil, err
	}
	sr, err := proj.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("coordsys: parsing %q for transform %s: %v", s, t.name, err)
	}
	return sr, nil
}
