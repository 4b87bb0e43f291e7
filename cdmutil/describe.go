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

package cdmutil

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ctessum/cdf"
	"github.com/gwalbran/cdm"
)

// Describe writes a report of every variable in the NetCDF file at path:
// dimensions, units, and the missing-data policy resolved under mode.
func Describe(w io.Writer, path string, mode cdm.EnhanceMode) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cdm: opening %s: %v", path, err)
	}
	defer f.Close()
	nc, err := cdf.Open(f)
	if err != nil {
		return fmt.Errorf("cdm: reading %s: %v", path, err)
	}
	describeHeader(w, nc.Header, mode)
	return nil
}

func describeHeader(w io.Writer, h *cdf.Header, mode cdm.EnhanceMode) {
	for _, v := range h.Variables() {
		fmt.Fprintf(w, "%s(%s)\n", v, strings.Join(h.Dimensions(v), ", "))
		if units, ok := h.GetAttribute(v, "units").(string); ok {
			fmt.Fprintf(w, "\tunits: %s\n", units)
		}
		p := cdm.ReadMissingPolicy(h, v, mode)
		if !p.HasMissing() {
			fmt.Fprintf(w, "\tno missing data\n")
			continue
		}
		if p.HasFillValue() {
			fmt.Fprintf(w, "\tfill value: %g\n", p.FillValue())
		}
		if p.HasValidData() {
			fmt.Fprintf(w, "\tvalid range: [%g, %g]\n", p.ValidMin(), p.ValidMax())
		}
		if p.HasMissingValue() {
			fmt.Fprintf(w, "\tmissing values: %g\n", p.MissingValues())
		}
	}
}
