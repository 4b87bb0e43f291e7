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
	"math"
	"os"

	"github.com/GaryBoone/GoStats/stats"
	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
	"github.com/gwalbran/cdm"
)

// Clean reads variable varname from the NetCDF file at path, unpacks it
// with its scale/offset attributes, converts missing samples to NaN, and
// writes a summary of the result to w. It returns an error when the
// fraction of missing samples exceeds maxMissing.
func Clean(w io.Writer, path, varname string, mode cdm.EnhanceMode, maxMissing float64) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cdm: opening %s: %v", path, err)
	}
	defer f.Close()
	nc, err := cdf.Open(f)
	if err != nil {
		return fmt.Errorf("cdm: reading %s: %v", path, err)
	}
	fi, err := f.Stat()
	if err != nil {
		return fmt.Errorf("cdm: reading %s: %v", path, err)
	}

	data, err := readVar(nc, fi.Size(), varname)
	if err != nil {
		return err
	}
	cdm.ReadScaleOffset(nc.Header, varname).ApplyDense(data)
	out := cdm.ReadMissingPolicy(nc.Header, varname, mode).ConvertDense(data)

	var d stats.Stats
	nMissing := 0
	for _, v := range out.Elements {
		if math.IsNaN(v) {
			nMissing++
		} else {
			d.Update(v)
		}
	}
	n := len(out.Elements)
	frac := 0.0
	if n > 0 {
		frac = float64(nMissing) / float64(n)
	}
	fmt.Fprintf(w, "%s: %d of %d samples missing (%.1f%%)\n", varname, nMissing, n, frac*100)
	if d.Count() > 0 {
		fmt.Fprintf(w, "valid samples: min %g, max %g, mean %g, stddev %g\n",
			d.Min(), d.Max(), d.Mean(), d.SampleStandardDeviation())
	}
	if frac > maxMissing {
		return fmt.Errorf("cdm: %s: missing fraction %.3f exceeds maximum %.3f", varname, frac, maxMissing)
	}
	return nil
}

// readVar reads the full contents of a numeric variable into a dense
// array. fsize is the size of the underlying file, used to determine the
// record count of record variables.
func readVar(nc *cdf.File, fsize int64, v string) (*sparse.DenseArray, error) {
	dims := nc.Header.Lengths(v)
	if dims == nil {
		return nil, fmt.Errorf("cdm: no variable named %s", v)
	}
	dims = append([]int{}, dims...) // Lengths returns the header's own slice.

	r := nc.Reader(v, nil, nil)
	n := -1
	if nc.Header.IsRecordVariable(v) {
		// A record variable's default buffer covers a single record, so
		// the buffer is sized from the record count instead.
		dims[0] = int(nc.Header.NumRecs(fsize))
		n = 1
		for _, d := range dims {
			n *= d
		}
	}
	buf := r.Zero(n)
	if n != 0 {
		if _, err := r.Read(buf); err != nil {
			return nil, fmt.Errorf("cdm: reading variable %s: %v", v, err)
		}
	}

	var elems []float64
	switch b := buf.(type) {
	case []float64:
		elems = b
	case []float32:
		elems = make([]float64, len(b))
		for i, x := range b {
			elems[i] = float64(x)
		}
	case []int32:
		elems = make([]float64, len(b))
		for i, x := range b {
			elems[i] = float64(x)
		}
	case []int16:
		elems = make([]float64, len(b))
		for i, x := range b {
			elems[i] = float64(x)
		}
	case []uint8:
		elems = make([]float64, len(b))
		for i, x := range b {
			elems[i] = float64(x)
		}
	default:
		return nil, fmt.Errorf("cdm: variable %s is not numeric", v)
	}

	data := sparse.ZerosDense(dims...)
	copy(data.Elements, elems)
	return data, nil
}
