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

// Command cdm is a command-line interface for inspecting NetCDF variable
// metadata and cleaning variable data.
package main

import (
	"fmt"
	"os"

	"github.com/gwalbran/cdm/cdmutil"
)

func main() {
	if err := cdmutil.Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
