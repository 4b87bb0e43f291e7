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

// Package cdmutil provides the command-line interface for inspecting
// NetCDF variable metadata and cleaning variable data.
package cdmutil

import (
	"fmt"
	"os"

	"github.com/gwalbran/cdm"
	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Version is the version of this tool.
const Version = "0.1.0"

// Cfg holds configuration information.
var Cfg *viper.Viper

var logger = logrus.StandardLogger()

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "fillValueIsMissing",
			usage: `
              fillValueIsMissing specifies whether samples matching the
              _FillValue attribute are treated as missing data.`,
			defaultVal: true,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "invalidDataIsMissing",
			usage: `
              invalidDataIsMissing specifies whether samples outside the
              valid_range (or valid_min/valid_max) attributes are treated
              as missing data.`,
			defaultVal: true,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "missingDataIsMissing",
			usage: `
              missingDataIsMissing specifies whether samples matching the
              missing_value attribute are treated as missing data.`,
			defaultVal: true,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "maxMissing",
			usage: `
              maxMissing is the maximum fraction of missing samples the
              clean command accepts before reporting an error.`,
			defaultVal: 1.0,
			flagsets:   []*pflag.FlagSet{cleanCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("CDM")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(describeCmd)
	Root.AddCommand(cleanCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("cdm: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// enhanceMode assembles the missing-data interpretation switches from
// the configuration.
func enhanceMode() cdm.EnhanceMode {
	return cdm.EnhanceMode{
		FillValueIsMissing:   Cfg.GetBool("fillValueIsMissing"),
		InvalidDataIsMissing: Cfg.GetBool("invalidDataIsMissing"),
		MissingDataIsMissing: Cfg.GetBool("missingDataIsMissing"),
	}
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "cdm",
	Short: "A NetCDF variable metadata inspector.",
	Long: `cdm inspects NetCDF files: it reports each variable's missing-data
policy (fill value, valid range, and missing values) and converts missing
samples to NaN.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'CDM_var' where 'var' is
the name of the variable to be set.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("cdm v%s\n", Version)
	},
}

var describeCmd = &cobra.Command{
	Use:   "describe [netcdf file]",
	Short: "Describe the variables in a NetCDF file.",
	Long: `describe lists each variable in the given NetCDF file together with
its dimensions, units, and resolved missing-data policy.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.WithField("file", args[0]).Info("describing NetCDF file")
		return Describe(os.Stdout, args[0], enhanceMode())
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean [netcdf file] [variable]",
	Short: "Convert a variable's missing samples to NaN and summarize it.",
	Long: `clean reads the given variable, unpacks it using its scale_factor and
add_offset attributes, converts missing samples to NaN, and prints summary
statistics of the valid samples.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		maxMissing, err := cast.ToFloat64E(Cfg.Get("maxMissing"))
		if err != nil {
			return fmt.Errorf("cdm: invalid maxMissing value: %v", err)
		}
		logger.WithFields(logrus.Fields{
			"file":     args[0],
			"variable": args[1],
		}).Info("cleaning variable")
		return Clean(os.Stdout, args[0], args[1], enhanceMode(), maxMissing)
	},
}
