/*
Copyright © 2022 the phoenix authors.
This file is part of phoenix.

phoenix is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

phoenix is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with phoenix.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package phoenixutil contains the phoenix command-line interface.
package phoenixutil

import (
	"context"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"github.com/lnashier/viper"
	"github.com/spatialmodel/phoenix"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	pointCmds := []*pflag.FlagSet{spectrumCmd.Flags(), rawnameCmd.Flags()}
	gridCmds := []*pflag.FlagSet{spectrumCmd.Flags(), infoCmd.Flags(), availableCmd.Flags()}

	// Options are the configuration options available to phoenix.
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
			name: "LogLevel",
			usage: `
              LogLevel specifies the minimum level of log messages to print:
              debug, info, warning, or error.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "GridDir",
			usage: `
              GridDir specifies the directory holding the precomputed grid
              files. It can contain environment variables.`,
			shorthand:  "d",
			defaultVal: ".",
			flagsets:   gridCmds,
		},
		{
			name: "Photons",
			usage: `
              Photons specifies whether to use grids with spectra in photon
              units (ph/s/m²/nm) rather than power units (W/m²/nm).`,
			defaultVal: true,
			flagsets:   gridCmds,
		},
		{
			name: "GridMetallicity",
			usage: `
              GridMetallicity specifies the metallicity of the grid files to use.`,
			defaultVal: 0.0,
			flagsets:   gridCmds,
		},
		{
			name: "Resolutions",
			usage: `
              Resolutions specifies the resolutions of the grid files in GridDir,
              in ascending order.`,
			defaultVal: []string{"3", "10", "30", "100", "300", "1000", "3000", "10000", "30000", "100000"},
			flagsets:   append([]*pflag.FlagSet{resolutionCmd.Flags()}, gridCmds...),
		},
		{
			name: "CacheSize",
			usage: `
              CacheSize specifies the number of grids to hold in memory.`,
			defaultVal: 4,
			flagsets:   gridCmds,
		},
		{
			name: "R",
			usage: `
              R specifies the requested spectral resolution (λ/Δλ). The smallest
              available grid with at least this resolution is used.`,
			shorthand:  "r",
			defaultVal: 100.0,
			flagsets:   append([]*pflag.FlagSet{resolutionCmd.Flags()}, gridCmds...),
		},
		{
			name: "temperature",
			usage: `
              temperature specifies the stellar effective temperature in K.`,
			shorthand:  "t",
			defaultVal: 5780.0,
			flagsets:   pointCmds,
		},
		{
			name: "logg",
			usage: `
              logg specifies the base-10 logarithm of the stellar surface
              gravity in cm/s².`,
			shorthand:  "g",
			defaultVal: 4.4,
			flagsets:   pointCmds,
		},
		{
			name: "metallicity",
			usage: `
              metallicity specifies the stellar metallicity [Z/H].`,
			shorthand:  "z",
			defaultVal: 0.0,
			flagsets:   pointCmds,
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile specifies the path to write the spectrum to. If it
              is empty, the spectrum is written to standard output.`,
			shorthand:  "o",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{spectrumCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("PHOENIX")
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch v := option.defaultVal.(type) {
			case string:
				set.StringP(option.name, option.shorthand, v, option.usage)
			case []string:
				set.StringSliceP(option.name, option.shorthand, v, option.usage)
			case bool:
				set.BoolP(option.name, option.shorthand, v, option.usage)
			case int:
				set.IntP(option.name, option.shorthand, v, option.usage)
			case float64:
				set.Float64P(option.name, option.shorthand, v, option.usage)
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
	Root.AddCommand(spectrumCmd)
	Root.AddCommand(infoCmd)
	Root.AddCommand(availableCmd)
	Root.AddCommand(resolutionCmd)
	Root.AddCommand(rawnameCmd)
}

// setConfig finds and reads in the configuration file, if there is one,
// and sets the log level.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("phoenix: problem reading configuration file: %v", err)
		}
	}
	return setLogLevel(Cfg.GetString("LogLevel"))
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "phoenix",
	Short: "Model stellar spectra from the PHOENIX grid.",
	Long: `phoenix returns model stellar spectra for arbitrary temperature, surface
gravity, and metallicity by interpolating among precomputed grids of
PHOENIX-ACES-AGSS-COND-2011 models binned to a range of spectral resolutions.
Use the subcommands specified below to access the functionality.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'PHOENIX_var' where 'var' is the
name of the variable to be set.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of phoenix.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "phoenix v%s\n", phoenix.Version)
	},
	DisableAutoGenTag: true,
}

var spectrumCmd = &cobra.Command{
	Use:   "spectrum",
	Short: "Write a model spectrum.",
	Long: `spectrum writes the model spectrum for the stellar parameters given by
the temperature, logg, and metallicity options, at a resolution of at least R,
as two whitespace-separated columns: wavelength and flux. Points between
grid values are interpolated; temperature is interpolated in log space.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := NewLibrary(Cfg)
		if err != nil {
			return err
		}
		p, err := PointFromConfig(Cfg)
		if err != nil {
			return err
		}
		outputFile, err := checkOutputFile(Cfg.GetString("OutputFile"))
		if err != nil {
			return err
		}
		g, err := lib.Use(context.Background(), Cfg.GetFloat64("R"))
		if err != nil {
			return err
		}
		wavelength, flux, err := g.Spectrum(p)
		if err != nil {
			return err
		}
		return withOutput(cmd, outputFile, func(w io.Writer) error {
			return WriteSpectrum(w, g, p, wavelength, flux)
		})
	},
	DisableAutoGenTag: true,
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Describe a grid.",
	Long: `info writes the metadata and axis ranges of the grid that would be used
for resolution R, in TOML format.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := NewLibrary(Cfg)
		if err != nil {
			return err
		}
		g, err := lib.Use(context.Background(), Cfg.GetFloat64("R"))
		if err != nil {
			return err
		}
		return toml.NewEncoder(cmd.OutOrStdout()).Encode(newGridInfo(g))
	},
	DisableAutoGenTag: true,
}

var availableCmd = &cobra.Command{
	Use:   "available",
	Short: "List the stellar parameters in a grid.",
	Long: `available lists the temperature, logg, and metallicity of every
spectrum in the grid that would be used for resolution R.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := NewLibrary(Cfg)
		if err != nil {
			return err
		}
		g, err := lib.Use(context.Background(), Cfg.GetFloat64("R"))
		if err != nil {
			return err
		}
		return WriteAvailable(cmd.OutOrStdout(), g)
	},
	DisableAutoGenTag: true,
}

var resolutionCmd = &cobra.Command{
	Use:   "resolution",
	Short: "Print the grid resolution used for R.",
	Long: `resolution prints the smallest available grid resolution that is at least
R. If R is larger than every available resolution, the largest is printed
and a warning is logged.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		resolutions, err := getFloat64Slice("Resolutions", Cfg)
		if err != nil {
			return err
		}
		R, err := selectResolution(Cfg.GetFloat64("R"), resolutions)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%g\n", R)
		return nil
	},
	DisableAutoGenTag: true,
}

var rawnameCmd = &cobra.Command{
	Use:   "rawname",
	Short: "Print the name of a raw PHOENIX model file.",
	Long: `rawname prints the name of the high-resolution PHOENIX model file for the
stellar parameters given by the temperature, logg, and metallicity options.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := PointFromConfig(Cfg)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), phoenix.RawFilename(p))
		return nil
	},
	DisableAutoGenTag: true,
}
