package main

import (
	"github.com/modern-devops/stdargv/tools"
	"github.com/spf13/pflag"
	"gopkg.in/ini.v1"
)

const (
	configFile = ".stdargv.ini"

	flagWildcard  = "wildcard"
	flagWide      = "wide"
	flagLeadUnits = "lead-units"
	flagFormat    = "format"

	formatLines = "lines"
	formatJSON  = "json"
)

type config struct {
	paths     []string
	Wildcard  bool   `ini:"wildcard"`
	Wide      bool   `ini:"wide"`
	LeadUnits string `ini:"lead_units"`
	Format    string `ini:"format"`
	LogLevel  string `ini:"log_level"`
	Verbose   bool   `ini:"-"`
}

func newConfig() *config {
	return &config{Format: formatLines, LogLevel: "info"}
}

// load reads every discovered config file, nearer ones override further ones.
func (c *config) load() error {
	if c.paths == nil {
		paths, err := tools.DetectConfigFiles(configFile)
		if err != nil {
			return err
		}
		c.paths = paths
	}
	if len(c.paths) == 0 {
		return nil
	}
	sources := make([]interface{}, 0, len(c.paths)-1)
	for _, p := range c.paths[1:] {
		sources = append(sources, p)
	}
	f, err := ini.LooseLoad(c.paths[0], sources...)
	if err != nil {
		return err
	}
	return f.MapTo(c)
}

// override applies the flags set on the command line.
func (c *config) override(fs *pflag.FlagSet) {
	if fs.Changed(flagWildcard) {
		c.Wildcard, _ = fs.GetBool(flagWildcard)
	}
	if fs.Changed(flagWide) {
		c.Wide, _ = fs.GetBool(flagWide)
	}
	if fs.Changed(flagLeadUnits) {
		c.LeadUnits, _ = fs.GetString(flagLeadUnits)
	}
	if fs.Changed(flagFormat) {
		c.Format, _ = fs.GetString(flagFormat)
	}
}
