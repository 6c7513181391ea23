// Package config loads espec settings through Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Configuration keys.
const (
	KeyDir    = "dir"
	KeyStrict = "strict"
	KeyFormat = "format"
)

// Defaults applied when no configuration file sets a value.
const (
	DefaultDir    = "features"
	DefaultFormat = "json"

	dbName = "espec.db"
)

// Init wires up the configuration sources. With an explicit path the file
// must exist; otherwise .espec.yaml is searched for in the working
// directory and then in ~/.config/espec, and a missing file simply leaves
// the defaults in place.
func Init(cfgPath string) error {
	viper.SetDefault(KeyDir, DefaultDir)
	viper.SetDefault(KeyStrict, false)
	viper.SetDefault(KeyFormat, DefaultFormat)

	if cfgPath != "" {
		viper.SetConfigFile(cfgPath)
	} else {
		viper.SetConfigName(".espec")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "espec"))
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// Dir returns the directory scanned for .feature files.
func Dir() string {
	if dir := viper.GetString(KeyDir); dir != "" {
		return dir
	}
	return DefaultDir
}

// DBPath returns the location of the catalog database.
func DBPath() string {
	return filepath.Join(Dir(), dbName)
}

// Strict reports whether check treats scenario-level parse failures as
// fatal.
func Strict() bool {
	return viper.GetBool(KeyStrict)
}

// Format returns the default dump format.
func Format() string {
	if format := viper.GetString(KeyFormat); format != "" {
		return format
	}
	return DefaultFormat
}
