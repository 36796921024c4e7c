package internal

import (
	"os"
	"path/filepath"
)

var (
	DefaultAppName          = "spendr"
	DefaultConfigFolderName = DefaultAppName
	DefaultConfigPath       = filepath.Join(os.Getenv("HOME"), ".config", DefaultConfigFolderName)
	DefaultGlobalConfigFile = filepath.Join(DefaultConfigPath, "config.json")
)
