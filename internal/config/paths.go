package config

import (
	"os"
	"path/filepath"
)

// Paths locates momai's files on disk.
type Paths struct {
	Dir     string // data directory, default ~/.momai
	Config  string // config file
	CacheDB string // sqlite cache file (or badger dir when that backend is selected)
}

// ResolvePaths determines the data directory. MOMAI_HOME overrides the
// default ~/.momai.
func ResolvePaths() (Paths, error) {
	dir := os.Getenv("MOMAI_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Paths{}, err
		}
		dir = filepath.Join(home, ".momai")
	}
	return Paths{
		Dir:     dir,
		Config:  filepath.Join(dir, "config.yaml"),
		CacheDB: filepath.Join(dir, "cache.db"),
	}, nil
}
