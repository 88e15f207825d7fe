package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

const (
	cfgName     = "application"
	testCfgName = "application_test"
)

var (
	cfg  *viper.Viper
	once sync.Once
)

// ServerConfig holds the server.* section of application.yml.
type ServerConfig struct {
	Port       int
	CORSOrigin string
	SQLLog     bool
}

// Config loads the application configuration.
//
// Rules:
//  1. Under `go test`, application_test.yml is preferred.
//  2. Otherwise application.yml is used.
//  3. Search order: project root (nearest parent with go.mod) and its
//     ./config subdirectory, then the current working directory and its
//     ./config subdirectory.
func Config() mo.Result[*viper.Viper] {
	once.Do(func() {
		cfg, _ = loadViper()
	})
	return lo.If(cfg == nil, mo.Err[*viper.Viper](fmt.Errorf("can not find %s.yml", cfgName))).Else(mo.Ok(cfg))
}

// Server returns the server section with defaults applied.
// A missing configuration file yields pure defaults.
func Server() ServerConfig {
	sc := ServerConfig{Port: 8080, CORSOrigin: "http://localhost:5173"}
	res := Config()
	if res.IsError() {
		return sc
	}
	v := res.MustGet()
	if v.IsSet("server.port") {
		sc.Port = v.GetInt("server.port")
	}
	if v.IsSet("server.cors-origin") {
		sc.CORSOrigin = v.GetString("server.cors-origin")
	}
	sc.SQLLog = v.GetBool("server.sql-log")
	return sc
}

func loadViper() (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	addDefaultConfigPaths(v)

	name := cfgName
	if isTestProcess() {
		name = testCfgName
	}
	v.SetConfigName(name)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && name == testCfgName {
			// Fall back to the regular config when no test-specific one exists.
			v.SetConfigName(cfgName)
			if err = v.ReadInConfig(); err == nil {
				return v, nil
			}
		}
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return v, nil
}

// addDefaultConfigPaths registers the config search paths.
//
// Viper resolves relative paths against the current working directory, which
// varies between IDE runs, `go test` in package folders, and production
// launches. Anchoring on the module root first keeps dev-time discovery
// stable; the CWD fallback preserves runtime flexibility (config shipped
// next to the binary).
func addDefaultConfigPaths(v *viper.Viper) {
	cwd, err := os.Getwd()
	if err != nil {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		return
	}
	if root, ok := ProjectRoot(); ok {
		v.AddConfigPath(root)
		v.AddConfigPath(filepath.Join(root, "config"))
	}
	v.AddConfigPath(cwd)
	v.AddConfigPath(filepath.Join(cwd, "config"))
}

// ProjectRoot walks upward from the working directory until it finds a
// directory containing go.mod. The existence check alone is sufficient; the
// file is never parsed.
func ProjectRoot() (string, bool) {
	dir, err := os.Getwd()
	if err != nil {
		return "", false
	}
	for {
		if _, err = os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// isTestProcess detects whether the current process is a `go test` run.
// Test binaries are invoked with -test.* flags, which is the most reliable
// signal available without importing the testing package.
func isTestProcess() bool {
	for _, a := range os.Args {
		if strings.HasPrefix(a, "-test.") {
			return true
		}
	}
	return strings.HasSuffix(os.Args[0], ".test")
}
