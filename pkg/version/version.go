// Package version reports build metadata set by ldflags or read from the
// embedded build info.
package version

import (
	"runtime"
	"runtime/debug"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

var (
	GitTag    string
	GitBranch string
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Info is the build metadata of an executable
type Info struct {
	Name     string `json:"name" yaml:"name"`
	Version  string `json:"version" yaml:"version"`
	Compiler string `json:"compiler" yaml:"compiler"`
	Source   string `json:"source,omitempty" yaml:"source,omitempty"`
	Hash     string `json:"hash,omitempty" yaml:"hash,omitempty"`
	Time     string `json:"build_time,omitempty" yaml:"build_time,omitempty"`
	Modified bool   `json:"modified,omitempty" yaml:"modified,omitempty"`
	Platform string `json:"platform,omitempty" yaml:"platform,omitempty"`
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Version returns the tag, then the branch, then the short VCS revision,
// falling back to "dev".
func Version() string {
	if GitTag != "" {
		return GitTag
	}
	if GitBranch != "" {
		return GitBranch
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && s.Value != "" {
				return shortRevision(s.Value)
			}
		}
	}
	return "dev"
}

// Get returns the build metadata for the named executable
func Get(name string) Info {
	result := Info{
		Name:     name,
		Version:  Version(),
		Compiler: runtime.Version(),
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		result.Source = info.Main.Path
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				result.Hash = s.Value
			case "vcs.time":
				result.Time = s.Value
			case "vcs.modified":
				result.Modified = s.Value == "true"
			}
		}
	}
	return result
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// shortRevision returns at most the first twelve characters of rev
func shortRevision(rev string) string {
	return rev[:min(len(rev), 12)]
}
