// Package misc keeps program identification strings. Values may be set at
// link time with -ldflags "-X pxtovw/misc.version=... -X pxtovw/misc.gitHash=...".
package misc

import (
	"runtime/debug"
	"sync"
)

const appName = "pxtovw"

var (
	version = ""
	gitHash = ""

	fromBuild sync.Once
)

func buildInfo() {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	if version == "" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		version = bi.Main.Version
	}
	if gitHash != "" {
		return
	}
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" {
			gitHash = s.Value
			if len(gitHash) > 12 {
				gitHash = gitHash[:12]
			}
			return
		}
	}
}

func GetAppName() string {
	return appName
}

func GetVersion() string {
	fromBuild.Do(buildInfo)
	if version == "" {
		return "dev"
	}
	return version
}

func GetGitHash() string {
	fromBuild.Do(buildInfo)
	if gitHash == "" {
		return "unknown"
	}
	return gitHash
}
