package version

import (
	"fmt"
	"runtime"
)

// 構建時通過 -ldflags 注入
var (
	Version   = "dev"
	BuildTime = ""
	GoVersion = runtime.Version()
	GitCommit = ""
)

// UserAgent 請求 Home Assistant 時使用的標識
func UserAgent() string {
	return "hassup/" + Version
}

func Short() string {
	// v1.0.0 (abcdef01) 這種格式
	if GitCommit != "" {
		return fmt.Sprintf("v%s (%s)", Version, GitCommit)
	}
	return "v" + Version
}

func Info() string {
	return fmt.Sprintf(
		"hassup v%s\nBuild Time: %s\nGo Version: %s\nGit Commit: %s",
		Version, BuildTime, GoVersion, GitCommit,
	)
}
