package version

import (
	"fmt"
	"regexp"
	"runtime"
	"runtime/debug"
)

// Info captures the version of one component.
type Info struct {
	Name    string
	Version string
}

func (i Info) String() string { return i.Name + " " + i.Version }

// Build is stamped with -ldflags "-X .../internal/version.Build=v1.2.3".
var Build = "dev"

var goRegex = regexp.MustCompile(`go(\d+\.\d+(?:\.\d+)?)`)

// Tool returns the version of the running unitkit binary. An unstamped
// build falls back to the main module version recorded by the toolchain.
func Tool() Info {
	return Info{Name: "unitkit", Version: toolVersion(Build, debug.ReadBuildInfo)}
}

func toolVersion(stamped string, read func() (*debug.BuildInfo, bool)) string {
	if stamped != "" && stamped != "dev" {
		return stamped
	}
	if info, ok := read(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}

// Runtime returns the Go runtime version the binary was built with.
func Runtime() (Info, error) {
	return parseGo(runtime.Version())
}

func parseGo(out string) (Info, error) {
	match := goRegex.FindStringSubmatch(out)
	if len(match) < 2 {
		return Info{}, fmt.Errorf("unable to parse go version from %q", out)
	}
	return Info{Name: "go", Version: match[1]}, nil
}
