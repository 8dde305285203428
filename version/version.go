package version

import "runtime/debug"

// Version can be set at build time:
// go build -ldflags "-X github.com/cavetracker/cavesynth/version.Version=$(git describe --dirty)"
var Version string

// Hash is the short VCS revision the binary was built from, with a -dirty
// suffix for modified trees, or empty if unknown.
var Hash = func() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return revision(info.Settings)
	}
	return ""
}()

// VersionOrHash is Version if set, Hash otherwise.
var VersionOrHash = func() string {
	if Version != "" {
		return Version
	}
	return Hash
}()

func revision(settings []debug.BuildSetting) string {
	var rev string
	modified := false
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			modified = s.Value == "true"
		}
	}
	if len(rev) > 7 {
		rev = rev[:7]
	}
	if rev != "" && modified {
		rev += "-dirty"
	}
	return rev
}
