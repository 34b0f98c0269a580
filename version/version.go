package version

import "runtime/debug"

// You can set the version at build time using something like:
// go build -ldflags "-X github.com/qfs/radix/version.Version=$(git describe --dirty)"

var Version string

// Hash is the short revision of the source tree the binary was built from,
// with a -dirty suffix if the tree had local modifications.
var Hash = func() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	var revision string
	modified := false
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}
	if len(revision) > 7 {
		revision = revision[:7]
	}
	if revision != "" && modified {
		return revision + "-dirty"
	}
	return revision
}()

// String returns the version if it was set at build time, the revision hash
// otherwise and "devel" if neither is known.
func String() string {
	switch {
	case Version != "":
		return Version
	case Hash != "":
		return Hash
	}
	return "devel"
}
