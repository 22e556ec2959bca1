package wire

import "slices"

const (
	Version02 = "0.2"
	Version03 = "0.3"

	// CurrentVersion is what Encode writes when no version is given.
	CurrentVersion = Version03
)

// SupportedVersions lists every wire version Decode accepts.
var SupportedVersions = []string{Version02, Version03}

// IsSupported reports whether v is a known wire version.
func IsSupported(v string) bool {
	return slices.Contains(SupportedVersions, v)
}
