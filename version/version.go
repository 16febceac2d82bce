// Package version maintains the table mapping a numeric protocol version
// (the integer a Handshake packet carries) to the Minecraft release that
// uses it, grounded in the reference implementation's static
// PROTOCOL_VERSIONS table and the corpus's use of go-semver to order and
// compare release identifiers rather than compare version strings directly.
package version

import (
	"fmt"
	"sort"

	"github.com/coreos/go-semver/semver"
)

// ReleaseInfo names the Minecraft release a given protocol version
// identifies, plus its semantic version for ordering against other
// releases (e.g. "is this connection at least 1.20.2").
type ReleaseInfo struct {
	ProtocolVersion int32
	ReleaseName     string
	SemVer          *semver.Version
}

var table = map[int32]ReleaseInfo{}

func register(protocolVersion int32, releaseName, semverStr string) {
	v, err := semver.NewVersion(semverStr)
	if err != nil {
		panic(fmt.Sprintf("version: invalid semver %q for protocol %d: %v", semverStr, protocolVersion, err))
	}
	table[protocolVersion] = ReleaseInfo{
		ProtocolVersion: protocolVersion,
		ReleaseName:     releaseName,
		SemVer:          v,
	}
}

func init() {
	register(758, "1.18", "1.18.0")
	register(759, "1.18.2", "1.18.2")
	register(760, "1.19", "1.19.0")
	register(761, "1.19.3", "1.19.3")
	register(762, "1.19.4", "1.19.4")
	register(763, "1.20.1", "1.20.1")
	register(764, "1.20.2", "1.20.2")
	register(765, "1.20.3", "1.20.3")
	register(766, "1.20.5", "1.20.5")
	register(767, "1.21", "1.21.0")
	register(768, "1.21.2", "1.21.2")
	register(769, "1.21.4", "1.21.4")
	register(770, "1.21.5", "1.21.5")
}

// Lookup resolves the release a Handshake's declared protocol version
// corresponds to. A host typically calls this to decide whether to accept
// the connection or send a LoginDisconnect citing an unsupported version.
func Lookup(protocolVersion int32) (ReleaseInfo, bool) {
	info, ok := table[protocolVersion]
	return info, ok
}

// Latest returns the ReleaseInfo with the highest SemVer in the table.
func Latest() ReleaseInfo {
	var latest ReleaseInfo
	first := true
	for _, info := range table {
		if first || latest.SemVer.LessThan(*info.SemVer) {
			latest = info
			first = false
		}
	}
	return latest
}

// Supported reports whether protocolVersion is at least as new as
// minProtocolVersion, using SemVer ordering rather than comparing the raw
// integers — protocol version numbers are not guaranteed monotonic across
// releases the way the semantic versions are.
func Supported(protocolVersion, minProtocolVersion int32) bool {
	got, ok := Lookup(protocolVersion)
	if !ok {
		return false
	}
	min, ok := Lookup(minProtocolVersion)
	if !ok {
		return false
	}
	return !got.SemVer.LessThan(*min.SemVer)
}

// Sorted returns every registered release ordered oldest to newest.
func Sorted() []ReleaseInfo {
	out := make([]ReleaseInfo, 0, len(table))
	for _, info := range table {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].SemVer.LessThan(*out[j].SemVer)
	})
	return out
}
