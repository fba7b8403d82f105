package ci

import (
	"sort"
	"strings"
)

type Bump string

const (
	BumpPatch Bump = "patch"
	BumpMinor Bump = "minor"
	BumpMajor Bump = "major"
)

// ParseVersionBump reads the bump from a release tag such as
// "release-minor". It returns "" when the tag names none.
func ParseVersionBump(tag string) Bump {
	for _, b := range []Bump{BumpPatch, BumpMinor, BumpMajor} {
		if strings.HasSuffix(tag, "-"+string(b)) {
			return b
		}
	}
	return ""
}

// ParseReleaseModule finds the module a tag like "@graphql-common@release-patch"
// releases. mappings goes from module name to path; names are tried in
// sorted order.
func ParseReleaseModule(tag string, mappings map[string]string) (string, bool) {
	names := make([]string, 0, len(mappings))
	for name := range mappings {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if strings.HasPrefix(tag, "@"+name+"@") {
			return name, true
		}
	}
	return "", false
}
