package commands

import (
	"fmt"

	"golang.org/x/mod/semver"
)

// Version is the grader's release version, set by main and read here so
// --min-version checks don't need to import package main.
var Version = "v1.0.0"

// CheckMinVersion returns an error if Version is older than required, so
// an assignment config pinning "fsmgrade --min-version v1.2.0" fails
// fast on a stale grader instead of producing a subtly wrong result.
func CheckMinVersion(required string) error {
	if required == "" {
		return nil
	}
	if !semver.IsValid(required) {
		return fmt.Errorf("invalid --min-version %q: not a semantic version", required)
	}
	if semver.Compare(Version, required) < 0 {
		return fmt.Errorf("this grader is %s, but %s or newer is required", Version, required)
	}
	return nil
}
