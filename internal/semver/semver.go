/*
Copyright 2024 The Boxon Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package semver is a small, internal semantic-version comparator used only
// to bound ConfigurationField protocol ranges. It is deliberately
// minimal (triple + optional pre-release) and uses a compact comparable
// integer encoding rather than importing a general-purpose semver module.
package semver

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a parsed (major, minor, patch, pre-release) triple.
type Version struct {
	Major, Minor, Patch int
	PreRelease          string
}

// Parse accepts "major.minor.patch" or "major.minor.patch-prerelease".
func Parse(s string) (Version, error) {
	var v Version
	core := s
	if idx := strings.IndexByte(s, '-'); idx >= 0 {
		core = s[:idx]
		v.PreRelease = s[idx+1:]
	}
	parts := strings.Split(core, ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("semver: %q is not major.minor.patch", s)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Version{}, fmt.Errorf("semver: invalid component %q in %q: %w", p, s, err)
		}
		nums[i] = n
	}
	v.Major, v.Minor, v.Patch = nums[0], nums[1], nums[2]
	return v, nil
}

// Compare returns -1, 0, or 1 as a is less than, equal to, or greater than
// b, comparing the numeric triple only. A present pre-release is
// considered lower precedence than its release, mirroring common semver
// precedence rules, but no further pre-release-component comparison is
// attempted (core's use case is a closed, operator-controlled range).
func Compare(a, b Version) int {
	if a.Major != b.Major {
		return sign(a.Major - b.Major)
	}
	if a.Minor != b.Minor {
		return sign(a.Minor - b.Minor)
	}
	if a.Patch != b.Patch {
		return sign(a.Patch - b.Patch)
	}
	switch {
	case a.PreRelease == b.PreRelease:
		return 0
	case a.PreRelease == "":
		return 1
	case b.PreRelease == "":
		return -1
	case a.PreRelease < b.PreRelease:
		return -1
	default:
		return 1
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

// InRange reports whether v falls within [min, max] inclusive. A zero-value
// min or max is treated as unbounded on that side.
func InRange(v, min, max Version) bool {
	if (min != Version{}) && Compare(v, min) < 0 {
		return false
	}
	if (max != Version{}) && Compare(v, max) > 0 {
		return false
	}
	return true
}

func (v Version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.PreRelease != "" {
		s += "-" + v.PreRelease
	}
	return s
}
