package domain

import (
	"fmt"
	"regexp"
	"strconv"
)

var copySuffix = regexp.MustCompile(`^(.*) kopia (\d+)$`)

// CopyBaseName strips a trailing " kopia <n>" suffix from a list name,
// returning the base name used for copy numbering. Names without the suffix
// are returned unchanged.
func CopyBaseName(name string) string {
	if m := copySuffix.FindStringSubmatch(name); m != nil {
		return m[1]
	}
	return name
}

// NextCopyName derives the name for a copy of source: "<base> kopia <N+1>"
// where N is the highest copy number among existing names sharing the same
// base. A first copy gets "<base> kopia 1".
func NextCopyName(source string, existing []string) string {
	base := CopyBaseName(source)

	highest := 0
	for _, name := range existing {
		m := copySuffix.FindStringSubmatch(name)
		if m == nil || m[1] != base {
			continue
		}
		n, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}

	return fmt.Sprintf("%s kopia %d", base, highest+1)
}
