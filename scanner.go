package mywr

import (
	"strconv"
	"strings"
)

// pattern is a parsed byte-pattern: one entry per byte, wildcard true
// meaning "matches anything" (the "??" token in the source syntax).
type pattern struct {
	bytes    []byte
	wildcard []bool
}

// parsePattern parses a space-separated hex/wildcard pattern such as
// "48 8B ?? ?? E8" into its matcher form.
func parsePattern(s string) (pattern, error) {
	fields := strings.Fields(s)
	p := pattern{
		bytes:    make([]byte, len(fields)),
		wildcard: make([]bool, len(fields)),
	}
	for i, f := range fields {
		if f == "??" || f == "?" {
			p.wildcard[i] = true
			continue
		}
		v, err := strconv.ParseUint(f, 16, 8)
		if err != nil {
			return pattern{}, ErrInvalidPattern
		}
		p.bytes[i] = byte(v)
	}
	return p, nil
}

func (p pattern) matchesAt(data []byte, at int) bool {
	if at+len(p.bytes) > len(data) {
		return false
	}
	for i, b := range p.bytes {
		if p.wildcard[i] {
			continue
		}
		if data[at+i] != b {
			return false
		}
	}
	return true
}

// Scan performs a linear byte-pattern scan over a loaded module's
// image, mirroring original_source's internal/scanner.hpp: given a
// module base address and a pattern such as "48 8B ?? ?? E8", it
// returns the address of the first match, or ok==false if the pattern
// is not found or the module image size cannot be determined.
func Scan(module Address, pattern string) (Address, bool) {
	size, err := ModuleImageSize(module)
	if err != nil || size == 0 {
		return Zero, false
	}
	return ScanRange(module, size, pattern)
}

// ScanRange is Scan without a PE header dependency: it searches size
// bytes starting at base directly, for callers that already know the
// bounds of the region to search (e.g. a single section rather than
// the whole image).
func ScanRange(base Address, size uintptr, patternStr string) (Address, bool) {
	p, err := parsePattern(patternStr)
	if err != nil || len(p.bytes) == 0 {
		return Zero, false
	}

	data := base.Bytes(int(size))
	if data == nil {
		return Zero, false
	}

	for i := 0; i+len(p.bytes) <= len(data); i++ {
		if p.matchesAt(data, i) {
			return base.Add(int64(i)), true
		}
	}
	return Zero, false
}
