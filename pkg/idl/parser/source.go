package parser

import "regexp"

// virtualClass matches the wrapper extension "virtual class X", which is not C++.
var virtualClass = regexp.MustCompile(`\bvirtual(\s+)class\b`)

// normalizeSource blanks out the "virtual" of every "virtual class" so the C++
// grammar accepts it. Byte offsets are preserved. The returned set holds the
// offsets of the "class" keywords that were marked virtual.
func normalizeSource(data []byte) ([]byte, map[uint32]bool) {
	matches := virtualClass.FindAllSubmatchIndex(data, -1)
	if len(matches) == 0 {
		return data, nil
	}

	src := make([]byte, len(data))
	copy(src, data)
	virtualAt := make(map[uint32]bool, len(matches))

	for _, m := range matches {
		for i := m[0]; i < m[2]; i++ {
			src[i] = ' '
		}
		virtualAt[uint32(m[3])] = true
	}
	return src, virtualAt
}
