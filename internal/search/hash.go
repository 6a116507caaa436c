package search

import (
	"encoding/binary"
	"os"

	"github.com/cespare/xxhash"
)

// quickHash generates a cheap identity hash for a matched file from its
// path, size and first kilobyte of content. It is meant for spotting
// duplicate hits across a run, not for integrity checking.
func quickHash(path string, size int64) uint64 {
	h := xxhash.New()

	h.Write([]byte(path))
	binary.Write(h, binary.LittleEndian, size)

	if f, err := os.Open(path); err == nil {
		defer f.Close()
		buf := make([]byte, 1024)
		if n, err := f.Read(buf); err == nil {
			h.Write(buf[:n])
		}
	}

	return h.Sum64()
}
