package mime

import (
	"bytes"
	"path/filepath"
)

var (
	pngMagic  = []byte{137, 'P', 'N', 'G', 13, 10, 26, 10}
	gifMagic  = []byte("GIF")
	jpegMagic = []byte{0xFF, 0xD8}
)

// asciiProbeSize limits how much of the sample the plain-text heuristic looks at.
const asciiProbeSize = 100

// Sniff guesses the content type of a file from a sample of its leading bytes,
// falling back to the filename extension and finally to a plain-text probe.
func Sniff(filename string, sample []byte) MIME {
	switch {
	case bytes.HasPrefix(sample, pngMagic):
		return PNG
	case bytes.HasPrefix(sample, gifMagic):
		return GIF
	case bytes.HasPrefix(sample, jpegMagic):
		return JPEG
	}

	if m, found := Extension[filepath.Ext(filename)]; found {
		return m
	}

	probe := sample
	if len(probe) > asciiProbeSize {
		probe = probe[:asciiProbeSize]
	}

	for _, c := range probe {
		if c > 127 {
			return OctetStream
		}
	}

	return Plain
}
