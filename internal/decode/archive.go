package decode

// archive.go handles zip-container releases.
//
// A single-member archive recurses transparently into the matching decoder.
// Multi-member archives require a dataset-specific member pattern; zero or
// multiple matches is a hard error — the decoder never silently picks the
// first file.

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// ExtractMember pulls the one data member out of a zip archive.
// memberPattern may be nil only for single-member archives.
func ExtractMember(data []byte, memberPattern *regexp.Regexp) (name string, content []byte, err error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", nil, fmt.Errorf("opening archive: %w", err)
	}

	var files []*zip.File
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		files = append(files, f)
	}

	switch {
	case len(files) == 0:
		return "", nil, fmt.Errorf("archive has no file members")

	case len(files) == 1:
		content, err = readMember(files[0])
		return files[0].Name, content, err

	default:
		if memberPattern == nil {
			return "", nil, fmt.Errorf("archive has %d members and dataset declares no member pattern", len(files))
		}
		var matches []*zip.File
		for _, f := range files {
			if memberPattern.MatchString(f.Name) {
				matches = append(matches, f)
			}
		}
		if len(matches) != 1 {
			names := make([]string, 0, len(matches))
			for _, m := range matches {
				names = append(names, m.Name)
			}
			return "", nil, fmt.Errorf("member pattern %q matched %d of %d members [%s]",
				memberPattern, len(matches), len(files), strings.Join(names, ", "))
		}
		content, err = readMember(matches[0])
		return matches[0].Name, content, err
	}
}

func readMember(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening member %q: %w", f.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading member %q: %w", f.Name, err)
	}
	return data, nil
}

// IsZip reports whether the content starts with the zip magic.
func IsZip(head []byte) bool {
	return len(head) >= 4 && head[0] == 'P' && head[1] == 'K' &&
		(head[2] == 0x03 || head[2] == 0x05 || head[2] == 0x07)
}
