package subtitles

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"jumpcut/internal/fileutil"
)

// RemapFile remaps the script at src into dst. UTF-16 input with a byte
// order mark is decoded and a UTF-8 BOM is dropped; output is always UTF-8.
// dst is replaced atomically and only when the whole script remaps cleanly.
func RemapFile(src, dst string, conv Converter) (Stats, error) {
	in, err := os.Open(src)
	if err != nil {
		return Stats{}, fmt.Errorf("open subtitles: %w", err)
	}
	defer in.Close()

	decoded := transform.NewReader(in, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	var stats Stats
	err = fileutil.WriteAtomic(dst, 0o644, func(w io.Writer) error {
		var remapErr error
		stats, remapErr = Remap(decoded, w, conv)
		return remapErr
	})
	if err != nil {
		return stats, fmt.Errorf("remap %s: %w", src, err)
	}
	return stats, nil
}
