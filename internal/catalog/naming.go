package catalog

import (
	"fmt"
	"strings"
)

// Directories that hold relocated assets, relative to the repository root.
const (
	BinariesDir = "binaries"
	PreviewsDir = "previews"
	MIDIDir     = "midi"
)

// unsafeChars are removed from game and song names before they become paths.
const unsafeChars = ":/'\"?#%&{}\\<>*$!@+`|=."

// FilterFilename strips characters that are unsafe in file paths.
func FilterFilename(name string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(unsafeChars, r) {
			return -1
		}
		return r
	}, name)
}

// SubPath returns "{game}/{song}" with a " (REV n)" suffix for revisions.
func SubPath(game, song string, revision int) string {
	sub := FilterFilename(game) + "/" + FilterFilename(song)
	if revision > 0 {
		sub += fmt.Sprintf(" (REV %d)", revision)
	}
	return sub
}

// AssetPath returns the relative path of an asset, e.g. binaries/Game/Song.bin.
func AssetPath(dir, sub, ext string) string {
	return dir + "/" + sub + "." + ext
}

// uriReserved are the bytes EncodeURI leaves alone besides ASCII alphanumerics.
const uriReserved = ";,/?:@&=+$-_.!~*'()#"

// EncodeURI percent-encodes a full URL while keeping its structure, so
// spaces become %20 but slashes and parentheses survive.
func EncodeURI(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isAlnum(c) || strings.IndexByte(uriReserved, c) >= 0 {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isAlnum(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}
