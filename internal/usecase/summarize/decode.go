package summarize

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// DecodeText converts raw document bytes into text.
//
// The input must be UTF-8. A leading byte order mark is removed. Invalid input
// returns a *DecodingError carrying the offset of the first bad byte, and no
// text is returned.
func DecodeText(data []byte) (string, error) {
	if off := invalidOffset(data); off >= 0 {
		return "", &DecodingError{Offset: off}
	}

	// UTF8BOM decodes as UTF-8 and drops a leading BOM if one is present.
	decoded, err := unicode.UTF8BOM.NewDecoder().Bytes(data)
	if err != nil {
		return "", &DecodingError{Offset: 0}
	}
	return string(decoded), nil
}

// invalidOffset returns the byte offset of the first invalid UTF-8 sequence, or -1.
func invalidOffset(data []byte) int {
	if utf8.Valid(data) {
		return -1
	}
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}
