package catalog

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Chain catalog exports are usually UTF-8 but older feeds arrive in
// Windows-1250 or ISO-8859-2. decodeToUTF8 normalizes either to UTF-8;
// valid UTF-8 passes through untouched so double-decoding never happens.
func decodeToUTF8(data []byte) (string, error) {
	// Strip a UTF-8 BOM if present.
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		data = data[3:]
	}
	if utf8.Valid(data) {
		return string(data), nil
	}
	// Windows-1250 covers the Central European diacritics these feeds
	// carry; ISO-8859-2 decodes identically for the characters that occur
	// in store names and addresses.
	decoded, err := charmap.Windows1250.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}
