package art

import "encoding/hex"

// PreviewBytes is the default length of a HexPreview.
const PreviewBytes = 200

// HexPreview returns a fixed-width hex and ASCII dump of the first n bytes of data.
func HexPreview(data []byte, n int) string {
	if n <= 0 {
		n = PreviewBytes
	}
	if len(data) > n {
		data = data[:n]
	}
	return hex.Dump(data)
}
