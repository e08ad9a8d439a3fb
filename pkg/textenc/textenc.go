// Package textenc decodes uploaded report files of unknown encoding.
//
// PairsScorer exports arrive as UTF-8 with or without a BOM from newer
// setups and as Latin-1/Windows-1252 from older ones. Decode tries the
// codecs in that order and reports which one succeeded, so imports can
// log what they actually read.
package textenc

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Codec labels returned by Decode.
const (
	CodecUTF8BOM     = "utf-8-sig"
	CodecUTF8        = "utf-8"
	CodecLatin1      = "latin-1"
	CodecCP1252      = "cp1252"
	CodecReplacement = "utf-8-replace"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode converts raw bytes to text, returning the decoded string and
// the codec label that produced it. Decode never fails: the tail of
// the chain accepts arbitrary bytes.
func Decode(raw []byte) (string, string) {
	if bytes.HasPrefix(raw, utf8BOM) {
		body := raw[len(utf8BOM):]
		if utf8.Valid(body) {
			return string(body), CodecUTF8BOM
		}
	}

	if utf8.Valid(raw) {
		return string(raw), CodecUTF8
	}

	if text, err := charmap.ISO8859_1.NewDecoder().Bytes(raw); err == nil {
		return string(text), CodecLatin1
	}

	// ISO 8859-1 accepts every byte, so the steps below are never
	// reached in practice. They complete the documented codec chain.
	if text, err := charmap.Windows1252.NewDecoder().Bytes(raw); err == nil {
		return string(text), CodecCP1252
	}

	return string(bytes.ToValidUTF8(raw, []byte("�"))), CodecReplacement
}
