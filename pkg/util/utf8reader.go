package util

import (
	"bytes"
	"io"
	"unicode/utf8"
)

const utf8ReaderChunkSize = 32 * 1024

var replacementCharacter = []byte(string(utf8.RuneError))

type validUTF8Reader struct {
	reader io.Reader

	pending []byte
	carry   []byte
	err     error
}

// NewValidUTF8Reader replaces invalid UTF-8 sequences read from reader with U+FFFD
func NewValidUTF8Reader(reader io.Reader) io.Reader {
	return &validUTF8Reader{reader: reader}
}

func (v *validUTF8Reader) Read(p []byte) (int, error) {
	for len(v.pending) == 0 {
		if v.err != nil {
			return 0, v.err
		}

		chunk := make([]byte, utf8ReaderChunkSize)
		n, err := v.reader.Read(chunk)

		data := append(v.carry, chunk[:n]...)
		v.carry = nil

		if err == nil {
			// Hold back a rune split across two reads
			cut := incompleteRuneSuffix(data)
			v.carry = append([]byte(nil), data[len(data)-cut:]...)
			data = data[:len(data)-cut]
		} else {
			v.err = err
		}

		v.pending = bytes.ToValidUTF8(data, replacementCharacter)
	}

	n := copy(p, v.pending)
	v.pending = v.pending[n:]

	return n, nil
}

func incompleteRuneSuffix(data []byte) int {
	for i := len(data) - 1; i >= 0 && i >= len(data)-utf8.UTFMax; i-- {
		if utf8.RuneStart(data[i]) {
			if utf8.FullRune(data[i:]) {
				return 0
			}

			return len(data) - i
		}
	}

	return 0
}
