// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package simco

import (
	"strings"

	"github.com/pkg/errors"
)

// wordBits is the number of logical bits carried by one Word.
const wordBits = 32

// Word is one 32-bit slice of a four-valued vector.
// Value is the simulator's aval field, Mask its bval field:
//
//	Mask=0 Value=0 → '0'
//	Mask=0 Value=1 → '1'
//	Mask=1 Value=1 → 'x'
//	Mask=1 Value=0 → 'z'
//
// Word 0 of a vector holds the least-significant 32 bits.
type Word struct {
	Value uint32
	Mask  uint32
}

// WordCount returns the number of Words needed for a vector of width bits.
func WordCount(width uint32) int {
	return int((width + wordBits - 1) / wordBits)
}

// DecodeString renders words as a four-valued string, most-significant bit
// first. The result is word granular: its length is len(words)*32, padding
// bits above the signal width included.
func DecodeString(words []Word) string {
	var sb strings.Builder
	sb.Grow(len(words) * wordBits)
	for i := len(words) - 1; i >= 0; i-- {
		w := words[i]
		for j := wordBits - 1; j >= 0; j-- {
			bit := uint32(1) << j
			switch {
			case w.Mask&bit == 0 && w.Value&bit == 0:
				sb.WriteByte('0')
			case w.Mask&bit == 0:
				sb.WriteByte('1')
			case w.Value&bit != 0:
				sb.WriteByte('x')
			default:
				sb.WriteByte('z')
			}
		}
	}
	return sb.String()
}

// DecodeUint returns the numeric value of words, reading at most the two
// most-significant words with the high word first. A single word is
// returned unsigned.
//
// Vectors wider than 64 bits lose their least-significant words: a 96-bit
// vector yields its top 64 bits. Callers depending on full-width values must
// use DecodeString.
func DecodeUint(words []Word) uint64 {
	switch n := len(words); n {
	case 0:
		return 0
	case 1:
		return uint64(words[0].Value)
	default:
		return uint64(words[n-1].Value)<<32 | uint64(words[n-2].Value)
	}
}

// hexQuartets maps hex digits to their four-valued quartets.
var hexQuartets = map[byte]string{
	'0': "0000", '1': "0001", '2': "0010", '3': "0011",
	'4': "0100", '5': "0101", '6': "0110", '7': "0111",
	'8': "1000", '9': "1001", 'a': "1010", 'b': "1011",
	'c': "1100", 'd': "1101", 'e': "1110", 'f': "1111",
	'x': "xxxx", 'z': "zzzz",
}

// quartetDigits is the inverse of hexQuartets, upper-case.
var quartetDigits = map[string]byte{
	"0000": '0', "0001": '1', "0010": '2', "0011": '3',
	"0100": '4', "0101": '5', "0110": '6', "0111": '7',
	"1000": '8', "1001": '9', "1010": 'A', "1011": 'B',
	"1100": 'C', "1101": 'D', "1110": 'E', "1111": 'F',
	"xxxx": 'X', "zzzz": 'Z',
}

// HexToBin expands a hex string into a four-valued binary string.
// 'x'/'X' expands to "xxxx" and 'z'/'Z' to "zzzz".
func HexToBin(hex string) (string, error) {
	var sb strings.Builder
	sb.Grow(len(hex) * 4)
	for i := 0; i < len(hex); i++ {
		q, ok := hexQuartets[lower(hex[i])]
		if !ok {
			return "", errors.Errorf("simco: invalid hex character %q at %d", hex[i], i)
		}
		sb.WriteString(q)
	}
	return sb.String(), nil
}

// BinToHex collapses a four-valued binary string into upper-case hex.
// The input is left-padded with '0' to a multiple of four. Quartets must be
// fully concrete, all 'x' or all 'z'. Leading '0' digits are stripped,
// keeping at least one digit.
func BinToHex(bin string) (string, error) {
	if r := len(bin) % 4; r != 0 {
		bin = strings.Repeat("0", 4-r) + bin
	}
	out := make([]byte, 0, len(bin)/4)
	for i := 0; i < len(bin); i += 4 {
		q := strings.ToLower(bin[i : i+4])
		d, ok := quartetDigits[q]
		if !ok {
			return "", errors.Errorf("simco: invalid binary quartet %q", bin[i:i+4])
		}
		out = append(out, d)
	}
	for len(out) > 1 && out[0] == '0' {
		out = out[1:]
	}
	return string(out), nil
}

// ValidateBin reports the first character of bits that is not 0, 1, x or z.
func ValidateBin(bits string) error {
	for i := 0; i < len(bits); i++ {
		switch lower(bits[i]) {
		case '0', '1', 'x', 'z':
		default:
			return errors.Errorf("simco: invalid binary character %q at %d", bits[i], i)
		}
	}
	return nil
}

// EncodeString packs a four-valued string into WordCount(width) words,
// walking from the least-significant character. Characters that do not fit
// into the words are dropped.
func EncodeString(bits string, width uint32) ([]Word, error) {
	words := make([]Word, WordCount(width))
	limit := len(words) * wordBits
	for b := 0; b < len(bits) && b < limit; b++ {
		c := bits[len(bits)-1-b]
		w := &words[b/wordBits]
		mask := uint32(1) << (b % wordBits)
		switch lower(c) {
		case '1':
			w.Value |= mask
		case '0':
		case 'x':
			w.Value |= mask
			w.Mask |= mask
		case 'z':
			w.Value &^= mask
			w.Mask |= mask
		default:
			return nil, errors.Errorf("simco: invalid binary character %q at %d", c, len(bits)-1-b)
		}
	}
	return words, nil
}

// EncodeUint splits v into WordCount(width) little-endian words.
// The mask field is always zero: numeric writes are fully determined.
func EncodeUint(v uint64, width uint32) []Word {
	words := make([]Word, WordCount(width))
	for i := range words {
		words[i].Value = uint32(v)
		v >>= 32
	}
	return words
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}
