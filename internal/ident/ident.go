// Package ident maps arbitrary display names (preset names, parameter names)
// to identifiers that are safe to use as DOM element ids, and back.
//
// A leading character must be an ASCII letter; later characters may also be
// digits, '-' or '.'. Spaces become '_'. Anything else is written as ':'
// followed by four lowercase hex digits per UTF-16 code unit, so characters
// outside the Basic Multilingual Plane take two escapes.
package ident

import (
	"strconv"
	"strings"
	"unicode/utf16"
)

const escapeLen = 5 // ':' + 4 hex digits

// Escape returns the identifier form of name.
func Escape(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	i := 0
	for _, r := range name {
		switch {
		case r == ' ':
			b.WriteByte('_')
		case allowed(r, i == 0):
			b.WriteRune(r)
		default:
			for _, unit := range utf16.Encode([]rune{r}) {
				b.WriteByte(':')
				hex := strconv.FormatUint(uint64(unit), 16)
				for pad := len(hex); pad < 4; pad++ {
					b.WriteByte('0')
				}
				b.WriteString(hex)
			}
		}
		i++
	}
	return b.String()
}

// Unescape reverses Escape. Input that Escape could not have produced is
// passed through unchanged, except that '_' always becomes a space.
func Unescape(id string) string {
	var b strings.Builder
	b.Grow(len(id))
	var units []uint16
	flush := func() {
		if len(units) > 0 {
			b.WriteString(string(utf16.Decode(units)))
			units = units[:0]
		}
	}
	for i := 0; i < len(id); {
		if unit, ok := escapeAt(id, i); ok {
			units = append(units, unit)
			i += escapeLen
			continue
		}
		flush()
		if id[i] == '_' {
			b.WriteByte(' ')
			i++
			continue
		}
		// Copy one whole UTF-8 sequence.
		j := i + 1
		for j < len(id) && id[j]&0xC0 == 0x80 {
			j++
		}
		b.WriteString(id[i:j])
		i = j
	}
	flush()
	return b.String()
}

func allowed(r rune, first bool) bool {
	switch {
	case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
		return true
	case first:
		return false
	case r >= '0' && r <= '9', r == '-', r == '.':
		return true
	}
	return false
}

func escapeAt(s string, i int) (uint16, bool) {
	if s[i] != ':' || i+escapeLen > len(s) {
		return 0, false
	}
	v, err := strconv.ParseUint(s[i+1:i+escapeLen], 16, 16)
	if err != nil {
		return 0, false
	}
	return uint16(v), true
}
