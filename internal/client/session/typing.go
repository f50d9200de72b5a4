package session

// isHangul reports whether r is a Korean character: precomposed syllables,
// the combining jamo block, or compatibility jamo. Korean readers take in
// syllable blocks more slowly than latin letters, so the reveal machine
// holds them on screen longer.
func isHangul(r rune) bool {
	switch {
	case r >= 0xAC00 && r <= 0xD7A3:
		return true
	case r >= 0x1100 && r <= 0x11FF:
		return true
	case r >= 0x3130 && r <= 0x318F:
		return true
	}
	return false
}
