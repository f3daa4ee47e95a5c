package ocr

import "unicode"

// Score rates recognized text by script composition: Hangul syllables weigh
// most, other letters and digits less, punctuation least, whitespace nothing.
// Linguistic density is a better cross-variant signal than raw length, which
// rewards binarization noise.
func Score(text string) int {
	score := 0
	for _, r := range text {
		switch {
		case r >= 0xAC00 && r <= 0xD7A3:
			score += 3
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			score += 2
		case unicode.IsSpace(r):
			// no signal
		default:
			score++
		}
	}
	return score
}
