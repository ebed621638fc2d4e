package reveal

import "strings"

// DefaultAlphabet is the noise set used by scramble reveals. The run of
// trailing underscores makes blanks the most likely glyph.
const DefaultAlphabet = `!<>-_\/[]{}—=+*^?#________`

// SymbolAlphabet is a denser, underscore-free noise set used by headline
// reveals.
const SymbolAlphabet = `!@#$%^&*()_+[]{};:,.<>?/\|`

// Source is the random source consumed by the scramble engine.
// *math/rand/v2.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

// Glyph picks one rune uniformly from alphabet.
func Glyph(alphabet []rune, rng Source) rune {
	if len(alphabet) == 0 {
		return '_'
	}
	return alphabet[rng.IntN(len(alphabet))]
}

// ScrambleFrame renders text with the first resolved runes locked in and
// every other rune replaced by a glyph. Spaces are scrambled too.
func ScrambleFrame(text []rune, resolved int, alphabet []rune, rng Source) string {
	var b strings.Builder
	b.Grow(len(text) * 2)
	for i, r := range text {
		if i < resolved {
			b.WriteRune(r)
			continue
		}
		b.WriteRune(Glyph(alphabet, rng))
	}
	return b.String()
}

// ResolvedPrefix counts how many leading runes of frame already match text.
func ResolvedPrefix(text []rune, frame string) int {
	n := 0
	for _, r := range frame {
		if n >= len(text) || text[n] != r {
			break
		}
		n++
	}
	return n
}
