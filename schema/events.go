package schema

// RevealMode selects a text reveal effect.
type RevealMode string

const (
	// RevealTypewriter reveals text left to right one rune per tick.
	RevealTypewriter RevealMode = "typewriter"
	// RevealScramble resolves random glyphs into the text.
	RevealScramble RevealMode = "scramble"
)

// RevealEvent is one frame of a streamed reveal.
type RevealEvent struct {
	Mode     RevealMode `json:"mode"`
	Seq      int        `json:"seq"`
	Text     string     `json:"text"`
	Resolved int        `json:"resolved"`
	Complete bool       `json:"complete"`
}
