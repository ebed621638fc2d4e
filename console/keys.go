package console

import (
	"bufio"
	"io"
	"unicode"
	"unicode/utf8"
)

type keyKind int

const (
	keyRune keyKind = iota
	keyEnter
	keyBackspace
	keyDelete
	keyLeft
	keyRight
	keyUp
	keyDown
	keyHome
	keyEnd
	keyPageUp
	keyPageDown
	keyTab
	keyShiftTab
	keyEscape
	keyCtrlA
	keyCtrlE
	keyCtrlC
	keyCtrlD
	keyCtrlL
	keyCtrlU
	keyCtrlK
	keyCtrlW
	keyAltB
	keyAltF
)

type key struct {
	kind keyKind
	r    rune
}

var controlKeys = map[byte]keyKind{
	0x01: keyCtrlA,
	0x03: keyCtrlC,
	0x04: keyCtrlD,
	0x05: keyCtrlE,
	0x09: keyTab,
	0x0b: keyCtrlK,
	0x0c: keyCtrlL,
	0x15: keyCtrlU,
	0x17: keyCtrlW,
	0x08: keyBackspace,
	0x7f: keyBackspace,
}

var csiKeys = map[string]keyKind{
	"A":    keyUp,
	"B":    keyDown,
	"C":    keyRight,
	"D":    keyLeft,
	"H":    keyHome,
	"F":    keyEnd,
	"1~":   keyHome,
	"4~":   keyEnd,
	"3~":   keyDelete,
	"5~":   keyPageUp,
	"6~":   keyPageDown,
	"Z":    keyShiftTab,
	"1;2Z": keyShiftTab,
}

// readKeys decodes terminal input into keys until r fails. CR, LF and CRLF
// all produce a single Enter.
func readKeys(r io.Reader, out chan<- key) {
	defer close(out)
	br := bufio.NewReader(r)
	lastWasCR := false
	for {
		b, err := br.ReadByte()
		if err != nil {
			return
		}
		if lastWasCR {
			lastWasCR = false
			if b == '\n' {
				continue
			}
		}
		if kind, ok := controlKeys[b]; ok {
			out <- key{kind: kind}
			continue
		}
		switch {
		case b == 0x1b:
			readEscape(br, out)
		case b == '\r' || b == '\n':
			out <- key{kind: keyEnter}
			lastWasCR = b == '\r'
		case b < 0x20:
			// Unbound control byte.
		case b < utf8.RuneSelf:
			out <- key{kind: keyRune, r: rune(b)}
		default:
			_ = br.UnreadByte()
			rn, _, err := br.ReadRune()
			if err != nil {
				return
			}
			if rn != utf8.RuneError {
				out <- key{kind: keyRune, r: rn}
			}
		}
	}
}

func readEscape(br *bufio.Reader, out chan<- key) {
	if br.Buffered() == 0 {
		out <- key{kind: keyEscape}
		return
	}
	b, err := br.ReadByte()
	if err != nil {
		return
	}
	switch b {
	case '[':
		readCSI(br, out)
	case 'O':
		readSS3(br, out)
	case 'b', 'B':
		out <- key{kind: keyAltB}
	case 'f', 'F':
		out <- key{kind: keyAltF}
	case 0x1b:
		out <- key{kind: keyEscape}
	}
}

func readCSI(br *bufio.Reader, out chan<- key) {
	seq := make([]byte, 0, 8)
	for {
		b, err := br.ReadByte()
		if err != nil {
			return
		}
		seq = append(seq, b)
		if b == '~' || unicode.IsLetter(rune(b)) {
			break
		}
		if len(seq) > 8 {
			return
		}
	}
	if kind, ok := csiKeys[string(seq)]; ok {
		out <- key{kind: kind}
	}
}

func readSS3(br *bufio.Reader, out chan<- key) {
	b, err := br.ReadByte()
	if err != nil {
		return
	}
	if kind, ok := csiKeys[string(b)]; ok {
		out <- key{kind: kind}
	}
}
