package schema

import "strings"

// NormalizeCommand folds a submitted line to its command-table key:
// surrounding whitespace trimmed and lowercased. Inner whitespace is kept.
func NormalizeCommand(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// NormalizeRevealMode validates a reveal mode, defaulting to typewriter.
func NormalizeRevealMode(value string) (RevealMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "typewriter", "type":
		return RevealTypewriter, nil
	case "scramble", "decrypt":
		return RevealScramble, nil
	default:
		return "", ErrInvalidMode
	}
}

// ValidateSessionID ensures a session id is lowercase hex.
func ValidateSessionID(id SessionID) error {
	raw := string(id)
	if raw == "" {
		return ErrSessionNotFound
	}
	for _, r := range raw {
		if (r >= 'a' && r <= 'f') || (r >= '0' && r <= '9') {
			continue
		}
		return ErrSessionNotFound
	}
	return nil
}
