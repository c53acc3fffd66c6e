package crisis

import (
	"log/slog"
	"unicode"

	"github.com/abadojack/whatlanggo"
	goahocorasick "github.com/anknown/ahocorasick"
)

// Detector matches utterances against the crisis phrase list with an
// Aho-Corasick automaton over normalized runes, so casing, punctuation,
// and spacing variants ("I WANT TO DIE", "i want to die!!", "dont" vs
// "don't") all hit the same phrase.
type Detector struct {
	matcher *goahocorasick.Machine
	log     *slog.Logger
}

// NewDetector builds the automaton from a normalized version of the
// phrase list.
func NewDetector(phrases []string, log *slog.Logger) (Detector, error) {
	patterns := make([][]rune, len(phrases))
	for i, phrase := range phrases {
		patterns[i] = normalizeRunes([]rune(phrase))
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return Detector{}, err
	}
	return Detector{matcher: m, log: log}, nil
}

// IsCrisis reports whether the utterance contains any crisis phrase.
// A hit is logged with the detected utterance language; detection is
// diagnostic only and never changes the matching policy.
func (d Detector) IsCrisis(text string) bool {
	normalized := normalizeRunes([]rune(text))
	if len(normalized) == 0 {
		return false
	}

	spans := d.matcher.MultiPatternSearch(normalized, false)
	if len(spans) == 0 {
		return false
	}

	info := whatlanggo.Detect(text)
	d.log.Warn("Crisis phrase detected",
		"matches", len(spans),
		"lang", info.Lang.Iso6391())
	return true
}

// normalizeRunes lowercases and strips punctuation, spacing, and symbols
// so the automaton sees a canonical stream.
func normalizeRunes(input []rune) []rune {
	out := make([]rune, 0, len(input))
	for _, r := range input {
		if unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r) {
			continue
		}
		out = append(out, unicode.ToLower(r))
	}
	return out
}
