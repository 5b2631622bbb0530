package keyword

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// homoglyphs maps visually confusable code points (Cyrillic lookalikes,
// accented Latin variants, sub/superscript letters) to plain ASCII so that
// substring matching cannot be evaded with lookalike characters.
var homoglyphs = map[string]string{
	"а": "a", "А": "A", "е": "e", "Е": "E", "о": "o", "О": "O",
	"с": "c", "С": "C", "р": "p", "Р": "P", "у": "y", "У": "Y",
	"х": "x", "Х": "X", "і": "i", "І": "I", "ї": "i", "Ї": "I",
	"ј": "j", "Ј": "J", "Ь": "b", "ь": "b",
	"ӏ": "l", "Ӏ": "I",
	"í": "i", "ì": "i", "ï": "i", "ī": "i", "ĭ": "i", "Ɩ": "I",
	"ı": "i", "ᵢ": "i", "ᵣ": "r",
	"ₑ": "e", "ₒ": "o", "ₓ": "x",
}

// invisibleChars are zero-width and BOM code points stripped before matching
var invisibleChars = []string{"\u200b", "\u200c", "\u200d", "\u2060", "\ufeff"}

var (
	invisibleReplacer *strings.Replacer
	homoglyphReplacer *strings.Replacer
)

func init() {
	pairs := make([]string, 0, len(invisibleChars)*2)
	for _, ch := range invisibleChars {
		pairs = append(pairs, ch, "")
	}
	invisibleReplacer = strings.NewReplacer(pairs...)

	pairs = make([]string, 0, len(homoglyphs)*2)
	for bad, good := range homoglyphs {
		pairs = append(pairs, bad, good)
	}
	homoglyphReplacer = strings.NewReplacer(pairs...)
}

// RemoveInvisible strips zero-width/invisible code points from text
func RemoveInvisible(text string) string {
	return invisibleReplacer.Replace(text)
}

// Normalize canonicalizes untrusted display text for substring matching:
// NFKD decomposition, invisible-character stripping, then homoglyph folding.
// Idempotent; never used for display.
func Normalize(text string) string {
	text = norm.NFKD.String(text)
	text = RemoveInvisible(text)
	return homoglyphReplacer.Replace(text)
}
