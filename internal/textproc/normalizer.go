// Package textproc prepares raw text for vectorization. The transform mirrors
// the preprocessing the model artifacts were trained with, so it must stay
// byte-for-byte deterministic.
package textproc

import (
	"embed"
	"strings"
)

//go:embed stopwords.txt
var stopwordsFile embed.FS

var stopwords = loadStopwords()

func loadStopwords() map[string]struct{} {
	data, err := stopwordsFile.ReadFile("stopwords.txt")
	if err != nil {
		// The list is embedded at compile time; this cannot fail at runtime.
		panic("textproc: embedded stopwords.txt unreadable: " + err.Error())
	}

	words := make(map[string]struct{})
	for _, line := range strings.Split(string(data), "\n") {
		word := strings.TrimSpace(line)
		if word != "" {
			words[word] = struct{}{}
		}
	}
	return words
}

// Normalize lowercases the input, replaces every non-ASCII-letter rune with a
// space, drops English stop words and rejoins the survivors with single
// spaces. Input with no surviving tokens normalizes to the empty string.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r - 'A' + 'a')
		default:
			b.WriteByte(' ')
		}
	}

	tokens := strings.Fields(b.String())
	kept := tokens[:0]
	for _, tok := range tokens {
		if _, skip := stopwords[tok]; !skip {
			kept = append(kept, tok)
		}
	}
	return strings.Join(kept, " ")
}
