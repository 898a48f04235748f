package extraction

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// LocateMatches finds every non-overlapping hit of every pattern in text.
// Matches are returned in pattern order, then by position. Start and End
// are character offsets; Context holds up to radius characters on each
// side of the hit, trimmed of surrounding whitespace.
func LocateMatches(text string, patterns []*regexp.Regexp, radius int) []Match {
	if text == "" {
		return nil
	}

	idx := newTextIndex(text)
	var matches []Match
	for _, re := range patterns {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			start, end := idx.runeOffset(loc[0]), idx.runeOffset(loc[1])
			matches = append(matches, Match{
				Keyword: text[loc[0]:loc[1]],
				Start:   start,
				End:     end,
				Context: idx.window(start, end, radius),
			})
		}
	}
	return matches
}

// textIndex converts between byte and character offsets. For ASCII text
// both are the same and no tables are built.
type textIndex struct {
	text   string
	runes  []rune
	byRune []int // byte offset -> rune offset, len(text)+1 entries
}

func newTextIndex(text string) *textIndex {
	idx := &textIndex{text: text}
	if isASCII(text) {
		return idx
	}

	idx.runes = []rune(text)
	idx.byRune = make([]int, len(text)+1)
	n := 0
	for i := range text {
		idx.byRune[i] = n
		n++
	}
	idx.byRune[len(text)] = n
	return idx
}

func (x *textIndex) runeOffset(b int) int {
	if x.byRune == nil {
		return b
	}
	return x.byRune[b]
}

func (x *textIndex) length() int {
	if x.runes == nil {
		return len(x.text)
	}
	return len(x.runes)
}

func (x *textIndex) window(start, end, radius int) string {
	from := max(0, start-radius)
	to := min(x.length(), end+radius)
	if x.runes == nil {
		return strings.TrimSpace(x.text[from:to])
	}
	return strings.TrimSpace(string(x.runes[from:to]))
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// truncateRunes shortens s to at most n characters.
func truncateRunes(s string, n int) (string, bool) {
	if utf8.RuneCountInString(s) <= n {
		return s, false
	}
	return string([]rune(s)[:n]), true
}
