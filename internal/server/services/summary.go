package services

import (
	"sort"
	"strings"
	"unicode"
)

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {}, "by": {}, "for": {},
	"from": {}, "has": {}, "have": {}, "i": {}, "in": {}, "is": {}, "it": {}, "its": {}, "of": {},
	"on": {}, "or": {}, "that": {}, "the": {}, "this": {}, "to": {}, "was": {}, "were": {}, "will": {},
	"with": {}, "you": {}, "your": {}, "we": {}, "our": {}, "my": {}, "me": {}, "should": {}, "must": {},
}

func words(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := fields[:0]
	for _, f := range fields {
		if _, stop := stopwords[f]; !stop {
			out = append(out, f)
		}
	}
	return out
}

// sentences splits text after '.', '!' or '?' followed by whitespace, and
// on blank lines.
func sentences(text string) []string {
	var (
		out []string
		b   strings.Builder
	)
	flush := func() {
		if s := strings.Join(strings.Fields(b.String()), " "); s != "" {
			out = append(out, s)
		}
		b.Reset()
	}

	runes := []rune(text)
	for i, r := range runes {
		b.WriteRune(r)
		next := rune(0)
		if i+1 < len(runes) {
			next = runes[i+1]
		}
		switch {
		case (r == '.' || r == '!' || r == '?') && (next == 0 || unicode.IsSpace(next)):
			flush()
		case r == '\n' && next == '\n':
			flush()
		}
	}
	flush()
	return out
}

// summarize picks the n sentences whose words are most frequent across the
// text and returns them in their original order.
func summarize(text string, n int) (string, error) {
	sents := sentences(text)
	if len(sents) == 0 {
		return "", ErrNothingToSummarize
	}
	if len(sents) <= n {
		return strings.Join(sents, " "), nil
	}

	freq := make(map[string]int)
	for _, w := range words(text) {
		freq[w]++
	}

	type scored struct {
		idx   int
		score float64
	}
	ranked := make([]scored, 0, len(sents))
	for i, s := range sents {
		ws := words(s)
		if len(ws) == 0 {
			ranked = append(ranked, scored{idx: i})
			continue
		}
		total := 0
		for _, w := range ws {
			total += freq[w]
		}
		ranked = append(ranked, scored{idx: i, score: float64(total) / float64(len(ws))})
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	top := ranked[:n]
	sort.Slice(top, func(i, j int) bool { return top[i].idx < top[j].idx })

	picked := make([]string, 0, n)
	for _, s := range top {
		picked = append(picked, sents[s.idx])
	}
	return strings.Join(picked, " "), nil
}
