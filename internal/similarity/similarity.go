// Package similarity scores how alike two short texts are on a 0-100 scale.
//
// Ratio is the Indel similarity: only insertions and deletions count, so a
// substitution costs two edits. TokenSetRatio compares the sets of words in
// both texts, so it ignores word order and duplicated words, and scores full
// containment of one text's words in the other as a perfect match.
package similarity

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Ratio returns the normalized Indel similarity of a and b in [0, 100],
// 2*LCS / (len(a)+len(b)) over runes. Two empty strings are identical.
func Ratio(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 100
	}
	return score(total-2*lcs(ra, rb), total)
}

// TokenSetRatio returns the token set similarity of a and b in [0, 100].
// Either side without any letters or digits scores 0.
//
// The shared words are compared against shared+own words of each side, and
// the words only one side has are compared against each other. Distances are
// normalized by the lengths of the joined strings, so the shared prefix is
// never compared character by character.
func TokenSetRatio(a, b string) int {
	ta, tb := tokenSet(a), tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	var common, onlyA, onlyB []string
	for tok := range ta {
		if _, ok := tb[tok]; ok {
			common = append(common, tok)
		} else {
			onlyA = append(onlyA, tok)
		}
	}
	for tok := range tb {
		if _, ok := ta[tok]; !ok {
			onlyB = append(onlyB, tok)
		}
	}

	if len(common) > 0 && (len(onlyA) == 0 || len(onlyB) == 0) {
		return 100
	}

	diffA, diffB := []rune(joinSorted(onlyA)), []rune(joinSorted(onlyB))
	sectLen := len([]rune(joinSorted(common)))
	sep := 0
	if sectLen > 0 {
		sep = 1
	}
	sectALen := sectLen + sep + len(diffA)
	sectBLen := sectLen + sep + len(diffB)

	best := score(len(diffA)+len(diffB)-2*lcs(diffA, diffB), sectALen+sectBLen)
	if sectLen == 0 {
		return best
	}

	withA := score(sep+len(diffA), sectLen+sectALen)
	withB := score(sep+len(diffB), sectLen+sectBLen)
	return max(best, withA, withB)
}

// Fraction is TokenSetRatio scaled to [0, 1].
func Fraction(a, b string) float64 {
	return float64(TokenSetRatio(a, b)) / 100
}

// Clip returns at most n runes of s.
func Clip(s string, n int) string {
	if n < 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// Tokens lower-cases s and splits it on every rune that is not a letter or digit.
func Tokens(s string) []string {
	lower := cases.Lower(language.Und).String(s)
	return strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// score turns an edit distance over total runes into [0, 100]. Halves round to
// even.
func score(dist, total int) int {
	if total == 0 {
		return 100
	}
	return int(math.RoundToEven(100 * (1 - float64(dist)/float64(total))))
}

// lcs returns the length of the longest common subsequence of a and b.
func lcs(a, b []rune) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	row := make([]int, len(b)+1)
	for i := range a {
		prev := 0
		for j := range b {
			cur := row[j+1]
			if a[i] == b[j] {
				row[j+1] = prev + 1
			} else if row[j] > row[j+1] {
				row[j+1] = row[j]
			}
			prev = cur
		}
	}
	return row[len(b)]
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range Tokens(s) {
		set[tok] = struct{}{}
	}
	return set
}

func joinSorted(tokens []string) string {
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}
