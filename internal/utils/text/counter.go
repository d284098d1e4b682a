// Package text holds small string helpers shared by the feed layers.
// Lengths here are always in characters, never bytes: the content fetcher
// decides whether an article body is too short to keep by comparing rune
// counts against CONTENT_FETCH_THRESHOLD.
package text

import "unicode/utf8"

// CountRunes returns the number of characters in s. Article lengths are
// compared in characters so multi-byte scripts are not favored. Invalid
// UTF-8 bytes count as one character each.
//
// Examples:
//
//	CountRunes("hello")         // 5
//	CountRunes("привет")        // 6, not the 12 bytes
//	CountRunes("news 日本")      // 7
//	CountRunes("ok👋")           // 3
//	CountRunes("")              // 0
func CountRunes(s string) int {
	return utf8.RuneCountInString(s)
}
