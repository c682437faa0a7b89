package grouping

import "regexp"

var (
	symbolRe = regexp.MustCompile(`[A-Z]{3,6}`)
	runRe    = regexp.MustCompile(`[A-Z]+`)
)

// SymbolKey derives the symbol bucket of a title. A standalone run of
// exactly six capitals (a currency pair such as EURUSD) wins; otherwise the
// first run of three to six capitals anywhere in the title is used, even
// inside a longer word. Titles with neither fall into General.
//
// Preferring the six-letter run deliberately departs from a plain first
// match of [A-Z]{3,6}: "BULLISH EURUSD" groups under EURUSD, not BULLIS,
// and "LONG GBPJPY" under GBPJPY, not LONG.
func SymbolKey(title string) string {
	for _, run := range runRe.FindAllString(title, -1) {
		if len(run) == 6 {
			return run
		}
	}
	if m := symbolRe.FindString(title); m != "" {
		return m
	}
	return General
}
