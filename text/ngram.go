package text

// MaxGramLength is the widest extraction window.
const MaxGramLength = 3

// Extract slides windows of width 1 to MaxGramLength over a normalized
// rune buffer (as produced by Append) and returns every gram. A window
// never contains a space and never spans two script classes, so a
// class boundary terminates candidate grams at that point.
func Extract(runes []rune) []string {
	grams := make([]string, 0, len(runes)*MaxGramLength)
	for i, r := range runes {
		if r == ' ' {
			continue
		}
		class := Classify(r)
		grams = append(grams, string(r))
		for n := 2; n <= MaxGramLength; n++ {
			if i+n > len(runes) {
				break
			}
			next := runes[i+n-1]
			if next == ' ' || Classify(next) != class {
				break
			}
			grams = append(grams, string(runes[i:i+n]))
		}
	}
	return grams
}
