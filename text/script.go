package text

import "unicode"

// ScriptClass groups runes by writing system. N-gram windows never
// cross a class boundary, so grams always come from a single script.
type ScriptClass int

const (
	ClassOther ScriptClass = iota
	ClassLatin
	ClassCyrillic
	ClassGreek
	ClassArabic
	ClassHebrew
	ClassDevanagari
	ClassThai
	ClassHan
	ClassHiragana
	ClassKatakana
	ClassHangul
)

var classNames = [...]string{
	ClassOther:      "Other",
	ClassLatin:      "Latin",
	ClassCyrillic:   "Cyrillic",
	ClassGreek:      "Greek",
	ClassArabic:     "Arabic",
	ClassHebrew:     "Hebrew",
	ClassDevanagari: "Devanagari",
	ClassThai:       "Thai",
	ClassHan:        "Han",
	ClassHiragana:   "Hiragana",
	ClassKatakana:   "Katakana",
	ClassHangul:     "Hangul",
}

func (c ScriptClass) String() string {
	if int(c) >= 0 && int(c) < len(classNames) {
		return classNames[c]
	}
	return "Other"
}

// scriptTable pairs a unicode range table with its class, checked in
// rough frequency order of the bundled profiles.
var scriptTable = []struct {
	rt    *unicode.RangeTable
	class ScriptClass
}{
	{unicode.Latin, ClassLatin},
	{unicode.Cyrillic, ClassCyrillic},
	{unicode.Han, ClassHan},
	{unicode.Hiragana, ClassHiragana},
	{unicode.Katakana, ClassKatakana},
	{unicode.Hangul, ClassHangul},
	{unicode.Greek, ClassGreek},
	{unicode.Arabic, ClassArabic},
	{unicode.Hebrew, ClassHebrew},
	{unicode.Devanagari, ClassDevanagari},
	{unicode.Thai, ClassThai},
}

// Classify returns the script class of r. Digits, punctuation, symbols
// and anything outside the known scripts classify as ClassOther, which
// the extractor treats as a gram boundary.
func Classify(r rune) ScriptClass {
	if !unicode.IsLetter(r) {
		return ClassOther
	}
	for _, entry := range scriptTable {
		if unicode.Is(entry.rt, r) {
			return entry.class
		}
	}
	return ClassOther
}

// foldRune collapses orthographic variants onto one canonical form so
// equivalent spellings land on the same gram.
func foldRune(r rune) rune {
	switch r {
	case 'ی': // Farsi yeh -> Arabic yeh
		return 'ي'
	case 'ڪ': // Swash kaf -> Arabic kaf
		return 'ك'
	case 'ー': // Katakana-Hiragana prolonged sound mark drops
		return ' '
	}
	return r
}
