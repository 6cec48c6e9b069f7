package detector

import "fmt"

// LangUnknown is the sentinel returned by Detect when no language
// clears the confidence threshold or no evidence was accumulated.
const LangUnknown = "unknown"

// Language pairs a language name with its estimated probability.
type Language struct {
	Lang string  `json:"lang"`
	Prob float64 `json:"prob"`
}

func (l Language) String() string {
	if l.Lang == "" {
		return ""
	}
	return fmt.Sprintf("%s:%.6f", l.Lang, l.Prob)
}
