package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pemistahl/lingua-go"
	"github.com/spf13/cobra"
	"github.com/tsingjyujing/glossa/detector"
)

// linguaByCode maps bundled profile names onto lingua's language set
// so the two engines can be compared on the same corpus.
var linguaByCode = map[string]lingua.Language{
	"en":    lingua.English,
	"de":    lingua.German,
	"fr":    lingua.French,
	"es":    lingua.Spanish,
	"it":    lingua.Italian,
	"pt":    lingua.Portuguese,
	"nl":    lingua.Dutch,
	"ru":    lingua.Russian,
	"ja":    lingua.Japanese,
	"zh-cn": lingua.Chinese,
}

// NewCompareCommand builds an agreement harness: it runs this engine
// and lingua-go over a line-delimited corpus and reports how often the
// two detectors agree.
func NewCompareCommand() *cobra.Command {
	var (
		profileDir string
		shortText  bool
		inputPath  string
	)

	compareCommand := &cobra.Command{
		Use:   "compare",
		Short: "Compare detection results against lingua-go on a corpus",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := openRegistry(profileDir, shortText)
			if err != nil {
				return err
			}
			codeByLingua := make(map[lingua.Language]string, len(linguaByCode))
			candidates := make([]lingua.Language, 0, len(linguaByCode))
			for _, code := range registry.Languages() {
				lang, ok := linguaByCode[code]
				if !ok {
					logger.Warnf("No lingua mapping for language %s, skipping it", code)
					continue
				}
				codeByLingua[lang] = code
				candidates = append(candidates, lang)
			}
			if len(candidates) < 2 {
				return fmt.Errorf("not enough comparable languages in the registry")
			}
			reference := lingua.NewLanguageDetectorBuilder().
				FromLanguages(candidates...).
				Build()

			var input io.Reader = os.Stdin
			if inputPath != "" {
				file, err := os.Open(inputPath)
				if err != nil {
					return err
				}
				defer file.Close()
				input = file
			}

			total, agreed := 0, 0
			scanner := bufio.NewScanner(input)
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				session, err := registry.Create()
				if err != nil {
					return err
				}
				session.Append(line)
				ours := session.Detect()

				theirs := detector.LangUnknown
				if lang, ok := reference.DetectLanguageOf(line); ok {
					theirs = codeByLingua[lang]
				}

				total++
				if ours == theirs {
					agreed++
				} else {
					logger.WithField("glossa", ours).WithField("lingua", theirs).Infof("Disagreement on: %.60s", line)
				}
			}
			if err := scanner.Err(); err != nil {
				return err
			}
			if total == 0 {
				return fmt.Errorf("no input lines to compare")
			}
			fmt.Printf("agreement: %d/%d (%.1f%%)\n", agreed, total, 100*float64(agreed)/float64(total))
			return nil
		},
	}
	compareCommand.Flags().StringVarP(&profileDir, "profiles", "p", "", "Directory with custom language profiles (default: bundled set)")
	compareCommand.Flags().BoolVar(&shortText, "short", false, "Use the bundled short-text profile set")
	compareCommand.Flags().StringVarP(&inputPath, "input", "i", "", "Corpus file, one sample per line (default: stdin)")
	return compareCommand
}
