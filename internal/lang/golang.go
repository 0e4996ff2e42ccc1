package lang

import (
	"regexp"
	"strings"

	"github.com/tgrange/orrery/internal/model"
)

func init() {
	register(&Spec{
		Lang:           model.LangGo,
		FileExtensions: []string{".go"},
		Extract:        extractGo,
		SimpleName:     goSimpleName,
		FilenameExt:    ".go",
		DirFallback:    true,
	})
}

var (
	goSingleImport = regexp.MustCompile(`^\s*import\s+(?:[\w.]+\s+)?"([^"]+)"`)
	goBlockOpen    = regexp.MustCompile(`^\s*import\s*\(`)
	goBlockLine    = regexp.MustCompile(`^\s*(?:[\w.]+\s+)?"([^"]+)"`)
	goBlockClose   = regexp.MustCompile(`^\s*\)`)
)

// extractGo recognizes both the single-line form and the parenthesized
// block. Inside a block every quoted path counts, with or without an alias
// (including _ and .). The block ends at the first line whose leading
// non-space character is a closing paren.
func extractGo(content, sourceFile string) []model.RawReference {
	var refs []model.RawReference
	inBlock := false
	for i, line := range strings.Split(content, "\n") {
		if inBlock {
			if goBlockClose.MatchString(line) {
				inBlock = false
				continue
			}
			if m := goBlockLine.FindStringSubmatch(line); m != nil {
				refs = append(refs, model.RawReference{
					Text:       m[1],
					LineNumber: i + 1,
					Kind:       model.KindImport,
					SourceFile: sourceFile,
				})
			}
			continue
		}
		if m := goSingleImport.FindStringSubmatch(line); m != nil {
			refs = append(refs, model.RawReference{
				Text:       m[1],
				LineNumber: i + 1,
				Kind:       model.KindImport,
				SourceFile: sourceFile,
			})
			continue
		}
		if goBlockOpen.MatchString(line) {
			inBlock = true
		}
	}
	return refs
}

func goSimpleName(text string) string {
	if i := strings.LastIndexByte(text, '/'); i >= 0 {
		return text[i+1:]
	}
	return text
}
