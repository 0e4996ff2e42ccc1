package lang

import (
	"regexp"
	"strings"

	"github.com/tgrange/orrery/internal/model"
)

func init() {
	register(&Spec{
		Lang:           model.LangRust,
		FileExtensions: []string{".rs"},
		Extract:        extractRust,
		SimpleName:     func(text string) string { return text },
		FilenameExt:    ".rs",
	})
}

var (
	rustUse = regexp.MustCompile(`^\s*(?:pub(?:\([^)]*\))?\s+)?use\s+([A-Za-z_]\w*)`)
	rustMod = regexp.MustCompile(`^\s*(?:pub(?:\([^)]*\))?\s+)?mod\s+([A-Za-z_]\w*)\s*;`)
)

// extractRust records the first path segment of a use declaration (the
// crate or module root) and the name of every mod declaration without a
// body. Inline modules (mod x { ... }) declare code in place, so they are
// not references to another file.
func extractRust(content, sourceFile string) []model.RawReference {
	var refs []model.RawReference
	for i, line := range strings.Split(content, "\n") {
		if m := rustUse.FindStringSubmatch(line); m != nil {
			refs = append(refs, model.RawReference{
				Text:       m[1],
				LineNumber: i + 1,
				Kind:       model.KindImport,
				SourceFile: sourceFile,
			})
			continue
		}
		if m := rustMod.FindStringSubmatch(line); m != nil {
			refs = append(refs, model.RawReference{
				Text:       m[1],
				LineNumber: i + 1,
				Kind:       model.KindImport,
				SourceFile: sourceFile,
			})
		}
	}
	return refs
}
