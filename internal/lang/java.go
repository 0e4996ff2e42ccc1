package lang

import (
	"regexp"
	"strings"

	"github.com/tgrange/orrery/internal/model"
)

func init() {
	register(&Spec{
		Lang:           model.LangJava,
		FileExtensions: []string{".java"},
		Extract:        extractJava,
		SimpleName:     javaSimpleName,
		FilenameExt:    ".java",
	})
}

var javaImport = regexp.MustCompile(`^\s*import\s+(?:static\s+)?([\w.]+(?:\.\*)?)\s*;`)

// extractJava keeps the full dotted path as the reference text. Resolution
// later reduces it to the simple class name, since package directories in a
// repository rarely mirror the declared package exactly.
func extractJava(content, sourceFile string) []model.RawReference {
	var refs []model.RawReference
	for i, line := range strings.Split(content, "\n") {
		m := javaImport.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		refs = append(refs, model.RawReference{
			Text:       m[1],
			LineNumber: i + 1,
			Kind:       model.KindImport,
			SourceFile: sourceFile,
		})
	}
	return refs
}

func javaSimpleName(text string) string {
	if i := strings.LastIndexByte(text, '.'); i >= 0 {
		return text[i+1:]
	}
	return text
}
