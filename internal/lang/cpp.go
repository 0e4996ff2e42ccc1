package lang

import (
	"regexp"
	"strings"

	"github.com/tgrange/orrery/internal/model"
)

// C and C++ differ only in file extensions; #include behaves identically,
// and quoted versus angle-bracket forms are treated the same.
func init() {
	register(&Spec{
		Lang:           model.LangC,
		FileExtensions: []string{".c", ".h"},
		Extract:        extractInclude,
	})
	register(&Spec{
		Lang:           model.LangCPP,
		FileExtensions: []string{".cpp", ".cc", ".cxx", ".hpp", ".hh"},
		Extract:        extractInclude,
	})
}

var cInclude = regexp.MustCompile(`^\s*#\s*include\s*(?:"([^"]+)"|<([^>]+)>)`)

func extractInclude(content, sourceFile string) []model.RawReference {
	var refs []model.RawReference
	for i, line := range strings.Split(content, "\n") {
		m := cInclude.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		text := m[1]
		if text == "" {
			text = m[2]
		}
		if text == "" {
			continue
		}
		refs = append(refs, model.RawReference{
			Text:       text,
			LineNumber: i + 1,
			Kind:       model.KindImport,
			SourceFile: sourceFile,
		})
	}
	return refs
}
