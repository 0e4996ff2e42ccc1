package lang

import (
	"regexp"
	"strings"

	"github.com/tgrange/orrery/internal/model"
)

func init() {
	register(&Spec{
		Lang:           model.LangPython,
		FileExtensions: []string{".py"},
		Extract:        extractPython,
		Relative:       true,
		DotRelative:    true,
		ResolveExts:    []string{".py", "/__init__.py"},
		RootStrip:      true,
	})
}

var (
	pyFromImport = regexp.MustCompile(`^\s*from\s+([.\w]+)\s+import\b`)
	pyImport     = regexp.MustCompile(`^\s*import\s+(.+)$`)
	pyModuleName = regexp.MustCompile(`^[.\w]+$`)
)

// extractPython handles both import forms. "import a, b as c" yields one
// reference per listed module, alias dropped. "from pkg.mod import X"
// yields a single reference to pkg.mod; the imported names are not
// recorded. Leading dots on a from-import survive into the reference text
// so the resolver can count them.
func extractPython(content, sourceFile string) []model.RawReference {
	var refs []model.RawReference
	for i, line := range strings.Split(content, "\n") {
		if m := pyFromImport.FindStringSubmatch(line); m != nil {
			refs = append(refs, model.RawReference{
				Text:       m[1],
				LineNumber: i + 1,
				Kind:       model.KindImport,
				SourceFile: sourceFile,
			})
			continue
		}
		m := pyImport.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		payload := m[1]
		if j := strings.IndexByte(payload, '#'); j >= 0 {
			payload = payload[:j]
		}
		for _, item := range strings.Split(payload, ",") {
			fields := strings.Fields(item)
			if len(fields) == 0 {
				continue
			}
			name := fields[0]
			if !pyModuleName.MatchString(name) {
				continue
			}
			refs = append(refs, model.RawReference{
				Text:       name,
				LineNumber: i + 1,
				Kind:       model.KindImport,
				SourceFile: sourceFile,
			})
		}
	}
	return refs
}
