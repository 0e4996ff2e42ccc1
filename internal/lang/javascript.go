package lang

import (
	"regexp"
	"strings"

	"github.com/tgrange/orrery/internal/model"
)

// JavaScript and TypeScript share one extractor and one resolution ladder;
// the two tags exist so scanners and filters can distinguish them.
var jsResolveExts = []string{
	".ts", ".tsx", ".js", ".jsx",
	"/index.ts", "/index.tsx", "/index.js", "/index.jsx",
}

func init() {
	register(&Spec{
		Lang:           model.LangJavaScript,
		FileExtensions: []string{".js", ".jsx", ".mjs", ".cjs"},
		Extract:        extractJavaScript,
		Relative:       true,
		ResolveExts:    jsResolveExts,
	})
	register(&Spec{
		Lang:           model.LangTypeScript,
		FileExtensions: []string{".ts", ".tsx"},
		Extract:        extractJavaScript,
		Relative:       true,
		ResolveExts:    jsResolveExts,
	})
}

// jsPatterns run against every line in order; capture group 1 is the module
// specifier. A single line may yield several references.
var jsPatterns = []struct {
	re   *regexp.Regexp
	kind model.Kind
}{
	{regexp.MustCompile(`\bimport\s+[^'"]*?\bfrom\s+['"]([^'"]+)['"]`), model.KindImport},
	{regexp.MustCompile(`\bimport\s*['"]([^'"]+)['"]`), model.KindImport},
	{regexp.MustCompile(`\brequire\s*\(\s*['"]([^'"]+)['"]\s*\)`), model.KindImport},
	{regexp.MustCompile(`\bimport\s*\(\s*['"]([^'"]+)['"]\s*\)`), model.KindImport},
	{regexp.MustCompile(`\bexport\s+[^'"]*?\bfrom\s+['"]([^'"]+)['"]`), model.KindExport},
}

func extractJavaScript(content, sourceFile string) []model.RawReference {
	var refs []model.RawReference
	for i, line := range strings.Split(content, "\n") {
		for _, p := range jsPatterns {
			for _, m := range p.re.FindAllStringSubmatch(line, -1) {
				if m[1] == "" {
					continue
				}
				refs = append(refs, model.RawReference{
					Text:       m[1],
					LineNumber: i + 1,
					Kind:       p.kind,
					SourceFile: sourceFile,
				})
			}
		}
	}
	return refs
}
