package scan

import (
	"path/filepath"
	"strings"

	"github.com/tgrange/orrery/internal/lang"
	"github.com/tgrange/orrery/internal/model"
)

// DetectLanguage returns the canonical language tag for a file path based
// on its extension. Returns ("", false) if the extension is not recognized.
// The extension table lives with the per-language specs, so a language
// added there is picked up by the scanner automatically.
func DetectLanguage(path string) (model.Language, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	return lang.ForExtension(ext)
}
