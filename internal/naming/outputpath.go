package naming

import (
	"path/filepath"
	"strings"
)

// OutputPath builds the output file path for a scene folder.
// ext is the file extension with or without the leading dot.
//
//	<outputDir>/<folder>.<ext>
func OutputPath(outputDir, folder, ext string) string {
	return filepath.Join(outputDir, folder+"."+strings.TrimPrefix(ext, "."))
}
