package scene

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Suffixes appended to a clip's stem by preprocessing.
const (
	SuffixCropped  = "_cropped"
	SuffixTrimmed  = "_trimmed"
	SuffixTempCrop = "_temp_crop"
)

// TempHeightSuffix names the first normalize intermediate, e.g. "_temp976".
func TempHeightSuffix(height int) string {
	return "_temp" + strconv.Itoa(height)
}

// reDerived matches the stem of every file preprocessing writes. Placeholders
// end in SuffixCropped, so they need no pattern of their own.
var reDerived = regexp.MustCompile(`(_cropped|_trimmed|_temp\d+|_temp_crop)$`)

// PlaceholderTag marks synthesized clips.
const PlaceholderTag = "placeholder"

// WithSuffix inserts suffix between the stem and extension of path:
// WithSuffix("a/gt_1.mp4", "_cropped") is "a/gt_1_cropped.mp4".
func WithSuffix(path, suffix string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + suffix + ext
}

// PlaceholderName is the file synthesized for a missing method.
func PlaceholderName(method, ext string) string {
	return method + "_" + PlaceholderTag + SuffixCropped + "." + strings.TrimPrefix(ext, ".")
}

// IsDerived reports whether base was written by preprocessing rather than
// supplied as a source clip. Only the stem's final suffix counts, so a source
// such as "input_temp1.mp4" is not mistaken for an intermediate.
func IsDerived(base string) bool {
	stem := strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
	return reDerived.MatchString(stem)
}
