package scene

import (
	"regexp"
	"strings"
)

// Method tags for comparison folders.
const (
	MethodInput    = "input"
	MethodGT       = "gt"
	MethodOurs     = "ours"
	MethodHold     = "hold"
	MethodMagicHOI = "magichoi"
	MethodOther    = "other"
)

// RequiredMethods lists every method a complete comparison row shows, in
// presentation order.
var RequiredMethods = []string{MethodInput, MethodGT, MethodOurs, MethodHold, MethodMagicHOI}

// UnmatchedPriority ranks clips no rule recognizes; they are kept, last.
const UnmatchedPriority = 99

// TagRule assigns a tag and priority to a clip basename. Rules are
// evaluated in table order; first match wins.
type TagRule struct {
	Tag      string
	Priority int
	Match    func(lowerBase string) bool
}

func contains(sub string) func(string) bool {
	return func(s string) bool { return strings.Contains(s, sub) }
}

// isBareCut matches "<name>_cut.<ext>" clips that carry no other method
// prefix; these are raw input recordings.
func isBareCut(lowerBase string) bool {
	stem := strings.TrimSuffix(lowerBase, extOf(lowerBase))
	if !strings.HasSuffix(stem, "_cut") {
		return false
	}
	for _, p := range []string{"gt_", "ours_", "hold_", "magichoi_"} {
		if strings.Contains(lowerBase, p) {
			return false
		}
	}
	return true
}

// ComparisonRules rank comparison clips by method. Matching is on the
// lowercased basename.
var ComparisonRules = []TagRule{
	{MethodInput, 0, func(s string) bool { return strings.Contains(s, "input_") || isBareCut(s) }},
	{MethodGT, 1, contains("gt_")},
	{MethodOurs, 2, contains("ours_")},
	{MethodHold, 3, contains("hold_")},
	{MethodMagicHOI, 4, contains("magichoi_")},
}

// RotateRules rank rotation-study clips. "objtexture_rotateframe" must be
// checked before its suffix "rotateframe".
var RotateRules = []TagRule{
	{"original", 0, contains("original")},
	{"overlayed_objtexture", 1, contains("overlayed_objtexture")},
	{"objtexture_rotateframe", 2, contains("objtexture_rotateframe")},
	{"rotateframe", 3, contains("rotateframe")},
}

// reTimestampClip matches recordings named like "20260123-005504.mp4".
var reTimestampClip = regexp.MustCompile(`^\d{8}-\d{6}\.(?i:mp4|avi|mov|mkv|flv|wmv)$`)

// RetargetRules select retarget clips. Matching is case-sensitive on the
// original basename; clips matching no rule are dropped, not ranked last.
var RetargetRules = []TagRule{
	{"trimmed", 0, func(s string) bool { return strings.Contains(s, "trimmed") && strings.Contains(s, "cut_cut") }},
	{"timestamp", 1, reTimestampClip.MatchString},
}

// match returns the first rule matching base.
func match(rules []TagRule, base string) (TagRule, bool) {
	for _, r := range rules {
		if r.Match(base) {
			return r, true
		}
	}
	return TagRule{}, false
}

// MethodOf returns the comparison method tag of a clip basename, or
// MethodOther.
func MethodOf(base string) string {
	if r, ok := match(ComparisonRules, strings.ToLower(base)); ok {
		return r.Tag
	}
	return MethodOther
}
