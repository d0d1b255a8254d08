package aqi

import (
	"regexp"
	"strconv"
)

// NotFound is the index reported when no AQI value can be extracted.
const NotFound = -1

// MaxUnlabeledIndex bounds unlabeled numbers accepted as an index.
const MaxUnlabeledIndex = 500

var (
	labeledIndexRe   = regexp.MustCompile(`(?i)AQI[:\s]*(\d+)`)
	unlabeledIndexRe = regexp.MustCompile(`\b(\d{1,3})\b`)
)

// ExtractIndex finds an AQI value in free-form provider text.
//
// A value following an "AQI" label is trusted as-is. Without a label, the
// first standalone 1-3 digit number in [0, 500] is used, which keeps figures
// like populations or years from being read as an index. Returns
// (NotFound, false) when neither pass matches.
func ExtractIndex(text string) (int, bool) {
	if text == "" {
		return NotFound, false
	}

	if m := labeledIndexRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			return v, true
		}
	}

	for _, m := range unlabeledIndexRe.FindAllStringSubmatch(text, -1) {
		v, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if v >= 0 && v <= MaxUnlabeledIndex {
			return v, true
		}
	}

	return NotFound, false
}
