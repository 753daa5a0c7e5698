package compile

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// maxSheetNameLength is the xlsx format's hard limit on sheet names.
const maxSheetNameLength = 31

// reservedSheetNames are taken by the workbook's own sheets; per-report
// sheets must never collide with them.
var reservedSheetNames = map[string]struct{}{
	sheetSummary:    {},
	sheetComparison: {},
}

// invalidSheetNameChars are forbidden in xlsx sheet names.
const invalidSheetNameChars = `:\/?*[]`

// sanitizeSheetName maps forbidden characters to underscores and truncates
// to the xlsx limit.
func sanitizeSheetName(name string) string {
	mapped := strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalidSheetNameChars, r) {
			return '_'
		}
		return r
	}, name)
	if mapped == "" {
		mapped = "page"
	}
	return truncateRunes(mapped, maxSheetNameLength)
}

// uniqueSheetName returns a sanitized sheet name not present in used, then
// records it. Collisions get a numeric suffix; the base is re-truncated so
// the suffixed name still fits the xlsx limit.
func uniqueSheetName(name string, used map[string]struct{}) string {
	candidate := sanitizeSheetName(name)
	if !sheetNameTaken(candidate, used) {
		used[candidate] = struct{}{}
		return candidate
	}

	for i := 2; ; i++ {
		suffix := fmt.Sprintf("_%d", i)
		base := truncateRunes(candidate, maxSheetNameLength-len(suffix))
		next := base + suffix
		if !sheetNameTaken(next, used) {
			used[next] = struct{}{}
			return next
		}
	}
}

func sheetNameTaken(name string, used map[string]struct{}) bool {
	if _, ok := reservedSheetNames[name]; ok {
		return true
	}
	_, ok := used[name]
	return ok
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
