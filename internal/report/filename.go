package report

import (
	"net/url"
	"strings"
)

// Report file naming. Names are deterministic functions of the URL so a
// re-scan overwrites the previous report instead of accumulating copies.
const (
	// FilePrefix marks report files during directory discovery.
	FilePrefix = "seo_report_"

	// FileExt is the report file extension.
	FileExt = ".csv"

	// maxNameLength caps the sanitized URL portion of a file name.
	maxNameLength = 120
)

// FileName derives the report file name for a URL: the host and path,
// sanitized to filesystem-safe characters. Including the host avoids the
// collisions a bare last-path-segment scheme would produce when two sites
// share page names.
func FileName(rawURL string) string {
	name := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		name = u.Host + u.Path
	}

	name = sanitizeName(name)
	if name == "" {
		name = "index"
	}
	if len(name) > maxNameLength {
		name = name[:maxNameLength]
	}
	return FilePrefix + name + FileExt
}

// DisplayName recovers the human-readable name from a report file name,
// used for workbook sheet titles and summary rows.
func DisplayName(fileName string) string {
	name := strings.TrimSuffix(strings.TrimPrefix(fileName, FilePrefix), FileExt)
	if name == "" {
		return fileName
	}
	return name
}

// IsReportFile reports whether a directory entry looks like a report file.
func IsReportFile(fileName string) bool {
	return strings.HasPrefix(fileName, FilePrefix) &&
		strings.HasSuffix(fileName, FileExt) &&
		len(fileName) > len(FilePrefix)+len(FileExt)
}

// sanitizeName maps characters outside [A-Za-z0-9._-] to underscores and
// collapses the resulting runs so names stay readable.
func sanitizeName(name string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range name {
		safe := r == '.' || r == '-' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if safe {
			b.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	return strings.Trim(b.String(), "_")
}
