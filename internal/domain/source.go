package domain

import (
	"strings"
)

// SourceKind identifies the type of convertible data found in an archive.
type SourceKind string

// Recognized source kinds, in priority order.
const (
	SourceGeodatabase SourceKind = "geodatabase"
	SourceShapefile   SourceKind = "shapefile"
	SourceCSV         SourceKind = "csv"
)

// Source is the single convertible data source selected from an archive.
type Source struct {
	Kind  SourceKind // Matched source kind
	Entry string     // Intra-archive path (for a geodatabase, the .gdb directory)
}

// matcher pairs a source kind with its entry predicate. SelectSource walks
// the slice in order and stops at the first kind with any matching entry,
// so a geodatabase always wins over a shapefile, and a shapefile over a CSV.
type matcher struct {
	kind  SourceKind
	match func(entry string) (string, bool)
}

var sourceMatchers = []matcher{
	{SourceGeodatabase, matchGeodatabase},
	{SourceShapefile, matchSuffix(".shp")},
	{SourceCSV, matchSuffix(".csv")},
}

// SelectSource scans archive entries and returns the highest-priority
// convertible source, or false if the archive contains none.
func SelectSource(entries []string) (Source, bool) {
	for _, m := range sourceMatchers {
		for _, entry := range entries {
			if resolved, ok := m.match(entry); ok {
				return Source{Kind: m.kind, Entry: resolved}, true
			}
		}
	}
	return Source{}, false
}

// matchGeodatabase matches any entry inside (or naming) a .gdb directory and
// resolves it to the path of the .gdb directory itself.
func matchGeodatabase(entry string) (string, bool) {
	lower := strings.ToLower(entry)
	idx := strings.Index(lower, ".gdb/")
	if idx >= 0 {
		return entry[:idx+len(".gdb")], true
	}
	if strings.HasSuffix(lower, ".gdb") {
		return entry, true
	}
	return "", false
}

// matchSuffix returns a predicate matching file entries by extension.
func matchSuffix(suffix string) func(string) (string, bool) {
	return func(entry string) (string, bool) {
		if strings.HasSuffix(entry, "/") {
			return "", false
		}
		if strings.HasSuffix(strings.ToLower(entry), suffix) {
			return entry, true
		}
		return "", false
	}
}

// VSIZipPath composes the GDAL virtual-filesystem locator for a source
// inside a stored archive: /vsizip/<store prefix>/<object name>/<entry>.
// The store prefix is the storage adapter's VSI prefix, e.g. /vsigs/bucket
// for GCS or a plain directory path for local storage. The composition must
// match GDAL's resolution rules exactly.
func VSIZipPath(storePrefix, objectName, entry string) string {
	return "/vsizip/" + storePrefix + "/" + objectName + "/" + entry
}
