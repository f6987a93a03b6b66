package domain

import (
	"testing"
)

func TestSelectSource(t *testing.T) {
	tests := []struct {
		name      string
		entries   []string
		wantKind  SourceKind
		wantEntry string
		wantFound bool
	}{
		{
			name:      "geodatabase outranks shapefile and csv",
			entries:   []string{"notes.csv", "roads.shp", "survey.gdb/a00000001.gdbtable"},
			wantKind:  SourceGeodatabase,
			wantEntry: "survey.gdb",
			wantFound: true,
		},
		{
			name:      "geodatabase child entry resolves to the gdb directory",
			entries:   []string{"export/parcels.gdb/timestamps", "export/parcels.gdb/gdb"},
			wantKind:  SourceGeodatabase,
			wantEntry: "export/parcels.gdb",
			wantFound: true,
		},
		{
			name:      "geodatabase directory entry with trailing slash",
			entries:   []string{"parcels.gdb/"},
			wantKind:  SourceGeodatabase,
			wantEntry: "parcels.gdb",
			wantFound: true,
		},
		{
			name:      "shapefile outranks csv",
			entries:   []string{"attrs.csv", "boundaries.shp", "boundaries.dbf", "boundaries.shx"},
			wantKind:  SourceShapefile,
			wantEntry: "boundaries.shp",
			wantFound: true,
		},
		{
			name:      "csv as last resort",
			entries:   []string{"readme.txt", "points.csv"},
			wantKind:  SourceCSV,
			wantEntry: "points.csv",
			wantFound: true,
		},
		{
			name:      "nested shapefile keeps its full path",
			entries:   []string{"data/2024/rivers.shp"},
			wantKind:  SourceShapefile,
			wantEntry: "data/2024/rivers.shp",
			wantFound: true,
		},
		{
			name:      "matching is case insensitive",
			entries:   []string{"UPPER.SHP"},
			wantKind:  SourceShapefile,
			wantEntry: "UPPER.SHP",
			wantFound: true,
		},
		{
			name:      "directory entries never match by extension",
			entries:   []string{"archive.csv/", "inner.txt"},
			wantFound: false,
		},
		{
			name:      "no convertible source",
			entries:   []string{"readme.txt", "style.qml", "photo.jpg"},
			wantFound: false,
		},
		{
			name:      "empty archive",
			entries:   nil,
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, found := SelectSource(tt.entries)
			if found != tt.wantFound {
				t.Fatalf("SelectSource() found = %v, want %v", found, tt.wantFound)
			}
			if !found {
				return
			}
			if src.Kind != tt.wantKind {
				t.Errorf("SelectSource() kind = %s, want %s", src.Kind, tt.wantKind)
			}
			if src.Entry != tt.wantEntry {
				t.Errorf("SelectSource() entry = %q, want %q", src.Entry, tt.wantEntry)
			}
		})
	}
}

func TestSelectSourceOrderIndependence(t *testing.T) {
	// The priority must come from the matcher order, not the entry order.
	forward := []string{"a.csv", "b.shp", "c.gdb/x"}
	backward := []string{"c.gdb/x", "b.shp", "a.csv"}

	srcF, _ := SelectSource(forward)
	srcB, _ := SelectSource(backward)

	if srcF.Kind != SourceGeodatabase || srcB.Kind != SourceGeodatabase {
		t.Errorf("expected geodatabase from both orders, got %s and %s", srcF.Kind, srcB.Kind)
	}
}

func TestVSIZipPath(t *testing.T) {
	tests := []struct {
		name        string
		storePrefix string
		objectName  string
		entry       string
		want        string
	}{
		{
			name:        "gcs bucket",
			storePrefix: "/vsigs/uploads",
			objectName:  "survey.zip",
			entry:       "survey.gdb",
			want:        "/vsizip//vsigs/uploads/survey.zip/survey.gdb",
		},
		{
			name:        "s3 bucket with prefix",
			storePrefix: "/vsis3/data/incoming",
			objectName:  "roads.zip",
			entry:       "roads.shp",
			want:        "/vsizip//vsis3/data/incoming/roads.zip/roads.shp",
		},
		{
			name:        "azure container",
			storePrefix: "/vsiaz/uploads",
			objectName:  "points.zip",
			entry:       "points.csv",
			want:        "/vsizip//vsiaz/uploads/points.zip/points.csv",
		},
		{
			name:        "local directory",
			storePrefix: "/var/lib/tessera/in",
			objectName:  "nested/parcels.zip",
			entry:       "parcels.gdb",
			want:        "/vsizip//var/lib/tessera/in/nested/parcels.zip/parcels.gdb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := VSIZipPath(tt.storePrefix, tt.objectName, tt.entry)
			if got != tt.want {
				t.Errorf("VSIZipPath() = %q, want %q", got, tt.want)
			}
		})
	}
}
