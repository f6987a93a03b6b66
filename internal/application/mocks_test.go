package application

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jobrunner/tessera/internal/domain"
	"github.com/jobrunner/tessera/internal/ports/output"
)

// mockStorage implements output.ObjectStorage for testing. Download writes
// archiveData to the destination path; Upload records the key and source.
type mockStorage struct {
	objects     []output.StorageObject
	archiveData []byte
	existing    map[string]bool

	listErr     error
	downloadErr error
	uploadErr   error
	existsErr   error

	downloads int
	uploads   int
	uploaded  map[string]string // key -> source path at upload time
}

func (m *mockStorage) List(_ context.Context) ([]output.StorageObject, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.objects, nil
}

func (m *mockStorage) Download(_ context.Context, _, dest string) error {
	m.downloads++
	if m.downloadErr != nil {
		return m.downloadErr
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0750); err != nil {
		return err
	}
	return os.WriteFile(dest, m.archiveData, 0600)
}

func (m *mockStorage) Upload(_ context.Context, key, src string) error {
	m.uploads++
	if m.uploadErr != nil {
		return m.uploadErr
	}
	if m.uploaded == nil {
		m.uploaded = make(map[string]string)
	}
	m.uploaded[key] = src
	return nil
}

func (m *mockStorage) Exists(_ context.Context, key string) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	return m.existing[key], nil
}

func (m *mockStorage) VSIPrefix() string {
	return "/vsigs/test-bucket"
}

// mockTranslator implements output.VectorTranslator for testing. Unless
// failing, it writes a placeholder output file like ogr2ogr would.
type mockTranslator struct {
	translateErr error
	skipOutput   bool

	calls    int
	lastSrc  string
	lastDest string
	lastOpts domain.ConversionOptions
}

func (m *mockTranslator) Translate(_ context.Context, src, dest string, opts domain.ConversionOptions) error {
	m.calls++
	m.lastSrc = src
	m.lastDest = dest
	m.lastOpts = opts

	if m.translateErr != nil {
		return m.translateErr
	}
	if m.skipOutput {
		return nil
	}
	return os.WriteFile(dest, []byte("parquet"), 0600)
}

// makeZip builds an in-memory zip archive with the given entry names.
// Names ending in "/" become directory entries.
func makeZip(t *testing.T, names ...string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, name := range names {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("creating zip entry %s: %v", name, err)
		}
		if name[len(name)-1] == '/' {
			continue // directory entries carry no data
		}
		if _, err := f.Write([]byte("x")); err != nil {
			t.Fatalf("writing zip entry %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing zip: %v", err)
	}
	return buf.Bytes()
}
