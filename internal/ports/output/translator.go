package output

import (
	"context"

	"github.com/jobrunner/tessera/internal/domain"
)

// VectorTranslator defines the secondary port for the external geospatial
// translation capability. It is a black-box synchronous call: no retry,
// streaming or partial-result handling is layered on top of it.
type VectorTranslator interface {
	// Translate converts the data at src (a GDAL virtual-filesystem path)
	// into dest using the given fixed option record.
	Translate(ctx context.Context, src string, dest string, opts domain.ConversionOptions) error
}
