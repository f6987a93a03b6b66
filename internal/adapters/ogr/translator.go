// Package ogr invokes the GDAL ogr2ogr utility as the vector translation
// capability. The conversion itself (geometry validation, format
// negotiation, columnar encoding, compression) is entirely GDAL's job; this
// adapter only assembles the fixed argument vector and runs the process.
package ogr

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"github.com/jobrunner/tessera/internal/domain"
)

// Translator implements the VectorTranslator port by shelling out to
// ogr2ogr.
type Translator struct {
	binary  string
	timeout time.Duration
	logger  *slog.Logger
}

// Config holds translator configuration.
type Config struct {
	Binary  string        // Path to the ogr2ogr executable
	Timeout time.Duration // Per-invocation deadline, 0 = none
}

// NewTranslator creates a new ogr2ogr translator.
func NewTranslator(cfg Config, logger *slog.Logger) *Translator {
	if cfg.Binary == "" {
		cfg.Binary = "ogr2ogr"
	}
	return &Translator{
		binary:  cfg.Binary,
		timeout: cfg.Timeout,
		logger:  logger,
	}
}

// Translate runs one ogr2ogr invocation converting src into dest.
func (t *Translator) Translate(ctx context.Context, src string, dest string, opts domain.ConversionOptions) error {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	args := buildArgs(src, dest, opts)
	t.logger.Debug("running ogr2ogr", "binary", t.binary, "args", args)

	cmd := exec.CommandContext(ctx, t.binary, args...) //#nosec G204 -- binary comes from configuration, args are assembled locally
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Run(); err != nil {
		if msg := stderr.String(); msg != "" {
			return fmt.Errorf("ogr2ogr: %w: %s", err, msg)
		}
		return fmt.Errorf("ogr2ogr: %w", err)
	}

	t.logger.Debug("ogr2ogr finished", "dest", dest, "duration", time.Since(start))
	return nil
}

// buildArgs assembles the ogr2ogr argument vector for the given option
// record. Destination precedes source, matching ogr2ogr's calling
// convention.
func buildArgs(src, dest string, opts domain.ConversionOptions) []string {
	args := []string{"-f", opts.Format}

	for _, lco := range opts.LayerCreationOptions() {
		args = append(args, "-lco", lco)
	}

	if opts.Overwrite {
		args = append(args, "-overwrite")
	}
	if opts.MakeValid {
		args = append(args, "-makevalid")
	}
	if opts.AllowAllDims {
		args = append(args, "--config", "OGR_PARQUET_ALLOW_ALL_DIMS", "YES")
	}

	return append(args, dest, src)
}
