package domain

import "strconv"

// ConversionOptions is the fixed option record handed to the vector
// translator. It is constant across invocations and never derived from the
// input archive.
type ConversionOptions struct {
	Format           string // Output driver name
	Compression      string // Block compression codec
	Edges            string // Edge interpretation for geometries
	GeometryEncoding string // Geometry storage encoding
	GeometryName     string // Name of the geometry column
	RowGroupSize     int    // Records per Parquet row group
	Overwrite        bool   // Replace an existing output file
	MakeValid        bool   // Repair invalid geometries during translation
	AllowAllDims     bool   // Permit XY, XYZ, XYM and XYZM geometries
}

// DefaultConversionOptions returns the option record used for every
// conversion: GeoParquet with Snappy compression, WKB geometry in a column
// named "geometry", 65536-row groups, overwrite enabled and validity repair
// on.
func DefaultConversionOptions() ConversionOptions {
	return ConversionOptions{
		Format:           "Parquet",
		Compression:      "SNAPPY",
		Edges:            "PLANAR",
		GeometryEncoding: "WKB",
		GeometryName:     "geometry",
		RowGroupSize:     65536,
		Overwrite:        true,
		MakeValid:        true,
		AllowAllDims:     true,
	}
}

// LayerCreationOptions returns the driver layer-creation options in the
// KEY=VALUE form the translator expects.
func (o ConversionOptions) LayerCreationOptions() []string {
	return []string{
		"COMPRESSION=" + o.Compression,
		"EDGES=" + o.Edges,
		"GEOMETRY_ENCODING=" + o.GeometryEncoding,
		"GEOMETRY_NAME=" + o.GeometryName,
		"ROW_GROUP_SIZE=" + strconv.Itoa(o.RowGroupSize),
	}
}
