// Package paper reads paper captures: CBOR documents holding the page
// geometry, an optional template and the pen samples recorded by a smart
// pad.
//
// # Container
//
// The top-level CBOR map carries the header fields and a body:
//
//	magic        "PAPER"
//	version      1
//	device       {name, serial, model}
//	page         {width, height, resolution}   device units, units per inch
//	created      capture time, Unix milliseconds
//	max_pressure full-scale pressure value (default 1023)
//	template     {name, image (PNG), ruling}   all optional
//	compression  "none", "zstd" or "lz4"
//	body_size    uncompressed body length
//	body         compressed CBOR array of pen strokes
//
// Each pen stroke holds its start time, colour, width and samples of
// x, y (device units), t (ms since stroke start), p (raw pressure),
// alt and az (tenths of a degree).
//
// # Units
//
// The parser converts coordinates and widths to device independent pixels
// (1/96 inch), pressure to 0..1, angles to radians and timestamps to
// absolute milliseconds.
package paper
