// Package uim encodes and decodes the binary ink container, version 3.1.0.
//
// A container is a RIFF file of form type "UINK":
//
//	RIFF <size> UINK
//	  HEAD  version 3.1.0 and one descriptor per data chunk
//	  PRPS  model id and properties
//	  INPT  device and sensor channels
//	  BRSH  brushes
//	  INKD  strokes: spline, sensor samples, style
//	  INKS  stroke order and bounds
//
// Chunk payloads are protocol buffer messages in wire format. A chunk may
// be compressed (zip or lz4); compressed payloads are prefixed with their
// uncompressed length. Chunks with an odd size are followed by a pad byte.
package uim
