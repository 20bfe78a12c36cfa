package paper

import (
	"math"
	"time"
)

// Sample returns a synthetic capture of a handwritten wave across an A5
// page, useful for trying the converter without a smart pad.
func Sample(created time.Time) *Document {
	const resolution = 2540 // units per inch, 0.01 mm
	doc := &Document{
		Header: Header{
			Magic:   Magic,
			Version: FormatVersion,
			Device: Device{
				Name:   "Sample Pad",
				Serial: "SAMPLE-0001",
				Model:  "paperink-sample",
			},
			Page:        Page{Width: 14800, Height: 21000, Resolution: resolution},
			Created:     created.UnixMilli(),
			MaxPressure: DefaultMaxPressure,
			Template:    Template{Name: "lined", Ruling: 800},
			Compression: "zstd",
		},
	}

	start := created.UnixMilli()
	for line := 0; line < 3; line++ {
		stroke := PenStroke{
			Start: start + int64(line)*1500,
			Color: 0x1A237EFF,
			Width: 40,
		}
		baseY := float64(3000 + line*2400)
		for i := 0; i < 60; i++ {
			phase := float64(i) / 59
			stroke.Samples = append(stroke.Samples, PenSample{
				X:   int32(2000 + phase*10000),
				Y:   int32(baseY + 500*math.Sin(phase*4*math.Pi)),
				T:   uint32(i * 8),
				P:   uint16(300 + 500*math.Sin(phase*math.Pi)),
				Alt: 600,
				Az:  int16(450 + i),
			})
		}
		doc.Strokes = append(doc.Strokes, stroke)
	}
	return doc
}
