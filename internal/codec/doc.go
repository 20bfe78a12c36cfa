// Package codec contains the binary ink container codecs.
package codec
