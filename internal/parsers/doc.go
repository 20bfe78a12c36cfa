// Package parsers provides implementations of the PaperParser interface.
// Each parser knows how to turn one capture format into an ink model
// and a template image.
package parsers
