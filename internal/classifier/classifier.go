// Package classifier derives content features from a block's head sample.
// Classification is a pure function of the first 512 bytes.
package classifier

import (
	"bytes"
	"math"

	"github.com/blockscope/blockscope/internal/types"
)

// signature maps a magic-byte prefix to its file kind. Order matters: the
// first match wins. The prefixes are mutually distinct, so no overlap
// resolution is needed.
type signature struct {
	prefix []byte
	kind   types.FileKind
}

var signatures = []signature{
	{[]byte("\x89PNG"), types.FileKindPNG},
	{[]byte("\xFF\xD8\xFF"), types.FileKindJPEG},
	{[]byte("GIF8"), types.FileKindGIF},
	{[]byte("PK\x03\x04"), types.FileKindZIP},
	{[]byte("%PDF"), types.FileKindPDF},
	{[]byte("MZ"), types.FileKindEXE},
	{[]byte("\x7FELF"), types.FileKindELF},
	{[]byte("RIFF"), types.FileKindRIFF},
}

// Classify derives the feature set from a block's head sample. Samples longer
// than 512 bytes are truncated; shorter samples are classified as-is.
func Classify(head []byte) types.Features {
	if len(head) > types.SampleSize {
		head = head[:types.SampleSize]
	}

	return types.Features{
		IsZero:         isZero(head),
		Entropy:        Entropy(head),
		Magic:          DetectMagic(head),
		PrintableRatio: PrintableRatio(head),
	}
}

// Entropy computes the Shannon entropy of the sample over observed byte
// values, in bits per byte. An empty sample has entropy zero.
func Entropy(data []byte) float64 {
	if len(data) == 0 {
		return 0
	}

	var counts [256]int
	for _, b := range data {
		counts[b]++
	}

	entropy := 0.0
	total := float64(len(data))
	for _, count := range counts {
		if count == 0 {
			continue
		}
		p := float64(count) / total
		entropy -= p * math.Log2(p)
	}
	return entropy
}

// DetectMagic returns the first matching signature kind, or none.
func DetectMagic(data []byte) types.FileKind {
	for _, sig := range signatures {
		if bytes.HasPrefix(data, sig.prefix) {
			return sig.kind
		}
	}
	return types.FileKindNone
}

// PrintableRatio returns the fraction of bytes in the printable ASCII range
// [32, 126]. An empty sample has ratio zero.
func PrintableRatio(data []byte) float64 {
	if len(data) == 0 {
		return 0
	}
	printable := 0
	for _, b := range data {
		if b >= 32 && b <= 126 {
			printable++
		}
	}
	return float64(printable) / float64(len(data))
}

func isZero(data []byte) bool {
	for _, b := range data {
		if b != 0 {
			return false
		}
	}
	return true
}
