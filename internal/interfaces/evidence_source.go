package interfaces

// EvidenceSource is the single contract through which all analysis reads the
// evidence image. Implementations wrap a raw image file, a device node, or an
// acquired evidence container; the engine never sees anything but offsets and
// bytes.
type EvidenceSource interface {
	// Open prepares the source for reading. Permission failures are
	// distinguished from generic open failures so the caller can report
	// them accurately.
	Open() error

	// ReadAt reads length bytes starting at the absolute byte offset.
	// A short read at the end of the source returns the available bytes
	// without error; reads entirely past the end return an error.
	ReadAt(offset uint64, length uint32) ([]byte, error)

	// Size returns the total size of the evidence source in bytes.
	Size() uint64

	// Close releases the underlying handle.
	Close() error
}
