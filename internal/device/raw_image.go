package device

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

// ErrPermissionDenied indicates the evidence source exists but cannot be
// opened with the current privileges (raw device nodes usually need root).
var ErrPermissionDenied = errors.New("permission denied opening evidence source")

// RawImage provides EvidenceSource access to a raw image file or device node.
type RawImage struct {
	path string
	file *os.File
	size uint64
}

// NewRawImage creates an unopened source for the given path.
func NewRawImage(path string) *RawImage {
	return &RawImage{path: path}
}

// Open opens the image and records its size. For device nodes where Stat
// reports zero, the size is established by seeking to the end.
func (r *RawImage) Open() error {
	file, err := os.Open(r.path)
	if err != nil {
		if os.IsPermission(err) {
			return errors.Wrapf(ErrPermissionDenied, "%s", r.path)
		}
		return errors.Wrapf(err, "failed to open evidence source %s", r.path)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return errors.Wrapf(err, "failed to stat evidence source %s", r.path)
	}

	size := stat.Size()
	if size == 0 {
		size, err = file.Seek(0, io.SeekEnd)
		if err != nil {
			file.Close()
			return errors.Wrapf(err, "failed to size device %s", r.path)
		}
	}

	r.file = file
	r.size = uint64(size)
	return nil
}

// ReadAt reads length bytes at the absolute offset. A read that crosses the
// end of the source returns the available prefix without error.
func (r *RawImage) ReadAt(offset uint64, length uint32) ([]byte, error) {
	if r.file == nil {
		return nil, errors.New("evidence source is not open")
	}
	if offset >= r.size {
		return nil, errors.Errorf("read at %d beyond source size %d", offset, r.size)
	}

	if remaining := r.size - offset; uint64(length) > remaining {
		length = uint32(remaining)
	}

	buf := make([]byte, length)
	n, err := r.file.ReadAt(buf, int64(offset))
	if err != nil && err != io.EOF {
		return nil, errors.Wrapf(err, "read failed at offset %d", offset)
	}
	return buf[:n], nil
}

// Size returns the total source size in bytes.
func (r *RawImage) Size() uint64 {
	return r.size
}

// Close releases the underlying file handle.
func (r *RawImage) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}
