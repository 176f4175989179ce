package device

import "github.com/pkg/errors"

// MemorySource serves a byte slice through the EvidenceSource contract. Used
// for synthetic evidence images in tests and tooling.
type MemorySource struct {
	data []byte
}

// NewMemorySource wraps data as an evidence source.
func NewMemorySource(data []byte) *MemorySource {
	return &MemorySource{data: data}
}

func (m *MemorySource) Open() error { return nil }

func (m *MemorySource) ReadAt(offset uint64, length uint32) ([]byte, error) {
	if offset >= uint64(len(m.data)) {
		return nil, errors.Errorf("read at %d beyond source size %d", offset, len(m.data))
	}
	end := offset + uint64(length)
	if end > uint64(len(m.data)) {
		end = uint64(len(m.data))
	}
	buf := make([]byte, end-offset)
	copy(buf, m.data[offset:end])
	return buf, nil
}

func (m *MemorySource) Size() uint64 { return uint64(len(m.data)) }

func (m *MemorySource) Close() error { return nil }
