package serialization

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"time"
)

const spanVersion = "0.1.0"

// Writer accumulates a layer checkpoint in memory and writes it out as a
// single .span file on Close. Collecting everything first keeps the
// checksum computation a single pass over the final data section.
type Writer struct {
	path   string
	header Header
	data   []byte
	closed bool
}

// NewWriter creates a writer targeting path. Nothing is written until
// Close.
func NewWriter(path, layerType string) *Writer {
	return &Writer{
		path: path,
		header: Header{
			FormatVersion: FormatVersion,
			SpanVersion:   spanVersion,
			LayerType:     layerType,
			Tensors:       []TensorMeta{},
		},
	}
}

// SetLayerMeta attaches the layer configuration to the header.
func (w *Writer) SetLayerMeta(meta LayerMeta) {
	w.header.Layer = &meta
}

// SetMetadata attaches a custom string map to the header.
func (w *Writer) SetMetadata(metadata map[string]string) {
	w.header.Metadata = metadata
}

// AddTensor appends a named float64 tensor section. Values must contain
// exactly the product of shape elements.
func (w *Writer) AddTensor(name string, shape []int, values []float64) error {
	if w.closed {
		return ErrWriterClosed
	}

	elements := 1
	for _, dim := range shape {
		elements *= dim
	}
	if len(values) != elements {
		return &ValidationError{
			Type:    "size_mismatch",
			Tensor:  name,
			Details: fmt.Sprintf("%d values for shape %v (%d elements)", len(values), shape, elements),
		}
	}

	// Each section starts on an alignment boundary within the data section.
	if pad := (HeaderAlignment - int64(len(w.data))%HeaderAlignment) % HeaderAlignment; pad > 0 {
		w.data = append(w.data, make([]byte, pad)...)
	}

	offset := int64(len(w.data))
	buf := make([]byte, len(values)*8)
	for i, v := range values {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	w.data = append(w.data, buf...)

	shapeCopy := make([]int, len(shape))
	copy(shapeCopy, shape)
	w.header.Tensors = append(w.header.Tensors, TensorMeta{
		Name:   name,
		Shape:  shapeCopy,
		Offset: offset,
		Size:   int64(len(buf)),
	})
	return nil
}

// Close writes the accumulated checkpoint to disk. The writer cannot be
// reused afterwards.
func (w *Writer) Close() error {
	if w.closed {
		return ErrWriterClosed
	}
	w.closed = true

	w.header.CreatedAt = time.Now().UTC()
	headerJSON, err := json.Marshal(w.header)
	if err != nil {
		return fmt.Errorf("marshaling header: %w", err)
	}

	checksum := ComputeChecksum(w.data)

	fixed := make([]byte, FixedHeaderSize)
	copy(fixed[0:4], MagicBytes)
	binary.LittleEndian.PutUint32(fixed[4:8], uint32(FormatVersion))
	flags := uint32(0)
	if len(w.header.Metadata) > 0 {
		flags |= FlagHasMetadata
	}
	binary.LittleEndian.PutUint32(fixed[8:12], flags)
	// 0x0C-0x0F reserved, zero from make.
	binary.LittleEndian.PutUint64(fixed[16:24], uint64(len(headerJSON)))
	binary.LittleEndian.PutUint64(fixed[24:32], uint64(len(w.data)))
	copy(fixed[ChecksumOffset:ChecksumOffset+ChecksumSize], checksum[:])

	//nolint:gosec // G304: checkpoint path comes from the caller by design.
	file, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}

	write := func(b []byte) {
		if err != nil {
			return
		}
		_, err = file.Write(b)
	}

	write(fixed)
	write(headerJSON)

	currentPos := int64(FixedHeaderSize) + int64(len(headerJSON))
	padding := (HeaderAlignment - (currentPos % HeaderAlignment)) % HeaderAlignment
	if padding > 0 {
		write(make([]byte, padding))
	}
	write(w.data)

	if err != nil {
		_ = file.Close()
		return fmt.Errorf("writing checkpoint: %w", err)
	}
	return file.Close()
}
