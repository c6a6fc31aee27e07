package serialization

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
)

// Reader reads a .span checkpoint. Open parses and validates the header
// eagerly, including the SHA-256 checksum of the data section, so a Reader
// in hand means the file is structurally sound.
type Reader struct {
	file       *os.File
	header     Header
	flags      uint32
	dataOffset int64
	dataSize   int64
	checksum   [32]byte
	closed     bool
}

// Open opens a .span file and validates its header and checksum.
func Open(path string) (*Reader, error) {
	//nolint:gosec // G304: checkpoint path comes from the caller by design.
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}

	r := &Reader{file: file}
	if err := r.parse(); err != nil {
		_ = file.Close()
		return nil, err
	}
	return r, nil
}

func (r *Reader) parse() error {
	fixed := make([]byte, FixedHeaderSize)
	if _, err := io.ReadFull(r.file, fixed); err != nil {
		return fmt.Errorf("reading fixed header: %w", err)
	}
	if string(fixed[0:4]) != MagicBytes {
		return ErrInvalidMagic
	}
	version := binary.LittleEndian.Uint32(fixed[4:8])
	if version != FormatVersion {
		return fmt.Errorf("%w: got %d, expected %d", ErrUnsupportedVersion, version, FormatVersion)
	}
	r.flags = binary.LittleEndian.Uint32(fixed[8:12])
	headerSize := binary.LittleEndian.Uint64(fixed[16:24])
	dataSize := binary.LittleEndian.Uint64(fixed[24:32])
	copy(r.checksum[:], fixed[ChecksumOffset:ChecksumOffset+ChecksumSize])

	if headerSize > MaxHeaderSize {
		return ErrHeaderTooLarge
	}

	headerBytes := make([]byte, headerSize)
	if _, err := io.ReadFull(r.file, headerBytes); err != nil {
		return fmt.Errorf("reading header JSON: %w", err)
	}
	if err := json.Unmarshal(headerBytes, &r.header); err != nil {
		return fmt.Errorf("parsing header JSON: %w", err)
	}

	currentPos := int64(FixedHeaderSize) + int64(headerSize)
	padding := (HeaderAlignment - (currentPos % HeaderAlignment)) % HeaderAlignment
	r.dataOffset = currentPos + padding

	info, err := r.file.Stat()
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}
	r.dataSize = info.Size() - r.dataOffset
	if r.dataSize < int64(dataSize) {
		return &ValidationError{
			Type:    "out_of_bounds",
			Details: fmt.Sprintf("data section truncated: header claims %d bytes, file has %d", dataSize, r.dataSize),
		}
	}
	r.dataSize = int64(dataSize)

	if err := ValidateHeader(&r.header, r.dataSize); err != nil {
		return fmt.Errorf("validating header: %w", err)
	}

	data := make([]byte, r.dataSize)
	if _, err := r.file.Seek(r.dataOffset, io.SeekStart); err != nil {
		return fmt.Errorf("seeking to data section: %w", err)
	}
	if _, err := io.ReadFull(r.file, data); err != nil {
		return fmt.Errorf("reading data section: %w", err)
	}
	return ValidateChecksum(ComputeChecksum(data), r.checksum)
}

// Header returns the parsed file header.
func (r *Reader) Header() Header {
	return r.header
}

// TensorNames returns the names of all tensor sections in file order.
func (r *Reader) TensorNames() []string {
	names := make([]string, len(r.header.Tensors))
	for i, meta := range r.header.Tensors {
		names[i] = meta.Name
	}
	return names
}

// Tensor reads a named tensor section, returning its values and shape.
func (r *Reader) Tensor(name string) (values []float64, shape []int, err error) {
	if r.closed {
		return nil, nil, ErrReaderClosed
	}

	var meta *TensorMeta
	for i := range r.header.Tensors {
		if r.header.Tensors[i].Name == name {
			meta = &r.header.Tensors[i]
			break
		}
	}
	if meta == nil {
		return nil, nil, fmt.Errorf("%w: %q", ErrTensorNotFound, name)
	}

	if _, err := r.file.Seek(r.dataOffset+meta.Offset, io.SeekStart); err != nil {
		return nil, nil, fmt.Errorf("seeking to tensor %q: %w", name, err)
	}
	buf := make([]byte, meta.Size)
	if _, err := io.ReadFull(r.file, buf); err != nil {
		return nil, nil, fmt.Errorf("reading tensor %q: %w", name, err)
	}

	values = make([]float64, meta.Size/8)
	for i := range values {
		values[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[i*8:]))
	}
	shape = make([]int, len(meta.Shape))
	copy(shape, meta.Shape)
	return values, shape, nil
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.file.Close()
}
