package serialization

import "time"

// Format constants.
const (
	MagicBytes      = "SPAN"
	FormatVersion   = 1
	HeaderAlignment = 64   // Tensor data is aligned to 64 bytes.
	FixedHeaderSize = 64   // Fixed header size (0x40 bytes).
	ChecksumSize    = 32   // SHA-256 checksum size.
	ChecksumOffset  = 0x20 // Checksum offset in the fixed header.

	// MaxHeaderSize bounds the JSON header so a corrupted size field
	// cannot trigger a huge allocation.
	MaxHeaderSize = 100 * 1024 * 1024

	// MaxTensorName bounds tensor name length in the header.
	MaxTensorName = 256
)

// Flags for the .span format.
const (
	FlagHasMetadata uint32 = 1 << 0 // bit 0: custom metadata included
)

// Header is the JSON header of a .span file.
type Header struct {
	FormatVersion int               `json:"format_version"`
	SpanVersion   string            `json:"span_version"` // Library version that wrote the file.
	LayerType     string            `json:"layer_type"`   // e.g. "Convolution"
	CreatedAt     time.Time         `json:"created_at"`
	Layer         *LayerMeta        `json:"layer,omitempty"`
	Tensors       []TensorMeta      `json:"tensors"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// LayerMeta carries the configuration a layer needs to be reconstructed
// without a Connect call.
type LayerMeta struct {
	Filters    int    `json:"filters"`
	KernelH    int    `json:"kernel_h"`
	KernelW    int    `json:"kernel_w"`
	Stride     int    `json:"stride"`
	Padding    int    `json:"padding"`
	Activation string `json:"activation"`
	InputShape []int  `json:"input_shape"`
	OutShape   []int  `json:"out_shape"`
}

// TensorMeta describes one tensor section in the data area.
type TensorMeta struct {
	Name   string `json:"name"`
	Shape  []int  `json:"shape"`
	Offset int64  `json:"offset"` // Bytes from the start of the data section.
	Size   int64  `json:"size"`   // Bytes; always 8 × product(Shape).
}
