// Package serialization implements the .span binary container for layer
// checkpoints.
//
// File layout:
//
//	0x00-0x03  magic bytes "SPAN"
//	0x04-0x07  format version (uint32, little-endian)
//	0x08-0x0B  flags (uint32)
//	0x0C-0x0F  reserved
//	0x10-0x17  JSON header size (uint64)
//	0x18-0x1F  data section size (uint64)
//	0x20-0x3F  SHA-256 checksum of the data section
//	0x40-...   JSON header (Header struct)
//	...        padding to a 64-byte boundary
//	...        tensor data (float64, little-endian; every tensor section
//	           starts on a 64-byte boundary within the data section)
//
// All tensor values are stored as little-endian float64. The JSON header
// carries the layer configuration needed to reconstruct a layer without
// re-deriving shapes, plus per-tensor name/shape/offset/size metadata.
package serialization
