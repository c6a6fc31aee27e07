package serialization

import (
	"fmt"
	"sort"
	"strings"
)

// ValidateHeader checks the structural integrity of a parsed header against
// the actual data section size: tensor names, sizes consistent with shapes,
// offsets in bounds, and no overlapping sections.
func ValidateHeader(header *Header, dataSize int64) error {
	for _, meta := range header.Tensors {
		if meta.Name == "" {
			return fmt.Errorf("%w: empty name", ErrInvalidTensorName)
		}
		if len(meta.Name) > MaxTensorName {
			return fmt.Errorf("%w: %q", ErrTensorNameTooLong, meta.Name)
		}
		if strings.ContainsRune(meta.Name, 0) {
			return fmt.Errorf("%w: %q contains NUL", ErrInvalidTensorName, meta.Name)
		}
		if meta.Offset < 0 || meta.Size < 0 {
			return fmt.Errorf("%w: tensor %q", ErrNegativeOffset, meta.Name)
		}
		if meta.Offset+meta.Size > dataSize {
			return &ValidationError{
				Type:    "out_of_bounds",
				Tensor:  meta.Name,
				Details: fmt.Sprintf("offset %d + size %d exceeds data section size %d", meta.Offset, meta.Size, dataSize),
			}
		}

		elements := int64(1)
		for _, dim := range meta.Shape {
			if dim <= 0 {
				return &ValidationError{
					Type:    "invalid_shape",
					Tensor:  meta.Name,
					Details: fmt.Sprintf("non-positive dimension in shape %v", meta.Shape),
				}
			}
			elements *= int64(dim)
		}
		if meta.Size != elements*8 {
			return &ValidationError{
				Type:    "size_mismatch",
				Tensor:  meta.Name,
				Details: fmt.Sprintf("size %d does not match shape %v (%d float64 elements)", meta.Size, meta.Shape, elements),
			}
		}
	}

	// Overlap check over offset-sorted sections.
	sorted := make([]TensorMeta, len(header.Tensors))
	copy(sorted, header.Tensors)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Offset < sorted[j].Offset })
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if prev.Offset+prev.Size > cur.Offset {
			return &ValidationError{
				Type:    "offset_overlap",
				Tensor:  prev.Name,
				Tensor2: cur.Name,
				Details: fmt.Sprintf("section [%d, %d) overlaps offset %d", prev.Offset, prev.Offset+prev.Size, cur.Offset),
			}
		}
	}

	return nil
}
