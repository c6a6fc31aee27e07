package serialization

import (
	"errors"
	"testing"
)

func TestValidateHeaderAccepts(t *testing.T) {
	header := &Header{
		Tensors: []TensorMeta{
			{Name: "weights", Shape: []int{2, 3}, Offset: 0, Size: 48},
			{Name: "bias", Shape: []int{2}, Offset: 48, Size: 16},
		},
	}
	if err := ValidateHeader(header, 64); err != nil {
		t.Fatalf("ValidateHeader: %v", err)
	}
}

func TestValidateHeaderRejects(t *testing.T) {
	tests := []struct {
		name     string
		tensors  []TensorMeta
		dataSize int64
		wantType string
		wantErr  error
	}{
		{
			name:     "empty name",
			tensors:  []TensorMeta{{Name: "", Shape: []int{1}, Offset: 0, Size: 8}},
			dataSize: 8,
			wantErr:  ErrInvalidTensorName,
		},
		{
			name:     "negative offset",
			tensors:  []TensorMeta{{Name: "weights", Shape: []int{1}, Offset: -8, Size: 8}},
			dataSize: 8,
			wantErr:  ErrNegativeOffset,
		},
		{
			name:     "out of bounds",
			tensors:  []TensorMeta{{Name: "weights", Shape: []int{2}, Offset: 0, Size: 16}},
			dataSize: 8,
			wantType: "out_of_bounds",
		},
		{
			name:     "size mismatch",
			tensors:  []TensorMeta{{Name: "weights", Shape: []int{3}, Offset: 0, Size: 16}},
			dataSize: 16,
			wantType: "size_mismatch",
		},
		{
			name:     "zero dimension",
			tensors:  []TensorMeta{{Name: "weights", Shape: []int{0}, Offset: 0, Size: 0}},
			dataSize: 8,
			wantType: "invalid_shape",
		},
		{
			name: "overlap",
			tensors: []TensorMeta{
				{Name: "weights", Shape: []int{2}, Offset: 0, Size: 16},
				{Name: "bias", Shape: []int{1}, Offset: 8, Size: 8},
			},
			dataSize: 16,
			wantType: "offset_overlap",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHeader(&Header{Tensors: tt.tensors}, tt.dataSize)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
			if tt.wantType != "" {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("got %T, want *ValidationError", err)
				}
				if verr.Type != tt.wantType {
					t.Errorf("got type %q, want %q", verr.Type, tt.wantType)
				}
			}
		})
	}
}

func TestChecksum(t *testing.T) {
	a := ComputeChecksum([]byte("hello"))
	b := ComputeChecksum([]byte("hello"))
	c := ComputeChecksum([]byte("world"))

	if a != b {
		t.Error("checksum not deterministic")
	}
	if err := ValidateChecksum(a, b); err != nil {
		t.Errorf("ValidateChecksum(equal): %v", err)
	}
	if err := ValidateChecksum(a, c); !errors.Is(err, ErrChecksumMismatch) {
		t.Errorf("ValidateChecksum(different) = %v, want ErrChecksumMismatch", err)
	}
}
