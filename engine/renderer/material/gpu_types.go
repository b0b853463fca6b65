package material

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUMaterialUniform is the GPU-aligned uniform block read by every generated material shader.
// Matches the WGSL Uniforms struct emitted by shader_node.Graph.Source exactly.
// Size: 96 bytes (mat4x4<f32> + two vec4<f32>, std140 aligned).
type GPUMaterialUniform struct {
	Transform    [16]float32 // offset 0: column-major model transform (64 bytes)
	Scale        [4]float32  // offset 64: xyz scale, w unused (16 bytes)
	DefaultColor [4]float32  // offset 80: RGBA color the color graph starts from (16 bytes)
}

// Size returns the size of the GPUMaterialUniform struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUMaterialUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUMaterialUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 96-byte buffer ready for GPU upload.
func (g *GPUMaterialUniform) Marshal() []byte {
	buf := make([]byte, 96)
	offset := 0
	put := func(values []float32) {
		for _, v := range values {
			binary.LittleEndian.PutUint32(buf[offset:offset+4], math.Float32bits(v))
			offset += 4
		}
	}
	put(g.Transform[:])
	put(g.Scale[:])
	put(g.DefaultColor[:])
	return buf
}
