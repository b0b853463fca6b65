package renderer

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithShaderCompiler replaces the WGSL compiler used by the headless backend.
// Defaults to naga.Compile.
//
// Parameters:
//   - compiler: the compiler to use
//
// Returns:
//   - RendererBuilderOption: a function that applies the compiler option to a renderer
func WithShaderCompiler(compiler ShaderCompiler) RendererBuilderOption {
	return func(r *renderer) {
		if compiler != nil {
			r.compiler = compiler
		}
	}
}

// WithDevice makes the WGPU backend use an existing device instead of requesting its own.
// The renderer does not release a device it did not create.
//
// Parameters:
//   - device: the device to use
//
// Returns:
//   - RendererBuilderOption: a function that applies the device option to a renderer
func WithDevice(device *wgpu.Device) RendererBuilderOption {
	return func(r *renderer) {
		r.device = device
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - RendererBuilderOption: a function that applies the force software renderer option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}
