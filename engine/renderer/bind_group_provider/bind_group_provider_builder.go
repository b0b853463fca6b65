package bind_group_provider

import "github.com/cogentcore/webgpu/wgpu"

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithBuffer sets a uniform buffer for a specific binding index.
//
// Parameters:
//   - binding: the binding index for this buffer
//   - buf: the buffer to associate with this binding
//
// Returns:
//   - BindGroupProviderOption: a function that sets the buffer for the specified binding
func WithBuffer(binding int, buf *wgpu.Buffer) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.buffers[binding] = buf
	}
}

// WithAttributes seeds the provider with already published attributes.
//
// Parameters:
//   - attributes: the attributes to store
//
// Returns:
//   - BindGroupProviderOption: a function that stores the attributes on the provider
func WithAttributes(attributes ...Attribute) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		for _, a := range attributes {
			p.attributes[a.Key] = a
		}
	}
}
