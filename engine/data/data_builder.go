package data

type pendingComponent struct {
	name   string
	values []float32
}

// DataBuilderOption is a function that configures a field during construction.
type DataBuilderOption func(*data)

// WithComponent adds a named component to the field. Components keep the order they are added in.
// The values slice is not copied.
//
// Parameters:
//   - name: the component name
//   - values: one value per vertex
//
// Returns:
//   - DataBuilderOption: a function that adds the component to a field
func WithComponent(name string, values []float32) DataBuilderOption {
	return func(d *data) {
		d.pending = append(d.pending, pendingComponent{name: name, values: values})
	}
}
