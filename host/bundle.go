package host

// Bundle is a pre-configured set of related entry points, typically every
// entry point of one contract.
type Bundle interface {
	// EntryPoints returns a map of entry point names to implementations.
	EntryPoints() map[string]EntryPoint
}

// BundleOf wraps a fixed map of entry points.
func BundleOf(entryPoints map[string]EntryPoint) Bundle {
	return staticBundle(entryPoints)
}

type staticBundle map[string]EntryPoint

func (b staticBundle) EntryPoints() map[string]EntryPoint {
	return b
}

// compositeBundle combines multiple bundles into one.
type compositeBundle struct {
	bundles []Bundle
}

// Compose merges bundles. On a name clash the later bundle wins.
func Compose(bundles ...Bundle) Bundle {
	return &compositeBundle{bundles: bundles}
}

func (b *compositeBundle) EntryPoints() map[string]EntryPoint {
	result := make(map[string]EntryPoint)
	for _, bundle := range b.bundles {
		for name, ep := range bundle.EntryPoints() {
			result[name] = ep
		}
	}
	return result
}
