// Package registry holds the semantic tables that turn the raw class tokens
// on a recovered component into concrete style classes: per-component
// defaults, named variants and named sizes.
//
// The component parser never consults these tables. It hands tokens over
// verbatim; resolution happens here, at render time, against a read-only
// registry.
package registry

// Component describes the style tables for one component name.
type Component struct {
	// Defaults are always applied, before any token resolution
	Defaults []string
	// Variants maps a variant token (primary, success, ...) to its classes
	Variants map[string][]string
	// Sizes maps a size token (sm, lg, ...) to its classes
	Sizes map[string][]string
}

// Registry is a read-only lookup from component names to style tables.
type Registry struct {
	components map[string]Component
}

func New(components map[string]Component) *Registry {
	return &Registry{components: components}
}

// Resolve expands the raw tokens of a component into final style classes:
// component defaults first, then each token in written order. A token naming
// a known variant or size expands to its classes; anything else (a literal
// `.class` already dot-stripped by the parser, or an opaque token the
// registry does not know) passes through verbatim.
//
// A `size="..."` attribute resolves against the size table the same way a
// size token does.
func (r *Registry) Resolve(name string, tokens []string, attributes map[string]string) []string {
	def := r.components[name]
	out := append([]string(nil), def.Defaults...)
	for _, tok := range tokens {
		if classes, ok := def.Variants[tok]; ok {
			out = append(out, classes...)
			continue
		}
		if classes, ok := def.Sizes[tok]; ok {
			out = append(out, classes...)
			continue
		}
		out = append(out, tok)
	}
	if size, ok := attributes["size"]; ok {
		if classes, ok := def.Sizes[size]; ok {
			out = append(out, classes...)
		}
	}
	return out
}

// Known reports whether the registry has tables for a component name.
func (r *Registry) Known(name string) bool {
	_, ok := r.components[name]
	return ok
}

// Default returns the built-in component tables.
func Default() *Registry {
	return New(map[string]Component{
		"card": {
			Defaults: []string{"td-card", "rounded-lg", "border", "border-gray-200", "bg-white", "p-6", "shadow-sm"},
			Variants: map[string][]string{
				"elevated": {"shadow-lg"},
				"bordered": {"border-2"},
				"flat":     {"shadow-none", "border-0"},
			},
			Sizes: map[string][]string{
				"sm": {"p-4"},
				"lg": {"p-8"},
			},
		},
		"alert": {
			Defaults: []string{"td-alert", "rounded-md", "border", "p-4"},
			Variants: map[string][]string{
				"primary": {"border-blue-300", "bg-blue-50", "text-blue-900"},
				"success": {"border-green-300", "bg-green-50", "text-green-900"},
				"warning": {"border-yellow-300", "bg-yellow-50", "text-yellow-900"},
				"error":   {"border-red-300", "bg-red-50", "text-red-900"},
			},
			Sizes: map[string][]string{
				"sm": {"p-2", "text-sm"},
				"lg": {"p-6", "text-lg"},
			},
		},
		"badge": {
			Defaults: []string{"td-badge", "inline-block", "rounded-full", "px-2", "py-0.5", "text-xs", "font-semibold"},
			Variants: map[string][]string{
				"primary": {"bg-blue-100", "text-blue-800"},
				"success": {"bg-green-100", "text-green-800"},
				"warning": {"bg-yellow-100", "text-yellow-800"},
				"error":   {"bg-red-100", "text-red-800"},
			},
		},
		"button-group": {
			Defaults: []string{"td-button-group", "inline-flex", "gap-2"},
		},
		"grid": {
			Defaults: []string{"td-grid", "grid", "gap-4"},
			Variants: map[string][]string{
				"2": {"grid-cols-2"},
				"3": {"grid-cols-3"},
				"4": {"grid-cols-4"},
			},
		},
		"tabs": {
			Defaults: []string{"td-tabs"},
		},
		"tab-panel": {
			Defaults: []string{"td-tab-panel", "p-4", "border", "border-t-0", "rounded-b-md"},
		},
		"tooltip": {
			Defaults: []string{"td-tooltip", "relative", "inline-block"},
		},
	})
}
