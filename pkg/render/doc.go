// Package render turns VNode trees into HTML.
//
// The runtime uses it to expose the current markup of a mounted tree: each
// component node is resolved through a Resolver to the output its mounted
// instance last rendered, so rendering never re-runs component code.
//
//	html, err := render.RenderToString(tree, root)
//
// Without a resolver, components are rendered by calling Render directly,
// which is enough for static trees in tests.
package render
