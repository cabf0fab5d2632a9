package vdom

import "fmt"

// Text creates a text node.
func Text(content string) *VNode {
	return &VNode{
		Kind: KindText,
		Text: content,
	}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

// Raw creates an unescaped HTML node.
// Use with caution - can lead to XSS if content is user-provided.
func Raw(html string) *VNode {
	return &VNode{
		Kind: KindRaw,
		Text: html,
	}
}

// Fragment groups children without a wrapper element.
func Fragment(children ...any) *VNode {
	node := &VNode{
		Kind:     KindFragment,
		Children: make([]*VNode, 0, len(children)),
	}
	node.Children = appendChildren(node.Children, children)
	return node
}

// appendChildren converts child arguments into nodes.
// Accepts nil, *VNode, []*VNode, string and Component.
func appendChildren(dst []*VNode, children []any) []*VNode {
	for _, child := range children {
		switch v := child.(type) {
		case nil:
			continue
		case *VNode:
			if v != nil {
				dst = append(dst, v)
			}
		case []*VNode:
			for _, c := range v {
				if c != nil {
					dst = append(dst, c)
				}
			}
		case string:
			dst = append(dst, Text(v))
		case Component:
			dst = append(dst, &VNode{
				Kind: KindComponent,
				Comp: v,
			})
		}
	}
	return dst
}

// If returns the node if condition is true, nil otherwise.
func If(condition bool, node *VNode) *VNode {
	if condition {
		return node
	}
	return nil
}

// Range maps a slice to VNodes.
func Range[T any](items []T, fn func(item T, index int) *VNode) []*VNode {
	result := make([]*VNode, 0, len(items))
	for i, item := range items {
		node := fn(item, i)
		if node != nil {
			result = append(result, node)
		}
	}
	return result
}

// Key creates a key attribute for reconciliation.
// The key is converted to a string using fmt.Sprintf.
func Key(key any) Attr {
	return attr("key", fmt.Sprintf("%v", key))
}

// Node wraps a component in a component node. A node built once and passed
// down unchanged through a parent's renders does not re-render with that
// parent.
func Node(c Component) *VNode {
	return &VNode{Kind: KindComponent, Comp: c}
}

// Keyed wraps a component in a component node carrying a reconciliation key.
// Keyed children keep their instance when siblings are inserted or removed.
func Keyed(key any, c Component) *VNode {
	return &VNode{
		Kind: KindComponent,
		Comp: c,
		Key:  fmt.Sprintf("%v", key),
	}
}
