package vdom

import "testing"

func TestCreateElementArguments(t *testing.T) {
	comp := Func(func() *VNode { return nil })
	clicked := false

	node := Div(
		nil,
		Class("card", "wide"),
		[]Attr{ID("main"), TestID("box")},
		Key("k1"),
		OnClick(func() { clicked = true }),
		"hello",
		Span(),
		[]*VNode{P(), nil},
		comp,
	)

	if node.Tag != "div" || node.Kind != KindElement {
		t.Fatalf("unexpected node %+v", node)
	}
	if node.Props["class"] != "card wide" {
		t.Errorf("class = %v", node.Props["class"])
	}
	if node.Props["id"] != "main" || node.Props["data-testid"] != "box" {
		t.Errorf("attrs = %v", node.Props)
	}
	if node.Key != "k1" {
		t.Errorf("Key = %q, want k1", node.Key)
	}
	if _, ok := node.Props["key"]; ok {
		t.Error("key should not be stored as a prop")
	}

	if len(node.Children) != 4 {
		t.Fatalf("children = %d, want 4", len(node.Children))
	}
	if node.Children[0].Kind != KindText || node.Children[0].Text != "hello" {
		t.Errorf("child 0 = %+v", node.Children[0])
	}
	if node.Children[3].Kind != KindComponent || node.Children[3].Comp != comp {
		t.Errorf("child 3 = %+v", node.Children[3])
	}

	h, ok := Handler(node, "click").(func())
	if !ok {
		t.Fatal("click handler not registered")
	}
	h()
	if !clicked {
		t.Error("handler did not run")
	}
}

func TestFragmentAndKeyed(t *testing.T) {
	comp := Func(func() *VNode { return nil })
	frag := Fragment(nil, "a", Span(), comp, []*VNode{Div()})
	if frag.Kind != KindFragment || len(frag.Children) != 4 {
		t.Fatalf("fragment = %+v", frag)
	}

	if n := Node(comp); n.Kind != KindComponent || n.Comp != comp || n.Key != "" {
		t.Errorf("Node = %+v", n)
	}

	keyed := Keyed(7, comp)
	if keyed.Kind != KindComponent || keyed.Key != "7" || keyed.Comp != comp {
		t.Errorf("Keyed = %+v", keyed)
	}
}

func TestVoidElements(t *testing.T) {
	if !IsVoidElement("input") || IsVoidElement("div") {
		t.Error("IsVoidElement misclassified")
	}
}

func TestRangeSkipsNil(t *testing.T) {
	nodes := Range([]int{1, 2, 3}, func(n, _ int) *VNode {
		return If(n != 2, Textf("%d", n))
	})
	if len(nodes) != 2 || nodes[1].Text != "3" {
		t.Errorf("Range = %+v", nodes)
	}
}
