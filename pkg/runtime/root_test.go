package runtime

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	vangoerrors "github.com/vango-dev/selectctx/internal/errors"
	"github.com/vango-dev/selectctx/pkg/vango"
	"github.com/vango-dev/selectctx/pkg/vdom"
)

func newTestRoot() *Root {
	return NewRoot(Config{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
}

// clickable finds the onclick handler of the element with the given test id.
func clickable(t *testing.T, r *Root, testID string) func() {
	t.Helper()
	var handler func()
	r.Walk(func(n *vdom.VNode) bool {
		if n.Props["data-testid"] == testID {
			handler, _ = vdom.Handler(n, "click").(func())
			return false
		}
		return true
	})
	if handler == nil {
		t.Fatalf("no clickable element %q", testID)
	}
	return handler
}

func TestMountRendersHTML(t *testing.T) {
	r := newTestRoot()
	child := vango.Func(func() *vdom.VNode {
		return vdom.Span(vdom.Text("child"))
	})
	app := vango.Func(func() *vdom.VNode {
		return vdom.Div(vdom.ID("app"), child)
	})

	if err := r.Mount(app); err != nil {
		t.Fatalf("Mount: %v", err)
	}

	html := r.HTML()
	if html != `<div id="app"><span>child</span></div>` {
		t.Errorf("HTML() = %q", html)
	}
	if got := r.Stats().Components; got != 2 {
		t.Errorf("Components = %d, want 2", got)
	}
}

func TestDispatchRerendersSubscribers(t *testing.T) {
	r := newTestRoot()

	renders := 0
	app := vango.Func(func() *vdom.VNode {
		renders++
		count := vango.NewSignal(0)
		return vdom.Button(
			vdom.TestID("inc"),
			vdom.OnClick(func() { count.Update(func(n int) int { return n + 1 }) }),
			vdom.Textf("%d", count.Get()),
		)
	})

	if err := r.Mount(app); err != nil {
		t.Fatal(err)
	}
	if err := r.Dispatch(clickable(t, r, "inc")); err != nil {
		t.Fatal(err)
	}
	if err := r.Dispatch(clickable(t, r, "inc")); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(r.HTML(), ">2<") {
		t.Errorf("expected count 2, got %s", r.HTML())
	}
	if renders != 3 {
		t.Errorf("renders = %d, want 3", renders)
	}
}

func TestPureChildSkipsParentRender(t *testing.T) {
	r := newTestRoot()

	plainRenders, pureRenders := 0, 0
	plain := vango.Func(func() *vdom.VNode {
		plainRenders++
		return vdom.Span(vdom.Text("plain"))
	})
	pure := vango.Pure(func() *vdom.VNode {
		pureRenders++
		return vdom.Span(vdom.Text("pure"))
	})

	app := vango.Func(func() *vdom.VNode {
		count := vango.NewSignal(0)
		return vdom.Div(
			vdom.Button(vdom.TestID("inc"), vdom.OnClick(func() { count.Set(count.Peek() + 1) })),
			vdom.Textf("%d", count.Get()),
			plain,
			pure,
		)
	})

	if err := r.Mount(app); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := r.Dispatch(clickable(t, r, "inc")); err != nil {
			t.Fatal(err)
		}
	}

	if plainRenders != 4 {
		t.Errorf("plain child renders = %d, want 4", plainRenders)
	}
	if pureRenders != 1 {
		t.Errorf("pure child renders = %d, want 1", pureRenders)
	}
	if !strings.Contains(r.HTML(), "pure") {
		t.Error("skipped pure child must keep its output")
	}
}

func TestChildStateSurvivesParentRender(t *testing.T) {
	r := newTestRoot()

	var childSignal *vango.Signal[string]
	child := func() vdom.Component {
		return vango.Func(func() *vdom.VNode {
			childSignal = vango.NewSignal("initial")
			return vdom.Span(vdom.Text(childSignal.Get()))
		})
	}

	app := vango.Func(func() *vdom.VNode {
		count := vango.NewSignal(0)
		return vdom.Div(
			vdom.Button(vdom.TestID("inc"), vdom.OnClick(func() { count.Set(count.Peek() + 1) })),
			child(),
		)
	})

	if err := r.Mount(app); err != nil {
		t.Fatal(err)
	}
	first := childSignal
	if err := r.Dispatch(func() { first.Set("changed") }); err != nil {
		t.Fatal(err)
	}
	if err := r.Dispatch(clickable(t, r, "inc")); err != nil {
		t.Fatal(err)
	}

	if childSignal != first {
		t.Error("child instance should be kept across parent renders")
	}
	if !strings.Contains(r.HTML(), "changed") {
		t.Errorf("child state lost: %s", r.HTML())
	}
}

func TestKeyedChildrenFollowTheirKeys(t *testing.T) {
	r := newTestRoot()

	mounts := map[string]int{}
	item := func(name string) vdom.Component {
		return vango.Func(func() *vdom.VNode {
			vango.UseEffect(func() vango.Cleanup {
				mounts[name]++
				return nil
			}, vango.On())
			return vdom.Li(vdom.Text(name))
		})
	}

	var order *vango.Signal[[]string]
	app := vango.Func(func() *vdom.VNode {
		order = vango.NewSignal([]string{"a", "b", "c"})
		var items []*vdom.VNode
		for _, name := range order.Get() {
			items = append(items, vdom.Keyed(name, item(name)))
		}
		return vdom.Ul(items)
	})

	if err := r.Mount(app); err != nil {
		t.Fatal(err)
	}
	if err := r.Dispatch(func() { order.Set([]string{"c", "a"}) }); err != nil {
		t.Fatal(err)
	}

	if mounts["a"] != 1 || mounts["c"] != 1 {
		t.Errorf("keyed children should not remount: %v", mounts)
	}
	if got := r.Stats().Components; got != 3 {
		t.Errorf("Components = %d, want 3 after removing b", got)
	}
	if html := r.HTML(); html != "<ul><li>c</li><li>a</li></ul>" {
		t.Errorf("HTML() = %q", html)
	}
}

func TestUnmountRunsCleanups(t *testing.T) {
	r := newTestRoot()

	cleaned := false
	app := vango.Func(func() *vdom.VNode {
		vango.UseLayoutEffect(func() vango.Cleanup {
			return func() { cleaned = true }
		}, vango.On())
		return vdom.Div()
	})

	if err := r.Mount(app); err != nil {
		t.Fatal(err)
	}
	r.Unmount()

	if !cleaned {
		t.Error("unmount should run effect cleanups")
	}
	if r.HTML() != "" {
		t.Error("unmounted root should render nothing")
	}
	if err := r.Flush(); !errors.Is(err, ErrNotMounted) {
		t.Errorf("Flush after Unmount = %v, want ErrNotMounted", err)
	}
}

func TestRenderLoopLimit(t *testing.T) {
	r := NewRoot(Config{
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		MaxPasses: 5,
	})

	app := vango.Func(func() *vdom.VNode {
		n := vango.NewSignal(0)
		v := n.Get()
		vango.UseLayoutEffect(func() vango.Cleanup {
			n.Set(v + 1)
			return nil
		}, nil)
		return vdom.Textf("%d", v)
	})

	err := r.Mount(app)
	if !errors.Is(err, vangoerrors.New("E103")) {
		t.Fatalf("expected E103, got %v", err)
	}
}

func TestPanicBecomesError(t *testing.T) {
	r := newTestRoot()

	boom := errors.New("boom")
	app := vango.Func(func() *vdom.VNode {
		explode := vango.NewSignal(false)
		if explode.Get() {
			panic(boom)
		}
		return vdom.Button(vdom.TestID("x"), vdom.OnClick(func() { explode.Set(true) }))
	})

	if err := r.Mount(app); err != nil {
		t.Fatal(err)
	}
	err := r.Dispatch(clickable(t, r, "x"))
	if !errors.Is(err, vangoerrors.New("E104")) {
		t.Fatalf("expected E104, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Error("E104 should wrap the panic value")
	}
}

func TestDispatchWithoutMount(t *testing.T) {
	r := newTestRoot()
	if err := r.Dispatch(func() {}); !errors.Is(err, ErrNotMounted) {
		t.Errorf("got %v, want ErrNotMounted", err)
	}
}

func TestInstancesAndRenderCounts(t *testing.T) {
	r := newTestRoot()
	leaf := vango.Func(func() *vdom.VNode { return vdom.Text("leaf") })
	app := vango.Func(func() *vdom.VNode { return vdom.Div(leaf, leaf) })

	if err := r.Mount(app); err != nil {
		t.Fatal(err)
	}

	insts := r.Instances()
	if len(insts) != 3 {
		t.Fatalf("instances = %d, want 3", len(insts))
	}
	for _, inst := range insts {
		if inst.RenderCount() != 1 {
			t.Errorf("%s rendered %d times", inst.InstanceID, inst.RenderCount())
		}
	}
	if insts[1].Parent != insts[0] {
		t.Error("child parent should be the root instance")
	}
	if r.Stats().Flushes != 1 {
		t.Errorf("Flushes = %d, want 1", r.Stats().Flushes)
	}
}

func TestUnchangedNodeSkipsParentRender(t *testing.T) {
	r := newTestRoot()

	childRenders := 0
	child := vdom.Node(vango.Func(func() *vdom.VNode {
		childRenders++
		return vdom.Span(vdom.Text("child"))
	}))

	wrapper := func(children ...any) vdom.Component {
		return vango.Func(func() *vdom.VNode {
			n := vango.NewSignal(0)
			return vdom.Div(
				vdom.Button(vdom.TestID("inc"), vdom.OnClick(func() { n.Set(n.Peek() + 1) })),
				vdom.Textf("%d", n.Get()),
				vdom.Fragment(children...),
			)
		})
	}

	if err := r.Mount(wrapper(child)); err != nil {
		t.Fatal(err)
	}
	if err := r.Dispatch(clickable(t, r, "inc")); err != nil {
		t.Fatal(err)
	}

	if childRenders != 1 {
		t.Errorf("child renders = %d, want 1", childRenders)
	}
	if !strings.Contains(r.HTML(), "<span>child</span>") {
		t.Errorf("HTML() = %q", r.HTML())
	}
}
