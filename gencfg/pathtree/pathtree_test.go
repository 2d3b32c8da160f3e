package pathtree

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplitPath(t *testing.T) {
	tests := []struct {
		path string
		want []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"a.b.c", []string{"a", "b", "c"}},
		{".pkg.Msg", []string{"pkg", "Msg"}},
		{"a..b", []string{"a", "b"}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, SplitPath(tt.path)); diff != "" {
			t.Errorf("SplitPath(%q) mismatch (-want +got):\n%s", tt.path, diff)
		}
	}
}

func TestInsertAndGet(t *testing.T) {
	tree := New[string]()
	tree.Insert("a.b", "ab")
	tree.Insert("a", "a")

	if v, ok := tree.Get("a.b"); !ok || v != "ab" {
		t.Errorf("Get(a.b) = (%q, %v)", v, ok)
	}
	if v, ok := tree.Get("a"); !ok || v != "a" {
		t.Errorf("Get(a) = (%q, %v)", v, ok)
	}
	if _, ok := tree.Get("a.b.c"); ok {
		t.Error("Get on a missing path should report absence")
	}
	if _, ok := tree.Get("b"); ok {
		t.Error("Get on a missing root child should report absence")
	}
}

func TestInsertReplaces(t *testing.T) {
	tree := New[string]()
	tree.Insert("a.b", "first")
	tree.Insert("a.b", "second")

	if v, _ := tree.Get("a.b"); v != "second" {
		t.Errorf("Get(a.b) = %q, want second", v)
	}
	if got := tree.ValuesOnPath("a.b"); len(got) != 1 {
		t.Errorf("ValuesOnPath should see one value, got %v", got)
	}
}

func TestValuesOnPathOrder(t *testing.T) {
	tree := New[string]()
	// Registered out of order on purpose; the walk must be root-first.
	tree.Insert("a.b.c", "leaf")
	tree.Insert("a", "root")
	tree.Insert("a.b", "mid")

	want := []string{"root", "mid", "leaf"}
	if diff := cmp.Diff(want, tree.ValuesOnPath("a.b.c")); diff != "" {
		t.Errorf("ValuesOnPath order mismatch (-want +got):\n%s", diff)
	}
}

func TestValuesOnPathStructuralNodes(t *testing.T) {
	tree := New[string]()
	// "a" and "a.b" exist only as intermediate nodes.
	tree.Insert("a.b.c", "leaf")

	if diff := cmp.Diff([]string{"leaf"}, tree.ValuesOnPath("a.b.c")); diff != "" {
		t.Errorf("structural nodes must contribute nothing:\n%s", diff)
	}
}

func TestValuesOnPathBeyondLeaf(t *testing.T) {
	tree := New[string]()
	tree.Insert("a", "a")

	// Deeper queries still collect every ancestor value.
	if diff := cmp.Diff([]string{"a"}, tree.ValuesOnPath("a.b.c.d")); diff != "" {
		t.Errorf("mismatch:\n%s", diff)
	}
}

func TestValuesOnPathEmpty(t *testing.T) {
	tree := New[string]()
	tree.Insert("a", "a")

	if got := tree.ValuesOnPath(""); len(got) != 0 {
		t.Errorf("empty path should yield nothing, got %v", got)
	}
	if got := tree.ValuesOnPath("x.y.z"); len(got) != 0 {
		t.Errorf("unpopulated path should yield nothing, got %v", got)
	}
}

func TestLeadingDotEquivalence(t *testing.T) {
	tree := New[string]()
	tree.Insert(".pkg.Msg", "m")

	if v, ok := tree.Get("pkg.Msg"); !ok || v != "m" {
		t.Errorf("leading-dot and bare paths should address the same node, got (%q, %v)", v, ok)
	}
}
