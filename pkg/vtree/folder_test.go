package vtree

import (
	"context"
	"errors"
	"io"
	"testing"
)

func testFile(t *testing.T, name string, size int) *VirtualFile {
	t.Helper()
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i % 251)
	}
	return NewFile(name, "application/octet-stream", NewBytesSource(data))
}

func TestAdd_SelfParent(t *testing.T) {
	f := NewFolder("root")

	err := f.Add(f)
	if err == nil {
		t.Fatal("Add(self) succeeded, want structural error")
	}

	se, ok := IsStructural(err)
	if !ok {
		t.Fatalf("Add(self) error = %v, want StructuralError", err)
	}
	if se.Code != CodeSelfParent {
		t.Errorf("Add(self) code = %v, want %v", se.Code, CodeSelfParent)
	}

	// The folder must be left unchanged.
	if len(f.children) != 0 {
		t.Errorf("Add(self) mutated children, len = %d", len(f.children))
	}
}

func TestAdd_CyclePrevention(t *testing.T) {
	a := NewFolder("a")
	b := NewFolder("b")

	if err := a.Add(b); err != nil {
		t.Fatalf("a.Add(b) failed: %v", err)
	}

	err := b.Add(a)
	if err == nil {
		t.Fatal("b.Add(a) succeeded, want cycle error")
	}
	se, ok := IsStructural(err)
	if !ok || se.Code != CodeCycle {
		t.Fatalf("b.Add(a) error = %v, want cycle StructuralError", err)
	}

	// Tree unchanged: a still owns b, b owns nothing.
	if !a.Has(b) || b.Parent() != a {
		t.Error("cycle rejection modified the a-b edge")
	}
	if len(b.children) != 0 {
		t.Errorf("cycle rejection left %d children under b", len(b.children))
	}
}

func TestAdd_DeepCyclePrevention(t *testing.T) {
	a := NewFolder("a")
	b := NewFolder("b")
	c := NewFolder("c")

	if err := a.Add(b); err != nil {
		t.Fatalf("a.Add(b): %v", err)
	}
	if err := b.Add(c); err != nil {
		t.Fatalf("b.Add(c): %v", err)
	}

	err := c.Add(a)
	if err == nil {
		t.Fatal("c.Add(a) succeeded, want cycle error")
	}
	if se, ok := IsStructural(err); !ok || se.Code != CodeCycle {
		t.Fatalf("c.Add(a) error = %v, want cycle StructuralError", err)
	}
}

func TestAdd_AlreadyChild(t *testing.T) {
	f := NewFolder("root")
	file := testFile(t, "x.bin", 4)

	if err := f.Add(file); err != nil {
		t.Fatalf("first Add failed: %v", err)
	}

	err := f.Add(file)
	if se, ok := IsStructural(err); !ok || se.Code != CodeAlreadyChild {
		t.Fatalf("second Add error = %v, want already-child StructuralError", err)
	}
	if len(f.children) != 1 {
		t.Errorf("second Add duplicated the child, len = %d", len(f.children))
	}
}

func TestAdd_ReparentMovesNotDuplicates(t *testing.T) {
	a := NewFolder("a")
	b := NewFolder("b")
	file := testFile(t, "x.bin", 4)

	if err := a.Add(file); err != nil {
		t.Fatalf("a.Add: %v", err)
	}
	if err := b.Add(file); err != nil {
		t.Fatalf("b.Add: %v", err)
	}

	if a.Has(file) {
		t.Error("file still reported as child of a after reparent")
	}
	if !b.Has(file) {
		t.Error("file not reported as child of b after reparent")
	}
	if file.Parent() != b {
		t.Error("file parent pointer not updated to b")
	}
	if len(a.children) != 0 {
		t.Errorf("a still holds %d children", len(a.children))
	}
}

func TestRemove_IdentityNotName(t *testing.T) {
	f := NewFolder("root")
	first := testFile(t, "same-name", 1)
	second := testFile(t, "same-name", 2)

	if err := f.Add(first); err != nil {
		t.Fatalf("Add first: %v", err)
	}
	if err := f.Add(second); err != nil {
		t.Fatalf("Add second: %v", err)
	}

	// Removing the second must not touch the first, despite equal names.
	if !f.Remove(second) {
		t.Fatal("Remove(second) = false, want true")
	}
	if !f.Has(first) {
		t.Error("Remove by identity removed the wrong node")
	}
	if second.Parent() != nil {
		t.Error("removed node still has a parent pointer")
	}

	// Removing a non-child is a structural no-op.
	if f.Remove(second) {
		t.Error("Remove(non-child) = true, want false")
	}
}

func TestByteCount_MatchesDescendantSum(t *testing.T) {
	ctx := context.Background()

	root := NewFolder("root")
	sub := NewFolder("sub")
	deep := NewFolder("deep")

	sizes := []int{0, 3, 1000, 1}
	files := []*VirtualFile{
		testFile(t, "a", sizes[0]),
		testFile(t, "b", sizes[1]),
		testFile(t, "c", sizes[2]),
		testFile(t, "d", sizes[3]),
	}

	mustAdd := func(f *VirtualFolder, n Node) {
		t.Helper()
		if err := f.Add(n); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	mustAdd(root, files[0])
	mustAdd(root, sub)
	mustAdd(sub, files[1])
	mustAdd(sub, deep)
	mustAdd(deep, files[2])
	mustAdd(root, files[3])

	total, err := root.ByteCount(ctx)
	if err != nil {
		t.Fatalf("ByteCount: %v", err)
	}

	descendants, err := root.Descendants(ctx, FilterFiles)
	if err != nil {
		t.Fatalf("Descendants: %v", err)
	}

	var sum uint64
	for _, d := range descendants {
		n, err := d.ByteCount(ctx)
		if err != nil {
			t.Fatalf("file ByteCount: %v", err)
		}
		sum += n
	}

	if total != sum {
		t.Errorf("folder ByteCount = %d, descendant sum = %d", total, sum)
	}
	if total != 1004 {
		t.Errorf("folder ByteCount = %d, want 1004", total)
	}
}

func TestCount(t *testing.T) {
	ctx := context.Background()

	root := NewFolder("root")
	sub := NewFolder("sub")
	empty := NewFolder("empty")

	if err := root.Add(sub); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := sub.Add(empty); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := root.Add(testFile(t, "a", 1)); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := sub.Add(testFile(t, "b", 1)); err != nil {
		t.Fatalf("Add: %v", err)
	}

	files, folders, err := root.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if files != 2 || folders != 2 {
		t.Errorf("Count = (%d, %d), want (2, 2)", files, folders)
	}
}

func TestCount_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	root := NewFolder("root")
	if err := root.Add(testFile(t, "a", 1)); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if _, _, err := root.Count(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Count on cancelled context = %v, want context.Canceled", err)
	}
}

func TestChildren_Filter(t *testing.T) {
	ctx := context.Background()

	root := NewFolder("root")
	sub := NewFolder("sub")
	file := testFile(t, "a", 1)

	if err := root.Add(file); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := root.Add(sub); err != nil {
		t.Fatalf("Add: %v", err)
	}

	tests := []struct {
		name   string
		filter Filter
		want   []Node
	}{
		{"all", FilterAll, []Node{file, sub}},
		{"files", FilterFiles, []Node{file}},
		{"folders", FilterFolders, []Node{sub}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it, err := root.Children(ctx, tt.filter)
			if err != nil {
				t.Fatalf("Children: %v", err)
			}

			var got []Node
			for {
				n, err := it.Next(ctx)
				if err == io.EOF {
					break
				}
				if err != nil {
					t.Fatalf("Next: %v", err)
				}
				got = append(got, n)
			}

			if len(got) != len(tt.want) {
				t.Fatalf("yielded %d nodes, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("node %d = %v, want %v", i, got[i].Name(), tt.want[i].Name())
				}
			}
		})
	}
}

func TestChildren_CancelMidIteration(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	root := NewFolder("root")
	for _, name := range []string{"a", "b", "c"} {
		if err := root.Add(testFile(t, name, 1)); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}

	it, err := root.Children(ctx, FilterAll)
	if err != nil {
		t.Fatalf("Children: %v", err)
	}

	if _, err := it.Next(ctx); err != nil {
		t.Fatalf("first Next: %v", err)
	}

	cancel()

	if _, err := it.Next(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Next after cancel = %v, want context.Canceled", err)
	}
}

func TestIsAncestorOf(t *testing.T) {
	a := NewFolder("a")
	b := NewFolder("b")
	file := testFile(t, "f", 1)

	if err := a.Add(b); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := b.Add(file); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if !a.IsAncestorOf(file) {
		t.Error("a.IsAncestorOf(file) = false, want true")
	}
	if !a.IsAncestorOf(b) {
		t.Error("a.IsAncestorOf(b) = false, want true")
	}
	if !a.IsAncestorOf(a) {
		t.Error("a.IsAncestorOf(a) = false, want true (a node is its own ancestor)")
	}
	if b.IsAncestorOf(a) {
		t.Error("b.IsAncestorOf(a) = true, want false")
	}
}
