package vtree

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildSampleTree returns root -> [a.txt(3), sub -> [b.bin(5), empty/], c(0)].
func buildSampleTree(t *testing.T) *VirtualFolder {
	t.Helper()

	root := NewFolder("root")
	sub := NewFolder("sub")
	empty := NewFolder("empty")

	require.NoError(t, root.Add(NewFile("a.txt", "text/plain", NewBytesSource([]byte("abc")))))
	require.NoError(t, root.Add(sub))
	require.NoError(t, sub.Add(NewFile("b.bin", "", NewBytesSource([]byte("12345")))))
	require.NoError(t, sub.Add(empty))
	require.NoError(t, root.Add(NewFile("c", "", NewBytesSource(nil))))

	return root
}

func TestMetadata_WireShape(t *testing.T) {
	ctx := context.Background()
	root := buildSampleTree(t)

	meta, err := root.Metadata(ctx)
	require.NoError(t, err)

	raw, err := json.Marshal(meta)
	require.NoError(t, err)

	// The wire shape is part of the interop contract: files carry
	// name+byteCount, folders carry name+children, and nothing else.
	// Empty folders keep an explicit empty array.
	expected := `{
		"name": "root",
		"children": [
			{"name": "a.txt", "byteCount": 3},
			{"name": "sub", "children": [
				{"name": "b.bin", "byteCount": 5},
				{"name": "empty", "children": []}
			]},
			{"name": "c", "byteCount": 0}
		]
	}`
	assert.JSONEq(t, expected, string(raw))
}

func TestMetadata_DecodeDiscriminatesOnChildren(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want MetadataKind
	}{
		{"file", `{"name":"x","byteCount":7}`, MetadataFile},
		{"folder", `{"name":"d","children":[]}`, MetadataFolder},
		{"folder with children", `{"name":"d","children":[{"name":"x","byteCount":1}]}`, MetadataFolder},
		{"file without byteCount", `{"name":"x"}`, MetadataFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Metadata
			require.NoError(t, json.Unmarshal([]byte(tt.in), &m))
			assert.Equal(t, tt.want, m.Kind)
			if tt.want == MetadataFolder {
				assert.NotNil(t, m.Children, "folder children must never be nil")
			}
		})
	}
}

func TestMetadata_RoundTrip(t *testing.T) {
	ctx := context.Background()
	root := buildSampleTree(t)

	meta, err := root.Metadata(ctx)
	require.NoError(t, err)

	// Push the skeleton through its wire form before rebuilding, so the
	// round trip covers the codec as well as the reconstruction.
	raw, err := json.Marshal(meta)
	require.NoError(t, err)

	var decoded Metadata
	require.NoError(t, json.Unmarshal(raw, &decoded))

	rebuilt, err := FromMetadata(ctx, &decoded)
	require.NoError(t, err)

	assertSameShape(t, ctx, root, rebuilt)
}

// assertSameShape verifies two trees have identical name/kind/byteCount
// structure in identical child order, ignoring content.
func assertSameShape(t *testing.T, ctx context.Context, want, got *VirtualFolder) {
	t.Helper()

	require.Equal(t, want.Name(), got.Name())
	require.Len(t, got.children, len(want.children), "child count under %q", want.Name())

	for i := range want.children {
		switch w := want.children[i].(type) {
		case *VirtualFile:
			g, ok := got.children[i].(*VirtualFile)
			require.True(t, ok, "child %d of %q: want file, got folder", i, want.Name())
			assert.Equal(t, w.Name(), g.Name())
			assert.Equal(t, w.byteCount, g.byteCount)
		case *VirtualFolder:
			g, ok := got.children[i].(*VirtualFolder)
			require.True(t, ok, "child %d of %q: want folder, got file", i, want.Name())
			assertSameShape(t, ctx, w, g)
		}
	}
}

func TestFromMetadata_RejectsFileRoot(t *testing.T) {
	ctx := context.Background()

	_, err := FromMetadata(ctx, &Metadata{Kind: MetadataFile, Name: "x", ByteCount: 1})
	assert.ErrorIs(t, err, ErrInvalidMetadata)

	_, err = FromMetadata(ctx, nil)
	assert.ErrorIs(t, err, ErrInvalidMetadata)
}

func TestFromMetadata_SkeletonFilesHaveNoContent(t *testing.T) {
	ctx := context.Background()

	meta := &Metadata{
		Kind: MetadataFolder,
		Name: "root",
		Children: []*Metadata{
			{Kind: MetadataFile, Name: "x", ByteCount: 9},
		},
	}

	root, err := FromMetadata(ctx, meta)
	require.NoError(t, err)

	file, ok := root.children[0].(*VirtualFile)
	require.True(t, ok)

	// Declared size survives, but there is no byte source yet.
	size, err := file.ByteCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(9), size)

	_, err = file.Source(ctx)
	assert.ErrorIs(t, err, ErrNoContent)
}
