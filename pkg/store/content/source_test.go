package content_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/treepack/pkg/store/content"
	"github.com/marmos91/treepack/pkg/store/content/memory"
	"github.com/marmos91/treepack/pkg/vtree"
)

func newMemoryStore(t *testing.T) *memory.MemoryContentStore {
	t.Helper()
	store, err := memory.NewMemoryContentStore(context.Background())
	require.NoError(t, err)
	return store
}

func TestStoreSource_ReadsThrough(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(t)

	id := content.ContentID("root/hello.txt")
	require.NoError(t, store.WriteContent(ctx, id, []byte("hello")))

	source := content.NewStoreSource(store, id, 5)
	assert.Equal(t, uint64(5), source.Size())

	rc, err := source.Open(ctx)
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)
}

func TestStoreSource_MissingContent(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(t)

	source := content.NewStoreSource(store, "root/ghost", 3)

	_, err := source.Open(ctx)
	assert.ErrorIs(t, err, content.ErrContentNotFound)
}

func TestStoreWriter_KeysByTreePath(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(t)

	write := content.NewStoreWriter(store)

	source, err := write(ctx, []string{"root", "sub"}, "file.bin", []byte{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), source.Size())

	// The bytes must be retrievable under the slash-joined path
	data, err := store.ReadContent(ctx, "root/sub/file.bin")
	require.NoError(t, err)
	defer data.Close()

	got, err := io.ReadAll(data)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, got)
}

// A full reconstruction into a store: every rebuilt file must read back
// through its store-backed source.
func TestStoreWriter_BacksReconstruction(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(t)

	root := vtree.NewFolder("root")
	sub := vtree.NewFolder("sub")
	require.NoError(t, root.Add(vtree.NewFile("a.txt", "", vtree.NewBytesSource([]byte("alpha")))))
	require.NoError(t, root.Add(sub))
	require.NoError(t, sub.Add(vtree.NewFile("b.txt", "", vtree.NewBytesSource(bytes.Repeat([]byte("b"), 300)))))

	meta, err := root.Metadata(ctx)
	require.NoError(t, err)

	parts, err := root.Parts(ctx, 128)
	require.NoError(t, err)

	rebuilt, err := vtree.FromParts(ctx, parts, meta, content.NewStoreWriter(store))
	require.NoError(t, err)

	files, err := rebuilt.Descendants(ctx, vtree.FilterFiles)
	require.NoError(t, err)
	require.Len(t, files, 2)

	for _, n := range files {
		file := n.(*vtree.VirtualFile)

		source, err := file.Source(ctx)
		require.NoError(t, err)

		rc, err := source.Open(ctx)
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)

		count, err := file.ByteCount(ctx)
		require.NoError(t, err)
		assert.Equal(t, count, uint64(len(data)), "file %s", file.Name())
	}

	// Store keys mirror the tree
	for _, id := range []content.ContentID{"root/a.txt", "root/sub/b.txt"} {
		exists, err := store.ContentExists(ctx, id)
		require.NoError(t, err)
		assert.True(t, exists, "expected %s in store", id)
	}
}
