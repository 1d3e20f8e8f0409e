package pack

import (
	"bytes"
	"context"
	"io"
	"testing"

	xdr "github.com/rasky/go-xdr/xdr2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/treepack/pkg/vtree"
)

func sampleTree(t *testing.T) (*vtree.VirtualFolder, map[string][]byte) {
	t.Helper()

	content := map[string][]byte{
		"notes.txt":  []byte("remember the milk"),
		"big.bin":    bytes.Repeat([]byte{0xAB, 0xCD}, 700),
		"empty.dat":  {},
		"sub/inner":  []byte("nested"),
		"sub/other":  bytes.Repeat([]byte("x"), 63),
	}

	root := vtree.NewFolder("root")
	sub := vtree.NewFolder("sub")

	require.NoError(t, root.Add(vtree.NewFile("notes.txt", "text/plain", vtree.NewBytesSource(content["notes.txt"]))))
	require.NoError(t, root.Add(vtree.NewFile("big.bin", "", vtree.NewBytesSource(content["big.bin"]))))
	require.NoError(t, root.Add(vtree.NewFile("empty.dat", "", vtree.NewBytesSource(content["empty.dat"]))))
	require.NoError(t, root.Add(sub))
	require.NoError(t, sub.Add(vtree.NewFile("inner", "", vtree.NewBytesSource(content["sub/inner"]))))
	require.NoError(t, sub.Add(vtree.NewFile("other", "", vtree.NewBytesSource(content["sub/other"]))))

	return root, content
}

func readAll(t *testing.T, ctx context.Context, f *vtree.VirtualFile) []byte {
	t.Helper()
	source, err := f.Source(ctx)
	require.NoError(t, err)
	rc, err := source.Open(ctx)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	return data
}

func TestPackUnpack_RoundTrip(t *testing.T) {
	ctx := context.Background()
	root, content := sampleTree(t)

	for _, partSize := range []uint64{1, 64, 4096} {
		var buf bytes.Buffer
		require.NoError(t, Pack(ctx, &buf, root, partSize))

		rebuilt, err := Unpack(ctx, &buf, vtree.MemoryWriter())
		require.NoError(t, err, "part size %d", partSize)

		files, err := rebuilt.Descendants(ctx, vtree.FilterFiles)
		require.NoError(t, err)
		require.Len(t, files, len(content))

		seen := map[string][]byte{}
		for _, n := range files {
			f := n.(*vtree.VirtualFile)
			key := f.Name()
			if f.Parent() != rebuilt {
				key = f.Parent().Name() + "/" + key
			}
			seen[key] = readAll(t, ctx, f)
		}
		for path, want := range content {
			assert.Equal(t, want, seen[path], "path %s", path)
		}
	}
}

func TestReader_HeaderExposesSkeletonAndPartSize(t *testing.T) {
	ctx := context.Background()
	root, _ := sampleTree(t)

	var buf bytes.Buffer
	require.NoError(t, Pack(ctx, &buf, root, 128))

	r, err := NewReader(&buf)
	require.NoError(t, err)

	assert.Equal(t, uint64(128), r.PartSize())
	require.NotNil(t, r.Skeleton())
	assert.Equal(t, "root", r.Skeleton().Name)
	assert.Equal(t, vtree.MetadataFolder, r.Skeleton().Kind)
}

func TestReader_EOFIsSticky(t *testing.T) {
	ctx := context.Background()
	root := vtree.NewFolder("root")

	var buf bytes.Buffer
	require.NoError(t, Pack(ctx, &buf, root, 16))

	r, err := NewReader(&buf)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := r.Next(ctx)
		assert.ErrorIs(t, err, io.EOF)
	}
}

func TestNewReader_RejectsBadMagic(t *testing.T) {
	var buf bytes.Buffer
	hdr := header{Magic: 0xDEADBEEF, Version: Version, PartSize: 16, Skeleton: []byte("{}")}
	_, err := xdr.Marshal(&buf, &hdr)
	require.NoError(t, err)

	_, err = NewReader(&buf)
	assert.ErrorIs(t, err, ErrBadMagic)
}

func TestNewReader_RejectsUnknownVersion(t *testing.T) {
	var buf bytes.Buffer
	hdr := header{Magic: Magic, Version: Version + 1, PartSize: 16, Skeleton: []byte("{}")}
	_, err := xdr.Marshal(&buf, &hdr)
	require.NoError(t, err)

	_, err = NewReader(&buf)
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestNewReader_RejectsZeroPartSize(t *testing.T) {
	var buf bytes.Buffer
	hdr := header{Magic: Magic, Version: Version, PartSize: 0, Skeleton: []byte(`{"name":"r","children":[]}`)}
	_, err := xdr.Marshal(&buf, &hdr)
	require.NoError(t, err)

	_, err = NewReader(&buf)
	assert.ErrorIs(t, err, ErrBadHeader)
}

func TestNewReader_RejectsTruncatedStream(t *testing.T) {
	ctx := context.Background()
	root, _ := sampleTree(t)

	var buf bytes.Buffer
	require.NoError(t, Pack(ctx, &buf, root, 64))

	cut := buf.Bytes()[:buf.Len()/2]
	_, err := Unpack(ctx, bytes.NewReader(cut), vtree.MemoryWriter())
	assert.Error(t, err)
}

func TestPack_Cancelled(t *testing.T) {
	root, _ := sampleTree(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := Pack(ctx, &buf, root, 64)
	assert.ErrorIs(t, err, context.Canceled)
}
