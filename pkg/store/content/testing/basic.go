package testing

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/treepack/pkg/store/content"
)

// RunBasicTests executes all read-side ContentStore operation tests.
func (suite *StoreTestSuite) RunBasicTests(t *testing.T) {
	t.Run("ReadContent_NotFound", suite.testReadContentNotFound)
	t.Run("ReadContent_Success", suite.testReadContentSuccess)
	t.Run("ReadContent_EmptyContent", suite.testReadContentEmpty)
	t.Run("ReadContent_LargeContent", suite.testReadContentLarge)
	t.Run("GetContentSize_NotFound", suite.testGetContentSizeNotFound)
	t.Run("GetContentSize_Success", suite.testGetContentSizeSuccess)
	t.Run("ContentExists_NotFound", suite.testContentExistsNotFound)
	t.Run("ContentExists_Success", suite.testContentExistsSuccess)
}

func (suite *StoreTestSuite) testReadContentNotFound(t *testing.T) {
	store := suite.NewStore(t)

	id := generateTestID("nonexistent")
	_, err := store.ReadContent(testContext(), id)

	AssertErrorIs(t, content.ErrContentNotFound, err)
}

func (suite *StoreTestSuite) testReadContentSuccess(t *testing.T) {
	store := suite.NewStore(t)
	writable, ok := store.(content.WritableContentStore)
	if !ok {
		t.Skip("Store does not implement WritableContentStore")
	}

	id := generateTestID("read-success")
	testData := []byte("Hello, World!")

	mustWriteContent(t, writable, id, testData)

	reader, err := store.ReadContent(testContext(), id)
	require.NoError(t, err)
	defer func() { _ = reader.Close() }()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, testData, data)
}

func (suite *StoreTestSuite) testReadContentEmpty(t *testing.T) {
	store := suite.NewStore(t)
	writable, ok := store.(content.WritableContentStore)
	if !ok {
		t.Skip("Store does not implement WritableContentStore")
	}

	id := generateTestID("empty")
	mustWriteContent(t, writable, id, []byte{})

	data := mustReadContent(t, store, id)
	assert.Equal(t, 0, len(data))
}

func (suite *StoreTestSuite) testReadContentLarge(t *testing.T) {
	store := suite.NewStore(t)
	writable, ok := store.(content.WritableContentStore)
	if !ok {
		t.Skip("Store does not implement WritableContentStore")
	}

	id := generateTestID("large")
	testData := generateTestData(10 * 1024 * 1024)

	mustWriteContent(t, writable, id, testData)

	data := mustReadContent(t, store, id)
	assert.Equal(t, testData, data)
}

func (suite *StoreTestSuite) testGetContentSizeNotFound(t *testing.T) {
	store := suite.NewStore(t)

	id := generateTestID("nonexistent-size")
	_, err := store.GetContentSize(testContext(), id)

	AssertErrorIs(t, content.ErrContentNotFound, err)
}

func (suite *StoreTestSuite) testGetContentSizeSuccess(t *testing.T) {
	store := suite.NewStore(t)
	writable, ok := store.(content.WritableContentStore)
	if !ok {
		t.Skip("Store does not implement WritableContentStore")
	}

	id := generateTestID("size-success")
	testData := []byte("Test data for size")

	mustWriteContent(t, writable, id, testData)
	assertContentSize(t, store, id, uint64(len(testData)))
}

func (suite *StoreTestSuite) testContentExistsNotFound(t *testing.T) {
	store := suite.NewStore(t)

	id := generateTestID("nonexistent-exists")
	assertContentExists(t, store, id, false)
}

func (suite *StoreTestSuite) testContentExistsSuccess(t *testing.T) {
	store := suite.NewStore(t)
	writable, ok := store.(content.WritableContentStore)
	if !ok {
		t.Skip("Store does not implement WritableContentStore")
	}

	id := generateTestID("exists-success")
	mustWriteContent(t, writable, id, []byte("present"))

	assertContentExists(t, store, id, true)
}
