package testing

import (
	"testing"

	"github.com/marmos91/treepack/pkg/store/content"
)

// RunWriteTests executes all WritableContentStore operation tests.
func (suite *StoreTestSuite) RunWriteTests(t *testing.T) {
	t.Run("WriteContent_Basic", suite.testWriteContentBasic)
	t.Run("WriteContent_Overwrite", suite.testWriteContentOverwrite)
	t.Run("WriteContent_NestedID", suite.testWriteContentNestedID)
	t.Run("Delete_Success", suite.testDeleteSuccess)
	t.Run("Delete_Idempotent", suite.testDeleteIdempotent)
}

func (suite *StoreTestSuite) testWriteContentBasic(t *testing.T) {
	store := suite.NewStore(t)
	writable, ok := store.(content.WritableContentStore)
	if !ok {
		t.Skip("Store does not implement WritableContentStore")
	}

	id := generateTestID("write-basic")
	testData := []byte("Hello, World!")

	mustWriteContent(t, writable, id, testData)

	assertContentEquals(t, store, id, testData)
	assertContentSize(t, store, id, uint64(len(testData)))
}

func (suite *StoreTestSuite) testWriteContentOverwrite(t *testing.T) {
	store := suite.NewStore(t)
	writable, ok := store.(content.WritableContentStore)
	if !ok {
		t.Skip("Store does not implement WritableContentStore")
	}

	id := generateTestID("write-overwrite")
	oldData := []byte("Old data")
	newData := []byte("New data that is longer")

	mustWriteContent(t, writable, id, oldData)
	assertContentEquals(t, store, id, oldData)

	mustWriteContent(t, writable, id, newData)
	assertContentEquals(t, store, id, newData)
	assertContentSize(t, store, id, uint64(len(newData)))
}

// IDs produced by the tree layer contain slashes; every backend must cope
// with path-shaped keys.
func (suite *StoreTestSuite) testWriteContentNestedID(t *testing.T) {
	store := suite.NewStore(t)
	writable, ok := store.(content.WritableContentStore)
	if !ok {
		t.Skip("Store does not implement WritableContentStore")
	}

	id := content.ContentID("suite/deep/nested/path/file.bin")
	testData := []byte("nested")

	mustWriteContent(t, writable, id, testData)
	assertContentEquals(t, store, id, testData)
}

func (suite *StoreTestSuite) testDeleteSuccess(t *testing.T) {
	store := suite.NewStore(t)
	writable, ok := store.(content.WritableContentStore)
	if !ok {
		t.Skip("Store does not implement WritableContentStore")
	}

	id := generateTestID("delete-success")
	mustWriteContent(t, writable, id, []byte("to be deleted"))
	assertContentExists(t, store, id, true)

	mustDelete(t, writable, id)
	assertContentExists(t, store, id, false)
}

func (suite *StoreTestSuite) testDeleteIdempotent(t *testing.T) {
	store := suite.NewStore(t)
	writable, ok := store.(content.WritableContentStore)
	if !ok {
		t.Skip("Store does not implement WritableContentStore")
	}

	id := generateTestID("delete-idempotent")

	// Deleting content that never existed must succeed
	mustDelete(t, writable, id)
	mustDelete(t, writable, id)
}
