package testing

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/treepack/pkg/store/content"
)

// AssertErrorIs checks the error chain with errors.Is.
func AssertErrorIs(t *testing.T, expected error, actual error) {
	t.Helper()
	if !errors.Is(actual, expected) {
		t.Errorf("Expected error %v, got %v", expected, actual)
	}
}

// generateTestID builds a ContentID unlikely to collide across subtests.
func generateTestID(label string) content.ContentID {
	return content.ContentID("suite/" + label)
}

// generateTestData returns n bytes of deterministic non-trivial data.
func generateTestData(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i % 251)
	}
	return data
}

// mustWriteContent writes content and fails the test if it errors.
func mustWriteContent(t *testing.T, store content.WritableContentStore, id content.ContentID, data []byte) {
	t.Helper()
	err := store.WriteContent(testContext(), id, data)
	require.NoError(t, err, "WriteContent should succeed")
}

// mustReadContent reads content and fails the test if it errors.
func mustReadContent(t *testing.T, store content.ContentStore, id content.ContentID) []byte {
	t.Helper()
	reader, err := store.ReadContent(testContext(), id)
	require.NoError(t, err, "ReadContent should succeed")
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err, "Reading content should succeed")
	return data
}

// mustDelete deletes content and fails the test if it errors.
func mustDelete(t *testing.T, store content.WritableContentStore, id content.ContentID) {
	t.Helper()
	err := store.Delete(testContext(), id)
	require.NoError(t, err, "Delete should succeed")
}

// assertContentExists checks the existence flag.
func assertContentExists(t *testing.T, store content.ContentStore, id content.ContentID, expected bool) {
	t.Helper()
	exists, err := store.ContentExists(testContext(), id)
	require.NoError(t, err, "ContentExists should not error")
	assert.Equal(t, expected, exists, "Content existence mismatch")
}

// assertContentEquals checks the stored bytes.
func assertContentEquals(t *testing.T, store content.ContentStore, id content.ContentID, expected []byte) {
	t.Helper()
	data := mustReadContent(t, store, id)
	assert.Equal(t, expected, data, "Content mismatch")
}

// assertContentSize checks the reported size.
func assertContentSize(t *testing.T, store content.ContentStore, id content.ContentID, expected uint64) {
	t.Helper()
	size, err := store.GetContentSize(testContext(), id)
	require.NoError(t, err, "GetContentSize should succeed")
	assert.Equal(t, expected, size, "Content size mismatch")
}
