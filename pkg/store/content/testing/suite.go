// Package testing provides a reusable contract test suite for ContentStore
// implementations.
package testing

import (
	"context"
	"testing"

	"github.com/marmos91/treepack/pkg/store/content"
)

// StoreTestSuite exercises the ContentStore interface contract, not
// implementation details, so one suite covers every backend.
//
// Usage:
//
//	func TestMyContentStore(t *testing.T) {
//	    suite := &testing.StoreTestSuite{
//	        NewStore: func(t *testing.T) content.ContentStore {
//	            return mystore.New(t)
//	        },
//	    }
//	    suite.Run(t)
//	}
type StoreTestSuite struct {
	// NewStore creates a fresh store for each test, keeping tests
	// isolated. Cleanup belongs on t.Cleanup inside the factory.
	NewStore func(t *testing.T) content.ContentStore
}

// Run executes all tests in the suite.
func (suite *StoreTestSuite) Run(t *testing.T) {
	t.Run("BasicOperations", suite.RunBasicTests)
	t.Run("WriteOperations", suite.RunWriteTests)
	t.Run("Statistics", suite.RunStatsTests)
}

// testContext returns a standard test context.
func testContext() context.Context {
	return context.Background()
}
