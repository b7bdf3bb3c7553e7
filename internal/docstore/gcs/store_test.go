package gcs

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mjaros/listkeeper/internal/docstore"
	"github.com/mjaros/listkeeper/internal/docstore/compliance"
)

// TestCompliance runs the store compliance suite against a real GCS bucket.
// Set LISTKEEPER_TEST_GCS_BUCKET and GOOGLE_APPLICATION_CREDENTIALS to
// enable.
func TestCompliance(t *testing.T) {
	bucket := os.Getenv("LISTKEEPER_TEST_GCS_BUCKET")
	if bucket == "" {
		t.Skip("LISTKEEPER_TEST_GCS_BUCKET not set, skipping GCS compliance tests")
	}

	compliance.RunStoreComplianceTests(t, func(t *testing.T) (docstore.Store, func()) {
		store, err := NewStore(context.Background(), bucket, WithPollInterval(100*time.Millisecond))
		require.NoError(t, err)
		return store, func() {
			require.NoError(t, store.Close())
		}
	})
}
