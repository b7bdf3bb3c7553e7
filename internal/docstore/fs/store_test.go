package fs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mjaros/listkeeper/internal/docstore"
	"github.com/mjaros/listkeeper/internal/docstore/compliance"
)

func TestCompliance(t *testing.T) {
	compliance.RunStoreComplianceTests(t, func(t *testing.T) (docstore.Store, func()) {
		store, err := NewStore(t.TempDir(), WithPollInterval(10*time.Millisecond))
		require.NoError(t, err)
		return store, func() {}
	})
}
