package testsupport

import (
	"context"
	"testing"

	"logbridge/internal/admin"
	"logbridge/internal/config"
)

// MustOpenAdminStore opens the SQLite admin store for cfg and registers cleanup.
func MustOpenAdminStore(t testing.TB, cfg *config.Config) *admin.SQLStore {
	t.Helper()
	store, err := admin.OpenSQLStore(context.Background(), cfg.AdminStorePath())
	if err != nil {
		t.Fatalf("admin.OpenSQLStore: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
