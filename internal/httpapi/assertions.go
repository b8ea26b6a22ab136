package httpapi

import (
	"github.com/tinoosan/hacc/internal/storage/memory"
	"github.com/tinoosan/hacc/internal/storage/postgres"
)

// Compile-time checks that both backends can serve the API.
var (
	_ Store        = (*memory.Store)(nil)
	_ Store        = (*postgres.Store)(nil)
	_ ReadyChecker = (*memory.Store)(nil)
	_ ReadyChecker = (*postgres.Store)(nil)
)
