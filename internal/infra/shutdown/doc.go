// Package shutdown provides graceful shutdown for flexstore.
//
// This package handles process termination signals:
//
//   - Signal handling (SIGINT, SIGTERM)
//   - Programmatic trigger for embedding and tests
//   - Timeout-based forced shutdown
//   - Cleanup callback registration
//   - Shutdown coordination
//
// Usage:
//
//	handler := shutdown.NewHandler(5 * time.Second)
//	handler.OnShutdown(func(ctx context.Context) error {
//		return store.Close()
//	})
//	return handler.Wait() // Blocks until SIGINT or SIGTERM
package shutdown
