// Package ports defines the interfaces (ports) that connect the application
// layer to infrastructure adapters.
//
// # Port Interfaces
//
//   - [SnapshotRepository]: Loads and saves the single persisted snapshot
//   - [HTTPClient]: HTTP request abstraction for dependency injection
//   - [DrawObserver]: Receives draw outcomes for metrics
//
// The application layer (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement them with a JSON
// file, a hosted REST table, or a SQL table.
package ports
