// Package stroma is the Composition Root for the Stroma content platform.
//
// It connects the core reconciliation logic (Domain Layer) with the
// storage and transport adapters (Persistence Layer) using the Hexagonal
// Architecture pattern.
//
// Philosophy:
//
// Stroma manages the content behind a marketing site as three small,
// mergeable pieces of state: an immutable seed set compiled into the
// application, a remote snapshot on the content API, and a local
// last-known-good cache. Every read reconciles the three into one
// canonical record list; every write derives the minimal diff back out
// and replicates it best-effort. The session's in-memory state is the
// source of truth; the network is eventually consistent by design.
//
// Features:
//
//   - **Hexagonal Architecture**: Core domain is isolated from transport and storage.
//   - **Local-wins merge**: locally cached edits survive a lost or stale remote.
//   - **Minimal persistence**: seeds are never stored, only overrides, hidden ids and saved records.
//   - **Change notification**: in-process broker plus a cache watcher for cross-process updates.
//   - **Typed Retrieval**: Generic wrapper (`NewTypedService[T]`) for type-safe Fields access.
//   - **Extensible**: custom stores via `core.RemoteStore` / `core.CacheStore`.
//
// Usage:
//
//	// Initialize a service with functional options
//	blog, err := stroma.New("blog", seeds,
//		stroma.WithEndpoint("https://example.com", token),
//		stroma.WithCacheDir(stroma.DefaultCacheDir()),
//		stroma.WithLogger(logger),
//	)
//
//	// List the merged view
//	records, err := blog.Records(ctx)
package stroma
