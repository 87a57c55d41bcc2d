// Package store defines the persistence interfaces used by the rest of the
// application, together with the sentinel errors every implementation must
// return. Concrete implementations live in internal/platform.
package store
