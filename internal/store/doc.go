// Package store defines the persistence interfaces and the shared error
// taxonomy used by their implementations.
package store
