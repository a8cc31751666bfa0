// Package mocks provides hand-written test doubles for the store and
// service interfaces. Each mock exposes function fields to override
// behavior per test, with a simple in-memory default.
package mocks
