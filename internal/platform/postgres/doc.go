// Package postgres contains the PostgreSQL implementations of the store
// interfaces, plus the mapping from driver errors to the store error
// taxonomy.
package postgres
