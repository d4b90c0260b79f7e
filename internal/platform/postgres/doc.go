// Package postgres provides PostgreSQL-backed implementations of the
// persistence interfaces defined in the internal/store package. It owns
// query execution, the mapping between domain entities and rows, and
// the translation of driver errors onto store sentinel errors.
package postgres
