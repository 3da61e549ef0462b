// Package repository holds the musician.Store implementations.
//
// There is one repository per backend (memory, PostgreSQL, Redis,
// MongoDB, SQLite). Each translates driver failures into
// *musician.Error so the layers above never see driver types.
// Documents are listed in id order on every backend.
package repository
