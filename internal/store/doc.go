// Package store defines persistence interfaces and sentinel errors shared
// between the in-memory registry and the storage daemon's database layer.
package store
