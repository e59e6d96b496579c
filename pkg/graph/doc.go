// Package graph defines the sketch graph types for trazo.
// The sketch graph is a snapshot of points and undirected edges; faces are
// derived from it by exhaustive cycle search and are never stored here.
package graph
