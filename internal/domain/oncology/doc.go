// Package oncology defines the typed records stored in the oncology knowledge graph
// and the error codes shared by the graph store, the use cases and the HTTP edge.
//
// Records are plain structs; the graph store decodes driver values into them and
// fails the read when a required property is missing or malformed.
package oncology
