// Package dag is the topology layer of the compiler. It stores a directed
// acyclic graph of string-identified nodes and the ordering edges between
// them, and it refuses any mutation that would break that shape: duplicate
// nodes, edges to unknown nodes and edges that would close a cycle are all
// rejected at the moment they are declared.
//
// The package knows nothing about containers or parameters. The pipeline
// package layers operation descriptors on top of it.
package dag
