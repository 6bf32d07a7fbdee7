// Package dag provides a small, concurrency-safe directed acyclic graph keyed
// by string IDs. It knows nothing about steps or stages; the orchestrator
// uses it to hold the topology of each stage's step graph.
//
// Iteration order is deterministic: nodes are reported in insertion order and
// adjacency lists are sorted, so two graphs built from identical input are
// structurally identical.
package dag
