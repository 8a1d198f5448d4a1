// Package tree models a mind map as a flat node collection and builds the
// parent/child index that every layout pass starts from.
//
// # Index
//
// [Build] turns a node snapshot and a declared root into an [Index]: the
// reachable node set in deterministic pre-order, the reconciled adjacency
// and a list of [Warning] values for anything the index had to repair or
// drop. Two conditions abort the build:
//
//   - the root id is not in the snapshot (ROOT_NOT_FOUND)
//   - a parent/child cycle is reachable from the root (CYCLIC_STRUCTURE,
//     carrying the id of one node on the cycle)
//
// Orphans (a parent id that names no node), children listed by the wrong
// parent and unknown child ids are never errors. They are excluded or
// reconciled and reported as warnings alongside the best-effort index.
//
// # Snapshots
//
// [Read] and [Write] exchange trees as JSON:
//
//	{
//	  "root": "r",
//	  "nodes": [
//	    {"id": "r", "text": "Plan", "x": 400, "y": 300, "children": ["a"]},
//	    {"id": "a", "text": "Scope", "parent": "r", "pinned": true, "x": 520, "y": 300}
//	  ]
//	}
//
// Nodes without an id receive a fresh one from [NewID].
//
// # Generation
//
// [Generate] produces deterministic random mind maps for demos and load
// tests.
package tree
