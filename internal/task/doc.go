// Package task models the in-memory todo collection and its view projection.
//
// A Task is the only entity:
//
//	{
//	  "id": 201,
//	  "title": "Buy milk",
//	  "completed": false
//	}
//
// IDs are assigned by the remote store on create. The reference store
// (jsonplaceholder) assigns the same ID to every create call, so the
// collection tolerates duplicate IDs; operations addressing a single ID
// affect the first match in insertion order.
//
// # Collection semantics
//
// List holds the ordered collection. Order is insertion order; successful
// creates prepend. Mutations are purely local except where a caller merges
// a remote result:
//
//   - Replace is the merge step of the initial load.
//   - Prepend is the merge step of a successful create.
//   - SetTitle is the merge step of a successful replace: the title comes
//     from the server echo while the completed flag stays local.
//   - Toggle, Remove, CompleteAll, and ClearCompleted never touch the
//     network.
//
// # View projection
//
// Visible and Counts derive the presentation: Visible returns the ordered
// subsequence matching the active filter, Counts always reflects the
// unfiltered collection. Both are recomputed on every call; nothing is
// cached.
//
// # Contract validation
//
// ValidateListPayload and ValidateTaskPayload check raw store payloads
// against the embedded JSON Schema (draft 2020-12). The schema requires
// id, title, and completed and tolerates extra fields. This is diagnostics
// machinery (the doctor command); the client itself decodes leniently.
package task
