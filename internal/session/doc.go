// Package session persists per-session metadata for lanes.
//
// Each session owns one JSON document, located by a [location.Resolver]. The
// document carries the agent's session id, the active workflow, permission
// and terminal preferences, the chime flag, the task list id and the agent
// name. Every field has its own getter and setter:
//
//   - Getters never fail. A missing file, a corrupt file, or a field of the
//     wrong JSON type all read as absent.
//   - Setters merge only the field they own into the existing document and
//     report write failures to the caller after logging them.
//
// Unknown fields written by other tools survive every setter.
package session
