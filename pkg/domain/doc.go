/*
Package domain contains the core domain models of the scriptflow conversation engine.

It defines the entities of a scripted questionnaire: the prompts (Nodes), the
answer-labeled edges between them (Transitions), the per-session record of what
happened (HistoryRecord) and the serializable session snapshot (State). This
package is kept pure and free of I/O, following Hexagonal Architecture principles.

# Key Entities

  - Node: one prompt of the script, with its recognized answers and transitions.
  - Transition: a labeled edge keyed by a recognized answer.
  - Prompt: the read-only view of a Node handed to a presentation layer.
  - HistoryRecord: one successful answer resolution inside a session.
  - State: a snapshot of a session (cursor + history) for stores.
*/
package domain
