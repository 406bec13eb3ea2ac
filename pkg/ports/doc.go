/*
Package ports defines the driven ports (interfaces) of the scriptflow engine.

These interfaces decouple the conversation core from where scripts come from
and where live sessions are kept.

# Key Interfaces

  - GraphLoader: produces a raw graph.Definition (authored table, markdown directory, importer).
  - SourceLoader: fetches raw script text for the heuristic importer.
  - StateStore: keeps session snapshots for hosts that serve many users (HTTP, MCP).
  - SessionLocker: serializes turns of one session across replicas.
*/
package ports
