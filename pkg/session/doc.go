/*
Package session implements the conversation cursor and the answer-resolution algorithm.

A Session walks a shared, read-only *graph.Graph. Each Submit resolves a
free-form answer against the current node's transitions, in strict order:

 1. Exact byte-for-byte match on a transition answer.
 2. Fuzzy: case-insensitive substring in either direction, in authored order.
 3. Sequential: a purely numeric node id advances to id+1 when that node exists.
 4. Otherwise the cursor stays and Submit returns false.

The Manager hosts many sessions behind a StateStore, serializing the turns of
each session with a per-session mutex and an optional SessionLocker.
*/
package session
