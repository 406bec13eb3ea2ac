// Package redis keeps live conversation sessions in Redis so several replicas
// of the HTTP or MCP server can share them.
//
// Every snapshot carries a TTL and is deleted when its session ends: Redis is
// the session's working memory here, not an archive. A sorted set indexed by
// expiry time backs List and is pruned lazily.
package redis
