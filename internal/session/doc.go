// Package session holds the per-browser access token between requests.
//
// A [Session] carries at most one [services.AccessToken]; writing a new token replaces the old one.
// Sessions are looked up by an id carried in an HMAC-signed cookie and kept in a [Store]:
//   - [MemoryStore] : process-local map, the default
//   - [RedisStore] : go-redis backed, expires keys with the session TTL
//
// [Manager.Middleware] attaches the request's session to its context; handlers read it with
// [FromContext] and persist changes with [Manager.Save]. Tokens are never refreshed: an absent
// or expired token means the user has to go through the login flow again.
package session
