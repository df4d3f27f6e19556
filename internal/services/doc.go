// Package services wraps the Spotify accounts service and Web API.
//
// # Authorization
//
// [Authenticator] builds the consent URL and exchanges grants through [oauth2.Config]
// (Authorization Code) and [clientcredentials.Config] (Client Credentials). Client
// credentials are sent with HTTP basic auth. The client secret never appears in
// URLs, log lines or error messages.
//
// # Web API
//
// [SpotifyClient] calls /me and /search with a bearer token via the zmb3/spotify client.
// Calls never fail from the caller's point of view:
//   - FetchProfile returns [DefaultProfile] on any error
//   - SearchTracks returns an empty slice on any error
//
// Outcomes are reported to an [Observer] so the server can count them.
//
// # Errors
//
// Exchange failures wrap [shared.ErrAuthExchangeFailed]; missing client settings wrap
// [shared.ErrMissingCredentials]. Decoding raw payloads with [ParseProfile] and
// [ParseTracks] wraps [shared.ErrRemoteCallFailed].
package services
