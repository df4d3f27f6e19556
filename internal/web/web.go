// Package web implements the browser-facing routes of the soundcheck app.
//
// # Content Negotiation
//
// Every handler produces a [View] that names a full-page template and a fragment template.
// [Negotiate] picks one per request: a request carrying X-Requested-With: XMLHttpRequest
// (or HX-Request: true) receives the fragment, anything else the full page.
// The [Renderer] executes the chosen template from the embedded templates directory.
//
// # Routes
//
//	GET  /                       → index page or home fragment
//	GET  /album/{id}/content     → album fragment (404 for unknown id or empty song list)
//	GET  /login                  → 302 to the provider consent page
//	GET  /login_page             → static login page
//	GET  /callback?code=         → code exchange, then 302 to /profile
//	GET  /profile                → profile page, or 302 to /login without a token
//	GET  /logout                 → drop the session, 302 to /
//	GET|POST /search             → search page
//	GET|POST /page/search        → search page, or results fragment for marked requests
//	GET  /page/{name}            → fragment loader (home, search)
//	GET  /playlist/{id}          → playlist fragment, 404 when unknown, 302 to / without marker
//	GET  /static/                → embedded css and js
//
// # Sessions
//
// The [Dispatcher] reads the per-request session attached by session.Manager.Middleware and
// never calls the Web API on behalf of a user unless that session holds a valid token.
package web
