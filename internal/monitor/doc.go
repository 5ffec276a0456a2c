// Package monitor runs the background session that watches one subreddit.
//
// A session repeatedly fetches the newest posts, selects the ones whose title
// or body contains any keyword, asks a Responder for a reply, posts it through
// the Forum and records the interaction in the Store. A post is replied to at
// most once: the session keeps an in-memory set and the Store is consulted
// before each reply.
//
// At most one session runs per Manager. Starting a new one stops the previous
// session first. All waits observe cancellation, so Stop returns promptly.
package monitor
