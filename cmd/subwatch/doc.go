// Command subwatch watches a subreddit for keywords and replies with an LLM.
//
// Usage:
//
//	subwatch serve                        run the JSON API and the monitor
//	subwatch console                      run the dashboard against the API
//	subwatch monitor <subreddit> <kw,kw>  start monitoring
//	subwatch stop                         stop monitoring
//	subwatch interactions                 print stored interactions
//
// Flags:
//
//	--config    YAML config file (optional)
//	--api-url   API base URL for client commands
//	--verbose   debug logging
//
// Secrets come from REDDIT_CLIENT_ID, REDDIT_CLIENT_SECRET, REDDIT_USERNAME,
// REDDIT_PASSWORD and GEMINI_API_KEY.
package main
