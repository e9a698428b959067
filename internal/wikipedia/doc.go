// Package wikipedia looks up article summaries through the MediaWiki action
// API.
//
// Summary resolves a free-text query to a page title using the search
// endpoint (preferring the search suggestion when one is offered), follows
// redirects, and returns the first sentences of the plain-text extract.
// Disambiguation pages are reported as *DisambiguationError.
package wikipedia
