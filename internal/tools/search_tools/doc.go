// Package search_tools provides wikipedia_search, which answers with the
// summary of the encyclopedia article best matching a search term.
package search_tools
