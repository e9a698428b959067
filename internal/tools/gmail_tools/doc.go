// Package gmail_tools provides the Gmail tools: send_email, read_email_query
// and generate_gmail_query.
//
// Each tool parses its pipe-delimited input into a typed request before any
// credential or API access, so malformed input never reaches Gmail.
package gmail_tools
