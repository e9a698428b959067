// Package fields parses the pipe-and-colon delimited instruction strings that
// compound tools accept, for example:
//
//	To: user@example.com | Subject: Demo | Body: This is a test message
//
// Each segment between '|' characters is split on its first ':' into a field
// name and a value, both trimmed. Later duplicates overwrite earlier ones.
// Values cannot contain '|'; there is no escaping.
//
// Parse only checks the shape of the input. Which fields are required is
// decided by the caller through Fields.Require.
package fields
