// Package math_tools provides add_numbers and subtract_numbers. Both take two
// space-separated numbers and answer with the result as text.
package math_tools
