// Package querygen turns a natural-language description of emails into a
// Gmail search query using an OpenAI chat model.
//
// The model is instructed to use only the subject: and from: operators.
// Its output is checked before it is returned; a query using any other
// operator, label: in particular, is rejected with *DisallowedOperatorError.
package querygen
