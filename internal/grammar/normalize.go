// Package grammar validates user-typed flags and subcommands against the
// declarative command definitions in the catalog, proposing typo-tolerant
// corrections via edit distance when a token misses.
package grammar

import "strings"

// NormalizeToken strips the dash prefix and a single trailing "=" from a
// flag token. Dash prefixes and trailing "=" are input noise, not part of
// option identity: "-q", "--q", and "q=" all normalize to "q". Matching on
// the normalized form is case-sensitive.
func NormalizeToken(token string) string {
	token = strings.TrimLeft(token, "-")
	token = strings.TrimSuffix(token, "=")
	return token
}
