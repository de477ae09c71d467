package repository

import "strings"

// '!' is used as the LIKE escape character because backslash handling differs between MySQL and SQLite.
var likeEscaper = strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`)

// likePattern builds a case-insensitive "contains" pattern for LOWER(col) LIKE ? ESCAPE '!'.
func likePattern(q string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
}
