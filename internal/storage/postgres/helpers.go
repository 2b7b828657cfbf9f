package postgres

import "strings"

// escapeLike neutralizes LIKE/ILIKE metacharacters in user input so a
// keyword is always matched literally.
func escapeLike(input string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(input)
}

// containsPattern builds a %keyword% pattern with the keyword escaped.
func containsPattern(keyword string) string {
	return "%" + escapeLike(keyword) + "%"
}
