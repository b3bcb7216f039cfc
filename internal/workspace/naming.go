package workspace

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	defaultCategory = "task"
	maxSlugWords    = 4
)

// reservedCategories are first words that name a category and are therefore
// left out of the slug.
var reservedCategories = map[string]bool{
	"atlas":   true,
	"archon":  true,
	"roy":     true,
	"bmad":    true,
	"gitlab":  true,
	"tooling": true,
}

var lower = cases.Lower(language.Und)

// Tokenize lowercases title and splits it into runs of letters, digits and
// underscores.
func Tokenize(title string) []string {
	return strings.FieldsFunc(lower.String(title), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '_'
	})
}

// GenerateDirectoryName derives "{category}-{slug}" from title and appends
// -2, -3, ... until the name is not in existing.
//
// With two or more words the first word is the category. A reserved first
// word is consumed by the category; any other first word also stays in the
// slug. With fewer than two words the category is "task". The slug joins at
// most four words with hyphens.
func GenerateDirectoryName(title string, existing map[string]bool) string {
	words := Tokenize(title)

	category := defaultCategory
	slugWords := words
	if len(words) >= 2 {
		category = words[0]
		if reservedCategories[category] {
			slugWords = words[1:]
		}
	}
	if len(slugWords) > maxSlugWords {
		slugWords = slugWords[:maxSlugWords]
	}

	name := category + "-" + strings.Join(slugWords, "-")
	if !existing[name] {
		return name
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d", name, n)
		if !existing[candidate] {
			return candidate
		}
	}
}
