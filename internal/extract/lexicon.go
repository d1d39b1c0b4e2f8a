package extract

import (
	"sort"
	"strings"
)

// slotLexicon maps the surface noun phrases of the named-slot copular
// family to canonical slot names. Multi-word surfaces are matched before
// their single-word suffixes ("favorite sport" before "sport").
var slotLexicon = map[string]string{
	"name":      "name",
	"full name": "name",
	"nickname":  "name",

	"employer":  "employer",
	"company":   "employer",
	"workplace": "employer",

	"location":  "location",
	"city":      "location",
	"town":      "location",
	"residence": "location",

	"title":     "title",
	"job title": "title",

	"occupation": "occupation",
	"job":        "occupation",
	"profession": "occupation",
	"role":       "occupation",

	"age": "age",

	"school":     "school",
	"university": "school",
	"college":    "school",
	"alma mater": "school",

	"degree": "degree",
	"major":  "degree",

	"favorite color":  "favorite_color",
	"favourite color": "favorite_color",

	"coffee":       "coffee",
	"coffee order": "coffee",

	"hobby": "hobby",

	"pet": "pet",
	"dog": "pet",
	"cat": "pet",

	"project":         "project",
	"current project": "project",

	"graduation year": "graduation_year",

	"programming experience": "programming_experience",
	"years of experience":    "programming_experience",
	"experience":             "programming_experience",

	"email":         "email",
	"email address": "email",

	"phone":        "phone",
	"phone number": "phone",

	"birthday":  "birthday",
	"birthdate": "birthday",

	"hometown":    "hometown",
	"nationality": "nationality",

	"timezone":  "timezone",
	"time zone": "timezone",

	"team":       "team",
	"manager":    "manager",
	"boss":       "manager",
	"department": "department",
	"salary":     "salary",

	"editor":           "editor",
	"os":               "os",
	"operating system": "os",
	"shell":            "shell",
	"browser":          "browser",

	"spouse":  "spouse",
	"wife":    "spouse",
	"husband": "spouse",
	"partner": "spouse",

	"car":     "car",
	"vehicle": "car",

	"database": "database",
	"db":       "database",

	"frontend": "frontend",
	"backend":  "backend",

	"programming language": "programming_language",
	"framework":            "framework",

	"height":         "height",
	"diet":           "diet",
	"favorite sport": "sport",
	"sport":          "sport",

	"skill": "skill",
	"tool":  "tool",
}

// petWords resolve the possessive have/has family for pronoun subjects
// ("I have a dog named Rex").
var petWords = map[string]bool{
	"dog": true, "cat": true, "puppy": true, "kitten": true,
	"parrot": true, "hamster": true, "rabbit": true,
}

// pronouns that cannot serve as a bare-copular subject slot.
var pronouns = map[string]bool{
	"i": true, "you": true, "we": true, "they": true, "he": true,
	"she": true, "it": true, "this": true, "that": true, "there": true,
	"user": true, "me": true, "us": true, "them": true,
}

// questionWords reject interrogative clauses before extraction.
var questionWords = map[string]bool{
	"what": true, "who": true, "why": true, "when": true,
	"where": true, "how": true, "which": true,
}

// lexiconAlternation returns the lexicon surfaces as a regex alternation,
// longest surface first so "favorite sport" beats "sport".
func lexiconAlternation() string {
	surfaces := make([]string, 0, len(slotLexicon))
	for s := range slotLexicon {
		surfaces = append(surfaces, s)
	}
	sort.Slice(surfaces, func(i, j int) bool {
		if len(surfaces[i]) != len(surfaces[j]) {
			return len(surfaces[i]) > len(surfaces[j])
		}
		return surfaces[i] < surfaces[j]
	})
	escaped := make([]string, len(surfaces))
	for i, s := range surfaces {
		escaped[i] = strings.ReplaceAll(s, " ", `\s+`)
	}
	return strings.Join(escaped, "|")
}
