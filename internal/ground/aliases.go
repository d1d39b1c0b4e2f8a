package ground

// valueAliases canonicalize common abbreviations before comparison. Keys
// and values are normalized forms.
var valueAliases = map[string]string{
	"nyc":           "new york city",
	"ny":            "new york",
	"sf":            "san francisco",
	"la":            "los angeles",
	"uk":            "united kingdom",
	"usa":           "united states",
	"us":            "united states",
	"u.s":           "united states",
	"postgres":      "postgresql",
	"pg":            "postgresql",
	"mongo":         "mongodb",
	"js":            "javascript",
	"ts":            "typescript",
	"golang":        "go",
	"k8s":           "kubernetes",
	"msft":          "microsoft",
	"goog":          "google",
	"fb":            "facebook",
	"swe":           "software engineer",
	"software dev":  "software engineer",
	"dev":           "developer",
	"pm":            "product manager",
	"dr":            "doctor",
	"prof":          "professor",
	"vp":            "vice president",
	"ceo":           "chief executive officer",
	"cto":           "chief technology officer",
}

// synonymGroups equate values that name the same thing without being
// spelling variants: employer renames, job-title synonyms, the education
// verbs that show up in school slots.
var synonymGroups = [][]string{
	{"google", "alphabet"},
	{"facebook", "meta"},
	{"twitter", "x"},
	{"software engineer", "software developer", "programmer"},
	{"doctor", "physician"},
	{"lawyer", "attorney"},
	{"professor", "lecturer"},
	{"university", "college"},
	{"studied", "graduated", "attended"},
	{"car", "automobile"},
	{"apartment", "flat"},
}

// synonymIndex maps a normalized value to its group id.
var synonymIndex = func() map[string]int {
	idx := make(map[string]int)
	for i, group := range synonymGroups {
		for _, v := range group {
			idx[v] = i
		}
	}
	return idx
}()

// canonicalize resolves a normalized value through the alias table.
func canonicalize(normalized string) string {
	if c, ok := valueAliases[normalized]; ok {
		return c
	}
	return normalized
}

// sameSynonymGroup reports whether two normalized values share a synonym
// group.
func sameSynonymGroup(a, b string) bool {
	ga, ok := synonymIndex[a]
	if !ok {
		return false
	}
	gb, ok := synonymIndex[b]
	return ok && ga == gb
}
