package catalog

import "strings"

// MinDescriptionLength is the description length a suggestion needs to
// exceed. Shorter input yields nothing.
const MinDescriptionLength = 10

type keywordRule struct {
	keyword    string
	categories []string
}

// rules is evaluated in order. Order matters: on equal scores the first
// matching category wins.
var rules = []keywordRule{
	{"java", []string{"programming - java", "programming"}},
	{"python", []string{"programming - python", "programming"}},
	{"javascript", []string{"web development", "programming"}},
	{"react", []string{"web development"}},
	{"node.js", []string{"web development"}},
	{"html", []string{"web development"}},
	{"css", []string{"web development"}},
	{"algorithm", []string{"algorithms & data structures", "computer science"}},
	{"data structure", []string{"algorithms & data structures", "computer science"}},
	{"database", []string{"database management"}},
	{"sql", []string{"database management"}},
	{"nosql", []string{"database management"}},
	{"network", []string{"networking"}},
	{"operating system", []string{"operating systems"}},
	{"machine learning", []string{"machine learning"}},
	{"ai", []string{"machine learning"}},
	{"web project", []string{"web development"}},
	{"software engineering", []string{"computer science"}},
	{"coding", []string{"programming - java", "programming - python", "computer science"}},

	{"algebra", []string{"math - algebra"}},
	{"calculus", []string{"math - calculus"}},
	{"statistics", []string{"math - statistics"}},
	{"probability", []string{"math - statistics"}},
	{"physics", []string{"physics - mechanics", "physics - electromagnetism"}},
	{"mechanics", []string{"physics - mechanics"}},
	{"circuits", []string{"engineering - electrical", "physics - electromagnetism"}},
	{"electrical", []string{"engineering - electrical"}},
	{"mechanical", []string{"engineering - mechanical"}},
	{"thermodynamics", []string{"engineering - mechanical"}},
	{"fluid dynamics", []string{"engineering - mechanical"}},

	{"script", []string{"script writing"}},
	{"screenplay", []string{"script writing"}},
	{"essay", []string{"essay writing"}},
	{"research paper", []string{"essay writing"}},
	{"report", []string{"report writing"}},
	{"design", []string{"graphic design"}},
	{"logo", []string{"graphic design"}},
	{"ui/ux", []string{"graphic design"}},
	{"presentation", []string{"graphic design", "script writing"}},
}

// Suggest picks the catalog category that best fits description.
//
// Every keyword contained in the lower-cased description scores its length
// for each of its candidate categories present in the catalog. Only a
// strictly higher score replaces the current best, so ties keep the
// earliest rule and candidate. The catalog's own spelling is returned.
// Substring containment is deliberate: "ai" also fires inside "email".
func Suggest(description string, c Catalog) (string, bool) {
	if len(description) <= MinDescriptionLength {
		return "", false
	}

	lower := strings.ToLower(description)
	best := ""
	highest := 0

	for _, rule := range rules {
		if !strings.Contains(lower, rule.keyword) {
			continue
		}
		for _, candidate := range rule.categories {
			cat, ok := c.Find(candidate)
			if !ok {
				continue
			}
			if score := len(rule.keyword); score > highest {
				highest = score
				best = cat.Name
			}
		}
	}

	return best, best != ""
}
