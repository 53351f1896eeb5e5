package performance

import (
	"net/url"
	"strings"
)

const UnknownSubject = "Unknown Subject"

// Subject is a subject definition of the curriculum.
type Subject struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Link is a study resource.
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

var (
	Subjects = []Subject{
		{Code: "MA23111", Name: "Discrete Maths"},
		{Code: "AL23311", Name: "Artificial Intelligence"},
		{Code: "CS23411", Name: "Database Management System"},
		{Code: "CS23312", Name: "Object Oriented Programming"},
		{Code: "EC23331", Name: "Digital Principles and Computer Organisation"},
	}

	subjectNames = make(map[string]string, len(Subjects))
	subjectLinks = make(map[string][]Link, len(Subjects))
)

func init() {
	for _, s := range Subjects {
		subjectNames[s.Code] = s.Name
		subjectLinks[s.Code] = searchLinks(s.Name)
	}
}

// SubjectName returns the display name of code.
func SubjectName(code string) string {
	if name, ok := subjectNames[code]; ok {
		return name
	}
	return UnknownSubject
}

// ResourceLinks returns the study links of a subject: the curated set for known codes,
// generic searches on name otherwise.
func ResourceLinks(code, name string) []Link {
	links, ok := subjectLinks[code]
	if !ok {
		links = searchLinks(name)
	}
	res := make([]Link, len(links))
	copy(res, links)
	return res
}

func searchLinks(name string) []Link {
	name = strings.TrimSpace(name)
	return []Link{
		{Label: "YouTube lecture", URL: "https://www.youtube.com/results?search_query=" + escape(name+" lecture")},
		{Label: "Concept notes", URL: "https://www.google.com/search?q=" + escape(name+" notes tutorial")},
		{Label: "Practice problems", URL: "https://www.google.com/search?q=" + escape(name+" practice problems")},
	}
}

// escape percent-encodes s the way browsers encode URI components (spaces as %20).
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
