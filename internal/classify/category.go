package classify

import "fmt"

// Category tags what a user utterance is about. The set is closed:
// persisted values outside it indicate schema drift and fail at parse
// time instead of silently degrading to General.
type Category string

const (
	General     Category = "general"
	Expensive   Category = "expensive"
	Documents   Category = "documents"
	Salary      Category = "salary"
	Candidates  Category = "candidates"
	Cooperation Category = "cooperation"
)

var categories = map[Category]struct{}{
	General:     {},
	Expensive:   {},
	Documents:   {},
	Salary:      {},
	Candidates:  {},
	Cooperation: {},
}

func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if _, ok := categories[c]; !ok {
		return "", fmt.Errorf("classify: unknown category %q", s)
	}
	return c, nil
}

func (c Category) String() string { return string(c) }
