package classify

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/talentlinkco/recruitbot/internal/textutil"
)

// Rule binds keywords to a category. Rules are data, not code: adding a
// language or phrasing means adding rows.
type Rule struct {
	Category Category
	Keywords []string
}

// builtinRules is evaluated top to bottom; the first matching rule wins,
// so more specific categories come before broader ones. Rows come in
// English/Russian pairs.
var builtinRules = []Rule{
	{Expensive, []string{"expensive", "too much", "price", "cost", "cheaper", "discount"}},
	{Expensive, []string{"дорого", "цена", "стоимость", "дешевле", "скидка"}},
	{Documents, []string{"visa", "permit", "passport", "documents", "paperwork"}},
	{Documents, []string{"виза", "визу", "документы", "разрешение", "паспорт"}},
	{Salary, []string{"salary", "wage", "earn", "per hour", "net pay"}},
	{Salary, []string{"зарплата", "оклад", "заработок", "в час"}},
	{Candidates, []string{"candidate", "candidates", "workers", "vacancy", "staff", "employees"}},
	{Candidates, []string{"кандидат", "кандидаты", "работники", "вакансия", "персонал", "сотрудники"}},
	{Cooperation, []string{"contract", "agreement", "commission", "terms", "invoice", "cooperation"}},
	{Cooperation, []string{"договор", "контракт", "условия", "комиссия", "счет", "сотрудничество"}},
}

type compiledRule struct {
	category Category
	patterns []*regexp.Regexp
}

type Classifier struct {
	mu      sync.RWMutex
	rules   []compiledRule
	watcher *fsnotify.Watcher
}

// New builds a classifier from the built-in bilingual rule table.
func New() *Classifier {
	c := &Classifier{}
	c.setRules(builtinRules)
	return c
}

func (c *Classifier) setRules(rules []Rule) {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		cr := compiledRule{category: r.Category}
		for _, kw := range r.Keywords {
			folded := textutil.Fold(kw)
			if folded == "" {
				continue
			}
			// \b is ASCII-only in RE2, so spell out letter/digit
			// boundaries to keep Cyrillic keywords word-bounded.
			cr.patterns = append(cr.patterns, regexp.MustCompile(
				`(^|[^\p{L}\p{N}])`+regexp.QuoteMeta(folded)+`([^\p{L}\p{N}]|$)`))
		}
		if len(cr.patterns) > 0 {
			compiled = append(compiled, cr)
		}
	}
	c.mu.Lock()
	c.rules = compiled
	c.mu.Unlock()
}

// Classify tags the utterance with the first matching rule's category;
// no match means General.
func (c *Classifier) Classify(text string) Category {
	folded := textutil.Fold(text)
	if folded == "" {
		return General
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, rule := range c.rules {
		for _, re := range rule.patterns {
			if re.MatchString(folded) {
				return rule.category
			}
		}
	}
	return General
}

// rulesFromCatalog converts a catalog document (category -> keywords)
// into rules, rejecting unknown categories loudly.
func rulesFromCatalog(doc map[string][]string) ([]Rule, error) {
	// Keep the built-in precedence order rather than map iteration order.
	order := []Category{Expensive, Documents, Salary, Candidates, Cooperation}
	seen := make(map[Category]bool, len(doc))
	var rules []Rule
	for name := range doc {
		cat, err := ParseCategory(name)
		if err != nil {
			return nil, err
		}
		if cat == General {
			return nil, fmt.Errorf("classify: catalog must not define keywords for %q", General)
		}
		seen[cat] = true
	}
	for _, cat := range order {
		if !seen[cat] {
			continue
		}
		rules = append(rules, Rule{Category: cat, Keywords: doc[cat.String()]})
	}
	return rules, nil
}
