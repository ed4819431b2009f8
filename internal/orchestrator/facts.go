package orchestrator

import (
	"context"
	"regexp"
	"strings"

	"github.com/talentlinkco/recruitbot/internal/store"
)

// Discovery facts are captured by keyword tables over the canonicalized
// text, so the tables only need the canonical language. Capture never
// overwrites a fact the session already has.
var countryRe = regexp.MustCompile(`(?i)(^|[^\p{L}])(poland|czech republic|czechia|slovakia|germany|austria|netherlands|belgium|france|spain|italy|portugal|hungary|romania|bulgaria|lithuania|latvia|estonia|finland|sweden|norway|denmark|united kingdom|great britain|ireland|ukraine)([^\p{L}]|$)`)

var roleRe = regexp.MustCompile(`(?i)(^|[^\p{L}])(welders?|drivers?|builders?|bricklayers?|electricians?|plumbers?|carpenters?|painters?|roofers?|cooks?|chefs?|waiters?|cleaners?|housekeepers?|nurses?|caregivers?|packers?|pickers?|loaders?|mechanics?|machinists?|seamstresses?|butchers?|bakers?|locksmiths?|(?:warehouse|construction|factory|farm) workers?)([^\p{L}]|$)`)

var headcountRe = regexp.MustCompile(`(?i)\b(\d{1,4})\s+(?:candidates?|workers?|people|persons?|employees?|vacanc(?:y|ies)|positions?)\b`)

// leadingCountRe picks a number directly in front of a role noun
// ("need 5 welders").
var leadingCountRe = regexp.MustCompile(`(\d{1,4})\s*$`)

// captureFacts fills empty discovery facts from the canonicalized turn
// text. Extraction is heuristic and additive: a miss leaves the fact
// empty for the stage engine to ask about.
func (o *Orchestrator) captureFacts(ctx context.Context, sess *store.Session, canonical string) error {
	set := func(field string, current *string, value string) error {
		if *current != "" || value == "" {
			return nil
		}
		if err := o.store.SetFact(ctx, sess.ID, field, value); err != nil {
			return err
		}
		*current = value
		return nil
	}

	if m := countryRe.FindStringSubmatch(canonical); m != nil {
		if err := set("country", &sess.Country, m[2]); err != nil {
			return err
		}
	}
	if loc := roleRe.FindStringSubmatchIndex(canonical); loc != nil {
		role := strings.ToLower(canonical[loc[4]:loc[5]])
		if err := set("role", &sess.Role, role); err != nil {
			return err
		}
		if m := leadingCountRe.FindStringSubmatch(canonical[:loc[4]]); m != nil {
			if err := set("candidates", &sess.Candidates, m[1]); err != nil {
				return err
			}
		}
	}
	if m := headcountRe.FindStringSubmatch(canonical); m != nil {
		if err := set("candidates", &sess.Candidates, m[1]); err != nil {
			return err
		}
	}
	return nil
}
