package stage

import "fmt"

// Stage is the forward-only discovery state of a session.
type Stage string

const (
	Intro     Stage = "intro"
	Discovery Stage = "discovery"
	Specifics Stage = "specifics"
	Open      Stage = "open"
)

// Parse rejects unknown persisted stages instead of defaulting, so schema
// drift surfaces at load time.
func Parse(s string) (Stage, error) {
	switch Stage(s) {
	case Intro, Discovery, Specifics, Open:
		return Stage(s), nil
	}
	return "", fmt.Errorf("stage: unknown stage %q", s)
}

func (s Stage) String() string { return string(s) }

// Asked-state keys. Each key is incremented at most as often as the
// engine decides to ask; counters live in the store.
const (
	KeyGreeting   = "greeting"
	KeyName       = "name"
	KeyCountry    = "country"
	KeyRole       = "role"
	KeyCandidates = "candidates"
	KeyDemo       = "demo"
	KeySpecifics  = "specifics"
)

// maxNameAttempts caps how often the name question is repeated before the
// session moves on without one.
const maxNameAttempts = 2
