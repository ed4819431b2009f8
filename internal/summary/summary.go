// Package summary maintains the per-session conversation digests the
// reply pipeline feeds to the generative fallback as long-range context.
package summary

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/talentlinkco/recruitbot/internal/config"
	"github.com/talentlinkco/recruitbot/internal/llm"
	"github.com/talentlinkco/recruitbot/internal/store"
)

const summaryPrompt = `Summarize the conversation below between a recruitment
agency assistant and an employer in 3-5 sentences. Keep concrete facts:
names, countries, roles, counts, amounts, agreed next steps.

Conversation:
%s`

// flushTimeout bounds one scheduled run end to end.
const flushTimeout = 2 * time.Minute

// contextWindow is how many recent messages feed one digest.
const contextWindow = 30

// Summarizer periodically digests sessions whose turn counter moved far
// enough past their newest summary. Failures are logged, never fatal: a
// missing digest only degrades fallback context.
type Summarizer struct {
	store  *store.Store
	llm    llm.Client
	cron   *cron.Cron
	every  int
	spec   string
	logger *log.Logger
}

func New(st *store.Store, client llm.Client, cfg *config.Config) *Summarizer {
	spec := cfg.Summary.Cron
	if spec == "" {
		spec = "@every 10m"
	}
	every := cfg.Summary.EveryTurns
	if every <= 0 {
		every = 6
	}
	return &Summarizer{
		store:  st,
		llm:    client,
		cron:   cron.New(),
		every:  every,
		spec:   spec,
		logger: log.New(log.Writer(), "[summary] ", log.LstdFlags),
	}
}

func (s *Summarizer) Start() error {
	if _, err := s.cron.AddFunc(s.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
		defer cancel()
		s.Flush(ctx)
	}); err != nil {
		return fmt.Errorf("schedule summary flush: %w", err)
	}
	s.cron.Start()
	s.logger.Printf("scheduled with %q, every %d turns", s.spec, s.every)
	return nil
}

// Stop halts the schedule and waits for an in-flight flush.
func (s *Summarizer) Stop() {
	<-s.cron.Stop().Done()
}

// Flush digests every session that is due. One failing session does not
// block the rest.
func (s *Summarizer) Flush(ctx context.Context) {
	due, err := s.store.SessionsNeedingSummary(ctx, s.every)
	if err != nil {
		s.logger.Printf("list sessions: %v", err)
		return
	}
	for _, c := range due {
		if err := s.summarize(ctx, c); err != nil {
			s.logger.Printf("session %d: %v", c.SessionID, err)
		}
	}
}

func (s *Summarizer) summarize(ctx context.Context, c store.SummaryCandidate) error {
	messages, err := s.store.LoadRecentMessages(ctx, c.SessionID, contextWindow)
	if err != nil {
		return err
	}
	if len(messages) == 0 {
		return nil
	}

	var b strings.Builder
	for _, m := range messages {
		b.WriteString(m.Role)
		b.WriteString(": ")
		b.WriteString(m.Content)
		b.WriteString("\n")
	}
	res, err := s.llm.Run(ctx, []llm.Message{
		{Role: "user", Content: fmt.Sprintf(summaryPrompt, b.String())},
	}, llm.Params{Temperature: 0.3, MaxTokens: 400})
	if err != nil {
		return err
	}
	if strings.TrimSpace(res.Text) == "" {
		return fmt.Errorf("model returned empty summary")
	}
	return s.store.SaveSummary(ctx, c.SessionID, c.TurnCount, res.Text)
}
