package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "recruitbot.db"))
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "recruitbot.db")

	s, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	s2, err := Open(dbPath)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer s2.Close()
}

func TestInitSchema(t *testing.T) {
	s := openTestStore(t)

	for _, table := range []string{"sessions", "asked", "messages", "summaries", "kb_items", "translation_cache", "reply_audit"} {
		var name string
		err := s.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		if err != nil {
			t.Fatalf("expected table %q to exist: %v", table, err)
		}
	}
}

func TestUpsertSessionIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id1, err := s.UpsertSession(ctx, "telegram:42", "telegram")
	if err != nil {
		t.Fatalf("UpsertSession error: %v", err)
	}
	id2, err := s.UpsertSession(ctx, "telegram:42", "telegram")
	if err != nil {
		t.Fatalf("UpsertSession repeat error: %v", err)
	}
	if id1 != id2 {
		t.Errorf("ids differ: %d vs %d", id1, id2)
	}

	sess, err := s.GetSession(ctx, id1)
	if err != nil {
		t.Fatalf("GetSession error: %v", err)
	}
	if sess.Stage != "intro" || sess.TurnCount != 0 {
		t.Errorf("fresh session = %+v, want intro stage and zero turns", sess)
	}
}

func TestGetSessionNotFound(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.GetSession(context.Background(), 9999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateContactPartial(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	id, _ := s.UpsertSession(ctx, "telegram:1", "telegram")

	name := "Viktor"
	if err := s.UpdateContact(ctx, id, ContactUpdate{Name: &name}); err != nil {
		t.Fatalf("UpdateContact error: %v", err)
	}
	phone := "+420777123456"
	if err := s.UpdateContact(ctx, id, ContactUpdate{Phone: &phone}); err != nil {
		t.Fatalf("UpdateContact error: %v", err)
	}

	sess, _ := s.GetSession(ctx, id)
	if sess.Name != "Viktor" || sess.Phone != "+420777123456" {
		t.Errorf("contact = %q/%q, phone update must not clear name", sess.Name, sess.Phone)
	}

	// Empty update touches nothing.
	if err := s.UpdateContact(ctx, id, ContactUpdate{}); err != nil {
		t.Fatalf("empty UpdateContact error: %v", err)
	}
	sess, _ = s.GetSession(ctx, id)
	if sess.Name != "Viktor" {
		t.Errorf("name = %q after empty update", sess.Name)
	}
}

func TestSetFact(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	id, _ := s.UpsertSession(ctx, "telegram:1", "telegram")

	if err := s.SetFact(ctx, id, "country", "Czech Republic"); err != nil {
		t.Fatalf("SetFact error: %v", err)
	}
	if err := s.SetFact(ctx, id, "bogus", "x"); err == nil {
		t.Fatal("expected error for unknown fact field")
	}

	sess, _ := s.GetSession(ctx, id)
	if sess.Country != "Czech Republic" {
		t.Errorf("country = %q", sess.Country)
	}
}

func TestAdvanceStageConditional(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	id, _ := s.UpsertSession(ctx, "telegram:1", "telegram")

	ok, err := s.AdvanceStage(ctx, id, "intro", "discovery")
	if err != nil || !ok {
		t.Fatalf("AdvanceStage = %v/%v, want applied", ok, err)
	}
	// Stale transition does not fire twice.
	ok, err = s.AdvanceStage(ctx, id, "intro", "discovery")
	if err != nil || ok {
		t.Fatalf("stale AdvanceStage = %v/%v, want not applied", ok, err)
	}

	sess, _ := s.GetSession(ctx, id)
	if sess.Stage != "discovery" {
		t.Errorf("stage = %q", sess.Stage)
	}
}

func TestMarkAskedConcurrent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	id, _ := s.UpsertSession(ctx, "telegram:1", "telegram")

	const workers = 8
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.MarkAsked(ctx, id, "name"); err != nil {
				t.Errorf("MarkAsked error: %v", err)
			}
		}()
	}
	wg.Wait()

	asked, err := s.Asked(ctx, id)
	if err != nil {
		t.Fatalf("Asked error: %v", err)
	}
	if asked["name"] != workers {
		t.Errorf("attempts = %d, want %d", asked["name"], workers)
	}
}

func TestSaveMessageSequencing(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	id, _ := s.UpsertSession(ctx, "telegram:1", "telegram")

	for i := 0; i < 5; i++ {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		if _, err := s.SaveMessage(ctx, SaveMessageParams{
			SessionID: id,
			Role:      role,
			Content:   fmt.Sprintf("message %d", i),
			Lang:      "en",
		}); err != nil {
			t.Fatalf("SaveMessage error: %v", err)
		}
	}

	msgs, err := s.LoadRecentMessages(ctx, id, 10)
	if err != nil {
		t.Fatalf("LoadRecentMessages error: %v", err)
	}
	if len(msgs) != 5 {
		t.Fatalf("got %d messages, want 5", len(msgs))
	}
	for i, m := range msgs {
		if m.Seq != i+1 {
			t.Errorf("msgs[%d].Seq = %d, want %d", i, m.Seq, i+1)
		}
	}

	limited, _ := s.LoadRecentMessages(ctx, id, 2)
	if len(limited) != 2 || limited[0].Seq != 4 || limited[1].Seq != 5 {
		t.Errorf("limited window = %+v, want last two oldest-first", limited)
	}
}

func TestSaveMessageRejectsBadRole(t *testing.T) {
	s := openTestStore(t)
	id, _ := s.UpsertSession(context.Background(), "telegram:1", "telegram")
	if _, err := s.SaveMessage(context.Background(), SaveMessageParams{SessionID: id, Role: "system", Content: "x"}); err == nil {
		t.Fatal("expected error for invalid role")
	}
}

func TestGetPreviousUserUtterance(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	id, _ := s.UpsertSession(ctx, "telegram:1", "telegram")

	if _, err := s.GetPreviousUserUtterance(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound on empty history", err)
	}

	save := func(role, content string) {
		t.Helper()
		if _, err := s.SaveMessage(ctx, SaveMessageParams{SessionID: id, Role: role, Content: content}); err != nil {
			t.Fatalf("SaveMessage error: %v", err)
		}
	}
	save("user", "how much does it cost")
	save("assistant", "our rate is ...")
	save("user", "I would answer: let's proceed")

	prev, err := s.GetPreviousUserUtterance(ctx, id)
	if err != nil {
		t.Fatalf("GetPreviousUserUtterance error: %v", err)
	}
	if prev.Content != "how much does it cost" {
		t.Errorf("previous utterance = %q", prev.Content)
	}
}

func TestSummaryUpsert(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	id, _ := s.UpsertSession(ctx, "telegram:1", "telegram")

	if _, err := s.LoadLatestSummary(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := s.SaveSummary(ctx, id, 4, "first"); err != nil {
		t.Fatalf("SaveSummary error: %v", err)
	}
	if err := s.SaveSummary(ctx, id, 4, "replaced"); err != nil {
		t.Fatalf("SaveSummary upsert error: %v", err)
	}
	if err := s.SaveSummary(ctx, id, 2, "older"); err != nil {
		t.Fatalf("SaveSummary error: %v", err)
	}

	got, err := s.LoadLatestSummary(ctx, id)
	if err != nil {
		t.Fatalf("LoadLatestSummary error: %v", err)
	}
	if got != "replaced" {
		t.Errorf("latest summary = %q, want replaced", got)
	}
}

func TestSessionsNeedingSummary(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	id, _ := s.UpsertSession(ctx, "telegram:1", "telegram")

	for i := 0; i < 4; i++ {
		if _, err := s.IncrementTurn(ctx, id); err != nil {
			t.Fatalf("IncrementTurn error: %v", err)
		}
	}

	due, err := s.SessionsNeedingSummary(ctx, 3)
	if err != nil {
		t.Fatalf("SessionsNeedingSummary error: %v", err)
	}
	if len(due) != 1 || due[0].SessionID != id || due[0].TurnCount != 4 {
		t.Fatalf("due = %+v, want session %d at turn 4", due, id)
	}

	if err := s.SaveSummary(ctx, id, 4, "caught up"); err != nil {
		t.Fatalf("SaveSummary error: %v", err)
	}
	due, _ = s.SessionsNeedingSummary(ctx, 3)
	if len(due) != 0 {
		t.Errorf("due = %+v after summary, want none", due)
	}
}

func TestTranslationCacheInsertIfAbsent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, hit, err := s.GetTranslation(ctx, "ru", "en", "h1"); err != nil || hit {
		t.Fatalf("GetTranslation = hit=%v err=%v, want miss", hit, err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if err := s.PutTranslation(ctx, "ru", "en", "h1", "привет", "hello"); err != nil {
				t.Errorf("PutTranslation error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	got, hit, err := s.GetTranslation(ctx, "ru", "en", "h1")
	if err != nil || !hit || got != "hello" {
		t.Fatalf("GetTranslation = %q/%v/%v, want hello hit", got, hit, err)
	}

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM translation_cache").Scan(&count); err != nil {
		t.Fatalf("count error: %v", err)
	}
	if count != 1 {
		t.Errorf("cache rows = %d, want exactly 1", count)
	}
}

func TestKBInsertAndList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id1, err := s.KBInsertAnswer(ctx, "expensive", "en", "answer one", true, "too expensive")
	if err != nil {
		t.Fatalf("KBInsertAnswer error: %v", err)
	}
	id2, _ := s.KBInsertAnswer(ctx, "expensive", "en", "answer two", true, "price too high")
	_, _ = s.KBInsertAnswer(ctx, "expensive", "en", "inactive", false, "ignored")
	_, _ = s.KBInsertAnswer(ctx, "expensive", "ru", "other lang", true, "дорого")

	items, err := s.KBActiveItems(ctx, "expensive", "en")
	if err != nil {
		t.Fatalf("KBActiveItems error: %v", err)
	}
	if len(items) != 2 || items[0].ID != id1 || items[1].ID != id2 {
		t.Fatalf("items = %+v, want two active en items in insert order", items)
	}
}

func TestReplyAuditCategory(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	id, _ := s.UpsertSession(ctx, "telegram:1", "telegram")

	if _, err := s.LastAuditCategory(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	if err := s.LogReply(ctx, ReplyAudit{SessionID: id, Strategy: "kb_hit", Category: "expensive"}); err != nil {
		t.Fatalf("LogReply error: %v", err)
	}
	// Strategy rows without a category are skipped when recovering it.
	if err := s.LogReply(ctx, ReplyAudit{SessionID: id, Strategy: "cmd"}); err != nil {
		t.Fatalf("LogReply error: %v", err)
	}

	got, err := s.LastAuditCategory(ctx, id)
	if err != nil {
		t.Fatalf("LastAuditCategory error: %v", err)
	}
	if got != "expensive" {
		t.Errorf("category = %q, want expensive", got)
	}
}
