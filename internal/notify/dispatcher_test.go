package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"hirepulse/internal/repository"
	"hirepulse/internal/usecase"

	"github.com/google/uuid"
)

type stubPrefs struct {
	users       []repository.UserPreference
	listErr     error
	deactivated []int64
}

func (s *stubPrefs) Upsert(context.Context, repository.UserPreference) error { return nil }

func (s *stubPrefs) FindByUserID(context.Context, int64) (repository.UserPreference, error) {
	return repository.UserPreference{}, repository.ErrPreferenceNotFound
}

func (s *stubPrefs) ListActive(context.Context) ([]repository.UserPreference, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.users, nil
}

func (s *stubPrefs) Deactivate(_ context.Context, userID int64) error {
	s.deactivated = append(s.deactivated, userID)
	return nil
}

type stubLedger struct {
	seen     map[int64]map[uuid.UUID]struct{}
	recorded int
}

func newStubLedger() *stubLedger {
	return &stubLedger{seen: map[int64]map[uuid.UUID]struct{}{}}
}

func (s *stubLedger) SeenVacancyIDs(_ context.Context, userID int64) (map[uuid.UUID]struct{}, error) {
	return s.seen[userID], nil
}

func (s *stubLedger) Record(_ context.Context, userID int64, vacancyID uuid.UUID, _ string) error {
	if s.seen[userID] == nil {
		s.seen[userID] = map[uuid.UUID]struct{}{}
	}
	s.seen[userID][vacancyID] = struct{}{}
	s.recorded++
	return nil
}

func (s *stubLedger) StatsSince(context.Context, time.Time) (repository.NotificationStats, error) {
	return repository.NotificationStats{}, nil
}

// stubMatcher hands out its fixed matches minus whatever the ledger already
// holds, mirroring the seen-exclusion the real matcher applies.
type stubMatcher struct {
	matches map[int64][]usecase.Match
	ledger  *stubLedger
}

func (s *stubMatcher) FindMatches(_ context.Context, userID int64) []usecase.Match {
	var out []usecase.Match
	for _, m := range s.matches[userID] {
		if s.ledger != nil {
			if _, ok := s.ledger.seen[userID][m.Vacancy.ID]; ok {
				continue
			}
		}
		out = append(out, m)
	}
	return out
}

type stubSender struct {
	calls      int
	failOnCall map[int]error
}

func (s *stubSender) Send(context.Context, int64, string, Keyboard) error {
	s.calls++
	if err, ok := s.failOnCall[s.calls]; ok {
		return err
	}
	return nil
}

func matchFor(title string) usecase.Match {
	return usecase.Match{
		Vacancy:     repository.Vacancy{ID: uuid.New(), Title: title, Category: "IT", IsActive: true},
		MatchCount:  2,
		MatchedTags: []string{"React", "Senior"},
	}
}

func TestRunCycle_SendsAndRecords(t *testing.T) {
	prefs := &stubPrefs{users: []repository.UserPreference{{UserID: 42, IsActive: true}}}
	ledger := newStubLedger()
	matcher := &stubMatcher{
		matches: map[int64][]usecase.Match{42: {matchFor("Frontend Dev"), matchFor("Backend Dev")}},
		ledger:  ledger,
	}
	sender := &stubSender{}

	d := NewDispatcher(prefs, matcher, ledger, sender, nil, nil, nil)
	res := d.RunCycle(context.Background())

	if res.Sent != 2 || res.Errors != 0 || res.UsersProcessed != 1 {
		t.Fatalf("unexpected cycle result: %+v", res)
	}
	if ledger.recorded != 2 {
		t.Fatalf("expected 2 ledger rows, got %d", ledger.recorded)
	}
	if sender.calls != 2 {
		t.Fatalf("expected 2 sends, got %d", sender.calls)
	}
}

func TestRunCycle_BlockedRecipientDeactivatesAndStops(t *testing.T) {
	prefs := &stubPrefs{users: []repository.UserPreference{{UserID: 42, IsActive: true}}}
	ledger := newStubLedger()
	matcher := &stubMatcher{
		matches: map[int64][]usecase.Match{42: {matchFor("Frontend Dev"), matchFor("Backend Dev")}},
		ledger:  ledger,
	}
	sender := &stubSender{failOnCall: map[int]error{1: ErrRecipientBlocked}}

	d := NewDispatcher(prefs, matcher, ledger, sender, nil, nil, nil)
	res := d.RunCycle(context.Background())

	if res.Sent != 0 || res.Errors != 1 {
		t.Fatalf("unexpected cycle result: %+v", res)
	}
	if sender.calls != 1 {
		t.Fatalf("expected remaining vacancies skipped after block, got %d sends", sender.calls)
	}
	if ledger.recorded != 0 {
		t.Fatalf("blocked delivery must not reach the ledger, got %d rows", ledger.recorded)
	}
	if len(prefs.deactivated) != 1 || prefs.deactivated[0] != 42 {
		t.Fatalf("expected user 42 deactivated, got %v", prefs.deactivated)
	}
}

func TestRunCycle_TransientErrorContinues(t *testing.T) {
	prefs := &stubPrefs{users: []repository.UserPreference{{UserID: 42, IsActive: true}}}
	ledger := newStubLedger()
	matcher := &stubMatcher{
		matches: map[int64][]usecase.Match{42: {matchFor("Frontend Dev"), matchFor("Backend Dev")}},
		ledger:  ledger,
	}
	sender := &stubSender{failOnCall: map[int]error{1: errors.New("network hiccup")}}

	d := NewDispatcher(prefs, matcher, ledger, sender, nil, nil, nil)
	res := d.RunCycle(context.Background())

	if res.Sent != 1 || res.Errors != 1 {
		t.Fatalf("unexpected cycle result: %+v", res)
	}
	if ledger.recorded != 1 {
		t.Fatalf("only the successful send belongs in the ledger, got %d rows", ledger.recorded)
	}
	if len(prefs.deactivated) != 0 {
		t.Fatalf("transient failure must not deactivate, got %v", prefs.deactivated)
	}
}

func TestRunCycle_NoRepeatAcrossCycles(t *testing.T) {
	prefs := &stubPrefs{users: []repository.UserPreference{{UserID: 42, IsActive: true}}}
	ledger := newStubLedger()
	matcher := &stubMatcher{
		matches: map[int64][]usecase.Match{42: {matchFor("Frontend Dev")}},
		ledger:  ledger,
	}
	sender := &stubSender{}

	d := NewDispatcher(prefs, matcher, ledger, sender, nil, nil, nil)

	first := d.RunCycle(context.Background())
	if first.Sent != 1 {
		t.Fatalf("expected 1 send in first cycle, got %+v", first)
	}

	second := d.RunCycle(context.Background())
	if second.Sent != 0 {
		t.Fatalf("expected recorded vacancy excluded from second cycle, got %+v", second)
	}
	if sender.calls != 1 {
		t.Fatalf("expected no repeat delivery, got %d sends total", sender.calls)
	}
}

func TestRunCycle_ListActiveError(t *testing.T) {
	prefs := &stubPrefs{listErr: errors.New("connection refused")}
	d := NewDispatcher(prefs, &stubMatcher{}, newStubLedger(), &stubSender{}, nil, nil, nil)

	res := d.RunCycle(context.Background())
	if res.Sent != 0 || res.Errors != 0 || res.UsersProcessed != 0 {
		t.Fatalf("expected empty result on subscriber load failure, got %+v", res)
	}
}
