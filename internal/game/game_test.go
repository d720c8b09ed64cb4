package game

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeNarrator struct {
	replies []string
	err     error
	calls   [][]Message
}

func (f *fakeNarrator) Send(ctx context.Context, transcript []Message) (Message, error) {
	f.calls = append(f.calls, transcript)
	if f.err != nil {
		return Message{}, f.err
	}
	reply := "The wind shifts."
	if len(f.replies) > 0 {
		reply = f.replies[0]
		f.replies = f.replies[1:]
	}
	return Message{Role: RoleAssistant, Content: reply}, nil
}

type fakeSaver struct {
	records []SessionRecord
	err     error
}

func (f *fakeSaver) Save(record SessionRecord) (string, error) {
	f.records = append(f.records, record)
	if f.err != nil {
		return "", f.err
	}
	return "saves/output_test.json", nil
}

type fakeRecorder struct {
	turns []TurnRecord
}

func (f *fakeRecorder) RecordTurn(ctx context.Context, rec TurnRecord) error {
	f.turns = append(f.turns, rec)
	return errors.New("disk full")
}

func testStore(t *testing.T) *LocationStore {
	t.Helper()
	store, err := ParseLocations(strings.NewReader(`x,y,description
0,0,desert clearing
0,1,desert clearing
0,2,rocky outcrop
1,0,rocky outcrop
`))
	if err != nil {
		t.Fatalf("ParseLocations err: %v", err)
	}
	return store
}

func newTestGame(t *testing.T) (*Game, *fakeNarrator, *fakeSaver) {
	t.Helper()
	narrator := &fakeNarrator{}
	saver := &fakeSaver{}
	g := New(narrator, testStore(t), saver, DefaultModelSettings())
	if err := g.StartNew(nil); err != nil {
		t.Fatalf("StartNew err: %v", err)
	}
	return g, narrator, saver
}

func presenceMessages(msgs []Message) []Message {
	var out []Message
	for _, m := range msgs {
		if m.Role == RoleSystem && strings.HasPrefix(m.Content, "Present at the current location is ") {
			out = append(out, m)
		}
	}
	return out
}

// The presence message is sent when the description is the same as the
// previous one, not when it changes.
func TestTurnPresenceOnUnchangedDescription(t *testing.T) {
	g, narrator, _ := newTestGame(t)

	result, err := g.Turn(context.Background(), "n")
	if err != nil {
		t.Fatalf("Turn err: %v", err)
	}
	if result.Position != (Coordinate{0, 1}) || result.Location != "desert clearing" {
		t.Fatalf("unexpected result %+v", result)
	}
	if !result.PresenceAnnounced {
		t.Error("expected presence to be announced")
	}

	sent := narrator.calls[0]
	if got := presenceMessages(sent); len(got) != 1 || got[0].Content != "Present at the current location is desert clearing" {
		t.Errorf("presence messages sent = %+v", got)
	}
	if sent[len(sent)-2] != (Message{RoleUser, "I move north"}) {
		t.Errorf("expected user message before presence, got %+v", sent[len(sent)-2])
	}
}

func TestTurnNoPresenceOnChangedDescription(t *testing.T) {
	g, narrator, _ := newTestGame(t)

	if _, err := g.Turn(context.Background(), "n"); err != nil {
		t.Fatal(err)
	}
	result, err := g.Turn(context.Background(), "north")
	if err != nil {
		t.Fatal(err)
	}
	if result.Location != "rocky outcrop" || result.PresenceAnnounced {
		t.Fatalf("unexpected result %+v", result)
	}

	before := len(presenceMessages(narrator.calls[0]))
	after := len(presenceMessages(narrator.calls[1]))
	if after != before {
		t.Errorf("changed description appended %d presence messages", after-before)
	}
	last := narrator.calls[1][len(narrator.calls[1])-1]
	if last != (Message{RoleUser, "I move north"}) {
		t.Errorf("last message sent = %+v", last)
	}
}

func TestTurnCommitsTranscript(t *testing.T) {
	g, narrator, _ := newTestGame(t)
	narrator.replies = []string{"A lizard darts under a rock."}

	result, err := g.Turn(context.Background(), "look for shade")
	if err != nil {
		t.Fatal(err)
	}
	if result.Input != "look for shade" || result.Position != (Coordinate{}) {
		t.Errorf("unexpected result %+v", result)
	}

	msgs := g.Session().Messages()
	want := []Message{
		{RoleSystem, Preamble},
		{RoleUser, "look for shade"},
		{RoleSystem, "Present at the current location is desert clearing"},
		{RoleAssistant, "A lizard darts under a rock."},
	}
	if len(msgs) != len(want) {
		t.Fatalf("transcript = %+v", msgs)
	}
	for i := range want {
		if msgs[i] != want[i] {
			t.Errorf("message %d = %+v, want %+v", i, msgs[i], want[i])
		}
	}

	// The narrator sees everything except its own reply.
	if len(narrator.calls[0]) != 3 {
		t.Errorf("narrator received %d messages, want 3", len(narrator.calls[0]))
	}
}

func TestTranscriptNeverShrinks(t *testing.T) {
	g, narrator, _ := newTestGame(t)
	prev := g.Session().Len()
	for i, line := range []string{"n", "", "s", "e", "e", "wait", "w"} {
		if i == 4 {
			narrator.err = errors.New("boom")
		} else {
			narrator.err = nil
		}
		g.Turn(context.Background(), line)
		if g.Session().Len() < prev {
			t.Fatalf("transcript shrank after %q", line)
		}
		prev = g.Session().Len()
	}
}

func TestTurnExitSavesWithoutNarrator(t *testing.T) {
	g, narrator, saver := newTestGame(t)
	if _, err := g.Turn(context.Background(), "n"); err != nil {
		t.Fatal(err)
	}
	callsBefore := len(narrator.calls)

	result, err := g.Turn(context.Background(), "  EXIT ")
	if err != nil {
		t.Fatalf("Turn err: %v", err)
	}
	if !result.Exited || result.SavePath == "" {
		t.Errorf("unexpected result %+v", result)
	}
	if len(saver.records) != 1 {
		t.Errorf("expected 1 save, got %d", len(saver.records))
	}
	if len(narrator.calls) != callsBefore {
		t.Errorf("exit called the narrator")
	}

	rec := saver.records[0]
	if rec.X != 0 || rec.Y != 1 || rec.Location != "desert clearing" || len(rec.Messages) != g.Session().Len() {
		t.Errorf("unexpected saved record %+v", rec)
	}
}

func TestTurnExitSaveFailure(t *testing.T) {
	g, _, saver := newTestGame(t)
	saver.err = errors.New("read-only file system")

	result, err := g.Turn(context.Background(), "exit")
	if err == nil {
		t.Fatal("expected save error")
	}
	if result.Exited {
		t.Error("failed save must not report exit")
	}
}

func TestTurnNarratorFailureLeavesSessionUnchanged(t *testing.T) {
	g, narrator, _ := newTestGame(t)
	narrator.err = errors.New("connection refused")
	before := g.Session().Messages()

	_, err := g.Turn(context.Background(), "n")
	if err == nil {
		t.Fatal("expected error")
	}

	after := g.Session().Messages()
	if len(after) != len(before) {
		t.Errorf("transcript changed on failure: %+v", after)
	}
	if g.Session().Position() != (Coordinate{}) || g.Session().Location() != "desert clearing" {
		t.Errorf("position changed on failure: %v", g.Session().Position())
	}

	narrator.err = nil
	result, err := g.Turn(context.Background(), "n")
	if err != nil {
		t.Fatalf("retry err: %v", err)
	}
	if result.Position != (Coordinate{0, 1}) {
		t.Errorf("retry position = %v", result.Position)
	}
}

func TestTurnUnknownLocation(t *testing.T) {
	g, narrator, _ := newTestGame(t)

	_, err := g.Turn(context.Background(), "w")
	if !errors.Is(err, ErrLocationNotFound) {
		t.Fatalf("expected ErrLocationNotFound, got %v", err)
	}
	if len(narrator.calls) != 0 {
		t.Error("narrator called for unknown location")
	}
	if g.Session().Position() != (Coordinate{}) || g.Session().Len() != 1 {
		t.Error("session changed after unknown location")
	}
}

func TestTurnEmptyInputSkipped(t *testing.T) {
	g, narrator, saver := newTestGame(t)

	result, err := g.Turn(context.Background(), "   ")
	if err != nil {
		t.Fatal(err)
	}
	if !result.Skipped {
		t.Error("expected skipped turn")
	}
	if len(narrator.calls) != 0 || len(saver.records) != 0 || g.Session().Len() != 1 {
		t.Error("blank input had side effects")
	}
}

func TestTurnRecordsAttempts(t *testing.T) {
	narrator := &fakeNarrator{replies: []string{"Dust rises."}}
	recorder := &fakeRecorder{}
	g := New(narrator, testStore(t), &fakeSaver{}, DefaultModelSettings(),
		WithRecorder(recorder), WithSessionID("session-1"))
	if err := g.StartNew(nil); err != nil {
		t.Fatal(err)
	}

	// Recorder errors do not fail the turn.
	if _, err := g.Turn(context.Background(), "e"); err != nil {
		t.Fatalf("Turn err: %v", err)
	}
	narrator.err = errors.New("timeout")
	g.Turn(context.Background(), "look")

	if len(recorder.turns) != 2 {
		t.Fatalf("expected 2 recorded turns, got %d", len(recorder.turns))
	}
	first := recorder.turns[0]
	if first.SessionID != "session-1" || first.Input != "I move east" || first.Reply != "Dust rises." ||
		first.Position != (Coordinate{1, 0}) || first.Location != "rocky outcrop" || first.Err != nil {
		t.Errorf("unexpected first record %+v", first)
	}
	if recorder.turns[1].Err == nil {
		t.Error("expected failed attempt to carry its error")
	}
}

func TestStartNewWithPreferences(t *testing.T) {
	g := New(&fakeNarrator{}, testStore(t), &fakeSaver{}, DefaultModelSettings())
	err := g.StartNew(&WorldPreferences{
		Setting:     "a red desert",
		Inhabitants: "nomads and a grumpy camel",
		Goal:        "find water",
	})
	if err != nil {
		t.Fatal(err)
	}

	msgs := g.Session().Messages()
	want := []string{
		Preamble,
		"The scene looks like a red desert",
		"The people/animals in the setting are nomads and a grumpy camel",
		"The user wishes to resolve or achieve find water",
	}
	if len(msgs) != len(want) {
		t.Fatalf("transcript = %+v", msgs)
	}
	for i, content := range want {
		if msgs[i].Role != RoleSystem || msgs[i].Content != content {
			t.Errorf("message %d = %+v", i, msgs[i])
		}
	}
	if g.Session().Location() != "desert clearing" {
		t.Errorf("location = %q", g.Session().Location())
	}
}

func TestStartNewMissingOrigin(t *testing.T) {
	store, err := ParseLocations(strings.NewReader("x,y,description\n1,1,hill\n"))
	if err != nil {
		t.Fatal(err)
	}
	g := New(&fakeNarrator{}, store, &fakeSaver{}, DefaultModelSettings())
	if err := g.StartNew(&WorldPreferences{Setting: "x"}); !errors.Is(err, ErrLocationNotFound) {
		t.Fatalf("expected ErrLocationNotFound, got %v", err)
	}
	if g.Session().Len() != 1 {
		t.Error("preferences appended despite failed start")
	}
}
