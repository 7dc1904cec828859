package derive

import (
	"testing"
	"time"

	"github.com/anthonyi7/minecraft-dashboard/internal/event"
)

var dayStart = time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)

func day() Window {
	return Window{From: dayStart, Until: dayStart.AddDate(0, 0, 1)}
}

func ev(id int64, name, kind string, at time.Time) event.Event {
	return event.Event{ID: id, PlayerName: name, Kind: kind, At: at}
}

func TestSessions_ClosedAndOpen(t *testing.T) {
	t0 := dayStart.Add(8 * time.Hour)
	t1 := dayStart.Add(9 * time.Hour)
	t2 := dayStart.Add(10 * time.Hour)
	now := dayStart.Add(12 * time.Hour)

	events := []event.Event{
		ev(1, "A", event.KindJoin, t0),
		ev(2, "A", event.KindLeave, t1),
		ev(3, "A", event.KindJoin, t2),
	}

	sessions := Sessions(events, day(), now)
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}

	if sessions[0].Open || sessions[0].Duration() != time.Hour {
		t.Errorf("first session = %+v, want closed 1h", sessions[0])
	}
	if !sessions[1].Open || sessions[1].Duration() != 2*time.Hour {
		t.Errorf("second session = %+v, want open 2h (ends at now)", sessions[1])
	}
}

func TestSessions_LoneLeaveExcluded(t *testing.T) {
	events := []event.Event{
		ev(1, "B", event.KindLeave, dayStart.Add(3 * time.Hour)),
	}
	sessions := Sessions(events, day(), dayStart.Add(12*time.Hour))
	if len(sessions) != 0 {
		t.Fatalf("lone leave produced %d sessions, want 0", len(sessions))
	}
}

func TestSessions_JoinBeforeWindowNotCounted(t *testing.T) {
	// A player who joined yesterday and is still online: no join inside the
	// window means no session, even though their latest event is a join.
	w := day()
	events := []event.Event{
		ev(1, "A", event.KindJoin, dayStart.Add(-2 * time.Hour)),
	}
	sessions := Sessions(events, w, dayStart.Add(6*time.Hour))
	if len(sessions) != 0 {
		t.Fatalf("pre-window join produced %d sessions, want 0", len(sessions))
	}
}

func TestSessions_DoubledJoinsNeverReuseALeave(t *testing.T) {
	t0 := dayStart.Add(8 * time.Hour)
	t1 := dayStart.Add(9 * time.Hour)
	t2 := dayStart.Add(10 * time.Hour)
	now := dayStart.Add(11 * time.Hour)

	// join, join, leave: the leave closes exactly one of the joins.
	events := []event.Event{
		ev(1, "A", event.KindJoin, t0),
		ev(2, "A", event.KindJoin, t1),
		ev(3, "A", event.KindLeave, t2),
	}

	sessions := Sessions(events, day(), now)
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}
	closed, open := 0, 0
	for _, s := range sessions {
		if s.Open {
			open++
		} else {
			closed++
			if !s.End.Equal(t2) {
				t.Errorf("closed session ends at %v, want %v", s.End, t2)
			}
		}
	}
	if closed != 1 || open != 1 {
		t.Errorf("closed=%d open=%d, want exactly one of each", closed, open)
	}
}

func TestSessions_PastWindowClampsOpenSessions(t *testing.T) {
	// Yesterday's report queried today: an unclosed join is clamped to the
	// window end rather than running to now.
	w := day()
	now := dayStart.AddDate(0, 0, 1).Add(6 * time.Hour)
	events := []event.Event{
		ev(1, "A", event.KindJoin, dayStart.Add(23 * time.Hour)),
	}

	sessions := Sessions(events, w, now)
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(sessions))
	}
	if sessions[0].Duration() != time.Hour {
		t.Errorf("duration = %v, want 1h (clamped to window end)", sessions[0].Duration())
	}
}

func TestSessions_LeaveAfterWindowStillClosesSession(t *testing.T) {
	// Join before yesterday's midnight boundary, leave after it: the session
	// is anchored to the join and keeps its real leave time.
	w := day()
	now := dayStart.AddDate(0, 0, 1).Add(6 * time.Hour)
	events := []event.Event{
		ev(1, "A", event.KindJoin, dayStart.Add(23 * time.Hour)),
		ev(2, "A", event.KindLeave, dayStart.Add(25 * time.Hour)),
	}

	sessions := Sessions(events, w, now)
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(sessions))
	}
	if sessions[0].Duration() != 2*time.Hour {
		t.Errorf("duration = %v, want 2h", sessions[0].Duration())
	}
}

func TestDayStats_ConcreteScenario(t *testing.T) {
	// Steve joins 08:00, leaves 09:30, window starts at midnight, now noon.
	events := []event.Event{
		ev(1, "Steve", event.KindJoin, time.Date(2024, 2, 15, 8, 0, 0, 0, time.UTC)),
		ev(2, "Steve", event.KindLeave, time.Date(2024, 2, 15, 9, 30, 0, 0, time.UTC)),
	}
	latest := map[string]event.Event{"Steve": events[1]}
	now := time.Date(2024, 2, 15, 12, 0, 0, 0, time.UTC)

	stats := DayStats(events, latest, day(), now)
	if len(stats) != 1 {
		t.Fatalf("got %d players, want 1", len(stats))
	}
	got := stats[0]
	if got.Name != "Steve" {
		t.Errorf("name = %q", got.Name)
	}
	if got.TotalSeconds != 5400 {
		t.Errorf("total seconds = %d, want 5400", got.TotalSeconds)
	}
	if got.SessionCount != 1 {
		t.Errorf("session count = %d, want 1", got.SessionCount)
	}
	if got.CurrentlyOnline {
		t.Error("currently online = true, want false")
	}
}

func TestDayStats_OnlineFromGlobalLatestEvent(t *testing.T) {
	t0 := dayStart.Add(8 * time.Hour)
	now := dayStart.Add(12 * time.Hour)
	events := []event.Event{
		ev(1, "A", event.KindJoin, t0),
		ev(2, "A", event.KindLeave, t0.Add(time.Hour)),
		ev(3, "A", event.KindJoin, t0.Add(2*time.Hour)),
	}
	latest := map[string]event.Event{"A": events[2]}

	stats := DayStats(events, latest, day(), now)
	if len(stats) != 1 {
		t.Fatalf("got %d players, want 1", len(stats))
	}
	if !stats[0].CurrentlyOnline {
		t.Error("expected A online: latest event is a join")
	}
	if stats[0].SessionCount != 2 {
		t.Errorf("session count = %d, want 2", stats[0].SessionCount)
	}
	// 1h closed + 2h open = 3h.
	if stats[0].TotalSeconds != 3*3600 {
		t.Errorf("total seconds = %d, want %d", stats[0].TotalSeconds, 3*3600)
	}
}

func TestDayStats_SortedByPlaytimeDescending(t *testing.T) {
	t0 := dayStart.Add(8 * time.Hour)
	events := []event.Event{
		ev(1, "Short", event.KindJoin, t0),
		ev(2, "Short", event.KindLeave, t0.Add(10*time.Minute)),
		ev(3, "Long", event.KindJoin, t0),
		ev(4, "Long", event.KindLeave, t0.Add(2*time.Hour)),
	}
	stats := DayStats(events, nil, day(), dayStart.Add(12*time.Hour))
	if len(stats) != 2 {
		t.Fatalf("got %d players, want 2", len(stats))
	}
	if stats[0].Name != "Long" || stats[1].Name != "Short" {
		t.Errorf("order = [%s, %s], want [Long, Short]", stats[0].Name, stats[1].Name)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "0s"},
		{42, "42s"},
		{60, "1m"},
		{3540, "59m"},
		{3600, "1h"},
		{7500, "2h 5m"},
		{5400, "1h 30m"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.seconds); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}
