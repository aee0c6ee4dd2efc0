package game

import (
	"context"
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/tenfreethrows/freethrows/internal/config"
	"github.com/tenfreethrows/freethrows/internal/physics"
)

const frame = 1.0 / 60

type fakeSlot struct {
	data   []byte
	saves  int
	clears int
}

func (s *fakeSlot) Load(ctx context.Context) ([]byte, error) {
	if s.data == nil {
		return nil, ErrSlotEmpty
	}
	return s.data, nil
}

func (s *fakeSlot) Save(ctx context.Context, data []byte) error {
	s.saves++
	s.data = append([]byte(nil), data...)
	return nil
}

func (s *fakeSlot) Clear(ctx context.Context) error {
	s.clears++
	s.data = nil
	return nil
}

func clockAt(day string) func() time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04", day+" 12:00", time.Local)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

func newTestCore(t *testing.T, mutate ...func(*Options)) *Core {
	t.Helper()
	opts := Options{
		Tuning: config.DefaultTuning(),
		Now:    clockAt("2025-09-10"),
	}
	for _, m := range mutate {
		m(&opts)
	}
	c, err := New(context.Background(), opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func withSlot(s Slot) func(*Options) {
	return func(o *Options) { o.Slot = s }
}

func withShots(n int) func(*Options) {
	return func(o *Options) { o.Tuning.Rules.Shots = n }
}

func place(c *Core, x, y float64) {
	c.ball.Body.Position = physics.V(x, y)
}

// makeShot drives a shot through the hoop by placing the ball, then waits
// for the respawn.
func makeShot(c *Core, touched bool) {
	c.Shoot(0, -1)
	if touched {
		c.ball.HitRim = true
	}
	place(c, 675, 150)
	c.Update(0)
	place(c, 675, 180)
	c.Update(0)
	place(c, 675, 260)
	c.Update(0)
	c.Update(1.0)
}

func missShot(c *Core) {
	c.Shoot(0, -1)
	c.EndShot(false)
	c.Update(0.4)
}

func stepFrame(c *Core) {
	c.World().Advance(frame)
	c.Update(frame)
}

func TestNewCoreSpawnsBallOnLine(t *testing.T) {
	c := newTestCore(t)

	if !c.BallAtRest() {
		t.Fatalf("ball should be at rest after start")
	}
	if got := c.ball.Body.Position; got != physics.V(200, 547) {
		t.Errorf("spawn position = %+v, want (200, 547)", got)
	}
	if s := c.State(); s.ShotsLeft != 10 || s.Score != 0 || s.Practice {
		t.Errorf("unexpected initial state %+v", s)
	}
	if !c.CanShoot() {
		t.Errorf("should be able to shoot at start")
	}
	if n := len(c.World().Find(physics.LabelRim)); n != 2 {
		t.Errorf("rim pegs = %d, want 2", n)
	}
	if n := len(c.World().Find(physics.LabelBackboard)); n != 1 {
		t.Errorf("backboards = %d, want 1", n)
	}
}

func TestShootOnlyFromRest(t *testing.T) {
	c := newTestCore(t)

	c.Shoot(5, -20)
	b := c.ball.Body
	if c.ball.AtRest || !c.ball.ShotTaken {
		t.Fatalf("ball should be in flight after shoot")
	}
	if b.Static {
		t.Errorf("ball should be released")
	}
	wantSpin := 5.0/28*0.8 + math.Hypot(5, -20)*-0.02
	if math.Abs(b.AngularVelocity-wantSpin) > 1e-12 {
		t.Errorf("spin = %v, want %v", b.AngularVelocity, wantSpin)
	}

	c.Shoot(100, 100)
	if b.Velocity != physics.V(5, -20) {
		t.Errorf("second shoot mid-flight changed velocity to %+v", b.Velocity)
	}
}

func TestSwishScoresBonus(t *testing.T) {
	c := newTestCore(t)
	c.Shoot(0, -1)

	place(c, 675, 150)
	c.Update(frame)
	if !c.ball.IsAboveHoop {
		t.Fatalf("ball between pegs above rim should be marked above hoop")
	}
	place(c, 675, 180)
	c.Update(frame)

	s := c.State()
	if s.Score != 2 || s.Streak != 1 || s.BestStreak != 1 {
		t.Errorf("after swish state = %+v, want score 2 streak 1 best 1", s)
	}
	if !c.ball.Swish {
		t.Errorf("ball should be flagged as swish")
	}
	if c.Toast().Message != MsgSwish {
		t.Errorf("toast = %q, want %q", c.Toast().Message, MsgSwish)
	}
}

func TestRimContactMakesBucket(t *testing.T) {
	c := newTestCore(t)
	c.Shoot(0, -1)
	rim := c.World().Find(physics.LabelRim)[0]
	c.ball.Body.Velocity = physics.V(4, 8)

	// ball as the second participant
	c.handleContact(physics.Contact{Phase: physics.Begin, A: rim, B: c.ball.Body})

	if !c.ball.HitRim {
		t.Fatalf("rim contact should set hitRim")
	}
	if v := c.ball.Body.Velocity; math.Abs(v.X-3.8) > 1e-9 || math.Abs(v.Y-7.6) > 1e-9 {
		t.Errorf("rim damping: velocity = %+v, want (3.8, 7.6)", v)
	}

	place(c, 675, 150)
	c.Update(frame)
	place(c, 675, 180)
	c.Update(frame)

	if s := c.State(); s.Score != 1 {
		t.Errorf("touched make score = %d, want 1", s.Score)
	}
	if c.Toast().Message != MsgBucket {
		t.Errorf("toast = %q, want %q", c.Toast().Message, MsgBucket)
	}
}

func TestBackboardContactDamping(t *testing.T) {
	c := newTestCore(t)
	c.Shoot(0, -1)
	board := c.World().Find(physics.LabelBackboard)[0]
	c.ball.Body.Velocity = physics.V(10, 10)
	c.ball.Body.AngularVelocity = 1

	c.handleContact(physics.Contact{Phase: physics.Begin, A: c.ball.Body, B: board})

	v := c.ball.Body.Velocity
	if math.Abs(v.X-9.2) > 1e-9 || math.Abs(v.Y-9.6) > 1e-9 {
		t.Errorf("backboard damping: velocity = %+v, want (9.2, 9.6)", v)
	}
	if math.Abs(c.ball.Body.AngularVelocity-0.8) > 1e-9 {
		t.Errorf("spin = %v, want 0.8", c.ball.Body.AngularVelocity)
	}
	if !c.ball.HitRim {
		t.Errorf("backboard contact should count as touched")
	}
}

func TestNonBallPairsIgnored(t *testing.T) {
	c := newTestCore(t)
	c.Shoot(0, -1)
	rim := c.World().Find(physics.LabelRim)[0]
	floor := c.World().Find(physics.LabelFloor)[0]

	c.handleContact(physics.Contact{Phase: physics.Begin, A: rim, B: floor})

	if c.ball.HitRim {
		t.Errorf("rim/floor pair should not affect the ball")
	}
}

func TestMakeRequiresAboveObservation(t *testing.T) {
	c := newTestCore(t)
	c.Shoot(0, -1)

	// rising from below the rim never counts
	place(c, 675, 190)
	c.Update(frame)
	place(c, 675, 180)
	c.Update(frame)
	if c.State().Score != 0 {
		t.Fatalf("score without above-hoop observation: %d", c.State().Score)
	}

	// above the rim but outside the pegs
	place(c, 620, 150)
	c.Update(frame)
	place(c, 620, 180)
	c.Update(frame)
	if c.State().Score != 0 {
		t.Errorf("score outside rim bounds: %d", c.State().Score)
	}

	// leaving the pegs between frames clears the observation
	place(c, 675, 150)
	c.Update(frame)
	place(c, 750, 150)
	c.Update(frame)
	place(c, 675, 180)
	c.Update(frame)
	if c.State().Score != 0 {
		t.Errorf("score after leaving rim bounds: %d", c.State().Score)
	}
}

func TestMakeLatchesOnce(t *testing.T) {
	c := newTestCore(t)
	c.Shoot(0, -1)

	for i := 0; i < 3; i++ {
		place(c, 675, 150)
		c.Update(frame)
		place(c, 675, 180)
		c.Update(frame)
	}

	if s := c.State(); s.Score != 2 || s.Streak != 1 {
		t.Errorf("state after repeated passes = %+v, want one swish", s)
	}
}

// scoreWithoutRespawn drops the ball through the hoop and leaves it in play.
func scoreWithoutRespawn(c *Core) {
	c.Shoot(0, -1)
	place(c, 675, 150)
	c.Update(0)
	place(c, 675, 180)
	c.Update(0)
	place(c, 675, 260)
	c.Update(0)
}

func TestMadeBallKeepsStreakAfterLaterMiss(t *testing.T) {
	t.Run("sensor", func(t *testing.T) {
		c := newTestCore(t)
		makeShot(c, false)
		scoreWithoutRespawn(c)
		if s := c.State(); s.Streak != 2 || s.ShotsLeft != 8 {
			t.Fatalf("setup state = %+v, want streak 2 and 8 shots left", s)
		}

		sensor := c.World().Find(physics.LabelRightWall)[0]
		c.handleContact(physics.Contact{Phase: physics.Begin, A: sensor, B: c.ball.Body})

		if s := c.State(); s.Streak != 2 || s.ShotsLeft != 8 {
			t.Errorf("state after sensor = %+v, want streak 2 and 8 shots left", s)
		}
	})

	t.Run("settle", func(t *testing.T) {
		c := newTestCore(t)
		makeShot(c, false)
		scoreWithoutRespawn(c)

		place(c, 675, 547)
		c.ball.Body.Velocity = physics.V(0.1, 0)
		c.ball.Body.AngularVelocity = 0
		floor := c.World().Find(physics.LabelFloor)[0]
		c.handleContact(physics.Contact{Phase: physics.Active, A: c.ball.Body, B: floor})

		if !c.ball.Settled {
			t.Fatalf("ball should have settled")
		}
		if s := c.State(); s.Streak != 2 || s.ShotsLeft != 8 {
			t.Errorf("state after settle = %+v, want streak 2 and 8 shots left", s)
		}
	})
}

func TestMadeShotEndsBelowRimAndRespawnsLater(t *testing.T) {
	c := newTestCore(t)
	c.Shoot(0, -1)
	first := c.ball.Body.ID

	place(c, 675, 150)
	c.Update(0)
	place(c, 675, 180)
	c.Update(0)
	if c.ball.Counted {
		t.Fatalf("shot counted before the ball cleared the rim")
	}
	place(c, 675, 260)
	c.Update(0)

	if !c.ball.Counted || c.State().ShotsLeft != 9 {
		t.Fatalf("made shot not counted: counted=%v shotsLeft=%d", c.ball.Counted, c.State().ShotsLeft)
	}
	if !c.RespawnPending() {
		t.Fatalf("respawn should be pending")
	}

	c.Update(0.9)
	if c.ball.Body.ID != first {
		t.Errorf("respawned before the made-shot delay")
	}
	c.Update(0.2)
	if c.ball.Body.ID == first || !c.BallAtRest() {
		t.Errorf("ball not respawned after delay")
	}
	if c.State().Streak != 1 {
		t.Errorf("streak = %d, want 1", c.State().Streak)
	}
}

func TestSensorContactIsMiss(t *testing.T) {
	for _, label := range []physics.Label{physics.LabelLeftWall, physics.LabelRightWall, physics.LabelCeiling} {
		c := newTestCore(t)
		makeShot(c, false)
		makeShot(c, true)
		if c.State().Streak != 2 {
			t.Fatalf("setup streak = %d, want 2", c.State().Streak)
		}

		c.Shoot(3, -25)
		sensor := c.World().Find(label)[0]
		c.handleContact(physics.Contact{Phase: physics.Begin, A: sensor, B: c.ball.Body})

		s := c.State()
		if s.Streak != 0 {
			t.Errorf("%s: streak = %d, want 0", label, s.Streak)
		}
		if s.ShotsLeft != 7 {
			t.Errorf("%s: shotsLeft = %d, want 7", label, s.ShotsLeft)
		}
		if s.BestStreak != 2 {
			t.Errorf("%s: bestStreak = %d, want 2", label, s.BestStreak)
		}
	}
}

func TestOutOfBoundsPositionIsMiss(t *testing.T) {
	c := newTestCore(t)
	c.Shoot(0, -1)

	place(c, 450, -300)
	c.Update(frame)

	if c.State().ShotsLeft != 9 || !c.ball.Counted {
		t.Errorf("ball above the top margin should end the shot")
	}
}

func TestEndShotIsIdempotent(t *testing.T) {
	c := newTestCore(t)
	makeShot(c, false)

	c.Shoot(0, -1)
	c.EndShot(false)
	c.EndShot(false)
	c.EndShot(true)

	s := c.State()
	if s.ShotsLeft != 8 {
		t.Errorf("shotsLeft = %d, want 8", s.ShotsLeft)
	}
	if s.Streak != 0 || s.BestStreak != 1 {
		t.Errorf("streak/best = %d/%d, want 0/1", s.Streak, s.BestStreak)
	}
}

func TestEndShotWithoutShotIsNoop(t *testing.T) {
	c := newTestCore(t)

	c.EndShot(false)

	if c.State().ShotsLeft != 10 || c.RespawnPending() {
		t.Errorf("ending an untaken shot changed state: %+v", c.State())
	}
}

func TestPracticeModeNeverDecrements(t *testing.T) {
	c := newTestCore(t)
	c.TogglePractice()
	if c.Toast().Message != MsgPracticeOn {
		t.Errorf("toast = %q, want %q", c.Toast().Message, MsgPracticeOn)
	}

	for i := 0; i < 15; i++ {
		missShot(c)
	}
	makeShot(c, false)

	s := c.State()
	if s.ShotsLeft != 10 {
		t.Errorf("practice shotsLeft = %d, want 10", s.ShotsLeft)
	}
	if s.Score != 2 {
		t.Errorf("practice still scores: score = %d, want 2", s.Score)
	}

	c.TogglePractice()
	if c.Toast().Message != MsgPracticeOff {
		t.Errorf("toast = %q, want %q", c.Toast().Message, MsgPracticeOff)
	}
}

func TestStreakNeverExceedsBest(t *testing.T) {
	c := newTestCore(t, withShots(40))
	pattern := []bool{true, true, false, true, true, true, false, false, true}

	prevShots := c.State().ShotsLeft
	for round := 0; round < 3; round++ {
		for _, made := range pattern {
			if made {
				makeShot(c, round%2 == 0)
			} else {
				missShot(c)
			}
			s := c.State()
			if s.Streak > s.BestStreak {
				t.Fatalf("streak %d exceeds best %d", s.Streak, s.BestStreak)
			}
			if s.ShotsLeft > prevShots || s.ShotsLeft < 0 {
				t.Fatalf("shotsLeft went from %d to %d", prevShots, s.ShotsLeft)
			}
			prevShots = s.ShotsLeft
		}
	}
	if c.State().BestStreak != 3 {
		t.Errorf("best streak = %d, want 3", c.State().BestStreak)
	}
}

func TestRoundCompletionPersistsOnce(t *testing.T) {
	slot := &fakeSlot{}
	var results []RoundResult
	c := newTestCore(t, withSlot(slot), withShots(3), func(o *Options) {
		o.OnRoundComplete = func(r RoundResult) { results = append(results, r) }
	})

	makeShot(c, false)
	missShot(c)
	if slot.saves != 0 {
		t.Fatalf("saved before the round ended")
	}
	missShot(c)

	if slot.saves != 1 {
		t.Fatalf("saves = %d, want 1", slot.saves)
	}
	var ps PersistedState
	if err := json.Unmarshal(slot.data, &ps); err != nil {
		t.Fatalf("stored state: %v", err)
	}
	want := PersistedState{SchemaVersion: 2, Date: "2025-09-10", Score: 2, DaysInARow: 1}
	if ps != want {
		t.Errorf("stored %+v, want %+v", ps, want)
	}
	if len(results) != 1 || results[0].Score != 2 || results[0].BestStreak != 1 {
		t.Errorf("round results = %+v", results)
	}
	if c.BallPresent() {
		t.Errorf("no ball should be spawned after the round ends")
	}
	if !c.State().RoundOver() || c.CanShoot() {
		t.Errorf("round should be over")
	}
}

func TestReplaySameDayDoesNotBumpDays(t *testing.T) {
	slot := &fakeSlot{}
	c := newTestCore(t, withSlot(slot), withShots(1))

	missShot(c)
	if c.State().DaysInARow != 1 {
		t.Fatalf("days = %d, want 1", c.State().DaysInARow)
	}
	c.RestartRound()
	missShot(c)

	if c.State().DaysInARow != 1 {
		t.Errorf("second round on the same day bumped days to %d", c.State().DaysInARow)
	}
	if slot.saves != 2 {
		t.Errorf("saves = %d, want one per round", slot.saves)
	}
}

func storedSlot(t *testing.T, ps PersistedState) *fakeSlot {
	t.Helper()
	data, err := json.Marshal(ps)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return &fakeSlot{data: data}
}

func TestLoadResumesFinishedRoundToday(t *testing.T) {
	slot := storedSlot(t, PersistedState{SchemaVersion: 2, Date: "2025-09-10", Score: 7, DaysInARow: 3})
	c := newTestCore(t, withSlot(slot))

	s := c.State()
	if s.ShotsLeft != 0 || s.Score != 7 || s.DaysInARow != 3 {
		t.Errorf("state = %+v, want shotsLeft 0 score 7 days 3", s)
	}
	if c.BallPresent() {
		t.Errorf("finished round should have no ball")
	}
}

func TestLoadYesterdayStartsFreshRound(t *testing.T) {
	slot := storedSlot(t, PersistedState{SchemaVersion: 2, Date: "2025-09-09", Score: 7, DaysInARow: 3})
	c := newTestCore(t, withSlot(slot), withShots(2))

	s := c.State()
	if s.ShotsLeft != 2 || s.Score != 0 || s.DaysInARow != 3 {
		t.Fatalf("state = %+v, want fresh round with days 3", s)
	}

	missShot(c)
	if c.State().DaysInARow != 3 {
		t.Errorf("days changed before the round ended")
	}
	missShot(c)
	if c.State().DaysInARow != 4 {
		t.Errorf("days = %d after completing today's round, want 4", c.State().DaysInARow)
	}
}

func TestCorruptPersistedStateIsCleared(t *testing.T) {
	cases := map[string]string{
		"not json":       "{oops",
		"missing schema": `{"date":"2025-09-10","score":4,"daysInARow":2}`,
		"old schema":     `{"schemaVersion":1,"date":"2025-09-10","score":4,"daysInARow":2}`,
		"bad date":       `{"schemaVersion":2,"date":"yesterday","score":4,"daysInARow":2}`,
		"negative":       `{"schemaVersion":2,"date":"2025-09-10","score":-1,"daysInARow":2}`,
	}
	for name, raw := range cases {
		slot := &fakeSlot{data: []byte(raw)}
		c := newTestCore(t, withSlot(slot))

		if slot.clears != 1 {
			t.Errorf("%s: clears = %d, want 1", name, slot.clears)
		}
		if s := c.State(); s != DefaultState(10) {
			t.Errorf("%s: state = %+v, want defaults", name, s)
		}
		if !c.BallAtRest() {
			t.Errorf("%s: ball should be ready", name)
		}
	}
}

func TestRestartRound(t *testing.T) {
	c := newTestCore(t)
	c.state.Score = 5
	c.state.Streak = 3
	c.state.BestStreak = 3
	c.state.ShotsLeft = 2
	c.state.DaysInARow = 4

	c.Shoot(6, -18)
	c.EndShot(false)
	if !c.RespawnPending() {
		t.Fatalf("respawn should be pending before restart")
	}

	c.RestartRound()
	s := c.State()
	want := GameState{ShotsLeft: 10, DaysInARow: 4}
	if s != want {
		t.Errorf("after restart state = %+v, want %+v", s, want)
	}
	if c.Toast().Message != MsgNewRound {
		t.Errorf("toast = %q, want %q", c.Toast().Message, MsgNewRound)
	}
	if !c.BallAtRest() {
		t.Fatalf("restart should put a ball on the line")
	}

	fresh := c.ball.Body.ID
	c.Update(1.0)
	if c.ball.Body.ID != fresh {
		t.Errorf("stale respawn timer replaced the ball after restart")
	}
}

func TestDraggingCancelledWhenRoundEnds(t *testing.T) {
	c := newTestCore(t)
	in := c.Input()

	in.PointerDown(200, 500)
	c.Update(frame)
	if !in.Gesture().Dragging {
		t.Fatalf("should be dragging with a resting ball")
	}

	c.state.ShotsLeft = 0
	c.Update(frame)
	if in.Gesture().Dragging {
		t.Errorf("drag should be cancelled once no shots remain")
	}

	c.state.Practice = true
	c.Update(frame)
	if !in.Gesture().Dragging {
		t.Errorf("practice mode should allow dragging again")
	}
}

func TestDragReleaseShoots(t *testing.T) {
	c := newTestCore(t)
	in := c.Input()

	in.PointerDown(200, 500)
	c.Update(frame)
	in.PointerMove(140, 620)
	in.PointerUp()

	if c.ball.AtRest {
		t.Fatalf("release should shoot")
	}
	if v := c.ball.Body.Velocity; v != physics.V(10, -20) {
		t.Errorf("velocity = %+v, want (10, -20)", v)
	}
}

func TestToastSupersedes(t *testing.T) {
	c := newTestCore(t)

	c.TogglePractice()
	c.Update(1.0)
	c.TogglePractice()
	c.Update(0.5)
	if !c.Toast().Visible || c.Toast().Message != MsgPracticeOff {
		t.Errorf("second toast hidden by the first timer: %+v", c.Toast())
	}
	c.Update(0.8)
	if c.Toast().Visible {
		t.Errorf("toast still visible after its own timer")
	}
}

func TestFeedbackDrain(t *testing.T) {
	c := newTestCore(t)
	makeShot(c, false)

	fb := c.DrainFeedback()
	var sawNet, sawSwish bool
	for _, f := range fb {
		if f.Kind == KindCue && f.Message == string(CueNet) {
			sawNet = true
		}
		if f.Kind == KindToast && f.Message == MsgSwish {
			sawSwish = true
		}
	}
	if !sawNet || !sawSwish {
		t.Errorf("feedback = %+v, want net cue and swish toast", fb)
	}
	if len(c.DrainFeedback()) != 0 {
		t.Errorf("drain should clear feedback")
	}
}

func TestShadowTracksHeight(t *testing.T) {
	c := newTestCore(t)
	c.Shoot(0, -1)

	place(c, 300, 572)
	c.Update(0)
	low := c.ball.Shadow
	if math.Abs(low.Radius-28*0.8) > 1e-9 || math.Abs(low.Opacity-0.6) > 1e-9 {
		t.Errorf("ground shadow = %+v", low)
	}

	place(c, 300, 422)
	c.Update(0)
	mid := c.ball.Shadow
	if !(mid.Radius > low.Radius && mid.Opacity < low.Opacity) {
		t.Errorf("higher ball should cast a larger, fainter shadow: %+v vs %+v", mid, low)
	}

	place(c, 300, 100)
	c.Update(0)
	if hi := c.ball.Shadow; hi.Radius != 0 || hi.Opacity != 0 {
		t.Errorf("shadow above max height = %+v, want hidden", hi)
	}
}

func TestTrailIsBounded(t *testing.T) {
	c := newTestCore(t)
	c.Shoot(0, -1)

	for i := 0; i < 40; i++ {
		place(c, 300, 400-float64(i))
		c.Update(0)
	}

	pts := c.ball.Trail.Points()
	if len(pts) != 18 {
		t.Fatalf("trail length = %d, want 18", len(pts))
	}
	if pts[17].Y != 400-39 || pts[0].Y != 400-22 {
		t.Errorf("trail should keep the newest points, got first=%v last=%v", pts[0], pts[17])
	}
}

func TestResizeRecreatesStaticGeometry(t *testing.T) {
	c := newTestCore(t)
	oldRim := c.World().Find(physics.LabelRim)[0].ID

	scale := c.Resize(1800, 1200)
	if scale != 2 {
		t.Errorf("scale = %v, want 2", scale)
	}

	rims := c.World().Find(physics.LabelRim)
	if len(rims) != 2 {
		t.Fatalf("rims after resize = %d, want 2", len(rims))
	}
	for _, r := range rims {
		if r.ID == oldRim {
			t.Errorf("rim peg was not recreated")
		}
	}
	if n := len(c.World().Find(physics.LabelFloor)); n != 1 {
		t.Errorf("floors after resize = %d, want 1", n)
	}
	if n := len(c.World().Find(physics.LabelBall)); n != 1 {
		t.Errorf("balls after resize = %d, want 1", n)
	}

	c.Input().PointerDown(400, 1000)
	if g := c.Input().Gesture(); g.Start != physics.V(200, 500) {
		t.Errorf("pointer not scaled to world: %+v", g.Start)
	}
}

func TestGentleShotSettlesOnFloor(t *testing.T) {
	c := newTestCore(t)
	c.Shoot(0, -5)

	for i := 0; i < 1000 && !c.ball.Counted; i++ {
		stepFrame(c)
	}

	if !c.ball.Counted {
		t.Fatalf("ball never settled: pos=%+v vel=%+v", c.ball.Body.Position, c.ball.Body.Velocity)
	}
	if c.State().ShotsLeft != 9 || c.State().Score != 0 {
		t.Errorf("settled shot state = %+v", c.State())
	}
}

func TestGentleShotReportsRestOnce(t *testing.T) {
	c := newTestCore(t)
	c.Shoot(0, -5)
	id := c.ball.Body.ID

	rests := 0
	settled := false
	for i := 0; i < 1000 && !c.RespawnPending(); i++ {
		stepFrame(c)
		if c.ball.Settled && !settled {
			rests++
		}
		settled = c.ball.Settled
	}
	if rests != 1 {
		t.Fatalf("rest signals = %d, want 1", rests)
	}

	floor := c.tun.World.FloorY
	for i := 0; i < 60 && c.ball.Body.ID == id; i++ {
		if c.world.CheckFloorCollision(c.ball.Body, floor, c.ball.ShotTaken, c.settleRules()) {
			t.Fatalf("frame %d: settled ball reported rest again", i)
		}
		if !c.Snapshot().Ball.Settled {
			t.Fatalf("frame %d: snapshot lost the settled flag", i)
		}
		stepFrame(c)
	}
	if c.ball.Body.ID == id {
		t.Fatalf("settled ball was never respawned")
	}
	if c.ball.Settled {
		t.Errorf("fresh ball should not be settled")
	}
	if s := c.State(); s.ShotsLeft != 9 {
		t.Errorf("shotsLeft = %d, want 9", s.ShotsLeft)
	}
}

func TestSimulatedShotAlwaysTerminates(t *testing.T) {
	for _, v := range [][2]float64{{10, -20}, {4, -14}, {-6, -18}, {20, -5}} {
		c := newTestCore(t)
		c.Shoot(v[0], v[1])

		for i := 0; i < 5000 && !c.BallAtRest(); i++ {
			stepFrame(c)
		}

		if c.State().ShotsLeft != 9 {
			t.Errorf("shot %v: shotsLeft = %d, want 9", v, c.State().ShotsLeft)
		}
		if !c.BallAtRest() {
			t.Errorf("shot %v: no fresh ball after the shot ended", v)
		}
	}
}
