package store

import (
	"encoding/json"
	"errors"
	"math/rand"
	"slices"
	"testing"
	"time"

	"github.com/payb0y/lindo-clean/pkg/patch"
)

type recorder struct{ commits []patch.Commit }

func (r *recorder) Emit(c patch.Commit) { r.commits = append(r.commits, c) }

type muteSpy struct{ calls []bool }

func (m *muteSpy) NotifyAudioMute(v bool) { m.calls = append(m.calls, v) }

// replica follows a root through its commits, the way a render surface does.
type replica struct {
	t   *testing.T
	seq uint64
	doc []byte
}

func newReplica(t *testing.T, r *Root) *replica {
	t.Helper()
	snap, err := r.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	return &replica{t: t, seq: snap.Seq, doc: snap.State}
}

func (rp *replica) apply(commits []patch.Commit) {
	rp.t.Helper()
	for _, c := range commits {
		if c.Seq <= rp.seq {
			continue
		}
		if c.Seq != rp.seq+1 {
			rp.t.Fatalf("gap: have %d, got %d", rp.seq, c.Seq)
		}
		doc, err := patch.Apply(rp.doc, c.Patches...)
		if err != nil {
			rp.t.Fatalf("apply commit %d: %v", c.Seq, err)
		}
		rp.doc, rp.seq = doc, c.Seq
	}
}

func (rp *replica) mustEqual(r *Root) {
	rp.t.Helper()
	snap, err := r.Snapshot()
	if err != nil {
		rp.t.Fatalf("snapshot: %v", err)
	}
	if snap.Seq != rp.seq {
		rp.t.Fatalf("seq: replica %d, host %d", rp.seq, snap.Seq)
	}
	if !patch.Equal(snap.State, rp.doc) {
		rp.t.Fatalf("replica diverged\nhost:    %s\nreplica: %s", snap.State, rp.doc)
	}
}

func mustAdd(t *testing.T, r *Root) Game {
	t.Helper()
	g, err := r.AddGame("")
	if err != nil {
		t.Fatalf("add game: %v", err)
	}
	return g
}

func ids(gs []Game) []string {
	out := make([]string, len(gs))
	for i, g := range gs {
		out[i] = g.ID
	}
	return out
}

func selectedID(r *Root) string {
	g, ok := r.Selected()
	if !ok {
		return ""
	}
	return g.ID
}

func TestAddGameCapacity(t *testing.T) {
	rec := &recorder{}
	r := New(WithEmitter(rec))
	for i := 0; i < MaxGames; i++ {
		mustAdd(t, r)
	}
	before := r.State()
	seq := r.Seq()
	if _, err := r.AddGame(""); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("7th add: want ErrCapacityExceeded, got %v", err)
	}
	after := r.State()
	if len(after.GameStore.Games) != MaxGames || !slices.Equal(before.GameStore.GamesOrder, after.GameStore.GamesOrder) {
		t.Fatalf("state changed on rejected add")
	}
	if r.Seq() != seq || len(rec.commits) != MaxGames {
		t.Fatalf("rejected add emitted a commit: seq=%d commits=%d", r.Seq(), len(rec.commits))
	}
}

func TestAddGameSelectsAndAppends(t *testing.T) {
	r := New()
	a := mustAdd(t, r)
	b := mustAdd(t, r)
	if got := ids(r.Games()); !slices.Equal(got, []string{a.ID, b.ID}) {
		t.Fatalf("order: %v", got)
	}
	if selectedID(r) != b.ID {
		t.Fatalf("want %s selected, got %s", b.ID, selectedID(r))
	}
	if _, err := r.AddGame("nobody"); !errors.Is(err, ErrCharacterNotFound) {
		t.Fatalf("unknown character: %v", err)
	}
}

func TestRemoveGameReselection(t *testing.T) {
	cases := []struct {
		name   string
		pick   int // index selected before removal
		remove int
		want   int // index in the original order, -1 for unset
	}{
		{"last selected goes to predecessor", 2, 2, 1},
		{"middle selected goes to last", 1, 1, 2},
		{"first selected goes to last", 0, 0, 2},
		{"unselected keeps selection", 0, 2, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := New()
			gs := []Game{mustAdd(t, r), mustAdd(t, r), mustAdd(t, r)}
			if err := r.SelectGame(gs[tc.pick].ID); err != nil {
				t.Fatal(err)
			}
			if err := r.RemoveGame(gs[tc.remove].ID); err != nil {
				t.Fatal(err)
			}
			want := ""
			if tc.want >= 0 {
				want = gs[tc.want].ID
			}
			if got := selectedID(r); got != want {
				t.Fatalf("selected %q, want %q", got, want)
			}
		})
	}
}

func TestRemoveLastGameUnsetsSelection(t *testing.T) {
	r := New()
	g := mustAdd(t, r)
	if err := r.RemoveGame(g.ID); err != nil {
		t.Fatal(err)
	}
	if _, ok := r.Selected(); ok {
		t.Fatalf("selection should be unset")
	}
	st := r.State()
	if st.GameStore.SelectedGame.IsSet() || len(st.GameStore.GamesOrder) != 0 {
		t.Fatalf("unexpected state: %+v", st.GameStore)
	}
}

func TestUnknownIDsChangeNothing(t *testing.T) {
	rec := &recorder{}
	r := New(WithEmitter(rec))
	a := mustAdd(t, r)
	n := len(rec.commits)
	checks := map[string]error{
		"remove":   r.RemoveGame("missing"),
		"select":   r.SelectGame("missing"),
		"index":    r.SelectGameIndex(3),
		"move src": r.MoveGame("missing", a.ID),
		"move dst": r.MoveGame(a.ID, "missing"),
		"notify":   r.SetHasNotification("missing", true),
	}
	for name, err := range checks {
		if !errors.Is(err, ErrGameNotFound) {
			t.Fatalf("%s: want ErrGameNotFound, got %v", name, err)
		}
	}
	if len(rec.commits) != n {
		t.Fatalf("no-op operations emitted %d commits", len(rec.commits)-n)
	}
}

func TestSelectNextPreviousWraps(t *testing.T) {
	r := New()
	r.SelectNextGame() // empty store
	a, b, c := mustAdd(t, r), mustAdd(t, r), mustAdd(t, r)
	r.SelectNextGame()
	if selectedID(r) != a.ID {
		t.Fatalf("next from last should wrap to first")
	}
	r.SelectPreviousGame()
	if selectedID(r) != c.ID {
		t.Fatalf("previous from first should wrap to last")
	}
	r.SelectPreviousGame()
	if selectedID(r) != b.ID {
		t.Fatalf("previous from last should be middle")
	}
	if err := r.SelectGameIndex(0); err != nil || selectedID(r) != a.ID {
		t.Fatalf("select index 0: %v", err)
	}

	mustAdd(t, r)
	mustAdd(t, r)
	order := r.State().GameStore.GamesOrder
	for start := range order {
		if err := r.SelectGameIndex(start); err != nil {
			t.Fatal(err)
		}
		for range order {
			r.SelectNextGame()
		}
		if selectedID(r) != order[start] {
			t.Fatalf("%d nexts from index %d landed on %s", len(order), start, selectedID(r))
		}
		for range order {
			r.SelectPreviousGame()
		}
		if selectedID(r) != order[start] {
			t.Fatalf("%d previous from index %d landed on %s", len(order), start, selectedID(r))
		}
	}
}

func TestMoveGameUsesTargetIndexBeforeRemoval(t *testing.T) {
	r := New()
	a, b, c := mustAdd(t, r), mustAdd(t, r), mustAdd(t, r)
	rp := newReplica(t, r)
	rec := &recorder{}
	r.emitter = rec

	if err := r.MoveGame(a.ID, c.ID); err != nil {
		t.Fatal(err)
	}
	if got := ids(r.Games()); !slices.Equal(got, []string{b.ID, c.ID, a.ID}) {
		t.Fatalf("order after move: %v", got)
	}
	if err := r.MoveGame(a.ID, b.ID); err != nil {
		t.Fatal(err)
	}
	if got := ids(r.Games()); !slices.Equal(got, []string{a.ID, b.ID, c.ID}) {
		t.Fatalf("order after move back: %v", got)
	}
	rp.apply(rec.commits)
	rp.mustEqual(r)
}

func TestSelectClearsNotification(t *testing.T) {
	r := New()
	a := mustAdd(t, r)
	mustAdd(t, r)
	if err := r.SetHasNotification(a.ID, true); err != nil {
		t.Fatal(err)
	}
	if err := r.SelectGame(a.ID); err != nil {
		t.Fatal(err)
	}
	if g := r.State().GameStore.Games[a.ID]; g.HasNotification {
		t.Fatalf("selecting should clear the notification")
	}
}

func TestToggleMuteNotifiesAfterCommit(t *testing.T) {
	spy := &muteSpy{}
	r := New(WithAudioNotifier(spy))
	if !r.ToggleMute() || r.ToggleMute() {
		t.Fatalf("toggle should flip the flag")
	}
	if !slices.Equal(spy.calls, []bool{true, false}) {
		t.Fatalf("notifier calls: %v", spy.calls)
	}
}

type storeReader struct {
	r    *Root
	seen []bool
}

func (s *storeReader) NotifyAudioMute(bool) { s.seen = append(s.seen, s.r.IsMuted()) }

func TestMuteNotifierMayReadStore(t *testing.T) {
	r := New()
	reader := &storeReader{r: r}
	r.games.notifier = reader

	done := make(chan struct{})
	go func() {
		defer close(done)
		r.ToggleMute()
		if _, err := r.ApplyPatches([]patch.Patch{patch.Replace("/gameStore/isMuted", false)}); err != nil {
			t.Errorf("apply: %v", err)
		}
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("mute notifier blocked on the store lock")
	}
	if !slices.Equal(reader.seen, []bool{true, false}) {
		t.Fatalf("notifier saw %v", reader.seen)
	}
}

func TestRemoveCharacterClearsReferences(t *testing.T) {
	r := New()
	c := r.AddCharacter(NewCharacter("acc", "secret", "Iop"))
	g, err := r.AddGame(c.ID)
	if err != nil {
		t.Fatal(err)
	}
	if name := g.DisplayName(r); name != "Iop" {
		t.Fatalf("display name %q", name)
	}
	if err := r.RemoveCharacter(c.ID); err != nil {
		t.Fatal(err)
	}
	g = r.State().GameStore.Games[g.ID]
	if g.Character.IsSet() || g.DisplayName(r) != "" {
		t.Fatalf("reference should be cleared, got %+v", g)
	}
	if err := r.RemoveCharacter(c.ID); !errors.Is(err, ErrCharacterNotFound) {
		t.Fatalf("second removal: %v", err)
	}
}

// Random operation sequences keep gamesOrder a permutation of games and the
// patch stream reproduces the host tree exactly.
func TestRandomSequencesKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	rec := &recorder{}
	spy := &muteSpy{}
	r := New(WithEmitter(rec), WithAudioNotifier(spy))
	rp := newReplica(t, r)
	chars := []string{r.AddCharacter(NewCharacter("a", "p", "A")).ID, ""}

	for step := 0; step < 2000; step++ {
		order := r.State().GameStore.GamesOrder
		pickID := func() string {
			if len(order) == 0 || rng.Intn(10) == 0 {
				return "missing"
			}
			return order[rng.Intn(len(order))]
		}
		switch rng.Intn(11) {
		case 0, 1:
			_, _ = r.AddGame(chars[rng.Intn(len(chars))])
		case 2:
			_ = r.RemoveGame(pickID())
		case 3:
			_ = r.RemoveSelectedGame()
		case 4:
			_ = r.SelectGame(pickID())
		case 5:
			_ = r.SelectGameIndex(rng.Intn(MaxGames+1) - 1)
		case 6:
			r.SelectNextGame()
		case 7:
			r.SelectPreviousGame()
		case 8:
			_ = r.MoveGame(pickID(), pickID())
		case 9:
			_ = r.SetHasNotification(pickID(), rng.Intn(2) == 0)
		case 10:
			r.ToggleMute()
		}
		if err := r.State().Check(); err != nil {
			t.Fatalf("step %d: %v", step, err)
		}
	}
	rp.apply(rec.commits)
	rp.mustEqual(r)
	for i, c := range rec.commits {
		if c.Seq != uint64(i+1) || len(c.Patches) == 0 {
			t.Fatalf("commit %d: seq %d with %d patches", i, c.Seq, len(c.Patches))
		}
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	rec := &recorder{}
	spy := &muteSpy{}
	r := New(WithEmitter(rec), WithAudioNotifier(spy))
	rp := newReplica(t, r)
	c := r.AddCharacter(NewCharacter("a", "p", "A"))
	_, _ = r.AddGame(c.ID)
	r.SetLanguage("en")
	r.ToggleMute()

	commit, err := r.Reset()
	if err != nil {
		t.Fatal(err)
	}
	if len(commit.Patches) != 2 || commit.Patches[0].Path != "/appStore" || commit.Patches[1].Path != "/gameStore" {
		t.Fatalf("reset commit: %+v", commit.Patches)
	}
	want, _ := json.Marshal(DefaultState())
	snap, _ := r.Snapshot()
	if !patch.Equal(want, snap.State) {
		t.Fatalf("reset state: %s", snap.State)
	}
	if last := spy.calls[len(spy.calls)-1]; last {
		t.Fatalf("reset should unmute the windows")
	}
	rp.apply(rec.commits)
	rp.mustEqual(r)
}

func TestApplyPatchesValidatesAndReemits(t *testing.T) {
	rec := &recorder{}
	spy := &muteSpy{}
	r := New(WithEmitter(rec), WithAudioNotifier(spy))
	a := mustAdd(t, r)
	seq := r.Seq()

	bad := [][]patch.Patch{
		{patch.Add("/gameStore/gamesOrder/-", "ghost")},
		{patch.Replace("/gameStore/selectedGame", "ghost")},
		{patch.Replace("/gameStore/isMuted", "yes")},
		{patch.Add("/gameStore/extra", 1)},
		{patch.Remove("/gameStore/games/" + a.ID)},
		{patch.Replace("/gameStore/games/"+a.ID+"/character", "ghost")},
	}
	for i, ps := range bad {
		if _, err := r.ApplyPatches(ps); !errors.Is(err, ErrInvalidPatch) {
			t.Fatalf("case %d: want ErrInvalidPatch, got %v", i, err)
		}
	}
	if r.Seq() != seq {
		t.Fatalf("rejected patches advanced seq")
	}

	ps := []patch.Patch{
		patch.Replace("/gameStore/isMuted", true),
		patch.Replace("/appStore/language", "es"),
	}
	commit, err := r.ApplyPatches(ps)
	if err != nil {
		t.Fatal(err)
	}
	if commit.Seq != seq+1 || len(commit.Patches) != 2 {
		t.Fatalf("commit: %+v", commit)
	}
	if last := rec.commits[len(rec.commits)-1]; last.Seq != commit.Seq {
		t.Fatalf("commit was not emitted")
	}
	if !r.IsMuted() || r.Language() != "es" {
		t.Fatalf("patches not applied")
	}
	if !slices.Equal(spy.calls, []bool{true}) {
		t.Fatalf("mute via patch should notify: %v", spy.calls)
	}
}

// Surface patches are re-emitted to every replica, so whatever the host accepts
// must leave replicas structurally equal to the host tree.
func TestSurfacePatchesKeepReplicasEqual(t *testing.T) {
	rec := &recorder{}
	r := New(WithEmitter(rec))
	rp := newReplica(t, r)
	c := r.AddCharacter(NewCharacter("acc", "pw", "Iop"))
	a, b := mustAdd(t, r), mustAdd(t, r)
	if err := r.SetHasNotification(a.ID, true); err != nil {
		t.Fatal(err)
	}
	seq := r.Seq()

	rejected := [][]patch.Patch{
		{patch.Replace("/gameStore/games/"+a.ID+"/character", "")},
		{patch.Replace("/gameStore/selectedGame", "")},
		{patch.Replace("/appStore/language", json.RawMessage("\"\xff\""))},
	}
	for i, ps := range rejected {
		if _, err := r.ApplyPatches(ps); !errors.Is(err, ErrInvalidPatch) {
			t.Fatalf("case %d: want ErrInvalidPatch, got %v", i, err)
		}
	}
	if r.Seq() != seq {
		t.Fatalf("rejected patches advanced seq")
	}

	accepted := [][]patch.Patch{
		{patch.Replace("/gameStore/games/"+b.ID+"/character", c.ID)},
		{patch.Replace("/gameStore/games/"+b.ID+"/character", nil)},
		{patch.Replace("/gameStore/selectedGame", a.ID)},
		{patch.Replace("/gameStore/selectedGame", nil)},
	}
	for i, ps := range accepted {
		if _, err := r.ApplyPatches(ps); err != nil {
			t.Fatalf("case %d: %v", i, err)
		}
	}
	if g := r.State().GameStore.Games[a.ID]; g.HasNotification {
		t.Fatalf("selecting through a patch should clear the notification")
	}
	rp.apply(rec.commits)
	rp.mustEqual(r)
}

func TestLanguageFromLocale(t *testing.T) {
	for in, want := range map[string]string{"en-US": "en", "fr_FR.UTF-8": "fr", "ES": "es", "de-DE": ""} {
		got, _ := LanguageFromLocale(in)
		if got != want {
			t.Fatalf("%s: got %q want %q", in, got, want)
		}
	}
}
