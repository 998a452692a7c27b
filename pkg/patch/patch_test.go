package patch

import (
	"encoding/json"
	"slices"
	"testing"
)

func TestPointerEscaping(t *testing.T) {
	p := Pointer("gameStore", "games", "a/b~c")
	if p != "/gameStore/games/a~1b~0c" {
		t.Fatalf("pointer: %s", p)
	}
	if got := Split(p); !slices.Equal(got, []string{"gameStore", "games", "a/b~c"}) {
		t.Fatalf("split: %v", got)
	}
	if Split("") != nil {
		t.Fatalf("root pointer should have no tokens")
	}
}

func TestApply(t *testing.T) {
	doc := []byte(`{"gameStore":{"gamesOrder":["a","b"],"selectedGame":"a"}}`)
	out, err := Apply(doc,
		Remove("/gameStore/gamesOrder/0"),
		Add("/gameStore/gamesOrder/1", "a"),
		Replace("/gameStore/selectedGame", nil),
	)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte(`{"gameStore":{"gamesOrder":["b","a"],"selectedGame":null}}`)
	if !Equal(out, want) {
		t.Fatalf("got %s", out)
	}
	if !Equal(doc, []byte(`{"gameStore":{"gamesOrder":["a","b"],"selectedGame":"a"}}`)) {
		t.Fatalf("input document was modified")
	}
}

func TestApplyRejects(t *testing.T) {
	doc := []byte(`{"a":1}`)
	if _, err := Apply(doc, Patch{Op: "move", Path: "/a"}); err == nil {
		t.Fatalf("move is not supported")
	}
	if _, err := Apply(doc, Remove("/missing")); err == nil {
		t.Fatalf("removing a missing path should fail")
	}
}

func TestCommitTouches(t *testing.T) {
	c := Commit{Seq: 1, Patches: []Patch{Replace("/gameStore/isMuted", true)}}
	if !c.Touches("/gameStore/isMuted") || !c.Touches("/gameStore") {
		t.Fatalf("commit should touch the muted flag and its parent")
	}
	if c.Touches("/gameStore/is") || c.Touches("/appStore") {
		t.Fatalf("commit should not touch unrelated paths")
	}
	reset := Commit{Seq: 2, Patches: []Patch{Replace("/gameStore", map[string]any{})}}
	if !reset.Touches("/gameStore/games/x") {
		t.Fatalf("replacing an ancestor touches its children")
	}
}

func TestEnvelope(t *testing.T) {
	b, err := Encode(TypePatch, Commit{Seq: 3, Patches: []Patch{Remove("/x")}})
	if err != nil {
		t.Fatal(err)
	}
	env, err := Decode(b)
	if err != nil {
		t.Fatal(err)
	}
	if env.Type != TypePatch {
		t.Fatalf("type %q", env.Type)
	}
	var c Commit
	if err := json.Unmarshal(env.Payload, &c); err != nil {
		t.Fatal(err)
	}
	if c.Seq != 3 || c.Patches[0].Op != OpRemove || c.Patches[0].Value != nil {
		t.Fatalf("commit %+v", c)
	}
	if _, err := Decode([]byte(`{"payload":{}}`)); err == nil {
		t.Fatalf("missing type should fail")
	}
}
