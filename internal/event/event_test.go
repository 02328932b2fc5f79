package event

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplyTarget(t *testing.T) {
	cases := []struct {
		name string
		tags Tags
		want string
		ok   bool
	}{
		{name: "marked reply wins", tags: Tags{{"e", "A", "", "root"}, {"e", "B", "", "reply"}}, want: "B", ok: true},
		{name: "reply marker before root", tags: Tags{{"e", "B", "", "reply"}, {"e", "A", "", "root"}}, want: "B", ok: true},
		{name: "legacy unmarked", tags: Tags{{"e", "C", "", ""}}, want: "C", ok: true},
		{name: "legacy short tag", tags: Tags{{"e", "C"}}, want: "C", ok: true},
		{name: "legacy picks last", tags: Tags{{"e", "X"}, {"p", "pk"}, {"e", "Y"}}, want: "Y", ok: true},
		{name: "last marked reply", tags: Tags{{"e", "R1", "", "reply"}, {"e", "R2", "wss://r", "reply"}}, want: "R2", ok: true},
		{name: "root only falls back", tags: Tags{{"e", "A", "", "root"}}, want: "A", ok: true},
		{name: "empty reply id still targeted", tags: Tags{{"e", "A", "", "root"}, {"e", "", "", "reply"}}, want: "", ok: true},
		{name: "short reply tag skipped", tags: Tags{{"e", "A", "", "root"}, {"e"}}, want: "A", ok: true},
		{name: "id-less e tag only", tags: Tags{{"e"}}, ok: false},
		{name: "no e tag", tags: Tags{{"p", "pk"}}, ok: false},
		{name: "no tags", tags: nil, ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ReplyTarget(&Event{Tags: tc.tags})
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestReplyTargetNil(t *testing.T) {
	_, ok := ReplyTarget(nil)
	assert.False(t, ok)
}

func TestSerializeCanonicalForm(t *testing.T) {
	ev := &Event{
		PubKey:    "abc",
		CreatedAt: 1700000000,
		Kind:      KindTextNote,
		Tags:      Tags{{"e", "id1", "", "reply"}, {"p", "pk1"}},
		Content:   "<b>\"hi\"</b>\n⚫",
	}
	raw, err := ev.Serialize()
	require.NoError(t, err)
	assert.Equal(t, `[0,"abc",1700000000,1,[["e","id1","","reply"],["p","pk1"]],"<b>\"hi\"</b>\n⚫"]`, string(raw))
}

func TestSerializeNilTags(t *testing.T) {
	raw, err := (&Event{PubKey: "k", Kind: 1}).Serialize()
	require.NoError(t, err)
	assert.Equal(t, `[0,"k",0,1,[],""]`, string(raw))
}

func TestHashIgnoresIDAndSig(t *testing.T) {
	a := &Event{PubKey: "k", CreatedAt: 1, Kind: 1, Content: "x"}
	b := *a
	b.ID, b.Sig = "ffff", "eeee"

	ha, err := a.Hash()
	require.NoError(t, err)
	hb, err := b.Hash()
	require.NoError(t, err)
	assert.Equal(t, ha, hb)
	assert.Len(t, ha, 64)
}

func TestMarshalUsesWireNames(t *testing.T) {
	ev := &Event{ID: "i", PubKey: "p", CreatedAt: 5, Kind: 1, Content: "a&b", Sig: "s"}
	raw, err := ev.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"tags":[]`)
	assert.Contains(t, string(raw), `"content":"a&b"`)

	var back Event
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, "p", back.PubKey)
	assert.Equal(t, int64(5), back.CreatedAt)
}
