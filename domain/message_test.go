package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewMessage_Sender_Has_Read(t *testing.T) {
	req := require.New(t)
	msg := NewMessage("alice", DirectTarget("bob"), "hello", "", time.Now())

	req.True(msg.Valid())
	req.True(msg.HasRead("alice"))
	req.False(msg.HasRead("bob"))
	req.Equal("bob", msg.ReceiverID)
	req.Empty(msg.GroupID)
}

func TestNewMessage_Group_Target(t *testing.T) {
	req := require.New(t)
	msg := NewMessage("alice", GroupTarget("g1"), "hi all", "", time.Now())

	req.True(msg.Valid())
	req.True(msg.IsGroup())
	req.Empty(msg.ReceiverID)
	req.Equal(GroupTarget("g1"), msg.ConversationFor("bob"))
}

func TestMarkReadBy_Set_Semantics(t *testing.T) {
	req := require.New(t)
	msg := NewMessage("alice", DirectTarget("bob"), "hello", "", time.Now())

	req.True(msg.MarkReadBy("bob"))
	req.False(msg.MarkReadBy("bob"))
	req.False(msg.MarkReadBy("alice"))
	req.Equal([]string{"alice", "bob"}, msg.ReadBy)
}

func TestConversationFor_Direct_Is_The_Peer(t *testing.T) {
	req := require.New(t)
	msg := NewMessage("alice", DirectTarget("bob"), "hello", "", time.Now())

	req.Equal(DirectTarget("bob"), msg.ConversationFor("alice"))
	req.Equal(DirectTarget("alice"), msg.ConversationFor("bob"))
}

func TestBody_Empty_And_Too_Long(t *testing.T) {
	req := require.New(t)
	req.True(Body{}.Empty())
	req.True(Body{Text: "   "}.Empty())
	req.False(Body{Image: "data:image/png;base64,AAAA"}.Empty())

	long := make([]rune, MaxTextLength+1)
	for i := range long {
		long[i] = 'é'
	}
	req.True(Body{Text: string(long)}.TooLong())
	req.False(Body{Text: string(long[:MaxTextLength])}.TooLong())
}

func TestCanonicalID(t *testing.T) {
	req := require.New(t)
	req.Equal("6f1c2b6e-8a7d-4c1e-9b0a-2f3e4d5c6b7a", CanonicalID(" 6F1C2B6E-8A7D-4C1E-9B0A-2F3E4D5C6B7A "))
	req.True(SameID("abc", " abc"))
	req.False(SameID("abc", "abd"))
}

func TestSortConversations_Most_Recent_First_And_Stable(t *testing.T) {
	req := require.New(t)
	t1 := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	at := func(id string, tm time.Time) Conversation {
		m := NewMessage("x", DirectTarget(id), "m", "", tm)
		return Conversation{Target: DirectTarget(id), LastMessage: &m}
	}
	list := []Conversation{
		at("p1", t1),
		{Target: DirectTarget("empty")},
		at("p3", t1.Add(2*time.Minute)),
		at("p2", t1.Add(time.Minute)),
		at("p2bis", t1.Add(time.Minute)),
	}

	SortConversations(list)

	var ids []string
	for _, c := range list {
		ids = append(ids, c.Target.ID)
	}
	req.Equal([]string{"p3", "p2", "p2bis", "p1", "empty"}, ids)
}
