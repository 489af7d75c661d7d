package client

import (
	"chat-hub/domain"
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

const (
	waitFor = time.Second
	tick    = 5 * time.Millisecond
)

type engineFixture struct {
	engine   *Engine
	api      *fakeAPI
	notifier *fakeNotifier
	me       domain.Identity
}

func newEngineFixture(t *testing.T) engineFixture {
	t.Helper()
	f := engineFixture{api: newFakeAPI(), notifier: &fakeNotifier{}, me: identity("Alice")}
	f.engine = NewEngine(logs.GetLoggerFromLevel(slog.LevelDebug), f.me, f.api, f.notifier).
		WithWait(5*time.Millisecond, 50*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = f.engine.Run(ctx) }()
	return f
}

func (f engineFixture) messageIDs() []string {
	var ids []string
	for _, entry := range f.engine.Snapshot().Messages {
		ids = append(ids, entry.ID)
	}
	return ids
}

func TestEngine_Optimistic_Send(t *testing.T) {
	t.Run("should replace the pending entry with the confirmed message", func(t *testing.T) {
		req := require.New(t)
		f := newEngineFixture(t)
		bob := identity("Bob")
		target := domain.DirectTarget(bob.ID)
		confirmed := directMessage(f.me.ID, bob.ID, "hello", time.Now())
		release := make(chan struct{})
		f.api.send = func(domain.Target, domain.Body) (domain.Message, error) {
			<-release
			return confirmed, nil
		}

		// Given an open conversation
		f.engine.Open(target)
		req.Eventually(func() bool { return f.engine.Snapshot().State == StateReady }, waitFor, tick)

		// When a message is sent
		tempID, err := f.engine.Send(domain.Body{Text: "hello"})
		req.NoError(err)
		req.True(strings.HasPrefix(tempID, "temp-"))

		snapshot := f.engine.Snapshot()
		req.Len(snapshot.Messages, 1)
		req.True(snapshot.Messages[0].Pending)
		req.Equal(tempID, snapshot.Messages[0].ID)

		close(release)

		// Then the temporary entry becomes the confirmed one
		req.Eventually(func() bool {
			ids := f.messageIDs()
			return len(ids) == 1 && ids[0] == confirmed.ID
		}, waitFor, tick)
		snapshot = f.engine.Snapshot()
		req.False(snapshot.Messages[0].Pending)
		req.Len(snapshot.Conversations, 1)
		req.Equal(confirmed.ID, snapshot.Conversations[0].LastMessage.ID)
	})

	t.Run("should remove the pending entry and report the failure", func(t *testing.T) {
		req := require.New(t)
		f := newEngineFixture(t)
		cause := errors.New("boom")
		f.api.send = func(domain.Target, domain.Body) (domain.Message, error) { return domain.Message{}, cause }

		f.engine.Open(domain.DirectTarget(identity("Bob").ID))
		_, err := f.engine.Send(domain.Body{Text: "hello"})
		req.NoError(err)

		req.Eventually(func() bool { return len(f.notifier.Errors()) == 1 }, waitFor, tick)
		req.ErrorIs(f.notifier.Errors()[0], ErrSendFailed)
		req.ErrorIs(f.notifier.Errors()[0], cause)
		req.Empty(f.engine.Snapshot().Messages)
	})

	t.Run("should not duplicate a message already pushed", func(t *testing.T) {
		req := require.New(t)
		f := newEngineFixture(t)
		bob := identity("Bob")
		confirmed := directMessage(f.me.ID, bob.ID, "hello", time.Now())
		release := make(chan struct{})
		f.api.send = func(domain.Target, domain.Body) (domain.Message, error) {
			<-release
			return confirmed, nil
		}

		f.engine.Open(domain.DirectTarget(bob.ID))
		_, err := f.engine.Send(domain.Body{Text: "hello"})
		req.NoError(err)
		f.engine.HandlePush(confirmed)
		req.Eventually(func() bool { return len(f.messageIDs()) == 2 }, waitFor, tick)

		close(release)

		req.Eventually(func() bool {
			ids := f.messageIDs()
			return len(ids) == 1 && ids[0] == confirmed.ID
		}, waitFor, tick)
	})

	t.Run("should need an open conversation", func(t *testing.T) {
		f := newEngineFixture(t)
		_, err := f.engine.Send(domain.Body{Text: "hello"})
		require.ErrorIs(t, err, ErrNoActiveConversation)
	})
}

func TestEngine_Push_Reconciliation(t *testing.T) {
	req := require.New(t)
	f := newEngineFixture(t)
	bob, carol := identity("Bob"), identity("Carol")
	f.api.contacts = []domain.Identity{bob, carol}
	f.api.partners = []domain.Conversation{{Target: domain.DirectTarget(bob.ID), Name: bob.FullName}}
	f.engine.SetSoundEnabled(true)
	f.engine.Refresh()
	req.Eventually(func() bool { return len(f.engine.Snapshot().Conversations) == 1 }, waitFor, tick)

	f.engine.Open(domain.DirectTarget(bob.ID))
	req.Eventually(func() bool { return f.engine.Snapshot().State == StateReady }, waitFor, tick)

	// When bob's message is pushed twice
	fromBob := directMessage(bob.ID, f.me.ID, "hi", time.Now())
	f.engine.HandlePush(fromBob)
	f.engine.HandlePush(fromBob)

	// Then it is shown once, read and reported as read
	req.Eventually(func() bool { return len(f.api.markedIDs()) >= 1 }, waitFor, tick)
	snapshot := f.engine.Snapshot()
	req.Len(snapshot.Messages, 1)
	req.True(snapshot.Messages[0].HasRead(f.me.ID))
	req.False(snapshot.Conversations[0].Unread(f.me.ID))
	req.Empty(f.notifier.Alerts())

	// When carol, unknown so far, writes
	refreshes := f.api.refreshCount()
	fromCarol := directMessage(carol.ID, f.me.ID, "hey", time.Now().Add(time.Second))
	f.engine.HandlePush(fromCarol)

	// Then the open conversation is untouched, carol's summary comes first
	req.Eventually(func() bool { return len(f.notifier.Alerts()) == 1 }, waitFor, tick)
	snapshot = f.engine.Snapshot()
	req.Len(snapshot.Messages, 1)
	req.Equal(domain.DirectTarget(carol.ID), snapshot.Conversations[0].Target)
	req.Equal("Carol", snapshot.Conversations[0].Name)
	req.True(snapshot.Conversations[0].Unread(f.me.ID))
	req.Eventually(func() bool { return f.api.refreshCount() > refreshes }, waitFor, tick)

	alert := f.notifier.Alerts()[0]
	req.Equal("Carol", alert.Sender)
	req.Equal(MentionNone, alert.Mention)
	req.True(alert.Sound)
}

func TestEngine_Summary_Ordering(t *testing.T) {
	req := require.New(t)
	f := newEngineFixture(t)
	bob, carol := identity("Bob"), identity("Carol")
	now := time.Now()
	f.api.partners = []domain.Conversation{
		{Target: domain.DirectTarget(bob.ID), Name: "Bob", LastMessage: ptr(directMessage(bob.ID, f.me.ID, "old", now))},
		{Target: domain.DirectTarget(carol.ID), Name: "Carol", LastMessage: ptr(directMessage(carol.ID, f.me.ID, "older", now.Add(-time.Hour)))},
	}
	f.engine.Refresh()
	req.Eventually(func() bool { return len(f.engine.Snapshot().Conversations) == 2 }, waitFor, tick)
	req.Equal("Bob", f.engine.Snapshot().Conversations[0].Name)

	f.engine.HandlePush(directMessage(carol.ID, f.me.ID, "new", now.Add(time.Minute)))

	req.Eventually(func() bool { return f.engine.Snapshot().Conversations[0].Name == "Carol" }, waitFor, tick)
	req.Equal("Bob", f.engine.Snapshot().Conversations[1].Name)
}

func TestEngine_Group_Mentions(t *testing.T) {
	req := require.New(t)
	f := newEngineFixture(t)
	bob := identity("Bob")
	groupID := identity("group").ID
	f.api.contacts = []domain.Identity{bob}
	f.api.groups = []domain.Conversation{{Target: domain.GroupTarget(groupID), Name: "team"}}
	f.engine.Refresh()
	req.Eventually(func() bool { return len(f.engine.Snapshot().Conversations) == 1 }, waitFor, tick)

	f.engine.Open(domain.GroupTarget(groupID))
	req.Eventually(func() bool { return f.engine.Snapshot().State == StateReady }, waitFor, tick)

	// A plain message in the open group does not alert, a mention does
	f.engine.HandlePush(groupMessage(bob.ID, groupID, "hello", time.Now()))
	f.engine.HandlePush(groupMessage(bob.ID, groupID, "ping @Alice", time.Now()))
	f.engine.HandlePush(groupMessage(bob.ID, groupID, "@All standup", time.Now()))
	f.engine.HandlePush(groupMessage(f.me.ID, groupID, "@All mine", time.Now()))

	req.Eventually(func() bool { return len(f.engine.Snapshot().Messages) == 4 }, waitFor, tick)
	alerts := f.notifier.Alerts()
	req.Len(alerts, 2)
	req.Equal(MentionMe, alerts[0].Mention)
	req.Equal(MentionEveryone, alerts[1].Mention)
	req.Equal("You were mentioned by Bob in team", alerts[0].Title())
	req.False(alerts[0].Sound)
}

func TestEngine_Fetch(t *testing.T) {
	t.Run("should drop the history of a conversation left meanwhile", func(t *testing.T) {
		req := require.New(t)
		f := newEngineFixture(t)
		bob, carol := identity("Bob"), identity("Carol")
		f.api.history[domain.DirectTarget(bob.ID)] = []domain.Message{directMessage(bob.ID, f.me.ID, "from bob", time.Now())}
		f.api.history[domain.DirectTarget(carol.ID)] = []domain.Message{directMessage(carol.ID, f.me.ID, "from carol", time.Now())}
		release := f.api.gate(domain.DirectTarget(bob.ID))

		f.engine.Open(domain.DirectTarget(bob.ID))
		f.engine.Open(domain.DirectTarget(carol.ID))
		req.Eventually(func() bool { return f.engine.Snapshot().State == StateReady }, waitFor, tick)
		release()

		req.Never(func() bool {
			messages := f.engine.Snapshot().Messages
			return len(messages) != 1 || messages[0].Text != "from carol"
		}, 100*time.Millisecond, tick)
	})

	t.Run("should merge pushes received while loading", func(t *testing.T) {
		req := require.New(t)
		f := newEngineFixture(t)
		bob := identity("Bob")
		target := domain.DirectTarget(bob.ID)
		first := directMessage(bob.ID, f.me.ID, "one", time.Now())
		second := directMessage(bob.ID, f.me.ID, "two", time.Now().Add(time.Second))
		f.api.history[target] = []domain.Message{first, second}
		release := f.api.gate(target)

		f.engine.Open(target)
		f.engine.HandlePush(second)
		req.Eventually(func() bool { return len(f.engine.Snapshot().Messages) == 1 }, waitFor, tick)
		req.Equal(StateLoading, f.engine.Snapshot().State)
		release()

		req.Eventually(func() bool { return f.engine.Snapshot().State == StateReady }, waitFor, tick)
		req.Equal([]string{first.ID, second.ID}, f.messageIDs())
		req.Eventually(func() bool {
			marked := f.api.markedIDs()
			return slices.Contains(marked, first.ID) && slices.Contains(marked, second.ID)
		}, waitFor, tick)
	})
}

func TestEngine_Subscribe(t *testing.T) {
	t.Run("should forward pushed messages once connected", func(t *testing.T) {
		req := require.New(t)
		f := newEngineFixture(t)
		socket := &fakeSocket{connected: true, messages: make(chan domain.Message, 1)}
		f.engine.Subscribe(context.Background(), socket)

		socket.messages <- directMessage(identity("Bob").ID, f.me.ID, "hi", time.Now())

		req.Eventually(func() bool { return len(f.engine.Snapshot().Conversations) == 1 }, waitFor, tick)
	})

	t.Run("should give up silently when the socket never connects", func(t *testing.T) {
		req := require.New(t)
		f := newEngineFixture(t)
		socket := &fakeSocket{messages: make(chan domain.Message, 1)}
		f.engine.Subscribe(context.Background(), socket)
		socket.messages <- directMessage(identity("Bob").ID, f.me.ID, "hi", time.Now())

		time.Sleep(100 * time.Millisecond)

		f.engine.SetSoundEnabled(true)
		snapshot := f.engine.Snapshot()
		req.True(snapshot.SoundEnabled)
		req.Empty(snapshot.Conversations)
		req.Empty(f.notifier.Errors())
	})
}

func TestEngine_Snapshot_After_Stop(t *testing.T) {
	engine := NewEngine(logs.GetLoggerFromLevel(slog.LevelDebug), identity("Alice"), newFakeAPI(), &fakeNotifier{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { _ = engine.Run(ctx); close(done) }()
	cancel()
	<-done

	require.Equal(t, Snapshot{}, engine.Snapshot())
	_, err := engine.Send(domain.Body{Text: "x"})
	require.ErrorIs(t, err, ErrEngineStopped)
}

func ptr[T any](v T) *T { return &v }
