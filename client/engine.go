// Package client keeps a chat client in sync with the server.
//
// All state lives in an Engine and is only touched by its event loop:
// public methods post closures to the loop, network calls run in their own
// goroutines and post their completion back. A completion carries the
// generation of the conversation it was started for and is dropped when the
// user has opened another conversation in the meantime.
package client

import (
	"chat-hub/domain"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

const (
	tempPrefix            = "temp-"
	defaultPollInterval   = 100 * time.Millisecond
	defaultConnectTimeout = 5 * time.Second
	actionBufferSize      = 64
)

type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
)

// Entry is a message of the open conversation.
// Pending entries are optimistic sends not yet confirmed by the server.
type Entry struct {
	domain.Message
	Pending bool `json:"pending,omitempty"`
}

// Snapshot is a copy of the engine state.
type Snapshot struct {
	Me            domain.Identity
	Active        *domain.Target
	State         State
	Messages      []Entry
	Conversations []domain.Conversation
	SoundEnabled  bool
}

type Engine struct {
	log      *slog.Logger
	api      API
	notifier Notifier
	me       domain.Identity

	pollInterval   time.Duration
	connectTimeout time.Duration

	actions chan func()
	started chan struct{}
	done    chan struct{}
	ctx     context.Context

	// Owned by the loop.
	state         State
	active        *domain.Target
	generation    uint64
	messages      []Entry
	conversations []domain.Conversation
	names         map[string]string
	soundEnabled  bool
	refreshing    bool
}

func NewEngine(log *slog.Logger, me domain.Identity, api API, notifier Notifier) *Engine {
	return &Engine{
		log:            log,
		api:            api,
		notifier:       notifier,
		me:             me,
		pollInterval:   defaultPollInterval,
		connectTimeout: defaultConnectTimeout,
		actions:        make(chan func(), actionBufferSize),
		started:        make(chan struct{}),
		done:           make(chan struct{}),
		ctx:            context.Background(),
		state:          StateIdle,
		names:          map[string]string{domain.CanonicalID(me.ID): me.FullName},
	}
}

// WithWait sets how the engine waits for the socket before subscribing.
func (e *Engine) WithWait(interval, timeout time.Duration) *Engine {
	e.pollInterval = interval
	e.connectTimeout = timeout
	return e
}

// Run drives the event loop until ctx is done.
func (e *Engine) Run(ctx context.Context) error {
	e.ctx = ctx
	close(e.started)
	defer close(e.done)
	for {
		select {
		case <-ctx.Done():
			return nil
		case action := <-e.actions:
			action()
		}
	}
}

// post queues an action on the loop. It returns false once the loop is gone.
func (e *Engine) post(action func()) bool {
	select {
	case <-e.done:
		return false
	default:
	}
	select {
	case e.actions <- action:
		return true
	case <-e.done:
		return false
	}
}

// call runs fn on the loop and waits for it.
func (e *Engine) call(fn func()) bool {
	executed := make(chan struct{})
	if !e.post(func() { fn(); close(executed) }) {
		return false
	}
	select {
	case <-executed:
		return true
	case <-e.done:
		return false
	}
}

// async runs a network call off the loop and posts its completion back.
func (e *Engine) async(call func(ctx context.Context) func()) {
	<-e.started
	ctx := e.ctx
	go func() {
		completion := call(ctx)
		if completion != nil {
			e.post(completion)
		}
	}()
}

// Subscribe forwards pushed messages to the engine once the socket is up.
// When the socket does not come up in time, the engine gives up silently.
func (e *Engine) Subscribe(ctx context.Context, socket Socket) {
	go func() {
		if err := WaitConnected(ctx, socket.Connected, e.pollInterval, e.connectTimeout); err != nil {
			e.log.Debug("Socket not connected, subscription skipped", "error", err)
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case message, ok := <-socket.Messages():
				if !ok {
					return
				}
				e.HandlePush(message)
			}
		}
	}()
}

// Open makes target the active conversation and loads its history.
func (e *Engine) Open(target domain.Target) {
	e.post(func() {
		e.generation++
		generation := e.generation
		e.active = &target
		e.state = StateLoading
		e.messages = nil

		e.async(func(ctx context.Context) func() {
			messages, err := e.api.Messages(ctx, target)
			return func() { e.loaded(generation, target, messages, err) }
		})
	})
}

func (e *Engine) loaded(generation uint64, target domain.Target, messages []domain.Message, err error) {
	if generation != e.generation {
		e.log.Debug("Stale history dropped", "target", target.String())
		return
	}
	e.state = StateReady
	if err != nil {
		e.notifier.Error(fmt.Errorf("loading %s: %w", target, err))
		return
	}

	merged := lo.Map(messages, func(m domain.Message, _ int) Entry { return Entry{Message: m.Clone()} })
	for _, entry := range e.messages {
		if !containsEntry(merged, entry.ID) {
			merged = append(merged, entry)
		}
	}
	e.messages = merged
	e.readMerge(target)
}

// readMerge reports every unread message of the open conversation and
// patches the local copies.
func (e *Engine) readMerge(target domain.Target) {
	var unread []string
	for i := range e.messages {
		if e.messages[i].Pending {
			continue
		}
		if e.messages[i].MarkReadBy(e.me.ID) {
			unread = append(unread, e.messages[i].ID)
		}
	}
	if i, ok := e.findConversation(target); ok && e.conversations[i].LastMessage != nil {
		e.conversations[i].LastMessage.MarkReadBy(e.me.ID)
	}
	if len(unread) == 0 {
		return
	}
	e.async(func(ctx context.Context) func() {
		if err := e.api.MarkRead(ctx, unread); err != nil {
			e.log.Warn("Failed to mark messages as read", "count", len(unread), "error", err)
		}
		return nil
	})
}

// Send appends an optimistic entry to the open conversation and returns its
// temporary id. The entry is replaced by the confirmed message, or removed
// when the server refuses it.
func (e *Engine) Send(body domain.Body) (string, error) {
	var (
		tempID string
		err    error
	)
	ok := e.call(func() {
		if e.active == nil {
			err = ErrNoActiveConversation
			return
		}
		target := *e.active
		generation := e.generation
		tempID = tempPrefix + uuid.NewString()

		pending := domain.NewMessage(e.me.ID, target, body.Text, body.Image, time.Now().UTC())
		pending.ID = tempID
		e.messages = append(e.messages, Entry{Message: pending, Pending: true})

		e.async(func(ctx context.Context) func() {
			message, sendErr := e.api.Send(ctx, target, body)
			return func() { e.confirmed(generation, target, tempID, message, sendErr) }
		})
	})
	if !ok {
		return "", ErrEngineStopped
	}
	return tempID, err
}

func (e *Engine) confirmed(generation uint64, target domain.Target, tempID string, message domain.Message, err error) {
	current := generation == e.generation
	if err != nil {
		if current {
			e.removeEntry(tempID)
		}
		e.notifier.Error(fmt.Errorf("%w: %w", ErrSendFailed, err))
		return
	}

	if current {
		i := slices.IndexFunc(e.messages, func(entry Entry) bool { return entry.ID == tempID })
		switch {
		case i < 0:
		case containsEntry(e.messages, message.ID):
			e.removeEntry(tempID)
		default:
			e.messages[i] = Entry{Message: message.Clone()}
		}
	}
	e.upsertLast(target, message)
}

// HandlePush reconciles a message pushed by the server.
func (e *Engine) HandlePush(message domain.Message) {
	e.post(func() { e.pushed(message) })
}

func (e *Engine) pushed(message domain.Message) {
	message = message.Clone()
	target := message.ConversationFor(e.me.ID)
	active := e.active != nil && e.active.Equal(target)

	if active {
		if !containsEntry(e.messages, message.ID) {
			e.messages = append(e.messages, Entry{Message: message.Clone()})
		}
		if message.MarkReadBy(e.me.ID) && e.patchEntry(message.ID) {
			id := message.ID
			e.async(func(ctx context.Context) func() {
				if err := e.api.MarkRead(ctx, []string{id}); err != nil {
					e.log.Warn("Failed to mark message as read", "message_id", id, "error", err)
				}
				return nil
			})
		}
	}

	if !e.upsertLast(target, message) {
		e.log.Debug("Message from an unknown conversation", "target", target.String())
		e.refresh()
	}

	d := decide(message, e.me, active, e.soundEnabled)
	if !d.alert {
		return
	}
	alert := Alert{
		Conversation: target,
		Mention:      d.mention,
		Sender:       e.names[domain.CanonicalID(message.SenderID)],
		Text:         message.Text,
		Sound:        d.sound,
	}
	if target.IsGroup() {
		if i, ok := e.findConversation(target); ok {
			alert.Group = e.conversations[i].Name
		}
	}
	e.notifier.Alert(alert)
}

// upsertLast sets the last message of the matching summary and re-sorts the list.
// An unknown conversation gets a placeholder and false is returned.
func (e *Engine) upsertLast(target domain.Target, message domain.Message) bool {
	last := message.Clone()
	i, known := e.findConversation(target)
	if known {
		e.conversations[i].LastMessage = &last
	} else {
		e.conversations = append(e.conversations, domain.Conversation{
			Target:      target,
			Name:        e.names[target.ID],
			LastMessage: &last,
		})
	}
	domain.SortConversations(e.conversations)
	return known
}

// Refresh reloads chat partners, groups and contacts into the summary list.
func (e *Engine) Refresh() {
	e.post(e.refresh)
}

func (e *Engine) refresh() {
	if e.refreshing {
		return
	}
	e.refreshing = true
	e.async(func(ctx context.Context) func() {
		conversations, contacts, err := e.fetchSummaries(ctx)
		return func() { e.refreshed(conversations, contacts, err) }
	})
}

func (e *Engine) fetchSummaries(ctx context.Context) ([]domain.Conversation, []domain.Identity, error) {
	partners, err := e.api.ChatPartners(ctx)
	if err != nil {
		return nil, nil, err
	}
	groups, err := e.api.Groups(ctx)
	if err != nil {
		return nil, nil, err
	}
	contacts, err := e.api.Contacts(ctx)
	if err != nil {
		return nil, nil, err
	}
	return append(partners, groups...), contacts, nil
}

func (e *Engine) refreshed(conversations []domain.Conversation, contacts []domain.Identity, err error) {
	e.refreshing = false
	if err != nil {
		e.notifier.Error(fmt.Errorf("refresh: %w", err))
		return
	}
	for _, contact := range contacts {
		e.names[domain.CanonicalID(contact.ID)] = contact.FullName
	}
	for _, conversation := range conversations {
		if !conversation.Target.IsGroup() {
			e.names[conversation.Target.ID] = conversation.Name
		}
	}

	// A push received while the request was in flight may be newer than the server answer.
	for _, local := range e.conversations {
		if local.LastMessage == nil {
			continue
		}
		i := slices.IndexFunc(conversations, func(c domain.Conversation) bool { return c.Target.Equal(local.Target) })
		switch {
		case i < 0:
			conversations = append(conversations, local)
		case conversations[i].LastMessage == nil || conversations[i].LastMessage.CreatedAt.Before(local.LastMessage.CreatedAt):
			conversations[i].LastMessage = local.LastMessage
		}
	}
	domain.SortConversations(conversations)
	e.conversations = conversations
}

func (e *Engine) SetSoundEnabled(enabled bool) {
	e.post(func() { e.soundEnabled = enabled })
}

// Snapshot returns a copy of the state. It is empty once the engine is stopped.
func (e *Engine) Snapshot() Snapshot {
	var snapshot Snapshot
	e.call(func() {
		snapshot = Snapshot{
			Me:           e.me,
			State:        e.state,
			SoundEnabled: e.soundEnabled,
			Messages: lo.Map(e.messages, func(entry Entry, _ int) Entry {
				return Entry{Message: entry.Message.Clone(), Pending: entry.Pending}
			}),
			Conversations: lo.Map(e.conversations, func(c domain.Conversation, _ int) domain.Conversation {
				if c.LastMessage != nil {
					last := c.LastMessage.Clone()
					c.LastMessage = &last
				}
				c.Members = slices.Clone(c.Members)
				return c
			}),
		}
		if e.active != nil {
			active := *e.active
			snapshot.Active = &active
		}
	})
	return snapshot
}

func (e *Engine) findConversation(target domain.Target) (int, bool) {
	i := slices.IndexFunc(e.conversations, func(c domain.Conversation) bool { return c.Target.Equal(target) })
	return i, i >= 0
}

func (e *Engine) removeEntry(id string) {
	e.messages = slices.DeleteFunc(e.messages, func(entry Entry) bool { return entry.ID == id })
}

// patchEntry marks the entry id as read by me and reports whether it changed.
func (e *Engine) patchEntry(id string) bool {
	changed := false
	for i := range e.messages {
		if e.messages[i].ID == id && e.messages[i].MarkReadBy(e.me.ID) {
			changed = true
		}
	}
	return changed
}

func containsEntry(entries []Entry, id string) bool {
	return slices.ContainsFunc(entries, func(entry Entry) bool { return entry.ID == id })
}
