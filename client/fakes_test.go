package client

import (
	"chat-hub/domain"
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type fakeAPI struct {
	mu        sync.Mutex
	history   map[domain.Target][]domain.Message
	gates     map[domain.Target]chan struct{}
	send      func(target domain.Target, body domain.Body) (domain.Message, error)
	marked    []string
	partners  []domain.Conversation
	groups    []domain.Conversation
	contacts  []domain.Identity
	refreshes int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{history: map[domain.Target][]domain.Message{}, gates: map[domain.Target]chan struct{}{}}
}

// gate makes the next Messages call for target wait until the returned func is called.
func (f *fakeAPI) gate(target domain.Target) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[target] = ch
	return func() { close(ch) }
}

func (f *fakeAPI) ChatPartners(context.Context) ([]domain.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshes++
	return append([]domain.Conversation(nil), f.partners...), nil
}

func (f *fakeAPI) Groups(context.Context) ([]domain.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Conversation(nil), f.groups...), nil
}

func (f *fakeAPI) Contacts(context.Context) ([]domain.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Identity(nil), f.contacts...), nil
}

func (f *fakeAPI) Messages(ctx context.Context, target domain.Target) ([]domain.Message, error) {
	f.mu.Lock()
	gate := f.gates[target]
	delete(f.gates, target)
	f.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return cloneMessages(f.history[target]), nil
}

func (f *fakeAPI) Send(_ context.Context, target domain.Target, body domain.Body) (domain.Message, error) {
	return f.send(target, body)
}

func (f *fakeAPI) MarkRead(_ context.Context, ids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.marked = append(f.marked, ids...)
	return nil
}

func (f *fakeAPI) markedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.marked...)
}

func (f *fakeAPI) refreshCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refreshes
}

type fakeNotifier struct {
	mu     sync.Mutex
	alerts []Alert
	errs   []error
}

func (n *fakeNotifier) Alert(alert Alert) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, alert)
}

func (n *fakeNotifier) Error(err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errs = append(n.errs, err)
}

func (n *fakeNotifier) Alerts() []Alert {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Alert(nil), n.alerts...)
}

func (n *fakeNotifier) Errors() []error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]error(nil), n.errs...)
}

type fakeSocket struct {
	connected bool
	messages  chan domain.Message
}

func (s *fakeSocket) Connected() bool { return s.connected }

func (s *fakeSocket) Messages() <-chan domain.Message { return s.messages }

func identity(name string) domain.Identity {
	return domain.Identity{ID: uuid.NewString(), FullName: name}
}

func directMessage(from, to string, text string, at time.Time) domain.Message {
	return domain.NewMessage(from, domain.DirectTarget(to), text, "", at)
}

func groupMessage(from, groupID string, text string, at time.Time) domain.Message {
	return domain.NewMessage(from, domain.GroupTarget(groupID), text, "", at)
}

func cloneMessages(messages []domain.Message) []domain.Message {
	out := make([]domain.Message, 0, len(messages))
	for _, m := range messages {
		out = append(out, m.Clone())
	}
	return out
}
