package client

import (
	"chat-hub/domain"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/valyala/fasthttp"
)

const defaultRequestTimeout = 10 * time.Second

// Session is returned by Signup and Login.
type Session struct {
	domain.Identity
	Token string `json:"token"`
}

// APIError is a non 2xx answer of the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// HTTPAPI talks to the REST API. It keeps the token of the last login.
type HTTPAPI struct {
	baseURL string
	client  *fasthttp.Client
	timeout time.Duration

	mu    sync.RWMutex
	token string
}

func NewHTTPAPI(baseURL string) *HTTPAPI {
	return &HTTPAPI{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &fasthttp.Client{Name: "chat-hub-client"},
		timeout: defaultRequestTimeout,
	}
}

func (a *HTTPAPI) Token() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.token
}

func (a *HTTPAPI) SetToken(token string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.token = token
}

func (a *HTTPAPI) Signup(ctx context.Context, fullName, email, password string) (Session, error) {
	return a.openSession(ctx, "/api/auth/signup", map[string]string{"fullName": fullName, "email": email, "password": password})
}

func (a *HTTPAPI) Login(ctx context.Context, email, password string) (Session, error) {
	return a.openSession(ctx, "/api/auth/login", map[string]string{"email": email, "password": password})
}

func (a *HTTPAPI) openSession(ctx context.Context, path string, body any) (Session, error) {
	var session Session
	if err := a.do(ctx, fasthttp.MethodPost, path, body, &session); err != nil {
		return Session{}, err
	}
	a.SetToken(session.Token)
	return session, nil
}

func (a *HTTPAPI) ChatPartners(ctx context.Context) ([]domain.Conversation, error) {
	var conversations []domain.Conversation
	return conversations, a.do(ctx, fasthttp.MethodGet, "/api/messages/chats", nil, &conversations)
}

func (a *HTTPAPI) Groups(ctx context.Context) ([]domain.Conversation, error) {
	var conversations []domain.Conversation
	return conversations, a.do(ctx, fasthttp.MethodGet, "/api/groups", nil, &conversations)
}

func (a *HTTPAPI) Contacts(ctx context.Context) ([]domain.Identity, error) {
	var contacts []domain.Identity
	return contacts, a.do(ctx, fasthttp.MethodGet, "/api/messages/contacts", nil, &contacts)
}

func (a *HTTPAPI) Messages(ctx context.Context, target domain.Target) ([]domain.Message, error) {
	path := "/api/messages/user/"
	if target.IsGroup() {
		path = "/api/messages/group/"
	}
	var messages []domain.Message
	return messages, a.do(ctx, fasthttp.MethodGet, path+url.PathEscape(target.ID), nil, &messages)
}

func (a *HTTPAPI) Send(ctx context.Context, target domain.Target, body domain.Body) (domain.Message, error) {
	payload := map[string]string{"text": body.Text, "image": body.Image}
	if target.IsGroup() {
		payload["groupId"] = target.ID
	}
	var message domain.Message
	return message, a.do(ctx, fasthttp.MethodPost, "/api/messages/send/"+url.PathEscape(target.ID), payload, &message)
}

func (a *HTTPAPI) MarkRead(ctx context.Context, messageIDs []string) error {
	return a.do(ctx, fasthttp.MethodPost, "/api/messages/read", map[string][]string{"messageIds": messageIDs}, nil)
}

func (a *HTTPAPI) SendFriendRequest(ctx context.Context, userID string) (domain.FriendLink, error) {
	var link domain.FriendLink
	return link, a.do(ctx, fasthttp.MethodPost, "/api/friends/request/"+url.PathEscape(userID), nil, &link)
}

func (a *HTTPAPI) AcceptFriendRequest(ctx context.Context, requestID string) error {
	return a.do(ctx, fasthttp.MethodPut, "/api/friends/accept/"+url.PathEscape(requestID), nil, nil)
}

func (a *HTTPAPI) FriendRequests(ctx context.Context) ([]domain.IncomingRequest, error) {
	var requests []domain.IncomingRequest
	return requests, a.do(ctx, fasthttp.MethodGet, "/api/friends/requests", nil, &requests)
}

func (a *HTTPAPI) CreateGroup(ctx context.Context, name string, members []string) (domain.Group, error) {
	var group domain.Group
	payload := map[string]any{"name": name, "members": members}
	return group, a.do(ctx, fasthttp.MethodPost, "/api/groups/create", payload, &group)
}

// do sends a JSON request and decodes the answer into out when not nil.
func (a *HTTPAPI) do(ctx context.Context, method, path string, body, out any) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(a.baseURL + path)
	req.Header.SetMethod(method)
	req.Header.SetContentType("application/json")
	if token := a.Token(); token != "" {
		req.Header.Set(fasthttp.HeaderAuthorization, "Bearer "+token)
	}
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		req.SetBody(data)
	}

	deadline := time.Now().Add(a.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := a.client.DoDeadline(req, resp, deadline); err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	status := resp.StatusCode()
	if status < fasthttp.StatusOK || status >= fasthttp.StatusMultipleChoices {
		var payload struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(resp.Body(), &payload)
		return &APIError{Status: status, Message: payload.Message}
	}
	if out == nil || status == fasthttp.StatusNoContent {
		return nil
	}
	return json.Unmarshal(resp.Body(), out)
}
