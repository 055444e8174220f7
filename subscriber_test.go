package listmonk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
)

// fakeSubscriberServer is a minimal in-memory stand-in for the
// subscriber endpoints: create, query, update, delete.
type fakeSubscriberServer struct {
	t      *testing.T
	nextID int
	subs   map[int]*Subscriber
}

func newFakeSubscriberServer(t *testing.T) (*fakeSubscriberServer, *httptest.Server) {
	f := &fakeSubscriberServer{t: t, nextID: 1, subs: map[int]*Subscriber{}}
	server := httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(server.Close)
	return f, server
}

func (f *fakeSubscriberServer) handle(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/subscribers":
		f.query(w, r)
	case r.Method == http.MethodPost && r.URL.Path == "/api/subscribers":
		f.create(w, r)
	case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/api/subscribers/"):
		f.update(w, r)
	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/api/subscribers/"):
		fmt.Fprint(w, `{"data": true}`)
	default:
		f.t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		http.NotFound(w, r)
	}
}

func (f *fakeSubscriberServer) writePage(w http.ResponseWriter, results []*Subscriber) {
	payload := map[string]any{
		"data": map[string]any{
			"total":    len(results),
			"per_page": 100,
			"page":     1,
			"results":  results,
		},
	}
	json.NewEncoder(w).Encode(payload)
}

func (f *fakeSubscriberServer) query(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	var results []*Subscriber
	for _, sub := range f.subs {
		switch {
		case query == fmt.Sprintf("subscribers.email='%s'", sub.Email),
			query == fmt.Sprintf("subscribers.id=%d", sub.ID),
			query == fmt.Sprintf("subscribers.uuid='%s'", sub.UUID):
			results = append(results, sub)
		}
	}
	f.writePage(w, results)
}

func (f *fakeSubscriberServer) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email   string         `json:"email"`
		Name    string         `json:"name"`
		Status  string         `json:"status"`
		Lists   []int          `json:"lists"`
		Attribs map[string]any `json:"attribs"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		f.t.Errorf("decode create request: %v", err)
	}

	sub := &Subscriber{
		ID:      f.nextID,
		UUID:    fmt.Sprintf("uuid-%d", f.nextID),
		Email:   req.Email,
		Name:    req.Name,
		Status:  SubscriberStatus(req.Status),
		Attribs: req.Attribs,
	}
	for _, id := range req.Lists {
		sub.Lists = append(sub.Lists, ListSubscription{
			ID:                 id,
			Name:               fmt.Sprintf("list-%d", id),
			SubscriptionStatus: "confirmed",
		})
	}
	f.nextID++
	f.subs[sub.ID] = sub

	json.NewEncoder(w).Encode(map[string]any{"data": sub})
}

func (f *fakeSubscriberServer) update(w http.ResponseWriter, r *http.Request) {
	var id int
	fmt.Sscanf(r.URL.Path, "/api/subscribers/%d", &id)

	sub, exists := f.subs[id]
	if !exists {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message": "subscriber not found"}`)
		return
	}

	var req struct {
		Email  string `json:"email"`
		Name   string `json:"name"`
		Status string `json:"status"`
		Lists  []int  `json:"lists"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		f.t.Errorf("decode update request: %v", err)
	}

	sub.Email = req.Email
	sub.Name = req.Name
	sub.Status = SubscriberStatus(req.Status)
	sub.Lists = nil
	for _, lid := range req.Lists {
		sub.Lists = append(sub.Lists, ListSubscription{ID: lid})
	}

	json.NewEncoder(w).Encode(map[string]any{"data": sub})
}

func sortedInts(ids []int) []int {
	out := append([]int(nil), ids...)
	sort.Ints(out)
	return out
}

func TestCreateSubscriber_RoundTripsListMembership(t *testing.T) {
	_, server := newFakeSubscriberServer(t)
	client := newTestClient(t, server.URL)
	ctx := context.Background()

	created, err := client.CreateSubscriber(ctx, "User@Example.com ", "Test User", []int{1, 7, 9},
		WithPreconfirm(),
		WithAttribs(map[string]any{"city": "Portland"}))
	if err != nil {
		t.Fatalf("CreateSubscriber() error = %v", err)
	}

	if created.Email != "user@example.com" {
		t.Errorf("Email = %q, want lowercased/trimmed user@example.com", created.Email)
	}
	if created.ID == 0 || created.UUID == "" {
		t.Error("server-issued ID and UUID should be set")
	}
	if created.Status != SubscriberStatusEnabled {
		t.Errorf("Status = %q, want enabled", created.Status)
	}

	fetched, err := client.SubscriberByEmail(ctx, "user@example.com")
	if err != nil {
		t.Fatalf("SubscriberByEmail() error = %v", err)
	}

	got := sortedInts(fetched.ListIDs())
	want := []int{1, 7, 9}
	if len(got) != len(want) {
		t.Fatalf("ListIDs() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ListIDs() = %v, want %v", got, want)
			break
		}
	}

	if fetched.Attribs["city"] != "Portland" {
		t.Errorf("Attribs[city] = %v, want Portland", fetched.Attribs["city"])
	}
}

func TestCreateSubscriber_Validation(t *testing.T) {
	client := newTestClient(t, "https://listmonk.example.com")
	ctx := context.Background()

	var valErr *ValidationError

	_, err := client.CreateSubscriber(ctx, "", "Name", nil)
	if !errors.As(err, &valErr) {
		t.Errorf("empty email: error = %v, want *ValidationError", err)
	}

	_, err = client.CreateSubscriber(ctx, "a@b.com", "  ", nil)
	if !errors.As(err, &valErr) {
		t.Errorf("blank name: error = %v, want *ValidationError", err)
	}
}

func TestSubscriberLookups_ResolveSameEntity(t *testing.T) {
	_, server := newFakeSubscriberServer(t)
	client := newTestClient(t, server.URL)
	ctx := context.Background()

	created, err := client.CreateSubscriber(ctx, "triple@example.com", "Triple", []int{2})
	if err != nil {
		t.Fatalf("CreateSubscriber() error = %v", err)
	}

	byEmail, err := client.SubscriberByEmail(ctx, "triple@example.com")
	if err != nil {
		t.Fatalf("SubscriberByEmail() error = %v", err)
	}
	byID, err := client.SubscriberByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("SubscriberByID() error = %v", err)
	}
	byUUID, err := client.SubscriberByUUID(ctx, created.UUID)
	if err != nil {
		t.Fatalf("SubscriberByUUID() error = %v", err)
	}

	if byEmail.ID != created.ID || byID.ID != created.ID || byUUID.ID != created.ID {
		t.Errorf("lookups resolved ids %d/%d/%d, want %d",
			byEmail.ID, byID.ID, byUUID.ID, created.ID)
	}
}

func TestSubscriberByEmail_NotFound(t *testing.T) {
	_, server := newFakeSubscriberServer(t)
	client := newTestClient(t, server.URL)

	_, err := client.SubscriberByEmail(context.Background(), "ghost@example.com")
	if !errors.Is(err, ErrSubscriberNotFound) {
		t.Errorf("SubscriberByEmail() error = %v, want ErrSubscriberNotFound", err)
	}
}

func TestUpdateSubscriber_MergesListChanges(t *testing.T) {
	_, server := newFakeSubscriberServer(t)
	client := newTestClient(t, server.URL)
	ctx := context.Background()

	sub, err := client.CreateSubscriber(ctx, "merge@example.com", "Merge", []int{1, 7})
	if err != nil {
		t.Fatalf("CreateSubscriber() error = %v", err)
	}

	updated, err := client.UpdateSubscriber(ctx, sub, AddToLists(9), RemoveFromLists(1))
	if err != nil {
		t.Fatalf("UpdateSubscriber() error = %v", err)
	}

	got := sortedInts(updated.ListIDs())
	want := []int{7, 9}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("ListIDs() = %v, want %v", got, want)
	}
}

func TestUpdateSubscriber_RequiresID(t *testing.T) {
	client := newTestClient(t, "https://listmonk.example.com")

	var valErr *ValidationError
	_, err := client.UpdateSubscriber(context.Background(), &Subscriber{})
	if !errors.As(err, &valErr) {
		t.Errorf("UpdateSubscriber() error = %v, want *ValidationError", err)
	}

	_, err = client.UpdateSubscriber(context.Background(), nil)
	if !errors.As(err, &valErr) {
		t.Errorf("UpdateSubscriber(nil) error = %v, want *ValidationError", err)
	}
}

func TestStatusHelpers_SetStatus(t *testing.T) {
	_, server := newFakeSubscriberServer(t)
	client := newTestClient(t, server.URL)
	ctx := context.Background()

	sub, err := client.CreateSubscriber(ctx, "status@example.com", "Status", []int{1})
	if err != nil {
		t.Fatalf("CreateSubscriber() error = %v", err)
	}

	blocked, err := client.BlockSubscriber(ctx, sub)
	if err != nil {
		t.Fatalf("BlockSubscriber() error = %v", err)
	}
	if blocked.Status != SubscriberStatusBlocklisted {
		t.Errorf("Status = %q, want blocklisted", blocked.Status)
	}

	disabled, err := client.DisableSubscriber(ctx, blocked)
	if err != nil {
		t.Fatalf("DisableSubscriber() error = %v", err)
	}
	if disabled.Status != SubscriberStatusDisabled {
		t.Errorf("Status = %q, want disabled", disabled.Status)
	}

	enabled, err := client.EnableSubscriber(ctx, disabled)
	if err != nil {
		t.Fatalf("EnableSubscriber() error = %v", err)
	}
	if enabled.Status != SubscriberStatusEnabled {
		t.Errorf("Status = %q, want enabled", enabled.Status)
	}
}

func TestDeleteSubscriber_ResolvesEmailFirst(t *testing.T) {
	_, server := newFakeSubscriberServer(t)
	client := newTestClient(t, server.URL)
	ctx := context.Background()

	if _, err := client.CreateSubscriber(ctx, "gone@example.com", "Gone", []int{1}); err != nil {
		t.Fatalf("CreateSubscriber() error = %v", err)
	}

	if err := client.DeleteSubscriber(ctx, "gone@example.com"); err != nil {
		t.Fatalf("DeleteSubscriber() error = %v", err)
	}
}

func TestDeleteSubscriber_NotFound(t *testing.T) {
	_, server := newFakeSubscriberServer(t)
	client := newTestClient(t, server.URL)

	err := client.DeleteSubscriber(context.Background(), "ghost@example.com")
	if !errors.Is(err, ErrSubscriberNotFound) {
		t.Errorf("DeleteSubscriber() error = %v, want ErrSubscriberNotFound", err)
	}
}

func TestSubscribers_AggregatesPages(t *testing.T) {
	const total = 750

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("order_by") != "updated_at" || q.Get("order") != "DESC" {
			t.Errorf("ordering params = %q/%q", q.Get("order_by"), q.Get("order"))
		}

		page := 1
		fmt.Sscanf(q.Get("page"), "%d", &page)

		start := (page - 1) * subscribersPerPage
		count := subscribersPerPage
		if start+count > total {
			count = total - start
		}

		results := make([]map[string]any, 0, count)
		for i := 0; i < count; i++ {
			results = append(results, map[string]any{
				"id":    start + i + 1,
				"email": fmt.Sprintf("user%d@example.com", start+i+1),
			})
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"total":    total,
				"per_page": subscribersPerPage,
				"page":     page,
				"results":  results,
			},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	subs, err := client.Subscribers(context.Background())
	if err != nil {
		t.Fatalf("Subscribers() error = %v", err)
	}
	if len(subs) != total {
		t.Errorf("len(subs) = %d, want %d", len(subs), total)
	}
	if subs[0].ID != 1 || subs[total-1].ID != total {
		t.Errorf("first/last ids = %d/%d", subs[0].ID, subs[total-1].ID)
	}
}

func TestSubscribers_ForwardsFilters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("list_id") != "4" {
			t.Errorf("list_id = %q, want 4", q.Get("list_id"))
		}
		if q.Get("query") != "subscribers.attribs->>'city' = 'Portland'" {
			t.Errorf("query = %q", q.Get("query"))
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"total": 0, "results": []any{}},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, err := client.Subscribers(context.Background(),
		WithQuery("subscribers.attribs->>'city' = 'Portland'"),
		WithListID(4))
	if err != nil {
		t.Fatalf("Subscribers() error = %v", err)
	}
}

func TestConfirmOptin(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{"subscribed", "<p>Subscribed successfully.</p>", nil},
		{"already confirmed", "<p>There are no subscriptions to confirm.</p>", nil},
		{"rejected", "<p>Something went wrong.</p>", ErrOptinNotConfirmed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/subscription/optin/sub-uuid" {
					t.Errorf("path = %q", r.URL.Path)
				}
				if err := r.ParseForm(); err != nil {
					t.Fatalf("parse form: %v", err)
				}
				if r.PostForm.Get("l") != "list-uuid" || r.PostForm.Get("confirm") != "true" {
					t.Errorf("form = %v", r.PostForm)
				}
				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			client := newTestClient(t, server.URL)

			err := client.ConfirmOptin(context.Background(), "sub-uuid", "list-uuid")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ConfirmOptin() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfirmOptin_RequiresUUIDs(t *testing.T) {
	client := newTestClient(t, "https://listmonk.example.com")

	var valErr *ValidationError
	if err := client.ConfirmOptin(context.Background(), "", "list-uuid"); !errors.As(err, &valErr) {
		t.Errorf("error = %v, want *ValidationError", err)
	}
	if err := client.ConfirmOptin(context.Background(), "sub-uuid", ""); !errors.As(err, &valErr) {
		t.Errorf("error = %v, want *ValidationError", err)
	}
}
