package listmonk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/listmonk-client/client-go/internal/api"
)

// SubscriberStatus is the account status of a subscriber.
type SubscriberStatus string

// Subscriber statuses.
const (
	SubscriberStatusEnabled     SubscriberStatus = "enabled"
	SubscriberStatusDisabled    SubscriberStatus = "disabled"
	SubscriberStatusBlocklisted SubscriberStatus = "blocklisted"
)

// subscribersPerPage is the page size used when aggregating the full
// subscriber collection.
const subscribersPerPage = 500

// ListSubscription is a subscriber's membership record for one mailing
// list, as embedded in subscriber payloads.
type ListSubscription struct {
	ID                 int    `json:"id"`
	UUID               string `json:"uuid"`
	Name               string `json:"name"`
	Type               string `json:"type"`
	SubscriptionStatus string `json:"subscription_status"`
}

// Subscriber is an email-list contact record. Identity is
// server-authoritative: ID, UUID, and Email all resolve the same entity,
// and the client never assigns identifiers.
type Subscriber struct {
	ID        int                `json:"id"`
	UUID      string             `json:"uuid"`
	Email     string             `json:"email"`
	Name      string             `json:"name"`
	Status    SubscriberStatus   `json:"status"`
	Lists     []ListSubscription `json:"lists"`
	Attribs   map[string]any     `json:"attribs"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// ListIDs returns the ids of the lists the subscriber belongs to.
func (s *Subscriber) ListIDs() []int {
	ids := make([]int, 0, len(s.Lists))
	for _, l := range s.Lists {
		ids = append(ids, l.ID)
	}
	return ids
}

// subscriberRequest is the wire shape for create and update calls.
type subscriberRequest struct {
	Email                   string           `json:"email"`
	Name                    string           `json:"name"`
	Status                  SubscriberStatus `json:"status"`
	Lists                   []int            `json:"lists"`
	PreconfirmSubscriptions bool             `json:"preconfirm_subscriptions"`
	Attribs                 map[string]any   `json:"attribs"`
}

// Subscribers returns subscribers matching the given criteria, or all
// subscribers when none are given. Pages are fetched and aggregated
// transparently.
func (c *Client) Subscribers(ctx context.Context, opts ...SubscriberQueryOption) ([]Subscriber, error) {
	cfg := &subscriberQueryConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	var all []Subscriber
	for page := 1; ; page++ {
		query := api.SubscribersQuery(page, subscribersPerPage, cfg.query, cfg.listID)

		var pageData api.PageData
		if err := c.apiClient.Do(ctx, http.MethodGet, api.PathSubscribers, query, nil, &pageData); err != nil {
			return nil, wrapError(api.WithResource(err, api.ResourceSubscriber))
		}

		var chunk []Subscriber
		if err := json.Unmarshal(pageData.Results, &chunk); err != nil {
			return nil, &DecodeError{Err: err, Path: api.PathSubscribers}
		}
		all = append(all, chunk...)

		if page*subscribersPerPage >= pageData.Total {
			return all, nil
		}
	}
}

// SubscriberByEmail retrieves the subscriber with the given email
// address. Returns ErrSubscriberNotFound if no such subscriber exists.
func (c *Client) SubscriberByEmail(ctx context.Context, email string) (*Subscriber, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, &ValidationError{Message: "email is required"}
	}
	return c.subscriberByQuery(ctx, fmt.Sprintf("subscribers.email='%s'", email))
}

// SubscriberByID retrieves the subscriber with the given id.
func (c *Client) SubscriberByID(ctx context.Context, id int) (*Subscriber, error) {
	return c.subscriberByQuery(ctx, fmt.Sprintf("subscribers.id=%d", id))
}

// SubscriberByUUID retrieves the subscriber with the given UUID.
func (c *Client) SubscriberByUUID(ctx context.Context, uuid string) (*Subscriber, error) {
	if uuid == "" {
		return nil, &ValidationError{Message: "uuid is required"}
	}
	return c.subscriberByQuery(ctx, fmt.Sprintf("subscribers.uuid='%s'", uuid))
}

func (c *Client) subscriberByQuery(ctx context.Context, query string) (*Subscriber, error) {
	q := api.PageQuery(1, 100)
	q.Set("query", query)

	var pageData api.PageData
	if err := c.apiClient.Do(ctx, http.MethodGet, api.PathSubscribers, q, nil, &pageData); err != nil {
		return nil, wrapError(api.WithResource(err, api.ResourceSubscriber))
	}

	var results []Subscriber
	if err := json.Unmarshal(pageData.Results, &results); err != nil {
		return nil, &DecodeError{Err: err, Path: api.PathSubscribers}
	}
	if len(results) == 0 {
		return nil, ErrSubscriberNotFound
	}
	return &results[0], nil
}

// CreateSubscriber creates a new subscriber with status enabled and the
// given list memberships. Email is lowercased and trimmed.
func (c *Client) CreateSubscriber(ctx context.Context, email, name string, listIDs []int, opts ...CreateSubscriberOption) (*Subscriber, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if email == "" {
		return nil, &ValidationError{Message: "email is required"}
	}
	if name == "" {
		return nil, &ValidationError{Message: "name is required"}
	}

	cfg := &createSubscriberConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.attribs == nil {
		cfg.attribs = map[string]any{}
	}
	if listIDs == nil {
		listIDs = []int{}
	}

	req := subscriberRequest{
		Email:                   email,
		Name:                    name,
		Status:                  SubscriberStatusEnabled,
		Lists:                   listIDs,
		PreconfirmSubscriptions: cfg.preconfirm,
		Attribs:                 cfg.attribs,
	}

	var sub Subscriber
	if err := c.apiClient.Do(ctx, http.MethodPost, api.PathSubscribers, nil, req, &sub); err != nil {
		return nil, wrapError(api.WithResource(err, api.ResourceSubscriber))
	}
	return &sub, nil
}

// UpdateSubscriber sends the subscriber's current fields to the server,
// applying any list membership changes and status given as options. List
// changes merge with the existing memberships as sets. Returns the
// server's updated view of the subscriber.
func (c *Client) UpdateSubscriber(ctx context.Context, sub *Subscriber, opts ...UpdateSubscriberOption) (*Subscriber, error) {
	if sub == nil || sub.ID == 0 {
		return nil, &ValidationError{Message: "subscriber with a server-issued id is required"}
	}

	cfg := &updateSubscriberConfig{status: SubscriberStatusEnabled}
	for _, opt := range opts {
		opt(cfg)
	}

	final := make(map[int]struct{}, len(sub.Lists))
	for _, l := range sub.Lists {
		final[l.ID] = struct{}{}
	}
	for _, id := range cfg.removeFromLists {
		delete(final, id)
	}
	for _, id := range cfg.addToLists {
		final[id] = struct{}{}
	}
	listIDs := make([]int, 0, len(final))
	for id := range final {
		listIDs = append(listIDs, id)
	}

	req := subscriberRequest{
		Email:                   sub.Email,
		Name:                    sub.Name,
		Status:                  cfg.status,
		Lists:                   listIDs,
		PreconfirmSubscriptions: true,
		Attribs:                 sub.Attribs,
	}

	if err := c.apiClient.Do(ctx, http.MethodPut, api.SubscriberPath(sub.ID), nil, req, nil); err != nil {
		return nil, wrapError(api.WithResource(err, api.ResourceSubscriber))
	}

	return c.SubscriberByID(ctx, sub.ID)
}

// EnableSubscriber sets a subscriber's status to enabled.
func (c *Client) EnableSubscriber(ctx context.Context, sub *Subscriber) (*Subscriber, error) {
	return c.UpdateSubscriber(ctx, sub, WithSubscriberStatus(SubscriberStatusEnabled))
}

// DisableSubscriber sets a subscriber's status to disabled.
func (c *Client) DisableSubscriber(ctx context.Context, sub *Subscriber) (*Subscriber, error) {
	return c.UpdateSubscriber(ctx, sub, WithSubscriberStatus(SubscriberStatusDisabled))
}

// BlockSubscriber adds a subscriber to the blocklist, which unsubscribes
// them from everything.
func (c *Client) BlockSubscriber(ctx context.Context, sub *Subscriber) (*Subscriber, error) {
	return c.UpdateSubscriber(ctx, sub, WithSubscriberStatus(SubscriberStatusBlocklisted))
}

// DeleteSubscriber deletes the subscriber with the given email address.
// Use BlockSubscriber instead if the goal is to unsubscribe them.
func (c *Client) DeleteSubscriber(ctx context.Context, email string) error {
	sub, err := c.SubscriberByEmail(ctx, email)
	if err != nil {
		return err
	}
	return c.DeleteSubscriberByID(ctx, sub.ID)
}

// DeleteSubscriberByID deletes the subscriber with the given id.
func (c *Client) DeleteSubscriberByID(ctx context.Context, id int) error {
	var ok bool
	if err := c.apiClient.Do(ctx, http.MethodDelete, api.SubscriberPath(id), nil, nil, &ok); err != nil {
		return wrapError(api.WithResource(err, api.ResourceSubscriber))
	}
	if !ok {
		return fmt.Errorf("server did not confirm deletion of subscriber %d", id)
	}
	return nil
}

// optinSuccessPhrases are the fragments the opt-in form answers with on
// success, including the case where the subscription was already
// confirmed.
var optinSuccessPhrases = []string{
	"Subscribed successfully.",
	"Confirmed",
	"no subscriptions to confirm",
	"No subscriptions",
}

// ConfirmOptin confirms a subscriber's double opt-in membership of a
// list via the public subscription form. Only call this when the
// subscriber has actually opted in through your own form or flow.
func (c *Client) ConfirmOptin(ctx context.Context, subscriberUUID, listUUID string) error {
	if subscriberUUID == "" {
		return &ValidationError{Message: "subscriber UUID is required"}
	}
	if listUUID == "" {
		return &ValidationError{Message: "list UUID is required"}
	}

	form := url.Values{}
	form.Set("l", listUUID)
	form.Set("confirm", "true")

	text, err := c.apiClient.PostForm(ctx, api.OptinPath(subscriberUUID), form)
	if err != nil {
		return wrapError(api.WithResource(err, api.ResourceSubscriber))
	}

	for _, phrase := range optinSuccessPhrases {
		if strings.Contains(text, phrase) {
			return nil
		}
	}
	return ErrOptinNotConfirmed
}
