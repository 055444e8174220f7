package listmonk

import (
	"net/http"
	"time"
)

// clientConfig holds configuration for the client.
type clientConfig struct {
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string
}

// subscriberQueryConfig holds configuration for subscriber searches.
type subscriberQueryConfig struct {
	query  string
	listID int
}

// createSubscriberConfig holds configuration for subscriber creation.
type createSubscriberConfig struct {
	preconfirm bool
	attribs    map[string]any
}

// updateSubscriberConfig holds configuration for subscriber updates.
type updateSubscriberConfig struct {
	addToLists      []int
	removeFromLists []int
	status          SubscriberStatus
}

// campaignConfig holds configuration for campaign creation.
type campaignConfig struct {
	listIDs      []int
	fromEmail    string
	campaignType string
	contentType  string
	body         string
	altBody      string
	sendAt       *time.Time
	messenger    string
	templateID   int
	tags         []string
	headers      []map[string]string
}

// templateConfig holds configuration for template creation.
type templateConfig struct {
	templateType TemplateType
	isDefault    bool
}

// txConfig holds configuration for transactional sends.
type txConfig struct {
	fromEmail   string
	data        map[string]any
	messenger   string
	contentType string
	attachments []string
}

// Option configures the client.
type Option func(*clientConfig)

// SubscriberQueryOption configures subscriber searches.
type SubscriberQueryOption func(*subscriberQueryConfig)

// CreateSubscriberOption configures subscriber creation.
type CreateSubscriberOption func(*createSubscriberConfig)

// UpdateSubscriberOption configures subscriber updates.
type UpdateSubscriberOption func(*updateSubscriberConfig)

// CampaignOption configures campaign creation.
type CampaignOption func(*campaignConfig)

// TemplateOption configures template creation.
type TemplateOption func(*templateConfig)

// TxOption configures transactional sends.
type TxOption func(*txConfig)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout sets the default request timeout. Default: 30 seconds.
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithUserAgent overrides the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *clientConfig) {
		c.userAgent = ua
	}
}

// WithQuery filters subscribers with a Listmonk SQL query expression,
// e.g. "subscribers.attribs->>'city' = 'Portland'".
func WithQuery(query string) SubscriberQueryOption {
	return func(c *subscriberQueryConfig) {
		c.query = query
	}
}

// WithListID restricts a subscriber search to one mailing list.
func WithListID(listID int) SubscriberQueryOption {
	return func(c *subscriberQueryConfig) {
		c.listID = listID
	}
}

// WithPreconfirm preconfirms the subscriber on double opt-in lists, so no
// confirmation email is sent.
func WithPreconfirm() CreateSubscriberOption {
	return func(c *createSubscriberConfig) {
		c.preconfirm = true
	}
}

// WithAttribs sets the subscriber's custom attribute map.
func WithAttribs(attribs map[string]any) CreateSubscriberOption {
	return func(c *createSubscriberConfig) {
		c.attribs = attribs
	}
}

// AddToLists adds the subscriber to the given lists on update.
func AddToLists(listIDs ...int) UpdateSubscriberOption {
	return func(c *updateSubscriberConfig) {
		c.addToLists = append(c.addToLists, listIDs...)
	}
}

// RemoveFromLists removes the subscriber from the given lists on update.
func RemoveFromLists(listIDs ...int) UpdateSubscriberOption {
	return func(c *updateSubscriberConfig) {
		c.removeFromLists = append(c.removeFromLists, listIDs...)
	}
}

// WithSubscriberStatus sets the subscriber status on update.
// Default: enabled.
func WithSubscriberStatus(status SubscriberStatus) UpdateSubscriberOption {
	return func(c *updateSubscriberConfig) {
		c.status = status
	}
}

// WithCampaignLists sets the lists a campaign is sent to. Default: list 1.
func WithCampaignLists(listIDs ...int) CampaignOption {
	return func(c *campaignConfig) {
		c.listIDs = listIDs
	}
}

// WithFromEmail sets the campaign's from address. Defaults to the
// server-configured address.
func WithFromEmail(from string) CampaignOption {
	return func(c *campaignConfig) {
		c.fromEmail = from
	}
}

// WithCampaignType sets the campaign type: CampaignTypeRegular or
// CampaignTypeOptin.
func WithCampaignType(campaignType string) CampaignOption {
	return func(c *campaignConfig) {
		c.campaignType = campaignType
	}
}

// WithContentType sets the campaign content type: richtext, html,
// markdown, or plain.
func WithContentType(contentType string) CampaignOption {
	return func(c *campaignConfig) {
		c.contentType = contentType
	}
}

// WithBody sets the campaign body.
func WithBody(body string) CampaignOption {
	return func(c *campaignConfig) {
		c.body = body
	}
}

// WithAltBody sets the campaign's alternative plain-text body.
func WithAltBody(altBody string) CampaignOption {
	return func(c *campaignConfig) {
		c.altBody = altBody
	}
}

// WithSendAt schedules the campaign.
func WithSendAt(sendAt time.Time) CampaignOption {
	return func(c *campaignConfig) {
		c.sendAt = &sendAt
	}
}

// WithMessenger sets the campaign messenger channel. Usually "email".
func WithMessenger(messenger string) CampaignOption {
	return func(c *campaignConfig) {
		c.messenger = messenger
	}
}

// WithTemplateID sets the template used by the campaign.
func WithTemplateID(templateID int) CampaignOption {
	return func(c *campaignConfig) {
		c.templateID = templateID
	}
}

// WithTags sets the campaign tags.
func WithTags(tags ...string) CampaignOption {
	return func(c *campaignConfig) {
		c.tags = tags
	}
}

// WithHeaders sets additional headers attached to campaign emails. Each
// entry is a single header name to value mapping.
func WithHeaders(headers []map[string]string) CampaignOption {
	return func(c *campaignConfig) {
		c.headers = headers
	}
}

// WithTemplateType sets the template type: TemplateTypeCampaign or
// TemplateTypeTx.
func WithTemplateType(t TemplateType) TemplateOption {
	return func(c *templateConfig) {
		c.templateType = t
	}
}

// AsDefault marks the created template as the instance default.
func AsDefault() TemplateOption {
	return func(c *templateConfig) {
		c.isDefault = true
	}
}

// WithTxFromEmail sets the from address for a transactional send.
// Defaults to the address configured at the output provider.
func WithTxFromEmail(from string) TxOption {
	return func(c *txConfig) {
		c.fromEmail = from
	}
}

// WithTemplateData sets the merge parameters for the transactional
// template, available in the template as {{ .Tx.Data.* }}.
func WithTemplateData(data map[string]any) TxOption {
	return func(c *txConfig) {
		c.data = data
	}
}

// WithTxMessenger sets the messenger channel for a transactional send.
// Default: "email".
func WithTxMessenger(messenger string) TxOption {
	return func(c *txConfig) {
		c.messenger = messenger
	}
}

// WithTxContentType sets the content type for a transactional send:
// html, markdown, or plain. Default: "markdown".
func WithTxContentType(contentType string) TxOption {
	return func(c *txConfig) {
		c.contentType = contentType
	}
}

// WithAttachments attaches the files at the given local paths to a
// transactional send.
func WithAttachments(paths ...string) TxOption {
	return func(c *txConfig) {
		c.attachments = append(c.attachments, paths...)
	}
}
