package listmonk

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/listmonk-client/client-go/internal/api"
)

// txRequest is the wire shape of a transactional send.
type txRequest struct {
	SubscriberEmail string         `json:"subscriber_email"`
	TemplateID      int            `json:"template_id"`
	FromEmail       string         `json:"from_email,omitempty"`
	Data            map[string]any `json:"data"`
	Messenger       string         `json:"messenger"`
	ContentType     string         `json:"content_type"`
}

// SendTransactional sends a transactional email to the given subscriber
// using a transactional template. The recipient must be a subscriber of
// some list on the server. Attachment paths given with WithAttachments
// are read locally and uploaded as multipart form data; a missing file
// fails with ErrAttachmentNotFound before any network I/O.
func (c *Client) SendTransactional(ctx context.Context, subscriberEmail string, templateID int, opts ...TxOption) error {
	subscriberEmail = strings.ToLower(strings.TrimSpace(subscriberEmail))
	if subscriberEmail == "" {
		return &ValidationError{Message: "subscriber email is required"}
	}

	cfg := &txConfig{
		messenger:   MessengerEmail,
		contentType: ContentTypeMarkdown,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.data == nil {
		cfg.data = map[string]any{}
	}

	req := txRequest{
		SubscriberEmail: subscriberEmail,
		TemplateID:      templateID,
		FromEmail:       cfg.fromEmail,
		Data:            cfg.data,
		Messenger:       cfg.messenger,
		ContentType:     cfg.contentType,
	}

	var ok bool
	if len(cfg.attachments) > 0 {
		files, err := readAttachments(cfg.attachments)
		if err != nil {
			return err
		}

		payload, err := json.Marshal(req)
		if err != nil {
			return fmt.Errorf("marshal transactional payload: %w", err)
		}

		if err := c.apiClient.PostMultipart(ctx, api.PathTx, payload, files, &ok); err != nil {
			return wrapError(err)
		}
	} else {
		if err := c.apiClient.Do(ctx, http.MethodPost, api.PathTx, nil, req, &ok); err != nil {
			return wrapError(err)
		}
	}

	if !ok {
		return fmt.Errorf("server did not accept the transactional send")
	}
	return nil
}

// readAttachments stats and reads the given local files, detecting a
// content type for each from its extension or its leading bytes.
func readAttachments(paths []string) ([]api.File, error) {
	files := make([]api.File, 0, len(paths))
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, &AttachmentError{Path: path, Err: err}
		}
		if info.IsDir() {
			return nil, &AttachmentError{Path: path, Err: fmt.Errorf("is a directory")}
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return nil, &AttachmentError{Path: path, Err: err}
		}

		contentType := mime.TypeByExtension(filepath.Ext(path))
		if contentType == "" {
			contentType = http.DetectContentType(content)
		}

		files = append(files, api.File{
			Name:        filepath.Base(path),
			ContentType: contentType,
			Content:     content,
		})
	}
	return files, nil
}
