// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package share

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/taibuivan/lectio/internal/platform/constants"
	"github.com/taibuivan/lectio/pkg/slug"
)

// Mechanism names.
const (
	NameWebhook   = "native"
	NameClipboard = "clipboard"
	NameFile      = "file"
)

// # Webhook

// Webhook posts the payload as JSON to a configured URL.
type Webhook struct {
	url    string
	client *http.Client
}

// NewWebhook returns a [Webhook], or nil when url is empty.
func NewWebhook(url string, client *http.Client) Mechanism {
	if url == "" {
		return nil
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Webhook{url: url, client: client}
}

// Name implements [Mechanism].
func (webhook *Webhook) Name() string { return NameWebhook }

// Share implements [Mechanism]. Any non-2xx response is a failure.
func (webhook *Webhook) Share(ctx context.Context, payload Payload) error {
	body, err := json.Marshal(struct {
		Payload
		Message string `json:"message"`
	}{payload, payload.Message()})
	if err != nil {
		return fmt.Errorf("share: encoding payload: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, webhook.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("share: building webhook request: %w", err)
	}
	request.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)

	response, err := webhook.client.Do(request)
	if err != nil {
		return fmt.Errorf("share: calling webhook: %w", err)
	}
	defer response.Body.Close()
	_, _ = io.Copy(io.Discard, response.Body)

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return fmt.Errorf("share: webhook returned status %d", response.StatusCode)
	}
	return nil
}

// # Clipboard

// Clipboard writes the message to a writer standing in for the system clipboard.
type Clipboard struct {
	mu     sync.Mutex
	writer io.Writer
}

// NewClipboard returns a [Clipboard], or nil when writer is nil.
func NewClipboard(writer io.Writer) Mechanism {
	if writer == nil {
		return nil
	}
	return &Clipboard{writer: writer}
}

// Name implements [Mechanism].
func (clipboard *Clipboard) Name() string { return NameClipboard }

// Share implements [Mechanism].
func (clipboard *Clipboard) Share(ctx context.Context, payload Payload) error {
	clipboard.mu.Lock()
	defer clipboard.mu.Unlock()

	if _, err := fmt.Fprintln(clipboard.writer, payload.Message()); err != nil {
		return fmt.Errorf("share: writing to clipboard: %w", err)
	}
	return nil
}

// # File

// File saves the message as a text file, one file per share.
type File struct {
	dir   string
	clock func() time.Time
}

// NewFile returns a [File] writing into dir, or nil when dir is empty.
func NewFile(dir string, clock func() time.Time) Mechanism {
	if dir == "" {
		return nil
	}
	if clock == nil {
		clock = time.Now
	}
	return &File{dir: dir, clock: clock}
}

// Name implements [Mechanism].
func (file *File) Name() string { return NameFile }

// Share implements [Mechanism]. Files are named after the reference and the time.
func (file *File) Share(ctx context.Context, payload Payload) error {
	if err := os.MkdirAll(file.dir, 0o755); err != nil {
		return fmt.Errorf("share: creating %s: %w", file.dir, err)
	}

	name := fmt.Sprintf("%s-%d.txt", slug.From(payload.Reference), file.clock().UnixMilli())
	path := filepath.Join(file.dir, name)

	if err := os.WriteFile(path, []byte(payload.Message()+"\n"), 0o644); err != nil {
		return fmt.Errorf("share: writing %s: %w", path, err)
	}
	return nil
}
