package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/fileshare/internal/client/naming"
	"github.com/dmitrijs2005/fileshare/internal/client/protocol"
	"github.com/dmitrijs2005/fileshare/internal/client/tracker"
	"github.com/dmitrijs2005/fileshare/internal/client/transport"
	"github.com/dmitrijs2005/fileshare/internal/client/validation"
	"github.com/dmitrijs2005/fileshare/internal/logging"
)

// Client orchestrates transfers against a file-sharing service.
type Client struct {
	mu sync.Mutex

	doer      transport.Doer
	validator *validation.Validator
	names     *naming.Generator
	files     *tracker.Tracker
	listeners []Listener
	hook      StateHook
	logger    logging.Logger
	readFile  func(string) ([]byte, error)
}

// Option configures a Client.
type Option func(*Client)

func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func WithValidator(v *validation.Validator) Option {
	return func(c *Client) { c.validator = v }
}

func WithNameGenerator(g *naming.Generator) Option {
	return func(c *Client) { c.names = g }
}

func WithTracker(t *tracker.Tracker) Option {
	return func(c *Client) { c.files = t }
}

func WithStateHook(h StateHook) Option {
	return func(c *Client) { c.hook = h }
}

// WithListener subscribes l at construction time.
func WithListener(l Listener) Option {
	return func(c *Client) { c.listeners = append(c.listeners, l) }
}

// New returns a Client sending requests through doer.
func New(doer transport.Doer, opts ...Option) *Client {
	c := &Client{
		doer:     doer,
		logger:   logging.Nop(),
		readFile: os.ReadFile,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.validator == nil {
		c.validator = validation.New(validation.Options{})
	}
	if c.names == nil {
		c.names = naming.NewGenerator()
	}
	if c.files == nil {
		c.files = tracker.New()
	}
	return c
}

// Upload validates the file at path, sends it to endpoint and tracks it under
// the identifier the service assigns. The returned record carries the
// display text built from the service's own metadata.
func (c *Client) Upload(ctx context.Context, path, endpoint string) (tracker.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	op := c.begin(ctx, OpUpload, "path", path)
	if err := checkEndpoint(endpoint); err != nil {
		return tracker.Record{}, op.fail(err)
	}

	op.to(StateValidating)
	pending, err := c.validator.ValidateFile(path)
	if err != nil {
		return tracker.Record{}, op.fail(err)
	}

	op.to(StateEncoding)
	data, err := c.readFile(pending.Path)
	if err != nil {
		return tracker.Record{}, op.fail(fmt.Errorf("read %s: %w", pending.Path, err))
	}
	wireName := c.names.Prefixed(filepath.Base(pending.Path))
	req, err := protocol.NewUploadRequest(ctx, endpoint, wireName, data)
	if err != nil {
		return tracker.Record{}, op.fail(err)
	}

	op.to(StateAwaitingResponse)
	resp, err := c.send(req)
	if err != nil {
		return tracker.Record{}, op.fail(err)
	}

	op.to(StateDecoding)
	id, err := protocol.ParseUploadResponse(resp)
	drain(resp)
	if err != nil {
		return tracker.Record{}, op.fail(err)
	}

	md, err := c.metadata(ctx, id, endpoint)
	if err != nil {
		return tracker.Record{}, op.fail(fmt.Errorf("metadata of uploaded file %d: %w", id, err))
	}

	rec := tracker.Record{ID: id, DisplayText: protocol.DisplayText(md.Name, md.Size)}
	c.files.Register(rec.ID, rec.DisplayText)
	op.logger.Info(ctx, "file uploaded", "id", rec.ID, "display_text", rec.DisplayText, "wire_name", wireName)
	op.to(StateUpdated)
	c.publish()

	return rec, nil
}

// FetchMetadata asks the service for the original name and size of id.
func (c *Client) FetchMetadata(ctx context.Context, id int64, endpoint string) (protocol.FileMetadata, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	op := c.begin(ctx, OpMetadata, "id", id)

	op.to(StateEncoding)
	if err := checkTarget(id, endpoint); err != nil {
		return protocol.FileMetadata{}, op.fail(err)
	}
	req, err := protocol.NewMetadataRequest(ctx, endpoint, id)
	if err != nil {
		return protocol.FileMetadata{}, op.fail(err)
	}

	op.to(StateAwaitingResponse)
	resp, err := c.send(req)
	if err != nil {
		return protocol.FileMetadata{}, op.fail(err)
	}

	op.to(StateDecoding)
	md, err := protocol.ParseMetadataResponse(resp)
	drain(resp)
	if err != nil {
		return protocol.FileMetadata{}, op.fail(err)
	}

	op.to(StateUpdated)
	return md, nil
}

// Download fetches the bytes and original name of id. Tracked files are not
// changed.
func (c *Client) Download(ctx context.Context, id int64, endpoint string) (protocol.DownloadedFile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	op := c.begin(ctx, OpDownload, "id", id)

	op.to(StateEncoding)
	if err := checkTarget(id, endpoint); err != nil {
		return protocol.DownloadedFile{}, op.fail(err)
	}
	req, err := protocol.NewDownloadRequest(ctx, endpoint, id)
	if err != nil {
		return protocol.DownloadedFile{}, op.fail(err)
	}

	op.to(StateAwaitingResponse)
	resp, err := c.send(req)
	if err != nil {
		return protocol.DownloadedFile{}, op.fail(err)
	}

	op.to(StateDecoding)
	file, err := protocol.ParseDownloadResponse(resp)
	drain(resp)
	if err != nil {
		return protocol.DownloadedFile{}, op.fail(err)
	}

	op.logger.Info(ctx, "file downloaded", "name", file.Name, "bytes", len(file.Data))
	op.to(StateUpdated)
	return file, nil
}

// Delete removes id from the service and, on success, from the tracked
// files.
func (c *Client) Delete(ctx context.Context, id int64, endpoint string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	op := c.begin(ctx, OpDelete, "id", id)

	op.to(StateEncoding)
	if err := checkTarget(id, endpoint); err != nil {
		return op.fail(err)
	}
	req, err := protocol.NewDeleteRequest(ctx, endpoint, id)
	if err != nil {
		return op.fail(err)
	}

	op.to(StateAwaitingResponse)
	resp, err := c.send(req)
	if err != nil {
		return op.fail(err)
	}

	op.to(StateDecoding)
	err = protocol.ParseDeleteResponse(resp)
	drain(resp)
	if err != nil {
		return op.fail(err)
	}

	text, tracked := c.files.Get(id)
	c.files.Remove(id)
	op.logger.Info(ctx, "file deleted", "display_text", text, "tracked", tracked)
	op.to(StateUpdated)
	c.publish()

	return nil
}

// LookupID returns the identifier of the first tracked file whose display
// text equals displayText.
func (c *Client) LookupID(displayText string) (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.files.LookupIDByDisplayText(displayText)
}

// Files returns the tracked files in upload order.
func (c *Client) Files() []tracker.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.files.Snapshot()
}

// Count reports how many files are tracked.
func (c *Client) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.files.Len()
}

// Subscribe registers l for change notifications.
func (c *Client) Subscribe(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

// Notify publishes the current list of tracked files to every listener.
func (c *Client) Notify() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.publish()
}

// Restore tracks records from an earlier session without contacting the
// service, then notifies listeners once.
func (c *Client) Restore(records []tracker.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range records {
		if r.ID <= 0 {
			continue
		}
		c.files.Register(r.ID, r.DisplayText)
	}
	c.publish()
}

// UploadedBytes reports the running total accepted by the validator.
func (c *Client) UploadedBytes() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.validator.Total()
}

// ResetSession clears the validator's running total. Tracked files stay.
func (c *Client) ResetSession() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.validator.Reset()
}

// metadata runs the metadata exchange for a caller that already holds mu.
func (c *Client) metadata(ctx context.Context, id int64, endpoint string) (protocol.FileMetadata, error) {
	req, err := protocol.NewMetadataRequest(ctx, endpoint, id)
	if err != nil {
		return protocol.FileMetadata{}, err
	}
	resp, err := c.send(req)
	if err != nil {
		return protocol.FileMetadata{}, err
	}
	defer drain(resp)
	return protocol.ParseMetadataResponse(resp)
}

func (c *Client) send(req *http.Request) (*http.Response, error) {
	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	return resp, nil
}

func (c *Client) publish() {
	for _, l := range c.listeners {
		l.FilesChanged(c.files.Snapshot())
	}
}

type operation struct {
	ctx    context.Context
	name   Op
	hook   StateHook
	logger logging.Logger
	start  time.Time
}

func (c *Client) begin(ctx context.Context, name Op, args ...any) *operation {
	attrs := append([]any{"op", string(name), "op_id", uuid.NewString()}, args...)
	op := &operation{ctx: ctx, name: name, hook: c.hook, logger: c.logger.With(attrs...), start: time.Now()}
	op.to(StateIdle)
	return op
}

func (o *operation) to(s State) {
	o.logger.Debug(o.ctx, "state", "state", s.String())
	if s.Terminal() {
		o.logger.Debug(o.ctx, "operation finished", "state", s.String(), "elapsed", time.Since(o.start))
	}
	if o.hook != nil {
		o.hook(o.name, s)
	}
}

func (o *operation) fail(err error) error {
	o.logger.Warn(o.ctx, "operation failed", "error", err)
	o.to(StateFailed)
	return err
}

func checkTarget(id int64, endpoint string) error {
	if id <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidID, id)
	}
	return checkEndpoint(endpoint)
}

func checkEndpoint(endpoint string) error {
	u, err := url.Parse(endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidEndpoint, endpoint)
	}
	return nil
}

// drain consumes what is left of the body so the connection can be reused.
func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
