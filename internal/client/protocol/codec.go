package protocol

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/fileshare/internal/client/naming"
	"github.com/dmitrijs2005/fileshare/internal/client/validation"
)

// Header names used by the service.
const (
	HeaderFileName = "FileName"
	HeaderFileSize = "FileSize"
	HeaderFileID   = "FileId"
)

// Operation names, used in errors and logs.
const (
	OpUpload   = "upload"
	OpMetadata = "metadata"
	OpDownload = "download"
	OpDelete   = "delete"
)

// FileMetadata is the result of a metadata query.
type FileMetadata struct {
	Name string
	Size int64
}

// DownloadedFile is the result of a download. Data belongs to the caller.
type DownloadedFile struct {
	Name string
	Data []byte
}

// Target returns the URL of file id under endpoint.
func Target(endpoint string, id int64) string {
	return endpoint + strconv.FormatInt(id, 10)
}

// NewUploadRequest builds a POST carrying wireName in the FileName header and
// data as the only part of a multipart/form-data body.
func NewUploadRequest(ctx context.Context, endpoint, wireName string, data []byte) (*http.Request, error) {
	body, contentType, err := singlePartBody(wireName, data)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set(HeaderFileName, wireName)
	req.Header.Set("Content-Type", contentType)

	return req, nil
}

func singlePartBody(wireName string, data []byte) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", wireName)
	if err != nil {
		return nil, "", fmt.Errorf("create form part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", fmt.Errorf("write form part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("close form body: %w", err)
	}

	return &buf, mw.FormDataContentType(), nil
}

// NewMetadataRequest builds a HEAD for file id.
func NewMetadataRequest(ctx context.Context, endpoint string, id int64) (*http.Request, error) {
	return newBodilessRequest(ctx, http.MethodHead, endpoint, id)
}

// NewDownloadRequest builds a GET for file id.
func NewDownloadRequest(ctx context.Context, endpoint string, id int64) (*http.Request, error) {
	return newBodilessRequest(ctx, http.MethodGet, endpoint, id)
}

// NewDeleteRequest builds a DELETE for file id.
func NewDeleteRequest(ctx context.Context, endpoint string, id int64) (*http.Request, error) {
	return newBodilessRequest(ctx, http.MethodDelete, endpoint, id)
}

func newBodilessRequest(ctx context.Context, method, endpoint string, id int64) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, Target(endpoint, id), nil)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", method, err)
	}
	return req, nil
}

// ParseUploadResponse returns the identifier assigned by the service.
func ParseUploadResponse(resp *http.Response) (int64, error) {
	if !successful(resp) {
		return 0, NewStatusError(resp)
	}

	raw, ok := header(resp, HeaderFileID)
	if !ok {
		return 0, &ProtocolError{Op: OpUpload, Header: HeaderFileID, Err: ErrIdentifierHeaderNotFound}
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &ProtocolError{Op: OpUpload, Header: HeaderFileID, Err: fmt.Errorf("%w: %q", ErrMalformedHeader, raw)}
	}

	return id, nil
}

// ParseMetadataResponse decodes the FileName and FileSize headers.
func ParseMetadataResponse(resp *http.Response) (FileMetadata, error) {
	if !successful(resp) {
		return FileMetadata{}, NewStatusError(resp)
	}

	name, err := originalName(resp, OpMetadata)
	if err != nil {
		return FileMetadata{}, err
	}

	rawSize, ok := header(resp, HeaderFileSize)
	if !ok {
		return FileMetadata{}, &ProtocolError{Op: OpMetadata, Header: HeaderFileSize, Err: ErrHeaderNotFound}
	}

	size, err := strconv.ParseInt(rawSize, 10, 64)
	if err != nil || size < 0 {
		return FileMetadata{}, &ProtocolError{Op: OpMetadata, Header: HeaderFileSize, Err: fmt.Errorf("%w: %q", ErrMalformedHeader, rawSize)}
	}

	return FileMetadata{Name: name, Size: size}, nil
}

// ParseDownloadResponse reads the whole body and decodes the FileName header.
func ParseDownloadResponse(resp *http.Response) (DownloadedFile, error) {
	if !successful(resp) {
		return DownloadedFile{}, NewStatusError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return DownloadedFile{}, fmt.Errorf("read download body: %w", err)
	}

	name, err := originalName(resp, OpDownload)
	if err != nil {
		return DownloadedFile{}, err
	}

	return DownloadedFile{Name: name, Data: data}, nil
}

// ParseDeleteResponse reports whether the service accepted the delete.
func ParseDeleteResponse(resp *http.Response) error {
	if !successful(resp) {
		return NewStatusError(resp)
	}
	return nil
}

// DisplayText renders the human-readable line for a tracked upload,
// e.g. "report.pdf 2.00 MB.".
func DisplayText(name string, size int64) string {
	return name + " " + validation.Megabytes(size) + " MB."
}

func successful(resp *http.Response) bool {
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// header returns the first value of key. The service sends these headers
// with their exact casing, so the map is also consulted verbatim.
func header(resp *http.Response, key string) (string, bool) {
	if v := resp.Header.Values(key); len(v) > 0 {
		return v[0], true
	}
	if v, ok := resp.Header[key]; ok && len(v) > 0 {
		return v[0], true
	}
	return "", false
}

func originalName(resp *http.Response, op string) (string, error) {
	wire, ok := header(resp, HeaderFileName)
	if !ok {
		return "", &ProtocolError{Op: op, Header: HeaderFileName, Err: ErrHeaderNotFound}
	}

	name, err := naming.Strip(wire)
	if err != nil {
		return "", &ProtocolError{Op: op, Header: HeaderFileName, Err: err}
	}

	return name, nil
}
