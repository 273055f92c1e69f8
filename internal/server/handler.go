package server

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/fileshare/internal/client/protocol"
	"github.com/dmitrijs2005/fileshare/internal/logging"
	"github.com/dmitrijs2005/fileshare/internal/server/storage"
)

// DefaultMaxUploadSize bounds a request body when no limit is configured.
const DefaultMaxUploadSize int64 = 32 << 20

var errNoFilePart = errors.New("multipart body has no parts")

// Handler serves the file-sharing protocol for paths of the form "" (upload)
// and "{id}". Mount it behind http.StripPrefix.
type Handler struct {
	store     storage.Storage
	logger    logging.Logger
	maxUpload int64
}

func NewHandler(store storage.Storage, logger logging.Logger, maxUpload int64) *Handler {
	if logger == nil {
		logger = logging.Nop()
	}
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUploadSize
	}
	return &Handler{store: store, logger: logger, maxUpload: maxUpload}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(r.URL.Path, "/")

	if path == "" {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		h.upload(w, r)
		return
	}

	id, err := strconv.ParseInt(path, 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "bad file id", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodHead:
		h.metadata(w, r, id)
	case http.MethodGet:
		h.download(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		w.Header().Set("Allow", "HEAD, GET, DELETE")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	name := r.Header.Get(protocol.HeaderFileName)
	if name == "" {
		http.Error(w, "missing "+protocol.HeaderFileName+" header", http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	data, err := readUpload(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "upload too large", http.StatusRequestEntityTooLarge)
			return
		}
		h.logger.Warn(ctx, "bad upload body", "error", err)
		http.Error(w, "bad upload body", http.StatusBadRequest)
		return
	}

	id, err := h.store.Create(ctx, name, data)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.logger.Info(ctx, "file stored", "id", id, "name", name, "bytes", len(data))
	setHeader(w, protocol.HeaderFileID, strconv.FormatInt(id, 10))
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) metadata(w http.ResponseWriter, r *http.Request, id int64) {
	info, err := h.store.Stat(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	setHeader(w, protocol.HeaderFileName, info.Name)
	setHeader(w, protocol.HeaderFileSize, strconv.FormatInt(info.Size, 10))
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request, id int64) {
	obj, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	setHeader(w, protocol.HeaderFileName, obj.Name)
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.Itoa(len(obj.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(obj.Data); err != nil {
		h.logger.Warn(r.Context(), "download interrupted", "id", id, "error", err)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request, id int64) {
	if err := h.store.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	h.logger.Info(r.Context(), "file deleted", "id", id)
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	case errors.Is(err, storage.ErrEmptyName):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.Error(r.Context(), "storage failure", "method", r.Method, "path", r.URL.Path, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// setHeader keeps the exact header casing clients of the service expect.
func setHeader(w http.ResponseWriter, key, value string) {
	w.Header()[key] = []string{value}
}

// readUpload returns the first part of a multipart body, or the raw body for
// any other content type.
func readUpload(r *http.Request) ([]byte, error) {
	mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		return io.ReadAll(r.Body)
	}

	mr := multipart.NewReader(r.Body, params["boundary"])
	part, err := mr.NextPart()
	if errors.Is(err, io.EOF) {
		return nil, errNoFilePart
	}
	if err != nil {
		return nil, fmt.Errorf("read multipart: %w", err)
	}
	defer part.Close()

	return io.ReadAll(part)
}
