package cli

import (
	"bufio"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/fileshare/internal/client/client"
	"github.com/dmitrijs2005/fileshare/internal/client/config"
	"github.com/dmitrijs2005/fileshare/internal/client/ledger"
	"github.com/dmitrijs2005/fileshare/internal/client/validation"
	"github.com/dmitrijs2005/fileshare/internal/logging"
	"github.com/dmitrijs2005/fileshare/internal/server"
	"github.com/dmitrijs2005/fileshare/internal/server/storage"
)

func newService(t *testing.T) string {
	t.Helper()
	mux := http.NewServeMux()
	mux.Handle("/files/", http.StripPrefix("/files/", server.NewHandler(storage.NewMemory(), nil, 0)))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv.URL + "/files/"
}

func newTestApp(t *testing.T, input string) (*App, *bytes.Buffer) {
	t.Helper()
	var cfg config.Config
	cfg.LoadDefaults()
	cfg.Endpoint = newService(t)
	cfg.DownloadDir = filepath.Join(t.TempDir(), "dl")

	var out bytes.Buffer
	a := &App{
		config:   &cfg,
		logger:   logging.Nop(),
		endpoint: cfg.Endpoint,
		reader:   bufio.NewReader(strings.NewReader(input)),
		out:      &out,
	}
	a.files = client.New(http.DefaultClient, client.WithListener(client.ListenerFunc(a.showFiles)))
	return a, &out
}

func writeFile(t *testing.T, name string, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte{'a'}, size), 0o600))
	return path
}

func TestApp_UploadListDelete(t *testing.T) {
	a, out := newTestApp(t, "")
	ctx := context.Background()

	require.NoError(t, a.Upload(ctx, []string{writeFile(t, "report.pdf", 2*validation.MiB)}))
	assert.Contains(t, out.String(), "Files:\n  1. report.pdf 2.00 MB.  (#1)\n")
	assert.Contains(t, out.String(), "Uploaded report.pdf 2.00 MB. as #1\n")

	out.Reset()
	require.NoError(t, a.List(ctx, nil))
	assert.Equal(t, "Files:\n  1. report.pdf 2.00 MB.  (#1)\nSession total: 2.00 of 10.00 MB\n", out.String())

	out.Reset()
	require.NoError(t, a.Delete(ctx, strings.Fields("report.pdf 2.00 MB.")))
	assert.Equal(t, "No files uploaded\nDeleted #1\n", out.String())
}

func TestApp_UploadPromptsForPath(t *testing.T) {
	path := writeFile(t, "notes.txt", 10)
	a, out := newTestApp(t, path+"\n")

	require.NoError(t, a.Upload(context.Background(), nil))
	assert.Contains(t, out.String(), "Enter path of the file to upload")
	assert.Len(t, a.files.Files(), 1)
}

func TestApp_UploadRejected(t *testing.T) {
	a, out := newTestApp(t, "")

	err := a.Upload(context.Background(), []string{writeFile(t, "movie.mp4", 10)})
	require.ErrorIs(t, err, validation.ErrInvalidExtension)
	assert.Empty(t, out.String())
}

func TestApp_InfoAndDownload(t *testing.T) {
	a, out := newTestApp(t, "")
	ctx := context.Background()

	require.NoError(t, a.Upload(ctx, []string{writeFile(t, "a.txt", 1536)}))

	out.Reset()
	require.NoError(t, a.Info(ctx, []string{"1"}))
	assert.Equal(t, "#1 a.txt, 1536 bytes (0.00 MB)\n", out.String())

	out.Reset()
	require.NoError(t, a.Download(ctx, []string{"#1"}))
	saved := filepath.Join(a.config.DownloadDir, "a.txt")
	data, err := os.ReadFile(saved)
	require.NoError(t, err)
	assert.Len(t, data, 1536)
	assert.Contains(t, out.String(), "a.txt (1536 bytes)")
}

func TestApp_Resolve(t *testing.T) {
	a, _ := newTestApp(t, "")
	ctx := context.Background()

	require.NoError(t, a.Upload(ctx, []string{writeFile(t, "a.txt", 1)}))
	require.NoError(t, a.Upload(ctx, []string{writeFile(t, "b.txt", 1)}))

	tests := []struct {
		name    string
		args    []string
		want    int64
		wantErr error
	}{
		{"position", []string{"2"}, 2, nil},
		{"service id", []string{"#1"}, 1, nil},
		{"display text", strings.Fields("b.txt 0.00 MB."), 2, nil},
		{"position out of range", []string{"3"}, 0, ErrUnknownFile},
		{"unknown text", []string{"c.txt"}, 0, ErrUnknownFile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.resolve(tt.args)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := a.resolve([]string{"#x"})
	require.Error(t, err)
}

func TestApp_ResolveEmptyPrompt(t *testing.T) {
	a, _ := newTestApp(t, "\n")
	_, err := a.resolve(nil)
	require.ErrorIs(t, err, ErrNoInput)
}

func TestApp_EndpointAndReset(t *testing.T) {
	a, out := newTestApp(t, "")
	ctx := context.Background()

	require.NoError(t, a.Upload(ctx, []string{writeFile(t, "a.txt", 100)}))
	require.NoError(t, a.Reset(ctx, nil))
	assert.Zero(t, a.files.UploadedBytes())

	out.Reset()
	require.NoError(t, a.Endpoint(ctx, nil))
	assert.Equal(t, a.config.Endpoint+"\n", out.String())

	require.NoError(t, a.Endpoint(ctx, []string{"http://other:8080/files/"}))
	assert.Equal(t, "http://other:8080/files/", a.endpoint)
	assert.Equal(t, "fs (other:8080, 1 files)> ", a.getStatus())
}

func TestApp_RemoteErrorIsReturned(t *testing.T) {
	a, _ := newTestApp(t, "")

	err := a.Delete(context.Background(), []string{"#99"})
	require.Error(t, err)
	assert.Equal(t, "http error: 404 - Not Found", err.Error())
}

func TestNewApp_RestoresFromLedger(t *testing.T) {
	ctx := context.Background()
	ledgerPath := filepath.Join(t.TempDir(), "ledger.db")

	db, err := ledger.Open(ctx, ledgerPath)
	require.NoError(t, err)
	require.NoError(t, ledger.NewStore(db).Replace(ctx, nil))
	require.NoError(t, db.Close())

	var cfg config.Config
	cfg.LoadDefaults()
	cfg.Endpoint = newService(t)
	cfg.LedgerPath = ledgerPath

	a, err := NewApp(ctx, &cfg, logging.Nop())
	require.NoError(t, err)
	var out bytes.Buffer
	a.out = &out

	require.NoError(t, a.Upload(ctx, []string{writeFile(t, "a.txt", 10)}))
	a.Close()

	b, err := NewApp(ctx, &cfg, logging.Nop())
	require.NoError(t, err)
	defer b.Close()
	b.out = &out

	files := b.files.Files()
	require.Len(t, files, 1)
	assert.Equal(t, "a.txt 0.00 MB.", files[0].DisplayText)
}

func TestRoot_RunsUntilExit(t *testing.T) {
	capturePrintln(t)
	orig := isTerminal
	isTerminal = func(int) bool { return false }
	t.Cleanup(func() { isTerminal = orig })

	path := writeFile(t, "a.txt", 10)
	a, out := newTestApp(t, "upload "+path+"\nlist\nexit\n")

	a.Root(context.Background())

	assert.Contains(t, out.String(), "No files uploaded\n")
	assert.Contains(t, out.String(), "Session total: 0.00 of 10.00 MB\n")
	assert.Len(t, a.files.Files(), 1)
}

func TestRoot_NamesWithRepeatedSpaces(t *testing.T) {
	capturePrintln(t)
	orig := isTerminal
	isTerminal = func(int) bool { return false }
	t.Cleanup(func() { isTerminal = orig })

	path := writeFile(t, "a b  c.zip", 10)
	a, out := newTestApp(t, "upload "+path+"\ndelete a b  c.zip 0.00 MB.\nexit\n")

	a.Root(context.Background())

	assert.Contains(t, out.String(), "Uploaded a b  c.zip 0.00 MB. as #1\n")
	assert.Contains(t, out.String(), "Deleted #1\n")
	assert.Empty(t, a.files.Files())
}
