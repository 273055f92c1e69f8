package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/fileshare/internal/client/validation"
	"github.com/dmitrijs2005/fileshare/internal/filex"
)

var (
	ErrUnknownFile = errors.New("no such file in the list")
	ErrNoInput     = errors.New("no input given")
)

func (a *App) Upload(ctx context.Context, args []string) error {
	path, err := a.argOrPrompt(args, "Enter path of the file to upload")
	if err != nil {
		return err
	}

	rec, err := a.files.Upload(ctx, path, a.endpoint)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Uploaded %s as #%d\n", rec.DisplayText, rec.ID)
	return nil
}

func (a *App) Info(ctx context.Context, args []string) error {
	id, err := a.resolve(args)
	if err != nil {
		return err
	}

	md, err := a.files.FetchMetadata(ctx, id, a.endpoint)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "#%d %s, %d bytes (%s MB)\n", id, md.Name, md.Size, validation.Megabytes(md.Size))
	return nil
}

func (a *App) Download(ctx context.Context, args []string) error {
	id, err := a.resolve(args)
	if err != nil {
		return err
	}

	file, err := a.files.Download(ctx, id, a.endpoint)
	if err != nil {
		return err
	}

	dir, err := filex.EnsureDir(a.config.DownloadDir)
	if err != nil {
		return err
	}
	path, err := filex.WriteInto(dir, file.Name, file.Data)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Saved %s (%d bytes)\n", path, len(file.Data))
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := a.resolve(args)
	if err != nil {
		return err
	}

	if err := a.files.Delete(ctx, id, a.endpoint); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Deleted #%d\n", id)
	return nil
}

func (a *App) List(context.Context, []string) error {
	a.showFiles(a.files.Files())
	fmt.Fprintf(a.out, "Session total: %s of %s MB\n",
		validation.Megabytes(a.files.UploadedBytes()), validation.Megabytes(validation.MaxTotalSize))
	return nil
}

// Endpoint prints the current endpoint or switches to a new one.
func (a *App) Endpoint(_ context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, a.endpoint)
		return nil
	}
	a.endpoint = args[0]
	fmt.Fprintf(a.out, "Endpoint set to %s\n", a.endpoint)
	return nil
}

func (a *App) Reset(context.Context, []string) error {
	a.files.ResetSession()
	fmt.Fprintln(a.out, "Upload session reset")
	return nil
}

func (a *App) argOrPrompt(args []string, prompt string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	text, err := GetSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", ErrNoInput
	}
	return text, nil
}

// resolve turns a file selector into a service id: "#17" is an id, "2" is a
// position in the list, anything else is matched against display texts.
func (a *App) resolve(args []string) (int64, error) {
	sel, err := a.argOrPrompt(args, "Enter file number, #id or display text")
	if err != nil {
		return 0, err
	}

	if raw, ok := strings.CutPrefix(sel, "#"); ok {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("bad file id %q: %w", raw, err)
		}
		return id, nil
	}

	if n, err := strconv.Atoi(sel); err == nil {
		files := a.files.Files()
		if n < 1 || n > len(files) {
			return 0, fmt.Errorf("%w: %d", ErrUnknownFile, n)
		}
		return files[n-1].ID, nil
	}

	id, ok := a.files.LookupID(sel)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownFile, sel)
	}
	return id, nil
}
