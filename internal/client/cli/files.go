package cli

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/dmitrijs2005/gophvault/internal/client/client"
	"github.com/dmitrijs2005/gophvault/internal/filex"
)

func detectMimeType(path string, content []byte) string {
	if t := mime.TypeByExtension(filepath.Ext(path)); t != "" {
		return t
	}
	return http.DetectContentType(content)
}

// Upload sends the file at path to the vault.
func (a *App) Upload(ctx context.Context, path string) error {
	if !a.isLoggedIn() {
		return client.ErrNotLoggedIn
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	resp, err := a.api.Upload(ctx, filepath.Base(path), detectMimeType(path, content), content)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Stored %s (%d bytes) as %s\n", resp.OriginalName, resp.Size, resp.ID)
	return a.persistSession()
}

// Download fetches file id into dir under its original name.
func (a *App) Download(ctx context.Context, id, dir string) error {
	if !a.isLoggedIn() {
		return client.ErrNotLoggedIn
	}

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	resp, err := a.api.Download(ctx, id)
	if err != nil {
		return err
	}

	// never trust a server-supplied path
	target := filex.SafeJoin(dir, resp.OriginalName, resp.ID)

	if err := filex.WriteFileAtomic(target, resp.Content, 0o600); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Saved %s (%s, %d bytes)\n", target, resp.MimeType, len(resp.Content))
	return a.persistSession()
}

// List prints the stored files as a table.
func (a *App) List(ctx context.Context) error {
	if !a.isLoggedIn() {
		return client.ErrNotLoggedIn
	}

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	files, err := a.api.List(ctx)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		fmt.Fprintln(a.out, "No files")
		return a.persistSession()
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSIZE\tTYPE")
	for _, f := range files {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", f.ID, f.OriginalName, f.Size, f.MimeType)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return a.persistSession()
}
