package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/collabpack/internal/netx"
)

type storedFile struct {
	ID               string    `json:"ID"`
	UploadedFileName string    `json:"UploadedFileName"`
	ServerFileName   string    `json:"ServerFileName"`
	Mimetype         string    `json:"Mimetype"`
	CreatedAt        time.Time `json:"CreatedAt"`
}

// Upload prompts for a local file path and streams the file to the server.
func (a *App) Upload(ctx context.Context) error {
	path, err := GetSimpleText(a.reader, "Enter file path", os.Stdout)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		fmt.Println("Cannot read file:", err)
		return err
	}

	if err := netx.UploadFile(a.stream, a.url("/api/uploads"), a.token, path, nil); err != nil {
		fmt.Println("Upload failed:", err)
		return err
	}
	fmt.Println("Uploaded", path)
	return nil
}

// Files lists the caller's uploads.
func (a *App) Files(ctx context.Context) error {
	var files []storedFile
	if err := netx.GetJSON(a.client, a.url("/api/files"), a.token, &files); err != nil {
		fmt.Println("Listing failed:", err)
		return err
	}

	if len(files) == 0 {
		fmt.Println("No uploads yet")
		return nil
	}
	for _, f := range files {
		fmt.Printf("%s  %s  (%s, %s)\n",
			f.CreatedAt.Format(time.RFC3339), f.UploadedFileName, f.Mimetype, f.ServerFileName)
	}
	return nil
}
