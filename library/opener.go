package library

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Opener launches a resource with whatever the host environment provides.
// Both calls are fallible and the caller must carry on regardless.
type Opener interface {
	OpenURL(rawURL string) error
	OpenFile(path string) error
}

// Transfer lands a copy of a resource payload at a local destination.
type Transfer interface {
	FetchURL(rawURL, dest string) error
	CopyFile(src, dest string) error
}

// systemOpener dispatches to the platform's default handler.
type systemOpener struct{}

func (systemOpener) OpenURL(rawURL string) error { return launch(rawURL) }
func (systemOpener) OpenFile(path string) error  { return launch(path) }

func launch(target string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", target)
	case "darwin":
		cmd = exec.Command("open", target)
	default:
		cmd = exec.Command("xdg-open", target)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launch %s: %w", target, err)
	}
	return nil
}

// systemTransfer fetches over HTTP and copies from the local filesystem.
type systemTransfer struct{}

func (systemTransfer) FetchURL(rawURL, dest string) error {
	resp, err := http.Get(rawURL)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: unexpected status %s", rawURL, resp.Status)
	}
	return writeTo(dest, resp.Body)
}

func (systemTransfer) CopyFile(src, dest string) error {
	f, err := os.Open(filepath.Clean(src))
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer f.Close()
	return writeTo(dest, f)
}

func writeTo(dest string, r io.Reader) error {
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, r); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}
	return nil
}
