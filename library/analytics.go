package library

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// View bumps the view counter, records reading history for an active
// session, persists, and then tries to open the resource. The view counts
// even when the underlying open fails; only an unknown id is an error.
func (l *Library) View(id string) (string, error) {
	r, ok := l.state.Resources[id]
	if !ok {
		return "", ErrNotFound
	}

	r.ViewCount++
	if l.session != nil {
		recordHistory(l.session, id)
	}
	l.persist()
	l.recordActivity("VIEW", r.Title+" ("+id+")")

	switch {
	case isURL(r.FilePath):
		if err := l.opener.OpenURL(r.FilePath); err != nil {
			return fmt.Sprintf("Error opening URL: %v", err), nil
		}
		return fmt.Sprintf("Opening %q in your web browser...", r.Title), nil
	case fileExists(r.FilePath):
		if err := l.opener.OpenFile(r.FilePath); err != nil {
			return fmt.Sprintf("Error opening file: %v", err), nil
		}
		return fmt.Sprintf("Opening %q by %s...", r.Title, r.Author), nil
	default:
		return fmt.Sprintf("File not found: %s\nThis may be a placeholder path. Please check with the administrator.", r.FilePath), nil
	}
}

// Download bumps the download counter, records history, persists, and then
// fetches or copies the file into the downloads directory. As with View, the
// counter moves regardless of the transfer outcome.
func (l *Library) Download(id string) (string, error) {
	r, ok := l.state.Resources[id]
	if !ok {
		return "", ErrNotFound
	}

	r.DownloadCount++
	if l.session != nil {
		recordHistory(l.session, id)
	}
	l.persist()
	l.recordActivity("DOWNLOAD", r.Title+" ("+id+")")

	if err := os.MkdirAll(l.cfg.DownloadsDir, 0o755); err != nil {
		return fmt.Sprintf("Error preparing downloads directory: %v", err), nil
	}

	switch {
	case isURL(r.FilePath):
		dest := filepath.Join(l.cfg.DownloadsDir, downloadFilename(r.FilePath, r.Title))
		if err := l.transfer.FetchURL(r.FilePath, dest); err != nil {
			return fmt.Sprintf("Error downloading from URL: %v", err), nil
		}
		return fmt.Sprintf("Downloaded %q to: %s", r.Title, dest), nil
	case fileExists(r.FilePath):
		name := filepath.Base(r.FilePath)
		if name == "" || name == "." || name == string(filepath.Separator) {
			name = slugTitle(r.Title) + ".pdf"
		}
		dest := filepath.Join(l.cfg.DownloadsDir, name)
		if err := l.transfer.CopyFile(r.FilePath, dest); err != nil {
			return fmt.Sprintf("Error copying file: %v", err), nil
		}
		return fmt.Sprintf("Downloaded %q to: %s", r.Title, dest), nil
	default:
		return fmt.Sprintf("File not found: %s\nThis may be a placeholder path. Please check with the administrator.", r.FilePath), nil
	}
}

// UsageReport aggregates catalog totals plus the top-5 rankings.
type UsageReport struct {
	TotalResources int
	TotalStudents  int
	MostDownloaded []*Resource
	MostViewed     []*Resource
}

// UsageReport counts resources and students (admins excluded) and ranks the
// catalog by each counter. The sorts are stable, so resources tied on a
// count keep their original creation order.
func (l *Library) UsageReport() *UsageReport {
	rep := &UsageReport{TotalResources: len(l.state.ResourceOrder)}
	for _, username := range l.state.UserOrder {
		if l.state.Users[username].Role == RoleStudent {
			rep.TotalStudents++
		}
	}

	rep.MostDownloaded = topFive(l.Resources(), func(r *Resource) int { return r.DownloadCount })
	rep.MostViewed = topFive(l.Resources(), func(r *Resource) int { return r.ViewCount })
	return rep
}

func topFive(resources []*Resource, count func(*Resource) int) []*Resource {
	sort.SliceStable(resources, func(i, j int) bool {
		return count(resources[i]) > count(resources[j])
	})
	if len(resources) > 5 {
		resources = resources[:5]
	}
	return resources
}

// isURL reports whether path parses as an absolute URL with both a scheme
// and a host.
func isURL(path string) bool {
	u, err := url.Parse(path)
	return err == nil && u.Scheme != "" && u.Host != ""
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// downloadFilename takes the URL's last path segment when it looks like a
// real filename, otherwise falls back to a slug of the title with a default
// extension.
func downloadFilename(rawURL, title string) string {
	if u, err := url.Parse(rawURL); err == nil {
		if name := path.Base(u.Path); name != "" && name != "." && name != "/" && strings.Contains(name, ".") {
			return name
		}
	}
	return slugTitle(title) + ".pdf"
}

// slugTitle keeps letters, digits, spaces, hyphens and underscores, then
// joins words with underscores.
func slugTitle(title string) string {
	var b strings.Builder
	for _, c := range title {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9',
			c == ' ', c == '-', c == '_':
			b.WriteRune(c)
		}
	}
	safe := strings.TrimSpace(b.String())
	if safe == "" {
		safe = "resource"
	}
	return strings.ReplaceAll(safe, " ", "_")
}
