package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type storedCookie struct {
	Value   string    `json:"value"`
	Expires time.Time `json:"expires,omitempty"`
}

// FileJar is an http.CookieJar that persists cookies to a JSON file so a
// session survives between CLI invocations. It talks to a single server, so
// cookies are keyed by name only. The file is removed when the jar is empty.
type FileJar struct {
	mu      sync.Mutex
	path    string
	cookies map[string]storedCookie
	now     func() time.Time
	err     error
}

// OpenJar loads the jar stored at path. A missing file yields an empty jar.
func OpenJar(path string) (*FileJar, error) {
	j := &FileJar{path: path, cookies: make(map[string]storedCookie), now: time.Now}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return j, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if err := json.Unmarshal(data, &j.cookies); err != nil {
		return nil, fmt.Errorf("invalid session file %s: %w", path, err)
	}
	return j, nil
}

// SetCookies implements http.CookieJar.
func (j *FileJar) SetCookies(_ *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now()
	changed := false
	for _, c := range cookies {
		switch {
		case c.MaxAge < 0, !c.Expires.IsZero() && !c.Expires.After(now):
			if _, ok := j.cookies[c.Name]; ok {
				delete(j.cookies, c.Name)
				changed = true
			}
		default:
			sc := storedCookie{Value: c.Value}
			if c.MaxAge > 0 {
				sc.Expires = now.Add(time.Duration(c.MaxAge) * time.Second)
			} else if !c.Expires.IsZero() {
				sc.Expires = c.Expires
			}
			j.cookies[c.Name] = sc
			changed = true
		}
	}
	if changed {
		j.err = j.saveLocked()
	}
}

// Cookies implements http.CookieJar.
func (j *FileJar) Cookies(_ *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now()
	var out []*http.Cookie
	for name, sc := range j.cookies {
		if !sc.Expires.IsZero() && !sc.Expires.After(now) {
			continue
		}
		out = append(out, &http.Cookie{Name: name, Value: sc.Value})
	}
	return out
}

// Has reports whether a live cookie named name is held.
func (j *FileJar) Has(name string) bool {
	for _, c := range j.Cookies(nil) {
		if c.Name == name {
			return true
		}
	}
	return false
}

// Clear drops every cookie and removes the file.
func (j *FileJar) Clear() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.cookies = make(map[string]storedCookie)
	return j.saveLocked()
}

// Err returns the last error hit while persisting cookies.
func (j *FileJar) Err() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.err
}

func (j *FileJar) saveLocked() error {
	if len(j.cookies) == 0 {
		err := os.Remove(j.path)
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.MkdirAll(filepath.Dir(j.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(j.cookies, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(j.path, data, 0600)
}
