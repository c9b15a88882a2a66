package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
)

// persistedCookie is the on-disk shape of a session cookie. Only name and
// value survive a jar round trip; that is all the backend needs back.
type persistedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// SaveCookies writes the current session cookies to path so a later process
// can resume the session. An empty jar removes the file.
func (c *Client) SaveCookies(path string) error {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}

	cookies := c.http.Jar.Cookies(u)
	if len(cookies) == 0 {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove cookie file: %w", err)
		}
		return nil
	}

	persisted := make([]persistedCookie, 0, len(cookies))
	for _, ck := range cookies {
		persisted = append(persisted, persistedCookie{Name: ck.Name, Value: ck.Value})
	}
	data, err := json.Marshal(persisted)
	if err != nil {
		return fmt.Errorf("failed to marshal cookies: %w", err)
	}
	// 0600: the session cookie is a credential.
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write cookie file: %w", err)
	}
	return nil
}

// LoadCookies restores session cookies previously written by SaveCookies.
// A missing file is not an error; the session simply starts anonymous.
func (c *Client) LoadCookies(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read cookie file: %w", err)
	}

	var persisted []persistedCookie
	if err := json.Unmarshal(data, &persisted); err != nil {
		return fmt.Errorf("failed to parse cookie file: %w", err)
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}

	cookies := make([]*http.Cookie, 0, len(persisted))
	for _, pc := range persisted {
		cookies = append(cookies, &http.Cookie{Name: pc.Name, Value: pc.Value})
	}
	c.http.Jar.SetCookies(u, cookies)
	return nil
}

// ClearCookies drops the in-memory session and removes the persisted cookie
// file if one exists.
func (c *Client) ClearCookies(path string) error {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	// Expire every cookie currently held for the backend origin.
	for _, ck := range c.http.Jar.Cookies(u) {
		c.http.Jar.SetCookies(u, []*http.Cookie{{Name: ck.Name, Value: "", MaxAge: -1}})
	}
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove cookie file: %w", err)
	}
	return nil
}
