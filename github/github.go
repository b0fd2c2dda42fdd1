// Package github proxies the public GitHub repository listing shown on
// profiles. It is an external collaborator: failures never surface as
// anything worse than "no profile found".
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"devlink/cache"
)

// ErrNoProfile covers every upstream failure mode the caller can act on:
// unknown user, rate limiting, upstream errors.
var ErrNoProfile = errors.New("no github profile found")

const (
	defaultBaseURL = "https://api.github.com"
	reposPerPage   = 5
	cacheTTL       = 10 * time.Minute
)

type Client struct {
	httpc        *http.Client
	baseURL      string
	clientID     string
	clientSecret string
	cache        cache.Cache
	log          *logrus.Logger
}

// New builds a client. cache may be nil, in which case every request goes
// upstream.
func New(clientID, clientSecret string, c cache.Cache, log *logrus.Logger) *Client {
	return &Client{
		httpc:        &http.Client{Timeout: 10 * time.Second},
		baseURL:      defaultBaseURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		cache:        c,
		log:          log,
	}
}

// Repos fetches the user's five most recently created repositories and
// returns the upstream JSON verbatim.
func (c *Client) Repos(ctx context.Context, username string) (json.RawMessage, error) {
	key := "github:repos:" + username

	if c.cache != nil {
		var cached json.RawMessage
		hit, err := c.cache.Get(ctx, key, &cached)
		if err != nil {
			c.log.WithError(err).Warn("github cache read failed")
		} else if hit {
			return cached, nil
		}
	}

	q := url.Values{}
	q.Set("per_page", fmt.Sprintf("%d", reposPerPage))
	q.Set("sort", "created:asc")
	if c.clientID != "" {
		q.Set("client_id", c.clientID)
		q.Set("client_secret", c.clientSecret)
	}

	endpoint := fmt.Sprintf("%s/users/%s/repos?%s", c.baseURL, url.PathEscape(username), q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "devlink")
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.WithFields(logrus.Fields{"username": username, "status": resp.StatusCode}).Info("github lookup failed")
		return nil, ErrNoProfile
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, ErrNoProfile
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, json.RawMessage(body), cacheTTL); err != nil {
			c.log.WithError(err).Warn("github cache write failed")
		}
	}
	return body, nil
}
