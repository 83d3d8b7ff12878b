// Package hiscores fetches a player's skill levels from the public hiscores.
package hiscores

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/udisondev/dpscalc/internal/model"
)

var (
	// ErrPlayerNotFound is returned when the hiscores answer 404 for a name.
	ErrPlayerNotFound = errors.New("player not found on hiscores")
	// ErrEmptyUsername is returned before any request for a blank name.
	ErrEmptyUsername = errors.New("username is empty")
)

// maxBody caps the response size; the real CSV is well under 2 KiB.
const maxBody = 64 << 10

// Client queries the index_lite endpoint.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// NewClient returns a client with a bounded request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// Levels maps skills to base levels. Unranked skills are level 1.
type Levels map[model.Skill]int

// Apply writes the levels onto c. Hitpoints also resets current and max HP.
func (l Levels) Apply(c *model.Combatant) {
	for _, skill := range model.HiscoreSkillOrder {
		if lvl, ok := l[skill]; ok {
			c.SetLevel(skill, lvl)
		}
	}
}

// Fetch returns the levels of username.
func (c *Client) Fetch(ctx context.Context, username string) (Levels, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrEmptyUsername
	}

	u := c.BaseURL + "/index_lite.ws?player=" + url.QueryEscape(username)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching hiscores for %q: %w", username, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%q: %w", username, ErrPlayerNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("fetching hiscores for %q: unexpected status %s", username, resp.Status)
	}

	return Parse(io.LimitReader(resp.Body, maxBody))
}

// Parse reads the CSV body: one "rank,level,xp" line per skill in
// model.HiscoreSkillOrder. Extra lines (activities, bosses) are ignored.
func Parse(r io.Reader) (Levels, error) {
	levels := make(Levels, len(model.HiscoreSkillOrder))
	sc := bufio.NewScanner(r)
	for i := 0; i < len(model.HiscoreSkillOrder) && sc.Scan(); i++ {
		parts := strings.Split(strings.TrimSpace(sc.Text()), ",")
		if len(parts) < 2 {
			return nil, fmt.Errorf("line %d: expected rank,level,xp, got %q", i+1, sc.Text())
		}
		lvl, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: level %q: %w", i+1, parts[1], err)
		}
		if lvl < 1 {
			lvl = 1
		}
		levels[model.HiscoreSkillOrder[i]] = lvl
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading hiscores: %w", err)
	}
	if len(levels) == 0 {
		return nil, errors.New("hiscores response is empty")
	}
	return levels, nil
}
