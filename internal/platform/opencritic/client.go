package opencritic

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultSearchURL = "https://api.opencritic.com/api/meta/search"
	DefaultGameURL   = "https://api.opencritic.com/api/game/"
)

type Getter interface {
	GetJSON(ctx context.Context, rawURL string, params url.Values, target any) error
}

type Client struct {
	getter    Getter
	searchURL string
	gameURL   string
}

func NewClient(getter Getter, searchURL, gameURL string) *Client {
	if searchURL == "" {
		searchURL = DefaultSearchURL
	}
	if gameURL == "" {
		gameURL = DefaultGameURL
	}
	if !strings.HasSuffix(gameURL, "/") {
		gameURL += "/"
	}
	return &Client{getter: getter, searchURL: searchURL, gameURL: gameURL}
}

// SearchHit matches one element of meta/search. Lower Dist is closer.
type SearchHit struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Dist     float64 `json:"dist"`
	Relation string  `json:"relation"`
}

// Search returns candidates for criteria, best match first.
func (c *Client) Search(ctx context.Context, criteria string) ([]SearchHit, error) {
	var res []SearchHit
	if err := c.getter.GetJSON(ctx, c.searchURL, url.Values{"criteria": {criteria}}, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// Game returns the game/{id} object with its fields left undecoded.
func (c *Client) Game(ctx context.Context, id int) (map[string]json.RawMessage, error) {
	var res map[string]json.RawMessage
	if err := c.getter.GetJSON(ctx, c.gameURL+strconv.Itoa(id), nil, &res); err != nil {
		return nil, err
	}
	return res, nil
}
