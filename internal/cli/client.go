package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bandlife/internal/auth"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) Signup(ctx context.Context, email, password string) (auth.Session, error) {
	var out auth.Session
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/auth/signup", "", map[string]any{
		"email":    email,
		"password": password,
	}, &out, "")
	return out, err
}

func (c *Client) Login(ctx context.Context, email, password string) (auth.Session, error) {
	var out auth.Session
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/auth/login", "", map[string]any{
		"email":    email,
		"password": password,
	}, &out, "")
	return out, err
}

func (c *Client) CurrentGame(ctx context.Context, accessToken string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, "/v1/game", accessToken, nil, &out, "")
	return out, err
}

func (c *Client) StartGame(ctx context.Context, accessToken, name, position, image string, power int) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/game", accessToken, map[string]any{
		"name":     name,
		"position": position,
		"image":    image,
		"power":    power,
	}, &out, "")
	return out, err
}

func (c *Client) Retire(ctx context.Context, accessToken, idem string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/game/retire", accessToken, map[string]any{}, &out, idem)
	return out, err
}

func (c *Client) Work(ctx context.Context, accessToken, idem string) (map[string]any, error) {
	return c.action(ctx, accessToken, "/v1/actions/work", map[string]any{}, idem)
}

func (c *Client) Rest(ctx context.Context, accessToken, idem string) (map[string]any, error) {
	return c.action(ctx, accessToken, "/v1/actions/rest", map[string]any{}, idem)
}

func (c *Client) Practice(ctx context.Context, accessToken, idem string, score int) (map[string]any, error) {
	return c.action(ctx, accessToken, "/v1/actions/practice", map[string]any{"score": score}, idem)
}

func (c *Client) Perform(ctx context.Context, accessToken, venueID, idem string) (map[string]any, error) {
	return c.action(ctx, accessToken, "/v1/actions/perform", map[string]any{"venue": venueID}, idem)
}

func (c *Client) Adventure(ctx context.Context, accessToken, idem string) (map[string]any, error) {
	return c.action(ctx, accessToken, "/v1/actions/adventure", map[string]any{}, idem)
}

func (c *Client) ListVenues(ctx context.Context, accessToken string, all bool) (map[string]any, error) {
	path := "/v1/venues"
	if all {
		path = "/v1/venues?all=1"
	}
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, path, accessToken, nil, &out, "")
	return out, err
}

func (c *Client) ShopOffers(ctx context.Context, accessToken, member string) (map[string]any, error) {
	path := "/v1/shop/offers"
	if member != "" {
		path += "?member=" + url.QueryEscape(member)
	}
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodGet, path, accessToken, nil, &out, "")
	return out, err
}

func (c *Client) Purchase(ctx context.Context, accessToken, member, itemName string, itemPower int, idem string) (map[string]any, error) {
	return c.action(ctx, accessToken, "/v1/shop/purchase", map[string]any{
		"member":     member,
		"item_name":  itemName,
		"item_power": itemPower,
	}, idem)
}

func (c *Client) Repair(ctx context.Context, accessToken, member, idem string) (map[string]any, error) {
	return c.action(ctx, accessToken, "/v1/shop/repair", map[string]any{"member": member}, idem)
}

func (c *Client) LeaveShop(ctx context.Context, accessToken, idem string) (map[string]any, error) {
	return c.action(ctx, accessToken, "/v1/shop/leave", map[string]any{}, idem)
}

func (c *Client) SyncReplay(ctx context.Context, accessToken string, commands []map[string]any) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/sync/replay", accessToken, map[string]any{
		"commands": commands,
	}, &out, "")
	return out, err
}

func (c *Client) action(ctx context.Context, accessToken, path string, body map[string]any, idem string) (map[string]any, error) {
	var out map[string]any
	err := c.jsonRequest(ctx, http.MethodPost, path, accessToken, body, &out, idem)
	return out, err
}

func (c *Client) jsonRequest(ctx context.Context, method, path, accessToken string, in any, out any, idem string) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	if idem != "" {
		req.Header.Set("Idempotency-Key", idem)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("api status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
