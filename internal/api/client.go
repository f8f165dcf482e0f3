// Package api implements the management REST API client. It is a
// collaborator of the execution core, not part of it: checks read cluster
// topology and configuration through it and correlate that with remote
// command output.
package api

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/fieldeng/clusterdoc/internal/config"
	"github.com/fieldeng/clusterdoc/internal/core"
	"github.com/fieldeng/clusterdoc/internal/logging"
)

const requestTimeout = 30 * time.Second

// Client queries the cluster management API. GET responses are cached per
// path for the process lifetime, mirroring the executor's memoization: a
// diagnostic run reads a consistent snapshot and never hammers the API.
type Client struct {
	baseURL string
	user    string
	pass    string
	http    *http.Client
	logger  *logging.Logger

	mu    sync.Mutex
	cache map[string]interface{}
}

// New creates a client from configuration.
func New(cfg config.APIConfig, logger *logging.Logger) (*Client, error) {
	if cfg.URL == "" {
		return nil, core.ErrConfig(core.CodeInvalidConfig, "api.url is required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	transport := http.DefaultTransport
	if cfg.Insecure {
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		user:    cfg.User,
		pass:    cfg.Password,
		http:    &http.Client{Timeout: requestTimeout, Transport: transport},
		logger:  logger,
		cache:   make(map[string]interface{}),
	}, nil
}

// Get fetches /v1/<topic> and returns the decoded JSON document.
func (c *Client) Get(ctx context.Context, topic string) (interface{}, error) {
	topic = strings.Trim(topic, "/")

	c.mu.Lock()
	cached, ok := c.cache[topic]
	c.mu.Unlock()
	if ok {
		return cached, nil
	}

	url := c.baseURL + "/v1/" + topic
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, core.ErrAPI(core.CodeAPIRequest, "building request").WithCause(err)
	}
	if c.user != "" {
		req.SetBasicAuth(c.user, c.pass)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("api request", "topic", topic)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, core.ErrAPI(core.CodeAPIRequest, "requesting "+topic).WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, core.ErrAPI(core.CodeAPIStatus,
			fmt.Sprintf("%s returned %d", topic, resp.StatusCode)).
			WithDetail("status", resp.StatusCode)
	}

	var doc interface{}
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, core.ErrAPI(core.CodeAPIDecode, "decoding "+topic).WithCause(err)
	}

	c.mu.Lock()
	c.cache[topic] = doc
	c.mu.Unlock()

	return doc, nil
}

// GetList fetches a topic that yields a JSON array.
func (c *Client) GetList(ctx context.Context, topic string) ([]interface{}, error) {
	doc, err := c.Get(ctx, topic)
	if err != nil {
		return nil, err
	}
	list, ok := doc.([]interface{})
	if !ok {
		return nil, core.ErrAPI(core.CodeAPIDecode, topic+" is not a list")
	}
	return list, nil
}

// Count returns the number of elements a list topic yields.
func (c *Client) Count(ctx context.Context, topic string) (int, error) {
	list, err := c.GetList(ctx, topic)
	if err != nil {
		return 0, err
	}
	return len(list), nil
}

// Values returns the value of key in each element of a list topic.
func (c *Client) Values(ctx context.Context, topic, key string) ([]interface{}, error) {
	list, err := c.GetList(ctx, topic)
	if err != nil {
		return nil, err
	}

	values := make([]interface{}, 0, len(list))
	for _, item := range list {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, core.ErrAPI(core.CodeAPIDecode, topic+" element is not an object")
		}
		v, ok := obj[key]
		if !ok {
			return nil, core.ErrAPI(core.CodeAPIKey, key+" missing in "+topic)
		}
		values = append(values, v)
	}
	return values, nil
}

// Sum adds up a numeric key across all elements of a list topic.
func (c *Client) Sum(ctx context.Context, topic, key string) (float64, error) {
	values, err := c.Values(ctx, topic, key)
	if err != nil {
		return 0, err
	}

	var sum float64
	for _, v := range values {
		n, ok := v.(float64)
		if !ok {
			return 0, core.ErrAPI(core.CodeAPIDecode,
				fmt.Sprintf("%s.%s is not numeric", topic, key))
		}
		sum += n
	}
	return sum, nil
}
