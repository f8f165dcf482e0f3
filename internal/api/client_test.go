package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldeng/clusterdoc/internal/config"
	"github.com/fieldeng/clusterdoc/internal/core"
	"github.com/fieldeng/clusterdoc/internal/logging"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := New(config.APIConfig{
		URL:      srv.URL,
		User:     "admin",
		Password: "secret",
	}, logging.NewNop())
	require.NoError(t, err)
	return client
}

func TestNew_RequiresURL(t *testing.T) {
	_, err := New(config.APIConfig{}, logging.NewNop())

	require.Error(t, err)
	assert.True(t, core.IsCategory(err, core.ErrCatConfig))
}

func TestClient_Get(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/cluster", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "admin", user)
		assert.Equal(t, "secret", pass)

		w.Write([]byte(`{"name": "prod-cluster"}`))
	}))

	doc, err := client.Get(context.Background(), "cluster")
	require.NoError(t, err)

	obj, ok := doc.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "prod-cluster", obj["name"])
}

func TestClient_GetCachesPerTopic(t *testing.T) {
	var hits int64
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.Write([]byte(`[]`))
	}))
	ctx := context.Background()

	_, err := client.Get(ctx, "nodes")
	require.NoError(t, err)
	_, err = client.Get(ctx, "nodes")
	require.NoError(t, err)

	assert.EqualValues(t, 1, atomic.LoadInt64(&hits))

	_, err = client.Get(ctx, "shards")
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt64(&hits))
}

func TestClient_GetUnexpectedStatus(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))

	_, err := client.Get(context.Background(), "license")

	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrAPI(core.CodeAPIStatus, ""))
}

func TestClient_GetDecodeError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json"))
	}))

	_, err := client.Get(context.Background(), "cluster")

	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrAPI(core.CodeAPIDecode, ""))
}

func TestClient_Aggregations(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/nodes", r.URL.Path)
		w.Write([]byte(`[
			{"uid": 1, "cores": 8, "total_memory": 1024},
			{"uid": 2, "cores": 4, "total_memory": 2048},
			{"uid": 3, "cores": 4, "total_memory": 1024}
		]`))
	}))
	ctx := context.Background()

	count, err := client.Count(ctx, "nodes")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	cores, err := client.Sum(ctx, "nodes", "cores")
	require.NoError(t, err)
	assert.Equal(t, 16.0, cores)

	uids, err := client.Values(ctx, "nodes", "uid")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{1.0, 2.0, 3.0}, uids)

	_, err = client.Values(ctx, "nodes", "bogus")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrAPI(core.CodeAPIKey, ""))
}

func TestClient_GetListOnObject(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"name": "x"}`))
	}))

	_, err := client.GetList(context.Background(), "cluster")

	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrAPI(core.CodeAPIDecode, ""))
}

func TestClient_SumNonNumeric(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[{"cores": "eight"}]`))
	}))

	_, err := client.Sum(context.Background(), "nodes", "cores")

	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrAPI(core.CodeAPIDecode, ""))
}
