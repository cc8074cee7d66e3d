package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/paimonworks/harem-service/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthEndpoints(t *testing.T) {
	ts := testutil.NewTestServer(t)

	t.Run("register and login", func(t *testing.T) {
		body, _ := json.Marshal(map[string]string{
			"name":   "my-bot",
			"apiKey": "secret-key",
		})
		resp, err := http.Post(ts.APIURL("/auth/register"), "application/json", bytes.NewBuffer(body))
		require.NoError(t, err)
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var reg testutil.BotAuthResponse
		testutil.AssertJSONResponse(t, resp, &reg)
		assert.Equal(t, "my-bot", reg.Bot.Name)
		assert.NotEmpty(t, reg.AccessToken)

		// Same name registers once.
		resp2, err := http.Post(ts.APIURL("/auth/register"), "application/json", bytes.NewBuffer(body))
		require.NoError(t, err)
		defer resp2.Body.Close()
		testutil.AssertStatusCode(t, resp2, http.StatusConflict)

		// Login with the right key works.
		resp3, err := http.Post(ts.APIURL("/auth/login"), "application/json", bytes.NewBuffer(body))
		require.NoError(t, err)
		defer resp3.Body.Close()
		testutil.AssertStatusCode(t, resp3, http.StatusOK)

		// Wrong key is rejected.
		badBody, _ := json.Marshal(map[string]string{
			"name":   "my-bot",
			"apiKey": "wrong-key",
		})
		resp4, err := http.Post(ts.APIURL("/auth/login"), "application/json", bytes.NewBuffer(badBody))
		require.NoError(t, err)
		defer resp4.Body.Close()
		testutil.AssertStatusCode(t, resp4, http.StatusUnauthorized)
	})

	t.Run("me requires a token", func(t *testing.T) {
		resp, err := http.Get(ts.APIURL("/auth/me"))
		require.NoError(t, err)
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusUnauthorized)

		_, token := testutil.RegisterBot(t, ts)
		resp2 := testutil.AuthenticatedRequest(t, http.MethodGet, ts.APIURL("/auth/me"), token, nil)
		defer resp2.Body.Close()
		testutil.AssertStatusCode(t, resp2, http.StatusOK)
	})

	t.Run("protected routes reject anonymous calls", func(t *testing.T) {
		resp, err := http.Get(ts.APIURL("/characters/"))
		require.NoError(t, err)
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusUnauthorized)
	})
}
