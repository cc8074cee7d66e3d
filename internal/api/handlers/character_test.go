package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/paimonworks/harem-service/internal/api/handlers"
	"github.com/paimonworks/harem-service/internal/domain"
	"github.com/paimonworks/harem-service/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCharacterEndpoints(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, token := testutil.RegisterBot(t, ts)

	t.Run("create and get", func(t *testing.T) {
		resp := testutil.AuthenticatedRequest(t, http.MethodPost, ts.APIURL("/characters"), token, handlers.CreateCharacterRequest{
			Name:   "Nezuko",
			Anime:  "Demon Slayer",
			Gender: "female",
			Rarity: "epic",
		})
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusCreated)

		var created domain.Character
		testutil.AssertJSONResponse(t, resp, &created)
		assert.Equal(t, "Nezuko", created.Name)
		require.NotEmpty(t, created.ID)

		got := testutil.AuthenticatedRequest(t, http.MethodGet, ts.APIURL("/characters/"+created.ID), token, nil)
		defer got.Body.Close()
		testutil.AssertStatusCode(t, got, http.StatusOK)
	})

	t.Run("get unknown id", func(t *testing.T) {
		resp := testutil.AuthenticatedRequest(t, http.MethodGet, ts.APIURL("/characters/9999"), token, nil)
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusNotFound)
	})

	t.Run("list with filters", func(t *testing.T) {
		testutil.NewCharacterBuilder().WithAnime("One Piece").WithGender(domain.GenderMale).BuildMany(t, ts.Repos.Character, 2)

		resp := testutil.AuthenticatedRequest(t, http.MethodGet, ts.APIURL("/characters/?anime=One%20Piece"), token, nil)
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var byAnime []*domain.Character
		testutil.AssertJSONResponse(t, resp, &byAnime)
		assert.Len(t, byAnime, 2)

		bad := testutil.AuthenticatedRequest(t, http.MethodGet, ts.APIURL("/characters/?rarity=mythic"), token, nil)
		defer bad.Body.Close()
		testutil.AssertStatusCode(t, bad, http.StatusBadRequest)
	})

	t.Run("release clears ownership", func(t *testing.T) {
		character := testutil.NewCharacterBuilder().ClaimedBy("alice").Build(t, ts.Repos.Character)

		resp := testutil.AuthenticatedRequest(t, http.MethodPost, ts.APIURL("/characters/"+character.ID+"/release"), token, nil)
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		got, err := ts.Repos.Character.GetByID(context.Background(), character.ID)
		require.NoError(t, err)
		testutil.AssertAvailable(t, got)
	})

	t.Run("stats", func(t *testing.T) {
		resp := testutil.AuthenticatedRequest(t, http.MethodGet, ts.APIURL("/characters/stats"), token, nil)
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var stats domain.CatalogStats
		testutil.AssertJSONResponse(t, resp, &stats)
		assert.Greater(t, stats.Total, int64(0))
	})

	t.Run("backup and restore", func(t *testing.T) {
		resp := testutil.AuthenticatedRequest(t, http.MethodGet, ts.APIURL("/characters/backup"), token, nil)
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var snapshot domain.SnapshotMap
		testutil.AssertJSONResponse(t, resp, &snapshot)
		require.NotEmpty(t, snapshot)

		restore := testutil.AuthenticatedRequest(t, http.MethodPost, ts.APIURL("/characters/restore"), token, snapshot)
		defer restore.Body.Close()
		testutil.AssertStatusCode(t, restore, http.StatusOK)
	})
}
