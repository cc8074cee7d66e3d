package handlers_test

import (
	"net/http"
	"testing"

	"github.com/paimonworks/harem-service/internal/api/handlers"
	"github.com/paimonworks/harem-service/internal/domain"
	"github.com/paimonworks/harem-service/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRollAndClaimFlow(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, token := testutil.RegisterBot(t, ts)

	testutil.NewCharacterBuilder().BuildMany(t, ts.Repos.Character, 8)

	// Open a roll.
	resp := testutil.AuthenticatedRequest(t, http.MethodPost, ts.APIURL("/rolls"), token, handlers.RollRequest{
		GuildID: "guild1",
		UserID:  "alice",
	})
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var roll handlers.RollResponse
	testutil.AssertJSONResponse(t, resp, &roll)
	require.NotNil(t, roll.Session)
	require.NotEmpty(t, roll.Session.Slots)
	assert.Equal(t, domain.RollSessionOpen, roll.Session.Status)

	sessionID := roll.Session.ID.String()

	// Fetch the open session.
	getResp := testutil.AuthenticatedRequest(t, http.MethodGet, ts.APIURL("/rolls/"+sessionID), token, nil)
	defer getResp.Body.Close()
	testutil.AssertStatusCode(t, getResp, http.StatusOK)

	// Claim the first slot.
	claimResp := testutil.AuthenticatedRequest(t, http.MethodPost, ts.APIURL("/rolls/"+sessionID+"/claim"), token, handlers.ClaimRequest{
		UserID: "bob",
		Symbol: roll.Session.Slots[0].Symbol,
	})
	defer claimResp.Body.Close()
	testutil.AssertStatusCode(t, claimResp, http.StatusOK)

	var claim handlers.ClaimResponse
	testutil.AssertJSONResponse(t, claimResp, &claim)
	testutil.AssertClaimedBy(t, claim.Character, "bob")
	assert.Equal(t, domain.RollSessionClosed, claim.Session.Status)

	// The session is closed; a second claim conflicts.
	again := testutil.AuthenticatedRequest(t, http.MethodPost, ts.APIURL("/rolls/"+sessionID+"/claim"), token, handlers.ClaimRequest{
		UserID: "carol",
		Symbol: roll.Session.Slots[0].Symbol,
	})
	defer again.Body.Close()
	testutil.AssertStatusCode(t, again, http.StatusConflict)

	// The roller is on cooldown now.
	cdResp := testutil.AuthenticatedRequest(t, http.MethodPost, ts.APIURL("/rolls"), token, handlers.RollRequest{
		GuildID: "guild1",
		UserID:  "alice",
	})
	defer cdResp.Body.Close()
	testutil.AssertStatusCode(t, cdResp, http.StatusTooManyRequests)
}

func TestRollValidation(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, token := testutil.RegisterBot(t, ts)

	// Missing guild and user.
	resp := testutil.AuthenticatedRequest(t, http.MethodPost, ts.APIURL("/rolls"), token, handlers.RollRequest{})
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusBadRequest)

	// Bad gender value.
	resp2 := testutil.AuthenticatedRequest(t, http.MethodPost, ts.APIURL("/rolls"), token, map[string]string{
		"guildId": "guild1",
		"userId":  "alice",
		"gender":  "robot",
	})
	defer resp2.Body.Close()
	testutil.AssertStatusCode(t, resp2, http.StatusBadRequest)

	// Unknown session.
	resp3 := testutil.AuthenticatedRequest(t, http.MethodGet, ts.APIURL("/rolls/not-a-uuid"), token, nil)
	defer resp3.Body.Close()
	testutil.AssertStatusCode(t, resp3, http.StatusBadRequest)
}
