package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/paimonworks/harem-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatusCode verifies the HTTP response status code
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	assert.Equal(t, expected, resp.StatusCode, "unexpected status code")
}

// AssertJSONResponse decodes JSON response into v and verifies success
func AssertJSONResponse(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	err = json.Unmarshal(body, v)
	require.NoError(t, err, "failed to unmarshal response: %s", string(body))
}

// AssertErrorResponse verifies error response with expected status and message
func AssertErrorResponse(t *testing.T, resp *http.Response, expectedStatus int, expectedMessage string) {
	t.Helper()

	assert.Equal(t, expectedStatus, resp.StatusCode, "unexpected status code")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	// Error responses are plain text in this API
	assert.Contains(t, string(body), expectedMessage, "error message mismatch")
}

// AssertClaimedBy verifies a character is claimed by the given user
func AssertClaimedBy(t *testing.T, character *domain.Character, userID string) {
	t.Helper()
	require.NotNil(t, character.ClaimedBy, "character %s should be claimed", character.ID)
	assert.Equal(t, userID, *character.ClaimedBy, "character %s claimed by wrong user", character.ID)
}

// AssertAvailable verifies a character is neither claimed nor married
func AssertAvailable(t *testing.T, character *domain.Character) {
	t.Helper()
	assert.Nil(t, character.ClaimedBy, "character %s should not be claimed", character.ID)
	assert.Nil(t, character.MarriedTo, "character %s should not be married", character.ID)
}
