package handlers

import (
	"testing"

	"github.com/dimitrije/fitlog/tests/testutil"
	"github.com/google/uuid"
)

func authHeaders(t *testing.T, userID uuid.UUID) map[string]string {
	t.Helper()
	token := testutil.GenerateTestToken(t, userID, "lifter@example.com")
	return map[string]string{"Authorization": testutil.AuthHeader(token)}
}
