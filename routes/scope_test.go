package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ipnlife/clinic_backend/middlewares"
)

func requestContext(t *testing.T, target string, headers map[string]string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range headers {
		c.Request.Header.Set(k, v)
	}
	middlewares.AuthMiddleware()(c)
	return c, w
}

var branchHeaders = map[string]string{"X-Store-ID": "2", "X-Store-Level": "分店"}
var headOfficeHeaders = map[string]string{"X-Store-ID": "1", "X-Store-Level": "總店"}

// A branch token is pinned to its own store: omitting store_id must not widen
// the listing, and naming another store must not switch to it.
func TestScopedStoreIdPinsBranchToken(t *testing.T) {
	c, _ := requestContext(t, "/api/therapy-sell/sales", branchHeaders)
	storeId, ok := scopedStoreId(c)
	if !ok || storeId == nil || *storeId != 2 {
		t.Fatalf("branch token without store_id scoped to %v, want 2", storeId)
	}

	c, _ = requestContext(t, "/api/therapy-sell/sales?store_id=9", branchHeaders)
	storeId, ok = scopedStoreId(c)
	if !ok || storeId == nil || *storeId != 2 {
		t.Fatalf("branch token asking for store 9 scoped to %v, want 2", storeId)
	}
}

func TestScopedStoreIdHeadOfficeSeesAll(t *testing.T) {
	c, _ := requestContext(t, "/api/therapy-sell/sales", headOfficeHeaders)
	storeId, ok := scopedStoreId(c)
	if !ok || storeId != nil {
		t.Fatalf("head office without store_id scoped to %v, want nil", storeId)
	}

	c, _ = requestContext(t, "/api/therapy-sell/sales?store_id=3", headOfficeHeaders)
	storeId, ok = scopedStoreId(c)
	if !ok || storeId == nil || *storeId != 3 {
		t.Fatalf("head office asking for store 3 scoped to %v, want 3", storeId)
	}
}

func TestForbidCrossStore(t *testing.T) {
	otherStore := 3
	ownStore := 2

	c, w := requestContext(t, "/api/therapy/record/7", branchHeaders)
	if !forbidCrossStore(c, &otherStore) {
		t.Fatal("branch token touching another store's row should be rejected")
	}
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusForbidden)
	}

	c, _ = requestContext(t, "/api/therapy/record/7", branchHeaders)
	if forbidCrossStore(c, &ownStore) {
		t.Fatal("branch token touching its own store's row should pass")
	}

	c, _ = requestContext(t, "/api/therapy/record/7", headOfficeHeaders)
	if forbidCrossStore(c, &otherStore) {
		t.Fatal("head office may touch any store's row")
	}
}
