package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pluqqy/memberdesk/pkg/editing"
	"github.com/pluqqy/memberdesk/pkg/models"
	"github.com/pluqqy/memberdesk/pkg/store"
)

func newTestServer(t *testing.T) (*httptest.Server, store.Store) {
	t.Helper()
	s, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)

	srv := httptest.NewServer(NewServer(s, nil, 2).Router())
	t.Cleanup(srv.Close)
	return srv, s
}

func seedMembers(t *testing.T, s store.Store, n int) []*models.Member {
	t.Helper()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var out []*models.Member
	for i := 0; i < n; i++ {
		m, err := s.Create(context.Background(), &models.Member{
			FirstName: fmt.Sprintf("Member%d", i),
			Email:     fmt.Sprintf("m%d@example.com", i),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
		require.NoError(t, err)
		out = append(out, m)
	}
	return out
}

func do(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := do(t, "GET", srv.URL+"/health", nil)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK\n", string(body))
}

func TestListMembers(t *testing.T) {
	srv, s := newTestServer(t)
	members := seedMembers(t, s, 5)

	tests := []struct {
		name        string
		query       string
		wantIDs     []string
		wantHasMore bool
		wantPage    int
		wantPages   int
	}{
		{"default limit", "", []string{members[0].ID, members[1].ID}, true, 1, 3},
		{"second page", "?offset=2&limit=2", []string{members[2].ID, members[3].ID}, true, 2, 3},
		{"last page", "?offset=4&limit=2", []string{members[4].ID}, false, 3, 3},
		{"bigger limit", "?limit=10", nil, false, 1, 1},
		{"query", "?q=member3", []string{members[3].ID}, false, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, "GET", srv.URL+"/members"+tt.query, nil)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			page := decode[models.MemberPage](t, resp)
			if tt.wantIDs != nil {
				var ids []string
				for _, m := range page.Members {
					ids = append(ids, m.ID)
				}
				assert.Equal(t, tt.wantIDs, ids)
			}
			assert.Equal(t, tt.wantHasMore, page.HasMore)
			assert.Equal(t, tt.wantPage, page.Page)
			assert.Equal(t, tt.wantPages, page.TotalPages)
		})
	}
}

func TestListMembers_BadParams(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, q := range []string{"?offset=-1", "?limit=abc"} {
		resp := do(t, "GET", srv.URL+"/members"+q, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, q)
	}
}

func TestListMembers_EmptyStoreReturnsEmptyArray(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := do(t, "GET", srv.URL+"/members", nil)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `"members":[]`)
}

func TestGetMember(t *testing.T) {
	srv, s := newTestServer(t)
	members := seedMembers(t, s, 1)

	resp := do(t, "GET", srv.URL+"/members/"+members[0].ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[models.Member](t, resp)
	assert.Equal(t, members[0].Email, got.Email)

	resp = do(t, "GET", srv.URL+"/members/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, decode[ErrorResponse](t, resp).Error, "member not found")

	resp = do(t, "GET", srv.URL+"/members/nope", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateMember(t *testing.T) {
	srv, s := newTestServer(t)

	resp := do(t, "POST", srv.URL+"/members", map[string]string{
		"first_name": "Ann",
		"email":      "ann@example.com",
		"password":   "hunter22",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[models.Member](t, resp)
	assert.NotEmpty(t, created.ID)

	stored, err := s.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, store.CheckPassword(stored, "hunter22"))
}

func TestCreateMember_Validation(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := do(t, "POST", srv.URL+"/members", map[string]string{"last_name": "Lee"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decode[ErrorResponse](t, resp)
	assert.Equal(t, "validation failed", body.Error)
	assert.Contains(t, body.Fields, "first_name")
	assert.Contains(t, body.Fields, "email")

	resp = do(t, "POST", srv.URL+"/members", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPatchMember(t *testing.T) {
	srv, s := newTestServer(t)
	members := seedMembers(t, s, 1)
	url := srv.URL + "/members/" + members[0].ID

	resp := do(t, "PATCH", url, map[string]string{"bio": "Gardener"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Gardener", decode[models.Member](t, resp).Bio)

	resp = do(t, "PATCH", url, map[string]string{"email": "not-an-email"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, []string{"Enter a valid email address"}, decode[ErrorResponse](t, resp).Fields["email"])

	resp = do(t, "PATCH", url, map[string]string{"role": "admin"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, "PATCH", srv.URL+"/members/"+uuid.NewString(), map[string]string{"bio": "x"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteMember(t *testing.T) {
	srv, s := newTestServer(t)
	members := seedMembers(t, s, 1)
	url := srv.URL + "/members/" + members[0].ID

	resp := do(t, "DELETE", url, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, "DELETE", url, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCheckPassword(t *testing.T) {
	srv, s := newTestServer(t)
	members := seedMembers(t, s, 1)
	_, err := s.Update(context.Background(), members[0].ID, editing.Values{models.FieldPassword: "hunter22"})
	require.NoError(t, err)
	url := srv.URL + "/members/" + members[0].ID + "/password/check"

	resp := do(t, "POST", url, PasswordCheckRequest{Password: "hunter22"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decode[PasswordCheckResponse](t, resp).Valid)

	resp = do(t, "POST", url, PasswordCheckRequest{Password: "wrong"})
	assert.False(t, decode[PasswordCheckResponse](t, resp).Valid)
}

func TestLogRequests(t *testing.T) {
	s, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)

	var buf bytes.Buffer
	router := NewServer(s, log.New(&buf, "", 0), 20).Router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/members/"+uuid.NewString(), nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.True(t, strings.HasPrefix(buf.String(), "GET /members/"), buf.String())
	assert.Contains(t, buf.String(), " 404 ")
}
