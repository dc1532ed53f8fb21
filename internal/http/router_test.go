package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cofferapp/coffer/internal/http/account"
	"github.com/cofferapp/coffer/internal/http/auth"
	"github.com/cofferapp/coffer/internal/http/category"
	exportHandler "github.com/cofferapp/coffer/internal/http/export"
	"github.com/cofferapp/coffer/internal/http/importcsv"
	"github.com/cofferapp/coffer/internal/http/report"
	sessionHandler "github.com/cofferapp/coffer/internal/http/session"
	"github.com/cofferapp/coffer/internal/http/transaction"
	"github.com/cofferapp/coffer/internal/importer"
	"github.com/cofferapp/coffer/internal/vault"

	cofferHttp "github.com/cofferapp/coffer/internal/http"
)

type memTransport struct {
	mu   sync.Mutex
	data []byte
}

func (m *memTransport) Load(context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.data == nil {
		return nil, vault.ErrNoVault
	}

	return m.data, nil
}

func (m *memTransport) Store(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data = append([]byte(nil), data...)

	return nil
}

func (m *memTransport) Delete(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data = nil

	return nil
}

func newTestServer(t *testing.T) (*httptest.Server, *vault.Session) {
	t.Helper()

	session := vault.NewSession(&memTransport{})
	issuer := auth.NewIssuer([]byte("test-secret"), time.Hour)

	router := cofferHttp.New(
		session,
		issuer,
		sessionHandler.NewHandler(session, issuer),
		account.NewHandler(session),
		category.NewHandler(session),
		transaction.NewHandler(session),
		importcsv.NewHandler(session, importer.NewService()),
		exportHandler.NewHandler(session),
		report.NewHandler(session),
	)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return srv, session
}

func postJSON(t *testing.T, url, token, body string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, url, strings.NewReader(body))
	require.NoError(t, err)

	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	return resp
}

func getJSON(t *testing.T, url, token string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()

	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestRouter_SetupUnlockFlow(t *testing.T) {
	srv, _ := newTestServer(t)

	// Fresh server: not initialized, locked.
	var status struct {
		Initialized bool `json:"initialized"`
		Unlocked    bool `json:"unlocked"`
	}

	resp := getJSON(t, srv.URL+"/api/v1/session/status", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &status)
	assert.False(t, status.Initialized)

	// Weak password is rejected.
	resp = postJSON(t, srv.URL+"/api/v1/session/setup", "", `{"password":"short"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Setup returns a usable token.
	var tok struct {
		Token string `json:"token"`
	}

	resp = postJSON(t, srv.URL+"/api/v1/session/setup", "", `{"password":"hunter22"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decodeBody(t, resp, &tok)
	require.NotEmpty(t, tok.Token)

	// Second setup conflicts.
	resp = postJSON(t, srv.URL+"/api/v1/session/setup", "", `{"password":"hunter22"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// The token opens the authed surface.
	var accounts struct {
		Accounts []struct {
			ID      string `json:"id"`
			Name    string `json:"name"`
			Balance int64  `json:"balance"`
		} `json:"accounts"`
	}

	resp = getJSON(t, srv.URL+"/api/v1/accounts", tok.Token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &accounts)
	require.Len(t, accounts.Accounts, 2)
}

func TestRouter_TransactionLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)

	var tok struct {
		Token string `json:"token"`
	}

	resp := postJSON(t, srv.URL+"/api/v1/session/setup", "", `{"password":"hunter22"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decodeBody(t, resp, &tok)

	var accounts struct {
		Accounts []struct {
			ID string `json:"id"`
		} `json:"accounts"`
	}

	resp = getJSON(t, srv.URL+"/api/v1/accounts", tok.Token)
	decodeBody(t, resp, &accounts)

	var categories struct {
		Categories []struct {
			ID   string `json:"id"`
			Type string `json:"type"`
		} `json:"categories"`
	}

	resp = getJSON(t, srv.URL+"/api/v1/categories", tok.Token)
	decodeBody(t, resp, &categories)

	var expenseCat string

	for _, c := range categories.Categories {
		if c.Type == "expense" {
			expenseCat = c.ID
			break
		}
	}

	require.NotEmpty(t, expenseCat)

	body, _ := json.Marshal(map[string]any{
		"type":       "expense",
		"date":       "2024-03-15",
		"accountId":  accounts.Accounts[0].ID,
		"amount":     4200,
		"categoryId": expenseCat,
		"note":       "lunch",
	})

	var created struct {
		ID string `json:"id"`
	}

	resp = postJSON(t, srv.URL+"/api/v1/transactions", tok.Token, string(body))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decodeBody(t, resp, &created)
	require.NotEmpty(t, created.ID)

	// Missing category is a validation error.
	bad, _ := json.Marshal(map[string]any{
		"type":      "expense",
		"date":      "2024-03-15",
		"accountId": accounts.Accounts[0].ID,
		"amount":    100,
	})

	resp = postJSON(t, srv.URL+"/api/v1/transactions", tok.Token, string(bad))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Deleting the referenced category conflicts.
	req, err := http.NewRequest(http.MethodDelete,
		srv.URL+"/api/v1/categories/"+expenseCat, nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+tok.Token)

	delResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, delResp.StatusCode)
	delResp.Body.Close()

	// The balance reflects the expense.
	var balance struct {
		Total int64 `json:"total"`
	}

	resp = getJSON(t, srv.URL+"/api/v1/reports/balance", tok.Token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &balance)
	assert.Equal(t, int64(-4200), balance.Total)

	// The recent feed lists the new transaction first.
	var recent struct {
		Transactions []struct {
			ID   string `json:"id"`
			Note string `json:"note"`
		} `json:"transactions"`
	}

	resp = getJSON(t, srv.URL+"/api/v1/reports/recent?limit=5", tok.Token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &recent)
	require.Len(t, recent.Transactions, 1)
	assert.Equal(t, created.ID, recent.Transactions[0].ID)
	assert.Equal(t, "lunch", recent.Transactions[0].Note)

	// Export carries the payload plus a stamp.
	resp = getJSON(t, srv.URL+"/api/v1/export", tok.Token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "financial-data-")

	var backup map[string]json.RawMessage

	decodeBody(t, resp, &backup)
	assert.Contains(t, backup, "exportDate")
	assert.Contains(t, backup, "transactions")
}

func TestRouter_LockInvalidatesTokens(t *testing.T) {
	srv, session := newTestServer(t)

	var tok struct {
		Token string `json:"token"`
	}

	resp := postJSON(t, srv.URL+"/api/v1/session/setup", "", `{"password":"hunter22"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decodeBody(t, resp, &tok)

	oldToken := tok.Token

	resp = postJSON(t, srv.URL+"/api/v1/session/lock", "", `{}`)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	require.False(t, session.Unlocked())

	// The old token no longer works.
	resp = getJSON(t, srv.URL+"/api/v1/accounts", tok.Token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Wrong password on unlock is a 401; the right one issues a new token.
	resp = postJSON(t, srv.URL+"/api/v1/session/unlock", "", `{"password":"wrong-password"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/api/v1/session/unlock", "", `{"password":"hunter22"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &tok)

	resp = getJSON(t, srv.URL+"/api/v1/accounts", tok.Token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// A token from the previous epoch stays dead even while unlocked.
	resp = getJSON(t, srv.URL+"/api/v1/accounts", oldToken)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func newMultipart(t *testing.T, buf *bytes.Buffer, filename, content string) string {
	t.Helper()

	mw := multipart.NewWriter(buf)

	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)

	_, err = io.WriteString(part, content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return mw.FormDataContentType()
}

func TestRouter_ImportFlow(t *testing.T) {
	srv, _ := newTestServer(t)

	var tok struct {
		Token string `json:"token"`
	}

	resp := postJSON(t, srv.URL+"/api/v1/session/setup", "", `{"password":"hunter22"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	decodeBody(t, resp, &tok)

	var form bytes.Buffer

	mw := newMultipart(t, &form, "statement.csv",
		"2024-03-15,coffee,-3.20\n2024-03-16,salary,2500.00\n")

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/import", &form)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw)
	req.Header.Set("Authorization", "Bearer "+tok.Token)

	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var preview struct {
		Rows []json.RawMessage `json:"rows"`
	}

	decodeBody(t, resp, &preview)
	require.Len(t, preview.Rows, 2)

	confirm, _ := json.Marshal(map[string]any{"rows": []json.RawMessage{preview.Rows[0], preview.Rows[1]}})

	resp = postJSON(t, srv.URL+"/api/v1/import/confirm", tok.Token, string(confirm))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var result struct {
		Imported int `json:"imported"`
	}

	decodeBody(t, resp, &result)
	assert.Equal(t, 2, result.Imported)
}
