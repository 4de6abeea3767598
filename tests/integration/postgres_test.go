package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rawResult struct {
	code int
	body []byte
}

// parallel fires n copies of a request at once. It avoids require so it is
// safe to use from the worker goroutines.
func (h *apiHarness) parallel(u apiUser, n int, method, path string, body func(i int) any) []rawResult {
	results := make([]rawResult, n)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var buf bytes.Buffer
			if body != nil {
				_ = json.NewEncoder(&buf).Encode(body(i))
			}
			req := httptest.NewRequest(method, "/api/v1"+path, &buf)
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+u.Token)
			<-start
			w := httptest.NewRecorder()
			h.engine.ServeHTTP(w, req)
			results[i] = rawResult{code: w.Code, body: w.Body.Bytes()}
		}(i)
	}
	close(start)
	wg.Wait()
	return results
}

func TestPostgres_ConcurrentCodesAreUniqueAndSequential(t *testing.T) {
	h := newAPIHarness(t, NewPostgresDB(t))
	owner := h.newUser()
	company := h.registerCompany(owner, "Parallel Goods")

	const n = 10
	results := h.parallel(owner, n, http.MethodPost, "/"+company.Slug+"/customers", func(i int) any {
		return map[string]any{"name": fmt.Sprintf("Customer %d", i), "customer_type": "INDIVIDUAL"}
	})

	codes := make(map[string]bool, n)
	for _, r := range results {
		require.Equal(t, http.StatusCreated, r.code, "%s", r.body)
		var env struct {
			Data partyData `json:"data"`
		}
		require.NoError(t, json.Unmarshal(r.body, &env))
		codes[env.Data.Code] = true
	}

	require.Len(t, codes, n)
	for i := 1; i <= n; i++ {
		assert.True(t, codes[fmt.Sprintf("CUST-%03d", i)], "missing CUST-%03d", i)
	}
}

func TestPostgres_ConcurrentTransitionsHaveOneWinner(t *testing.T) {
	h := newAPIHarness(t, NewPostgresDB(t))
	owner := h.newUser()
	company := h.registerCompany(owner, "Race Works")
	customer := decode[partyData](t, h.createCustomer(owner, company.Slug, "Buyer"))

	r := h.do(&owner, http.MethodPost, "/"+company.Slug+"/invoices", map[string]any{
		"customer_id": customer.ID,
		"lines":       lines([2]string{"1", "50"}),
	})
	require.Equal(t, http.StatusCreated, r.Code, "%s", r.Raw)
	invoice := decode[documentData](t, r)

	const n = 6
	results := h.parallel(owner, n, http.MethodPatch,
		"/"+company.Slug+"/invoices/"+invoice.ID.String()+"/status",
		func(int) any { return map[string]any{"status": "SENT"} })

	won := 0
	for _, res := range results {
		switch res.code {
		case http.StatusOK:
			won++
		case http.StatusConflict:
		default:
			t.Errorf("unexpected status %d: %s", res.code, res.body)
		}
	}
	assert.Equal(t, 1, won)

	r = h.do(&owner, http.MethodGet, "/"+company.Slug+"/invoices/"+invoice.ID.String()+"/transitions", nil)
	require.Equal(t, http.StatusOK, r.Code)
	transitions := decode[[]map[string]any](t, r)
	assert.Len(t, transitions, 1)
}

func TestPostgres_ConcurrentPaymentsNeverOverpay(t *testing.T) {
	h := newAPIHarness(t, NewPostgresDB(t))
	owner := h.newUser()
	company := h.registerCompany(owner, "Cash Flow Ltd")
	customer := decode[partyData](t, h.createCustomer(owner, company.Slug, "Payer"))

	base := "/" + company.Slug + "/invoices"
	r := h.do(&owner, http.MethodPost, base, map[string]any{
		"customer_id": customer.ID,
		"lines":       lines([2]string{"1", "100"}),
	})
	require.Equal(t, http.StatusCreated, r.Code, "%s", r.Raw)
	invoice := decode[documentData](t, r)
	r = h.do(&owner, http.MethodPatch, base+"/"+invoice.ID.String()+"/status", map[string]any{"status": "SENT"})
	require.Equal(t, http.StatusOK, r.Code, "%s", r.Raw)

	// Five payments of 30 against a total of 100: three fit.
	results := h.parallel(owner, 5, http.MethodPost, base+"/"+invoice.ID.String()+"/payments",
		func(int) any { return map[string]any{"amount": "30", "method": "BANK_TRANSFER"} })

	accepted := 0
	for _, res := range results {
		if res.code == http.StatusCreated {
			accepted++
		}
	}
	assert.Equal(t, 3, accepted)

	r = h.do(&owner, http.MethodGet, base+"/"+invoice.ID.String(), nil)
	require.Equal(t, http.StatusOK, r.Code)
	got := decode[documentData](t, r)
	assertMoney(t, "90", got.AmountPaid)
	assertMoney(t, "10", got.BalanceDue)
	assert.Equal(t, "PARTIALLY_PAID", got.Status)
}
