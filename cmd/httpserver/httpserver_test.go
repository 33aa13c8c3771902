package httpserver_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/cmd/httpserver"
	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/configpkg"
	"github.com/go-petr/pet-ledger/pkg/randompkg"
)

type response[T any] struct {
	Data  T      `json:"data"`
	Error string `json:"error"`
}

type accountData struct {
	Account domain.AccountSnapshot `json:"account"`
}

type transferData struct {
	Transfer domain.TransferResult `json:"transfer"`
}

type transactionsData struct {
	Transactions []domain.Transaction `json:"transactions"`
}

var (
	equateDecimal  = cmp.Comparer(func(x, y decimal.Decimal) bool { return x.Equal(y) })
	ignoreVolatile = cmpopts.IgnoreFields(domain.AccountSnapshot{}, "ID", "CreatedAt")
	ignoreTime     = cmpopts.IgnoreFields(domain.Transaction{}, "RecordedAt")
)

func setupServer(t *testing.T) *httpserver.Server {
	t.Helper()

	gin.SetMode(gin.ReleaseMode)

	server, err := httpserver.New(zerolog.Nop(), configpkg.Config{ShutdownTimeout: time.Second})
	if err != nil {
		t.Fatalf("httpserver.New returned error: %v", err)
	}

	return server
}

func do[T any](t *testing.T, server http.Handler, method, url string, body any) (int, response[T]) {
	t.Helper()

	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json.Marshal(%v) returned error: %v", body, err)
		}

		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("http.NewRequest returned error: %v", err)
	}

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)

	var res response[T]
	if err := json.Unmarshal(recorder.Body.Bytes(), &res); err != nil {
		t.Fatalf("json.Unmarshal(%s) returned error: %v", recorder.Body.String(), err)
	}

	return recorder.Code, res
}

func openAccount(t *testing.T, server http.Handler, owner, balance string) domain.AccountSnapshot {
	t.Helper()

	code, res := do[accountData](t, server, http.MethodPost, "/accounts", gin.H{
		"owner":           owner,
		"initial_balance": balance,
	})
	if code != http.StatusCreated {
		t.Fatalf("POST /accounts status=%d error=%q", code, res.Error)
	}

	return res.Data.Account
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAccountLifecycle(t *testing.T) {
	server := setupServer(t)
	owner := randompkg.Owner()

	acc := openAccount(t, server, owner, "1000.00")

	want := domain.AccountSnapshot{Owner: owner, Balance: dec("1000.00"), Active: true}
	if diff := cmp.Diff(want, acc, ignoreVolatile, equateDecimal); diff != "" {
		t.Errorf("created account mismatch (-want +got):\n%s", diff)
	}

	if acc.CreatedAt.IsZero() || acc.ID == "" {
		t.Errorf("created account = %+v, want id and created_at", acc)
	}

	base := "/accounts/" + acc.ID

	code, dep := do[struct {
		Result domain.OperationResult `json:"result"`
	}](t, server, http.MethodPost, base+"/deposits", gin.H{"amount": "500.00"})
	if code != http.StatusOK {
		t.Fatalf("deposit status=%d error=%q", code, dep.Error)
	}

	wantTx := domain.Transaction{Kind: domain.KindDeposit, Amount: dec("500"), BalanceAfter: dec("1500")}
	if diff := cmp.Diff(wantTx, dep.Data.Result.Transaction, ignoreTime, equateDecimal); diff != "" {
		t.Errorf("deposit transaction mismatch (-want +got):\n%s", diff)
	}

	code, res := do[accountData](t, server, http.MethodPost, base+"/deposits", gin.H{"amount": "-100.00"})
	if code != http.StatusBadRequest || res.Error != "deposit: amount must be positive" {
		t.Errorf("negative deposit status=%d error=%q", code, res.Error)
	}

	code, res = do[accountData](t, server, http.MethodPost, base+"/withdrawals", gin.H{"amount": "2000"})
	if code != http.StatusConflict || res.Error != "withdraw: insufficient balance" {
		t.Errorf("overdraft status=%d error=%q", code, res.Error)
	}

	code, res = do[accountData](t, server, http.MethodPost, base+"/deactivate", nil)
	if code != http.StatusOK || res.Data.Account.Active {
		t.Errorf("deactivate status=%d account=%+v", code, res.Data.Account)
	}

	code, res = do[accountData](t, server, http.MethodPost, base+"/withdrawals", gin.H{"amount": "1"})
	if code != http.StatusConflict || res.Error != "withdraw: account is not active" {
		t.Errorf("withdraw from inactive status=%d error=%q", code, res.Error)
	}

	code, res = do[accountData](t, server, http.MethodGet, base, nil)
	if code != http.StatusOK {
		t.Fatalf("get status=%d error=%q", code, res.Error)
	}

	want = domain.AccountSnapshot{Owner: owner, Balance: dec("1500"), Active: false, TransactionCount: 1}
	if diff := cmp.Diff(want, res.Data.Account, ignoreVolatile, equateDecimal); diff != "" {
		t.Errorf("final account mismatch (-want +got):\n%s", diff)
	}

	code, txs := do[transactionsData](t, server, http.MethodGet, base+"/transactions?page_id=1&page_size=10", nil)
	if code != http.StatusOK {
		t.Fatalf("transactions status=%d error=%q", code, txs.Error)
	}

	if diff := cmp.Diff([]domain.Transaction{wantTx}, txs.Data.Transactions, ignoreTime, equateDecimal); diff != "" {
		t.Errorf("ledger mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateTransferAPI(t *testing.T) {
	server := setupServer(t)

	account1 := openAccount(t, server, randompkg.Owner(), "1000.00")
	account2 := openAccount(t, server, randompkg.Owner(), "500.00")
	account3 := openAccount(t, server, randompkg.Owner(), "0")

	code, res := do[accountData](t, server, http.MethodPost, "/accounts/"+account3.ID+"/deactivate", nil)
	if code != http.StatusOK {
		t.Fatalf("deactivate status=%d error=%q", code, res.Error)
	}

	testCases := []struct {
		name           string
		body           gin.H
		wantStatusCode int
		wantError      string
	}{
		{
			name:           "Same account",
			body:           gin.H{"from_account_id": account1.ID, "to_account_id": account1.ID, "amount": "1"},
			wantStatusCode: http.StatusBadRequest,
			wantError:      domain.ErrSameAccount.Error(),
		},
		{
			name:           "Unknown account",
			body:           gin.H{"from_account_id": account1.ID, "to_account_id": "missing", "amount": "1"},
			wantStatusCode: http.StatusNotFound,
			wantError:      domain.ErrAccountNotFound.Error(),
		},
		{
			name:           "Inactive target",
			body:           gin.H{"from_account_id": account1.ID, "to_account_id": account3.ID, "amount": "1"},
			wantStatusCode: http.StatusConflict,
			wantError:      "transfer: account is not active",
		},
		{
			name:           "Insufficient balance",
			body:           gin.H{"from_account_id": account2.ID, "to_account_id": account1.ID, "amount": "500.01"},
			wantStatusCode: http.StatusConflict,
			wantError:      "transfer: insufficient balance",
		},
		{
			name:           "Zero amount",
			body:           gin.H{"from_account_id": account1.ID, "to_account_id": account2.ID, "amount": "0"},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "transfer: amount must be positive",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			code, res := do[transferData](t, server, http.MethodPost, "/transfers", tc.body)
			if code != tc.wantStatusCode {
				t.Errorf("status=%d, want %d", code, tc.wantStatusCode)
			}

			if res.Error != tc.wantError {
				t.Errorf("error=%q, want %q", res.Error, tc.wantError)
			}
		})
	}

	t.Run("OK", func(t *testing.T) {
		code, res := do[transferData](t, server, http.MethodPost, "/transfers", gin.H{
			"from_account_id": account1.ID,
			"to_account_id":   account2.ID,
			"amount":          "200.00",
		})
		if code != http.StatusOK {
			t.Fatalf("status=%d error=%q", code, res.Error)
		}

		want := domain.TransferResult{
			FromAccount: domain.AccountSnapshot{
				ID: account1.ID, Owner: account1.Owner, Balance: dec("800"), Active: true, TransactionCount: 1,
			},
			ToAccount: domain.AccountSnapshot{
				ID: account2.ID, Owner: account2.Owner, Balance: dec("700"), Active: true, TransactionCount: 1,
			},
			FromEntry: domain.Transaction{Kind: domain.KindWithdrawal, Amount: dec("200"), BalanceAfter: dec("800")},
			ToEntry:   domain.Transaction{Kind: domain.KindDeposit, Amount: dec("200"), BalanceAfter: dec("700")},
		}

		ignoreCreatedAt := cmpopts.IgnoreFields(domain.AccountSnapshot{}, "CreatedAt")
		if diff := cmp.Diff(want, res.Data.Transfer, ignoreCreatedAt, ignoreTime, equateDecimal); diff != "" {
			t.Errorf("transfer mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestListAccountsAPI(t *testing.T) {
	server := setupServer(t)
	owner := randompkg.Owner()

	for i := 0; i < 3; i++ {
		openAccount(t, server, owner, "1")
		openAccount(t, server, randompkg.Owner(), "1")
	}

	code, res := do[struct {
		Accounts []domain.AccountSnapshot `json:"accounts"`
	}](t, server, http.MethodGet, "/accounts?owner="+owner+"&page_id=1&page_size=2", nil)
	if code != http.StatusOK {
		t.Fatalf("status=%d error=%q", code, res.Error)
	}

	if len(res.Data.Accounts) != 2 {
		t.Fatalf("got %d accounts, want 2", len(res.Data.Accounts))
	}

	for _, acc := range res.Data.Accounts {
		if acc.Owner != owner {
			t.Errorf("account owner=%q, want %q", acc.Owner, owner)
		}
	}
}

func TestRequestID(t *testing.T) {
	server := setupServer(t)

	req := httptest.NewRequest(http.MethodGet, "/accounts/missing", nil)
	req.Header.Set("X-Request-ID", "req-1")

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusNotFound {
		t.Errorf("status=%d, want %d", recorder.Code, http.StatusNotFound)
	}

	if got := recorder.Header().Get("X-Request-ID"); got != "req-1" {
		t.Errorf("X-Request-ID=%q, want %q", got, "req-1")
	}
}
