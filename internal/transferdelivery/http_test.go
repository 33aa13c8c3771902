package transferdelivery

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/go-petr/pet-ledger/internal/accountdelivery"
	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
	"github.com/go-petr/pet-ledger/pkg/randompkg"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	if err := accountdelivery.RegisterValidators(); err != nil {
		log.Fatal(err)
	}

	os.Exit(m.Run())
}

func randomAccount(t *testing.T) domain.AccountSnapshot {
	t.Helper()

	acc, err := domain.NewAccount(randompkg.Owner(), randompkg.Amount(1_000, 10_000))
	require.NoError(t, err)

	return acc.Snapshot()
}

func TestCreateTransferAPI(t *testing.T) {
	testAccount1 := randomAccount(t)
	testAccount2 := randomAccount(t)
	amount := "100"

	testResult := domain.TransferResult{
		FromAccount: testAccount1,
		ToAccount:   testAccount2,
		FromEntry: domain.Transaction{
			Kind:   domain.KindWithdrawal,
			Amount: decimal.RequireFromString(amount),
		},
		ToEntry: domain.Transaction{
			Kind:   domain.KindDeposit,
			Amount: decimal.RequireFromString(amount),
		},
	}

	wantArg := domain.CreateTransferParams{
		FromAccountID: testAccount1.ID,
		ToAccountID:   testAccount2.ID,
		Amount:        amount,
	}

	testCases := []struct {
		name          string
		requestBody   gin.H
		buildStubs    func(transferService *MockService)
		checkResponse func(recorder *httptest.ResponseRecorder)
	}{
		{
			name: "InvalidBindFromAccountID",
			requestBody: gin.H{
				"to_account_id": testAccount2.ID,
				"amount":        amount,
			},
			buildStubs: func(transferService *MockService) {
				transferService.EXPECT().Transfer(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name: "InvalidBindToAccountID",
			requestBody: gin.H{
				"from_account_id": testAccount1.ID,
				"amount":          amount,
			},
			buildStubs: func(transferService *MockService) {
				transferService.EXPECT().Transfer(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name: "InvalidAmount",
			requestBody: gin.H{
				"from_account_id": testAccount1.ID,
				"to_account_id":   testAccount2.ID,
				"amount":          "ten",
			},
			buildStubs: func(transferService *MockService) {
				transferService.EXPECT().Transfer(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name: "SameAccount",
			requestBody: gin.H{
				"from_account_id": testAccount1.ID,
				"to_account_id":   testAccount1.ID,
				"amount":          amount,
			},
			buildStubs: func(transferService *MockService) {
				transferService.EXPECT().Transfer(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.TransferResult{}, domain.ErrSameAccount)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name: "InsufficientBalance",
			requestBody: gin.H{
				"from_account_id": testAccount1.ID,
				"to_account_id":   testAccount2.ID,
				"amount":          amount,
			},
			buildStubs: func(transferService *MockService) {
				transferService.EXPECT().Transfer(gomock.Any(), gomock.Eq(wantArg)).
					Times(1).
					Return(domain.TransferResult{}, domain.ErrInsufficientBalance)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusConflict, recorder.Code)
			},
		},
		{
			name: "InactiveAccount",
			requestBody: gin.H{
				"from_account_id": testAccount1.ID,
				"to_account_id":   testAccount2.ID,
				"amount":          amount,
			},
			buildStubs: func(transferService *MockService) {
				transferService.EXPECT().Transfer(gomock.Any(), gomock.Eq(wantArg)).
					Times(1).
					Return(domain.TransferResult{}, domain.ErrInactiveAccount)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusConflict, recorder.Code)
			},
		},
		{
			name: "AccountNotFound",
			requestBody: gin.H{
				"from_account_id": testAccount1.ID,
				"to_account_id":   testAccount2.ID,
				"amount":          amount,
			},
			buildStubs: func(transferService *MockService) {
				transferService.EXPECT().Transfer(gomock.Any(), gomock.Eq(wantArg)).
					Times(1).
					Return(domain.TransferResult{}, domain.ErrAccountNotFound)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusNotFound, recorder.Code)
			},
		},
		{
			name: "InternalError",
			requestBody: gin.H{
				"from_account_id": testAccount1.ID,
				"to_account_id":   testAccount2.ID,
				"amount":          amount,
			},
			buildStubs: func(transferService *MockService) {
				transferService.EXPECT().Transfer(gomock.Any(), gomock.Eq(wantArg)).
					Times(1).
					Return(domain.TransferResult{}, errorspkg.ErrInternal)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusInternalServerError, recorder.Code)
			},
		},
		{
			name: "OK",
			requestBody: gin.H{
				"from_account_id": testAccount1.ID,
				"to_account_id":   testAccount2.ID,
				"amount":          amount,
			},
			buildStubs: func(transferService *MockService) {
				transferService.EXPECT().Transfer(gomock.Any(), gomock.Eq(wantArg)).
					Times(1).
					Return(testResult, nil)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)

				var got response
				require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
				require.Equal(t, testAccount1.ID, got.Data.Transfer.FromAccount.ID)
				require.Equal(t, testAccount2.ID, got.Data.Transfer.ToAccount.ID)
				require.Equal(t, domain.KindWithdrawal, got.Data.Transfer.FromEntry.Kind)
				require.Equal(t, domain.KindDeposit, got.Data.Transfer.ToEntry.Kind)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			transferService := NewMockService(ctrl)
			tc.buildStubs(transferService)

			server := gin.New()
			server.POST("/transfers", NewHandler(transferService).Create)

			data, err := json.Marshal(tc.requestBody)
			require.NoError(t, err)

			request, err := http.NewRequest(http.MethodPost, "/transfers", bytes.NewReader(data))
			require.NoError(t, err)

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, request)
			tc.checkResponse(recorder)
		})
	}
}
