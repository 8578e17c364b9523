package app_test

import (
	"fmt"
	"net/http"
	"testing"

	"comicweb_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pagedIDs struct {
	Items []struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	} `json:"items"`
	Total      int64 `json:"total"`
	PageNumber int   `json:"pageNumber"`
	PageSize   int   `json:"pageSize"`
}

// createChapter создает через API комикс и платную главу с тремя страницами
func createChapter(t *testing.T, ts *TestServer, token string, price int64) string {
	t.Helper()

	status, env := ts.SendRequest(t, http.MethodPost, "/api/comics", token, map[string]interface{}{
		"title": "Night Shift",
		"slug":  fmt.Sprintf("night-shift-%d", price),
	})
	require.Equal(t, http.StatusCreated, status, message(env))
	var comic struct {
		ID string `json:"id"`
	}
	decode(t, env, &comic)

	status, env = ts.SendRequest(t, http.MethodPost, "/api/chapters", token, map[string]interface{}{
		"comicId":       comic.ID,
		"title":         "Chapter One",
		"slug":          fmt.Sprintf("chapter-one-%d", price),
		"chapterNumber": 1,
		"unitPrice":     price,
	})
	require.Equal(t, http.StatusCreated, status, message(env))
	var chapter struct {
		ID string `json:"id"`
	}
	decode(t, env, &chapter)

	status, env = ts.SendRequest(t, http.MethodPost, "/api/chapters/"+chapter.ID+"/pages", token, map[string]interface{}{
		"pages": []map[string]interface{}{
			{"pageOrder": 1, "imageUrl": "/uploads/p1.png"},
			{"pageOrder": 2, "imageUrl": "/uploads/p2.png"},
			{"pageOrder": 3, "imageUrl": "/uploads/p3.png"},
		},
	})
	require.Equal(t, http.StatusCreated, status, message(env))
	return chapter.ID
}

func TestPurchaseFlow(t *testing.T) {
	ts := NewTestServer(t)
	adminToken, _ := ts.Login(t, models.UserRoleAdmin)
	readerToken, _ := ts.Login(t, models.UserRoleUser)

	chapterID := createChapter(t, ts, adminToken, 50)
	pagesPath := "/api/chapters/" + chapterID + "/pages"

	status, _ := ts.SendRequest(t, http.MethodGet, pagesPath, "", nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = ts.SendRequest(t, http.MethodGet, pagesPath, readerToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	body := map[string]string{"chapterId": chapterID}
	status, env := ts.SendRequest(t, http.MethodPost, "/api/payments/purchased-chapter", readerToken, body)
	require.Equal(t, http.StatusOK, status)
	var first struct {
		AlreadyOwned  bool    `json:"alreadyOwned"`
		TransactionID *string `json:"transactionId"`
	}
	decode(t, env, &first)
	assert.False(t, first.AlreadyOwned)
	require.NotNil(t, first.TransactionID)

	status, env = ts.SendRequest(t, http.MethodPost, "/api/payments/purchased-chapter", readerToken, body)
	require.Equal(t, http.StatusOK, status)
	var second struct {
		AlreadyOwned bool `json:"alreadyOwned"`
	}
	decode(t, env, &second)
	assert.True(t, second.AlreadyOwned)

	status, env = ts.SendRequest(t, http.MethodGet, pagesPath, readerToken, nil)
	require.Equal(t, http.StatusOK, status)
	var pages struct {
		Pages []struct {
			PageOrder int `json:"pageOrder"`
		} `json:"pages"`
	}
	decode(t, env, &pages)
	assert.Len(t, pages.Pages, 3)

	status, env = ts.SendRequest(t, http.MethodGet, "/api/payments/transactions?pageSize=10", readerToken, nil)
	require.Equal(t, http.StatusOK, status)
	var txs pagedIDs
	decode(t, env, &txs)
	assert.Equal(t, int64(1), txs.Total)
	assert.Equal(t, 1, txs.PageNumber)
	assert.Equal(t, 10, txs.PageSize)

	// чужую транзакцию видит только админ
	strangerToken, _ := ts.Login(t, models.UserRoleUser)
	checkPath := "/api/payments/transactions/check/" + *first.TransactionID
	status, _ = ts.SendRequest(t, http.MethodGet, checkPath, strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = ts.SendRequest(t, http.MethodGet, checkPath, adminToken, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = ts.SendRequest(t, http.MethodPut, "/api/payments/accept-manual/"+*first.TransactionID, readerToken, nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, env = ts.SendRequest(t, http.MethodPut, "/api/payments/accept-manual/"+*first.TransactionID, adminToken, nil)
	require.Equal(t, http.StatusOK, status)
	var accepted struct {
		Status string `json:"status"`
	}
	decode(t, env, &accepted)
	assert.Equal(t, string(models.TransactionStatusSuccess), accepted.Status)
}

func TestCurrencyAndWithdrawFlow(t *testing.T) {
	ts := NewTestServer(t)
	adminToken, _ := ts.Login(t, models.UserRoleAdmin)
	userToken, user := ts.Login(t, models.UserRoleUser)

	status, _ := ts.SendRequest(t, http.MethodPost, "/api/currency", userToken, map[string]interface{}{
		"userId": user.ID, "entryType": "CREDIT", "amount": 100,
	})
	assert.Equal(t, http.StatusForbidden, status)

	for _, entry := range []map[string]interface{}{
		{"userId": user.ID, "entryType": "CREDIT", "amount": 100},
		{"userId": user.ID, "entryType": "DEBIT", "amount": 25},
	} {
		status, env := ts.SendRequest(t, http.MethodPost, "/api/currency", adminToken, entry)
		require.Equal(t, http.StatusCreated, status, message(env))
	}

	status, env := ts.SendRequest(t, http.MethodGet, "/api/currency/balance", userToken, nil)
	require.Equal(t, http.StatusOK, status)
	var balance struct {
		Balance int64 `json:"balance"`
	}
	decode(t, env, &balance)
	assert.Equal(t, int64(75), balance.Balance)

	status, env = ts.SendRequest(t, http.MethodGet, "/api/currency/history?pageSize=1", userToken, nil)
	require.Equal(t, http.StatusOK, status)
	var history pagedIDs
	decode(t, env, &history)
	assert.Equal(t, int64(2), history.Total)
	assert.Len(t, history.Items, 1)

	withdraw := map[string]interface{}{
		"amount":          76,
		"bankName":        "Comic Bank",
		"bankAccount":     "0001",
		"bankAccountName": "Reader",
	}
	status, _ = ts.SendRequest(t, http.MethodPost, "/api/withdraws", userToken, withdraw)
	assert.Equal(t, http.StatusBadRequest, status)

	withdraw["amount"] = 75
	status, env = ts.SendRequest(t, http.MethodPost, "/api/withdraws", userToken, withdraw)
	require.Equal(t, http.StatusCreated, status)
	var created struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decode(t, env, &created)
	assert.Equal(t, string(models.WithdrawPending), created.Status)

	status, env = ts.SendRequest(t, http.MethodGet, "/api/withdraws/me", userToken, nil)
	require.Equal(t, http.StatusOK, status)
	var mine pagedIDs
	decode(t, env, &mine)
	assert.Equal(t, int64(1), mine.Total)

	status, _ = ts.SendRequest(t, http.MethodGet, "/api/withdraws/admin", userToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, env = ts.SendRequest(t, http.MethodGet, "/api/withdraws/admin?status=PENDING", adminToken, nil)
	require.Equal(t, http.StatusOK, status)
	var pending pagedIDs
	decode(t, env, &pending)
	assert.Equal(t, int64(1), pending.Total)

	status, env = ts.SendRequest(t, http.MethodPut, "/api/withdraws/"+created.ID, adminToken, map[string]interface{}{
		"status":    "APPROVED",
		"adminNote": "paid out",
	})
	require.Equal(t, http.StatusOK, status)
	var updated struct {
		Status    string  `json:"status"`
		AdminNote *string `json:"adminNote"`
	}
	decode(t, env, &updated)
	assert.Equal(t, string(models.WithdrawApproved), updated.Status)
	require.NotNil(t, updated.AdminNote)
	assert.Equal(t, "paid out", *updated.AdminNote)

	status, _ = ts.SendRequest(t, http.MethodGet, "/api/withdraws/admin?status=BOGUS", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}
