package handlers_test_suite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/apparelops/lot-tracker/internal/analytics"
	"github.com/apparelops/lot-tracker/internal/code"
	api "github.com/apparelops/lot-tracker/internal/http"
	handler "github.com/apparelops/lot-tracker/internal/http/handlers"
	"github.com/apparelops/lot-tracker/internal/labels"
	"github.com/apparelops/lot-tracker/internal/models"
	"github.com/apparelops/lot-tracker/internal/repo"
	"github.com/apparelops/lot-tracker/internal/scan"
)

var (
	token         string
	inventoryRepo *repo.InventoryRepository
	scanManager   *scan.Manager
)

// noopRecorder keeps scan tests off the process-wide prometheus registry.
type noopRecorder struct{}

func (noopRecorder) RecordScanAccepted()   {}
func (noopRecorder) RecordScanRejected()   {}
func (noopRecorder) RecordScanIgnored()    {}
func (noopRecorder) RecordSale()           {}
func (noopRecorder) RecordSessionStarted() {}
func (noopRecorder) RecordSessionStopped() {}

func init() {
	setupTestRepos("secret1")
	r := api.NewRouter()

	var err error
	token, err = generateToken(r, "admin", "secret1")
	if err != nil {
		panic(fmt.Sprintf("error generating token: %v", err))
	}
}

func setupTestRepos(password string) {
	store := repo.NewMemorySnapshotStore()
	var err error
	inventoryRepo, err = repo.NewInventoryRepository(context.Background(), store, code.NewGenerator())
	if err != nil {
		panic(fmt.Sprintf("error creating inventory repository: %v", err))
	}
	handler.SetInventoryRepo(inventoryRepo)

	userRepo := repo.NewInMemoryUserRepository()
	handler.SetUserRepo(userRepo)

	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	userRepo.CreateUser(models.User{
		Username:     "admin",
		PasswordHash: string(hash),
	})

	scanManager = scan.NewManager(inventoryRepo, noopRecorder{}, scan.Config{
		SaleCooldown:    50 * time.Millisecond,
		FailureCooldown: 25 * time.Millisecond,
	})
	handler.SetScanManager(scanManager)

	handler.SetCodeRenderer(labels.NewQRRenderer())
	handler.SetTrendSource(analytics.NewStubTrendSource(1))
}

func clearAllProducts() {
	inventoryRepo.Clear(context.Background())
}

func generateToken(r http.Handler, username, password string) (string, error) {
	payload := handler.UserLogin{Username: username, Password: password}
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp handler.LoginResult
	err := json.NewDecoder(w.Body).Decode(&resp)
	if err != nil {
		return "", fmt.Errorf("token decoding failed: %v", err)
	}
	return resp.Token, nil
}

func addProduct(r http.Handler, p handler.ProductRequest) *httptest.ResponseRecorder {
	body, _ := json.Marshal(p)
	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sellProduct(r http.Handler, productCode string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/products/%s/sell", productCode), nil)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func mustCreate(r http.Handler, p handler.ProductRequest) handler.ProductResponse {
	w := addProduct(r, p)
	if w.Code != http.StatusCreated && w.Code != http.StatusOK {
		panic(fmt.Sprintf("could not create product: status %d", w.Code))
	}
	var resp handler.ProductResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		panic(fmt.Sprintf("could not decode product response: %v", err))
	}
	return resp
}
