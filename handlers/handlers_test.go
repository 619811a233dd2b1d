package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/vshopvn/banhang_backend/config"
	"github.com/vshopvn/banhang_backend/middlewares"
	"github.com/vshopvn/banhang_backend/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupHandlerTest(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	config.SetDB(db)
	models.MigrateTable()
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
		config.SetDB(nil)
	})

	r := gin.New()
	r.POST("/auth/login", Login)
	api := r.Group("/api", middlewares.AuthMiddleware())
	{
		api.GET("/me", Me)
		api.GET("/products", ListProducts)
		api.POST("/products", CreateProduct)
		api.GET("/products/:id", GetProduct)
		api.PUT("/products/:id", UpdateProduct)
		api.DELETE("/products/:id", DeleteProduct)
		api.POST("/invoices", CreateInvoice)
		api.POST("/invoices/:id/pay", PayInvoice)

		admin := api.Group("/users", middlewares.AdminOnly())
		admin.GET("", ListUsers)
	}
	return r
}

func seedUser(t *testing.T, email string, role models.UserRole) {
	t.Helper()
	_, err := models.CreateUser(context.Background(), &models.NewUser{
		Name: "Test", Email: email, Password: "matkhau123", Role: role,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

func loginToken(t *testing.T, r *gin.Engine, email string) string {
	t.Helper()
	body, _ := json.Marshal(gin.H{"email": email, "password": "matkhau123"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return resp.Token
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequiredForAPI(t *testing.T) {
	r := setupHandlerTest(t)

	w := doJSON(t, r, http.MethodGet, "/api/products", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/api/products", "khong-hop-le", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad token, got %d", w.Code)
	}
}

func TestLoginAndMe(t *testing.T) {
	r := setupHandlerTest(t)
	seedUser(t, "chu@example.com", models.UserRoleUser)

	token := loginToken(t, r, "chu@example.com")
	w := doJSON(t, r, http.MethodGet, "/api/me", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", w.Code, w.Body.String())
	}

	var me models.User
	if err := json.Unmarshal(w.Body.Bytes(), &me); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	if me.Email != "chu@example.com" {
		t.Fatalf("unexpected user %+v", me)
	}
}

func TestProductCRUDOverHTTP(t *testing.T) {
	r := setupHandlerTest(t)
	seedUser(t, "chu@example.com", models.UserRoleUser)
	token := loginToken(t, r, "chu@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/products", token, gin.H{
		"name": "Gạch men", "priceCents": 100000, "quantity": 10,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d %s", w.Code, w.Body.String())
	}
	var created models.Product
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode product: %v", err)
	}

	w = doJSON(t, r, http.MethodGet, "/api/products/9999", token, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	// Missing required name is a binding failure with field details.
	w = doJSON(t, r, http.MethodPost, "/api/products", token, gin.H{"priceCents": 1})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var errResp struct {
		Fields map[string]string `json:"fields"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Fields["Name"] != "required" {
		t.Fatalf("expected Name required, got %+v", errResp.Fields)
	}

	w = doJSON(t, r, http.MethodDelete, "/api/products/"+itoa(created.ID), token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", w.Code, w.Body.String())
	}
}

func TestInvoiceFlowOverHTTP(t *testing.T) {
	r := setupHandlerTest(t)
	seedUser(t, "chu@example.com", models.UserRoleUser)
	token := loginToken(t, r, "chu@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/products", token, gin.H{
		"name": "Sơn nội thất", "priceCents": 250000, "quantity": 4,
	})
	var product models.Product
	if err := json.Unmarshal(w.Body.Bytes(), &product); err != nil {
		t.Fatalf("decode product: %v", err)
	}

	w = doJSON(t, r, http.MethodPost, "/api/invoices", token, gin.H{
		"items": []gin.H{{"productId": product.ID, "quantity": 2}},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d %s", w.Code, w.Body.String())
	}
	var invoice models.Invoice
	if err := json.Unmarshal(w.Body.Bytes(), &invoice); err != nil {
		t.Fatalf("decode invoice: %v", err)
	}
	if invoice.Total != 500000 {
		t.Fatalf("expected total 500000, got %d", invoice.Total)
	}

	// Overselling maps to a 400 with the business message.
	w = doJSON(t, r, http.MethodPost, "/api/invoices", token, gin.H{
		"items": []gin.H{{"productId": product.ID, "quantity": 100}},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/api/invoices/"+itoa(invoice.ID)+"/pay", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", w.Code, w.Body.String())
	}
}

func TestUsersEndpointIsAdminOnly(t *testing.T) {
	r := setupHandlerTest(t)
	seedUser(t, "nhanvien@example.com", models.UserRoleUser)
	seedUser(t, "sep@example.com", models.UserRoleAdmin)

	userToken := loginToken(t, r, "nhanvien@example.com")
	w := doJSON(t, r, http.MethodGet, "/api/users", userToken, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for USER role, got %d", w.Code)
	}

	adminToken := loginToken(t, r, "sep@example.com")
	w = doJSON(t, r, http.MethodGet, "/api/users", adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for ADMIN, got %d %s", w.Code, w.Body.String())
	}
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
