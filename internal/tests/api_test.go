// internal/tests/api_test.go
package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/javajoker/brewhouse-backend/internal/config"
	"github.com/javajoker/brewhouse-backend/internal/database"
	"github.com/javajoker/brewhouse-backend/internal/i18n"
	"github.com/javajoker/brewhouse-backend/internal/models"
	"github.com/javajoker/brewhouse-backend/internal/repository"
	"github.com/javajoker/brewhouse-backend/internal/repository/memory"
	"github.com/javajoker/brewhouse-backend/internal/router"
	"github.com/javajoker/brewhouse-backend/internal/services"
	"github.com/javajoker/brewhouse-backend/internal/utils"
)

var pngImage = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
	Meta struct {
		Pagination struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	} `json:"meta"`
}

type productBody struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Quantity        int       `json:"quantity"`
	InStock         bool      `json:"in_stock"`
	EffectivePrice  float64   `json:"effective_price"`
	ImageURLs       []string  `json:"image_urls"`
	PrimaryImageURL string    `json:"primary_image_url"`
	AverageRating   float64   `json:"average_rating"`
	RatingsCount    int       `json:"ratings_count"`
}

type APITestSuite struct {
	suite.Suite
	cfg       *config.Config
	store     repository.Store
	router    *gin.Engine
	uploadDir string
	cancel    context.CancelFunc

	adminToken    string
	staffToken    string
	customerToken string
}

func (suite *APITestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	suite.Require().NoError(i18n.Initialize("../i18n/locales", "en"))

	suite.cfg = &config.Config{
		Environment: "test",
		Store:       config.StoreConfig{Driver: config.StoreDriverMemory},
		JWT:         config.JWTConfig{SecretKey: "api-suite-secret", AccessTokenTTL: 1},
		Ledger:      config.LedgerConfig{OperationTimeout: 2000, LowStockThreshold: 5},
		I18n:        config.I18nConfig{DefaultLocale: "en", LocalesPath: "../i18n/locales"},
		CORS:        config.CORSConfig{AllowedOrigins: []string{"*"}},
		RateLimit:   config.RateLimitConfig{RequestsPerSecond: 1000, Burst: 1000},
		Seed: config.SeedConfig{
			AdminUsername: "owner",
			AdminEmail:    "owner@brewhouse.test",
			AdminPassword: "owner-password",
		},
	}
	utils.SetJWTSecret(suite.cfg.JWT.SecretKey)
}

func (suite *APITestSuite) SetupTest() {
	ctx, cancel := context.WithCancel(context.Background())
	suite.cancel = cancel
	suite.store = memory.NewStore()
	suite.uploadDir = suite.T().TempDir()

	suite.Require().NoError(database.SeedAdmin(ctx, suite.store, suite.cfg.Seed))
	suite.router = router.New(ctx, suite.store, services.NewLocalStorageService(suite.uploadDir), suite.cfg)

	admin, err := suite.store.Users().FindByEmail(ctx, suite.cfg.Seed.AdminEmail)
	suite.Require().NoError(err)
	suite.adminToken = suite.tokenFor(admin)

	suite.customerToken = suite.register("regular", "regular@brewhouse.test")
	suite.register("barista", "barista@brewhouse.test")
	staff, err := suite.store.Users().FindByUsername(ctx, "barista")
	suite.Require().NoError(err)

	w := suite.request(http.MethodPut, "/v1/admin/users/"+staff.ID.String()+"/role", suite.adminToken,
		map[string]interface{}{"role": "staff"})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	// The role is carried in the token, so the one issued at registration
	// still says customer.
	staff.Role = models.UserRoleStaff
	suite.staffToken = suite.tokenFor(staff)
}

func (suite *APITestSuite) TearDownTest() {
	suite.cancel()
}

func (suite *APITestSuite) tokenFor(user *models.User) string {
	token, err := utils.GenerateJWT(user.ID, user.Username, string(user.Role), 1)
	suite.Require().NoError(err)
	return token
}

func (suite *APITestSuite) register(username, email string) string {
	w := suite.request(http.MethodPost, "/v1/auth/register", "", map[string]interface{}{
		"username": username,
		"email":    email,
		"password": "password123",
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var data struct {
		Token string `json:"token"`
	}
	suite.decode(w, &data)
	return data.Token
}

func (suite *APITestSuite) request(method, path, token string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *APITestSuite) envelope(w *httptest.ResponseRecorder) apiResponse {
	var resp apiResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func (suite *APITestSuite) decode(w *httptest.ResponseRecorder, out interface{}) apiResponse {
	resp := suite.envelope(w)
	suite.Require().True(resp.Success, w.Body.String())
	suite.Require().NoError(json.Unmarshal(resp.Data, out))
	return resp
}

func (suite *APITestSuite) errorCode(w *httptest.ResponseRecorder) string {
	resp := suite.envelope(w)
	suite.Require().False(resp.Success)
	suite.Require().NotNil(resp.Error)
	return resp.Error.Code
}

func (suite *APITestSuite) createProduct(name string, quantity int, images ...string) productBody {
	w := suite.request(http.MethodPost, "/v1/products", suite.staffToken, map[string]interface{}{
		"name":     name,
		"price":    4.5,
		"category": "coffee",
		"quantity": quantity,
		"images":   images,
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var data struct {
		Product productBody `json:"product"`
	}
	suite.decode(w, &data)
	return data.Product
}

func (suite *APITestSuite) applyOperation(productID uuid.UUID, op string, quantity int) *httptest.ResponseRecorder {
	return suite.request(http.MethodPost, "/v1/inventory/"+productID.String()+"/operations", suite.staffToken,
		map[string]interface{}{"operation_type": op, "quantity": quantity})
}

func (suite *APITestSuite) TestHealth() {
	w := suite.request(http.MethodGet, "/health", "", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "healthy")
}

func (suite *APITestSuite) TestRegisterLoginAndProfile() {
	w := suite.request(http.MethodPost, "/v1/auth/login", "", map[string]interface{}{
		"email":    "regular@brewhouse.test",
		"password": "password123",
	})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var login struct {
		Token     string      `json:"token"`
		TokenType string      `json:"token_type"`
		User      models.User `json:"user"`
	}
	suite.decode(w, &login)
	suite.Equal("Bearer", login.TokenType)
	suite.Equal(models.UserRoleCustomer, login.User.Role)

	w = suite.request(http.MethodGet, "/v1/auth/me", login.Token, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var me struct {
		User models.User `json:"user"`
	}
	suite.decode(w, &me)
	suite.Equal("regular", me.User.Username)
	suite.NotContains(w.Body.String(), "password")

	w = suite.request(http.MethodPost, "/v1/auth/login", "", map[string]interface{}{
		"email":    "regular@brewhouse.test",
		"password": "wrong-password",
	})
	suite.Equal(http.StatusUnauthorized, w.Code)

	w = suite.request(http.MethodPost, "/v1/auth/register", "", map[string]interface{}{
		"username": "regular",
		"email":    "other@brewhouse.test",
		"password": "password123",
	})
	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal("CONFLICT", suite.errorCode(w))

	w = suite.request(http.MethodGet, "/v1/auth/me", "", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *APITestSuite) TestUpdateProfile() {
	w := suite.request(http.MethodPut, "/v1/users/me", suite.customerToken, map[string]interface{}{
		"display_name": "Morning Regular",
	})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.Contains(w.Body.String(), "Morning Regular")

	w = suite.request(http.MethodPut, "/v1/users/me", suite.customerToken, map[string]interface{}{
		"current_password": "nope-nope",
		"new_password":     "another-password",
	})
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *APITestSuite) TestProductImagesFollowHostContext() {
	product := suite.createProduct("House Blend", 10, "products/house.png", "/products/house-2.png")

	w := suite.request(http.MethodGet, "/v1/products/"+product.ID.String(), "", nil,
		"Referer", "https://jane.github.io/brewhouse/menu")
	suite.Require().Equal(http.StatusOK, w.Code)
	var data struct {
		Product productBody `json:"product"`
	}
	suite.decode(w, &data)
	suite.Equal([]string{"/brewhouse/images/products/house.png", "/brewhouse/images/products/house-2.png"}, data.Product.ImageURLs)
	suite.Equal("/brewhouse/images/products/house.png", data.Product.PrimaryImageURL)

	w = suite.request(http.MethodGet, "/v1/products/"+product.ID.String(), "", nil,
		"Origin", "http://localhost:3000")
	suite.decode(w, &data)
	suite.Equal("/images/products/house.png", data.Product.PrimaryImageURL)
	suite.Equal(4.5, data.Product.EffectivePrice)

	w = suite.request(http.MethodGet, "/v1/products/slug/house-blend", "", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.decode(w, &data)
	suite.Equal(product.ID, data.Product.ID)

	w = suite.request(http.MethodGet, "/v1/products?category=coffee&in_stock=true", "", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var list []productBody
	resp := suite.decode(w, &list)
	suite.Equal(int64(1), resp.Meta.Pagination.Total)
	suite.Equal("1", w.Header().Get("X-Total-Count"))
}

func (suite *APITestSuite) TestProductPermissions() {
	w := suite.request(http.MethodPost, "/v1/products", suite.customerToken, map[string]interface{}{
		"name": "Sneaky", "price": 1, "category": "coffee",
	})
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.request(http.MethodPost, "/v1/products", "", map[string]interface{}{
		"name": "Sneaky", "price": 1, "category": "coffee",
	})
	suite.Equal(http.StatusUnauthorized, w.Code)

	product := suite.createProduct("Cortado", 3)
	w = suite.request(http.MethodPost, "/v1/products", suite.staffToken, map[string]interface{}{
		"name": "Cortado", "price": 1, "category": "coffee",
	})
	suite.Equal(http.StatusConflict, w.Code)

	w = suite.request(http.MethodPut, "/v1/products/"+product.ID.String(), suite.staffToken, map[string]interface{}{
		"discount": 10,
	})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var data struct {
		Product productBody `json:"product"`
	}
	suite.decode(w, &data)
	suite.Equal(4.05, data.Product.EffectivePrice)
	suite.Equal(3, data.Product.Quantity)

	w = suite.request(http.MethodDelete, "/v1/products/"+product.ID.String(), suite.staffToken, nil)
	suite.Equal(http.StatusOK, w.Code)
	w = suite.request(http.MethodGet, "/v1/products/"+product.ID.String(), "", nil)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.request(http.MethodGet, "/v1/products/not-a-uuid", "", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *APITestSuite) TestInventoryOperations() {
	product := suite.createProduct("Espresso Beans", 10)

	w := suite.applyOperation(product.ID, "remove", 3)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var applied struct {
		Record models.InventoryRecord `json:"record"`
	}
	suite.decode(w, &applied)
	suite.Equal(10, applied.Record.PreviousStock)
	suite.Equal(7, applied.Record.CurrentStock)

	w = suite.applyOperation(product.ID, "remove", 100)
	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal("INSUFFICIENT_STOCK", suite.errorCode(w))
	suite.Equal("Not enough stock for this operation", suite.envelope(w).Error.Message)

	w = suite.applyOperation(product.ID, "add", 0)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.applyOperation(product.ID, "steal", 1)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.applyOperation(uuid.New(), "add", 1)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.applyOperation(product.ID, "adjust", 0)
	suite.Require().Equal(http.StatusCreated, w.Code)

	w = suite.request(http.MethodGet, "/v1/inventory/"+product.ID.String()+"/history?limit=2", suite.staffToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var history []models.InventoryHistoryEntry
	resp := suite.decode(w, &history)
	suite.Equal(int64(3), resp.Meta.Pagination.Total)
	suite.Require().Len(history, 2)
	suite.Equal(models.OperationAdjust, history[0].OperationType)
	suite.Equal("Espresso Beans", history[0].ProductSummary.Name)
	suite.Equal("barista", history[0].OperatorSummary.Name)

	w = suite.request(http.MethodGet, "/v1/inventory/"+product.ID.String()+"/verify", suite.staffToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.Contains(w.Body.String(), `"consistent":true`)

	w = suite.request(http.MethodGet, "/v1/products/"+product.ID.String(), "", nil)
	var data struct {
		Product productBody `json:"product"`
	}
	suite.decode(w, &data)
	suite.Equal(0, data.Product.Quantity)
	suite.False(data.Product.InStock)

	w = suite.request(http.MethodGet, "/v1/inventory/"+product.ID.String()+"/history", suite.customerToken, nil)
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *APITestSuite) TestVerifyReportsTamperedLedger() {
	ctx := context.Background()
	product := suite.createProduct("Cold Brew", 8)

	// Stock changed behind the ledger's back.
	suite.Require().NoError(suite.store.Products().UpdateStock(ctx, product.ID, 8, 6))

	w := suite.request(http.MethodGet, "/v1/inventory/"+product.ID.String()+"/verify", suite.staffToken, nil)
	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal("DATA_INTEGRITY", suite.errorCode(w))

	w = suite.request(http.MethodPost, "/v1/admin/inventory/audit", suite.adminToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var audit struct {
		Consistent bool                    `json:"consistent"`
		Failures   []services.LedgerReport `json:"failures"`
	}
	suite.decode(w, &audit)
	suite.False(audit.Consistent)
	suite.Require().Len(audit.Failures, 1)
	suite.Equal(6, audit.Failures[0].StoredQuantity)
	suite.Equal(8, audit.Failures[0].ReplayedQuantity)

	w = suite.request(http.MethodGet, "/v1/admin/notifications?status=unread", suite.adminToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var notifications []models.AdminNotification
	suite.decode(w, &notifications)
	suite.Require().NotEmpty(notifications)
	for _, n := range notifications {
		suite.Equal(models.NotificationTypeDataIntegrity, n.Type)
	}
}

func (suite *APITestSuite) TestLowStockNotification() {
	product := suite.createProduct("Oat Milk", 6)

	suite.Require().Equal(http.StatusCreated, suite.applyOperation(product.ID, "remove", 2).Code)

	w := suite.request(http.MethodGet, "/v1/admin/notifications", suite.adminToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var notifications []models.AdminNotification
	suite.decode(w, &notifications)
	suite.Require().Len(notifications, 1)
	suite.Equal(models.NotificationTypeLowStock, notifications[0].Type)

	w = suite.request(http.MethodPut, "/v1/admin/notifications/"+notifications[0].ID.String()+"/read", suite.adminToken, nil)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.request(http.MethodGet, "/v1/admin/notifications?status=unread", suite.adminToken, nil)
	suite.decode(w, &notifications)
	suite.Empty(notifications)

	w = suite.request(http.MethodGet, "/v1/admin/inventory/low-stock", suite.adminToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var low []productBody
	suite.decode(w, &low)
	suite.Require().Len(low, 1)
	suite.Equal("Oat Milk", low[0].Name)

	w = suite.request(http.MethodGet, "/v1/admin/dashboard/stats", suite.staffToken, nil)
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *APITestSuite) TestReviews() {
	product := suite.createProduct("Flat White", 5)
	reviewsPath := "/v1/products/" + product.ID.String() + "/reviews"

	type reviewResult struct {
		Review models.Review `json:"review"`
		Rating struct {
			Average float64 `json:"average_rating"`
			Count   int     `json:"ratings_count"`
		} `json:"rating"`
	}

	w := suite.request(http.MethodPost, reviewsPath, suite.customerToken, map[string]interface{}{"rating": 5, "comment": "Silky"})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var first reviewResult
	suite.decode(w, &first)

	w = suite.request(http.MethodPost, reviewsPath, suite.staffToken, map[string]interface{}{"rating": 4})
	suite.Require().Equal(http.StatusCreated, w.Code)
	var second reviewResult
	suite.decode(w, &second)
	suite.Equal(4.5, second.Rating.Average)
	suite.Equal(2, second.Rating.Count)

	w = suite.request(http.MethodPost, reviewsPath, suite.customerToken, map[string]interface{}{"rating": 1})
	suite.Equal(http.StatusConflict, w.Code)

	w = suite.request(http.MethodPost, reviewsPath, suite.customerToken, map[string]interface{}{"rating": 6})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.request(http.MethodPost, reviewsPath, "", map[string]interface{}{"rating": 3})
	suite.Equal(http.StatusUnauthorized, w.Code)

	w = suite.request(http.MethodGet, reviewsPath, "", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var reviews []models.Review
	resp := suite.decode(w, &reviews)
	suite.Equal(int64(2), resp.Meta.Pagination.Total)

	w = suite.request(http.MethodDelete, reviewsPath+"/"+first.Review.ID.String(), suite.staffToken, nil)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.request(http.MethodDelete, reviewsPath+"/"+first.Review.ID.String(), suite.adminToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var deleted reviewResult
	suite.decode(w, &deleted)
	suite.Equal(4.0, deleted.Rating.Average)
	suite.Equal(1, deleted.Rating.Count)

	w = suite.request(http.MethodGet, "/v1/products/"+product.ID.String(), "", nil)
	var data struct {
		Product productBody `json:"product"`
	}
	suite.decode(w, &data)
	suite.Equal(4.0, data.Product.AverageRating)
	suite.Equal(1, data.Product.RatingsCount)
}

func (suite *APITestSuite) TestResolveImage() {
	tests := []struct {
		query string
		want  string
	}{
		{"path=products/latte.png&hostname=jane.github.io&pathname=/shop/menu", "/shop/images/products/latte.png"},
		{"path=/products/latte.png&hostname=jane.github.io&pathname=/", "/images/products/latte.png"},
		{"path=products/latte.png&hostname=brewhouse.example.com&pathname=/shop", "/images/products/latte.png"},
		{"path=products/latte.png&hostname=jane.github.io&pathname=/shop&server=true", "/images/products/latte.png"},
	}

	for _, tt := range tests {
		w := suite.request(http.MethodGet, "/v1/images/resolve?"+tt.query, "", nil)
		suite.Require().Equal(http.StatusOK, w.Code, tt.query)
		var data struct {
			URL string `json:"url"`
		}
		suite.decode(w, &data)
		suite.Equal(tt.want, data.URL, tt.query)
	}

	w := suite.request(http.MethodGet, "/v1/images/resolve?path=products/latte.png", "", nil,
		"Referer", "http://localhost:3000/menu")
	suite.Contains(w.Body.String(), `"is_localhost":true`)

	w = suite.request(http.MethodGet, "/v1/images/resolve", "", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *APITestSuite) TestUploadImages() {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("images", "latte.png")
	suite.Require().NoError(err)
	_, err = part.Write(pngImage)
	suite.Require().NoError(err)
	part, err = form.CreateFormFile("images", "notes.txt")
	suite.Require().NoError(err)
	_, err = part.Write([]byte("not an image"))
	suite.Require().NoError(err)
	suite.Require().NoError(form.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/products/upload-images", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+suite.staffToken)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var data struct {
		Images []struct {
			Path string `json:"path"`
			URL  string `json:"url"`
		} `json:"images"`
		Failed []map[string]string `json:"failed"`
	}
	suite.decode(w, &data)
	suite.Require().Len(data.Images, 1)
	suite.Len(data.Failed, 1)
	suite.True(strings.HasPrefix(data.Images[0].Path, "products/"))
	suite.Equal("/images/"+data.Images[0].Path, data.Images[0].URL)

	_, err = os.Stat(filepath.Join(suite.uploadDir, filepath.FromSlash(data.Images[0].Path)))
	suite.NoError(err)

	w = suite.request(http.MethodGet, data.Images[0].URL, "", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal(pngImage, w.Body.Bytes())
}

func (suite *APITestSuite) TestAdminUsers() {
	w := suite.request(http.MethodGet, "/v1/admin/users?role=staff", suite.adminToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var users []models.User
	resp := suite.decode(w, &users)
	suite.Equal(int64(1), resp.Meta.Pagination.Total)
	suite.Equal("barista", users[0].Username)

	w = suite.request(http.MethodGet, "/v1/admin/users?role=root", suite.adminToken, nil)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.request(http.MethodGet, "/v1/admin/users", suite.customerToken, nil)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.request(http.MethodGet, "/v1/admin/dashboard/stats", suite.adminToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var stats struct {
		Stats services.AdminDashboardStats `json:"stats"`
	}
	suite.decode(w, &stats)
	suite.Equal(int64(3), stats.Stats.TotalUsers)
	suite.Equal(int64(1), stats.Stats.StaffUsers)
}

func (suite *APITestSuite) TestCategoriesAndLanguage() {
	w := suite.request(http.MethodGet, "/v1/categories", "", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	for _, category := range models.Categories {
		suite.Contains(w.Body.String(), fmt.Sprintf("%q", category))
	}

	w = suite.request(http.MethodGet, "/v1/products/"+uuid.NewString(), "", nil, "Accept-Language", "zh-TW")
	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal("NOT_FOUND", suite.errorCode(w))
	suite.Equal("找不到商品", suite.envelope(w).Error.Message)
	suite.NotEmpty(w.Header().Get("X-Request-ID"))
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}

func TestInitializeWithoutAWSCredentials(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := &config.Config{AWS: config.AWSConfig{LocalUploadDir: t.TempDir()}}
	r, err := router.Initialize(ctx, memory.NewStore(), cfg)
	require.NoError(t, err)
	assert.NotNil(t, r)
}
