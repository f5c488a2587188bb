// Package integration runs end-to-end API tests against PostgreSQL and MySQL.
package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/cardauth/internal/app"
	auditDTO "github.com/allisson/cardauth/internal/audit/http/dto"
	authDomain "github.com/allisson/cardauth/internal/auth/domain"
	authDTO "github.com/allisson/cardauth/internal/auth/http/dto"
	authorizationDTO "github.com/allisson/cardauth/internal/authorization/http/dto"
	"github.com/allisson/cardauth/internal/config"
	gateDomain "github.com/allisson/cardauth/internal/gate/domain"
	"github.com/allisson/cardauth/internal/signature"
	"github.com/allisson/cardauth/internal/testutil"
)

const (
	adminEmail     = "admin@example.com"
	staffEmail     = "staff@example.com"
	userPassword   = "integration-password"
	gatePassword   = "gate-password-1"
	testCardPAN    = "4111111111111111"
	testCardCVV    = "123"
	testSignerName = "Jane Q. Public"
)

type integrationTestContext struct {
	container  *app.Container
	db         *sql.DB
	server     *httptest.Server
	adminToken string
	staffToken string
	dbDriver   string
}

type alwaysYes struct{}

func (alwaysYes) Confirm(string) bool { return true }
func (alwaysYes) Alert(string)        {}

func (ctx *integrationTestContext) makeRequest(
	t *testing.T,
	method, path string,
	body any,
	token string,
) (*http.Response, []byte) {
	t.Helper()

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		require.NoError(t, err, "failed to marshal request body")
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(method, ctx.server.URL+path, bodyReader)
	require.NoError(t, err, "failed to create request")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	//nolint:gosec // controlled test environment with localhost URLs
	resp, err := client.Do(req)
	require.NoError(t, err, "failed to perform request")

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")
	_ = resp.Body.Close()

	return resp, respBody
}

func (ctx *integrationTestContext) login(t *testing.T, email string) string {
	t.Helper()

	resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/auth/token",
		authDTO.LoginRequest{Email: email, Password: userPassword}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var token authDTO.TokenResponse
	require.NoError(t, json.Unmarshal(body, &token))
	require.NotEmpty(t, token.Token)
	return token.Token
}

func setupIntegrationTest(t *testing.T, dbDriver string) *integrationTestContext {
	t.Helper()

	gin.SetMode(gin.TestMode)

	var db *sql.DB
	var dsn string
	if dbDriver == "postgres" {
		db = testutil.SetupPostgresDB(t)
		dsn = testutil.GetPostgresTestDSN()
	} else {
		db = testutil.SetupMySQLDB(t)
		dsn = testutil.GetMySQLTestDSN()
	}

	cfg := &config.Config{
		DBDriver:             dbDriver,
		DBConnectionString:   dsn,
		DBMaxOpenConnections: 10,
		DBMaxIdleConnections: 5,
		DBConnMaxLifetime:    time.Hour,
		ServerHost:           "localhost",
		ServerPort:           8080,
		LogLevel:             "error",
		CCEncryptionKey:      "integration-cc-key",
		CCCipherAlgorithm:    "aes-gcm",
		AuthJWTSecret:        "integration-jwt-secret",
		AuthJWTIssuer:        "cardauth",
		AuthTokenExpiration:  time.Hour,
		GateMaxAttempts:      3,
		GateLockoutDuration:  5 * time.Minute,
		GateSessionWindow:    30 * time.Minute,
		AuditSigningKey:      "integration-audit-key",
	}

	container := app.NewContainer(cfg)
	ctx := context.Background()

	userUseCase, err := container.UserUseCase()
	require.NoError(t, err, "failed to get user use case")
	for email, role := range map[string]authDomain.Role{
		adminEmail: authDomain.RoleAdmin,
		staffEmail: authDomain.RoleStaff,
	} {
		_, err := userUseCase.Create(ctx, &authDomain.CreateUserInput{
			Name:     string(role) + " user",
			Email:    email,
			Password: userPassword,
			Role:     role,
		})
		require.NoError(t, err, "failed to create "+email)
	}

	gateUseCase, err := container.GateUseCase()
	require.NoError(t, err, "failed to get gate use case")
	require.NoError(t, gateUseCase.SetPassword(ctx, gatePassword))

	server, err := container.HTTPServer(ctx)
	require.NoError(t, err, "failed to create http server")

	itc := &integrationTestContext{
		container: container,
		db:        db,
		server:    httptest.NewServer(server.GetHandler()),
		dbDriver:  dbDriver,
	}
	itc.adminToken = itc.login(t, adminEmail)
	itc.staffToken = itc.login(t, staffEmail)

	t.Cleanup(func() {
		itc.server.Close()
		assert.NoError(t, container.Shutdown(context.Background()))
		testutil.TeardownDB(t, db)
	})

	return itc
}

func typedSignature(t *testing.T) string {
	t.Helper()

	pad := signature.NewPad(alwaysYes{}, signature.DefaultConfig())
	require.NoError(t, pad.SetMode(signature.ModeType))
	require.NoError(t, pad.SetText(testSignerName))
	result, err := pad.Confirm()
	require.NoError(t, err)
	return result.ImageData
}

func submitRequest(t *testing.T) authorizationDTO.SubmitRequest {
	return authorizationDTO.SubmitRequest{
		AuthorizationName: "Jane Q. Public",
		CompanyName:       "Acme Corp",
		BillingAddress:    "1 Main Street",
		CityState:         "Springfield, IL",
		PostalCode:        "62701",
		Phone:             "555-0100",
		Email:             "jane@example.com",
		AccountType:       "Visa",
		CardholderName:    "Jane Q. Public",
		AccountNumber:     testCardPAN,
		ExpirationDate:    "12/30",
		CVV:               testCardCVV,
		SignatureData:     typedSignature(t),
		SignatureType:     "typed",
	}
}

func TestIntegration_Health(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	for _, driver := range []string{"postgres", "mysql"} {
		t.Run(driver, func(t *testing.T) {
			itc := setupIntegrationTest(t, driver)

			resp, body := itc.makeRequest(t, http.MethodGet, "/health", nil, "")
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.JSONEq(t, `{"status":"healthy"}`, string(body))

			resp, body = itc.makeRequest(t, http.MethodGet, "/ready", nil, "")
			assert.Equal(t, http.StatusOK, resp.StatusCode, string(body))
		})
	}
}

func TestIntegration_CaptureAndDisclosure(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	for _, driver := range []string{"postgres", "mysql"} {
		t.Run(driver, func(t *testing.T) {
			itc := setupIntegrationTest(t, driver)

			// Public submission.
			resp, body := itc.makeRequest(t, http.MethodPost, "/v1/authorizations", submitRequest(t), "")
			require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

			var submitted authorizationDTO.SubmitResponse
			require.NoError(t, json.Unmarshal(body, &submitted))
			assert.True(t, submitted.Success)
			assert.Regexp(t, `^CC-[0-9A-Z]+-[0-9A-Z]{8}$`, submitted.ConfirmationNumber)

			// Staff users never reach card data.
			resp, _ = itc.makeRequest(t, http.MethodGet, "/v1/admin/authorizations", nil, itc.staffToken)
			assert.Equal(t, http.StatusForbidden, resp.StatusCode)

			// Admins need an unlocked gate.
			resp, _ = itc.makeRequest(t, http.MethodGet, "/v1/admin/authorizations", nil, itc.adminToken)
			assert.Equal(t, http.StatusForbidden, resp.StatusCode)

			resp, body = itc.makeRequest(t, http.MethodPost, "/v1/admin/gate/verify",
				map[string]string{"passwordHash": gateDomain.HashPassword("wrong")}, itc.adminToken)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Contains(t, string(body), `"remainingAttempts":2`)

			resp, body = itc.makeRequest(t, http.MethodPost, "/v1/admin/gate/verify",
				map[string]string{"passwordHash": gateDomain.HashPassword(gatePassword)}, itc.adminToken)
			require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

			// List shows ciphertext and last four only.
			resp, body = itc.makeRequest(t, http.MethodGet, "/v1/admin/authorizations", nil, itc.adminToken)
			require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
			assert.NotContains(t, string(body), testCardPAN)

			var list authorizationDTO.ListAuthorizationsResponse
			require.NoError(t, json.Unmarshal(body, &list))
			require.Len(t, list.Data, 1)
			record := list.Data[0]
			assert.Equal(t, submitted.ConfirmationNumber, record.ConfirmationNumber)
			assert.Equal(t, "1111", record.AccountNumberLast4)
			assert.NotEqual(t, testCardPAN, record.AccountNumberEncrypted)

			resp, body = itc.makeRequest(t, http.MethodGet, "/v1/admin/authorizations/"+record.ID, nil, itc.adminToken)
			require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

			// Disclosure returns the plaintext and is audited.
			decrypt := authorizationDTO.DecryptRequest{
				AuthorizationID:     record.ID,
				EncryptedCardNumber: record.AccountNumberEncrypted,
				EncryptedCVV:        record.CVVEncrypted,
			}
			resp, body = itc.makeRequest(t, http.MethodPost, "/v1/admin/authorizations/decrypt", decrypt, itc.adminToken)
			require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
			assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))

			var revealed authorizationDTO.DecryptResponse
			require.NoError(t, json.Unmarshal(body, &revealed))
			assert.Equal(t, testCardPAN, revealed.CardNumber)
			assert.Equal(t, testCardCVV, revealed.CVV)

			// Staff decrypt is refused and leaves no trace.
			resp, _ = itc.makeRequest(t, http.MethodPost, "/v1/admin/authorizations/decrypt", decrypt, itc.staffToken)
			assert.Equal(t, http.StatusForbidden, resp.StatusCode)

			resp, body = itc.makeRequest(t, http.MethodGet, "/v1/admin/audit-logs", nil, itc.adminToken)
			require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

			var logs auditDTO.ListAccessLogsResponse
			require.NoError(t, json.Unmarshal(body, &logs))

			actions := make(map[string]int)
			for _, entry := range logs.Data {
				actions[entry.Action]++
				assert.Equal(t, adminEmail, entry.UserEmail)
				assert.NotEmpty(t, entry.Signature)
			}
			assert.Equal(t, 1, actions["password_verified"])
			assert.Equal(t, 1, actions["view_list"])
			assert.Equal(t, 1, actions["view_detail"])
			assert.Equal(t, 1, actions["view_full_card_number"])
		})
	}
}

func TestIntegration_GateLockout(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	for _, driver := range []string{"postgres", "mysql"} {
		t.Run(driver, func(t *testing.T) {
			itc := setupIntegrationTest(t, driver)
			wrong := map[string]string{"passwordHash": gateDomain.HashPassword("nope")}

			for remaining := 2; remaining >= 0; remaining-- {
				resp, body := itc.makeRequest(t, http.MethodPost, "/v1/admin/gate/verify", wrong, itc.adminToken)
				assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
				assert.Contains(t, string(body), fmt.Sprintf(`"remainingAttempts":%d`, remaining))
			}

			resp, body := itc.makeRequest(t, http.MethodPost, "/v1/admin/gate/verify",
				map[string]string{"passwordHash": gateDomain.HashPassword(gatePassword)}, itc.adminToken)
			assert.Equal(t, http.StatusLocked, resp.StatusCode)
			assert.Contains(t, string(body), `"retryAfterSeconds"`)

			resp, _ = itc.makeRequest(t, http.MethodGet, "/v1/admin/audit-logs", nil, itc.adminToken)
			assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		})
	}
}
