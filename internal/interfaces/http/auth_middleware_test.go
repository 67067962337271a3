package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/trazabilidad-cafe/internal/application/inventory"
	"github.com/jhoicas/trazabilidad-cafe/internal/application/usecase"
	"github.com/jhoicas/trazabilidad-cafe/internal/domain"
	"github.com/jhoicas/trazabilidad-cafe/internal/domain/entity"
	"github.com/jhoicas/trazabilidad-cafe/internal/domain/repository"
	apphttp "github.com/jhoicas/trazabilidad-cafe/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/trazabilidad-cafe/pkg/jwt"
	"github.com/jhoicas/trazabilidad-cafe/pkg/logger"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testCompanyID = "00000000-0000-0000-0000-000000000002"
	otherCompany  = "00000000-0000-0000-0000-000000000003"
	foreignLotID  = "33333333-3333-3333-3333-333333333333"
)

func tokenFor(t *testing.T, companyID, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, companyID, role, "trazabilidad-cafe-test", 60)
	require.NoError(t, err)
	return "Bearer " + tok
}

func tokenForRole(t *testing.T, role string) string {
	return tokenFor(t, testCompanyID, role)
}

// ── repos en memoria detrás de los casos de uso reales ──

type tenantCatalog struct {
	listedFor  []string
	createdFor []string
}

func (r *tenantCatalog) List(_ context.Context, _, companyID string) ([]entity.CatalogItem, error) {
	r.listedFor = append(r.listedFor, companyID)
	return nil, nil
}

func (r *tenantCatalog) GetByID(context.Context, string, string, string) (*entity.CatalogItem, error) {
	return nil, domain.ErrNotFound
}

func (r *tenantCatalog) Create(_ context.Context, _ string, item *entity.CatalogItem) error {
	r.createdFor = append(r.createdFor, item.CompanyID)
	return nil
}

func (r *tenantCatalog) Update(context.Context, string, *entity.CatalogItem) error { return nil }

func (r *tenantCatalog) Delete(context.Context, string, string, string) error { return nil }

// tenantLots solo conoce un lote, de otra empresa.
type tenantLots struct {
	repository.LotRepository
}

func (tenantLots) GetByID(_ context.Context, companyID, lotID string) (*entity.LotDetail, error) {
	if lotID == foreignLotID && companyID == otherCompany {
		return &entity.LotDetail{Lot: entity.Lot{ID: lotID, CompanyID: otherCompany, Code: "L-AJENO"}}, nil
	}
	return nil, domain.ErrNotFound
}

type tenantQuality struct {
	repository.QualityRepository
	saved int
}

func (q *tenantQuality) SaveCupping(_ context.Context, c *entity.Cupping) error {
	q.saved++
	c.ID = int64(q.saved)
	return nil
}

type routerFixture struct {
	app     *fiber.App
	catalog *tenantCatalog
	quality *tenantQuality
}

// newRouterApp monta el router completo con los casos de uso reales sobre repos en memoria.
func newRouterApp() routerFixture {
	catalog := &tenantCatalog{}
	quality := &tenantQuality{}
	lots := tenantLots{}

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(logger.Nop())})
	apphttp.Router(app, apphttp.RouterDeps{
		CatalogUC: usecase.NewCatalogUseCase(catalog),
		QualityUC: usecase.NewQualityUseCase(quality, lots),
		Reporting: inventory.NewReportingUseCase(lots, nil, nil, inventory.NewLotStateResolver(nil), nil, 1),
		JWTSecret: testJWTSecret,
	})
	return routerFixture{app: app, catalog: catalog, quality: quality}
}

func (f routerFixture) do(t *testing.T, method, target, auth, body string) (int, string) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if auth != "" {
		req.Header.Set(fiber.HeaderAuthorization, auth)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp.StatusCode, string(raw)
}

// ── token y tenant ──

func TestAuthMiddleware_EmpresaSaleDelToken(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":    apphttp.GetUserID(c),
			"company_id": apphttp.GetCompanyID(c),
			"role":       apphttp.GetRole(c),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me?company_id="+otherCompany, nil)
	req.Header.Set(fiber.HeaderAuthorization, tokenFor(t, testCompanyID, entity.RoleCatador))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testCompanyID, body["company_id"], "la query no reemplaza al tenant del token")
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, entity.RoleCatador, body["role"])
}

func TestRouter_CatalogoUsaLaEmpresaDelToken(t *testing.T) {
	f := newRouterApp()

	status, _ := f.do(t, http.MethodGet, "/api/admin/coffee-lines", tokenFor(t, otherCompany, entity.RoleOperador), "")
	require.Equal(t, http.StatusOK, status)
	status, _ = f.do(t, http.MethodPost, "/api/admin/coffee-lines", tokenFor(t, testCompanyID, entity.RoleAdmin),
		`{"name":"Especiales","company_id":"`+otherCompany+`"}`)
	require.Equal(t, http.StatusCreated, status)

	assert.Equal(t, []string{otherCompany}, f.catalog.listedFor)
	assert.Equal(t, []string{testCompanyID}, f.catalog.createdFor)
}

func TestRouter_TokenRechazado(t *testing.T) {
	expired, err := pkgjwt.Generate(testJWTSecret, testUserID, testCompanyID, entity.RoleAdmin, "x", -1)
	require.NoError(t, err)
	otherSecret, err := pkgjwt.Generate("otro-secreto", testUserID, testCompanyID, entity.RoleAdmin, "x", 60)
	require.NoError(t, err)

	cases := []struct {
		name string
		auth string
		code string
	}{
		{"sin header", "", "MISSING_TOKEN"},
		{"esquema basic", "Basic dXNlcjpwYXNz", "INVALID_TOKEN"},
		{"expirado", "Bearer " + expired, "INVALID_TOKEN"},
		{"otro secreto", "Bearer " + otherSecret, "INVALID_TOKEN"},
	}
	f := newRouterApp()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := f.do(t, http.MethodGet, "/api/admin/destinations", tc.auth, "")
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.Contains(t, body, tc.code)
		})
	}
	assert.Empty(t, f.catalog.listedFor)
}

// ── roles por ruta ──

func TestRouter_EscrituraDeCatalogosSoloAdmin(t *testing.T) {
	cases := []struct {
		role   string
		method string
		want   int
	}{
		{entity.RoleCatador, http.MethodGet, http.StatusOK},
		{entity.RoleOperador, http.MethodPost, http.StatusForbidden},
		{entity.RoleCatador, http.MethodPost, http.StatusForbidden},
		{entity.RoleAdmin, http.MethodPost, http.StatusCreated},
		{"", http.MethodPost, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		f := newRouterApp()
		body := ""
		if tc.method == http.MethodPost {
			body = `{"name":"Exportación"}`
		}
		status, raw := f.do(t, tc.method, "/api/admin/services", tokenForRole(t, tc.role), body)
		assert.Equal(t, tc.want, status, "%s %s", tc.role, tc.method)
		if tc.want == http.StatusForbidden {
			assert.Contains(t, raw, "FORBIDDEN")
			assert.Empty(t, f.catalog.createdFor)
		}
		if tc.role == "" {
			assert.Contains(t, raw, "MISSING_ROLE")
		}
	}
}

func TestRouter_CataSoloAdminOCatador(t *testing.T) {
	const ownLot = "44444444-4444-4444-4444-444444444444"
	body := `{"lot_id":"` + ownLot + `","total_score":85,"is_accepted":true}`

	f := newRouterApp()
	status, raw := f.do(t, http.MethodPost, "/api/quality/cupping", tokenForRole(t, entity.RoleOperador), body)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Contains(t, raw, "FORBIDDEN")

	status, _ = f.do(t, http.MethodPut, "/api/quality/cupping", tokenForRole(t, entity.RoleOperador), body)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Zero(t, f.quality.saved)

	// catador pasa el guard y llega al caso de uso; el lote no es de su empresa.
	status, raw = f.do(t, http.MethodPost, "/api/quality/cupping", tokenForRole(t, entity.RoleCatador), body)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Contains(t, raw, "NOT_FOUND")
}

// ── aislamiento entre empresas ──

func TestRouter_LoteDeOtraEmpresaEs404(t *testing.T) {
	f := newRouterApp()

	status, raw := f.do(t, http.MethodGet, "/api/inventory/lots/"+foreignLotID+"/stock", tokenForRole(t, entity.RoleAdmin), "")
	assert.Equal(t, http.StatusNotFound, status, "no 403: el lote ajeno no existe para esta empresa")
	assert.Contains(t, raw, "NOT_FOUND")
	assert.NotContains(t, raw, "L-AJENO")

	status, _ = f.do(t, http.MethodPost, "/api/quality/cupping", tokenForRole(t, entity.RoleAdmin),
		`{"lot_id":"`+foreignLotID+`","is_accepted":true}`)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Zero(t, f.quality.saved)

	status, _ = f.do(t, http.MethodPost, "/api/quality/cupping", tokenFor(t, otherCompany, entity.RoleCatador),
		`{"lot_id":"`+foreignLotID+`","is_accepted":true}`)
	assert.Equal(t, http.StatusCreated, status, "el dueño del lote sí puede catarlo")
	assert.Equal(t, 1, f.quality.saved)
}
