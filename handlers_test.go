package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Techno-SamXa/Fungus-sub000/config"
	"github.com/Techno-SamXa/Fungus-sub000/middlewares"
	"github.com/Techno-SamXa/Fungus-sub000/models"
)

func setupServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_NAME", filepath.Join(t.TempDir(), "test.db"))
	t.Setenv("AUTH_PROVIDER", "dev")
	t.Setenv("UPLOAD_DIR", t.TempDir())
	if err := config.ConnectDatabase(); err != nil {
		t.Fatalf("connect test database: %v", err)
	}
	models.MigrateTable()
	return newRouter(middlewares.NewIdentityProvider())
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer dev-token")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r := setupServer(t)
	w := doJSON(t, r, http.MethodGet, "/health", nil, false)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestRequiresAuth(t *testing.T) {
	r := setupServer(t)

	for _, path := range []string{"/compras", "/ventas", "/cotizaciones", "/productos", "/clientes"} {
		w := doJSON(t, r, http.MethodGet, path, nil, false)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("GET %s without token: status = %d, want 401", path, w.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/compras", nil)
	req.Header.Set("Authorization", "Bearer wrong-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad token: status = %d, want 401", w.Code)
	}
}

func TestUnknownRouteAndMethod(t *testing.T) {
	r := setupServer(t)

	if w := doJSON(t, r, http.MethodGet, "/no-such-route", nil, true); w.Code != http.StatusNotFound {
		t.Errorf("unknown route: status = %d, want 404", w.Code)
	}
	if w := doJSON(t, r, http.MethodPatch, "/compras/1", nil, true); w.Code != http.StatusMethodNotAllowed {
		t.Errorf("PATCH: status = %d, want 405", w.Code)
	}
}

func TestVentaEndpoints(t *testing.T) {
	r := setupServer(t)
	ctx := context.Background()

	cliente, err := models.CreateCliente(ctx, &models.NuevoCliente{Nombre: "Restaurante Centro"})
	if err != nil {
		t.Fatal(err)
	}
	producto, err := models.CreateProducto(ctx, &models.NuevoProducto{Nombre: "Ostra Gris", Precio: 4500})
	if err != nil {
		t.Fatal(err)
	}

	w := doJSON(t, r, http.MethodPost, "/ventas", map[string]any{
		"cliente_id": cliente.ID,
		"fecha":      "2024-06-15",
		"detalles": []map[string]any{
			{"producto_id": producto.ID, "cantidad": 4, "precio_unitario": 4500},
		},
	}, true)
	if w.Code != http.StatusCreated {
		t.Fatalf("create venta: status = %d body = %s", w.Code, w.Body.String())
	}
	var created models.Venta
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.Total != 21420 {
		t.Errorf("Total = %d, want 21420", created.Total)
	}

	w = doJSON(t, r, http.MethodGet, "/ventas", nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("list ventas: status = %d", w.Code)
	}
	var list struct {
		Data  []models.Venta `json:"data"`
		Total int64          `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if list.Total != 1 || len(list.Data) != 1 {
		t.Errorf("list total = %d len = %d, want 1/1", list.Total, len(list.Data))
	}

	if w := doJSON(t, r, http.MethodGet, "/ventas/9999", nil, true); w.Code != http.StatusNotFound {
		t.Errorf("get missing venta: status = %d, want 404", w.Code)
	}

	// Updating a missing venta is a silent no-op, not an error.
	w = doJSON(t, r, http.MethodPut, "/ventas/9999", map[string]any{
		"cliente_id": cliente.ID,
		"fecha":      "2024-06-15",
	}, true)
	if w.Code != http.StatusOK {
		t.Errorf("update missing venta: status = %d, want 200", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/ventas", map[string]any{"fecha": "2024-06-15"}, true)
	if w.Code != http.StatusBadRequest {
		t.Errorf("create without cliente_id: status = %d, want 400", w.Code)
	}

	w = doJSON(t, r, http.MethodDelete, "/ventas/9999", nil, true)
	if w.Code != http.StatusNotFound {
		t.Errorf("delete missing venta: status = %d, want 404", w.Code)
	}
}

func TestCollectionRouteIdForms(t *testing.T) {
	r := setupServer(t)
	ctx := context.Background()

	proveedor, err := models.CreateProveedor(ctx, &models.NuevoProveedor{Nombre: "Agro Sur"})
	if err != nil {
		t.Fatal(err)
	}
	insumo, err := models.CreateInsumo(ctx, &models.NuevoInsumo{Nombre: "Sustrato"})
	if err != nil {
		t.Fatal(err)
	}
	compra, err := models.CreateCompra(ctx, &models.NuevaCompra{
		ProveedorId: proveedor.ID,
		Fecha:       "2024-06-15",
		Detalles:    []models.NuevoDetalleCompra{{InsumoId: insumo.ID, Cantidad: 1, PrecioUnitario: 100}},
	})
	if err != nil {
		t.Fatal(err)
	}

	// ?id= on the collection path fetches one document instead of listing.
	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/compras?id=%d", compra.ID), nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /compras?id=: status = %d", w.Code)
	}
	var fetched models.Compra
	if err := json.Unmarshal(w.Body.Bytes(), &fetched); err != nil {
		t.Fatal(err)
	}
	if fetched.ID != compra.ID {
		t.Errorf("fetched id = %d, want %d", fetched.ID, compra.ID)
	}

	// Collection-level PUT/DELETE without an id are rejected.
	w = doJSON(t, r, http.MethodPut, "/compras", map[string]any{
		"proveedor_id": proveedor.ID,
		"fecha":        "2024-06-15",
	}, true)
	if w.Code != http.StatusBadRequest {
		t.Errorf("PUT /compras without id: status = %d, want 400", w.Code)
	}
	if w := doJSON(t, r, http.MethodDelete, "/compras", nil, true); w.Code != http.StatusBadRequest {
		t.Errorf("DELETE /compras without id: status = %d, want 400", w.Code)
	}

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/compras?id=%d", compra.ID), nil, true)
	if w.Code != http.StatusOK {
		t.Errorf("DELETE /compras?id=: status = %d, want 200", w.Code)
	}
}

func TestCompraNotFoundSemantics(t *testing.T) {
	r := setupServer(t)

	// Compras, unlike ventas, report 404 on a missing-id update.
	w := doJSON(t, r, http.MethodPut, "/compras/9999", map[string]any{
		"proveedor_id": 1,
		"fecha":        "2024-06-15",
	}, true)
	if w.Code != http.StatusNotFound {
		t.Errorf("update missing compra: status = %d, want 404", w.Code)
	}
}

func TestLogin(t *testing.T) {
	r := setupServer(t)

	_, err := models.CreateUsuario(context.Background(), &models.NuevoUsuario{
		Username: "admin",
		Password: "secret123",
		Role:     models.RolAdmin,
	})
	if err != nil {
		t.Fatal(err)
	}

	w := doJSON(t, r, http.MethodPost, "/auth/login", map[string]any{
		"username": "admin",
		"password": "secret123",
	}, false)
	if w.Code != http.StatusOK {
		t.Fatalf("login: status = %d body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Token == "" {
		t.Error("login response has no token")
	}

	w = doJSON(t, r, http.MethodPost, "/auth/login", map[string]any{
		"username": "admin",
		"password": "wrong",
	}, false)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad password: status = %d, want 401", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/auth/login", map[string]any{"username": "admin"}, false)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing password: status = %d, want 400", w.Code)
	}
}

func TestAuthMe(t *testing.T) {
	r := setupServer(t)

	if w := doJSON(t, r, http.MethodGet, "/auth/me", nil, false); w.Code != http.StatusUnauthorized {
		t.Errorf("GET /auth/me without token: status = %d, want 401", w.Code)
	}

	w := doJSON(t, r, http.MethodGet, "/auth/me", nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /auth/me: status = %d body = %s", w.Code, w.Body.String())
	}
	var me struct {
		Username string `json:"username"`
		Role     string `json:"role"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &me); err != nil {
		t.Fatal(err)
	}
	if me.Username != "dev" || me.Role != "dev" {
		t.Errorf("me = %s/%s, want dev/dev", me.Username, me.Role)
	}
}

func TestExportVentas(t *testing.T) {
	r := setupServer(t)
	ctx := context.Background()

	cliente, err := models.CreateCliente(ctx, &models.NuevoCliente{Nombre: "Restaurante Centro"})
	if err != nil {
		t.Fatal(err)
	}
	producto, err := models.CreateProducto(ctx, &models.NuevoProducto{Nombre: "Ostra Gris", Precio: 4500})
	if err != nil {
		t.Fatal(err)
	}
	_, err = models.CreateVenta(ctx, &models.NuevaVenta{
		ClienteId: cliente.ID,
		Fecha:     "2024-06-15",
		Detalles:  []models.NuevoDetalleVenta{{ProductoId: producto.ID, Cantidad: 1, PrecioUnitario: 4500}},
	})
	if err != nil {
		t.Fatal(err)
	}

	w := doJSON(t, r, http.MethodGet, "/ventas/export", nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("export: status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("Content-Type = %q", ct)
	}
	if w.Body.Len() == 0 {
		t.Error("export body is empty")
	}
}
