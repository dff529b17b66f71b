package models

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/Techno-SamXa/Fungus-sub000/config"
	"github.com/Techno-SamXa/Fungus-sub000/utils"
)

// setupTestDB points the global connection at a fresh sqlite file and runs
// the migrations. Each test gets its own database.
func setupTestDB(t *testing.T) {
	t.Helper()
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_NAME", filepath.Join(t.TempDir(), "test.db"))
	if err := config.ConnectDatabase(); err != nil {
		t.Fatalf("connect test database: %v", err)
	}
	MigrateTable()
}

func seedProveedor(t *testing.T, nombre string) *Proveedor {
	t.Helper()
	p, err := CreateProveedor(context.Background(), &NuevoProveedor{Nombre: nombre})
	if err != nil {
		t.Fatalf("seed proveedor: %v", err)
	}
	return p
}

func seedCliente(t *testing.T, nombre string) *Cliente {
	t.Helper()
	c, err := CreateCliente(context.Background(), &NuevoCliente{Nombre: nombre})
	if err != nil {
		t.Fatalf("seed cliente: %v", err)
	}
	return c
}

func seedInsumo(t *testing.T, nombre string, precio int64) *Insumo {
	t.Helper()
	i, err := CreateInsumo(context.Background(), &NuevoInsumo{Nombre: nombre, Precio: precio})
	if err != nil {
		t.Fatalf("seed insumo: %v", err)
	}
	return i
}

func seedProducto(t *testing.T, nombre string, precio int64) *Producto {
	t.Helper()
	p, err := CreateProducto(context.Background(), &NuevoProducto{Nombre: nombre, Precio: precio})
	if err != nil {
		t.Fatalf("seed producto: %v", err)
	}
	return p
}

func TestCreateCompra(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	proveedor := seedProveedor(t, "Agro Sur")
	insumo := seedInsumo(t, "Sustrato", 2100)

	compra, err := CreateCompra(ctx, &NuevaCompra{
		ProveedorId: proveedor.ID,
		Fecha:       "2024-06-15",
		Detalles: []NuevoDetalleCompra{
			{InsumoId: insumo.ID, Cantidad: 30, PrecioUnitario: 2100},
			{InsumoId: insumo.ID, Cantidad: 20, PrecioUnitario: 2100},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	if compra.Estado != "pending" {
		t.Errorf("Estado = %q, want pending", compra.Estado)
	}
	if compra.Subtotal != 105000 || compra.Impuesto != 19950 || compra.Total != 124950 {
		t.Errorf("totals = %d/%d/%d, want 105000/19950/124950", compra.Subtotal, compra.Impuesto, compra.Total)
	}
	if len(compra.Detalles) != 2 {
		t.Fatalf("len(Detalles) = %d, want 2", len(compra.Detalles))
	}
	if compra.Detalles[0].Subtotal != 63000 {
		t.Errorf("line subtotal = %d, want 63000", compra.Detalles[0].Subtotal)
	}
	if compra.NombreProveedor != "Agro Sur" {
		t.Errorf("NombreProveedor = %q", compra.NombreProveedor)
	}
	if compra.Detalles[0].NombreInsumo != "Sustrato" {
		t.Errorf("NombreInsumo = %q", compra.Detalles[0].NombreInsumo)
	}
	if compra.Numero == "" {
		t.Error("Numero was not generated")
	}
}

func TestCreateCompraSinDetalles(t *testing.T) {
	setupTestDB(t)
	proveedor := seedProveedor(t, "Agro Sur")

	_, err := CreateCompra(context.Background(), &NuevaCompra{
		ProveedorId: proveedor.ID,
		Fecha:       "2024-06-15",
	})
	var inputErr InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("expected InputError for empty detalles, got %v", err)
	}
}

func TestCreateCompraAtomicidad(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	proveedor := seedProveedor(t, "Agro Sur")

	// Knock out the line table so the association insert fails mid-transaction.
	db := config.GetDB()
	if err := db.Migrator().DropTable(&DetalleCompra{}); err != nil {
		t.Fatal(err)
	}

	_, err := CreateCompra(ctx, &NuevaCompra{
		ProveedorId: proveedor.ID,
		Fecha:       "2024-06-15",
		Detalles:    []NuevoDetalleCompra{{InsumoId: 1, Cantidad: 1, PrecioUnitario: 100}},
	})
	if err == nil {
		t.Fatal("expected error once the line table is gone")
	}

	var count int64
	if err := db.Model(&Compra{}).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("parent row survived a failed line insert: count = %d", count)
	}
}

func TestUpdateCompraReemplazaDetalles(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	proveedor := seedProveedor(t, "Agro Sur")
	insumo := seedInsumo(t, "Sustrato", 2100)

	compra, err := CreateCompra(ctx, &NuevaCompra{
		ProveedorId: proveedor.ID,
		Fecha:       "2024-06-15",
		Detalles: []NuevoDetalleCompra{
			{InsumoId: insumo.ID, Cantidad: 5, PrecioUnitario: 1000},
			{InsumoId: insumo.ID, Cantidad: 3, PrecioUnitario: 500},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	updated, err := UpdateCompra(ctx, compra.ID, &NuevaCompra{
		ProveedorId: proveedor.ID,
		Fecha:       "2024-06-16",
		Estado:      "received",
		Detalles: []NuevoDetalleCompra{
			{InsumoId: insumo.ID, Cantidad: 10, PrecioUnitario: 2000},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(updated.Detalles) != 1 {
		t.Fatalf("len(Detalles) = %d after replace, want 1", len(updated.Detalles))
	}
	if updated.Subtotal != 20000 {
		t.Errorf("Subtotal = %d, want 20000", updated.Subtotal)
	}
	if updated.Estado != "received" {
		t.Errorf("Estado = %q, want received", updated.Estado)
	}

	// No stale rows for the document.
	var count int64
	if err := config.GetDB().Model(&DetalleCompra{}).Where("compra_id = ?", compra.ID).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("detalle rows = %d, want 1", count)
	}
}

func TestUpdateCompraIdempotente(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	proveedor := seedProveedor(t, "Agro Sur")
	insumo := seedInsumo(t, "Sustrato", 2100)

	compra, err := CreateCompra(ctx, &NuevaCompra{
		ProveedorId: proveedor.ID,
		Fecha:       "2024-06-15",
		Detalles:    []NuevoDetalleCompra{{InsumoId: insumo.ID, Cantidad: 5, PrecioUnitario: 1000}},
	})
	if err != nil {
		t.Fatal(err)
	}

	// Applying the same full-replace payload twice must leave the document
	// in the same state, with no duplicated lines.
	payload := &NuevaCompra{
		ProveedorId: proveedor.ID,
		Fecha:       "2024-06-16",
		Estado:      "received",
		Detalles: []NuevoDetalleCompra{
			{InsumoId: insumo.ID, Cantidad: 10, PrecioUnitario: 2000},
			{InsumoId: insumo.ID, Cantidad: 3, PrecioUnitario: 500},
		},
	}
	primera, err := UpdateCompra(ctx, compra.ID, payload)
	if err != nil {
		t.Fatal(err)
	}
	segunda, err := UpdateCompra(ctx, compra.ID, payload)
	if err != nil {
		t.Fatal(err)
	}

	if len(primera.Detalles) != 2 || len(segunda.Detalles) != 2 {
		t.Fatalf("len(Detalles) = %d/%d, want 2/2", len(primera.Detalles), len(segunda.Detalles))
	}
	if primera.Subtotal != segunda.Subtotal || primera.Impuesto != segunda.Impuesto || primera.Total != segunda.Total {
		t.Errorf("totals diverged between identical updates: %d/%d/%d vs %d/%d/%d",
			primera.Subtotal, primera.Impuesto, primera.Total,
			segunda.Subtotal, segunda.Impuesto, segunda.Total)
	}
	if segunda.Subtotal != 21500 {
		t.Errorf("Subtotal = %d, want 21500", segunda.Subtotal)
	}

	var count int64
	if err := config.GetDB().Model(&DetalleCompra{}).Where("compra_id = ?", compra.ID).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("detalle rows = %d after repeated update, want 2", count)
	}
}

func TestUpdateCompraUltimaEscrituraGana(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	proveedor := seedProveedor(t, "Agro Sur")
	insumo := seedInsumo(t, "Sustrato", 2100)

	compra, err := CreateCompra(ctx, &NuevaCompra{
		ProveedorId: proveedor.ID,
		Fecha:       "2024-06-15",
		Detalles:    []NuevoDetalleCompra{{InsumoId: insumo.ID, Cantidad: 5, PrecioUnitario: 1000}},
	})
	if err != nil {
		t.Fatal(err)
	}

	_, err = UpdateCompra(ctx, compra.ID, &NuevaCompra{
		ProveedorId: proveedor.ID,
		Fecha:       "2024-06-16",
		Estado:      "received",
		Detalles: []NuevoDetalleCompra{
			{InsumoId: insumo.ID, Cantidad: 8, PrecioUnitario: 1500},
			{InsumoId: insumo.ID, Cantidad: 2, PrecioUnitario: 700},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	// A later update fully supersedes the earlier one: header and lines.
	_, err = UpdateCompra(ctx, compra.ID, &NuevaCompra{
		ProveedorId: proveedor.ID,
		Fecha:       "2024-06-17",
		Estado:      "invoiced",
		Detalles:    []NuevoDetalleCompra{{InsumoId: insumo.ID, Cantidad: 1, PrecioUnitario: 300}},
	})
	if err != nil {
		t.Fatal(err)
	}

	final, err := GetCompra(ctx, compra.ID)
	if err != nil {
		t.Fatal(err)
	}
	if final.Estado != "invoiced" {
		t.Errorf("Estado = %q, want invoiced", final.Estado)
	}
	if len(final.Detalles) != 1 {
		t.Fatalf("len(Detalles) = %d, want 1", len(final.Detalles))
	}
	if final.Detalles[0].Cantidad != 1 || final.Detalles[0].PrecioUnitario != 300 {
		t.Errorf("line = %d x %d, want 1 x 300", final.Detalles[0].Cantidad, final.Detalles[0].PrecioUnitario)
	}
	if final.Subtotal != 300 {
		t.Errorf("Subtotal = %d, want 300", final.Subtotal)
	}
}

func TestUpdateCompraSinDetallesVaciaLineas(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	proveedor := seedProveedor(t, "Agro Sur")
	insumo := seedInsumo(t, "Sustrato", 2100)

	compra, err := CreateCompra(ctx, &NuevaCompra{
		ProveedorId: proveedor.ID,
		Fecha:       "2024-06-15",
		Detalles:    []NuevoDetalleCompra{{InsumoId: insumo.ID, Cantidad: 5, PrecioUnitario: 1000}},
	})
	if err != nil {
		t.Fatal(err)
	}

	// Empty detalles is valid on update and zeroes the document out.
	updated, err := UpdateCompra(ctx, compra.ID, &NuevaCompra{
		ProveedorId: proveedor.ID,
		Fecha:       "2024-06-15",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(updated.Detalles) != 0 {
		t.Errorf("len(Detalles) = %d, want 0", len(updated.Detalles))
	}
	if updated.Subtotal != 0 || updated.Impuesto != 0 || updated.Total != 0 {
		t.Errorf("totals = %d/%d/%d, want zeros", updated.Subtotal, updated.Impuesto, updated.Total)
	}
}

func TestUpdateCompraInexistente(t *testing.T) {
	setupTestDB(t)

	_, err := UpdateCompra(context.Background(), 9999, &NuevaCompra{
		ProveedorId: 1,
		Fecha:       "2024-06-15",
	})
	if !errors.Is(err, utils.ErrorRecordNotFound) {
		t.Errorf("expected record-not-found, got %v", err)
	}
}

func TestUpdateVentaInexistenteEsNoOp(t *testing.T) {
	setupTestDB(t)

	venta, err := UpdateVenta(context.Background(), 9999, &NuevaVenta{
		ClienteId: 1,
		Fecha:     "2024-06-15",
	})
	if err != nil {
		t.Fatalf("missing venta update should be silent, got %v", err)
	}
	if venta != nil {
		t.Errorf("expected nil venta, got %+v", venta)
	}
}

func TestDeleteCompra(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	proveedor := seedProveedor(t, "Agro Sur")
	insumo := seedInsumo(t, "Sustrato", 2100)

	compra, err := CreateCompra(ctx, &NuevaCompra{
		ProveedorId: proveedor.ID,
		Fecha:       "2024-06-15",
		Detalles:    []NuevoDetalleCompra{{InsumoId: insumo.ID, Cantidad: 5, PrecioUnitario: 1000}},
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := DeleteCompra(ctx, compra.ID); err != nil {
		t.Fatal(err)
	}

	if _, err := GetCompra(ctx, compra.ID); !errors.Is(err, utils.ErrorRecordNotFound) {
		t.Errorf("expected record-not-found after delete, got %v", err)
	}
	var count int64
	if err := config.GetDB().Model(&DetalleCompra{}).Where("compra_id = ?", compra.ID).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("detalle rows = %d after delete, want 0", count)
	}

	if err := DeleteCompra(ctx, compra.ID); !errors.Is(err, utils.ErrorRecordNotFound) {
		t.Errorf("second delete should report not-found, got %v", err)
	}
}

func TestListComprasBusquedaYEstado(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	agro := seedProveedor(t, "Agro Sur")
	fungi := seedProveedor(t, "Fungi SpA")
	insumo := seedInsumo(t, "Sustrato", 2100)

	mk := func(proveedorId int, estado string) {
		t.Helper()
		_, err := CreateCompra(ctx, &NuevaCompra{
			ProveedorId: proveedorId,
			Fecha:       "2024-06-15",
			Estado:      estado,
			Detalles:    []NuevoDetalleCompra{{InsumoId: insumo.ID, Cantidad: 1, PrecioUnitario: 100}},
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	mk(agro.ID, "pending")
	mk(agro.ID, "received")
	mk(fungi.ID, "pending")

	compras, total, err := ListCompras(ctx, FiltroDocumentos{Search: "FUNGI"})
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || len(compras) != 1 {
		t.Fatalf("search total = %d len = %d, want 1/1", total, len(compras))
	}
	if compras[0].NombreProveedor != "Fungi SpA" {
		t.Errorf("NombreProveedor = %q", compras[0].NombreProveedor)
	}

	_, total, err = ListCompras(ctx, FiltroDocumentos{Estado: "pending"})
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 {
		t.Errorf("estado filter total = %d, want 2", total)
	}

	page, total, err := ListCompras(ctx, FiltroDocumentos{Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if total != 3 || len(page) != 2 {
		t.Errorf("pagination total = %d len = %d, want 3/2", total, len(page))
	}
	// Newest first.
	if len(page) == 2 && page[0].ID < page[1].ID {
		t.Error("list is not ordered id desc")
	}
}

func TestCompraNombreEsVivoPrecioEsSnapshot(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	proveedor := seedProveedor(t, "Agro Sur")
	insumo := seedInsumo(t, "Sustrato", 2100)

	compra, err := CreateCompra(ctx, &NuevaCompra{
		ProveedorId: proveedor.ID,
		Fecha:       "2024-06-15",
		Detalles:    []NuevoDetalleCompra{{InsumoId: insumo.ID, Cantidad: 2, PrecioUnitario: 2100}},
	})
	if err != nil {
		t.Fatal(err)
	}

	// Catalog changes after the document exists.
	_, err = UpdateInsumo(ctx, insumo.ID, &NuevoInsumo{Nombre: "Sustrato Premium", Precio: 9999})
	if err != nil {
		t.Fatal(err)
	}

	reloaded, err := GetCompra(ctx, compra.ID)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Detalles[0].NombreInsumo != "Sustrato Premium" {
		t.Errorf("NombreInsumo = %q, want the current catalog name", reloaded.Detalles[0].NombreInsumo)
	}
	if reloaded.Detalles[0].PrecioUnitario != 2100 {
		t.Errorf("PrecioUnitario = %d, want the 2100 snapshot", reloaded.Detalles[0].PrecioUnitario)
	}
}

func TestCotizacionConVencimientoYDescuento(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	cliente := seedCliente(t, "Restaurante Centro")
	producto := seedProducto(t, "Ostra Gris", 4500)
	insumo := seedInsumo(t, "Sustrato", 2100)

	cotizacion, err := CreateCotizacion(ctx, &NuevaCotizacion{
		ClienteId:        cliente.ID,
		Fecha:            "2024-06-15",
		FechaVencimiento: "2024-07-15",
		Detalles: []NuevoDetalleCotizacion{
			{ItemId: producto.ID, TipoItem: TipoItemProducto, Cantidad: 10, PrecioUnitario: 1000, Descuento: 2000},
			{ItemId: insumo.ID, TipoItem: TipoItemInsumo, Cantidad: 1, PrecioUnitario: 0},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	if cotizacion.Estado != "draft" {
		t.Errorf("Estado = %q, want draft", cotizacion.Estado)
	}
	if cotizacion.FechaVencimiento == nil {
		t.Fatal("FechaVencimiento was not persisted")
	}
	if cotizacion.Subtotal != 8000 || cotizacion.Descuento != 2000 || cotizacion.Impuesto != 1520 || cotizacion.Total != 7520 {
		t.Errorf("totals = %d/%d/%d/%d, want 8000/2000/1520/7520",
			cotizacion.Subtotal, cotizacion.Descuento, cotizacion.Impuesto, cotizacion.Total)
	}
	if cotizacion.Detalles[0].NombreItem != "Ostra Gris" {
		t.Errorf("producto line NombreItem = %q", cotizacion.Detalles[0].NombreItem)
	}
	if cotizacion.Detalles[1].NombreItem != "Sustrato" {
		t.Errorf("insumo line NombreItem = %q", cotizacion.Detalles[1].NombreItem)
	}
	if cotizacion.NombreCliente != "Restaurante Centro" {
		t.Errorf("NombreCliente = %q", cotizacion.NombreCliente)
	}
}

func TestCotizacionTipoItemInvalido(t *testing.T) {
	setupTestDB(t)
	cliente := seedCliente(t, "Restaurante Centro")

	_, err := CreateCotizacion(context.Background(), &NuevaCotizacion{
		ClienteId: cliente.ID,
		Fecha:     "2024-06-15",
		Detalles: []NuevoDetalleCotizacion{
			{ItemId: 1, TipoItem: "servicio", Cantidad: 1, PrecioUnitario: 100},
		},
	})
	var inputErr InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("expected InputError for unknown tipo_item, got %v", err)
	}
}

func TestVentaCicloCompleto(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()
	cliente := seedCliente(t, "Restaurante Centro")
	producto := seedProducto(t, "Ostra Gris", 4500)

	venta, err := CreateVenta(ctx, &NuevaVenta{
		ClienteId: cliente.ID,
		Fecha:     "2024-06-15",
		Estado:    "confirmed",
		Detalles:  []NuevoDetalleVenta{{ProductoId: producto.ID, Cantidad: 4, PrecioUnitario: 4500}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if venta.Estado != "confirmed" {
		t.Errorf("Estado = %q, want confirmed", venta.Estado)
	}
	if venta.Subtotal != 18000 || venta.Impuesto != 3420 || venta.Total != 21420 {
		t.Errorf("totals = %d/%d/%d, want 18000/3420/21420", venta.Subtotal, venta.Impuesto, venta.Total)
	}

	updated, err := UpdateVenta(ctx, venta.ID, &NuevaVenta{
		ClienteId: cliente.ID,
		Fecha:     "2024-06-16",
		Estado:    "paid",
		Detalles:  []NuevoDetalleVenta{{ProductoId: producto.ID, Cantidad: 2, PrecioUnitario: 4500}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Subtotal != 9000 || updated.Estado != "paid" {
		t.Errorf("Subtotal = %d Estado = %q after update", updated.Subtotal, updated.Estado)
	}

	if err := DeleteVenta(ctx, venta.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := GetVenta(ctx, venta.ID); !errors.Is(err, utils.ErrorRecordNotFound) {
		t.Errorf("expected record-not-found after delete, got %v", err)
	}
}

func TestVentaEstadoInvalido(t *testing.T) {
	setupTestDB(t)
	cliente := seedCliente(t, "Restaurante Centro")

	_, err := CreateVenta(context.Background(), &NuevaVenta{
		ClienteId: cliente.ID,
		Fecha:     "2024-06-15",
		Estado:    "draft", // cotizacion estado, not a venta one
		Detalles:  []NuevoDetalleVenta{{ProductoId: 1, Cantidad: 1, PrecioUnitario: 100}},
	})
	var inputErr InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("expected InputError, got %v", err)
	}
}
