package models

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/Techno-SamXa/Fungus-sub000/config"
	"github.com/Techno-SamXa/Fungus-sub000/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// The three commercial document families share one shape (parent row plus
// detail lines) and one engine; everything family-specific lives in a
// FamiliaConfig.

type Familia string

const (
	FamiliaCompra     Familia = "compra"
	FamiliaVenta      Familia = "venta"
	FamiliaCotizacion Familia = "cotizacion"
)

// IVA is fixed at 19%.
var tasaIVA = decimal.New(19, -2)

type FamiliaConfig struct {
	Familia       Familia
	Prefijo       string
	EstadoInicial string
	Estados       []string
	// DescuentaGlobal: the total subtracts the aggregate discount on top of
	// the line-netted subtotal (cotizaciones only; the subtraction happens
	// twice when line discounts are used, which downstream clients expect).
	DescuentaGlobal bool
}

var (
	ConfigCompra = FamiliaConfig{
		Familia:       FamiliaCompra,
		Prefijo:       "COM",
		EstadoInicial: "pending",
		Estados:       []string{"pending", "received", "cancelled", "invoiced"},
	}
	ConfigVenta = FamiliaConfig{
		Familia:       FamiliaVenta,
		Prefijo:       "VEN",
		EstadoInicial: "pending",
		Estados:       []string{"pending", "paid", "cancelled", "invoiced", "delivered", "confirmed", "sent"},
	}
	ConfigCotizacion = FamiliaConfig{
		Familia:         FamiliaCotizacion,
		Prefijo:         "COT",
		EstadoInicial:   "draft",
		Estados:         []string{"draft", "sent", "accepted", "rejected", "expired"},
		DescuentaGlobal: true,
	}
)

// EstadoValido checks enum membership only. There is no transition graph:
// any estado may be written at any time.
func (c FamiliaConfig) EstadoValido(estado string) bool {
	for _, e := range c.Estados {
		if e == estado {
			return true
		}
	}
	return false
}

// InputError marks a request payload problem (maps to HTTP 400).
type InputError string

func (e InputError) Error() string { return string(e) }

// resolverEstado defaults an empty estado to the family's initial state.
func resolverEstado(cfg FamiliaConfig, estado string) (string, error) {
	if estado == "" {
		return cfg.EstadoInicial, nil
	}
	if !cfg.EstadoValido(estado) {
		return "", InputError("estado inválido: " + estado)
	}
	return estado, nil
}

// ParseFecha accepts "2006-01-02" or RFC3339 and normalizes to UTC.
func ParseFecha(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, InputError("fecha inválida: " + s)
	}
	return t.UTC(), nil
}

/* Totals */

// LineaDocumento is the slice of a detail line the totals calculator needs.
type LineaDocumento interface {
	LineaCantidad() int64
	LineaPrecioUnitario() int64
	LineaDescuento() int64
}

// Totales holds the four derived monetary fields, in currency minor units.
type Totales struct {
	Subtotal  int64
	Descuento int64
	Impuesto  int64
	Total     int64
}

func SubtotalLinea(cantidad, precioUnitario, descuento int64) int64 {
	return cantidad*precioUnitario - descuento
}

// CalcularTotales derives subtotal, aggregate discount, IVA, and total from
// the current line set. subtotal sums line subtotals (already net of line
// discounts); impuesto = round(subtotal * 0.19) half-up; total adds impuesto
// and, for families with DescuentaGlobal, subtracts the aggregate discount.
func CalcularTotales[L LineaDocumento](lineas []L, cfg FamiliaConfig) Totales {
	var subtotal, descuento int64
	for _, l := range lineas {
		subtotal += SubtotalLinea(l.LineaCantidad(), l.LineaPrecioUnitario(), l.LineaDescuento())
		descuento += l.LineaDescuento()
	}

	impuesto := decimal.NewFromInt(subtotal).Mul(tasaIVA).Round(0).IntPart()

	total := subtotal + impuesto
	if cfg.DescuentaGlobal {
		total = subtotal - descuento + impuesto
	}

	return Totales{
		Subtotal:  subtotal,
		Descuento: descuento,
		Impuesto:  impuesto,
		Total:     total,
	}
}

func validarLinea(cantidad, precioUnitario, descuento int64) error {
	if cantidad <= 0 {
		return InputError("cantidad must be positive")
	}
	if precioUnitario < 0 {
		return InputError("precio_unitario must not be negative")
	}
	if descuento < 0 || descuento > cantidad*precioUnitario {
		return InputError("descuento must be between 0 and the line amount")
	}
	return nil
}

/* Numbering */

// GenerarNumero produces "{PREFIJO}-{YEAR}-{NNNN}" with a random 4-digit
// sequence. No uniqueness check is performed against existing documents;
// collisions are possible and accepted.
func GenerarNumero(cfg FamiliaConfig, now time.Time) string {
	return fmt.Sprintf("%s-%d-%04d", cfg.Prefijo, now.Year(), rand.Intn(10000))
}

/* Transaction engine */

// crearDocumento writes the parent row and all of its line rows in one
// transaction. Lines travel as the parent's gorm association, so a failed
// line insert rolls the parent insert back too.
func crearDocumento(ctx context.Context, doc any) error {
	db := config.GetDB()
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback().Error
			panic(r)
		}
	}()

	if err := tx.WithContext(ctx).Create(doc).Error; err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

// reemplazarDetalles rewrites the parent's mutable fields and fully replaces
// its line set: delete every existing line for the document, insert the new
// set. There is no diffing of individual lines.
func reemplazarDetalles[L any](ctx context.Context, doc any, fkColumna string, docID int, lineas []L) error {
	db := config.GetDB()
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback().Error
			panic(r)
		}
	}()

	if err := tx.WithContext(ctx).Omit(clause.Associations).Save(doc).Error; err != nil {
		tx.Rollback()
		return err
	}
	var linea L
	if err := tx.WithContext(ctx).Where(fkColumna+" = ?", docID).Delete(&linea).Error; err != nil {
		tx.Rollback()
		return err
	}
	if len(lineas) > 0 {
		if err := tx.WithContext(ctx).Create(&lineas).Error; err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit().Error
}

// eliminarDocumento removes the line rows first, then the parent, in one
// transaction; the lines reference the parent so the order matters. A parent
// delete affecting zero rows reports not-found after the commit (the line
// delete may have removed orphans even when the parent never existed).
func eliminarDocumento[D any, L any](ctx context.Context, fkColumna string, docID int) error {
	db := config.GetDB()
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback().Error
			panic(r)
		}
	}()

	var linea L
	if err := tx.WithContext(ctx).Where(fkColumna+" = ?", docID).Delete(&linea).Error; err != nil {
		tx.Rollback()
		return err
	}
	var doc D
	res := tx.WithContext(ctx).Delete(&doc, docID)
	if res.Error != nil {
		tx.Rollback()
		return res.Error
	}
	if err := tx.Commit().Error; err != nil {
		return err
	}
	if res.RowsAffected == 0 {
		return utils.ErrorRecordNotFound
	}
	return nil
}

// fetchDocumento loads a parent with its lines preloaded.
func fetchDocumento[D any](ctx context.Context, id int, detallesField string) (*D, error) {
	db := config.GetDB()
	var doc D
	err := db.WithContext(ctx).Preload(detallesField).First(&doc, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &doc, nil
}

/* List filter */

// FiltroDocumentos carries the list query: a case-insensitive substring
// search over the party's name/email/tax id, an optional estado, and
// limit/offset pagination.
type FiltroDocumentos struct {
	Search string
	Estado string
	Limit  int
	Offset int
}

func (f *FiltroDocumentos) Normalizar() {
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 50
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

func (f FiltroDocumentos) Like() string {
	return "%" + strings.ToLower(strings.TrimSpace(f.Search)) + "%"
}
