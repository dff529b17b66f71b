package models

import (
	"context"
	"time"

	"github.com/Techno-SamXa/Fungus-sub000/config"
)

// Compra is a raw-material purchase from a proveedor. Its monetary fields
// are derived from the detalle lines and never independently editable.
type Compra struct {
	ID            int             `gorm:"primary_key" json:"id"`
	Numero        string          `gorm:"size:50;not null" json:"numero"`
	ProveedorId   int             `gorm:"index;not null" json:"proveedor_id"`
	Fecha         time.Time       `gorm:"not null" json:"fecha"`
	Estado        string          `gorm:"size:20;not null" json:"estado"`
	Subtotal      int64           `gorm:"not null;default:0" json:"subtotal"`
	Impuesto      int64           `gorm:"not null;default:0" json:"impuesto"`
	Total         int64           `gorm:"not null;default:0" json:"total"`
	Observaciones string          `gorm:"type:text" json:"observaciones"`
	Notas         string          `gorm:"type:text" json:"notas"`
	Detalles      []DetalleCompra `gorm:"foreignKey:CompraId" json:"detalles"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Read enrichment, not persisted.
	NombreProveedor string `gorm:"-" json:"nombre_proveedor,omitempty"`
}

func (Compra) TableName() string { return "compras" }

type DetalleCompra struct {
	ID             int   `gorm:"primary_key" json:"id"`
	CompraId       int   `gorm:"index;not null" json:"compra_id"`
	InsumoId       int   `gorm:"index;not null" json:"insumo_id"`
	Cantidad       int64 `gorm:"not null" json:"cantidad"`
	PrecioUnitario int64 `gorm:"not null" json:"precio_unitario"`
	Descuento      int64 `gorm:"not null;default:0" json:"descuento"`
	Subtotal       int64 `gorm:"not null" json:"subtotal"`

	NombreInsumo string `gorm:"-" json:"nombre_insumo,omitempty"`
}

func (DetalleCompra) TableName() string { return "detalle_compras" }

func (d DetalleCompra) LineaCantidad() int64       { return d.Cantidad }
func (d DetalleCompra) LineaPrecioUnitario() int64 { return d.PrecioUnitario }
func (d DetalleCompra) LineaDescuento() int64      { return d.Descuento }

type NuevaCompra struct {
	ProveedorId   int                  `json:"proveedor_id" binding:"required"`
	Fecha         string               `json:"fecha" binding:"required"`
	Numero        string               `json:"numero"`
	Estado        string               `json:"estado"`
	Observaciones string               `json:"observaciones"`
	Notas         string               `json:"notas"`
	Detalles      []NuevoDetalleCompra `json:"detalles"`
}

type NuevoDetalleCompra struct {
	InsumoId       int   `json:"insumo_id" binding:"required"`
	Cantidad       int64 `json:"cantidad" binding:"required"`
	PrecioUnitario int64 `json:"precio_unitario"`
	Descuento      int64 `json:"descuento"`
}

// validate checks the payload and builds the detalle rows with their
// snapshot subtotals. Detalles must be non-empty on create only.
func (input *NuevaCompra) validate(requireDetalles bool) (time.Time, []DetalleCompra, error) {
	if input.ProveedorId <= 0 {
		return time.Time{}, nil, InputError("proveedor_id is required")
	}
	if input.Fecha == "" {
		return time.Time{}, nil, InputError("fecha is required")
	}
	fecha, err := ParseFecha(input.Fecha)
	if err != nil {
		return time.Time{}, nil, err
	}
	if requireDetalles && len(input.Detalles) == 0 {
		return time.Time{}, nil, InputError("detalles must not be empty")
	}

	detalles := make([]DetalleCompra, 0, len(input.Detalles))
	for _, d := range input.Detalles {
		if d.InsumoId <= 0 {
			return time.Time{}, nil, InputError("insumo_id is required")
		}
		if err := validarLinea(d.Cantidad, d.PrecioUnitario, d.Descuento); err != nil {
			return time.Time{}, nil, err
		}
		detalles = append(detalles, DetalleCompra{
			InsumoId:       d.InsumoId,
			Cantidad:       d.Cantidad,
			PrecioUnitario: d.PrecioUnitario,
			Descuento:      d.Descuento,
			Subtotal:       SubtotalLinea(d.Cantidad, d.PrecioUnitario, d.Descuento),
		})
	}
	return fecha, detalles, nil
}

// CreateCompra writes the parent and its lines atomically. A proveedor or
// insumo id referencing nothing is not pre-checked; the store surfaces it.
func CreateCompra(ctx context.Context, input *NuevaCompra) (*Compra, error) {
	fecha, detalles, err := input.validate(true)
	if err != nil {
		return nil, err
	}
	estado, err := resolverEstado(ConfigCompra, input.Estado)
	if err != nil {
		return nil, err
	}

	totales := CalcularTotales(detalles, ConfigCompra)

	numero := input.Numero
	if numero == "" {
		numero = GenerarNumero(ConfigCompra, time.Now())
	}

	compra := Compra{
		Numero:        numero,
		ProveedorId:   input.ProveedorId,
		Fecha:         fecha,
		Estado:        estado,
		Subtotal:      totales.Subtotal,
		Impuesto:      totales.Impuesto,
		Total:         totales.Total,
		Observaciones: input.Observaciones,
		Notas:         input.Notas,
		Detalles:      detalles,
	}

	if err := crearDocumento(ctx, &compra); err != nil {
		return nil, err
	}
	return GetCompra(ctx, compra.ID)
}

func GetCompra(ctx context.Context, id int) (*Compra, error) {
	compra, err := fetchDocumento[Compra](ctx, id, "Detalles")
	if err != nil {
		return nil, err
	}
	if err := compra.cargarNombres(ctx); err != nil {
		return nil, err
	}
	return compra, nil
}

// ListCompras filters by proveedor name/email/rut substring and estado.
// Pagination is page-based; the handler translates page to offset.
func ListCompras(ctx context.Context, filtro FiltroDocumentos) ([]*Compra, int64, error) {
	filtro.Normalizar()
	db := config.GetDB()

	dbCtx := db.WithContext(ctx).Model(&Compra{})
	if filtro.Search != "" {
		like := filtro.Like()
		dbCtx = dbCtx.Joins("JOIN proveedores ON proveedores.id = compras.proveedor_id").
			Where("LOWER(proveedores.nombre) LIKE ? OR LOWER(proveedores.email) LIKE ? OR LOWER(proveedores.rut) LIKE ?", like, like, like)
	}
	if filtro.Estado != "" {
		dbCtx = dbCtx.Where("compras.estado = ?", filtro.Estado)
	}

	var total int64
	if err := dbCtx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var compras []*Compra
	err := dbCtx.Preload("Detalles").
		Order("compras.id desc").
		Limit(filtro.Limit).Offset(filtro.Offset).
		Find(&compras).Error
	if err != nil {
		return nil, 0, err
	}
	for _, c := range compras {
		if err := c.cargarNombres(ctx); err != nil {
			return nil, 0, err
		}
	}
	return compras, total, nil
}

// UpdateCompra recomputes totals over the new lines and fully replaces the
// line set. An unknown id returns not-found. Empty detalles are accepted and
// leave the document with zero lines.
func UpdateCompra(ctx context.Context, id int, input *NuevaCompra) (*Compra, error) {
	existing, err := fetchDocumento[Compra](ctx, id, "Detalles")
	if err != nil {
		return nil, err
	}

	fecha, detalles, err := input.validate(false)
	if err != nil {
		return nil, err
	}

	totales := CalcularTotales(detalles, ConfigCompra)

	existing.ProveedorId = input.ProveedorId
	existing.Fecha = fecha
	existing.Observaciones = input.Observaciones
	existing.Notas = input.Notas
	existing.Subtotal = totales.Subtotal
	existing.Impuesto = totales.Impuesto
	existing.Total = totales.Total
	if input.Numero != "" {
		existing.Numero = input.Numero
	}
	if input.Estado != "" {
		if !ConfigCompra.EstadoValido(input.Estado) {
			return nil, InputError("estado inválido: " + input.Estado)
		}
		existing.Estado = input.Estado
	}
	existing.Detalles = nil

	for i := range detalles {
		detalles[i].CompraId = id
	}
	if err := reemplazarDetalles(ctx, existing, "compra_id", id, detalles); err != nil {
		return nil, err
	}
	return GetCompra(ctx, id)
}

func DeleteCompra(ctx context.Context, id int) error {
	return eliminarDocumento[Compra, DetalleCompra](ctx, "compra_id", id)
}

func (c *Compra) cargarNombres(ctx context.Context) error {
	db := config.GetDB()
	var nombre string
	if err := db.WithContext(ctx).Model(&Proveedor{}).
		Where("id = ?", c.ProveedorId).Select("nombre").Scan(&nombre).Error; err != nil {
		return err
	}
	c.NombreProveedor = nombre

	ids := make([]int, 0, len(c.Detalles))
	for _, d := range c.Detalles {
		ids = append(ids, d.InsumoId)
	}
	nombres, err := nombresInsumos(ctx, ids)
	if err != nil {
		return err
	}
	for i := range c.Detalles {
		c.Detalles[i].NombreInsumo = nombres[c.Detalles[i].InsumoId]
	}
	return nil
}
