package models

import (
	"context"
	"errors"
	"time"

	"github.com/Techno-SamXa/Fungus-sub000/config"
	"github.com/Techno-SamXa/Fungus-sub000/utils"
)

// Venta is a product sale to a cliente. Same aggregate shape as Compra;
// lines snapshot the producto price at write time.
type Venta struct {
	ID            int            `gorm:"primary_key" json:"id"`
	Numero        string         `gorm:"size:50;not null" json:"numero"`
	ClienteId     int            `gorm:"index;not null" json:"cliente_id"`
	Fecha         time.Time      `gorm:"not null" json:"fecha"`
	Estado        string         `gorm:"size:20;not null" json:"estado"`
	Subtotal      int64          `gorm:"not null;default:0" json:"subtotal"`
	Impuesto      int64          `gorm:"not null;default:0" json:"impuesto"`
	Total         int64          `gorm:"not null;default:0" json:"total"`
	Observaciones string         `gorm:"type:text" json:"observaciones"`
	Notas         string         `gorm:"type:text" json:"notas"`
	Detalles      []DetalleVenta `gorm:"foreignKey:VentaId" json:"detalles"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`

	NombreCliente string `gorm:"-" json:"nombre_cliente,omitempty"`
}

func (Venta) TableName() string { return "ventas" }

type DetalleVenta struct {
	ID             int   `gorm:"primary_key" json:"id"`
	VentaId        int   `gorm:"index;not null" json:"venta_id"`
	ProductoId     int   `gorm:"index;not null" json:"producto_id"`
	Cantidad       int64 `gorm:"not null" json:"cantidad"`
	PrecioUnitario int64 `gorm:"not null" json:"precio_unitario"`
	Descuento      int64 `gorm:"not null;default:0" json:"descuento"`
	Subtotal       int64 `gorm:"not null" json:"subtotal"`

	NombreProducto string `gorm:"-" json:"nombre_producto,omitempty"`
}

func (DetalleVenta) TableName() string { return "detalle_ventas" }

func (d DetalleVenta) LineaCantidad() int64       { return d.Cantidad }
func (d DetalleVenta) LineaPrecioUnitario() int64 { return d.PrecioUnitario }
func (d DetalleVenta) LineaDescuento() int64      { return d.Descuento }

type NuevaVenta struct {
	ClienteId     int                 `json:"cliente_id" binding:"required"`
	Fecha         string              `json:"fecha" binding:"required"`
	Numero        string              `json:"numero"`
	Estado        string              `json:"estado"`
	Observaciones string              `json:"observaciones"`
	Notas         string              `json:"notas"`
	Detalles      []NuevoDetalleVenta `json:"detalles"`
}

type NuevoDetalleVenta struct {
	ProductoId     int   `json:"producto_id" binding:"required"`
	Cantidad       int64 `json:"cantidad" binding:"required"`
	PrecioUnitario int64 `json:"precio_unitario"`
	Descuento      int64 `json:"descuento"`
}

func (input *NuevaVenta) validate(requireDetalles bool) (time.Time, []DetalleVenta, error) {
	if input.ClienteId <= 0 {
		return time.Time{}, nil, InputError("cliente_id is required")
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

	detalles := make([]DetalleVenta, 0, len(input.Detalles))
	for _, d := range input.Detalles {
		if d.ProductoId <= 0 {
			return time.Time{}, nil, InputError("producto_id is required")
		}
		if err := validarLinea(d.Cantidad, d.PrecioUnitario, d.Descuento); err != nil {
			return time.Time{}, nil, err
		}
		detalles = append(detalles, DetalleVenta{
			ProductoId:     d.ProductoId,
			Cantidad:       d.Cantidad,
			PrecioUnitario: d.PrecioUnitario,
			Descuento:      d.Descuento,
			Subtotal:       SubtotalLinea(d.Cantidad, d.PrecioUnitario, d.Descuento),
		})
	}
	return fecha, detalles, nil
}

func CreateVenta(ctx context.Context, input *NuevaVenta) (*Venta, error) {
	fecha, detalles, err := input.validate(true)
	if err != nil {
		return nil, err
	}
	estado, err := resolverEstado(ConfigVenta, input.Estado)
	if err != nil {
		return nil, err
	}

	totales := CalcularTotales(detalles, ConfigVenta)

	numero := input.Numero
	if numero == "" {
		numero = GenerarNumero(ConfigVenta, time.Now())
	}

	venta := Venta{
		Numero:        numero,
		ClienteId:     input.ClienteId,
		Fecha:         fecha,
		Estado:        estado,
		Subtotal:      totales.Subtotal,
		Impuesto:      totales.Impuesto,
		Total:         totales.Total,
		Observaciones: input.Observaciones,
		Notas:         input.Notas,
		Detalles:      detalles,
	}

	if err := crearDocumento(ctx, &venta); err != nil {
		return nil, err
	}
	return GetVenta(ctx, venta.ID)
}

func GetVenta(ctx context.Context, id int) (*Venta, error) {
	venta, err := fetchDocumento[Venta](ctx, id, "Detalles")
	if err != nil {
		return nil, err
	}
	if err := venta.cargarNombres(ctx); err != nil {
		return nil, err
	}
	return venta, nil
}

// ListVentas paginates with offset/limit directly (unlike compras, which
// are page-based).
func ListVentas(ctx context.Context, filtro FiltroDocumentos) ([]*Venta, int64, error) {
	filtro.Normalizar()
	db := config.GetDB()

	dbCtx := db.WithContext(ctx).Model(&Venta{})
	if filtro.Search != "" {
		like := filtro.Like()
		dbCtx = dbCtx.Joins("JOIN clientes ON clientes.id = ventas.cliente_id").
			Where("LOWER(clientes.nombre) LIKE ? OR LOWER(clientes.email) LIKE ? OR LOWER(clientes.rut) LIKE ?", like, like, like)
	}
	if filtro.Estado != "" {
		dbCtx = dbCtx.Where("ventas.estado = ?", filtro.Estado)
	}

	var total int64
	if err := dbCtx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ventas []*Venta
	err := dbCtx.Preload("Detalles").
		Order("ventas.id desc").
		Limit(filtro.Limit).Offset(filtro.Offset).
		Find(&ventas).Error
	if err != nil {
		return nil, 0, err
	}
	for _, v := range ventas {
		if err := v.cargarNombres(ctx); err != nil {
			return nil, 0, err
		}
	}
	return ventas, total, nil
}

// UpdateVenta is a silent no-op when the id references nothing: it returns
// (nil, nil) and the caller answers without touching the store. Compras and
// cotizaciones report not-found instead; the drift is deliberate.
func UpdateVenta(ctx context.Context, id int, input *NuevaVenta) (*Venta, error) {
	existing, err := fetchDocumento[Venta](ctx, id, "Detalles")
	if err != nil {
		if errors.Is(err, utils.ErrorRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	fecha, detalles, err := input.validate(false)
	if err != nil {
		return nil, err
	}

	totales := CalcularTotales(detalles, ConfigVenta)

	existing.ClienteId = input.ClienteId
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
		if !ConfigVenta.EstadoValido(input.Estado) {
			return nil, InputError("estado inválido: " + input.Estado)
		}
		existing.Estado = input.Estado
	}
	existing.Detalles = nil

	for i := range detalles {
		detalles[i].VentaId = id
	}
	if err := reemplazarDetalles(ctx, existing, "venta_id", id, detalles); err != nil {
		return nil, err
	}
	return GetVenta(ctx, id)
}

func DeleteVenta(ctx context.Context, id int) error {
	return eliminarDocumento[Venta, DetalleVenta](ctx, "venta_id", id)
}

func (v *Venta) cargarNombres(ctx context.Context) error {
	db := config.GetDB()
	var nombre string
	if err := db.WithContext(ctx).Model(&Cliente{}).
		Where("id = ?", v.ClienteId).Select("nombre").Scan(&nombre).Error; err != nil {
		return err
	}
	v.NombreCliente = nombre

	ids := make([]int, 0, len(v.Detalles))
	for _, d := range v.Detalles {
		ids = append(ids, d.ProductoId)
	}
	nombres, err := nombresProductos(ctx, ids)
	if err != nil {
		return err
	}
	for i := range v.Detalles {
		v.Detalles[i].NombreProducto = nombres[v.Detalles[i].ProductoId]
	}
	return nil
}
