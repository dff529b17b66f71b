package models

import (
	"context"
	"time"

	"github.com/Techno-SamXa/Fungus-sub000/config"
)

// TipoItem says which catalog a cotización line draws from. Cotizaciones are
// the only family quoting from both catalogs.
type TipoItem string

const (
	TipoItemProducto TipoItem = "producto"
	TipoItemInsumo   TipoItem = "insumo"
)

// Cotizacion is a quotation for a cliente. Unlike compras and ventas it
// persists the aggregate descuento and subtracts it in the total on top of
// the line-netted subtotal.
type Cotizacion struct {
	ID               int                 `gorm:"primary_key" json:"id"`
	Numero           string              `gorm:"size:50;not null" json:"numero"`
	ClienteId        int                 `gorm:"index;not null" json:"cliente_id"`
	Fecha            time.Time           `gorm:"not null" json:"fecha"`
	FechaVencimiento *time.Time          `gorm:"default:null" json:"fecha_vencimiento,omitempty"`
	Estado           string              `gorm:"size:20;not null" json:"estado"`
	Subtotal         int64               `gorm:"not null;default:0" json:"subtotal"`
	Descuento        int64               `gorm:"not null;default:0" json:"descuento"`
	Impuesto         int64               `gorm:"not null;default:0" json:"impuesto"`
	Total            int64               `gorm:"not null;default:0" json:"total"`
	Observaciones    string              `gorm:"type:text" json:"observaciones"`
	Notas            string              `gorm:"type:text" json:"notas"`
	Detalles         []DetalleCotizacion `gorm:"foreignKey:CotizacionId" json:"detalles"`
	CreatedAt        time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time           `gorm:"autoUpdateTime" json:"updated_at"`

	NombreCliente string `gorm:"-" json:"nombre_cliente,omitempty"`
}

func (Cotizacion) TableName() string { return "cotizaciones" }

type DetalleCotizacion struct {
	ID             int      `gorm:"primary_key" json:"id"`
	CotizacionId   int      `gorm:"index;not null" json:"cotizacion_id"`
	ItemId         int      `gorm:"index;not null" json:"item_id"`
	TipoItem       TipoItem `gorm:"size:10;not null" json:"tipo_item"`
	Cantidad       int64    `gorm:"not null" json:"cantidad"`
	PrecioUnitario int64    `gorm:"not null" json:"precio_unitario"`
	Descuento      int64    `gorm:"not null;default:0" json:"descuento"`
	Subtotal       int64    `gorm:"not null" json:"subtotal"`

	NombreItem string `gorm:"-" json:"nombre_item,omitempty"`
}

func (DetalleCotizacion) TableName() string { return "detalle_cotizaciones" }

func (d DetalleCotizacion) LineaCantidad() int64       { return d.Cantidad }
func (d DetalleCotizacion) LineaPrecioUnitario() int64 { return d.PrecioUnitario }
func (d DetalleCotizacion) LineaDescuento() int64      { return d.Descuento }

type NuevaCotizacion struct {
	ClienteId        int                      `json:"cliente_id" binding:"required"`
	Fecha            string                   `json:"fecha" binding:"required"`
	FechaVencimiento string                   `json:"fecha_vencimiento"`
	Numero           string                   `json:"numero"`
	Estado           string                   `json:"estado"`
	Observaciones    string                   `json:"observaciones"`
	Notas            string                   `json:"notas"`
	Detalles         []NuevoDetalleCotizacion `json:"detalles"`
}

type NuevoDetalleCotizacion struct {
	ItemId         int      `json:"item_id" binding:"required"`
	TipoItem       TipoItem `json:"tipo_item" binding:"required"`
	Cantidad       int64    `json:"cantidad" binding:"required"`
	PrecioUnitario int64    `json:"precio_unitario"`
	Descuento      int64    `json:"descuento"`
}

func (input *NuevaCotizacion) validate(requireDetalles bool) (time.Time, *time.Time, []DetalleCotizacion, error) {
	if input.ClienteId <= 0 {
		return time.Time{}, nil, nil, InputError("cliente_id is required")
	}
	if input.Fecha == "" {
		return time.Time{}, nil, nil, InputError("fecha is required")
	}
	fecha, err := ParseFecha(input.Fecha)
	if err != nil {
		return time.Time{}, nil, nil, err
	}
	var vencimiento *time.Time
	if input.FechaVencimiento != "" {
		v, err := ParseFecha(input.FechaVencimiento)
		if err != nil {
			return time.Time{}, nil, nil, err
		}
		vencimiento = &v
	}
	if requireDetalles && len(input.Detalles) == 0 {
		return time.Time{}, nil, nil, InputError("detalles must not be empty")
	}

	detalles := make([]DetalleCotizacion, 0, len(input.Detalles))
	for _, d := range input.Detalles {
		if d.ItemId <= 0 {
			return time.Time{}, nil, nil, InputError("item_id is required")
		}
		if d.TipoItem != TipoItemProducto && d.TipoItem != TipoItemInsumo {
			return time.Time{}, nil, nil, InputError("tipo_item must be producto or insumo")
		}
		if err := validarLinea(d.Cantidad, d.PrecioUnitario, d.Descuento); err != nil {
			return time.Time{}, nil, nil, err
		}
		detalles = append(detalles, DetalleCotizacion{
			ItemId:         d.ItemId,
			TipoItem:       d.TipoItem,
			Cantidad:       d.Cantidad,
			PrecioUnitario: d.PrecioUnitario,
			Descuento:      d.Descuento,
			Subtotal:       SubtotalLinea(d.Cantidad, d.PrecioUnitario, d.Descuento),
		})
	}
	return fecha, vencimiento, detalles, nil
}

func CreateCotizacion(ctx context.Context, input *NuevaCotizacion) (*Cotizacion, error) {
	fecha, vencimiento, detalles, err := input.validate(true)
	if err != nil {
		return nil, err
	}
	estado, err := resolverEstado(ConfigCotizacion, input.Estado)
	if err != nil {
		return nil, err
	}

	totales := CalcularTotales(detalles, ConfigCotizacion)

	numero := input.Numero
	if numero == "" {
		numero = GenerarNumero(ConfigCotizacion, time.Now())
	}

	cotizacion := Cotizacion{
		Numero:           numero,
		ClienteId:        input.ClienteId,
		Fecha:            fecha,
		FechaVencimiento: vencimiento,
		Estado:           estado,
		Subtotal:         totales.Subtotal,
		Descuento:        totales.Descuento,
		Impuesto:         totales.Impuesto,
		Total:            totales.Total,
		Observaciones:    input.Observaciones,
		Notas:            input.Notas,
		Detalles:         detalles,
	}

	if err := crearDocumento(ctx, &cotizacion); err != nil {
		return nil, err
	}
	return GetCotizacion(ctx, cotizacion.ID)
}

func GetCotizacion(ctx context.Context, id int) (*Cotizacion, error) {
	cotizacion, err := fetchDocumento[Cotizacion](ctx, id, "Detalles")
	if err != nil {
		return nil, err
	}
	if err := cotizacion.cargarNombres(ctx); err != nil {
		return nil, err
	}
	return cotizacion, nil
}

func ListCotizaciones(ctx context.Context, filtro FiltroDocumentos) ([]*Cotizacion, int64, error) {
	filtro.Normalizar()
	db := config.GetDB()

	dbCtx := db.WithContext(ctx).Model(&Cotizacion{})
	if filtro.Search != "" {
		like := filtro.Like()
		dbCtx = dbCtx.Joins("JOIN clientes ON clientes.id = cotizaciones.cliente_id").
			Where("LOWER(clientes.nombre) LIKE ? OR LOWER(clientes.email) LIKE ? OR LOWER(clientes.rut) LIKE ?", like, like, like)
	}
	if filtro.Estado != "" {
		dbCtx = dbCtx.Where("cotizaciones.estado = ?", filtro.Estado)
	}

	var total int64
	if err := dbCtx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var cotizaciones []*Cotizacion
	err := dbCtx.Preload("Detalles").
		Order("cotizaciones.id desc").
		Limit(filtro.Limit).Offset(filtro.Offset).
		Find(&cotizaciones).Error
	if err != nil {
		return nil, 0, err
	}
	for _, c := range cotizaciones {
		if err := c.cargarNombres(ctx); err != nil {
			return nil, 0, err
		}
	}
	return cotizaciones, total, nil
}

// UpdateCotizacion reports not-found for an unknown id, like compras.
func UpdateCotizacion(ctx context.Context, id int, input *NuevaCotizacion) (*Cotizacion, error) {
	existing, err := fetchDocumento[Cotizacion](ctx, id, "Detalles")
	if err != nil {
		return nil, err
	}

	fecha, vencimiento, detalles, err := input.validate(false)
	if err != nil {
		return nil, err
	}

	totales := CalcularTotales(detalles, ConfigCotizacion)

	existing.ClienteId = input.ClienteId
	existing.Fecha = fecha
	existing.FechaVencimiento = vencimiento
	existing.Observaciones = input.Observaciones
	existing.Notas = input.Notas
	existing.Subtotal = totales.Subtotal
	existing.Descuento = totales.Descuento
	existing.Impuesto = totales.Impuesto
	existing.Total = totales.Total
	if input.Numero != "" {
		existing.Numero = input.Numero
	}
	if input.Estado != "" {
		if !ConfigCotizacion.EstadoValido(input.Estado) {
			return nil, InputError("estado inválido: " + input.Estado)
		}
		existing.Estado = input.Estado
	}
	existing.Detalles = nil

	for i := range detalles {
		detalles[i].CotizacionId = id
	}
	if err := reemplazarDetalles(ctx, existing, "cotizacion_id", id, detalles); err != nil {
		return nil, err
	}
	return GetCotizacion(ctx, id)
}

func DeleteCotizacion(ctx context.Context, id int) error {
	return eliminarDocumento[Cotizacion, DetalleCotizacion](ctx, "cotizacion_id", id)
}

func (c *Cotizacion) cargarNombres(ctx context.Context) error {
	db := config.GetDB()
	var nombre string
	if err := db.WithContext(ctx).Model(&Cliente{}).
		Where("id = ?", c.ClienteId).Select("nombre").Scan(&nombre).Error; err != nil {
		return err
	}
	c.NombreCliente = nombre

	var productoIds, insumoIds []int
	for _, d := range c.Detalles {
		if d.TipoItem == TipoItemInsumo {
			insumoIds = append(insumoIds, d.ItemId)
		} else {
			productoIds = append(productoIds, d.ItemId)
		}
	}
	productos, err := nombresProductos(ctx, productoIds)
	if err != nil {
		return err
	}
	insumos, err := nombresInsumos(ctx, insumoIds)
	if err != nil {
		return err
	}
	for i := range c.Detalles {
		if c.Detalles[i].TipoItem == TipoItemInsumo {
			c.Detalles[i].NombreItem = insumos[c.Detalles[i].ItemId]
		} else {
			c.Detalles[i].NombreItem = productos[c.Detalles[i].ItemId]
		}
	}
	return nil
}
