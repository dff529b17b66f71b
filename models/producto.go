package models

import (
	"context"
	"time"

	"github.com/Techno-SamXa/Fungus-sub000/config"
	"github.com/Techno-SamXa/Fungus-sub000/utils"
)

// Producto is a finished good sold through ventas and quoted in cotizaciones.
type Producto struct {
	ID          int       `gorm:"primary_key" json:"id"`
	Nombre      string    `gorm:"size:150;not null" json:"nombre"`
	Descripcion string    `gorm:"type:text" json:"descripcion"`
	Categoria   string    `gorm:"size:100" json:"categoria"`
	Precio      int64     `gorm:"not null;default:0" json:"precio"`
	Stock       int64     `gorm:"not null;default:0" json:"stock"`
	Unidad      string    `gorm:"size:20" json:"unidad"`
	Imagen      string    `gorm:"size:255" json:"imagen"`
	Activo      *bool     `gorm:"not null;default:true" json:"activo"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Producto) TableName() string { return "productos" }

type NuevoProducto struct {
	Nombre      string `json:"nombre" binding:"required"`
	Descripcion string `json:"descripcion"`
	Categoria   string `json:"categoria"`
	Precio      int64  `json:"precio"`
	Stock       int64  `json:"stock"`
	Unidad      string `json:"unidad"`
	Imagen      string `json:"imagen"`
	Activo      *bool  `json:"activo"`
}

func (input *NuevoProducto) validate() error {
	if input.Nombre == "" {
		return InputError("nombre is required")
	}
	if input.Precio < 0 {
		return InputError("precio must not be negative")
	}
	if input.Stock < 0 {
		return InputError("stock must not be negative")
	}
	return nil
}

func CreateProducto(ctx context.Context, input *NuevoProducto) (*Producto, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	db := config.GetDB()

	producto := Producto{
		Nombre:      input.Nombre,
		Descripcion: input.Descripcion,
		Categoria:   input.Categoria,
		Precio:      input.Precio,
		Stock:       input.Stock,
		Unidad:      input.Unidad,
		Imagen:      input.Imagen,
		Activo:      input.Activo,
	}
	if producto.Activo == nil {
		producto.Activo = utils.NewTrue()
	}
	if err := db.WithContext(ctx).Create(&producto).Error; err != nil {
		return nil, err
	}
	return &producto, nil
}

func GetProducto(ctx context.Context, id int) (*Producto, error) {
	db := config.GetDB()
	var producto Producto
	result := db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&producto)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, utils.ErrorRecordNotFound
	}
	return &producto, nil
}

func ListProductos(ctx context.Context, filtro FiltroDocumentos) ([]*Producto, int64, error) {
	filtro.Normalizar()
	db := config.GetDB()

	dbCtx := db.WithContext(ctx).Model(&Producto{})
	if filtro.Search != "" {
		like := filtro.Like()
		dbCtx = dbCtx.Where("LOWER(nombre) LIKE ? OR LOWER(categoria) LIKE ?", like, like)
	}

	var total int64
	if err := dbCtx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var productos []*Producto
	err := dbCtx.Order("id desc").
		Limit(filtro.Limit).Offset(filtro.Offset).
		Find(&productos).Error
	if err != nil {
		return nil, 0, err
	}
	return productos, total, nil
}

func UpdateProducto(ctx context.Context, id int, input *NuevoProducto) (*Producto, error) {
	producto, err := GetProducto(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}
	db := config.GetDB()

	producto.Nombre = input.Nombre
	producto.Descripcion = input.Descripcion
	producto.Categoria = input.Categoria
	producto.Precio = input.Precio
	producto.Stock = input.Stock
	producto.Unidad = input.Unidad
	if input.Imagen != "" {
		producto.Imagen = input.Imagen
	}
	if input.Activo != nil {
		producto.Activo = input.Activo
	}
	if err := db.WithContext(ctx).Save(producto).Error; err != nil {
		return nil, err
	}
	return producto, nil
}

func DeleteProducto(ctx context.Context, id int) error {
	db := config.GetDB()
	result := db.WithContext(ctx).Delete(&Producto{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.ErrorRecordNotFound
	}
	return nil
}

// nombresProductos resolves display names for the given ids. Missing ids are
// simply absent from the map; documents keep their snapshot prices either way.
func nombresProductos(ctx context.Context, ids []int) (map[int]string, error) {
	nombres := make(map[int]string, len(ids))
	if len(ids) == 0 {
		return nombres, nil
	}
	db := config.GetDB()

	var rows []struct {
		ID     int
		Nombre string
	}
	err := db.WithContext(ctx).Model(&Producto{}).
		Select("id", "nombre").
		Where("id IN ?", utils.UniqueSlice(ids)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		nombres[r.ID] = r.Nombre
	}
	return nombres, nil
}
