package models

import (
	"context"
	"time"

	"github.com/Techno-SamXa/Fungus-sub000/config"
	"github.com/Techno-SamXa/Fungus-sub000/utils"
)

// Insumo is a raw material or supply bought through compras.
type Insumo struct {
	ID          int       `gorm:"primary_key" json:"id"`
	Nombre      string    `gorm:"size:150;not null" json:"nombre"`
	Descripcion string    `gorm:"type:text" json:"descripcion"`
	Categoria   string    `gorm:"size:100" json:"categoria"`
	Precio      int64     `gorm:"not null;default:0" json:"precio"`
	Stock       int64     `gorm:"not null;default:0" json:"stock"`
	Unidad      string    `gorm:"size:20" json:"unidad"`
	ProveedorId int       `gorm:"index" json:"proveedor_id"`
	Imagen      string    `gorm:"size:255" json:"imagen"`
	Activo      *bool     `gorm:"not null;default:true" json:"activo"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Insumo) TableName() string { return "insumos" }

type NuevoInsumo struct {
	Nombre      string `json:"nombre" binding:"required"`
	Descripcion string `json:"descripcion"`
	Categoria   string `json:"categoria"`
	Precio      int64  `json:"precio"`
	Stock       int64  `json:"stock"`
	Unidad      string `json:"unidad"`
	ProveedorId int    `json:"proveedor_id"`
	Imagen      string `json:"imagen"`
	Activo      *bool  `json:"activo"`
}

func (input *NuevoInsumo) validate(ctx context.Context) error {
	if input.Nombre == "" {
		return InputError("nombre is required")
	}
	if input.Precio < 0 {
		return InputError("precio must not be negative")
	}
	if input.Stock < 0 {
		return InputError("stock must not be negative")
	}
	if input.ProveedorId > 0 {
		if err := utils.ValidateResourceId[Proveedor](ctx, input.ProveedorId); err != nil {
			return err
		}
	}
	return nil
}

func CreateInsumo(ctx context.Context, input *NuevoInsumo) (*Insumo, error) {
	if err := input.validate(ctx); err != nil {
		return nil, err
	}
	db := config.GetDB()

	insumo := Insumo{
		Nombre:      input.Nombre,
		Descripcion: input.Descripcion,
		Categoria:   input.Categoria,
		Precio:      input.Precio,
		Stock:       input.Stock,
		Unidad:      input.Unidad,
		ProveedorId: input.ProveedorId,
		Imagen:      input.Imagen,
		Activo:      input.Activo,
	}
	if insumo.Activo == nil {
		insumo.Activo = utils.NewTrue()
	}
	if err := db.WithContext(ctx).Create(&insumo).Error; err != nil {
		return nil, err
	}
	return &insumo, nil
}

func GetInsumo(ctx context.Context, id int) (*Insumo, error) {
	db := config.GetDB()
	var insumo Insumo
	result := db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&insumo)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, utils.ErrorRecordNotFound
	}
	return &insumo, nil
}

func ListInsumos(ctx context.Context, filtro FiltroDocumentos) ([]*Insumo, int64, error) {
	filtro.Normalizar()
	db := config.GetDB()

	dbCtx := db.WithContext(ctx).Model(&Insumo{})
	if filtro.Search != "" {
		like := filtro.Like()
		dbCtx = dbCtx.Where("LOWER(nombre) LIKE ? OR LOWER(categoria) LIKE ?", like, like)
	}

	var total int64
	if err := dbCtx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var insumos []*Insumo
	err := dbCtx.Order("id desc").
		Limit(filtro.Limit).Offset(filtro.Offset).
		Find(&insumos).Error
	if err != nil {
		return nil, 0, err
	}
	return insumos, total, nil
}

func UpdateInsumo(ctx context.Context, id int, input *NuevoInsumo) (*Insumo, error) {
	insumo, err := GetInsumo(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(ctx); err != nil {
		return nil, err
	}
	db := config.GetDB()

	insumo.Nombre = input.Nombre
	insumo.Descripcion = input.Descripcion
	insumo.Categoria = input.Categoria
	insumo.Precio = input.Precio
	insumo.Stock = input.Stock
	insumo.Unidad = input.Unidad
	insumo.ProveedorId = input.ProveedorId
	if input.Imagen != "" {
		insumo.Imagen = input.Imagen
	}
	if input.Activo != nil {
		insumo.Activo = input.Activo
	}
	if err := db.WithContext(ctx).Save(insumo).Error; err != nil {
		return nil, err
	}
	return insumo, nil
}

func DeleteInsumo(ctx context.Context, id int) error {
	db := config.GetDB()
	result := db.WithContext(ctx).Delete(&Insumo{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.ErrorRecordNotFound
	}
	return nil
}

func nombresInsumos(ctx context.Context, ids []int) (map[int]string, error) {
	nombres := make(map[int]string, len(ids))
	if len(ids) == 0 {
		return nombres, nil
	}
	db := config.GetDB()

	var rows []struct {
		ID     int
		Nombre string
	}
	err := db.WithContext(ctx).Model(&Insumo{}).
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
