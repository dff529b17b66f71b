package models

import (
	"context"
	"time"

	"github.com/Techno-SamXa/Fungus-sub000/config"
	"github.com/Techno-SamXa/Fungus-sub000/utils"
)

// Proveedor supplies the insumos bought through compras.
type Proveedor struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Nombre    string    `gorm:"size:150;not null" json:"nombre"`
	Rut       string    `gorm:"size:20" json:"rut"`
	Email     string    `gorm:"size:150" json:"email"`
	Telefono  string    `gorm:"size:30" json:"telefono"`
	Direccion string    `gorm:"size:255" json:"direccion"`
	Ciudad    string    `gorm:"size:100" json:"ciudad"`
	Contacto  string    `gorm:"size:150" json:"contacto"`
	Notas     string    `gorm:"type:text" json:"notas"`
	Activo    *bool     `gorm:"not null;default:true" json:"activo"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Proveedor) TableName() string { return "proveedores" }

type NuevoProveedor struct {
	Nombre    string `json:"nombre" binding:"required"`
	Rut       string `json:"rut"`
	Email     string `json:"email"`
	Telefono  string `json:"telefono"`
	Direccion string `json:"direccion"`
	Ciudad    string `json:"ciudad"`
	Contacto  string `json:"contacto"`
	Notas     string `json:"notas"`
	Activo    *bool  `json:"activo"`
}

func (input *NuevoProveedor) validate(ctx context.Context, exceptId int) error {
	if input.Nombre == "" {
		return InputError("nombre is required")
	}
	if input.Email != "" && !utils.IsValidEmail(input.Email) {
		return InputError("email inválido")
	}
	if input.Telefono != "" {
		if err := utils.ValidatePhoneNumber(input.Telefono, utils.CountryCode); err != nil {
			return InputError("teléfono inválido")
		}
	}
	if input.Rut != "" {
		if err := utils.ValidateUnique[Proveedor](ctx, "rut", input.Rut, exceptId); err != nil {
			return InputError("rut ya registrado")
		}
	}
	return nil
}

func CreateProveedor(ctx context.Context, input *NuevoProveedor) (*Proveedor, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}
	db := config.GetDB()

	proveedor := Proveedor{
		Nombre:    input.Nombre,
		Rut:       input.Rut,
		Email:     input.Email,
		Telefono:  input.Telefono,
		Direccion: input.Direccion,
		Ciudad:    input.Ciudad,
		Contacto:  input.Contacto,
		Notas:     input.Notas,
		Activo:    input.Activo,
	}
	if proveedor.Activo == nil {
		proveedor.Activo = utils.NewTrue()
	}
	if err := db.WithContext(ctx).Create(&proveedor).Error; err != nil {
		return nil, err
	}
	return &proveedor, nil
}

func GetProveedor(ctx context.Context, id int) (*Proveedor, error) {
	db := config.GetDB()
	var proveedor Proveedor
	result := db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&proveedor)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, utils.ErrorRecordNotFound
	}
	return &proveedor, nil
}

func ListProveedores(ctx context.Context, filtro FiltroDocumentos) ([]*Proveedor, int64, error) {
	filtro.Normalizar()
	db := config.GetDB()

	dbCtx := db.WithContext(ctx).Model(&Proveedor{})
	if filtro.Search != "" {
		like := filtro.Like()
		dbCtx = dbCtx.Where("LOWER(nombre) LIKE ? OR LOWER(email) LIKE ? OR LOWER(rut) LIKE ?", like, like, like)
	}

	var total int64
	if err := dbCtx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var proveedores []*Proveedor
	err := dbCtx.Order("id desc").
		Limit(filtro.Limit).Offset(filtro.Offset).
		Find(&proveedores).Error
	if err != nil {
		return nil, 0, err
	}
	return proveedores, total, nil
}

func UpdateProveedor(ctx context.Context, id int, input *NuevoProveedor) (*Proveedor, error) {
	proveedor, err := GetProveedor(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}
	db := config.GetDB()

	proveedor.Nombre = input.Nombre
	proveedor.Rut = input.Rut
	proveedor.Email = input.Email
	proveedor.Telefono = input.Telefono
	proveedor.Direccion = input.Direccion
	proveedor.Ciudad = input.Ciudad
	proveedor.Contacto = input.Contacto
	proveedor.Notas = input.Notas
	if input.Activo != nil {
		proveedor.Activo = input.Activo
	}
	if err := db.WithContext(ctx).Save(proveedor).Error; err != nil {
		return nil, err
	}
	return proveedor, nil
}

func DeleteProveedor(ctx context.Context, id int) error {
	db := config.GetDB()
	result := db.WithContext(ctx).Delete(&Proveedor{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.ErrorRecordNotFound
	}
	return nil
}
