package models

import (
	"context"
	"time"

	"github.com/Techno-SamXa/Fungus-sub000/config"
	"github.com/Techno-SamXa/Fungus-sub000/utils"
)

// Cliente buys ventas and receives cotizaciones.
type Cliente struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Nombre    string    `gorm:"size:150;not null" json:"nombre"`
	Rut       string    `gorm:"size:20" json:"rut"`
	Email     string    `gorm:"size:150" json:"email"`
	Telefono  string    `gorm:"size:30" json:"telefono"`
	Direccion string    `gorm:"size:255" json:"direccion"`
	Ciudad    string    `gorm:"size:100" json:"ciudad"`
	Notas     string    `gorm:"type:text" json:"notas"`
	Activo    *bool     `gorm:"not null;default:true" json:"activo"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Cliente) TableName() string { return "clientes" }

type NuevoCliente struct {
	Nombre    string `json:"nombre" binding:"required"`
	Rut       string `json:"rut"`
	Email     string `json:"email"`
	Telefono  string `json:"telefono"`
	Direccion string `json:"direccion"`
	Ciudad    string `json:"ciudad"`
	Notas     string `json:"notas"`
	Activo    *bool  `json:"activo"`
}

func (input *NuevoCliente) validate(ctx context.Context, exceptId int) error {
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
		if err := utils.ValidateUnique[Cliente](ctx, "rut", input.Rut, exceptId); err != nil {
			return InputError("rut ya registrado")
		}
	}
	return nil
}

func CreateCliente(ctx context.Context, input *NuevoCliente) (*Cliente, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}
	db := config.GetDB()

	cliente := Cliente{
		Nombre:    input.Nombre,
		Rut:       input.Rut,
		Email:     input.Email,
		Telefono:  input.Telefono,
		Direccion: input.Direccion,
		Ciudad:    input.Ciudad,
		Notas:     input.Notas,
		Activo:    input.Activo,
	}
	if cliente.Activo == nil {
		cliente.Activo = utils.NewTrue()
	}
	if err := db.WithContext(ctx).Create(&cliente).Error; err != nil {
		return nil, err
	}
	return &cliente, nil
}

func GetCliente(ctx context.Context, id int) (*Cliente, error) {
	db := config.GetDB()
	var cliente Cliente
	result := db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&cliente)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, utils.ErrorRecordNotFound
	}
	return &cliente, nil
}

func ListClientes(ctx context.Context, filtro FiltroDocumentos) ([]*Cliente, int64, error) {
	filtro.Normalizar()
	db := config.GetDB()

	dbCtx := db.WithContext(ctx).Model(&Cliente{})
	if filtro.Search != "" {
		like := filtro.Like()
		dbCtx = dbCtx.Where("LOWER(nombre) LIKE ? OR LOWER(email) LIKE ? OR LOWER(rut) LIKE ?", like, like, like)
	}

	var total int64
	if err := dbCtx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var clientes []*Cliente
	err := dbCtx.Order("id desc").
		Limit(filtro.Limit).Offset(filtro.Offset).
		Find(&clientes).Error
	if err != nil {
		return nil, 0, err
	}
	return clientes, total, nil
}

func UpdateCliente(ctx context.Context, id int, input *NuevoCliente) (*Cliente, error) {
	cliente, err := GetCliente(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}
	db := config.GetDB()

	cliente.Nombre = input.Nombre
	cliente.Rut = input.Rut
	cliente.Email = input.Email
	cliente.Telefono = input.Telefono
	cliente.Direccion = input.Direccion
	cliente.Ciudad = input.Ciudad
	cliente.Notas = input.Notas
	if input.Activo != nil {
		cliente.Activo = input.Activo
	}
	if err := db.WithContext(ctx).Save(cliente).Error; err != nil {
		return nil, err
	}
	return cliente, nil
}

func DeleteCliente(ctx context.Context, id int) error {
	db := config.GetDB()
	result := db.WithContext(ctx).Delete(&Cliente{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.ErrorRecordNotFound
	}
	return nil
}
