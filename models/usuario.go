package models

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Techno-SamXa/Fungus-sub000/config"
	"github.com/Techno-SamXa/Fungus-sub000/utils"
)

const (
	RolAdmin    = "admin"
	RolOperador = "operador"
)

type Usuario struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Username  string    `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Nombre    string    `gorm:"size:150" json:"nombre"`
	Email     string    `gorm:"size:150" json:"email"`
	Role      string    `gorm:"size:20;not null;default:operador" json:"role"`
	Activo    *bool     `gorm:"not null;default:true" json:"activo"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Usuario) TableName() string { return "usuarios" }

type NuevoUsuario struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Nombre   string `json:"nombre"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

var ErrCredencialesInvalidas = errors.New("invalid credentials")

func CreateUsuario(ctx context.Context, input *NuevoUsuario) (*Usuario, error) {
	if len(input.Password) < 6 {
		return nil, InputError("password must be at least 6 characters")
	}
	if input.Email != "" && !utils.IsValidEmail(input.Email) {
		return nil, InputError("email inválido")
	}
	if err := utils.ValidateUnique[Usuario](ctx, "username", input.Username, 0); err != nil {
		return nil, InputError("username ya registrado")
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = RolOperador
	}

	db := config.GetDB()
	usuario := Usuario{
		Username: input.Username,
		Password: string(hashed),
		Nombre:   input.Nombre,
		Email:    input.Email,
		Role:     role,
		Activo:   utils.NewTrue(),
	}
	if err := db.WithContext(ctx).Create(&usuario).Error; err != nil {
		return nil, err
	}
	return &usuario, nil
}

// Autenticar checks the credentials and returns a signed session token.
// Unknown users and bad passwords come back as the same error.
func Autenticar(ctx context.Context, username, password string) (string, *Usuario, error) {
	db := config.GetDB()

	var usuario Usuario
	err := db.WithContext(ctx).Where("username = ?", username).First(&usuario).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrCredencialesInvalidas
		}
		return "", nil, err
	}
	if usuario.Activo != nil && !*usuario.Activo {
		return "", nil, ErrCredencialesInvalidas
	}
	if err := utils.ComparePassword(usuario.Password, password); err != nil {
		return "", nil, ErrCredencialesInvalidas
	}

	token, err := utils.JwtGenerate(usuario.ID, usuario.Username, usuario.Role)
	if err != nil {
		return "", nil, err
	}
	return token, &usuario, nil
}
