package models

import (
	"context"
	"errors"
	"testing"

	"github.com/Techno-SamXa/Fungus-sub000/config"
	"github.com/Techno-SamXa/Fungus-sub000/utils"
)

func TestAutenticar(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	usuario, err := CreateUsuario(ctx, &NuevoUsuario{
		Username: "operador1",
		Password: "secreto123",
		Nombre:   "Operador Uno",
	})
	if err != nil {
		t.Fatal(err)
	}
	if usuario.Role != RolOperador {
		t.Errorf("Role = %q, want operador default", usuario.Role)
	}
	if usuario.Password == "secreto123" {
		t.Error("password was stored in clear")
	}

	token, logged, err := Autenticar(ctx, "operador1", "secreto123")
	if err != nil {
		t.Fatal(err)
	}
	if token == "" {
		t.Error("empty token")
	}
	if logged.ID != usuario.ID {
		t.Errorf("logged in as id %d, want %d", logged.ID, usuario.ID)
	}

	if _, _, err := Autenticar(ctx, "operador1", "otra-clave"); !errors.Is(err, ErrCredencialesInvalidas) {
		t.Errorf("wrong password: got %v", err)
	}
	if _, _, err := Autenticar(ctx, "nadie", "secreto123"); !errors.Is(err, ErrCredencialesInvalidas) {
		t.Errorf("unknown user: got %v", err)
	}
}

func TestAutenticarUsuarioInactivo(t *testing.T) {
	setupTestDB(t)
	ctx := context.Background()

	usuario, err := CreateUsuario(ctx, &NuevoUsuario{
		Username: "exempleado",
		Password: "secreto123",
	})
	if err != nil {
		t.Fatal(err)
	}

	db := config.GetDB()
	if err := db.Model(&Usuario{}).Where("id = ?", usuario.ID).Update("activo", utils.NewFalse()).Error; err != nil {
		t.Fatal(err)
	}

	if _, _, err := Autenticar(ctx, "exempleado", "secreto123"); !errors.Is(err, ErrCredencialesInvalidas) {
		t.Errorf("inactive user should be rejected, got %v", err)
	}
}
