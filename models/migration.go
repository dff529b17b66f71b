package models

import (
	"log"

	"github.com/Techno-SamXa/Fungus-sub000/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Compra{}, &DetalleCompra{},
		&Venta{}, &DetalleVenta{},
		&Cotizacion{}, &DetalleCotizacion{},
		&Producto{}, &Insumo{},
		&Cliente{}, &Proveedor{},
		&Usuario{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
