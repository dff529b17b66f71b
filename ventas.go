package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/Techno-SamXa/Fungus-sub000/models"
)

func listVentasHandler(c *gin.Context) {
	if c.Query("id") != "" {
		getVentaHandler(c)
		return
	}
	filtro := parseFiltro(c, false)
	ventas, total, err := models.ListVentas(c.Request.Context(), filtro)
	if err != nil {
		respondError(c, "ventas.go", err)
		return
	}
	respondLista(c, ventas, total, filtro)
}

func createVentaHandler(c *gin.Context) {
	var input models.NuevaVenta
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	venta, err := models.CreateVenta(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "ventas.go", err)
		return
	}
	c.JSON(http.StatusCreated, venta)
}

func getVentaHandler(c *gin.Context) {
	id, ok := parseIdParam(c)
	if !ok {
		return
	}
	venta, err := models.GetVenta(c.Request.Context(), id)
	if err != nil {
		respondError(c, "ventas.go", err)
		return
	}
	c.JSON(http.StatusOK, venta)
}

// updateVentaHandler answers 200 even when the id does not exist; the model
// treats that case as a no-op and returns nothing.
func updateVentaHandler(c *gin.Context) {
	id, ok := parseIdParam(c)
	if !ok {
		return
	}
	var input models.NuevaVenta
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	venta, err := models.UpdateVenta(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, "ventas.go", err)
		return
	}
	c.JSON(http.StatusOK, venta)
}

func deleteVentaHandler(c *gin.Context) {
	id, ok := parseIdParam(c)
	if !ok {
		return
	}
	if err := models.DeleteVenta(c.Request.Context(), id); err != nil {
		respondError(c, "ventas.go", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "venta eliminada", "id": id})
}

// exportVentasHandler writes the filtered sales list as an xlsx workbook.
func exportVentasHandler(c *gin.Context) {
	filtro := parseFiltro(c, false)
	filtro.Limit = 200
	ventas, _, err := models.ListVentas(c.Request.Context(), filtro)
	if err != nil {
		respondError(c, "ventas.go", err)
		return
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Ventas"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		respondError(c, "ventas.go", err)
		return
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	headers := []string{"Número", "Fecha", "Cliente", "Estado", "Subtotal", "Impuesto", "Total"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for row, v := range ventas {
		values := []interface{}{
			v.Numero,
			v.Fecha.Format("2006-01-02"),
			v.NombreCliente,
			v.Estado,
			v.Subtotal,
			v.Impuesto,
			v.Total,
		}
		for col, val := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheet, cell, val)
		}
	}

	filename := fmt.Sprintf("ventas-%s.xlsx", time.Now().Format("20060102-150405"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		_ = c.Error(err)
	}
}
