package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Techno-SamXa/Fungus-sub000/models"
)

func listComprasHandler(c *gin.Context) {
	if c.Query("id") != "" {
		getCompraHandler(c)
		return
	}
	filtro := parseFiltro(c, true)
	compras, total, err := models.ListCompras(c.Request.Context(), filtro)
	if err != nil {
		respondError(c, "compras.go", err)
		return
	}
	respondLista(c, compras, total, filtro)
}

func createCompraHandler(c *gin.Context) {
	var input models.NuevaCompra
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	compra, err := models.CreateCompra(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "compras.go", err)
		return
	}
	c.JSON(http.StatusCreated, compra)
}

func getCompraHandler(c *gin.Context) {
	id, ok := parseIdParam(c)
	if !ok {
		return
	}
	compra, err := models.GetCompra(c.Request.Context(), id)
	if err != nil {
		respondError(c, "compras.go", err)
		return
	}
	c.JSON(http.StatusOK, compra)
}

func updateCompraHandler(c *gin.Context) {
	id, ok := parseIdParam(c)
	if !ok {
		return
	}
	var input models.NuevaCompra
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	compra, err := models.UpdateCompra(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, "compras.go", err)
		return
	}
	c.JSON(http.StatusOK, compra)
}

func deleteCompraHandler(c *gin.Context) {
	id, ok := parseIdParam(c)
	if !ok {
		return
	}
	if err := models.DeleteCompra(c.Request.Context(), id); err != nil {
		respondError(c, "compras.go", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "compra eliminada", "id": id})
}
