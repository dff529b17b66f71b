package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Techno-SamXa/Fungus-sub000/models"
)

func listProductosHandler(c *gin.Context) {
	filtro := parseFiltro(c, true)
	productos, total, err := models.ListProductos(c.Request.Context(), filtro)
	if err != nil {
		respondError(c, "catalogo.go", err)
		return
	}
	respondLista(c, productos, total, filtro)
}

func createProductoHandler(c *gin.Context) {
	var input models.NuevoProducto
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	producto, err := models.CreateProducto(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "catalogo.go", err)
		return
	}
	c.JSON(http.StatusCreated, producto)
}

func getProductoHandler(c *gin.Context) {
	id, ok := parseIdParam(c)
	if !ok {
		return
	}
	producto, err := models.GetProducto(c.Request.Context(), id)
	if err != nil {
		respondError(c, "catalogo.go", err)
		return
	}
	c.JSON(http.StatusOK, producto)
}

func updateProductoHandler(c *gin.Context) {
	id, ok := parseIdParam(c)
	if !ok {
		return
	}
	var input models.NuevoProducto
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	producto, err := models.UpdateProducto(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, "catalogo.go", err)
		return
	}
	c.JSON(http.StatusOK, producto)
}

func deleteProductoHandler(c *gin.Context) {
	id, ok := parseIdParam(c)
	if !ok {
		return
	}
	if err := models.DeleteProducto(c.Request.Context(), id); err != nil {
		respondError(c, "catalogo.go", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "producto eliminado", "id": id})
}

func listInsumosHandler(c *gin.Context) {
	filtro := parseFiltro(c, true)
	insumos, total, err := models.ListInsumos(c.Request.Context(), filtro)
	if err != nil {
		respondError(c, "catalogo.go", err)
		return
	}
	respondLista(c, insumos, total, filtro)
}

func createInsumoHandler(c *gin.Context) {
	var input models.NuevoInsumo
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	insumo, err := models.CreateInsumo(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "catalogo.go", err)
		return
	}
	c.JSON(http.StatusCreated, insumo)
}

func getInsumoHandler(c *gin.Context) {
	id, ok := parseIdParam(c)
	if !ok {
		return
	}
	insumo, err := models.GetInsumo(c.Request.Context(), id)
	if err != nil {
		respondError(c, "catalogo.go", err)
		return
	}
	c.JSON(http.StatusOK, insumo)
}

func updateInsumoHandler(c *gin.Context) {
	id, ok := parseIdParam(c)
	if !ok {
		return
	}
	var input models.NuevoInsumo
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	insumo, err := models.UpdateInsumo(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, "catalogo.go", err)
		return
	}
	c.JSON(http.StatusOK, insumo)
}

func deleteInsumoHandler(c *gin.Context) {
	id, ok := parseIdParam(c)
	if !ok {
		return
	}
	if err := models.DeleteInsumo(c.Request.Context(), id); err != nil {
		respondError(c, "catalogo.go", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "insumo eliminado", "id": id})
}
