package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Techno-SamXa/Fungus-sub000/models"
)

func listClientesHandler(c *gin.Context) {
	filtro := parseFiltro(c, true)
	clientes, total, err := models.ListClientes(c.Request.Context(), filtro)
	if err != nil {
		respondError(c, "terceros.go", err)
		return
	}
	respondLista(c, clientes, total, filtro)
}

func createClienteHandler(c *gin.Context) {
	var input models.NuevoCliente
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	cliente, err := models.CreateCliente(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "terceros.go", err)
		return
	}
	c.JSON(http.StatusCreated, cliente)
}

func getClienteHandler(c *gin.Context) {
	id, ok := parseIdParam(c)
	if !ok {
		return
	}
	cliente, err := models.GetCliente(c.Request.Context(), id)
	if err != nil {
		respondError(c, "terceros.go", err)
		return
	}
	c.JSON(http.StatusOK, cliente)
}

func updateClienteHandler(c *gin.Context) {
	id, ok := parseIdParam(c)
	if !ok {
		return
	}
	var input models.NuevoCliente
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	cliente, err := models.UpdateCliente(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, "terceros.go", err)
		return
	}
	c.JSON(http.StatusOK, cliente)
}

func deleteClienteHandler(c *gin.Context) {
	id, ok := parseIdParam(c)
	if !ok {
		return
	}
	if err := models.DeleteCliente(c.Request.Context(), id); err != nil {
		respondError(c, "terceros.go", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cliente eliminado", "id": id})
}

func listProveedoresHandler(c *gin.Context) {
	filtro := parseFiltro(c, true)
	proveedores, total, err := models.ListProveedores(c.Request.Context(), filtro)
	if err != nil {
		respondError(c, "terceros.go", err)
		return
	}
	respondLista(c, proveedores, total, filtro)
}

func createProveedorHandler(c *gin.Context) {
	var input models.NuevoProveedor
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	proveedor, err := models.CreateProveedor(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "terceros.go", err)
		return
	}
	c.JSON(http.StatusCreated, proveedor)
}

func getProveedorHandler(c *gin.Context) {
	id, ok := parseIdParam(c)
	if !ok {
		return
	}
	proveedor, err := models.GetProveedor(c.Request.Context(), id)
	if err != nil {
		respondError(c, "terceros.go", err)
		return
	}
	c.JSON(http.StatusOK, proveedor)
}

func updateProveedorHandler(c *gin.Context) {
	id, ok := parseIdParam(c)
	if !ok {
		return
	}
	var input models.NuevoProveedor
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	proveedor, err := models.UpdateProveedor(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, "terceros.go", err)
		return
	}
	c.JSON(http.StatusOK, proveedor)
}

func deleteProveedorHandler(c *gin.Context) {
	id, ok := parseIdParam(c)
	if !ok {
		return
	}
	if err := models.DeleteProveedor(c.Request.Context(), id); err != nil {
		respondError(c, "terceros.go", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "proveedor eliminado", "id": id})
}
