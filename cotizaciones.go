package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Techno-SamXa/Fungus-sub000/models"
)

func listCotizacionesHandler(c *gin.Context) {
	if c.Query("id") != "" {
		getCotizacionHandler(c)
		return
	}
	filtro := parseFiltro(c, true)
	cotizaciones, total, err := models.ListCotizaciones(c.Request.Context(), filtro)
	if err != nil {
		respondError(c, "cotizaciones.go", err)
		return
	}
	respondLista(c, cotizaciones, total, filtro)
}

func createCotizacionHandler(c *gin.Context) {
	var input models.NuevaCotizacion
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	cotizacion, err := models.CreateCotizacion(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "cotizaciones.go", err)
		return
	}
	c.JSON(http.StatusCreated, cotizacion)
}

func getCotizacionHandler(c *gin.Context) {
	id, ok := parseIdParam(c)
	if !ok {
		return
	}
	cotizacion, err := models.GetCotizacion(c.Request.Context(), id)
	if err != nil {
		respondError(c, "cotizaciones.go", err)
		return
	}
	c.JSON(http.StatusOK, cotizacion)
}

func updateCotizacionHandler(c *gin.Context) {
	id, ok := parseIdParam(c)
	if !ok {
		return
	}
	var input models.NuevaCotizacion
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	cotizacion, err := models.UpdateCotizacion(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, "cotizaciones.go", err)
		return
	}
	c.JSON(http.StatusOK, cotizacion)
}

func deleteCotizacionHandler(c *gin.Context) {
	id, ok := parseIdParam(c)
	if !ok {
		return
	}
	if err := models.DeleteCotizacion(c.Request.Context(), id); err != nil {
		respondError(c, "cotizaciones.go", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cotización eliminada", "id": id})
}
