package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/Techno-SamXa/Fungus-sub000/config"
	"github.com/Techno-SamXa/Fungus-sub000/models"
	"github.com/Techno-SamXa/Fungus-sub000/utils"
)

// respondError maps model-layer errors onto HTTP statuses. Validation
// problems surface their message; anything unexpected is logged and hidden
// behind a generic 500.
func respondError(c *gin.Context, source string, err error) {
	var inputErr models.InputError
	if errors.As(err, &inputErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": inputErr.Error()})
		return
	}
	if errors.Is(err, utils.ErrorRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	logger := config.GetLogger()
	var data any
	if userId, ok := utils.GetUserIdFromContext(c.Request.Context()); ok {
		data = gin.H{"user_id": userId}
	}
	config.LogError(logger, source, c.Request.Method+" "+c.FullPath(), "", data, err)
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

func respondBindError(c *gin.Context, err error) {
	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": utils.ProcessValidationErrors(err)})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
}

// parseIdParam reads the document id from the path, falling back to the
// ?id= query form the legacy clients use on collection routes.
func parseIdParam(c *gin.Context) (int, bool) {
	raw := c.Param("id")
	if raw == "" {
		raw = c.Query("id")
	}
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing id"})
		return 0, false
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// parseFiltro reads the shared list parameters. Compras and cotizaciones
// paginate with page/limit; ventas exposes offset/limit directly.
func parseFiltro(c *gin.Context, porPagina bool) models.FiltroDocumentos {
	filtro := models.FiltroDocumentos{
		Search: strings.TrimSpace(c.Query("search")),
		Estado: strings.TrimSpace(c.Query("estado")),
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil {
		filtro.Limit = v
	}
	if porPagina {
		page := 1
		if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
			page = v
		}
		filtro.Normalizar()
		filtro.Offset = (page - 1) * filtro.Limit
	} else {
		if v, err := strconv.Atoi(c.Query("offset")); err == nil && v > 0 {
			filtro.Offset = v
		}
	}
	return filtro
}

func respondLista(c *gin.Context, items any, total int64, filtro models.FiltroDocumentos) {
	c.JSON(http.StatusOK, gin.H{
		"data":   items,
		"total":  total,
		"limit":  filtro.Limit,
		"offset": filtro.Offset,
	})
}
