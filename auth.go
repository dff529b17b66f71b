package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Techno-SamXa/Fungus-sub000/middlewares"
	"github.com/Techno-SamXa/Fungus-sub000/models"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func loginHandler(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	token, usuario, err := models.Autenticar(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrCredencialesInvalidas) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		respondError(c, "auth.go", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":       usuario.ID,
			"username": usuario.Username,
			"nombre":   usuario.Nombre,
			"role":     usuario.Role,
		},
	})
}

// meHandler reports the identity the middleware resolved for this request.
func meHandler(c *gin.Context) {
	claim := middlewares.CtxValue(c.Request.Context())
	if claim == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":       claim.ID,
		"username": claim.Username,
		"role":     claim.Role,
	})
}
