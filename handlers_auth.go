package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mmautosoft/dealership_backend/models"
	"github.com/mmautosoft/dealership_backend/utils"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func loginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if !bindJSON(c, &req) {
			return
		}

		user, err := models.Authenticate(req.Username, req.Password)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
			return
		}

		token, err := utils.JwtGenerate(user.Username, user.Role)
		if err != nil {
			respondError(c, "handlers_auth.go", "loginHandler", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token, "role": user.Role})
	}
}
