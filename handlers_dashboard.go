package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mmautosoft/dealership_backend/models"
	"github.com/mmautosoft/dealership_backend/sheet"
)

func dashboardHandler(getStore func() sheet.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		dashboard, err := models.GetDashboard(c.Request.Context(), getStore(), time.Now().UTC())
		if err != nil {
			respondError(c, "handlers_dashboard.go", "dashboardHandler", err)
			return
		}
		c.JSON(http.StatusOK, dashboard)
	}
}

func recentEntriesHandler(getStore func() sheet.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		entries, err := models.GetRecentEntries(c.Request.Context(), getStore())
		if err != nil {
			respondError(c, "handlers_dashboard.go", "recentEntriesHandler", err)
			return
		}
		c.JSON(http.StatusOK, entries)
	}
}

func partnersHandler(getStore func() sheet.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		partners, err := models.ListPartners(c.Request.Context(), getStore())
		if err != nil {
			respondError(c, "handlers_dashboard.go", "partnersHandler", err)
			return
		}
		c.JSON(http.StatusOK, partners)
	}
}
