package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mmautosoft/dealership_backend/models"
	"github.com/mmautosoft/dealership_backend/sheet"
)

func listRepairsHandler(getStore func() sheet.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if carID := c.Query("carId"); carID != "" {
			repairs, err := models.RepairsByCar(c.Request.Context(), getStore(), carID)
			if err != nil {
				respondError(c, "handlers_repairs.go", "listRepairsHandler", err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"data": repairs})
			return
		}

		page, limit := pageParams(c)
		result, err := models.ListRepairs(c.Request.Context(), getStore(), page, limit)
		if err != nil {
			respondError(c, "handlers_repairs.go", "listRepairsHandler", err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func getRepairHandler(getStore func() sheet.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		repair, err := models.GetRepair(c.Request.Context(), getStore(), c.Param("id"))
		if err != nil {
			respondError(c, "handlers_repairs.go", "getRepairHandler", err)
			return
		}
		c.JSON(http.StatusOK, repair)
	}
}

func createRepairHandler(getStore func() sheet.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewRepair
		if !bindJSON(c, &input) {
			return
		}
		repair, err := models.CreateRepair(c.Request.Context(), getStore(), &input)
		if err != nil {
			respondError(c, "handlers_repairs.go", "createRepairHandler", err)
			return
		}
		c.JSON(http.StatusCreated, repair)
	}
}

func updateRepairHandler(getStore func() sheet.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var patch models.RepairUpdate
		if !bindJSON(c, &patch) {
			return
		}
		repair, err := models.UpdateRepair(c.Request.Context(), getStore(), c.Param("id"), &patch)
		if err != nil {
			respondError(c, "handlers_repairs.go", "updateRepairHandler", err)
			return
		}
		c.JSON(http.StatusOK, repair)
	}
}
