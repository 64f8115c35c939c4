package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mmautosoft/dealership_backend/models"
	"github.com/mmautosoft/dealership_backend/sheet"
)

func listSalesHandler(getStore func() sheet.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit := pageParams(c)
		result, err := models.ListSales(c.Request.Context(), getStore(), page, limit)
		if err != nil {
			respondError(c, "handlers_sales.go", "listSalesHandler", err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func getSaleHandler(getStore func() sheet.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		sale, err := models.GetSale(c.Request.Context(), getStore(), c.Param("id"))
		if err != nil {
			respondError(c, "handlers_sales.go", "getSaleHandler", err)
			return
		}
		c.JSON(http.StatusOK, sale)
	}
}

func createSaleHandler(getStore func() sheet.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewSale
		if !bindJSON(c, &input) {
			return
		}
		sale, err := models.CreateSale(c.Request.Context(), getStore(), &input)
		if err != nil {
			respondError(c, "handlers_sales.go", "createSaleHandler", err)
			return
		}
		c.JSON(http.StatusCreated, sale)
	}
}

func updateSaleHandler(getStore func() sheet.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var patch models.SaleUpdate
		if !bindJSON(c, &patch) {
			return
		}
		sale, err := models.UpdateSale(c.Request.Context(), getStore(), c.Param("id"), &patch)
		if err != nil {
			respondError(c, "handlers_sales.go", "updateSaleHandler", err)
			return
		}
		c.JSON(http.StatusOK, sale)
	}
}
