package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mmautosoft/dealership_backend/models"
	"github.com/mmautosoft/dealership_backend/sheet"
)

func listRentalsHandler(getStore func() sheet.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit := pageParams(c)
		result, err := models.ListRentals(c.Request.Context(), getStore(), page, limit)
		if err != nil {
			respondError(c, "handlers_rentals.go", "listRentalsHandler", err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func getRentalHandler(getStore func() sheet.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		rental, err := models.GetRental(c.Request.Context(), getStore(), c.Param("id"))
		if err != nil {
			respondError(c, "handlers_rentals.go", "getRentalHandler", err)
			return
		}
		c.JSON(http.StatusOK, rental)
	}
}

func createRentalHandler(getStore func() sheet.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewRental
		if !bindJSON(c, &input) {
			return
		}
		rental, err := models.CreateRental(c.Request.Context(), getStore(), &input)
		if err != nil {
			respondError(c, "handlers_rentals.go", "createRentalHandler", err)
			return
		}
		c.JSON(http.StatusCreated, rental)
	}
}

func updateRentalHandler(getStore func() sheet.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var patch models.RentalUpdate
		if !bindJSON(c, &patch) {
			return
		}
		rental, err := models.UpdateRental(c.Request.Context(), getStore(), c.Param("id"), &patch)
		if err != nil {
			respondError(c, "handlers_rentals.go", "updateRentalHandler", err)
			return
		}
		c.JSON(http.StatusOK, rental)
	}
}
