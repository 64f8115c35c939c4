package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mmautosoft/dealership_backend/config"
	"github.com/mmautosoft/dealership_backend/models"
	"github.com/mmautosoft/dealership_backend/sheet"
)

func listCarsHandler(getStore func() sheet.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit := pageParams(c)
		result, err := models.ListCars(c.Request.Context(), getStore(), page, limit)
		if err != nil {
			respondError(c, "handlers_cars.go", "listCarsHandler", err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func availableCarsHandler(getStore func() sheet.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		cars, err := models.AvailableCars(c.Request.Context(), getStore())
		if err != nil {
			respondError(c, "handlers_cars.go", "availableCarsHandler", err)
			return
		}
		c.JSON(http.StatusOK, cars)
	}
}

func getCarHandler(getStore func() sheet.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		car, err := models.GetCar(c.Request.Context(), getStore(), c.Param("id"))
		if err != nil {
			respondError(c, "handlers_cars.go", "getCarHandler", err)
			return
		}
		c.JSON(http.StatusOK, car)
	}
}

// createCarHandler accepts plain JSON, or multipart form data when
// documents/photos ride along. Uploaded file URLs land in the car's
// Documents/Photos cells.
func createCarHandler(getStore func() sheet.Client, getStorage func() *config.StorageConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewCar

		if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
			if err := c.ShouldBind(&input); err != nil {
				respondError(c, "handlers_cars.go", "createCarHandler", err)
				return
			}
			// The split arrives as one delimited field in form posts.
			if len(input.InvestmentSplit) == 0 {
				input.InvestmentSplit = models.ParseSplit(c.PostForm("investmentSplit"))
			}
			docs, photos, err := saveUploadedFiles(c, getStorage())
			if err != nil {
				respondError(c, "handlers_cars.go", "createCarHandler", err)
				return
			}
			input.Documents = docs
			input.Photos = photos
		} else if !bindJSON(c, &input) {
			return
		}

		car, err := models.CreateCar(c.Request.Context(), getStore(), &input)
		if err != nil {
			respondError(c, "handlers_cars.go", "createCarHandler", err)
			return
		}
		c.JSON(http.StatusCreated, car)
	}
}

func updateCarHandler(getStore func() sheet.Client, getStorage func() *config.StorageConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var patch models.CarUpdate
		if !bindJSON(c, &patch) {
			return
		}

		var prev *models.Car
		if patch.Documents != nil || patch.Photos != nil {
			var err error
			prev, err = models.GetCar(c.Request.Context(), getStore(), c.Param("id"))
			if err != nil {
				// The update below surfaces the real failure; this only
				// costs the orphan-blob cleanup.
				config.LogError(config.GetLogger(), "handlers_cars.go", "updateCarHandler", c.Param("id"), nil, err)
			}
		}

		car, err := models.UpdateCar(c.Request.Context(), getStore(), c.Param("id"), &patch)
		if err != nil {
			respondError(c, "handlers_cars.go", "updateCarHandler", err)
			return
		}
		if prev != nil {
			deleteOrphanedBlobs(c, getStorage(), prev, car)
		}
		c.JSON(http.StatusOK, car)
	}
}

// deleteOrphanedBlobs removes stored files whose URLs disappeared from
// the car's document/photo lists. Best effort: the row is already
// updated, a leftover blob only wastes bucket space.
func deleteOrphanedBlobs(c *gin.Context, storage *config.StorageConfig, prev, current *models.Car) {
	if storage == nil {
		return
	}
	kept := make(map[string]bool, len(current.Documents)+len(current.Photos))
	for _, url := range current.Documents {
		kept[url] = true
	}
	for _, url := range current.Photos {
		kept[url] = true
	}
	for _, url := range append(append([]string(nil), prev.Documents...), prev.Photos...) {
		if kept[url] {
			continue
		}
		if err := storage.Blob.Delete(c.Request.Context(), url); err != nil {
			config.LogError(config.GetLogger(), "handlers_cars.go", "deleteOrphanedBlobs", url, nil, err)
		}
	}
}
