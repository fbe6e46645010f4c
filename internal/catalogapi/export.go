package catalogapi

import (
	"net/http"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"
	"github.com/melangjewelers/catalog/internal/domain"
)

type productCSVRow struct {
	ID        int64     `csv:"id"`
	Name      string    `csv:"name"`
	Category  string    `csv:"category"`
	ImageURL  string    `csv:"image_url"`
	CreatedAt time.Time `csv:"created_at"`
}

// exportProducts streams the full product table as CSV for the admin console.
func exportProducts(c echo.Context) error {
	var products []domain.Product
	if err := GetDB(c).Order("id").Find(&products).Error; err != nil {
		return failStorage(c, "Failed to query products", err)
	}

	rows := make([]*productCSVRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, &productCSVRow{
			ID:        p.ID,
			Name:      p.Name,
			Category:  p.Category,
			ImageURL:  p.ImageURL,
			CreatedAt: p.CreatedAt,
		})
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="products.csv"`)
	c.Response().WriteHeader(http.StatusOK)
	return gocsv.Marshal(rows, c.Response())
}
