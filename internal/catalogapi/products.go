package catalogapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/melangjewelers/catalog/internal/app"
	"github.com/melangjewelers/catalog/internal/domain"
	"github.com/melangjewelers/catalog/internal/objstore"
	"github.com/melangjewelers/catalog/internal/webserver"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// RegisterProductRoutes registers product CRUD endpoints.
func RegisterProductRoutes() {
	webserver.ApiPOST("/api/product/add", addProduct)
	webserver.ApiGET("/api/product/products", listProducts)
	webserver.ApiGET("/api/product/category/:category", listProductsByCategory)
	webserver.ApiDELETE("/api/product/product/:id", deleteProduct)
	webserver.ApiGET("/api/product/export", exportProducts)
}

// addProduct creates a product from a multipart form: image file + name +
// category. The upload must land in the object store before the row is
// written; if the row write fails the stored object is removed again.
func addProduct(c echo.Context) error {
	name := strings.TrimSpace(c.FormValue("name"))
	category := strings.TrimSpace(c.FormValue("category"))
	file := formFile(c, "image")

	var missing []string
	if name == "" {
		missing = append(missing, "name")
	}
	if category == "" {
		missing = append(missing, "category")
	}
	if file == nil {
		missing = append(missing, "image")
	}
	if len(missing) > 0 {
		return fail(c, http.StatusBadRequest,
			"Missing required fields: "+strings.Join(missing, ", "))
	}

	a := GetApp(c)
	ctx := c.Request().Context()

	obj, err := storeUpload(ctx, a.Store(), file, "products")
	if err != nil {
		if errors.Is(err, objstore.ErrUnsupportedType) {
			return fail(c, http.StatusBadRequest, "Image must be jpg, jpeg or png")
		}
		return failStorage(c, "Failed to store product image", err)
	}

	now := time.Now()
	p := domain.Product{
		Name:      name,
		Category:  category,
		ImageURL:  obj.URL,
		ImageKey:  obj.Key,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := GetDB(c).Create(&p).Error; err != nil {
		// compensate: the row never existed, the object must not either
		if derr := a.Store().Delete(ctx, obj.Key); derr != nil {
			a.AsyncDeleteObject(obj.Key)
		}
		return failStorage(c, "Failed to create product", err)
	}

	a.PublishChange(app.ChangeEvent{
		Actor:  actor(c),
		Action: "created",
		Entity: "product",
		Detail: fmt.Sprintf("id=%d name=%s", p.ID, p.Name),
	})

	return okPayload(c, http.StatusCreated, "Product added successfully", "product", p)
}

func listProducts(c echo.Context) error {
	var products []domain.Product
	if err := GetDB(c).Order("id").Find(&products).Error; err != nil {
		return failStorage(c, "Failed to query products", err)
	}
	if products == nil {
		products = []domain.Product{}
	}
	return okPayload(c, http.StatusOK, "Products fetched successfully", "products", products)
}

// listProductsByCategory filters on exact, case-sensitive category equality.
func listProductsByCategory(c echo.Context) error {
	category := c.Param("category")

	var products []domain.Product
	if err := GetDB(c).Where("category = ?", category).Order("id").Find(&products).Error; err != nil {
		return failStorage(c, "Failed to query products by category", err)
	}
	if products == nil {
		products = []domain.Product{}
	}
	return okPayload(c, http.StatusOK, "Products fetched successfully", "products", products)
}

func deleteProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid product id")
	}

	var p domain.Product
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "Product not found")
	} else if err != nil {
		return failStorage(c, "Failed to query product", err)
	}

	if err := GetDB(c).Delete(&domain.Product{}, id).Error; err != nil {
		return failStorage(c, "Failed to delete product", err)
	}

	a := GetApp(c)
	a.AsyncDeleteObject(p.ImageKey)
	a.PublishChange(app.ChangeEvent{
		Actor:  actor(c),
		Action: "deleted",
		Entity: "product",
		Detail: fmt.Sprintf("id=%d name=%s", p.ID, p.Name),
	})

	return okPayload(c, http.StatusOK, "Product deleted successfully", "product", echo.Map{"id": id})
}
