package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Register wires the catalog routes. The gate middleware guards the mutating
// Instance and Location operations behind the password confirmation.
func (h *Handler) Register(e *echo.Echo, gate echo.MiddlewareFunc) {
	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusSeeOther, "/catalog")
	})

	e.GET("/confirm-password", h.PasswordForm)
	e.POST("/confirm-password", h.PasswordConfirm)

	cat := e.Group("/catalog")
	cat.GET("", h.Index)

	cat.GET("/categories", h.CategoryList)
	cat.GET("/category/create", h.CategoryCreateGet)
	cat.POST("/category/create", h.CategoryCreatePost)
	cat.GET("/category/:id/update", h.CategoryUpdateGet)
	cat.POST("/category/:id/update", h.CategoryUpdatePost)
	cat.GET("/category/:id/delete", h.CategoryDeleteGet)
	cat.POST("/category/:id/delete", h.CategoryDeletePost)
	cat.GET("/category/:id", h.CategoryDetail)

	cat.GET("/locations", h.LocationList)
	cat.GET("/location/create", h.LocationCreateGet)
	cat.POST("/location/create", h.LocationCreatePost)
	cat.GET("/location/:id/update", h.LocationUpdateGet)
	cat.POST("/location/:id/update", h.LocationUpdatePost, gate)
	cat.GET("/location/:id/delete", h.LocationDeleteGet)
	cat.POST("/location/:id/delete", h.LocationDeletePost, gate)
	cat.GET("/location/:id", h.LocationDetail)

	cat.GET("/races", h.RaceList)
	cat.GET("/race/create", h.RaceCreateGet)
	cat.POST("/race/create", h.RaceCreatePost)
	cat.GET("/race/:id/update", h.RaceUpdateGet)
	cat.POST("/race/:id/update", h.RaceUpdatePost)
	cat.GET("/race/:id/delete", h.RaceDeleteGet)
	cat.POST("/race/:id/delete", h.RaceDeletePost)
	cat.GET("/race/:id", h.RaceDetail)

	cat.GET("/modalities", h.ModalityList)
	cat.GET("/modality/create", h.ModalityCreateGet)
	cat.POST("/modality/create", h.ModalityCreatePost)
	cat.GET("/modality/:id/update", h.ModalityUpdateGet)
	cat.POST("/modality/:id/update", h.ModalityUpdatePost)
	cat.GET("/modality/:id/delete", h.ModalityDeleteGet)
	cat.POST("/modality/:id/delete", h.ModalityDeletePost)
	cat.GET("/modality/:id", h.ModalityDetail)

	cat.GET("/instances", h.InstanceList)
	cat.GET("/instance/create", h.InstanceCreateGet)
	cat.POST("/instance/create", h.InstanceCreatePost)
	cat.GET("/instance/:id/update", h.InstanceUpdateGet)
	cat.POST("/instance/:id/update", h.InstanceUpdatePost, gate)
	cat.GET("/instance/:id/delete", h.InstanceDeleteGet)
	cat.POST("/instance/:id/delete", h.InstanceDeletePost, gate)
	cat.GET("/instance/:id", h.InstanceDetail)
}
