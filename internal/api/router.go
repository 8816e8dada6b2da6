package api

import (
	"net/http"

	"route-planner/internal/api/middleware"
	"route-planner/internal/modules/catalog"
	"route-planner/internal/modules/routes"
	"route-planner/internal/modules/user"
	"route-planner/internal/modules/wizard"

	"github.com/labstack/echo/v4"
)

// Handlers bundles the module handlers mounted by SetupRoutes.
type Handlers struct {
	User    *user.Handler
	Catalog *catalog.Handler
	Routes  *routes.Handler
	Wizard  *wizard.Handler
}

// SetupRoutes sets up all the API endpoints for the application.
func SetupRoutes(e *echo.Echo, h Handlers, jwtSecret string, searchLimiter *middleware.RateLimiter) {
	authMiddleware := middleware.JWTAuth(jwtSecret)
	limited := searchLimiter.Limit()

	// --- Public Routes ---
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "Route planner API"})
	})
	e.GET("/shared/:token", h.Routes.GetSharedRoute)

	authGroup := e.Group("/auth", limited)
	{
		authGroup.POST("/signup", h.User.Signup)
		authGroup.POST("/login", h.User.Login)
	}

	profileGroup := e.Group("/profile", authMiddleware)
	{
		profileGroup.GET("", h.User.GetProfile)
		profileGroup.PUT("", h.User.UpdateProfile)
	}

	// --- Catalog: public search, bookings need a user ---
	catalogGroup := e.Group("/catalog")
	{
		catalogGroup.GET("/hotels", h.Catalog.SearchHotels, limited)
		catalogGroup.GET("/hotels/amenities", h.Catalog.ListAmenities)
		catalogGroup.GET("/hotels/:hotelId", h.Catalog.GetHotel)
		catalogGroup.POST("/hotels/:hotelId/book", h.Catalog.BookHotel, authMiddleware)

		catalogGroup.GET("/transport", h.Catalog.SearchTransport, limited)
		catalogGroup.GET("/transport/types", h.Catalog.ListTransportTypes)
		catalogGroup.GET("/transport/:transportId", h.Catalog.GetTransport)
		catalogGroup.POST("/transport/:transportId/book", h.Catalog.BookTransport, authMiddleware)

		catalogGroup.GET("/pois", h.Catalog.SearchPOIs, limited)
		catalogGroup.GET("/pois/categories", h.Catalog.ListCategories)
		catalogGroup.GET("/pois/recommendations", h.Catalog.Recommendations)
		catalogGroup.GET("/pois/:poiId", h.Catalog.GetPOI)
	}

	bookingGroup := e.Group("/bookings", authMiddleware)
	{
		bookingGroup.GET("", h.Catalog.ListMyBookings)
		bookingGroup.DELETE("/:bookingId", h.Catalog.CancelBooking)
	}

	// --- Planning wizard (one live session per user) ---
	wizardGroup := e.Group("/wizard", authMiddleware)
	{
		wizardGroup.GET("", h.Wizard.Mount)
		wizardGroup.PATCH("/state", h.Wizard.UpdateState)
		wizardGroup.PUT("/basics/:field", h.Wizard.ChangeBasics)
		wizardGroup.POST("/basics/:field/blur", h.Wizard.BlurBasics)

		wizardGroup.POST("/advance", h.Wizard.Advance)
		wizardGroup.POST("/retreat", h.Wizard.Retreat)
		wizardGroup.POST("/jump", h.Wizard.Jump)
		wizardGroup.POST("/reset", h.Wizard.Reset)
		wizardGroup.POST("/finish", h.Wizard.Finish)

		wizardGroup.POST("/points", h.Wizard.AddPoint)
		wizardGroup.PUT("/points/:pointId", h.Wizard.UpdatePoint)
		wizardGroup.DELETE("/points/:pointId", h.Wizard.RemovePoint)
		wizardGroup.POST("/points/reorder", h.Wizard.ReorderPoints)
		wizardGroup.POST("/points/drag/start", h.Wizard.DragStart)
		wizardGroup.POST("/points/drag/over", h.Wizard.DragOver)
		wizardGroup.POST("/points/drag/end", h.Wizard.DragEnd)

		wizardGroup.GET("/transport/search", h.Wizard.SearchTransport, limited)
		wizardGroup.POST("/transport/:transportId", h.Wizard.SelectTransport)
		wizardGroup.PUT("/stay", h.Wizard.SetStay)
		wizardGroup.GET("/stay/search", h.Wizard.SearchStay, limited)
		wizardGroup.POST("/accommodation/:hotelId", h.Wizard.SelectAccommodation)
		wizardGroup.GET("/overview", h.Wizard.Overview)

		wizardGroup.POST("/imports/poi", h.Wizard.ImportPOI)

		wizardGroup.POST("/save", h.Wizard.Save)
		wizardGroup.GET("/export", h.Wizard.Export)
		wizardGroup.POST("/share", h.Wizard.Share)
	}

	// --- Saved routes ---
	routeGroup := e.Group("/routes", authMiddleware)
	{
		routeGroup.GET("", h.Routes.ListRoutes)
		routeGroup.GET("/:routeId", h.Routes.GetRoute)
		routeGroup.PUT("/:routeId", h.Routes.UpdateRoute)
		routeGroup.DELETE("/:routeId", h.Routes.DeleteRoute)
		routeGroup.POST("/:routeId/share", h.Routes.ShareRoute)
		routeGroup.GET("/:routeId/pdf", h.Routes.ExportPDF)
		routeGroup.POST("/:routeId/email", h.Routes.EmailRoute)
	}
}
