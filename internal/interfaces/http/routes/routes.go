// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/domain/cart"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/domain/checkout"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/domain/notification"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/domain/product"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/domain/session"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/domain/user"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/interfaces/http/handlers"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/interfaces/http/middleware"
)

// Dependencies are the services the routes are served from
type Dependencies struct {
	Logger   *logrus.Logger
	Sessions session.Store
	Users    *user.Service
	Admin    *user.AdminService
	Products *product.Service
	Carts    *cart.Service
	Checkout *checkout.Flow
	Alerts   *notification.Service
}

// SetupRoutes registers every storefront route on r
func SetupRoutes(r gin.IRouter, deps Dependencies) {
	SetupAuthRoutes(r, deps)
	SetupProductRoutes(r, deps)
	SetupCartRoutes(r, deps)
	SetupPaymentRoutes(r, deps)
	SetupAdminRoutes(r, deps)

	alertHandler := handlers.NewAlertHandler(deps.Alerts)
	r.GET("/alerts", alertHandler.GetAlerts)
}

// SetupAuthRoutes sets up login related routes
func SetupAuthRoutes(r gin.IRouter, deps Dependencies) {
	authHandler := handlers.NewAuthHandler(deps.Users, deps.Alerts, deps.Logger)

	r.GET("/login", authHandler.LoginPage)
	r.POST("/login", authHandler.Login)
	r.POST("/logout", authHandler.Logout)
	r.GET("/me", authHandler.Me)
}

// SetupProductRoutes sets up catalog routes. Listing is public; changes
// are offered to admins only.
func SetupProductRoutes(r gin.IRouter, deps Dependencies) {
	productHandler := handlers.NewProductHandler(deps.Products, deps.Alerts, deps.Logger)

	products := r.Group("/produtos")
	{
		products.GET("", productHandler.GetProducts)

		admin := products.Group("")
		admin.Use(middleware.AdminOnly(deps.Sessions, deps.Logger))
		{
			admin.POST("", productHandler.CreateProduct)
			admin.PUT("/:id", productHandler.UpdateProduct)
			admin.DELETE("/:id", productHandler.DeleteProduct)
		}
	}
}

// SetupCartRoutes sets up cart routes. The backend decides who may use
// them; an anonymous call comes back as a session expiry.
func SetupCartRoutes(r gin.IRouter, deps Dependencies) {
	cartHandler := handlers.NewCartHandler(deps.Carts, deps.Alerts, deps.Logger)

	carrinho := r.Group("/carrinho")
	{
		carrinho.GET("", cartHandler.GetCart)
		carrinho.DELETE("", cartHandler.ClearCart)
		carrinho.POST("/itens", cartHandler.AddToCart)
		carrinho.PATCH("/quantidade", cartHandler.UpdateQuantity)
		carrinho.DELETE("/item", cartHandler.RemoveItem)
	}
}

// SetupPaymentRoutes sets up the payment page routes
func SetupPaymentRoutes(r gin.IRouter, deps Dependencies) {
	paymentHandler := handlers.NewPaymentHandler(deps.Checkout, deps.Alerts, deps.Logger)

	pagamento := r.Group("/pagamento")
	{
		pagamento.POST("", paymentHandler.StartPayment)
		pagamento.GET("", paymentHandler.GetPayment)
		pagamento.PUT("/metodo", paymentHandler.SelectMethod)
		pagamento.POST("/confirmar", paymentHandler.ConfirmPayment)
	}
	r.GET("/pagamento-success", paymentHandler.PaymentSuccess)
}

// SetupAdminRoutes sets up the admin dashboard routes
func SetupAdminRoutes(r gin.IRouter, deps Dependencies) {
	adminHandler := handlers.NewUserAdminHandler(deps.Admin, deps.Alerts, deps.Logger)

	admin := r.Group("/admin")
	admin.Use(middleware.AdminOnly(deps.Sessions, deps.Logger))
	{
		admin.GET("", adminHandler.GetDashboard)
		admin.GET("/usuarios/export", adminHandler.ExportUsers)
		admin.DELETE("/usuario/:id", adminHandler.DeleteUser)
		admin.DELETE("/carrinho/:id", adminHandler.DeleteCart)
	}
}
