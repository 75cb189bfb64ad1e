// Package routes wires controllers to paths. Everything lives under
// /api/v1; the auth middleware re-loads the user on every protected request
// and admin routes stack the role check on top.
package routes

import (
	"github.com/vanyajewels/storefront/app/controllers"
	"github.com/vanyajewels/storefront/app/jobs"
	"github.com/vanyajewels/storefront/app/models"
	"github.com/vanyajewels/storefront/app/repositories"
	"github.com/vanyajewels/storefront/app/services"
	"github.com/vanyajewels/storefront/pkg/metrics"
	"github.com/vanyajewels/storefront/pkg/middleware"
	"github.com/vanyajewels/storefront/pkg/rbac"
	"github.com/vanyajewels/storefront/pkg/router"
)

// RegisterAPI mounts the whole API surface on r.
func RegisterAPI(r *router.Router) {
	userRepo := repositories.NewUserRepository()
	productRepo := repositories.NewProductRepository()
	cartRepo := repositories.NewCartRepository()
	orderRepo := repositories.NewOrderRepository()

	authService := services.NewAuthService(userRepo, jobs.NewQueueDeliverer())
	cartService := services.NewCartService(cartRepo, productRepo)
	orderService := services.NewOrderService(orderRepo)
	profileService := services.NewProfileService(userRepo, productRepo)
	catalogService := services.NewCatalogService(productRepo)

	authCtrl := controllers.NewAuthController(authService)
	cartCtrl := controllers.NewCartController(cartService)
	orderCtrl := controllers.NewOrderController(orderService)
	userCtrl := controllers.NewUserController(profileService)
	productCtrl := controllers.NewProductController(catalogService)

	authed := middleware.Auth(authService)
	adminOnly := rbac.HasRole(models.RoleAdmin)

	r.Get("/metrics", "metrics", metrics.Handler())

	api := r.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/signup", "auth.signup", authCtrl.Signup)
	auth.Post("/verify-signup-otp", "auth.verify-signup-otp", authCtrl.VerifySignupOTP)
	auth.Post("/login", "auth.login", authCtrl.Login)
	auth.Post("/send-otp", "auth.send-otp", authCtrl.SendOTP)
	auth.Post("/forgot-password", "auth.forgot-password", authCtrl.ForgotPassword)
	auth.Post("/reset-password", "auth.reset-password", authCtrl.ResetPassword)
	auth.Post("/logout", "auth.logout", authCtrl.Logout)
	auth.Post("/change-password", "auth.change-password", authCtrl.ChangePassword, authed)
	auth.Post("/send-email-otp", "auth.send-email-otp", authCtrl.SendEmailOTP, authed)
	auth.Post("/verify-email-otp", "auth.verify-email-otp", authCtrl.VerifyEmailOTP, authed)
	auth.Get("/user", "auth.user", authCtrl.CurrentUser, authed)
	auth.Delete("/delete-account", "auth.delete-account", authCtrl.DeleteAccount, authed)

	users := api.Group("/users")
	users.Get("", "users.list", userCtrl.List, authed, adminOnly)
	users.Post("/user", "users.update", userCtrl.Update, authed)
	users.Post("/wishlist", "users.wishlist.add", userCtrl.AddToWishlist, authed)
	users.Delete("/wishlist/{productId}", "users.wishlist.remove", userCtrl.RemoveFromWishlist, authed)
	users.Get("/wishlist", "users.wishlist", userCtrl.Wishlist, authed)

	products := api.Group("/products")
	products.Get("", "products.list", productCtrl.List)
	products.Get("/product/{id}", "products.get", productCtrl.Get)
	products.Post("", "products.create", productCtrl.Create, authed, adminOnly)
	products.Post("/update/{id}", "products.update", productCtrl.Update, authed, adminOnly)
	products.Delete("/product/{id}", "products.delete", productCtrl.Delete, authed, adminOnly)

	cart := api.Group("/cart", authed)
	cart.Get("", "cart.get", cartCtrl.Get)
	cart.Post("", "cart.add", cartCtrl.Add)
	cart.Post("/update", "cart.update", cartCtrl.Update)
	cart.Delete("/{productId}", "cart.remove", cartCtrl.Remove)
	cart.Delete("", "cart.clear", cartCtrl.Clear)

	orders := api.Group("/orders", authed)
	orders.Get("", "orders.list", orderCtrl.List)
	orders.Post("", "orders.create", orderCtrl.Create)
	orders.Get("/{id}", "orders.get", orderCtrl.Get)
	orders.Patch("/{id}/status", "orders.update-status", orderCtrl.UpdateStatus, adminOnly)
}
