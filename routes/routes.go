package routes

import (
	"github.com/gofiber/fiber/v2"

	"invoicing-backend/controllers"
	"invoicing-backend/middlewares"
	"invoicing-backend/services"
)

// Register wires all HTTP routes.
func Register(app *fiber.App, notifier services.Notifier) {
	api := app.Group("/api")

	// Public auth endpoints
	api.Post("/registration", controllers.Register)
	api.Post("/login", controllers.Login)
	api.Post("/logout", controllers.Logout)

	// Accepting an invitation needs no membership yet, only an account.
	api.Post("/invitations/accept", middlewares.FactPublisher(notifier), middlewares.RequestTx(), controllers.AcceptInvitation)

	// Protected endpoints (JWT auth)
	protected := api.Group("")
	protected.Use(middlewares.IsAuthenticatedHeader())

	// Facts publish after the per-request transaction commits.
	protected.Use(middlewares.FactPublisher(notifier))
	protected.Use(middlewares.RequestTx())

	// Businesses
	protected.Post("/businesses", controllers.CreateBusiness)
	protected.Get("/businesses", controllers.GetMyBusinesses)
	protected.Post("/businesses/:id/switch", controllers.SwitchBusiness)

	// Everything below acts on the token's business.
	scoped := protected.Group("", middlewares.RequireBusiness())

	scoped.Get("/business", controllers.GetBusiness)
	scoped.Get("/me/grant", controllers.GetMyGrant)
	scoped.Put("/business/details", middlewares.RequirePermission("business:manage"), controllers.UpdateBusinessDetails)
	scoped.Put("/business/address", middlewares.RequirePermission("business:manage"), controllers.UpdateBusinessAddress)
	scoped.Put("/business/branding", middlewares.RequirePermission("business:manage"), controllers.UpdateBusinessBranding)
	scoped.Put("/business/activate", middlewares.RequirePermission("business:manage"), controllers.ActivateBusiness)
	scoped.Put("/business/deactivate", middlewares.RequirePermission("business:manage"), controllers.DeactivateBusiness)
	scoped.Delete("/business", middlewares.RequirePermission("business:delete"), controllers.DeleteBusiness)
	scoped.Put("/business/restore", middlewares.RequirePermission("business:delete"), controllers.RestoreBusiness)

	// Team
	scoped.Get("/team/members", controllers.GetTeamMembers)
	scoped.Post("/team/members", middlewares.RequirePermission("team:manage"), controllers.AddTeamMember)
	scoped.Put("/team/members/:userId/role", middlewares.RequirePermission("team:manage"), controllers.UpdateTeamMemberRole)
	scoped.Delete("/team/members/:userId", middlewares.RequirePermission("team:manage"), controllers.RemoveTeamMember)

	// Roles
	scoped.Get("/roles", controllers.GetRoles)
	scoped.Post("/roles", middlewares.RequirePermission("team:manage"), controllers.CreateRole)

	// Invitations
	scoped.Post("/invitations", middlewares.RequirePermission("invitation:manage"), controllers.CreateInvitation)
	scoped.Get("/invitations", middlewares.RequirePermission("invitation:manage"), controllers.GetInvitations)
	scoped.Post("/invitations/expire", middlewares.RequirePermission("invitation:manage"), controllers.ExpireInvitations)

	// Clients
	scoped.Post("/clients", middlewares.RequirePermission("client:manage"), controllers.CreateClient)
	scoped.Get("/clients", controllers.GetClients)
	scoped.Get("/clients/:id", controllers.GetClient)
	scoped.Put("/clients/:id", middlewares.RequirePermission("client:manage"), controllers.UpdateClient)

	// Invoices
	scoped.Post("/invoices", middlewares.RequirePermission("invoice:create"), controllers.CreateInvoice)
	scoped.Get("/invoices", controllers.GetInvoices)
	scoped.Get("/invoices/:id", controllers.GetInvoice)
	scoped.Put("/invoices/:id", middlewares.RequirePermission("invoice:manage"), controllers.UpdateInvoiceDetails)
	scoped.Post("/invoices/:id/items", middlewares.RequirePermission("invoice:manage"), controllers.AddInvoiceItem)
	scoped.Delete("/invoices/:id/items/:itemId", middlewares.RequirePermission("invoice:manage"), controllers.RemoveInvoiceItem)
	scoped.Put("/invoices/:id/send", middlewares.RequirePermission("invoice:manage"), controllers.SendInvoice)
	scoped.Put("/invoices/:id/void", middlewares.RequirePermission("invoice:manage"), controllers.VoidInvoice)
	scoped.Post("/invoices/:id/payments", middlewares.RequirePermission("invoice:payment"), controllers.CreatePayment)
	scoped.Get("/invoices/:id/transactions", controllers.ListTransactions)
	scoped.Put("/invoices/:id/transactions/:txId/note", middlewares.RequirePermission("invoice:payment"), controllers.AnnotateTransaction)
}
