package router

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"

	dochandler "github.com/andela-ekupara/dcman/internal/document"
	docrepo "github.com/andela-ekupara/dcman/internal/document/repository"
	docservice "github.com/andela-ekupara/dcman/internal/document/service"
	userhandler "github.com/andela-ekupara/dcman/internal/user"
	userrepo "github.com/andela-ekupara/dcman/internal/user/repository"
	userservice "github.com/andela-ekupara/dcman/internal/user/service"
	"github.com/andela-ekupara/dcman/middleware"
	"github.com/andela-ekupara/dcman/socket"
)

// Setup wires repositories, services, and handlers onto the route table.
func Setup(db *sql.DB, hub *socket.Hub, jwtSecret []byte) http.Handler {
	documents := dochandler.NewDocumentHandler(
		docservice.NewDocumentService(docrepo.NewDocumentRepository(db), hub))
	users := userhandler.NewUserHandler(
		userservice.NewUserService(userrepo.NewUserRepository(db), jwtSecret))

	r := chi.NewRouter()

	// Public auth endpoints.
	r.Post("/users", users.Signup)
	r.Post("/users/login", users.Login)

	// Everything else requires a valid x-access-token.
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware)

		r.Get("/users/{id}", users.GetUser)

		r.Get("/documents", documents.GetDocuments)
		r.Post("/documents", documents.CreateDocument)
		r.Get("/documents/results", documents.SearchDocuments)
		r.Get("/documents/{id}", documents.GetDocument)
		r.Put("/documents/{id}", documents.UpdateDocument)
		r.Delete("/documents/{id}", documents.DeleteDocument)

		r.Get("/ws", func(w http.ResponseWriter, req *http.Request) {
			requester, _ := middleware.RequesterFrom(req.Context())
			socket.ServeWs(hub, w, req, requester.ID)
		})
	})

	return middleware.CORSMiddleware(r)
}
