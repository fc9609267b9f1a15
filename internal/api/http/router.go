package httpapi

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func NewRouter(handler *Handler, auth *Authenticator) http.Handler {
	r := mux.NewRouter()
	handler.RegisterRoutes(r, auth)
	return cors.Default().Handler(r)
}

func StartServer(addr string, handler http.Handler) {
	log.Printf("Order Service starting on %s", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}
