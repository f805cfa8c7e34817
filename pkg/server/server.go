package server

import (
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/certmint/certmint/pkg/authenticator"
	"github.com/certmint/certmint/pkg/authenticator/authn"
	"github.com/certmint/certmint/pkg/config"
	"github.com/certmint/certmint/pkg/metrics"
	"github.com/certmint/certmint/pkg/server/middleware"
	"github.com/certmint/certmint/pkg/server/store"
	gormstore "github.com/certmint/certmint/pkg/server/store/gorm"
	"github.com/certmint/certmint/pkg/token"
)

type Server struct {
	Router *mux.Router
	DB     *gorm.DB
	Config *config.CertmintConfig
	Signer *token.Signer

	AdminStore        store.AdminStore
	IssuersStore      store.IssuersStore
	CertificatesStore store.CertificatesStore
	PrincipalsStore   store.PrincipalsStore
	EventsStore       store.EventsStore
	HealthStore       store.HealthStore

	Authenticator authenticator.Authenticator
	JWTMiddleware *middleware.JWTAuthenticator

	// Metrics is assigned once by the serve command; everywhere else,
	// a nil Metrics means "don't record" (its methods tolerate nil).
	Metrics *metrics.Metrics

	srv *http.Server
}

func NewServer(
	db *gorm.DB,
	cfg *config.CertmintConfig,
	signer *token.Signer,
	host string,
	port string,
) *Server {

	router := mux.NewRouter().UseEncodedPath()
	srv := &http.Server{
		Handler: handlers.LoggingHandler(os.Stdout, router),
		Addr:    host + ":" + port,
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	return &Server{
		Router: router,
		DB:     db,
		Config: cfg,
		Signer: signer,

		AdminStore:        gormstore.NewAdminStore(db),
		IssuersStore:      gormstore.NewIssuersStore(db),
		CertificatesStore: gormstore.NewCertificatesStore(db),
		PrincipalsStore:   gormstore.NewPrincipalsStore(db),
		EventsStore:       gormstore.NewEventsStore(db),
		HealthStore:       gormstore.NewHealthStore(db),

		Authenticator: authn.New(db),
		JWTMiddleware: middleware.NewJWTAuthenticator(signer),

		srv: srv,
	}
}

func (s Server) Start() error {
	return s.srv.ListenAndServe()
}
