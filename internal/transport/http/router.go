package httptransport

import (
	"expvar"
	"fmt"
	"net/http"
	"sort"
	"strings"

	appagent "evora-mesh/internal/app/agent"
	appcatalog "evora-mesh/internal/app/catalog"
	apporder "evora-mesh/internal/app/order"
	apptrust "evora-mesh/internal/app/trust"
	"evora-mesh/internal/config"
	"evora-mesh/internal/ledger"
	"evora-mesh/internal/notify"
	"evora-mesh/internal/resolver"
	"evora-mesh/internal/stats"
	"evora-mesh/internal/store"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

func NewRouter(st *store.Store, cfg config.ServerConfig, push *notify.Manager) *chi.Mux {
	engine := resolver.NewEngine(st)
	led := ledger.New(st)
	statsSvc := stats.NewService(st, cfg.StrengthPerOrder, cfg.ScorePerOrder)

	catalogSvc := appcatalog.NewService(st, engine)
	orderSvc := apporder.NewService(st, engine, statsSvc, push)
	agentSvc := appagent.NewService(st, led)
	trustSvc := apptrust.NewService(st)

	publicHandlers := NewPublicHandlers(catalogSvc)
	agentHandlers := NewAgentHandlers(agentSvc, trustSvc, orderSvc, st)
	adminHandlers := NewAdminHandlers(st, led, orderSvc)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.With(APILogMiddleware()).Get("/healthz", adminHandlers.Health())

	r.Route("/api", func(r chi.Router) {
		r.Use(APILogMiddleware())

		r.Get("/public/products", publicHandlers.Products())
		r.Get("/public/clients/{client_id}/owner", publicHandlers.Owner())
		r.Get("/public/clients/{client_id}/catalog", publicHandlers.Catalog())
		r.Get("/public/clients/{client_id}/products/{product_id}/offer", publicHandlers.Offer())
		r.Get("/public/clients/{client_id}/products/{product_id}/roles", publicHandlers.Roles())

		r.Post("/agents/register", agentHandlers.Register())

		r.Group(func(r chi.Router) {
			r.Use(AgentAuthMiddleware(st))
			r.Get("/agents/me", agentHandlers.Me())
			r.Post("/offers", agentHandlers.CreateOffer())
			r.Delete("/offers/{offer_id}", agentHandlers.DeactivateOffer())
			r.Post("/trustlines", agentHandlers.ProposeTrustline())
			r.Get("/trustlines", agentHandlers.Trustlines())
			r.Post("/trustlines/{trustline_id}/accept", agentHandlers.AcceptTrustline())
			r.Post("/trustlines/{trustline_id}/reject", agentHandlers.RejectTrustline())
			r.Post("/orders", agentHandlers.CreateOrder())
			r.Post("/orders/{order_id}/confirm", agentHandlers.ConfirmOrder())
		})

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.AdminAPIKey))
			r.Get("/agents", adminHandlers.Agents())
			r.Get("/ledger", adminHandlers.Ledger())
			r.Get("/settlements", adminHandlers.Settlements())
			r.Post("/clients", adminHandlers.CreateClient())
			r.Post("/products", adminHandlers.CreateProduct())
			r.Post("/relations", adminHandlers.CreateRelation())
			r.Patch("/relations/{relation_id}", adminHandlers.AdjustRelation())
			r.Post("/orders/{order_id}/close", adminHandlers.CloseOrder())

			r.Get("/debug/vars", expvar.Handler().ServeHTTP)
		})
	})

	return r
}

func LogRoutes(r chi.Router) {
	type routeDef struct {
		Method string
		Path   string
	}
	routes := make([]routeDef, 0, 32)
	err := chi.Walk(r, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, routeDef{Method: method, Path: route})
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("walk routes failed")
		return
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Registered routes (%d):\n", len(routes)))
	for _, rt := range routes {
		b.WriteString(fmt.Sprintf("  %-6s %s\n", rt.Method, rt.Path))
	}
	fmt.Print(b.String())
}
