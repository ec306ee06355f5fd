package httptransport

import "expvar"

var (
	metricResolveTotal         = expvar.NewInt("resolve_total")
	metricResolveFallbackTotal = expvar.NewInt("resolve_fallback_total")
	metricCatalogBuildTotal    = expvar.NewInt("catalog_build_total")

	metricOrderCreateTotal  = expvar.NewInt("order_create_total")
	metricOrderCreateErrors = expvar.NewInt("order_create_errors_total")
	metricSettlementTotal   = expvar.NewInt("settlement_total")
)
