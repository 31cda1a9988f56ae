package web

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/defiscope/yoe/internal/catalog"
	"github.com/defiscope/yoe/internal/config"
	"github.com/defiscope/yoe/internal/engine"
	"github.com/defiscope/yoe/internal/logger"
	"github.com/defiscope/yoe/internal/state"
	"github.com/defiscope/yoe/internal/types"
	"github.com/defiscope/yoe/internal/utils"
)

var webLogger = logger.GetForComponent("web_server")

// WebServer exposes the optimization engine over HTTP for the dashboard UI.
type WebServer struct {
	router  *mux.Router
	port    string
	engine  *engine.Engine
	catalog *catalog.Catalog
	store   *state.OptimizationStore
	stream  *streamHub
}

// NewWebServer creates a new web server instance. The store may be nil when
// persistence is disabled; the history endpoint then returns 404.
func NewWebServer(port string, eng *engine.Engine, cat *catalog.Catalog, store *state.OptimizationStore) *WebServer {
	if port == "" {
		port = "8080"
	}

	server := &WebServer{
		router:  mux.NewRouter(),
		port:    port,
		engine:  eng,
		catalog: cat,
		store:   store,
		stream:  newStreamHub(),
	}

	server.setupRoutes()

	// Push catalog refresh events to websocket subscribers.
	cat.SetRefreshHook(func(chainID types.ChainID, count int) {
		server.stream.broadcast(refreshEvent{
			Type:             "catalog_refresh",
			ChainID:          chainID,
			OpportunityCount: count,
			Timestamp:        time.Now().UTC(),
		})
	})

	return server
}

// setupRoutes configures all HTTP routes
func (ws *WebServer) setupRoutes() {
	// Health endpoint (direct route)
	ws.router.HandleFunc("/health", ws.handleHealth).Methods("GET")

	// API endpoints
	api := ws.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", ws.handleHealth).Methods("GET")
	api.HandleFunc("/optimize", ws.handleOptimize).Methods("POST")
	api.HandleFunc("/opportunities/{chainId}", ws.handleGetOpportunities).Methods("GET")
	api.HandleFunc("/chains", ws.handleGetChains).Methods("GET")
	api.HandleFunc("/bridges", ws.handleGetBridges).Methods("GET")
	api.HandleFunc("/parameters", ws.handleGetParameters).Methods("GET")
	api.HandleFunc("/optimizations", ws.handleGetOptimizations).Methods("GET")
	api.HandleFunc("/stream", ws.handleStream).Methods("GET")

	// Add CORS middleware
	ws.router.Use(ws.corsMiddleware)
	ws.router.Use(ws.loggingMiddleware)
}

// Start starts the web server
func (ws *WebServer) Start() error {
	webLogger.Info().Str("port", ws.port).Msg("Starting web server")

	server := &http.Server{
		Addr:         ":" + ws.port,
		Handler:      ws.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server.ListenAndServe()
}

// optimizeRequest is the POST /api/optimize body.
type optimizeRequest struct {
	Holdings      []types.AssetHolding          `json:"holdings"`
	ChainID       types.ChainID                 `json:"chain_id"`
	RiskTolerance int                           `json:"risk_tolerance"`
	Preferences   types.OptimizationPreferences `json:"preferences"`
}

// handleOptimize runs one full portfolio optimization.
func (ws *WebServer) handleOptimize(w http.ResponseWriter, r *http.Request) {
	var req optimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	for _, holding := range req.Holdings {
		if holding.Balance == "" {
			continue
		}
		if _, err := utils.ParseBalance(holding.Balance); err != nil {
			webLogger.Warn().Err(err).Str("symbol", holding.Symbol).Msg("Rejecting holding with malformed balance")
			ws.writeErrorResponse(w, http.StatusBadRequest, "Malformed balance for "+holding.Symbol)
			return
		}
	}

	result, err := ws.engine.Optimize(r.Context(), req.Holdings, req.ChainID, req.RiskTolerance, req.Preferences)
	if err != nil {
		webLogger.Warn().Err(err).Uint64("chainId", uint64(req.ChainID)).Msg("Optimization rejected")
		ws.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	ws.writeJSONResponse(w, http.StatusOK, result)
}

// handleGetOpportunities returns the current catalog snapshot for one chain.
func (ws *WebServer) handleGetOpportunities(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	chainIDRaw, err := strconv.ParseUint(vars["chainId"], 10, 64)
	if err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Invalid chain ID")
		return
	}
	chainID := types.ChainID(chainIDRaw)

	forceRefresh := r.URL.Query().Get("refresh") == "true"

	opportunities, err := ws.catalog.GetOpportunities(r.Context(), chainID, forceRefresh)
	if err != nil {
		ws.writeErrorResponse(w, http.StatusNotFound, "Unsupported chain")
		return
	}

	response := map[string]interface{}{
		"chain_id":      chainID,
		"opportunities": opportunities,
		"count":         len(opportunities),
		"last_refresh":  ws.catalog.LastRefresh(chainID),
	}

	ws.writeJSONResponse(w, http.StatusOK, response)
}

// handleGetChains returns the supported-chain registry.
func (ws *WebServer) handleGetChains(w http.ResponseWriter, r *http.Request) {
	chains := make([]types.Chain, 0, len(config.SupportedChains))
	for _, chain := range config.SupportedChains {
		chains = append(chains, chain)
	}
	ws.writeJSONResponse(w, http.StatusOK, map[string]interface{}{"chains": chains})
}

// handleGetBridges returns the static bridge route table.
func (ws *WebServer) handleGetBridges(w http.ResponseWriter, r *http.Request) {
	ws.writeJSONResponse(w, http.StatusOK, map[string]interface{}{"routes": config.BridgeRoutes()})
}

// handleGetParameters returns the engine's active parameter set.
func (ws *WebServer) handleGetParameters(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"parameters": ws.engine.Params(),
		"timestamp":  time.Now().UTC(),
	}
	ws.writeJSONResponse(w, http.StatusOK, response)
}

// handleGetOptimizations returns recent optimization snapshots.
func (ws *WebServer) handleGetOptimizations(w http.ResponseWriter, r *http.Request) {
	if ws.store == nil {
		ws.writeErrorResponse(w, http.StatusNotFound, "Optimization history is not enabled")
		return
	}

	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil && parsedLimit > 0 && parsedLimit <= 100 {
			limit = parsedLimit
		}
	}

	var chainID types.ChainID
	if chainStr := r.URL.Query().Get("chain_id"); chainStr != "" {
		if parsed, err := strconv.ParseUint(chainStr, 10, 64); err == nil {
			chainID = types.ChainID(parsed)
		}
	}

	snapshots, err := ws.store.GetRecentOptimizations(r.Context(), chainID, limit)
	if err != nil {
		webLogger.Error().Err(err).Msg("Failed to get recent optimizations")
		ws.writeErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve optimizations")
		return
	}

	response := map[string]interface{}{
		"optimizations": snapshots,
		"count":         len(snapshots),
		"limit":         limit,
	}

	ws.writeJSONResponse(w, http.StatusOK, response)
}

// handleHealth returns server health status
func (ws *WebServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	chainStatus := make(map[string]interface{})
	for _, chainID := range ws.catalog.Chains() {
		chainStatus[strconv.FormatUint(uint64(chainID), 10)] = ws.catalog.LastRefresh(chainID)
	}

	dbHealthy := true
	if ws.store != nil {
		if err := state.TestDBConnection(); err != nil {
			dbHealthy = false
		}
	}

	overallStatus := "OK"
	if !dbHealthy {
		overallStatus = "DEGRADED"
	}

	response := map[string]interface{}{
		"status":    overallStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		"system": map[string]interface{}{
			"version":          runtime.Version(),
			"goroutines_count": runtime.NumGoroutine(),
			"heap_objects":     memStats.HeapObjects,
		},
		"catalog": map[string]interface{}{
			"chains":       len(chainStatus),
			"last_refresh": chainStatus,
		},
		"database": map[string]interface{}{
			"enabled": ws.store != nil,
			"healthy": dbHealthy,
		},
		"stream_clients": ws.stream.clientCount(),
	}

	statusCode := http.StatusOK
	if overallStatus != "OK" {
		statusCode = http.StatusServiceUnavailable
	}

	ws.writeJSONResponse(w, statusCode, response)
}

// writeJSONResponse writes a JSON response
func (ws *WebServer) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		webLogger.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeErrorResponse writes an error response
func (ws *WebServer) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	response := map[string]interface{}{
		"error":     true,
		"message":   message,
		"timestamp": time.Now().UTC(),
	}

	ws.writeJSONResponse(w, statusCode, response)
}

// corsMiddleware adds CORS headers
func (ws *WebServer) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs HTTP requests
func (ws *WebServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapper := &responseWriterWrapper{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		duration := time.Since(start)

		webLogger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote_addr", r.RemoteAddr).
			Int("status", wrapper.statusCode).
			Dur("duration", duration).
			Msg("HTTP request")
	})
}

// responseWriterWrapper wraps http.ResponseWriter to capture status code
type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWriterWrapper) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

// Hijack lets the websocket upgrade reach the underlying connection.
func (w *responseWriterWrapper) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return hijacker.Hijack()
}
