package serverapp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/SADD1990/Taskmanager/internal/config"
	"github.com/SADD1990/Taskmanager/internal/dashboard"
	"github.com/SADD1990/Taskmanager/internal/httpmw"
	"github.com/SADD1990/Taskmanager/internal/query"
	"github.com/SADD1990/Taskmanager/internal/server"
	"github.com/SADD1990/Taskmanager/internal/store"
	"github.com/SADD1990/Taskmanager/internal/vcard"
)

type Options struct {
	Config *config.Config
	Logger *logrus.Logger

	// Store overrides the gateway-backed store, used by tests.
	Store *store.Store
}

// NewHandler wires the whole HTTP surface: storage gateway, domain store,
// per-package handlers, route registry and the middleware chain.
func NewHandler(opts Options) (http.Handler, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	st := opts.Store
	if st == nil {
		gw, err := newGateway(opts.Config)
		if err != nil {
			return nil, err
		}
		st = store.New(gw, store.WithSaveAlert(func(err error) {
			opts.Logger.WithError(err).Warn("persist snapshot")
		}))
		if err := st.Load(); err != nil {
			return nil, fmt.Errorf("load snapshot: %w", err)
		}
	}

	mux := http.NewServeMux()
	rr := &server.RouteRegistry{}

	storeHandler := store.NewHandler(st, opts.Config.DefaultCountryCode)
	server.Handle(mux, rr, "GET /api/clients", "list clients", storeHandler.ClientsRoot)
	server.Handle(mux, rr, "POST /api/clients", "create client", storeHandler.ClientsRoot)
	server.Handle(mux, rr, "GET /api/clients/{id}", "fetch one client", storeHandler.ClientsSub)
	server.Handle(mux, rr, "PATCH /api/clients/{id}", "edit client fields", storeHandler.ClientsSub)
	server.Handle(mux, rr, "DELETE /api/clients/{id}", "delete client without tasks", storeHandler.ClientsSub)

	server.Handle(mux, rr, "GET /api/tasks", "list tasks", storeHandler.TasksRoot)
	server.Handle(mux, rr, "POST /api/tasks", "create task", storeHandler.TasksRoot)
	server.Handle(mux, rr, "GET /api/tasks/{id}", "fetch one task", storeHandler.TasksSub)
	server.Handle(mux, rr, "PATCH /api/tasks/{id}", "edit task fields", storeHandler.TasksSub)
	server.Handle(mux, rr, "DELETE /api/tasks/{id}", "delete task", storeHandler.TasksSub)

	dashHandler := dashboard.NewHandler(st, opts.Config.CurrencySuffix)
	server.Handle(mux, rr, "GET /api/dashboard", "aggregate counters and recent tasks", dashHandler.Overview)

	queryHandler := query.NewHandler(st, opts.Config.CurrencySuffix)
	server.Handle(mux, rr, "GET /api/views/tasks", "filtered and sorted task table", queryHandler.TaskView)
	server.Handle(mux, rr, "GET /api/views/debtors", "clients with outstanding balances", queryHandler.DebtorView)

	vcardHandler := vcard.NewHandler(st)
	server.Handle(mux, rr, "POST /api/clients/import", "import clients from vCard text", vcardHandler.ImportClients)
	server.Handle(mux, rr, "GET /api/clients/export", "export clients as vCard text", vcardHandler.ExportClients)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "taskmanager",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("GET /api/routes", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, rr.List())
	})

	return httpmw.Chain(
		mux,
		httpmw.WithAccessLog(opts.Logger),
		httpmw.WithRequestID,
		httpmw.WithRecover(opts.Logger),
	), nil
}

func newGateway(cfg *config.Config) (store.Gateway, error) {
	switch cfg.Storage {
	case "sqlite":
		return store.NewSQLiteGateway(cfg.DataDir)
	default:
		return store.NewFileGateway(cfg.DataDir)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
