package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"younv/audit"
	"younv/database"
	"younv/entities/catalog"
	"younv/entities/clinics"
	"younv/entities/leads"
	entitymigrations "younv/entities/migrations"
	"younv/entities/realtime"
	"younv/entities/report"
	"younv/entities/tags"
	"younv/localcache"
	"younv/middlewares"
	"younv/migrations"
	"younv/records"
	"younv/tenancy"
	"younv/utils"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"
)

const SHUTDOWN_TIMEOUT = 15 * time.Second

func main() {
	utils.LoadEnvVariables()

	env := os.Getenv(utils.ENV)
	if env == utils.ENV_RELEASE {
		fmt.Printf("\033[1;31;47m[ATENÇÃO] Rodando em ambiente de PRODUÇÃO!\033[0m\n")
	} else {
		fmt.Printf("[INFO] Ambiente atual: %s\n", env)
	}

	logger, err := utils.NewLogger(os.Getenv(utils.LOG_LEVEL), os.Getenv(utils.LOG_FORMAT), "younv-crm")
	if err != nil {
		panic("[LOG] Erro ao criar logger: " + err.Error())
	}
	defer logger.Sync()

	ctx := context.Background()

	backend, closeBackend := openBackend(ctx, logger)
	defer closeBackend()

	kv := openLocalKV(ctx, logger)
	defer kv.Close()

	resolver := audit.DefaultResolver()
	leadPolicy := audit.DefaultLeadPolicy()
	if fields := utils.GetEnvList(utils.AUDIT_WATCHED_FIELDS); len(fields) > 0 {
		leadPolicy = leadPolicy.WithWatchedFields(fields)
	}

	adapter := records.NewAdapter(backend, records.DefaultFieldMaps(), logger)
	composer := audit.NewComposer(adapter, resolver, logger).WithPolicy(database.COLLECTION_LEADS, leadPolicy)
	cache := localcache.NewCache(kv, resolver, logger)

	origins := middlewares.AllowedOrigins()
	hub := realtime.NewHub(origins, logger)
	store := tenancy.NewStore(composer, cache, logger).WithNotifier(hub)

	directory := openDirectory(ctx, adapter, logger)

	auth := middlewares.NewAuth(os.Getenv(utils.AUTH_API_URL), logger)
	tenant := middlewares.Tenant(directory, logger)
	protected := func(h http.HandlerFunc) http.Handler {
		return auth.Middleware(tenant(h))
	}
	adminOnly := middlewares.Admin(utils.GetEnvList(utils.ADMIN_USER_IDS), logger)
	admin := func(h http.HandlerFunc) http.Handler {
		return auth.Middleware(adminOnly(h))
	}

	leadsHandler := leads.NewHandler(store, leadPolicy, logger)
	tagsHandler := tags.NewHandler(store, logger)
	medicos := catalog.NewMedicosHandler(store, logger)
	especialidades := catalog.NewEspecialidadesHandler(store, logger)
	procedimentos := catalog.NewProcedimentosHandler(store, logger)
	clinicsHandler := clinics.NewHandler(store, logger)
	reportHandler := report.NewHandler(store, leadPolicy, logger)
	migrationsHandler := entitymigrations.NewHandler(migrations.NewRunner(adapter, logger), clinicsHandler.Service(), logger)

	mux := http.NewServeMux()

	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		utils.SendResponse(w, http.StatusOK, "ok", nil, 0)
	})

	mux.Handle("GET /v1/leads", protected(leadsHandler.GetAll))
	mux.Handle("GET /v1/leads/audit", protected(leadsHandler.GetAllWithAudit))
	mux.Handle("GET /v1/leads/period", protected(leadsHandler.GetByPeriod))
	mux.Handle("GET /v1/leads/{id}", protected(leadsHandler.GetOne))
	mux.Handle("GET /v1/leads/{id}/history", protected(leadsHandler.GetHistory))
	mux.Handle("POST /v1/leads", protected(leadsHandler.CreateOne))
	mux.Handle("PATCH /v1/leads/{id}", protected(leadsHandler.UpdateOne))
	mux.Handle("DELETE /v1/leads/{id}", protected(leadsHandler.DeleteOne))

	mux.Handle("GET /v1/tags", protected(tagsHandler.GetAll))
	mux.Handle("GET /v1/tags/{id}", protected(tagsHandler.GetOne))
	mux.Handle("POST /v1/tags", protected(tagsHandler.CreateOne))
	mux.Handle("POST /v1/tags/defaults", protected(tagsHandler.CreateDefaults))
	mux.Handle("PATCH /v1/tags/{id}", protected(tagsHandler.UpdateOne))
	mux.Handle("DELETE /v1/tags/{id}", protected(tagsHandler.DeleteOne))

	for prefix, h := range map[string]*catalog.Handler{
		"/v1/medicos":        medicos,
		"/v1/especialidades": especialidades,
		"/v1/procedimentos":  procedimentos,
	} {
		mux.Handle("GET "+prefix, protected(h.GetAll))
		mux.Handle("GET "+prefix+"/{id}", protected(h.GetOne))
		mux.Handle("POST "+prefix, protected(h.CreateOne))
		mux.Handle("PATCH "+prefix+"/{id}", protected(h.UpdateOne))
		mux.Handle("DELETE "+prefix+"/{id}", protected(h.DeleteOne))
	}
	mux.Handle("POST /v1/especialidades/defaults", protected(especialidades.Seed))

	mux.Handle("GET /v1/clinics", protected(clinicsHandler.GetAll))
	mux.Handle("GET /v1/clinics/{id}", protected(clinicsHandler.GetOne))
	mux.Handle("POST /v1/clinics", protected(clinicsHandler.CreateOne))
	mux.Handle("POST /v1/clinics/default", protected(clinicsHandler.CreateDefault))
	mux.Handle("PATCH /v1/clinics/{id}", protected(clinicsHandler.UpdateOne))
	mux.Handle("DELETE /v1/clinics/{id}", protected(clinicsHandler.DeactivateOne))

	mux.Handle("GET /v1/reports/dashboard", protected(reportHandler.GetDashboard))
	mux.Handle("GET /v1/reports/audit", protected(reportHandler.GetAuditReport))
	mux.Handle("GET /v1/reports/audit/stats", protected(reportHandler.GetAuditStats))
	mux.Handle("GET /v1/reports/audit/users/{user_id}", protected(reportHandler.GetUserChanges))
	mux.Handle("GET /v1/reports/export", protected(reportHandler.ExportLeads))

	mux.Handle("POST /v1/admin/migrations/fields/{collection}", admin(migrationsHandler.RunFields))
	mux.Handle("POST /v1/admin/migrations/tags", admin(migrationsHandler.RunTags))
	mux.Handle("POST /v1/admin/migrations/audit/{collection}", admin(migrationsHandler.RunAudit))
	mux.Handle("POST /v1/admin/migrations/audit/{collection}/cleanup", admin(migrationsHandler.RunAuditCleanup))
	mux.Handle("POST /v1/admin/migrations/tenant", admin(migrationsHandler.RunTenant))
	mux.Handle("GET /v1/admin/migrations/tenant/status", admin(migrationsHandler.GetTenantStatus))
	mux.Handle("POST /v1/admin/migrations/tenant/rollback", admin(migrationsHandler.RunTenantRollback))

	mux.Handle("GET /v1/ws/records", protected(hub.ServeHTTP))

	handler := middlewares.SecurityHeaders(middlewares.Cors(origins)(middlewares.RequestLogger(logger)(mux)))

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", os.Getenv(utils.PORT)),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started", zap.String("addr", server.Addr), zap.String("env", env))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), SHUTDOWN_TIMEOUT)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// openBackend connects to MongoDB, or keeps everything in memory when
// MONGODB_URI is memory://.
func openBackend(ctx context.Context, logger *zap.Logger) (records.Backend, func()) {
	uri := os.Getenv(utils.MONGODB_URI)
	if uri == database.MEMORY_URI {
		logger.Warn("using in-memory record backend, data is lost on restart")
		return records.NewMemoryBackend(), func() {}
	}

	client, err := database.ConnectMongo(ctx, uri)
	if err != nil {
		logger.Fatal("cannot connect to MongoDB", zap.Error(err))
	}

	return records.NewMongoBackend(client.Database(database.GetDB()), database.MONGO_TIMEOUT), func() {
		disconnect(client, logger)
	}
}

func disconnect(client *mongo.Client, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), database.MONGO_TIMEOUT)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		logger.Warn("MongoDB disconnect failed", zap.Error(err))
	}
}

type closableKV interface {
	localcache.KV
	io.Closer
}

// openLocalKV uses Redis when REDIS_URI is set and the SQLite file otherwise.
func openLocalKV(ctx context.Context, logger *zap.Logger) closableKV {
	if uri := os.Getenv(utils.REDIS_URI); uri != "" {
		kv, err := localcache.OpenRedis(ctx, uri)
		if err != nil {
			logger.Fatal("cannot connect to Redis", zap.Error(err))
		}
		return kv
	}

	path := utils.GetEnvOr(utils.LOCAL_CACHE_PATH, utils.DEFAULT_LOCAL_CACHE_PATH)
	kv, err := localcache.OpenSQLite(path)
	if err != nil {
		logger.Fatal("cannot open local cache", zap.String("path", path), zap.Error(err))
	}
	return kv
}

// openDirectory reads the user to clinic association from MySQL when
// MYSQL_URI is set and from the usuarios_clinicas collection otherwise.
func openDirectory(ctx context.Context, store records.Store, logger *zap.Logger) tenancy.Directory {
	if dsn := os.Getenv(utils.MYSQL_URI); dsn != "" {
		db, err := database.OpenMySQL(ctx, dsn)
		if err != nil {
			logger.Fatal("cannot connect to MySQL", zap.Error(err))
		}
		return tenancy.NewCachedDirectory(tenancy.NewMySQLDirectory(db), tenancy.DIRECTORY_CACHE_TTL)
	}
	return tenancy.NewCachedDirectory(tenancy.NewRecordDirectory(store), tenancy.DIRECTORY_CACHE_TTL)
}
