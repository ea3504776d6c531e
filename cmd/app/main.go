package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"community-service/configs"
	"community-service/internal/community"
	"community-service/internal/idem"
	"community-service/internal/identity"
	"community-service/internal/kafka"
	"community-service/internal/media"
	"community-service/internal/migrate"
	"community-service/internal/post"
	"community-service/internal/shared/db"
	"community-service/internal/shared/httpx"
	"community-service/internal/shared/redisx"
	"community-service/internal/storage/s3"
	"community-service/internal/user"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

func initOTEL(ctx context.Context) func(context.Context) error {
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		endpoint = "otel-collector:4318"
	}
	exp, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpoint(endpoint), otlptracehttp.WithInsecure())
	if err != nil {
		log.Fatalf("otel exporter: %v", err)
	}
	res, _ := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(os.Getenv("OTEL_SERVICE_NAME")),
		attribute.String("deployment.environment", os.Getenv("ENV")),
	))
	ratio := 1.0
	if s := os.Getenv("OTEL_TRACES_SAMPLER_ARG"); s != "" {
		if f, e := strconv.ParseFloat(s, 64); e == nil && f >= 0 && f <= 1 {
			ratio = f
		}
	}
	tp := trace.NewTracerProvider(
		trace.WithSampler(trace.ParentBased(trace.TraceIDRatioBased(ratio))),
		trace.WithBatcher(exp),
		trace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))
	return tp.Shutdown
}

func main() {
	ctx := context.Background()
	shutdown := initOTEL(ctx)
	defer func() {
		c, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		_ = shutdown(c)
	}()

	cfg := configs.LoadConfig()

	store := db.Open(cfg)
	if os.Getenv("AUTO_MIGRATE") == "true" {
		if err := migrate.AutoMigrateAll(store); err != nil {
			log.Fatalf("migrate: %v", err)
		}
	}

	blob, err := s3.New(s3.Config{
		Endpoint:   cfg.S3Endpoint,
		AccessKey:  cfg.S3AccessKey,
		SecretKey:  cfg.S3SecretKey,
		UseSSL:     cfg.S3UseSSL,
		Bucket:     cfg.S3Bucket,
		PublicBase: cfg.S3PublicBase,
	})
	if err != nil {
		log.Fatalf("s3: %v", err)
	}
	mediaSvc := media.NewService(blob)

	var verifier identity.Verifier
	if cfg.AuthServiceURL != "" {
		verifier = identity.NewRemoteVerifier(cfg.AuthServiceURL)
	} else {
		verifier = identity.NewJWTVerifier(cfg.JWTSecret)
	}

	var events kafka.Writer
	if cfg.KafkaBootstrap != "" {
		events = kafka.NewWriter(cfg.KafkaBootstrap, "posts.created")
		defer events.Close()
	}

	usersRepo := user.NewRepository(store.Base)

	communityRepo := community.NewRepository(store.Base)
	communitySvc := community.NewService(communityRepo, usersRepo)
	ch := community.NewHandler(communitySvc)

	postRepo := post.NewRepository(store.Base)
	postSvc := post.NewService(postRepo, mediaSvc, usersRepo, events)
	ph := post.NewHandler(postSvc)

	auth := identity.Middleware(verifier)

	var createPost http.Handler = httpx.Wrap(ph.Create)
	if cfg.RedisAddr != "" {
		rdb, err := redisx.New(cfg.RedisAddr)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		createPost = idem.Middleware(idem.New(rdb), 24*time.Hour, createPost)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.Handle("POST /api/communities", auth(httpx.Wrap(ch.Create)))
	mux.Handle("GET /api/communities", httpx.Wrap(ch.List))
	mux.Handle("GET /api/communities/{community_id}", httpx.Wrap(ch.GetByID))

	mux.Handle("POST /api/posts", auth(createPost))
	mux.Handle("GET /api/posts/{community_id}", httpx.Wrap(ph.ListByCommunity))
	mux.Handle("DELETE /api/posts/{post_id}", auth(httpx.Wrap(ph.Delete)))

	srv := &http.Server{
		Addr:              cfg.AppPort,
		Handler:           otelhttp.NewHandler(mux, "http.server"),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}
	log.Printf("community-service listening on %s", cfg.AppPort)
	log.Fatal(srv.ListenAndServe())
}
