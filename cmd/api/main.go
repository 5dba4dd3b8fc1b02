package main

import (
	"log"
	"net/http"

	_ "cinerec/docs" // swagger docs

	"cinerec/internal/cache"
	"cinerec/internal/catalog"
	"cinerec/internal/config"
	"cinerec/internal/db"
	"cinerec/internal/enrich"
	"cinerec/internal/handler"
	"cinerec/internal/repository"
	"cinerec/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title CineRec API
// @version 1.0
// @description Recomendador de películas (matriz de similitud precalculada + OMDb/YouTube)
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	// ==========================================
	// Artefactos del catálogo (fatal si faltan)
	// ==========================================
	if err := catalog.EnsureModel(cfg.SimilarityPath, cfg.ModelURL); err != nil {
		log.Fatalf("[catalog] %v", err)
	}
	cat, err := catalog.Load(cfg.MoviesPath, cfg.SimilarityPath)
	if err != nil {
		log.Fatalf("[catalog] %v", err)
	}

	// Mongo y Redis
	db.InitMongo(cfg)
	cache.InitRedis(cfg)

	// repos
	userRepo := repository.NewUserRepository()
	recRepo := repository.NewRecommendationRepository()

	// clientes de enriquecimiento
	posters := enrich.NewOMDBClient(cfg.OMDBAPIKey)
	trailers := enrich.NewYouTubeClient(cfg.YouTubeAPIKey)

	// services
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret)
	recSvc := service.NewRecommendService(cat, posters, trailers, recRepo)

	// handlers
	authH := handler.NewAuthHandler(authSvc)
	catalogH := handler.NewCatalogHandler(cat)
	recH := handler.NewRecommendHandler(recSvc)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// =============
	// Rutas públicas
	// =============
	r.Get("/health", handler.Health)

	r.Post("/auth/register", authH.Register)
	r.Post("/auth/login", authH.Login)

	// catálogo completo para el dropdown del home
	r.Get("/movies", catalogH.ListTitles)

	// ===========================
	// Rutas protegidas con JWT
	// ===========================
	authMw := handler.JWTAuth(cfg.JWTSecret)

	r.Group(func(r chi.Router) {
		r.Use(authMw)

		r.Post("/recommend", recH.Recommend)
		r.Get("/ws/recommend", recH.RecommendWS)
		r.Get("/me/history", recH.History)
	})

	// Swagger UI
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	log.Printf("HTTP escuchando en :%s", cfg.HTTPPort)
	log.Fatal(http.ListenAndServe(":"+cfg.HTTPPort, r))
}
