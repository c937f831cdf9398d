package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/letatnhien1912/Recommendation-System/internal/cache"
	"github.com/letatnhien1912/Recommendation-System/internal/config"
	"github.com/letatnhien1912/Recommendation-System/internal/db"
	"github.com/letatnhien1912/Recommendation-System/internal/handler"
	"github.com/letatnhien1912/Recommendation-System/internal/ranker"
	"github.com/letatnhien1912/Recommendation-System/internal/repository"
	"github.com/letatnhien1912/Recommendation-System/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// @title TDS Recommendation System API
// @version 1.0
// @description API de recomendaciones (contenido + colaborativo, Mongo, Redis)
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	// Mongo y Redis
	db.InitMongo(cfg)
	cache.InitRedis(cfg)

	// repos
	userRepo := repository.NewUserRepository()
	eventRepo := repository.NewEventRepository()
	productRepo := repository.NewProductRepository()
	purchaseRepo := repository.NewPurchaseRepository()
	ratingRepo := repository.NewRatingRepository()
	prefRepo := repository.NewPreferenceRepository()
	recRepo := repository.NewRecommendationRepository()

	// ================================
	// Leer direcciones de los simnodes
	// ================================
	var simNodes []string
	if env := os.Getenv("SIM_NODE_ADDRS"); env != "" {
		for _, v := range strings.Split(env, ",") {
			v = strings.TrimSpace(v)
			if v != "" {
				simNodes = append(simNodes, v)
			}
		}
	}
	if len(simNodes) == 0 {
		log.Println("[api] sin SIM_NODE_ADDRS, la matriz de similitud se calcula local")
	}

	// services
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret)
	refreshSvc := service.NewRefreshService(eventRepo, productRepo, ratingRepo, prefRepo)
	// el backend colaborativo (SVD) es externo; acá se inyectaría su cliente
	trainingSvc := service.NewTrainingService(productRepo, ratingRepo, simNodes, cfg.KNeighbors, nil)
	rk := ranker.New(purchaseRepo)
	recSvc := service.NewRecommendService(productRepo, prefRepo, ratingRepo, recRepo, trainingSvc, rk)

	// handlers
	authH := handler.NewAuthHandler(authSvc)
	recH := handler.NewRecommendHandler(recSvc)
	adminH := handler.NewAdminHandler(refreshSvc, trainingSvc)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// =============
	// Rutas públicas
	// =============
	r.Get("/health", handler.Health)

	r.Post("/auth/register", authH.Register)
	r.Post("/auth/login", authH.Login)

	// Recomendaciones (públicas, como el servicio original)
	r.Post("/recommend", recH.Recommend)
	r.Post("/similar-items", recH.SimilarItems)
	r.Post("/favorite-items", recH.FavoriteItems)

	// ===========================
	// Rutas protegidas con JWT
	// ===========================
	authMw := handler.JWTAuth(cfg.JWTSecret)

	r.Group(func(r chi.Router) {
		r.Use(authMw)

		// ---- Endpoints /me (USER normal) ----
		r.Get("/me/recommendations", recH.GetMyRecommendations)

		// ---- Endpoints solo ADMIN ----
		r.Group(func(r chi.Router) {
			r.Use(handler.AdminOnly())

			// mantenimiento del pipeline
			handler.MountAdminRoutes(r, adminH)

			r.Route("/users/{id}", func(r chi.Router) {
				r.Get("/recommendations/history", recH.GetHistory)

				// WebSocket
				r.Get("/ws/recommendations", recH.GetRecommendationsWS)
			})
		})
	})

	log.Printf("HTTP escuchando en :%s", cfg.HTTPPort)
	log.Fatal(http.ListenAndServe(":"+cfg.HTTPPort, r))
}
