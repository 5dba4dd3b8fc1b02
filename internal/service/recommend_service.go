package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"cinerec/internal/cache"
	"cinerec/internal/catalog"
	"cinerec/internal/enrich"
	"cinerec/internal/models"
)

const (
	// DefaultK es la cantidad de recomendaciones por consulta.
	DefaultK = catalog.DefaultN

	// cuántos lookups de enriquecimiento corren a la vez (póster + trailer
	// por cada película; son independientes entre sí, solo importa que cada
	// worker escriba su propia posición)
	enrichWorkers = 8

	recCacheTTL    = 60 * 60      // 1 hora
	enrichCacheTTL = 24 * 60 * 60 // 24 horas
)

// RecommendationStore es lo que el pipeline necesita para el historial
// (lo implementa repository.RecommendationRepository).
type RecommendationStore interface {
	Insert(ctx context.Context, rec *models.Recommendation) error
	FindByUser(ctx context.Context, userID int, limit int64) ([]models.Recommendation, error)
}

type RecommendService struct {
	catalog  *catalog.Catalog
	posters  enrich.Provider
	trailers enrich.Provider
	recRepo  RecommendationStore
}

func NewRecommendService(
	cat *catalog.Catalog,
	posters enrich.Provider,
	trailers enrich.Provider,
	recRepo RecommendationStore,
) *RecommendService {
	return &RecommendService{
		catalog:  cat,
		posters:  posters,
		trailers: trailers,
		recRepo:  recRepo,
	}
}

// ====== Petición de recomendaciones ======

type RecRequest struct {
	UserID  int
	Movie   string
	K       int
	Refresh bool
}

func cacheKey(movie string, k int) string {
	// cachea por título normalizado + k (refresh solo decide si usar cache)
	return fmt.Sprintf("rec:title:%s:k:%d", catalog.Normalize(movie), k)
}

// GetRecommendations arma la respuesta completa: ranking por similitud +
// póster y trailer por cada película. Título vacío o desconocido devuelve
// lista vacía sin error; un proveedor caído deja vacío el slot de esa
// película y nada más.
func (s *RecommendService) GetRecommendations(ctx context.Context, req RecRequest) ([]models.RecItem, error) {
	return s.getRecommendations(ctx, req, nil)
}

// GetRecommendationsStream es igual pero avisa por onItem a medida que cada
// película queda enriquecida (para el endpoint WebSocket). onItem puede
// llamarse desde varias goroutines a la vez.
func (s *RecommendService) GetRecommendationsStream(
	ctx context.Context,
	req RecRequest,
	onItem func(i int, item models.RecItem),
) ([]models.RecItem, error) {
	return s.getRecommendations(ctx, req, onItem)
}

func (s *RecommendService) getRecommendations(
	ctx context.Context,
	req RecRequest,
	onItem func(i int, item models.RecItem),
) ([]models.RecItem, error) {

	if req.K <= 0 || req.K > DefaultK {
		req.K = DefaultK
	}

	// 1) Ranking contra la matriz. Si no hay nada no tocamos proveedores
	//    ni cache: vacío no es error.
	scored := s.catalog.Recommend(req.Movie, req.K)
	if len(scored) == 0 {
		return []models.RecItem{}, nil
	}

	// 2) Cache Redis de la respuesta completa (solo si refresh = false y
	//    nadie está escuchando el progreso)
	if !req.Refresh && onItem == nil {
		var cached []models.RecItem
		if ok, err := cache.GetJSON(ctx, cacheKey(req.Movie, req.K), &cached); err == nil && ok {
			return cached, nil
		}
	}

	// 3) Enriquecer en paralelo con pool acotado. items[i] siempre es la
	//    i-ésima película del ranking: cada worker escribe solo su slot.
	items := make([]models.RecItem, len(scored))

	sem := make(chan struct{}, enrichWorkers)
	var wg sync.WaitGroup

	for i, sm := range scored {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, sm catalog.ScoredMovie) {
			defer wg.Done()
			defer func() { <-sem }()

			item := models.RecItem{
				Title: sm.Movie.Title,
				Score: sm.Score,
			}
			if u, ok := s.cachedFetch(ctx, "poster", s.posters, sm.Movie.Title); ok {
				item.PosterURL = u
			}
			if u, ok := s.cachedFetch(ctx, "trailer", s.trailers, sm.Movie.Title); ok {
				item.TrailerURL = u
			}

			items[i] = item
			if onItem != nil {
				onItem(i, item)
			}
		}(i, sm)
	}
	wg.Wait()

	// 4) Guardar historial en Mongo (no rompemos la respuesta si falla)
	if s.recRepo != nil {
		hist := &models.Recommendation{
			UserID:    req.UserID,
			Movie:     req.Movie,
			Items:     items,
			CreatedAt: time.Now(),
		}
		if err := s.recRepo.Insert(ctx, hist); err != nil {
			log.Printf("error guardando recomendación en Mongo: %v", err)
		}
	}

	// 5) Cachear en Redis
	if err := cache.SetJSON(ctx, cacheKey(req.Movie, req.K), items, recCacheTTL); err != nil {
		log.Printf("error cacheando recomendación en Redis: %v", err)
	}

	return items, nil
}

// History lista las últimas consultas del usuario.
func (s *RecommendService) History(ctx context.Context, userID int, limit int64) ([]models.Recommendation, error) {
	if s.recRepo == nil {
		return []models.Recommendation{}, nil
	}
	if limit <= 0 {
		limit = 20
	}
	return s.recRepo.FindByUser(ctx, userID, limit)
}

// cachedFetch consulta primero Redis y recién después al proveedor. Si
// Redis está caído se degrada a llamada directa; un miss del proveedor no
// se cachea (la película puede aparecer en OMDb/YouTube más adelante).
func (s *RecommendService) cachedFetch(ctx context.Context, kind string, p enrich.Provider, title string) (string, bool) {
	key := "enrich:" + kind + ":" + catalog.Normalize(title)

	var cached string
	if ok, err := cache.GetJSON(ctx, key, &cached); err == nil && ok && cached != "" {
		return cached, true
	}

	u, ok := p.Fetch(ctx, title)
	if ok {
		if err := cache.SetJSON(ctx, key, u, enrichCacheTTL); err != nil {
			log.Printf("error cacheando %s de %q: %v", kind, title, err)
		}
	}
	return u, ok
}
