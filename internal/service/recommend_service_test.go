package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"cinerec/internal/catalog"
	"cinerec/internal/models"
)

// fakeProvider es un doble de enrich.Provider con conteo de llamadas.
type fakeProvider struct {
	mu    sync.Mutex
	calls []string
	fn    func(title string) (string, bool)
}

func (f *fakeProvider) Fetch(ctx context.Context, title string) (string, bool) {
	f.mu.Lock()
	f.calls = append(f.calls, title)
	f.mu.Unlock()
	return f.fn(title)
}

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func okProvider(prefix string) *fakeProvider {
	return &fakeProvider{fn: func(title string) (string, bool) {
		return prefix + title, true
	}}
}

func failingFor(prefix, failTitle string) *fakeProvider {
	return &fakeProvider{fn: func(title string) (string, bool) {
		if title == failTitle {
			return "", false
		}
		return prefix + title, true
	}}
}

func smallCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	movies := []catalog.Movie{
		{Title: "Inception"},
		{Title: "Interstellar"},
		{Title: "Tenet"},
		{Title: "Dunkirk"},
	}
	sim := [][]float64{
		{1.0, 0.9, 0.7, 0.4},
		{0.9, 1.0, 0.6, 0.3},
		{0.7, 0.6, 1.0, 0.5},
		{0.4, 0.3, 0.5, 1.0},
	}
	c, err := catalog.New(movies, sim)
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	return c
}

func TestGetRecommendations_PositionalAlignment(t *testing.T) {
	posters := okProvider("poster://")
	trailers := okProvider("trailer://")
	svc := NewRecommendService(smallCatalog(t), posters, trailers, nil)

	items, err := svc.GetRecommendations(context.Background(), RecRequest{UserID: 1, Movie: "Inception"})
	if err != nil {
		t.Fatalf("GetRecommendations: %v", err)
	}

	want := []string{"Interstellar", "Tenet", "Dunkirk"}
	if len(items) != len(want) {
		t.Fatalf("len = %d, esperaba %d", len(items), len(want))
	}
	// el slot i de póster y trailer siempre corresponde al título i
	for i, w := range want {
		if items[i].Title != w {
			t.Errorf("items[%d].Title = %q, esperaba %q", i, items[i].Title, w)
		}
		if items[i].PosterURL != "poster://"+w {
			t.Errorf("items[%d].PosterURL = %q", i, items[i].PosterURL)
		}
		if items[i].TrailerURL != "trailer://"+w {
			t.Errorf("items[%d].TrailerURL = %q", i, items[i].TrailerURL)
		}
	}
}

func TestGetRecommendations_PerItemFailureIsIsolated(t *testing.T) {
	posters := failingFor("poster://", "Tenet")
	trailers := okProvider("trailer://")
	svc := NewRecommendService(smallCatalog(t), posters, trailers, nil)

	items, err := svc.GetRecommendations(context.Background(), RecRequest{UserID: 1, Movie: "Inception"})
	if err != nil {
		t.Fatalf("GetRecommendations: %v", err)
	}

	for _, it := range items {
		if it.Title == "Tenet" {
			if it.PosterURL != "" {
				t.Errorf("Tenet debería quedar sin póster, tiene %q", it.PosterURL)
			}
			if it.TrailerURL == "" {
				t.Error("el trailer de Tenet no debería verse afectado")
			}
			continue
		}
		if it.PosterURL == "" || it.TrailerURL == "" {
			t.Errorf("%q perdió enriquecimiento por la falla de otra película: %+v", it.Title, it)
		}
	}
}

func TestGetRecommendations_EmptyAndUnknown(t *testing.T) {
	posters := okProvider("poster://")
	trailers := okProvider("trailer://")
	svc := NewRecommendService(smallCatalog(t), posters, trailers, nil)

	for _, movie := range []string{"", "   ", "Nonexistent Movie"} {
		items, err := svc.GetRecommendations(context.Background(), RecRequest{UserID: 1, Movie: movie})
		if err != nil {
			t.Fatalf("GetRecommendations(%q): %v", movie, err)
		}
		if len(items) != 0 {
			t.Errorf("GetRecommendations(%q) devolvió %d items", movie, len(items))
		}
	}

	// sin resultados no hay por qué pegarle a los proveedores
	if posters.callCount() != 0 || trailers.callCount() != 0 {
		t.Errorf("proveedores llamados sin resultados: posters=%d trailers=%d",
			posters.callCount(), trailers.callCount())
	}
}

func TestGetRecommendations_KClamped(t *testing.T) {
	const size = 30
	movies := make([]catalog.Movie, size)
	sim := make([][]float64, size)
	for i := 0; i < size; i++ {
		movies[i] = catalog.Movie{Title: fmt.Sprintf("Movie %02d", i)}
		sim[i] = make([]float64, size)
		for j := 0; j < size; j++ {
			sim[i][j] = float64(j)
		}
		sim[i][i] = float64(size) // la propia siempre arriba
	}
	cat, err := catalog.New(movies, sim)
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}

	svc := NewRecommendService(cat, okProvider("p://"), okProvider("t://"), nil)

	for _, k := range []int{0, -3, 999} {
		items, err := svc.GetRecommendations(context.Background(), RecRequest{UserID: 1, Movie: "Movie 00", K: k})
		if err != nil {
			t.Fatalf("GetRecommendations(k=%d): %v", k, err)
		}
		if len(items) != DefaultK {
			t.Errorf("k=%d: len = %d, esperaba %d", k, len(items), DefaultK)
		}
	}
}

// memRecStore es un RecommendationStore en memoria, opcionalmente fallado.
type memRecStore struct {
	mu        sync.Mutex
	recs      []models.Recommendation
	insertErr error
}

func (m *memRecStore) Insert(ctx context.Context, rec *models.Recommendation) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.mu.Lock()
	m.recs = append(m.recs, *rec)
	m.mu.Unlock()
	return nil
}

func (m *memRecStore) FindByUser(ctx context.Context, userID int, limit int64) ([]models.Recommendation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Recommendation
	for _, r := range m.recs {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func TestGetRecommendations_RecordsHistory(t *testing.T) {
	store := &memRecStore{}
	svc := NewRecommendService(smallCatalog(t), okProvider("p://"), okProvider("t://"), store)

	if _, err := svc.GetRecommendations(context.Background(), RecRequest{UserID: 7, Movie: "Tenet"}); err != nil {
		t.Fatalf("GetRecommendations: %v", err)
	}

	hist, err := svc.History(context.Background(), 7, 0)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(hist) != 1 {
		t.Fatalf("historial con %d entradas, esperaba 1", len(hist))
	}
	if hist[0].Movie != "Tenet" || len(hist[0].Items) != 3 {
		t.Errorf("entrada de historial: %+v", hist[0])
	}
}

func TestGetRecommendations_HistoryFailureDoesNotBreakResponse(t *testing.T) {
	store := &memRecStore{insertErr: context.DeadlineExceeded}
	svc := NewRecommendService(smallCatalog(t), okProvider("p://"), okProvider("t://"), store)

	items, err := svc.GetRecommendations(context.Background(), RecRequest{UserID: 7, Movie: "Tenet"})
	if err != nil {
		t.Fatalf("la falla del historial no debería romper la respuesta: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("len = %d, esperaba 3", len(items))
	}
}

func TestGetRecommendationsStream_NotifiesEveryItem(t *testing.T) {
	posters := okProvider("poster://")
	trailers := okProvider("trailer://")
	svc := NewRecommendService(smallCatalog(t), posters, trailers, nil)

	var mu sync.Mutex
	seen := map[int]models.RecItem{}

	items, err := svc.GetRecommendationsStream(context.Background(),
		RecRequest{UserID: 1, Movie: "Inception"},
		func(i int, item models.RecItem) {
			mu.Lock()
			defer mu.Unlock()
			if _, dup := seen[i]; dup {
				t.Errorf("índice %d notificado dos veces", i)
			}
			seen[i] = item
		})
	if err != nil {
		t.Fatalf("GetRecommendationsStream: %v", err)
	}

	if len(seen) != len(items) {
		t.Fatalf("notificados %d items, esperaba %d", len(seen), len(items))
	}
	for i, it := range items {
		if seen[i].Title != it.Title {
			t.Errorf("progreso del índice %d: %q, el resultado final dice %q", i, seen[i].Title, it.Title)
		}
	}
}
