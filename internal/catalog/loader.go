package catalog

import (
	"encoding/gob"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

// Load lee los dos artefactos externos del catálogo: la lista de películas
// (JSON) y la matriz de similitud (gob). Los produce el pipeline de ML
// offline; acá solo se consumen.
func Load(moviesPath, simPath string) (*Catalog, error) {
	movies, err := loadMovies(moviesPath)
	if err != nil {
		return nil, fmt.Errorf("cargando películas: %w", err)
	}

	sim, err := loadSimilarity(simPath)
	if err != nil {
		return nil, fmt.Errorf("cargando matriz de similitud: %w", err)
	}

	c, err := New(movies, sim)
	if err != nil {
		return nil, err
	}
	log.Printf("[catalog] %d películas, matriz %dx%d", c.Len(), len(sim), len(sim))
	return c, nil
}

func loadMovies(path string) ([]Movie, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var movies []Movie
	if err := json.NewDecoder(f).Decode(&movies); err != nil {
		return nil, err
	}
	if len(movies) == 0 {
		return nil, fmt.Errorf("%s no tiene películas", path)
	}
	return movies, nil
}

func loadSimilarity(path string) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var sim [][]float64
	if err := gob.NewDecoder(f).Decode(&sim); err != nil {
		return nil, err
	}
	return sim, nil
}

// EnsureModel descarga el artefacto de similitud si todavía no existe en
// disco (el modelo pesa demasiado para ir en el repo). Si ya existe no hace
// nada.
func EnsureModel(path, url string) error {
	if _, err := os.Stat(path); err == nil {
		log.Printf("[catalog] modelo de similitud ya existe en %s", path)
		return nil
	}

	if url == "" {
		return fmt.Errorf("no existe %s y MODEL_URL no está configurado", path)
	}

	log.Printf("[catalog] descargando modelo de similitud desde %s ...", url)

	client := &http.Client{Timeout: 5 * time.Minute}
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("descargando modelo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("descargando modelo: status %s", resp.Status)
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}

	return os.Rename(tmp, path)
}
