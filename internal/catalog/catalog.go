package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultN es la cantidad de recomendaciones que devolvemos por consulta.
const DefaultN = 20

type Movie struct {
	Index int    `json:"index"`
	Title string `json:"title"`
}

type ScoredMovie struct {
	Movie Movie   `json:"movie"`
	Score float64 `json:"score"`
}

// Catalog es el catálogo fijo de películas más la matriz de similitud
// precalculada. Se carga una sola vez al arrancar y después es solo lectura,
// así que es seguro compartirlo entre requests sin locks.
type Catalog struct {
	movies []Movie
	index  map[string]int // título normalizado -> índice
	sim    [][]float64
}

// New valida que la matriz sea cuadrada y del mismo tamaño que la lista de
// películas. Cualquier inconsistencia acá es un error fatal de arranque,
// nunca un error de runtime.
func New(movies []Movie, sim [][]float64) (*Catalog, error) {
	if len(sim) != len(movies) {
		return nil, fmt.Errorf("catalog: %d películas pero la matriz tiene %d filas", len(movies), len(sim))
	}
	for i, row := range sim {
		if len(row) != len(movies) {
			return nil, fmt.Errorf("catalog: fila %d de la matriz tiene %d columnas, esperaba %d", i, len(row), len(movies))
		}
	}

	idx := make(map[string]int, len(movies))
	for i := range movies {
		movies[i].Index = i
		norm := Normalize(movies[i].Title)
		// si hay títulos duplicados gana el primero, igual que el lookup original
		if _, ya := idx[norm]; !ya {
			idx[norm] = i
		}
	}

	return &Catalog{movies: movies, index: idx, sim: sim}, nil
}

// Normalize deja el título listo para comparar: sin espacios a los costados
// y en minúsculas. Es idempotente; a los títulos del catálogo se les aplica
// una sola vez al cargar, a la consulta del usuario en cada lookup.
func Normalize(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// LookupIndex resuelve un título (crudo, como lo manda el usuario) a su
// índice en el catálogo. Que no exista no es un error: es el caso común
// cuando el usuario tipea cualquier cosa.
func (c *Catalog) LookupIndex(title string) (int, bool) {
	i, ok := c.index[Normalize(title)]
	return i, ok
}

// Titles devuelve los títulos tal como vienen en el catálogo (para el
// dropdown del home).
func (c *Catalog) Titles() []string {
	out := make([]string, len(c.movies))
	for i, m := range c.movies {
		out[i] = m.Title
	}
	return out
}

func (c *Catalog) Len() int {
	return len(c.movies)
}

// Recommend rankea todas las películas por similitud contra `title` y
// devuelve hasta n (default 20), de mayor a menor score, excluyendo la
// película consultada. Empates quedan en orden de inserción del catálogo
// (sort estable, decisión documentada).
//
// Título vacío o desconocido => slice vacío, sin error.
func (c *Catalog) Recommend(title string, n int) []ScoredMovie {
	if n <= 0 {
		n = DefaultN
	}

	out := []ScoredMovie{}

	if strings.TrimSpace(title) == "" {
		return out
	}
	idx, ok := c.LookupIndex(title)
	if !ok {
		return out
	}

	row := c.sim[idx]

	order := make([]int, len(row))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return row[order[a]] > row[order[b]]
	})

	for _, j := range order {
		if j == idx {
			// nunca recomendamos la película consultada
			continue
		}
		out = append(out, ScoredMovie{Movie: c.movies[j], Score: row[j]})
		if len(out) == n {
			break
		}
	}
	return out
}
