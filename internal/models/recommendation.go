package models

import "time"

// RecItem es una película recomendada ya enriquecida.
// PosterURL y TrailerURL quedan vacíos si el proveedor no devolvió nada;
// la posición i siempre corresponde a la i-ésima película del ranking.
type RecItem struct {
	Title      string  `json:"title" bson:"title"`
	Score      float64 `json:"score" bson:"score"`
	PosterURL  string  `json:"posterUrl,omitempty" bson:"posterUrl,omitempty"`
	TrailerURL string  `json:"trailerUrl,omitempty" bson:"trailerUrl,omitempty"`
}

// Recommendation es el historial que guardamos en Mongo por cada consulta.
type Recommendation struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	UserID    int       `bson:"userId"        json:"userId"`
	Movie     string    `bson:"movie"         json:"movie"`
	Items     []RecItem `bson:"items"         json:"items"`
	CreatedAt time.Time `bson:"createdAt"     json:"createdAt"`
}
