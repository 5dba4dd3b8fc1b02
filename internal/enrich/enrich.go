package enrich

import "context"

// Provider traduce un título de película a una URL opcional (póster,
// trailer, lo que sea). Los dos proveedores reales tienen exactamente la
// misma forma, así que los servicios y los tests trabajan contra esta
// interfaz y no contra los clientes HTTP concretos.
//
// Un proveedor nunca devuelve error: caída de red, payload malformado y
// "no encontrado" son todos el mismo caso, ok=false. Tampoco reintenta.
type Provider interface {
	Fetch(ctx context.Context, title string) (url string, ok bool)
}
