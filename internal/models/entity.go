// internal/models/entity.go
package models

// EntityMatch is a resolved label from one of the vocabularies.
type EntityMatch struct {
	Label string     `json:"label"`
	Kind  EntityKind `json:"kind"`
	// Score is the similarity ratio of the winning match, 1 for exact
	// and synonym hits.
	Score float64 `json:"score"`
}
