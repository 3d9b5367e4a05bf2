package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"kulutus/internal/core"
)

// propertyPayload is the request body for creating and updating a
// property. The payload's propertyId may differ from the path key on
// update: that is how a property is re-keyed.
type propertyPayload struct {
	ID         string  `json:"propertyId" validate:"required"`
	Name       string  `json:"name"`
	Address    string  `json:"address" validate:"required"`
	BuildYear  int     `json:"buildYear"`
	Material   string  `json:"material"`
	FloorArea  float64 `json:"floorArea"`
	Volume     float64 `json:"volume"`
	LotArea    float64 `json:"lotArea"`
	OwnerName  string  `json:"ownerName" validate:"required"`
	OwnerPhone string  `json:"ownerPhone"`
	OwnerEmail string  `json:"ownerEmail" validate:"omitempty,email"`
	Note       string  `json:"note"`
}

type propertyJSON struct {
	ID         string  `json:"propertyId"`
	Name       string  `json:"name,omitempty"`
	Address    string  `json:"address"`
	BuildYear  int     `json:"buildYear,omitempty"`
	Material   string  `json:"material,omitempty"`
	FloorArea  float64 `json:"floorArea,omitempty"`
	Volume     float64 `json:"volume,omitempty"`
	LotArea    float64 `json:"lotArea,omitempty"`
	OwnerName  string  `json:"ownerName"`
	OwnerPhone string  `json:"ownerPhone,omitempty"`
	OwnerEmail string  `json:"ownerEmail,omitempty"`
	Note       string  `json:"note,omitempty"`
}

func (p propertyPayload) toDomain() core.Property {
	return core.Property{
		ID:         strings.TrimSpace(p.ID),
		Name:       p.Name,
		Address:    p.Address,
		BuildYear:  p.BuildYear,
		Material:   p.Material,
		FloorArea:  p.FloorArea,
		Volume:     p.Volume,
		LotArea:    p.LotArea,
		OwnerName:  p.OwnerName,
		OwnerPhone: p.OwnerPhone,
		OwnerEmail: p.OwnerEmail,
		Note:       p.Note,
	}
}

func propertyToJSON(p core.Property) propertyJSON {
	return propertyJSON{
		ID:         p.ID,
		Name:       p.Name,
		Address:    p.Address,
		BuildYear:  p.BuildYear,
		Material:   p.Material,
		FloorArea:  p.FloorArea,
		Volume:     p.Volume,
		LotArea:    p.LotArea,
		OwnerName:  p.OwnerName,
		OwnerPhone: p.OwnerPhone,
		OwnerEmail: p.OwnerEmail,
		Note:       p.Note,
	}
}

func decodePropertyPayload(w http.ResponseWriter, r *http.Request) (propertyPayload, bool) {
	var payload propertyPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return propertyPayload{}, false
	}
	if err := validate.Struct(payload); err != nil {
		writeError(w, http.StatusBadRequest,
			"missing required fields: propertyId, address and ownerName are required")
		return propertyPayload{}, false
	}
	return payload, true
}

func (s *Server) handleListProperties(w http.ResponseWriter, r *http.Request) {
	props, err := s.properties.List(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	out := make([]propertyJSON, 0, len(props))
	for _, p := range props {
		out = append(out, propertyToJSON(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateProperty(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodePropertyPayload(w, r)
	if !ok {
		return
	}
	created, err := s.properties.Create(r.Context(), payload.toDomain())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, propertyToJSON(created))
}

func (s *Server) handleUpdateProperty(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	payload, ok := decodePropertyPayload(w, r)
	if !ok {
		return
	}
	updated, err := s.properties.Update(r.Context(), key, payload.toDomain())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, propertyToJSON(updated))
}

func (s *Server) handleDeleteProperty(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	if strings.TrimSpace(key) == "" {
		writeError(w, http.StatusBadRequest, "property id is required")
		return
	}
	if err := s.properties.Delete(r.Context(), key); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": key})
}
