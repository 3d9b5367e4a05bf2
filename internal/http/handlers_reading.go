package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"kulutus/internal/core"
	"kulutus/internal/services"
)

// readingPayload is the request body for inserting and updating a raw
// meter reading. Measurement values are pointers so "missing" and "zero"
// stay distinct; flow is only required for heat.
type readingPayload struct {
	PropertyID string   `json:"propertyId" validate:"required"`
	Year       int      `json:"year" validate:"required"`
	Month      string   `json:"month" validate:"required"`
	Date       string   `json:"readingDate" validate:"required"`
	Value      *float64 `json:"value" validate:"required"`
	Flow       *float64 `json:"flow"`
	Note       string   `json:"note"`
}

// readingJSON is the raw stored row echoed back by insert and update.
type readingJSON struct {
	ID          int64    `json:"id"`
	PropertyID  string   `json:"propertyId"`
	Year        int      `json:"year"`
	Month       string   `json:"month"`
	MonthNumber int      `json:"monthNumber"`
	ReadingDate string   `json:"readingDate"`
	Value       float64  `json:"value"`
	Flow        *float64 `json:"flow,omitempty"`
	Note        string   `json:"note,omitempty"`
}

// consumptionJSON is a derived consumption row joined with property
// attributes. Numeric measurements are fixed-decimal strings; property
// attributes are null when the reading's key has no registered match.
type consumptionJSON struct {
	ID              int64   `json:"id"`
	PropertyID      string  `json:"propertyId"`
	PropertyName    *string `json:"propertyName"`
	Address         *string `json:"address"`
	OwnerName       *string `json:"ownerName"`
	Year            int     `json:"year"`
	Month           string  `json:"month"`
	MonthNumber     int     `json:"monthNumber"`
	ReadingDate     string  `json:"readingDate"`
	Value           string  `json:"value"`
	Consumption     string  `json:"consumption"`
	Flow            *string `json:"flow,omitempty"`
	FlowConsumption *string `json:"flowConsumption,omitempty"`
	MeterReset      bool    `json:"meterReset,omitempty"`
	Note            string  `json:"note,omitempty"`
}

const dateLayout = "2006-01-02"

func utilityFromRequest(r *http.Request) core.Utility {
	return core.Utility(mux.Vars(r)["utility"])
}

func decodeReadingPayload(w http.ResponseWriter, r *http.Request, u core.Utility) (core.Reading, bool) {
	var payload readingPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return core.Reading{}, false
	}
	if err := validate.Struct(payload); err != nil {
		writeError(w, http.StatusBadRequest,
			"missing required fields: propertyId, year, month, readingDate and value are required")
		return core.Reading{}, false
	}
	if u.HasFlow() && payload.Flow == nil {
		writeError(w, http.StatusBadRequest, "missing required field: flow is required for heat readings")
		return core.Reading{}, false
	}

	date, err := time.Parse(dateLayout, payload.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid readingDate: expected YYYY-MM-DD")
		return core.Reading{}, false
	}

	rd := core.Reading{
		PropertyID: payload.PropertyID,
		Year:       payload.Year,
		Month:      payload.Month,
		Date:       date,
		Value:      *payload.Value,
		Note:       payload.Note,
	}
	if payload.Flow != nil {
		rd.Flow = *payload.Flow
	}
	return rd, true
}

func readingToJSON(u core.Utility, rd core.Reading) readingJSON {
	out := readingJSON{
		ID:          rd.ID,
		PropertyID:  rd.PropertyID,
		Year:        rd.Year,
		Month:       rd.Month,
		MonthNumber: rd.MonthNum,
		ReadingDate: rd.Date.Format(dateLayout),
		Value:       rd.Value,
		Note:        rd.Note,
	}
	if u.HasFlow() {
		flow := rd.Flow
		out.Flow = &flow
	}
	return out
}

func consumptionToJSON(u core.Utility, row services.ConsumptionRow) (consumptionJSON, error) {
	value, err := formatFixed(row.Value, u.ValueDecimals())
	if err != nil {
		return consumptionJSON{}, err
	}
	delta, err := formatFixed(row.DeltaValue, u.ValueDecimals())
	if err != nil {
		return consumptionJSON{}, err
	}

	out := consumptionJSON{
		ID:          row.ID,
		PropertyID:  row.PropertyID,
		Year:        row.Year,
		Month:       row.Month,
		MonthNumber: row.MonthNum,
		ReadingDate: row.Date.Format(dateLayout),
		Value:       value,
		Consumption: delta,
		MeterReset:  row.MeterReset,
		Note:        row.Note,
	}
	if row.Property != nil {
		out.PropertyName = &row.Property.Name
		out.Address = &row.Property.Address
		out.OwnerName = &row.Property.OwnerName
	}
	if u.HasFlow() {
		flow, err := formatFixed(row.Flow, u.FlowDecimals())
		if err != nil {
			return consumptionJSON{}, err
		}
		flowDelta, err := formatFixed(row.DeltaFlow, u.FlowDecimals())
		if err != nil {
			return consumptionJSON{}, err
		}
		out.Flow = &flow
		out.FlowConsumption = &flowDelta
	}
	return out, nil
}

func (s *Server) handleListConsumption(w http.ResponseWriter, r *http.Request) {
	u := utilityFromRequest(r)
	rows, err := s.consumption.List(r.Context(), u)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	out := make([]consumptionJSON, 0, len(rows))
	for _, row := range rows {
		j, err := consumptionToJSON(u, row)
		if err != nil {
			writeDomainError(w, r, err)
			return
		}
		out = append(out, j)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleInsertReading(w http.ResponseWriter, r *http.Request) {
	u := utilityFromRequest(r)
	rd, ok := decodeReadingPayload(w, r, u)
	if !ok {
		return
	}
	created, err := s.readings.Insert(r.Context(), u, rd)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, readingToJSON(u, created))
}

func (s *Server) handleUpdateReading(w http.ResponseWriter, r *http.Request) {
	u := utilityFromRequest(r)
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid reading id")
		return
	}
	rd, ok := decodeReadingPayload(w, r, u)
	if !ok {
		return
	}
	updated, err := s.readings.Update(r.Context(), u, id, rd)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, readingToJSON(u, updated))
}

func (s *Server) handleDeleteReading(w http.ResponseWriter, r *http.Request) {
	u := utilityFromRequest(r)
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid reading id")
		return
	}
	if err := s.readings.Delete(r.Context(), u, id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": id})
}
