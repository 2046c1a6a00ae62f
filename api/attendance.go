package api

import (
	"net/http"

	"github.com/warp/backoffice/office"
)

// =============================================================================
// ATTENDANCE HANDLERS
// =============================================================================

// GetAttendance returns active employees with their records in [start, end].
// Without start/end the current Monday-Sunday week is used.
func (h *Handler) GetAttendance(w http.ResponseWriter, r *http.Request) {
	period, err := h.periodFromQuery(r)
	if err != nil {
		h.writeServiceError(w, r, "Invalid period", err)
		return
	}

	rows, err := h.Store.WeekAttendance(r.Context(), contractorFrom(r), period)
	if err != nil {
		h.writeServiceError(w, r, "Failed to load attendance", err)
		return
	}

	dtos := make([]EmployeeAttendanceDTO, len(rows))
	for i, row := range rows {
		dtos[i] = EmployeeAttendanceDTO{
			Employee: toEmployeeDTO(row.Employee),
			Unit:     row.Employee.EmploymentType.Unit(),
			Records:  toAttendanceDTOs(row.Records),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SaveAttendance upserts one record on (employeeId, workDate).
func (h *Handler) SaveAttendance(w http.ResponseWriter, r *http.Request) {
	var req AttendanceRequest
	if err := h.decode(r, &req); err != nil {
		h.writeServiceError(w, r, "Invalid request", err)
		return
	}

	rec, err := h.Store.SaveAttendance(r.Context(), contractorFrom(r), req.toInput())
	if err != nil {
		h.writeServiceError(w, r, "Failed to save attendance", err)
		return
	}
	writeJSON(w, http.StatusOK, toAttendanceDTO(rec))
}

// BatchSaveAttendance upserts many records. Entries for unknown, foreign or
// inactive employees are skipped and counted.
func (h *Handler) BatchSaveAttendance(w http.ResponseWriter, r *http.Request) {
	var req BatchAttendanceRequest
	if err := h.decode(r, &req); err != nil {
		h.writeServiceError(w, r, "Invalid request", err)
		return
	}

	inputs := make([]office.AttendanceInput, len(req.Records))
	for i, rec := range req.Records {
		inputs[i] = rec.toInput()
	}

	result, err := h.Store.BatchSaveAttendance(r.Context(), contractorFrom(r), inputs)
	if err != nil {
		h.writeServiceError(w, r, "Failed to save attendance", err)
		return
	}
	if result.Failed > 0 {
		h.Logger.WithField("failed", result.Failed).Warn("attendance batch: some rows failed")
	}

	writeJSON(w, http.StatusOK, BatchAttendanceResponse{
		Saved:   toAttendanceDTOs(result.Saved),
		Skipped: result.Skipped,
		Failed:  result.Failed,
	})
}

// periodFromQuery reads ?start=&end= (or ?startDate=&endDate=), or
// ?period=week|month&date=. With neither, the current week is used.
func (h *Handler) periodFromQuery(r *http.Request) (office.Period, error) {
	q := r.URL.Query()

	start, end := q.Get("start"), q.Get("end")
	if start == "" {
		start = q.Get("startDate")
	}
	if end == "" {
		end = q.Get("endDate")
	}
	if start != "" || end != "" {
		return office.ParsePeriod(start, end)
	}

	anchor := office.DateOf(h.now())
	if d := q.Get("date"); d != "" {
		parsed, err := office.ParseDate(d)
		if err != nil {
			return office.Period{}, &office.ValidationError{
				Fields: []office.FieldError{{Field: "date", Rule: "date"}},
			}
		}
		anchor = parsed
	}

	switch q.Get("period") {
	case "", "week":
		return office.WeekOf(anchor), nil
	case "month":
		return office.MonthOf(anchor), nil
	}
	return office.Period{}, &office.ValidationError{
		Fields: []office.FieldError{{Field: "period", Rule: "oneof"}},
	}
}
