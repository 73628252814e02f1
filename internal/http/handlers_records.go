package http

import (
	"fmt"
	"net/http"

	"sitekhata/internal/core"
	"sitekhata/internal/log"
)

type hajariRequest struct {
	WorkerID int64  `json:"worker_id"`
	Amount   string `json:"amount"`
	Overtime string `json:"overtime"`
	Date     string `json:"date"`
	Time     string `json:"time"`
}

type hajariBatchRequest struct {
	Records []hajariRequest `json:"records"`
}

type hajariResponse struct {
	ID             int64     `json:"id"`
	SiteID         int64     `json:"site_id"`
	WorkerID       int64     `json:"worker_id"`
	WorkerName     string    `json:"worker_name"`
	WorkerCategory string    `json:"worker_category"`
	Amount         moneyJSON `json:"amount"`
	Overtime       moneyJSON `json:"overtime"`
	Date           string    `json:"date"`
	Time           string    `json:"time,omitempty"`
}

func hajariOut(h core.HajariRecord) hajariResponse {
	return hajariResponse{
		ID:             h.ID,
		SiteID:         h.SiteID,
		WorkerID:       h.WorkerID,
		WorkerName:     h.WorkerName,
		WorkerCategory: string(h.WorkerCategory),
		Amount:         moneyOut(h.Amount),
		Overtime:       moneyOut(h.Overtime),
		Date:           h.Date,
		Time:           h.Time,
	}
}

func (s *Server) hajariFromRequest(r *http.Request, siteID int64, req hajariRequest) (core.HajariRecord, error) {
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return core.HajariRecord{}, invalidArg(err)
	}
	overtime := core.Money{}
	if req.Overtime != "" {
		overtime, err = parseAmount(req.Overtime)
		if err != nil {
			return core.HajariRecord{}, invalidArg(err)
		}
	}

	// Snapshot the worker's current name and category into the record.
	wk, err := s.store.GetWorker(r.Context(), req.WorkerID)
	if err != nil {
		return core.HajariRecord{}, err
	}
	if wk.SiteID != siteID {
		return core.HajariRecord{}, fmt.Errorf("%w: worker %d does not belong to site %d",
			core.ErrInvalidArgument, req.WorkerID, siteID)
	}

	rec := core.HajariRecord{
		SiteID:         siteID,
		WorkerID:       wk.ID,
		WorkerName:     wk.Name,
		WorkerCategory: wk.Category,
		Amount:         amount,
		Overtime:       overtime,
		Date:           sanitizeInput(req.Date),
		Time:           sanitizeInput(req.Time),
	}
	if err := rec.Validate(); err != nil {
		return core.HajariRecord{}, invalidArg(err)
	}
	return rec, nil
}

func (s *Server) handleCreateHajari(w http.ResponseWriter, r *http.Request) {
	siteID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	var req hajariRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	rec, err := s.hajariFromRequest(r, siteID, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	ids, err := s.records.SubmitHajariBatch(r.Context(), []core.HajariRecord{rec})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: ids[0]})
}

func (s *Server) handleHajariBatch(w http.ResponseWriter, r *http.Request) {
	siteID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	var req hajariBatchRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if len(req.Records) == 0 {
		writeError(w, r, fmt.Errorf("%w: empty batch", core.ErrInvalidArgument))
		return
	}

	recs := make([]core.HajariRecord, 0, len(req.Records))
	for _, item := range req.Records {
		rec, err := s.hajariFromRequest(r, siteID, item)
		if err != nil {
			writeError(w, r, err)
			return
		}
		recs = append(recs, rec)
	}

	ids, err := s.records.SubmitHajariBatch(r.Context(), recs)
	if err != nil {
		writeError(w, r, err)
		return
	}

	log.FromContext(r.Context()).InfoContext(r.Context(), "hajari batch recorded",
		log.FieldSiteID, siteID,
		log.FieldCount, len(ids),
		log.FieldOperation, log.OpHajariBatch,
	)
	writeJSON(w, http.StatusCreated, struct {
		IDs []int64 `json:"ids"`
	}{IDs: ids})
}

func (s *Server) handleListHajari(w http.ResponseWriter, r *http.Request) {
	siteID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	workerID, err := queryID(r, "worker_id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	recs, err := s.store.ListHajari(r.Context(), siteID, workerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]hajariResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, hajariOut(rec))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteHajari(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if err := s.store.DeleteHajari(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type expenseRequest struct {
	WorkerID    int64  `json:"worker_id"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

type expenseResponse struct {
	ID          int64     `json:"id"`
	SiteID      int64     `json:"site_id"`
	WorkerID    int64     `json:"worker_id,omitempty"`
	Amount      moneyJSON `json:"amount"`
	Description string    `json:"description"`
	Date        string    `json:"date"`
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	siteID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	var req expenseRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, r, invalidArg(err))
		return
	}

	exp := core.Expense{
		SiteID:      siteID,
		WorkerID:    req.WorkerID,
		Amount:      amount,
		Description: sanitizeInput(req.Description),
		Date:        sanitizeInput(req.Date),
	}
	if err := exp.Validate(); err != nil {
		writeError(w, r, invalidArg(err))
		return
	}

	id, err := s.store.CreateExpense(r.Context(), exp)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	siteID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	workerID, err := queryID(r, "worker_id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	exps, err := s.store.ListExpenses(r.Context(), siteID, workerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]expenseResponse, 0, len(exps))
	for _, e := range exps {
		out = append(out, expenseResponse{
			ID:          e.ID,
			SiteID:      e.SiteID,
			WorkerID:    e.WorkerID,
			Amount:      moneyOut(e.Amount),
			Description: e.Description,
			Date:        e.Date,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if err := s.store.DeleteExpense(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type paymentRequest struct {
	WorkerID int64  `json:"worker_id"`
	Amount   string `json:"amount"`
	Method   string `json:"method"`
	Date     string `json:"date"`
	Time     string `json:"time"`
}

type paymentResponse struct {
	ID             int64     `json:"id"`
	SiteID         int64     `json:"site_id"`
	WorkerID       int64     `json:"worker_id"`
	WorkerName     string    `json:"worker_name"`
	WorkerCategory string    `json:"worker_category"`
	Amount         moneyJSON `json:"amount"`
	Method         string    `json:"method"`
	Date           string    `json:"date"`
	Time           string    `json:"time,omitempty"`
}

func (s *Server) handleCreatePayment(w http.ResponseWriter, r *http.Request) {
	siteID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	var req paymentRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, r, invalidArg(err))
		return
	}

	wk, err := s.store.GetWorker(r.Context(), req.WorkerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if wk.SiteID != siteID {
		writeError(w, r, fmt.Errorf("%w: worker %d does not belong to site %d",
			core.ErrInvalidArgument, req.WorkerID, siteID))
		return
	}

	p := core.PaymentRecord{
		SiteID:         siteID,
		WorkerID:       wk.ID,
		WorkerName:     wk.Name,
		WorkerCategory: wk.Category,
		Amount:         amount,
		Date:           sanitizeInput(req.Date),
		Time:           sanitizeInput(req.Time),
		Method:         core.PaymentMethod(req.Method),
	}
	if err := p.Validate(); err != nil {
		writeError(w, r, invalidArg(err))
		return
	}

	id, err := s.records.RecordPayment(r.Context(), p)
	if err != nil {
		writeError(w, r, err)
		return
	}

	log.FromContext(r.Context()).InfoContext(r.Context(), "payment recorded",
		log.FieldSiteID, siteID,
		log.FieldWorkerID, wk.ID,
		log.FieldAmount, amount.Paise,
		log.FieldOperation, log.OpRecordPayment,
	)
	writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

func (s *Server) handleListPayments(w http.ResponseWriter, r *http.Request) {
	siteID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	workerID, err := queryID(r, "worker_id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	pays, err := s.store.ListPayments(r.Context(), siteID, workerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]paymentResponse, 0, len(pays))
	for _, p := range pays {
		out = append(out, paymentResponse{
			ID:             p.ID,
			SiteID:         p.SiteID,
			WorkerID:       p.WorkerID,
			WorkerName:     p.WorkerName,
			WorkerCategory: string(p.WorkerCategory),
			Amount:         moneyOut(p.Amount),
			Method:         string(p.Method),
			Date:           p.Date,
			Time:           p.Time,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeletePayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if err := s.store.DeletePayment(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type materialRequest struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Cost     string  `json:"cost"`
	Date     string  `json:"date"`
}

type materialResponse struct {
	ID       int64     `json:"id"`
	SiteID   int64     `json:"site_id"`
	Name     string    `json:"name"`
	Quantity float64   `json:"quantity"`
	Unit     string    `json:"unit"`
	Cost     moneyJSON `json:"cost"`
	Date     string    `json:"date"`
}

func (s *Server) handleCreateMaterial(w http.ResponseWriter, r *http.Request) {
	siteID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	var req materialRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	cost, err := parseAmount(req.Cost)
	if err != nil {
		writeError(w, r, invalidArg(err))
		return
	}

	m := core.Material{
		SiteID:   siteID,
		Name:     sanitizeInput(req.Name),
		Quantity: req.Quantity,
		Unit:     sanitizeInput(req.Unit),
		Cost:     cost,
		Date:     sanitizeInput(req.Date),
	}
	if err := m.Validate(); err != nil {
		writeError(w, r, invalidArg(err))
		return
	}

	id, err := s.store.CreateMaterial(r.Context(), m)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

func (s *Server) handleListMaterials(w http.ResponseWriter, r *http.Request) {
	siteID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	mats, err := s.store.ListMaterials(r.Context(), siteID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]materialResponse, 0, len(mats))
	for _, m := range mats {
		out = append(out, materialResponse{
			ID:       m.ID,
			SiteID:   m.SiteID,
			Name:     m.Name,
			Quantity: m.Quantity,
			Unit:     m.Unit,
			Cost:     moneyOut(m.Cost),
			Date:     m.Date,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteMaterial(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if err := s.store.DeleteMaterial(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
