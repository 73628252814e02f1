package http

import (
	"net/http"

	"sitekhata/internal/core"
	"sitekhata/internal/log"
)

type siteRequest struct {
	Name      string `json:"name"`
	Location  string `json:"location"`
	SiteCode  string `json:"site_code"`
	IsRunning *bool  `json:"is_running"`
}

type siteResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Location  string `json:"location"`
	SiteCode  string `json:"site_code,omitempty"`
	IsRunning bool   `json:"is_running"`
	CreatedAt string `json:"created_at,omitempty"`
}

func siteOut(s core.Site) siteResponse {
	out := siteResponse{
		ID:        s.ID,
		Name:      s.Name,
		Location:  s.Location,
		SiteCode:  s.SiteCode,
		IsRunning: s.IsRunning,
	}
	if !s.CreatedAt.IsZero() {
		out.CreatedAt = s.CreatedAt.Format("2006-01-02 15:04:05")
	}
	return out
}

func (s *Server) handleCreateSite(w http.ResponseWriter, r *http.Request) {
	var req siteRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	site := core.Site{
		Name:      sanitizeInput(req.Name),
		Location:  sanitizeInput(req.Location),
		SiteCode:  sanitizeInput(req.SiteCode),
		IsRunning: true,
	}
	if req.IsRunning != nil {
		site.IsRunning = *req.IsRunning
	}
	if err := site.Validate(); err != nil {
		writeError(w, r, invalidArg(err))
		return
	}

	id, err := s.store.CreateSite(r.Context(), site)
	if err != nil {
		writeError(w, r, err)
		return
	}

	log.FromContext(r.Context()).InfoContext(r.Context(), "site created",
		log.FieldSiteID, id,
		log.FieldOperation, log.OpCreateSite,
	)
	writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

func (s *Server) handleListSites(w http.ResponseWriter, r *http.Request) {
	sites, err := s.store.ListSites(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]siteResponse, 0, len(sites))
	for _, site := range sites {
		out = append(out, siteOut(site))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetSite(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	site, err := s.store.GetSite(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, siteOut(site))
}

func (s *Server) handleDeleteSite(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if err := s.store.DeleteSite(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	log.FromContext(r.Context()).InfoContext(r.Context(), "site deleted",
		log.FieldSiteID, id,
		log.FieldOperation, log.OpDeleteSite,
	)
	w.WriteHeader(http.StatusNoContent)
}

type workerRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Age      int    `json:"age"`
	Contact  string `json:"contact"`
	Village  string `json:"village"`
	PhotoURI string `json:"photo_uri"`
}

type workerResponse struct {
	ID       int64  `json:"id"`
	SiteID   int64  `json:"site_id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Age      int    `json:"age,omitempty"`
	Contact  string `json:"contact,omitempty"`
	Village  string `json:"village,omitempty"`
	PhotoURI string `json:"photo_uri,omitempty"`
}

func workerOut(wk core.Worker) workerResponse {
	return workerResponse{
		ID:       wk.ID,
		SiteID:   wk.SiteID,
		Name:     wk.Name,
		Category: string(wk.Category),
		Age:      wk.Age,
		Contact:  wk.Contact,
		Village:  wk.Village,
		PhotoURI: wk.PhotoURI,
	}
}

func (s *Server) handleCreateWorker(w http.ResponseWriter, r *http.Request) {
	siteID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	var req workerRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	worker := core.Worker{
		SiteID:   siteID,
		Name:     sanitizeInput(req.Name),
		Category: core.WorkerCategory(req.Category),
		Age:      req.Age,
		Contact:  sanitizeInput(req.Contact),
		Village:  sanitizeInput(req.Village),
		PhotoURI: sanitizeInput(req.PhotoURI),
	}
	if err := worker.Validate(); err != nil {
		writeError(w, r, invalidArg(err))
		return
	}

	id, err := s.store.CreateWorker(r.Context(), worker)
	if err != nil {
		writeError(w, r, err)
		return
	}

	log.FromContext(r.Context()).InfoContext(r.Context(), "worker created",
		log.FieldSiteID, siteID,
		log.FieldWorkerID, id,
		log.FieldOperation, log.OpCreateWorker,
	)
	writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

func (s *Server) handleListWorkers(w http.ResponseWriter, r *http.Request) {
	siteID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	workers, err := s.store.ListWorkers(r.Context(), siteID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]workerResponse, 0, len(workers))
	for _, wk := range workers {
		out = append(out, workerOut(wk))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetWorker(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	wk, err := s.store.GetWorker(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, workerOut(wk))
}

func (s *Server) handleDeleteWorker(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if err := s.store.DeleteWorker(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
