//
// Tencent is pleased to support the open source community by making trpc-agent-evals available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evals is licensed under the Apache License Version 2.0.
//
//

// Package debug provides a small HTTP server for inspecting evaluation sets
// and run results during development.
package debug

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sort"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"trpc.group/trpc-go/trpc-agent-evals/evaluation/evalresult"
	evalresultinmemory "trpc.group/trpc-go/trpc-agent-evals/evaluation/evalresult/inmemory"
	"trpc.group/trpc-go/trpc-agent-evals/evaluation/evalset"
	evalsetinmemory "trpc.group/trpc-go/trpc-agent-evals/evaluation/evalset/inmemory"
	"trpc.group/trpc-go/trpc-agent-evals/log"
)

// Server exposes REST endpoints over the eval set and run result managers.
type Server struct {
	router *mux.Router

	evalSetManager    evalset.Manager    // evalSetManager is the manager for evaluation sets.
	evalResultManager evalresult.Manager // evalResultManager is the manager for evaluation results.
}

// Option configures the Server instance.
type Option func(*Server)

// WithEvalSetManager overrides the default eval set manager.
func WithEvalSetManager(m evalset.Manager) Option {
	return func(s *Server) {
		if m != nil {
			s.evalSetManager = m
		}
	}
}

// WithEvalResultManager overrides the default eval result manager.
func WithEvalResultManager(m evalresult.Manager) Option {
	return func(s *Server) {
		if m != nil {
			s.evalResultManager = m
		}
	}
}

// New creates a debug HTTP server. The behaviour can be tweaked via
// functional options; in-memory managers are used by default.
func New(opts ...Option) *Server {
	s := &Server{
		router:            mux.NewRouter(),
		evalSetManager:    evalsetinmemory.New(),
		evalResultManager: evalresultinmemory.New(),
	}
	for _, opt := range opts {
		opt(s)
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Content-Length", "Content-Type"},
	})
	s.router.Use(c.Handler)
	s.registerRoutes()
	return s
}

// Handler returns the http.Handler for the server.
func (s *Server) Handler() http.Handler { return s.router }

// registerRoutes sets up all REST endpoints.
func (s *Server) registerRoutes() {
	s.router.HandleFunc("/eval-sets", s.handleListEvalSets).Methods(http.MethodGet)
	s.router.HandleFunc("/eval-sets/{evalSetId}", s.handleCreateEvalSet).Methods(http.MethodPost)
	s.router.HandleFunc("/eval-sets/{evalSetId}", s.handleGetEvalSet).Methods(http.MethodGet)
	s.router.HandleFunc("/eval-sets/{evalSetId}/items", s.handleListItems).Methods(http.MethodGet)
	s.router.HandleFunc("/eval-sets/{evalSetId}/items", s.handleAddItem).Methods(http.MethodPost)
	s.router.HandleFunc("/eval-sets/{evalSetId}/items/{itemId}", s.handleGetItem).Methods(http.MethodGet)
	s.router.HandleFunc("/eval-sets/{evalSetId}/items/{itemId}", s.handleDeleteItem).Methods(http.MethodDelete)
	s.router.HandleFunc("/eval-results", s.handleListEvalResults).Methods(http.MethodGet)
	s.router.HandleFunc("/eval-results/{runId}", s.handleGetEvalResult).Methods(http.MethodGet)
}

// handleListEvalSets lists all eval set ids.
func (s *Server) handleListEvalSets(w http.ResponseWriter, r *http.Request) {
	log.Infof("handleListEvalSets called: path=%s", r.URL.Path)
	ids, err := s.evalSetManager.List(r.Context())
	if err != nil {
		ids = []string{}
	}
	sort.Strings(ids)
	s.writeJSON(w, ids)
}

// handleCreateEvalSet creates an empty eval set.
func (s *Server) handleCreateEvalSet(w http.ResponseWriter, r *http.Request) {
	log.Infof("handleCreateEvalSet called: path=%s", r.URL.Path)
	vars := mux.Vars(r)
	evalSetID := vars["evalSetId"]
	set, err := s.evalSetManager.Create(r.Context(), evalSetID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.writeJSON(w, set)
}

// handleGetEvalSet gets one eval set.
func (s *Server) handleGetEvalSet(w http.ResponseWriter, r *http.Request) {
	log.Infof("handleGetEvalSet called: path=%s", r.URL.Path)
	vars := mux.Vars(r)
	evalSetID := vars["evalSetId"]
	set, err := s.evalSetManager.Get(r.Context(), evalSetID)
	if err != nil {
		s.writeError(w, fmt.Sprintf("Eval set `%s` not found.", evalSetID), err)
		return
	}
	s.writeJSON(w, set)
}

// handleListItems lists the item ids of an eval set.
func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	log.Infof("handleListItems called: path=%s", r.URL.Path)
	vars := mux.Vars(r)
	evalSetID := vars["evalSetId"]
	set, err := s.evalSetManager.Get(r.Context(), evalSetID)
	if err != nil {
		s.writeError(w, fmt.Sprintf("Eval set `%s` not found.", evalSetID), err)
		return
	}
	ids := make([]string, 0, len(set.Items))
	for _, item := range set.Items {
		ids = append(ids, item.ID)
	}
	sort.Strings(ids)
	s.writeJSON(w, ids)
}

// handleAddItem adds an item to an eval set.
func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	log.Infof("handleAddItem called: path=%s", r.URL.Path)
	vars := mux.Vars(r)
	evalSetID := vars["evalSetId"]
	var item evalset.EvaluationItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()
	if err := s.evalSetManager.AddItem(r.Context(), evalSetID, &item); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// handleGetItem gets a single evaluation item.
func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	log.Infof("handleGetItem called: path=%s", r.URL.Path)
	vars := mux.Vars(r)
	evalSetID := vars["evalSetId"]
	itemID := vars["itemId"]
	set, err := s.evalSetManager.Get(r.Context(), evalSetID)
	if err != nil {
		s.writeError(w, fmt.Sprintf("Eval set `%s` not found.", evalSetID), err)
		return
	}
	for _, item := range set.Items {
		if item.ID == itemID {
			s.writeJSON(w, item)
			return
		}
	}
	http.Error(w, fmt.Sprintf("Item `%s` not found.", itemID), http.StatusNotFound)
}

// handleDeleteItem deletes an evaluation item.
func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	log.Infof("handleDeleteItem called: path=%s", r.URL.Path)
	vars := mux.Vars(r)
	evalSetID := vars["evalSetId"]
	itemID := vars["itemId"]
	if err := s.evalSetManager.DeleteItem(r.Context(), evalSetID, itemID); err != nil {
		s.writeError(w, err.Error(), err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// handleListEvalResults lists all run ids.
func (s *Server) handleListEvalResults(w http.ResponseWriter, r *http.Request) {
	log.Infof("handleListEvalResults called: path=%s", r.URL.Path)
	ids, err := s.evalResultManager.List(r.Context())
	if err != nil {
		ids = []string{}
	}
	sort.Strings(ids)
	s.writeJSON(w, ids)
}

// handleGetEvalResult gets the stored result of one run.
func (s *Server) handleGetEvalResult(w http.ResponseWriter, r *http.Request) {
	log.Infof("handleGetEvalResult called: path=%s", r.URL.Path)
	vars := mux.Vars(r)
	runID := vars["runId"]
	result, err := s.evalResultManager.Get(r.Context(), runID)
	if err != nil {
		s.writeError(w, fmt.Sprintf("Eval result `%s` not found.", runID), err)
		return
	}
	s.writeJSON(w, result)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, message string, err error) {
	code := http.StatusBadRequest
	if errors.Is(err, os.ErrNotExist) {
		code = http.StatusNotFound
	}
	http.Error(w, message, code)
}
