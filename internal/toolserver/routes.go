package toolserver

// registerRoutes wires every endpoint to its handler.
func (s *Server) registerRoutes() {
	// Health
	s.router.HandleFunc("/healthz", s.handleHealthz).Methods("GET")

	// Tool discovery and execution
	s.router.HandleFunc("/tools", s.handleListTools).Methods("GET")
	s.router.HandleFunc("/execute/{name}", s.handleExecuteTool).Methods("POST")

	// Run transcripts (only when a store is configured)
	if s.store != nil {
		s.router.HandleFunc("/runs", s.handleListRuns).Methods("GET")
		s.router.HandleFunc("/runs/{id}", s.handleGetRun).Methods("GET")
	}
}
