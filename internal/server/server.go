package server

import (
	"RekhtaDownloader/internal/database"
	"RekhtaDownloader/internal/models"
	"RekhtaDownloader/pkg/config"
	"encoding/json"
	"log"
	"math"
	"net"
	"net/http"
	"strconv"
)

// Start serves the report API until the listener fails.
func Start(repo *database.DBRepository, cfg *config.Config) error {
	addr := cfg.Server.Addr
	log.Printf("Starting report API server on %s", addr)
	log.Printf("Endpoints available at %s/outcomes and %s/runs", baseURL(addr), baseURL(addr))

	return http.ListenAndServe(addr, NewHandler(repo))
}

// baseURL turns a listen address into the URL clients reach it on. An empty
// host means every interface, which is reachable as localhost.
func baseURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	if host == "" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}

// NewHandler routes the report endpoints.
func NewHandler(repo *database.DBRepository) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/outcomes", outcomesHandler(repo))
	mux.HandleFunc("/runs", runsHandler(repo))
	return mux
}

func outcomesHandler(repo *database.DBRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// 1. Parse filter and pagination parameters
		queryParams := r.URL.Query()
		page, _ := strconv.Atoi(queryParams.Get("page"))
		if page < 1 {
			page = 1
		}
		limit, _ := strconv.Atoi(queryParams.Get("limit"))
		if limit < 1 {
			limit = 20 // Default limit
		}

		filters := models.OutcomeFilters{
			RunID: queryParams.Get("run"),
			Limit: limit,
		}
		filters.Offset = (page - 1) * limit
		switch status := models.Outcome(queryParams.Get("status")); status {
		case "", models.OutcomeSuccess, models.OutcomeFailed:
			filters.Outcome = status
		default:
			http.Error(w, "status must be success or failed", http.StatusBadRequest)
			return
		}

		// 2. Get total count for pagination
		total, err := repo.CountOutcomes(filters)
		if err != nil {
			log.Printf("ERROR: counting outcomes: %v", err)
			http.Error(w, "Failed to count outcomes", http.StatusInternalServerError)
			return
		}
		totalPages := int(math.Ceil(float64(total) / float64(limit)))

		// 3. Get the requested page
		results, err := repo.GetOutcomes(filters)
		if err != nil {
			log.Printf("ERROR: listing outcomes: %v", err)
			http.Error(w, "Failed to get outcomes", http.StatusInternalServerError)
			return
		}
		if results == nil {
			results = []models.SubmissionResult{}
		}

		writeJSON(w, models.OutcomesResponse{
			Data: results,
			Pagination: models.Pagination{
				TotalPages:  totalPages,
				CurrentPage: page,
			},
		})
	}
}

func runsHandler(repo *database.DBRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summaries, err := repo.Summaries()
		if err != nil {
			log.Printf("ERROR: summarizing runs: %v", err)
			http.Error(w, "Failed to summarize runs", http.StatusInternalServerError)
			return
		}
		if summaries == nil {
			summaries = []models.RunSummary{}
		}
		writeJSON(w, models.RunsResponse{Data: summaries})
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
