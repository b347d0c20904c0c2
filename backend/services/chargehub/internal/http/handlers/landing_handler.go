package handlers

import "net/http"

// NewLandingHandler serves the public landing document at GET /.
func NewLandingHandler(adapters []string, defaultAdapter string) http.HandlerFunc {
	type link struct {
		Rel    string `json:"rel"`
		Method string `json:"method"`
		Href   string `json:"href"`
	}
	type response struct {
		Name        string   `json:"name"`
		Description string   `json:"description"`
		Adapters    []string `json:"map_adapters"`
		Default     string   `json:"default_adapter"`
		Links       []link   `json:"links"`
	}

	body := response{
		Name:        "ChargeHub",
		Description: "Find, manage and map EV charging stations.",
		Adapters:    adapters,
		Default:     defaultAdapter,
		Links: []link{
			{Rel: "signup", Method: http.MethodPost, Href: "/api/auth/signup"},
			{Rel: "login", Method: http.MethodPost, Href: "/api/auth/login"},
			{Rel: "stations", Method: http.MethodGet, Href: "/api/stations"},
			{Rel: "map", Method: http.MethodGet, Href: "/api/map"},
		},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, body)
	}
}

// NewNotFoundHandler answers every unknown path.
func NewNotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	}
}
