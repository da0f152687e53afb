package http

import (
	"net/http"
	"net/url"
	"strings"

	"caisse/internal/core"
)

// sanitizeInput removes control characters (except tab, newline, carriage
// return) and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// formInput builds the raw transaction input from posted form values.
// All sanitization happens here; parsing and validation belong to core.
func formInput(form url.Values) core.FormInput {
	return core.FormInput{
		Date:               sanitizeInput(form.Get("date")),
		Nom:                sanitizeInput(form.Get("nom")),
		Nature:             sanitizeInput(form.Get("nature")),
		Detail:             sanitizeInput(form.Get("detail")),
		ProjetIntervention: sanitizeInput(form.Get("projetIntervention")),
		ImpPrev:            sanitizeInput(form.Get("impPrev")),
		CorpsDeMetiers:     sanitizeInput(form.Get("corpsDeMetiers")),
		Monnaie:            sanitizeInput(form.Get("monnaie")),
		Debit:              sanitizeInput(form.Get("debit")),
		Credit:             sanitizeInput(form.Get("credit")),
	}
}

// RequireMethod checks if the request method matches the expected method(s).
// Returns an error response builder if the method doesn't match.
func RequireMethod(r *http.Request, methods ...string) *HTMXResponseBuilder {
	for _, m := range methods {
		if r.Method == m {
			return nil
		}
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}

// RequirePOST is a convenience function for POST-only handlers.
func RequirePOST(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodPost)
}

// RequireGET is a convenience function for GET-only handlers.
func RequireGET(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodGet)
}

// RequireDeleteOrPOST is a convenience function for DELETE/POST handlers.
func RequireDeleteOrPOST(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodDelete, http.MethodPost)
}

// ParseFormOrFail parses the request form and returns an error response on failure.
// Returns nil on success.
func ParseFormOrFail(r *http.Request) *HTMXResponseBuilder {
	if err := r.ParseForm(); err != nil {
		return BadRequestError("Format de requête invalide")
	}
	return nil
}
