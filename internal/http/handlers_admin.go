package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"caisse/internal/auth"
	"caisse/internal/lookup"
)

const sessionCookie = "caisse_session"

// requireAdmin gates a handler behind a live admin session. Anonymous
// requests are sent to the login page, never given a partial answer.
func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(sessionCookie)
		if err != nil || !s.sessions.LoggedIn(c.Value) {
			slog.InfoContext(r.Context(), "Unauthenticated admin request", "url", r.URL.Path)
			http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderLogin(w, r, "")
	case http.MethodPost:
		s.processLogin(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) renderLogin(w http.ResponseWriter, r *http.Request, errMsg string) {
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	data := struct{ Error string }{Error: errMsg}
	if errMsg != "" {
		w.WriteHeader(http.StatusUnauthorized)
	}
	if err := s.templates.ExecuteTemplate(w, "admin_login.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Login template execution failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) processLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderLogin(w, r, "Format de requête invalide")
		return
	}
	username := sanitizeInput(r.Form.Get("username"))
	password := r.Form.Get("password")

	token, err := s.sessions.Login(username, password)
	if err != nil {
		if errors.Is(err, auth.ErrDisabled) {
			slog.WarnContext(r.Context(), "Admin login attempted but not configured")
			s.renderLogin(w, r, "Connexion administrateur désactivée")
			return
		}
		slog.WarnContext(r.Context(), "Admin login rejected", "username", username)
		s.renderLogin(w, r, "Identifiants incorrects")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	slog.InfoContext(r.Context(), "Admin logged in", "username", username)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (s *Server) handleAdminLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil {
		s.sessions.Logout(c.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}

func (s *Server) handleAdminPanel(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	noms, _ := s.lists.Get(lookup.Noms)
	projets, _ := s.lists.Get(lookup.Projets)
	metiers, _ := s.lists.Get(lookup.Metiers)

	data := struct {
		Noms    []string
		Projets []string
		Metiers []string
	}{Noms: noms, Projets: projets, Metiers: metiers}

	if err := s.templates.ExecuteTemplate(w, "admin_panel.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Admin template execution failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleListAdd(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	kind := lookup.Kind(sanitizeInput(r.Form.Get("kind")))
	value := sanitizeInput(r.Form.Get("value"))

	if err := s.lists.Add(kind, value); err != nil {
		writeListError(w, r, err)
		return
	}
	slog.InfoContext(r.Context(), "List entry added", "kind", string(kind), "value", value)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (s *Server) handleListUpdate(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	kind := lookup.Kind(sanitizeInput(r.Form.Get("kind")))
	value := sanitizeInput(r.Form.Get("value"))
	index, err := strconv.Atoi(sanitizeInput(r.Form.Get("index")))
	if err != nil {
		BadRequestError("Index invalide").Write(w)
		return
	}

	if err := s.lists.UpdateAt(kind, index, value); err != nil {
		writeListError(w, r, err)
		return
	}
	slog.InfoContext(r.Context(), "List entry updated", "kind", string(kind), "index", index)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (s *Server) handleListDelete(w http.ResponseWriter, r *http.Request) {
	if resp := RequireDeleteOrPOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if resp := ParseFormOrFail(r); resp != nil {
		resp.Write(w)
		return
	}

	kind := lookup.Kind(sanitizeInput(r.Form.Get("kind")))
	index, err := strconv.Atoi(sanitizeInput(r.Form.Get("index")))
	if err != nil {
		BadRequestError("Index invalide").Write(w)
		return
	}

	if err := s.lists.RemoveAt(kind, index); err != nil {
		writeListError(w, r, err)
		return
	}
	slog.InfoContext(r.Context(), "List entry removed", "kind", string(kind), "index", index)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func writeListError(w http.ResponseWriter, r *http.Request, err error) {
	slog.WarnContext(r.Context(), "List mutation rejected", "error", err)
	switch {
	case errors.Is(err, lookup.ErrUnknownKind):
		BadRequestError("Liste inconnue").Write(w)
	case errors.Is(err, lookup.ErrEmptyValue):
		UnprocessableEntityError("La valeur ne peut pas être vide").Write(w)
	case errors.Is(err, lookup.ErrOutOfRange):
		NotFoundError("Entrée introuvable").Write(w)
	default:
		InternalServerError("Erreur lors de la modification de la liste").Write(w)
	}
}
