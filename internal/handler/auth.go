package handler

import "net/http"

// Login handles GET /login by redirecting to the external identity provider's
// sign-in page. The provider completes the flow and hands the browser a
// session token; this API only ever verifies tokens.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, s.authLoginURL, http.StatusTemporaryRedirect)
}

// Register handles GET /register by redirecting to the provider's sign-up page.
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, s.authRegisterURL, http.StatusTemporaryRedirect)
}
