package server

import (
	"errors"
	"net/http"
	"strings"
)

var (
	errNoSession      = errors.New("no valid session")
	errNoAdminSession = errors.New("no valid admin session")
)

const adminCookieName = "admin_session"

// teamFromRequest resolves the Bearer token to a team login session.
func teamFromRequest(r *http.Request, sessions SessionStore) (authSession, error) {
	auth := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(auth, "Bearer ")
	if !found || token == "" {
		return authSession{}, errNoSession
	}
	sess, err := sessions.Get(r.Context(), token)
	if err != nil || sess.Role != roleTeam {
		return authSession{}, errNoSession
	}
	return sess, nil
}

// adminFromRequest reads the admin cookie and resolves its session.
func adminFromRequest(r *http.Request, sessions SessionStore) (authSession, error) {
	cookie, err := r.Cookie(adminCookieName)
	if err != nil || cookie.Value == "" {
		return authSession{}, errNoAdminSession
	}
	sess, err := sessions.Get(r.Context(), cookie.Value)
	if err != nil || sess.Role != roleAdmin {
		return authSession{}, errNoAdminSession
	}
	return sess, nil
}
