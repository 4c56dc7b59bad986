package main

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

func parseQueryInt(r *http.Request, field string, d int) int {
	if val, ok := r.URL.Query()[field]; ok && len(val) > 0 {
		val2, err := strconv.Atoi(val[0])
		if err == nil {
			return val2
		}
	}
	return d
}

func parseQueryString(r *http.Request, field string, d string) string {
	if val, ok := r.URL.Query()[field]; ok && len(val) > 0 {
		return val[0]
	}
	return d
}

func parseQueryStringFiltered(r *http.Request, field string, d string, variants ...string) string {
	if val, ok := r.URL.Query()[field]; ok && len(val) > 0 {
		for _, v := range variants {
			if val[0] == v {
				return v
			}
		}
	}
	return d
}

func robotsHandler(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprint(w, "User-agent: *\nDisallow: /\n\n\n")
}

func myNotFoundHandler() http.Handler {
	return http.HandlerFunc(APIcall(func(_ http.ResponseWriter, r *http.Request) (int, any) {
		return http.StatusNotFound, fmt.Errorf("no route for %s", r.URL.Path)
	}))
}

func myMethodNotAllowedHandler() http.Handler {
	return http.HandlerFunc(APIcall(func(_ http.ResponseWriter, r *http.Request) (int, any) {
		return http.StatusMethodNotAllowed, fmt.Errorf("method %s is not allowed on %s", r.Method, r.URL.Path)
	}))
}

func comparePasswords(hashedPwd string, plainPwd string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPwd), []byte(plainPwd))
	if err != nil {
		log.Println(err)
		return false
	}
	return true
}

func bearerToken(r *http.Request) string {
	a := r.Header.Get("Authorization")
	if len(a) > 7 && strings.EqualFold(a[:7], "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	return ""
}

// requireAdmin lets the request through only when it carries a bearer token
// matching ADMIN_TOKEN_HASH.
func requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return APIcall(func(w http.ResponseWriter, r *http.Request) (int, any) {
		if adminHash == "" {
			return http.StatusForbidden, fmt.Errorf("administrative endpoints are disabled")
		}
		token := bearerToken(r)
		if token == "" {
			w.Header().Set("WWW-Authenticate", `Bearer realm="chartsvg"`)
			return http.StatusUnauthorized, fmt.Errorf("missing bearer token")
		}
		if !comparePasswords(adminHash, token) {
			log.Printf("Rejected admin token from [%s] on %s", r.RemoteAddr, r.URL.Path)
			return http.StatusForbidden, fmt.Errorf("invalid token")
		}
		next(w, r)
		return -1, nil
	})
}
