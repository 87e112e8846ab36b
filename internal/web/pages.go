package web

import "net/http"

// AboutAuthorHandler renders the static page about the author
func (h *Handlers) AboutAuthorHandler(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "about_author.html", h.base(r, "Об авторе"))
}

// AboutTechHandler renders the static page about the technologies used
func (h *Handlers) AboutTechHandler(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "about_tech.html", h.base(r, "Технологии"))
}
