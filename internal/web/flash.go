package web

import (
	"net/http"
	"net/url"
	"strings"
)

func flashMessage(notice string) string {
	switch strings.TrimSpace(notice) {
	case "player_added":
		return "Player added to the roster."
	case "player_updated":
		return "Player updated."
	case "player_removed":
		return "Player removed."
	}
	return ""
}

func redirectBack(w http.ResponseWriter, r *http.Request, fallback string, notice string) {
	ref := strings.TrimSpace(r.Referer())
	if ref != "" {
		if notice == "" {
			http.Redirect(w, r, ref, http.StatusSeeOther)
			return
		}
		if u, err := url.Parse(ref); err == nil {
			q := u.Query()
			q.Set("notice", notice)
			u.RawQuery = q.Encode()
			http.Redirect(w, r, u.String(), http.StatusSeeOther)
			return
		}
	}
	target := fallback
	if notice != "" {
		target = fallback + "?notice=" + url.QueryEscape(notice)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
