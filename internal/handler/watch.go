package handler

import (
	"net/http"

	datastar "github.com/starfederation/datastar-go/datastar"

	"github.com/msomdec/auction-house/internal/view"
)

// HandleWatch toggles the current user's watch on a listing. Datastar
// requests get the re-rendered toggle over SSE; plain form posts are
// redirected back to the listing.
// POST /watch/{id}
func (h *ListingHandler) HandleWatch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		HandleNotFound(w, r)
		return
	}

	watching, err := h.auction.ToggleWatch(r.Context(), UserFromContext(r.Context()), id)
	if err != nil {
		serviceError(w, r, "toggle watch", err)
		return
	}

	if r.Header.Get("Datastar-Request") != "true" {
		http.Redirect(w, r, listingURL(id), http.StatusSeeOther)
		return
	}

	sse := datastar.NewSSE(w, r)
	sse.PatchElementTempl(view.WatchButton(view.WatchState{ListingID: id, Watching: watching}))
}
