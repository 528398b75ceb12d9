package apiserver

import (
	"encoding/json"
	"net/http"

	"github.com/SkynetLabs/webportal-dnslink-api/pkg/resolver"
	"github.com/SkynetLabs/webportal-dnslink-api/pkg/version"
	"github.com/gorilla/mux"
)

type handler struct {
	svc resolver.Service
}

func newHandler(svc resolver.Service) *handler {
	return &handler{
		svc: svc,
	}
}

func (h *handler) root(w http.ResponseWriter, r *http.Request) {
	v := version.Get()
	if err := json.NewEncoder(w).Encode(v); err != nil {
		w.WriteHeader(500)
		_, _ = w.Write([]byte(`{"success": false}`))
	}
}

func (h *handler) resolveDNSLink(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	domainName := vars["domain"]
	uri := r.URL.Query().Get("uri")

	if err := resolver.ValidateDomainName(domainName); err != nil {
		writeError(w, statusForKind(resolver.KindOf(err)), err)
		return
	}

	resp, err := h.svc.Resolve(r.Context(), domainName, uri)
	if err != nil {
		writeError(w, statusForKind(resolver.KindOf(err)), err)
		return
	}

	writeSuccess(w, resp)
}

func (h *handler) purgeCache(w http.ResponseWriter, r *http.Request) {
	h.svc.PurgeCache()
	writeSuccess(w, map[string]bool{"purged": true})
}

// statusForKind maps the resolver's error kinds onto HTTP statuses. Upstream
// DNS trouble is a gateway problem; everything the domain owner or caller
// got wrong is a 400-class response.
func statusForKind(kind resolver.Kind) int {
	switch kind {
	case resolver.KindInvalidRequest:
		return http.StatusBadRequest
	case resolver.KindNoSkynetDNSLinks:
		return http.StatusNotFound
	case resolver.KindMultipleSkylinks,
		resolver.KindMultipleSponsorKeyRecords,
		resolver.KindInvalidSkylink:
		return http.StatusBadRequest
	case resolver.KindResolution:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
