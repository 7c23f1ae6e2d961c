package controllers

import (
	"net/http"

	"github.com/apmw/freshbrand-backend/api/responses"
	"github.com/apmw/freshbrand-backend/api/validators"
	"github.com/apmw/freshbrand-backend/internal/designs"
	pkgerrors "github.com/apmw/freshbrand-backend/pkg/errors"
	"github.com/apmw/freshbrand-backend/pkg/logger"
)

const maxBrandNameLen = 120

// DesignFetch returns the caller's saved custom design.
func DesignFetch(svc designs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "design service unavailable"))
			return
		}
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		design, err := svc.Get(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, design)
	}
}

// DesignSave creates or overwrites the caller's design.
func DesignSave(svc designs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "design service unavailable"))
			return
		}
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body designs.SaveDesignRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		body.BrandName = validators.SanitizeString(body.BrandName, maxBrandNameLen)
		if body.Title != nil {
			trimmed := validators.SanitizeString(*body.Title, maxBrandNameLen)
			body.Title = &trimmed
		}
		design, err := svc.Save(r.Context(), userID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, design)
	}
}

// DesignUploadLogo accepts a multipart "logo" part and stores the URL on
// the caller's design.
func DesignUploadLogo(svc designs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "design service unavailable"))
			return
		}
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filename, contentType, data, err := readUploadPart(r, "logo")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		design, err := svc.UploadLogo(r.Context(), userID, filename, contentType, data)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, design)
	}
}
