package web

import (
	"embed"
	"errors"
	"html/template"
	"io"
	"net/http"
	"strings"

	"aidvision/api/internal/checker"
	"aidvision/api/internal/guide/types"
	"aidvision/api/internal/logger"
	"aidvision/api/internal/util"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

var pageTpl = template.Must(template.ParseFS(templatesFS, "templates/index.html.tmpl"))

const actionRemovePhoto = "remove_photo"

// Handler serves the symptom-checker page. Every page load is its own form instance:
// the pending image travels in a hidden field, so nothing is kept server-side.
type Handler struct {
	gen           checker.Generator
	log           *logger.Logger
	maxImageBytes int
}

func New(gen checker.Generator, log *logger.Logger, maxImageBytes int) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{gen: gen, log: log.With("component", "web"), maxImageBytes: maxImageBytes}
}

type page struct {
	checker.View
	Description   string
	PhotoError    string
	PreviewURL    template.URL
	LoadingLabel  string
	MaxImageBytes int
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		h.render(w, http.StatusOK, page{View: checker.Render(checker.State{}, "")})
	case http.MethodPost:
		h.submit(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	// Base64 inflates the image by a third; leave room for it plus the text fields.
	limit := int64(h.maxImageBytes)*2 + 1<<20
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := parseForm(r, limit); err != nil {
		h.log.Warn("bad form", "error", err)
		http.Error(w, "bad form: "+err.Error(), http.StatusBadRequest)
		return
	}

	form := checker.New(h.gen,
		checker.WithLogger(h.log),
		checker.WithMaxImageBytes(h.maxImageBytes),
	)
	p := page{Description: r.FormValue("description"), MaxImageBytes: h.maxImageBytes}

	photo, err := h.photoFromRequest(r)
	if err == nil && photo != "" {
		err = form.SelectImage(photo)
	}
	if err != nil {
		p.PhotoError = photoErrorMessage(err)
	}

	if r.FormValue("action") == actionRemovePhoto {
		form.RemoveImage()
		p.PhotoError = ""
		h.render(w, http.StatusOK, h.fill(p, form.State(), form))
		return
	}
	if p.PhotoError != "" {
		h.render(w, http.StatusUnprocessableEntity, h.fill(p, form.State(), form))
		return
	}

	st, err := form.Submit(r.Context(), p.Description)
	status := http.StatusOK
	var ve *types.ValidationError
	switch {
	case errors.As(err, &ve):
		status = http.StatusUnprocessableEntity
	case err != nil:
		status = http.StatusBadGateway
	}
	h.render(w, status, h.fill(p, st, form))
}

func (h *Handler) fill(p page, st checker.State, form *checker.Form) page {
	p.View = checker.Render(st, form.Photo())
	if p.View.Preview != "" {
		// Only data URIs that passed SelectImage reach here.
		p.PreviewURL = template.URL(p.View.Preview)
	}
	return p
}

// photoFromRequest prefers a freshly uploaded file over the hidden data URI field.
func (h *Handler) photoFromRequest(r *http.Request) (string, error) {
	if r.MultipartForm != nil {
		if file, hdr, err := r.FormFile("photo_file"); err == nil {
			defer file.Close()
			data, err := io.ReadAll(io.LimitReader(file, int64(h.maxImageBytes)+1))
			if err != nil {
				return "", err
			}
			if len(data) > 0 {
				mime := hdr.Header.Get("Content-Type")
				if !util.IsImageMIME(mime) {
					mime = ""
				}
				return util.EncodeDataURL(mime, data), nil
			}
		}
	}
	return strings.TrimSpace(r.FormValue("photo_data_uri")), nil
}

func photoErrorMessage(err error) string {
	var ve *types.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return "Could not read the image."
}

func parseForm(r *http.Request, limit int64) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.ParseMultipartForm(limit)
	}
	return r.ParseForm()
}

func (h *Handler) render(w http.ResponseWriter, status int, p page) {
	p.LoadingLabel = checker.LoadingLabel
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTpl.Execute(w, p); err != nil {
		h.log.Error("render page", "error", err)
	}
}
