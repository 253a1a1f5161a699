package upload

import (
	"errors"
	"io"
	"net/http"

	"github.com/frahmantamala/order-admin/internal/transport"
)

const formField = "file"

type StorageAPI interface {
	Save(originalName string, src io.Reader) (*Stored, error)
	MaxBytes() int64
}

type Handler struct {
	*transport.BaseHandler
	Storage StorageAPI
}

func NewHandler(baseHandler *transport.BaseHandler, storage StorageAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Storage:     storage,
	}
}

// Upload handles POST /upload
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if limit := h.Storage.MaxBytes(); limit > 0 {
		// room for the multipart envelope around the file itself
		r.Body = http.MaxBytesReader(w, r.Body, limit+1<<20)
	}

	file, header, err := r.FormFile(formField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.WriteError(w, http.StatusRequestEntityTooLarge, "Dosya boyutu çok büyük")
			return
		}
		h.WriteError(w, http.StatusBadRequest, "Dosya bulunamadı")
		return
	}
	defer file.Close()

	stored, err := h.Storage.Save(header.Filename, file)
	if err != nil {
		if errors.Is(err, ErrTooLarge) {
			h.WriteError(w, http.StatusRequestEntityTooLarge, "Dosya boyutu çok büyük")
			return
		}
		h.Logger.Error("upload failed", "file_name", header.Filename, "error", err)
		h.WriteError(w, http.StatusInternalServerError, "Dosya yüklenirken hata oluştu")
		return
	}

	h.WriteJSON(w, http.StatusOK, stored)
}
