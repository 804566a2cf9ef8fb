package transfer

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	transferdomain "contribution-tracker-go/internal/domain/transfer"
	commonhandler "contribution-tracker-go/internal/transport/httpserver/handler/common"
	"contribution-tracker-go/pkg/logger"
)

var maxImportBody int64 = 32 << 20

type Handlers struct {
	Transfer *transferdomain.Service
	log      logger.Logger
}

func New(transferService *transferdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Transfer: transferService,
		log:      log,
	}
}

type importResponse struct {
	Groups        int `json:"groups"`
	Participants  int `json:"participants"`
	Contributions int `json:"contributions"`
}

// Export streams the whole data set as a downloadable document.
func (h *Handlers) Export(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Transfer.Export(r.Context())
	if err != nil {
		commonhandler.WriteServiceError(w, h.log, "transfer.export: export failed", err)
		return
	}

	var body bytes.Buffer
	if err := transferdomain.EncodeDocument(&body, doc); err != nil {
		commonhandler.WriteServiceError(w, h.log, "transfer.export: encode failed", err)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+transferdomain.FileName(time.Now())+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body.Bytes())
}

func (h *Handlers) Import(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Transfer.Decode(http.MaxBytesReader(w, r.Body, maxImportBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.log.BusinessError("transfer.import: body too large", err, "limit", tooLarge.Limit)
			commonhandler.WriteError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "import document is too large")
			return
		}
		commonhandler.WriteServiceError(w, h.log, "transfer.import: decode failed", err)
		return
	}
	if err := h.Transfer.Import(r.Context(), doc); err != nil {
		commonhandler.WriteServiceError(w, h.log, "transfer.import: import failed", err)
		return
	}

	commonhandler.WriteJSON(w, http.StatusOK, importResponse{
		Groups:        len(doc.Groups),
		Participants:  len(doc.Participants),
		Contributions: len(doc.Contributions),
	})
}

func (h *Handlers) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.Transfer.Reset(r.Context()); err != nil {
		commonhandler.WriteServiceError(w, h.log, "transfer.reset: reset failed", err)
		return
	}
	commonhandler.WriteJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}
