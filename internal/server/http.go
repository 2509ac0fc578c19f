package server

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	pb "github.com/otaclient/iot-logging-server/api/grpc/v1"
	"github.com/otaclient/iot-logging-server/internal/cloudlogs"
	pkglog "github.com/otaclient/iot-logging-server/pkg/log"
	"github.com/sirupsen/logrus"
)

// maxBodyBytes caps one posted log line; producers send single text lines,
// not archives.
const maxBodyBytes = 1 << 20

// NewRouter builds the HTTP ingress: POST /{ecuID} with a text/plain body.
func NewRouter(log logrus.FieldLogger, servicer *Servicer) chi.Router {
	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.Recoverer,
		middleware.RequestSize(maxBodyBytes),
	)
	router.Post("/{ecuID}", putLogHandler(log, servicer))
	return router
}

func putLogHandler(log logrus.FieldLogger, servicer *Servicer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ecuID := chi.URLParam(r, "ecuID")

		body, err := io.ReadAll(r.Body)
		if err != nil {
			pkglog.WithReqIDFromCtx(r.Context(), log).Debugf("reading body from %s: %v", ecuID, err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		// HTTP producers carry no timestamp; the server assigns one
		code := servicer.PutLog(ecuID, cloudlogs.GroupTypeLog, 0, string(body))
		w.WriteHeader(httpStatusFromCode(code))
	}
}

func httpStatusFromCode(code pb.ErrorCode) int {
	switch code {
	case pb.ErrorCode_NO_MESSAGE, pb.ErrorCode_NOT_ALLOWED_ECU_ID:
		return http.StatusBadRequest
	case pb.ErrorCode_SERVER_QUEUE_FULL:
		return http.StatusServiceUnavailable
	default:
		return http.StatusOK
	}
}
