package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Dynom/mxprobe/cmd/web/mxhttp"
	"github.com/Dynom/mxprobe/cmd/web/mxhttp/handlers"
	"github.com/Dynom/mxprobe/cmd/web/services"
	"github.com/sirupsen/logrus"
)

const (
	failedRequestError  = "Request failed, unable to parse request body. Expected JSON."
	failedResponseError = "Generating response failed."
)

// NewCheckHandler constructs a HTTP handler that checks a single address
func NewCheckHandler(logger logrus.FieldLogger, svc *services.CheckSvc, maxBodySize uint64) http.HandlerFunc {
	log := logger.WithField("handler", "check")
	return func(w http.ResponseWriter, r *http.Request) {
		var req mxhttp.CheckRequest

		log := log.WithField(handlers.RequestID.String(), handlers.GetRequestID(r.Context()))

		defer deferClose(r.Body, log)

		if !decodeRequest(log, w, r, maxBodySize, &req, &mxhttp.CheckResponse{}) {
			return
		}

		result, err := svc.HandleCheckRequest(r.Context(), req.Email)
		if err != nil {
			log.WithError(err).Debug("Rejected check request")

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(statusForError(err))
			writeErrorJSONResponse(log, w, &mxhttp.CheckResponse{Email: req.Email, Error: err.Error()})
			return
		}

		log.WithFields(logrus.Fields{
			"valid": result.Valid,
			"kind":  result.Kind.String(),
		}).Debug("Done performing check")

		res := mxhttp.NewCheckResponse(result)
		writeJSONResponse(log, w, &res)
	}
}

// NewBatchHandler constructs a HTTP handler that checks a list of addresses and partitions the results on their verdict
func NewBatchHandler(logger logrus.FieldLogger, svc *services.CheckSvc, maxBodySize uint64) http.HandlerFunc {
	log := logger.WithField("handler", "batch")
	return func(w http.ResponseWriter, r *http.Request) {
		var req mxhttp.BatchRequest

		log := log.WithField(handlers.RequestID.String(), handlers.GetRequestID(r.Context()))

		defer deferClose(r.Body, log)

		if !decodeRequest(log, w, r, maxBodySize, &req, &mxhttp.BatchResponse{}) {
			return
		}

		rs, err := svc.HandleBatchRequest(r.Context(), req.Emails)
		if err != nil {
			log.WithError(err).Debug("Rejected batch request")

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(statusForError(err))
			writeErrorJSONResponse(log, w, &mxhttp.BatchResponse{Error: err.Error()})
			return
		}

		res := mxhttp.NewBatchResponse(rs.Partition())
		writeJSONResponse(log, w, &res)
	}
}

func NewHealthHandler(logger logrus.FieldLogger) http.HandlerFunc {
	logger = logger.WithField("handler", "health")
	return func(w http.ResponseWriter, r *http.Request) {
		logger := logger.WithField(handlers.RequestID.String(), handlers.GetRequestID(r.Context()))

		w.Header().Set("content-type", "text/plain")
		w.WriteHeader(http.StatusOK)

		_, err := w.Write([]byte("OK"))
		if err != nil {
			logger.WithError(err).Error("failed to write in health handler")
		}
	}
}

// decodeRequest reads the body into req. On failure it writes errResponse and returns false.
func decodeRequest(log logrus.FieldLogger, w http.ResponseWriter, r *http.Request, maxBodySize uint64, req interface{}, errResponse mxhttp.MXProbeResponse) bool {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}

	body, err := mxhttp.GetBodyFromHTTPRequest(r, int64(maxBodySize))
	if err != nil {
		log.WithFields(logrus.Fields{
			"error":          err,
			"content_length": r.ContentLength,
		}).Warn("Error handling request")

		status := http.StatusBadRequest
		if errors.Is(err, mxhttp.ErrBodyTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)

		// err is expected to be safe to expose to the client
		setResponseError(errResponse, err.Error())
		writeErrorJSONResponse(log, w, errResponse)
		return false
	}

	if err := json.Unmarshal(body, req); err != nil {
		log.WithError(err).Warn("Error handling request body")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)

		setResponseError(errResponse, failedRequestError)
		writeErrorJSONResponse(log, w, errResponse)
		return false
	}

	return true
}

func setResponseError(res mxhttp.MXProbeResponse, msg string) {
	switch r := res.(type) {
	case *mxhttp.CheckResponse:
		r.Error = msg
	case *mxhttp.BatchResponse:
		r.Error = msg
	}
}

func statusForError(err error) int {
	if errors.Is(err, services.ErrBatchTooLarge) {
		return http.StatusRequestEntityTooLarge
	}

	return http.StatusBadRequest
}

func writeJSONResponse(log logrus.FieldLogger, w http.ResponseWriter, res mxhttp.MXProbeResponse) {
	res.PrepareResponse()

	response, err := json.Marshal(res)
	if err != nil {
		log.WithFields(logrus.Fields{
			"response": res,
			"error":    err,
		}).Error("Failed to marshal the response")

		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(failedResponseError))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(response)
}
