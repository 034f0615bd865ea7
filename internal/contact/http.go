package contact

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"Storefront/pkg/kit"
)

const maxSubmitBody = 1 << 20

type Server struct {
	Log *zap.Logger
}

type submitResp struct {
	Status  string `json:"status"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

func (s *Server) SubmitHandler() http.HandlerFunc { return s.submit }

// submit acknowledges a valid message by echoing the submitted values back
// verbatim.
func (s *Server) submit(w http.ResponseWriter, r *http.Request) {
	msg, err := decodeSubmitRequest(w, r)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}

	if fields := msg.Validate(); fields != nil {
		if s.Log != nil {
			s.Log.Debug("contact validation failed", zap.Any("fields", fields))
		}
		kit.WriteFieldErrors(w, r, fields)
		return
	}

	kit.WriteJSON(w, http.StatusOK, submitResp{
		Status:  "received",
		Name:    msg.Name,
		Message: msg.Body,
	})
}

func decodeSubmitRequest(w http.ResponseWriter, r *http.Request) (Message, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSubmitBody)
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var msg Message
	if err := dec.Decode(&msg); err != nil {
		return Message{}, err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return Message{}, errors.New("extra data after json object")
	}

	return msg, nil
}
