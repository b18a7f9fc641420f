package server

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/izzyreal/owltest/internal/page"
	"github.com/izzyreal/owltest/internal/protocol"
	"github.com/izzyreal/owltest/internal/server/httpx"
	"github.com/izzyreal/owltest/internal/submitlock"
)

const maxSubmissionBytes = 1 << 20

// submissionError carries the HTTP status a failed submission maps to.
type submissionError struct {
	status int
	msg    string
}

func (e *submissionError) Error() string { return e.msg }

// acceptSubmission validates the multipart upload, consults the submitter's
// guard and stores a pending record.
func (s *stateStore) acceptSubmission(r *http.Request) (protocol.ResultRecord, error) {
	if err := r.ParseMultipartForm(maxSubmissionBytes); err != nil {
		return protocol.ResultRecord{}, &submissionError{http.StatusBadRequest, "invalid multipart form: " + err.Error()}
	}
	file, header, err := r.FormFile("student_file")
	if err != nil {
		return protocol.ResultRecord{}, &submissionError{http.StatusBadRequest, "student_file is required"}
	}
	defer file.Close()

	name := filepath.Base(header.Filename)
	if !page.ValidPythonFilename(name) {
		return protocol.ResultRecord{}, &submissionError{http.StatusBadRequest, fmt.Sprintf(
			"invalid Python module name %q: the filename must start with a letter, contain only letters, numbers and underscores, and end with .py", name)}
	}
	code, err := io.ReadAll(io.LimitReader(file, maxSubmissionBytes+1))
	if err != nil {
		return protocol.ResultRecord{}, &submissionError{http.StatusBadRequest, "read student_file: " + err.Error()}
	}
	if len(code) > maxSubmissionBytes {
		return protocol.ResultRecord{}, &submissionError{http.StatusRequestEntityTooLarge, "student_file is too large"}
	}

	submitter := submitterKey(r)
	if decision, warning := s.guards.Attempt(submitter); decision == submitlock.Denied {
		slog.Info("duplicate submission denied", "submitter", submitter, "file", name)
		return protocol.ResultRecord{}, &submissionError{http.StatusTooManyRequests, warning}
	}

	rec, err := s.db.CreateResult(submitter, protocol.ResultSet{
		StudentFilename: name,
		StudentCode:     string(code),
	})
	if err != nil {
		s.guards.Reset(submitter)
		return protocol.ResultRecord{}, err
	}
	slog.Info("submission accepted", "id", rec.ID, "submitter", submitter, "file", name)
	return rec, nil
}

// submitterKey identifies who is submitting: the form's submitter field, or
// the client host when it is empty.
func submitterKey(r *http.Request) string {
	if v := strings.TrimSpace(r.FormValue("submitter")); v != "" {
		return v
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func submissionStatus(err error) (int, string) {
	var se *submissionError
	if errors.As(err, &se) {
		return se.status, se.msg
	}
	return http.StatusInternalServerError, err.Error()
}

func (s *stateStore) createSubmissionHandler(w http.ResponseWriter, r *http.Request) {
	rec, err := s.acceptSubmission(r)
	if err != nil {
		code, msg := submissionStatus(err)
		httpx.WriteJSON(w, code, protocol.SubmissionResponse{Accepted: false, Message: msg})
		return
	}
	httpx.WriteJSON(w, http.StatusAccepted, protocol.SubmissionResponse{
		Accepted: true,
		ID:       rec.ID,
		Status:   rec.Status,
	})
}
