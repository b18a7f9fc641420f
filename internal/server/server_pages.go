package server

import (
	"bytes"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/izzyreal/owltest/internal/page"
	"github.com/izzyreal/owltest/internal/protocol"
	"github.com/izzyreal/owltest/internal/tabhost"
)

const (
	indexResultsLimit = 50
	pendingStatusText = "Waiting for test results..."
)

func (s *stateStore) indexHandler(w http.ResponseWriter, r *http.Request) {
	s.renderIndex(w, http.StatusOK, &page.Status{}, "")
}

func (s *stateStore) renderIndex(w http.ResponseWriter, code int, status *page.Status, submitter string) {
	recs, err := s.db.ListResults(indexResultsLimit)
	if err != nil {
		slog.Error("list results for index", "error", err)
		http.Error(w, "failed to list results", http.StatusInternalServerError)
		return
	}
	summaries := make([]protocol.ResultSummary, 0, len(recs))
	for _, rec := range recs {
		summaries = append(summaries, protocol.SummarizeResult(rec))
	}
	var buf bytes.Buffer
	err = indexTemplate.Execute(&buf, struct {
		Status    template.HTML
		Submitter string
		Results   []protocol.ResultSummary
	}{Status: status.HTML(), Submitter: submitter, Results: summaries})
	if err != nil {
		slog.Error("render index", "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	writeHTML(w, code, buf.Bytes())
}

// submitFormHandler is the browser flavor of the submissions API: success
// redirects to the results page, failure re-renders the form with the
// message in the status area.
func (s *stateStore) submitFormHandler(w http.ResponseWriter, r *http.Request) {
	rec, err := s.acceptSubmission(r)
	if err != nil {
		code, msg := submissionStatus(err)
		status := &page.Status{}
		status.AppendWarning(msg)
		s.renderIndex(w, code, status, strings.TrimSpace(r.FormValue("submitter")))
		return
	}
	http.Redirect(w, r, "/results/"+rec.ID, http.StatusSeeOther)
}

func (s *stateStore) resultPageHandler(w http.ResponseWriter, r *http.Request) {
	rec, err := s.db.GetResult(chi.URLParam(r, "id"))
	if err != nil {
		code, _ := storeErrorStatus(err)
		http.Error(w, http.StatusText(code), code)
		return
	}

	m := page.NewManager(s.pageOptions())
	if rec.Status == protocol.ResultStatusPending {
		m.Status().Set(pendingStatusText)
	}
	if err := m.MakeTabs(rec.Result); err != nil {
		slog.Error("build result page", "id", rec.ID, "error", err)
		http.Error(w, "failed to render result", http.StatusInternalServerError)
		return
	}
	if tab := strings.TrimSpace(r.URL.Query().Get("tab")); tab != "" {
		if err := m.Activate(tabhost.PanelHandle(tab)); err != nil {
			slog.Debug("ignoring tab parameter", "id", rec.ID, "tab", tab, "error", err)
		}
	}

	var buf bytes.Buffer
	if err := m.Render(&buf, resultTitle(rec)); err != nil {
		slog.Error("render result page", "id", rec.ID, "error", err)
		http.Error(w, "failed to render result", http.StatusInternalServerError)
		return
	}
	writeHTML(w, http.StatusOK, buf.Bytes())
}

func resultTitle(rec protocol.ResultRecord) string {
	if name := rec.Result.StudentFilename; name != "" {
		return "OwlTest results: " + name
	}
	return "OwlTest results"
}

func writeHTML(w http.ResponseWriter, code int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}
