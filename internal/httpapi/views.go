package httpapi

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"timed-quiz/internal/quiz"
	"timed-quiz/internal/report"
	"timed-quiz/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

type views struct {
	pages map[session.Phase]*template.Template
}

type pageData struct {
	Snapshot    session.Snapshot
	Question    quiz.Question
	HasQuestion bool
	Selected    string
	HasSelected bool
	Report      report.Report
}

var templateFuncs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}

func mustLoadViews() *views {
	pageFiles := map[session.Phase]string{
		session.PhaseStart:  "templates/start.html",
		session.PhaseQuiz:   "templates/quiz.html",
		session.PhaseReport: "templates/report.html",
	}

	loaded := &views{pages: make(map[session.Phase]*template.Template, len(pageFiles))}
	for phase, file := range pageFiles {
		loaded.pages[phase] = template.Must(
			template.New("page").Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html", file),
		)
	}
	return loaded
}

func newPageData(snapshot session.Snapshot) pageData {
	data := pageData{Snapshot: snapshot}
	if question, ok := snapshot.CurrentQuestion(); ok {
		data.Question = question
		data.HasQuestion = true
	}
	data.Selected, data.HasSelected = snapshot.Answers[snapshot.CurrentIndex]
	if snapshot.Phase == session.PhaseReport {
		data.Report = report.ComputeReport(snapshot)
	}
	return data
}

// render executes into a buffer first so a template failure never leaves a
// half-written page behind.
func (v *views) render(w http.ResponseWriter, statusCode int, snapshot session.Snapshot) error {
	page, ok := v.pages[snapshot.Phase]
	if !ok {
		page = v.pages[session.PhaseStart]
	}

	var buf bytes.Buffer
	if err := page.ExecuteTemplate(&buf, "layout", newPageData(snapshot)); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_, err := buf.WriteTo(w)
	return err
}
