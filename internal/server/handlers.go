package server

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"slices"
	"strconv"

	"github.com/KaramelBytes/solardash/internal/chart"
	"github.com/KaramelBytes/solardash/internal/dashboard"
	"github.com/KaramelBytes/solardash/internal/dataset"
	"github.com/KaramelBytes/solardash/internal/log"
	"github.com/KaramelBytes/solardash/internal/utils"
	"github.com/gorilla/mux"
)

var funcs = template.FuncMap{
	"contains": slices.Contains[[]string, string],
	"num": func(f float64) string {
		return strconv.FormatFloat(f, 'f', -1, 64)
	},
}

// compute parses the request's controls and runs the pipeline. On failure the
// error response is already written and nil is returned.
func (s *Server) compute(w http.ResponseWriter, r *http.Request) *dashboard.View {
	sel, err := selectionFromQuery(r.URL.Query(), s.dash.DefaultSelection())
	if err == nil {
		var v *dashboard.View
		v, err = s.dash.Compute(r.Context(), sel)
		if err == nil {
			return v
		}
	}
	status := http.StatusInternalServerError
	if errors.Is(err, dashboard.ErrInvalidSelection) {
		status = http.StatusBadRequest
	}
	log.Errorw("compute dashboard", "path", r.URL.Path, "query", r.URL.RawQuery, "error", err)
	http.Error(w, err.Error(), status)
	return nil
}

type pageData struct {
	View      *dashboard.View
	Countries []string
	Metrics   []string
	Query     template.URL
	RangeFor  string
	Summary   [][]string
	Columns   []string
	Preview   [][]string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	v := s.compute(w, r)
	if v == nil {
		return
	}
	data := pageData{
		View:      v,
		Countries: s.dash.Countries(),
		Metrics:   dashboard.Metrics,
		Query:     template.URL(queryFor(v)),
	}
	if !v.Empty() {
		for _, g := range v.Summary.Groups {
			data.Summary = append(data.Summary, []string{g.Key, g.Mean.String(), g.Median.String(), g.Std.String()})
		}
		data.RangeFor = rangeFor(v)
		data.Columns = v.Preview.Columns()
		data.Preview = v.Preview.Records()
	}
	var buf bytes.Buffer
	if err := s.page.Execute(&buf, data); err != nil {
		log.Errorw("render index", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	format, err := chart.ParseFormat(mux.Vars(r)["format"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	v := s.compute(w, r)
	if v == nil {
		return
	}
	if v.Empty() {
		http.Error(w, v.Warning, http.StatusUnprocessableEntity)
		return
	}
	p, err := chart.BoxPlot(v.Samples, v.Selection.Metric)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	opt := s.cfg.Chart
	opt.Format = format
	var buf bytes.Buffer
	if err := chart.Render(&buf, p, opt); err != nil {
		log.Errorw("render chart", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", chart.ContentType(format))
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

// apiView is the JSON shape of a view.
type apiView struct {
	*dashboard.View
	Rows     int                        `json:"rows"`
	Filtered int                        `json:"filtered_rows"`
	Columns  []string                   `json:"columns,omitempty"`
	Preview  []map[string]dataset.Value `json:"preview,omitempty"`
}

func (s *Server) handleAPI(w http.ResponseWriter, r *http.Request) {
	v := s.compute(w, r)
	if v == nil {
		return
	}
	out := apiView{View: v}
	if !v.Empty() {
		out.Rows = v.Combined.Len()
		out.Filtered = v.Filtered.Len()
		out.Columns = v.Preview.Columns()
		for i := 0; i < v.Preview.Len(); i++ {
			row := make(map[string]dataset.Value, len(out.Columns))
			for j, c := range out.Columns {
				row[c] = v.Preview.Row(i)[j]
			}
			out.Preview = append(out.Preview, row)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	body := map[string]any{"status": "ok"}
	if s.cache != nil {
		st := s.cache.Stats()
		body["cache_reads"] = st.Reads
		body["cache_hits"] = st.Hits
	}
	writeJSON(w, http.StatusOK, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := utils.PrettyJSON(v)
	if err != nil {
		log.Errorw("encode json", "error", err)
		http.Error(w, "encode failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}
