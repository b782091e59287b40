package v1

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/helixml/textdiff"
	"github.com/helixml/textdiff/domain/compare"
	"github.com/helixml/textdiff/domain/store"
	"github.com/helixml/textdiff/infrastructure/api/jsonapi"
	"github.com/helixml/textdiff/infrastructure/api/middleware"
	"github.com/helixml/textdiff/infrastructure/api/v1/dto"
	"github.com/helixml/textdiff/infrastructure/tabular"
)

// maxUploadBytes caps the multipart form held in memory per upload.
const maxUploadBytes = 32 << 20

// RunsRouter handles comparison run API endpoints.
type RunsRouter struct {
	client *textdiff.Client
	logger *slog.Logger
}

// NewRunsRouter creates a new RunsRouter.
func NewRunsRouter(client *textdiff.Client) *RunsRouter {
	return &RunsRouter{
		client: client,
		logger: client.Logger(),
	}
}

// Routes returns the chi router for run endpoints.
func (rt *RunsRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", rt.Create)
	router.Get("/", rt.List)
	router.Get("/{id}", rt.Get)
	router.Get("/{id}/report", rt.Report)
	router.Delete("/{id}", rt.Delete)

	return router
}

// Create handles POST /api/v1/runs. It accepts a multipart form with a CSV
// file field named "file" plus optional form values source, column_a,
// column_b and min_ratio, runs the comparison, persists it, and returns the
// created run.
func (rt *RunsRouter) Create(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	if err := req.ParseMultipartForm(maxUploadBytes); err != nil {
		middleware.WriteError(w, req, middleware.NewAPIError(http.StatusBadRequest, "invalid multipart form", err), rt.logger)
		return
	}

	file, header, err := req.FormFile("file")
	if err != nil {
		middleware.WriteError(w, req, middleware.NewAPIError(http.StatusBadRequest, "missing file field", err), rt.logger)
		return
	}
	defer file.Close()

	table, err := tabular.ReadCSV(file)
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}

	source := req.FormValue("source")
	if source == "" {
		source = header.Filename
	}

	opts := []textdiff.ComparerOption{textdiff.WithSource(source)}
	if columnA, columnB := req.FormValue("column_a"), req.FormValue("column_b"); columnA != "" || columnB != "" {
		if columnA == "" || columnB == "" {
			middleware.WriteError(w, req, middleware.NewAPIError(http.StatusBadRequest, "column_a and column_b must be set together", nil), rt.logger)
			return
		}
		opts = append(opts, textdiff.WithComparerColumns(columnA, columnB))
	}
	if ratioStr := req.FormValue("min_ratio"); ratioStr != "" {
		ratio, err := strconv.ParseFloat(ratioStr, 64)
		if err != nil || ratio <= 0 || ratio > 1 {
			middleware.WriteError(w, req, middleware.NewAPIError(http.StatusBadRequest, "min_ratio must be a number in (0, 1]", err), rt.logger)
			return
		}
		opts = append(opts, textdiff.WithComparerMinRatio(ratio))
	}

	comparer, err := rt.client.NewComparer(table, opts...)
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}

	if err := comparer.Run(ctx); err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}

	run, err := comparer.SavedRun()
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, jsonapi.NewSingleResponse(runResource(run)))
}

// List handles GET /api/v1/runs with pagination, newest first.
func (rt *RunsRouter) List(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	params := ParsePagination(req)

	total, err := rt.client.Runs.Count(ctx)
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}

	options := append(params.Options(), store.WithOrderDesc("id"))
	runs, err := rt.client.Runs.List(ctx, options...)
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}

	resources := make([]*jsonapi.Resource, len(runs))
	for i, run := range runs {
		resources[i] = runResource(run)
	}

	doc := jsonapi.NewListResponse(resources)
	doc.Meta = PaginationMeta(params, total)
	doc.Links = PaginationLinks(req, params, total)
	middleware.WriteJSON(w, http.StatusOK, doc)
}

// Get handles GET /api/v1/runs/{id}, returning the run and its records in
// batch order.
func (rt *RunsRouter) Get(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	id, err := runID(req)
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}

	run, result, err := rt.client.Runs.Get(ctx, id)
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, jsonapi.NewSingleResponse(runDetailResource(run, result)))
}

// Report handles GET /api/v1/runs/{id}/report, rendering the persisted run
// as an HTML document. Query parameters: sort (asc|desc), max_rows, index.
func (rt *RunsRouter) Report(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	id, err := runID(req)
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}

	cfg, err := presentationFromQuery(req)
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}

	html, err := rt.client.Report(ctx, id, cfg)
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}

// Delete handles DELETE /api/v1/runs/{id}.
func (rt *RunsRouter) Delete(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	id, err := runID(req)
	if err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}

	if err := rt.client.Runs.Delete(ctx, id); err != nil {
		middleware.WriteError(w, req, err, rt.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func runID(req *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(req, "id"), 10, 64)
	if err != nil {
		return 0, middleware.NewAPIError(http.StatusBadRequest, "invalid run id", err)
	}
	return id, nil
}

func presentationFromQuery(req *http.Request) (compare.Presentation, error) {
	cfg := compare.NewPresentation()
	q := req.URL.Query()

	if sort := q.Get("sort"); sort != "" {
		order := compare.SortOrder(sort)
		if !order.Valid() {
			return cfg, middleware.NewAPIError(http.StatusBadRequest, "sort must be asc or desc", nil)
		}
		cfg = cfg.WithSort(order)
	}
	if maxStr := q.Get("max_rows"); maxStr != "" {
		maxRows, err := strconv.Atoi(maxStr)
		if err != nil || maxRows < 0 {
			return cfg, middleware.NewAPIError(http.StatusBadRequest, "max_rows must be a non-negative integer", err)
		}
		cfg = cfg.WithMaxRows(maxRows)
	}
	if q.Get("index") == "true" {
		cfg = cfg.WithIndex(true)
	}

	return cfg, nil
}

func runResource(run compare.Run) *jsonapi.Resource {
	return jsonapi.NewResource("runs", strconv.FormatInt(run.ID(), 10), dto.RunAttributes{
		Source:    run.Source(),
		ColumnA:   run.ColumnA(),
		ColumnB:   run.ColumnB(),
		MinRatio:  run.MinRatio(),
		RowCount:  run.RowCount(),
		CreatedAt: jsonapi.NewDateTime(run.CreatedAt()),
	})
}

func runDetailResource(run compare.Run, result compare.RunResult) *jsonapi.Resource {
	records := make([]dto.RecordAttributes, 0, result.Len())
	for _, rec := range result.Records() {
		attrs := dto.RecordAttributes{
			Key:          string(rec.Key()),
			Ratio:        rec.Ratio(),
			RoundedRatio: rec.RoundedRatio(),
			TextA:        rec.TextA(),
			TextB:        rec.TextB(),
			Failed:       rec.Failed(),
		}
		if err := rec.Err(); err != nil {
			attrs.BadColumn = err.Column()
		}
		records = append(records, attrs)
	}

	return jsonapi.NewResource("runs", strconv.FormatInt(run.ID(), 10), dto.RunDetailAttributes{
		RunAttributes: dto.RunAttributes{
			Source:    run.Source(),
			ColumnA:   run.ColumnA(),
			ColumnB:   run.ColumnB(),
			MinRatio:  run.MinRatio(),
			RowCount:  run.RowCount(),
			CreatedAt: jsonapi.NewDateTime(run.CreatedAt()),
		},
		Records: records,
	})
}
