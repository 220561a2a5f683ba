// Package server exposes registered query builders over HTTP. Each builder
// is reachable under its derived identifier; query parameters become
// predicate pairs in the order they appear in the request URL.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/rpattn/paramquery/internal/builder"
	"github.com/rpattn/paramquery/internal/domain"
	"github.com/rpattn/paramquery/internal/export"
	"github.com/rpattn/paramquery/internal/query"
	"github.com/rpattn/paramquery/internal/repository"
)

// Reserved parameters are consumed by the HTTP layer and never reach the
// builder as predicate pairs.
const (
	paramSort   = "_sort"
	paramLimit  = "_limit"
	paramOffset = "_offset"
	paramFormat = "format"
)

// Handler routes /query/{ident} and /export/{ident} requests.
type Handler struct {
	registry *builder.Registry
	executor repository.QueryExecutor
	exporter *export.Service
}

// NewHandler wires the registry and executor into an HTTP handler.
func NewHandler(registry *builder.Registry, executor repository.QueryExecutor) *Handler {
	return &Handler{
		registry: registry,
		executor: executor,
		exporter: export.NewService(executor),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	switch {
	case strings.HasPrefix(r.URL.Path, "/query/"):
		h.handleQuery(w, r)
	case strings.HasPrefix(r.URL.Path, "/export/"):
		h.handleExport(w, r)
	case r.URL.Path == "/builders":
		writeJSON(w, http.StatusOK, map[string]any{"builders": h.registry.Idents()})
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

type queryResponse struct {
	Ident string           `json:"ident"`
	Count int              `json:"count"`
	Rows  []map[string]any `json:"rows"`
}

func (h *Handler) handleQuery(w http.ResponseWriter, r *http.Request) {
	b, pairs, opts, ok := h.prepare(w, r, "/query/")
	if !ok {
		return
	}

	q, err := b.Build(pairs)
	if err != nil {
		writeBuildError(w, err)
		return
	}
	q, err = applyListOptions(q, b, opts)
	if err != nil {
		writeBuildError(w, err)
		return
	}

	rows, err := h.executor.Execute(r.Context(), q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, queryResponse{Ident: b.Ident(), Count: len(rows), Rows: rows})
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	b, pairs, opts, ok := h.prepare(w, r, "/export/")
	if !ok {
		return
	}

	format, err := export.ParseFormat(opts.format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	q, err := b.Build(pairs)
	if err != nil {
		writeBuildError(w, err)
		return
	}
	q, err = applyListOptions(q, b, opts)
	if err != nil {
		writeBuildError(w, err)
		return
	}

	switch format {
	case export.FormatXLSX:
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.xlsx", b.Ident()))
	default:
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", b.Ident()))
	}

	if _, err := h.exporter.ExportQuery(r.Context(), b.Entity(), q, format, w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// listOptions carries the reserved parameters stripped from the pair list.
type listOptions struct {
	sortField string
	sortDesc  bool
	limit     int
	offset    int
	format    string
}

// prepare resolves the builder from the URL path and splits the raw query
// string into predicate pairs and reserved options.
func (h *Handler) prepare(w http.ResponseWriter, r *http.Request, prefix string) (*builder.Builder, domain.PairList, listOptions, bool) {
	ident := strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/")
	b, found := h.registry.Lookup(ident)
	if !found {
		http.Error(w, fmt.Sprintf("no builder registered for %q", ident), http.StatusNotFound)
		return nil, nil, listOptions{}, false
	}

	raw, err := domain.ParseQueryString(r.URL.RawQuery)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, nil, listOptions{}, false
	}

	opts := listOptions{limit: -1, offset: -1}
	pairs := make(domain.PairList, 0, len(raw))
	for _, pair := range raw {
		value, _ := pair.Value.(string)
		switch pair.Field {
		case paramSort:
			field, direction, _ := strings.Cut(value, ":")
			opts.sortField = field
			opts.sortDesc = strings.EqualFold(direction, "desc")
		case paramLimit:
			n, err := strconv.Atoi(value)
			if err != nil {
				http.Error(w, fmt.Sprintf("invalid %s: %v", paramLimit, err), http.StatusBadRequest)
				return nil, nil, listOptions{}, false
			}
			opts.limit = n
		case paramOffset:
			n, err := strconv.Atoi(value)
			if err != nil {
				http.Error(w, fmt.Sprintf("invalid %s: %v", paramOffset, err), http.StatusBadRequest)
				return nil, nil, listOptions{}, false
			}
			opts.offset = n
		case paramFormat:
			opts.format = value
		default:
			pairs = append(pairs, pair)
		}
	}

	return b, pairs, opts, true
}

func applyListOptions(q query.Query, b *builder.Builder, opts listOptions) (query.Query, error) {
	if opts.sortField != "" {
		field, err := b.Entity().ResolveField(opts.sortField)
		if err != nil {
			return query.Query{}, err
		}
		direction := query.SortAsc
		if opts.sortDesc {
			direction = query.SortDesc
		}
		q = q.Order(field.Name, direction)
	}
	if opts.limit >= 0 {
		q = q.Limit(opts.limit)
	}
	if opts.offset >= 0 {
		q = q.Offset(opts.offset)
	}
	return q, nil
}

func writeBuildError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrUnknownField) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
