package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/danielacalcdecampo/agrocota/internal/importer"
	"github.com/danielacalcdecampo/agrocota/internal/parser"
	"github.com/danielacalcdecampo/agrocota/internal/service/excel"
	"github.com/danielacalcdecampo/agrocota/internal/service/quotation"
	"github.com/danielacalcdecampo/agrocota/internal/service/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(maxMB int64) (*gin.Engine, *store.MemoryStore) {
	st := store.NewMemoryStore()
	coord := importer.NewCoordinator(
		excel.NewReader(excel.ReaderOptions{}),
		parser.NewDefaultEngine(),
		quotation.NewBuilder(),
		st,
		importer.Options{},
	)
	h := NewHandlers(Config{Coordinator: coord, Store: st, MaxUploadMB: maxMB})

	r := gin.New()
	h.RegisterRoutes(r.Group("/api"))
	return r, st
}

func quoteXLSX(t *testing.T) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	rows := [][]any{
		{"Produto", "Fornecedor", "Categoria", "Valor/ha"},
		{"Glifosato", "Agro Sul", "Herbicida", 95.5},
		{"Glifosato", "Coop Norte", "Herbicida", "88,00"},
		{"Azoxistrobina", "Agro Sul", "Fungicida", 140},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	return buf.Bytes()
}

func multipartBody(t *testing.T, filename string, data []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("field: %v", err)
		}
	}
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return body, w.FormDataContentType()
}

func post(t *testing.T, r http.Handler, path, filename string, data []byte, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	body, ct := multipartBody(t, filename, data, fields)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func get(r http.Handler, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return env
}

func TestPreviewQuotation(t *testing.T) {
	t.Parallel()

	r, st := newTestRouter(0)
	rec := post(t, r, "/api/quotations/preview", "cotacao.xlsx", quoteXLSX(t), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}

	var p importer.Preview
	if err := json.Unmarshal(decode(t, rec).Data, &p); err != nil {
		t.Fatalf("preview: %v", err)
	}
	if p.UniqueProducts != 2 || p.UniqueSuppliers != 2 || p.UniqueCategories != 2 {
		t.Fatalf("unique = %d/%d/%d", p.UniqueProducts, p.UniqueSuppliers, p.UniqueCategories)
	}
	if st.Count() != 0 {
		t.Fatal("preview must not persist")
	}
}

func TestCreateQuotation_Flow(t *testing.T) {
	t.Parallel()

	r, st := newTestRouter(0)
	rec := post(t, r, "/api/quotations", "cotacao.xlsx", quoteXLSX(t), map[string]string{
		"titulo":      "Safra 25/26",
		"observacoes": "entrega em março",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	if st.Count() != 1 {
		t.Fatalf("count = %d", st.Count())
	}

	var created struct {
		Quotation struct {
			ID            string `json:"id"`
			ApprovalToken string `json:"approvalToken"`
		} `json:"quotation"`
	}
	if err := json.Unmarshal(decode(t, rec).Data, &created); err != nil {
		t.Fatalf("created: %v", err)
	}
	id := created.Quotation.ID

	if rec := get(r, http.MethodGet, "/api/quotations"); rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	if rec := get(r, http.MethodGet, "/api/quotations/"+id); rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	rec = get(r, http.MethodGet, "/api/quotations/"+id+"/report")
	if rec.Code != http.StatusOK {
		t.Fatalf("report status = %d", rec.Code)
	}
	var rep struct {
		PotentialSavings string `json:"economiaPotencial"`
	}
	if err := json.Unmarshal(decode(t, rec).Data, &rep); err != nil {
		t.Fatalf("report: %v", err)
	}
	if rep.PotentialSavings != "7.5" {
		t.Fatalf("savings = %q, want 7.5", rep.PotentialSavings)
	}

	rec = get(r, http.MethodGet, "/api/quotations/"+id+"/export")
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d", rec.Code)
	}
	if _, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes())); err != nil {
		t.Fatalf("export is not a workbook: %v", err)
	}

	if rec := get(r, http.MethodGet, "/api/shared/"+created.Quotation.ApprovalToken); rec.Code != http.StatusOK {
		t.Fatalf("shared status = %d", rec.Code)
	}

	if rec := get(r, http.MethodDelete, "/api/quotations/"+id); rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if rec := get(r, http.MethodGet, "/api/quotations/"+id); rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete = %d, want 404", rec.Code)
	}
}

func TestCreateQuotation_Errors(t *testing.T) {
	t.Parallel()

	numeric := func(t *testing.T) []byte {
		f := excelize.NewFile()
		defer func() { _ = f.Close() }()
		_ = f.SetSheetRow("Sheet1", "A1", &[]any{1, 2, 3})
		_ = f.SetSheetRow("Sheet1", "A2", &[]any{4, 5, 6})
		buf, err := f.WriteToBuffer()
		if err != nil {
			t.Fatalf("write: %v", err)
		}
		return buf.Bytes()
	}

	tests := []struct {
		name     string
		filename string
		data     func(t *testing.T) []byte
		fields   map[string]string
		status   int
		code     int
	}{
		{"no valid items", "n.xlsx", numeric, map[string]string{"titulo": "x"}, http.StatusUnprocessableEntity, CodeNoValidItems},
		{"missing title", "c.xlsx", quoteXLSX, nil, http.StatusBadRequest, CodeTitleRequired},
		{"unsupported", "c.pdf", func(*testing.T) []byte { return []byte("%PDF") }, map[string]string{"titulo": "x"}, http.StatusBadRequest, CodeInvalidFile},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			r, st := newTestRouter(0)
			rec := post(t, r, "/api/quotations", tc.filename, tc.data(t), tc.fields)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d body=%s", rec.Code, tc.status, rec.Body.String())
			}
			if env := decode(t, rec); env.Code != tc.code {
				t.Fatalf("code = %d, want %d", env.Code, tc.code)
			}
			if st.Count() != 0 {
				t.Fatalf("count = %d", st.Count())
			}
		})
	}
}

func TestUpload_TooLarge(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(1)
	big := bytes.Repeat([]byte("a"), 1<<20+10)
	rec := post(t, r, "/api/quotations/preview", "big.csv", big, nil)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", rec.Code)
	}
}

func TestUpload_MissingFile(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(0)
	req := httptest.NewRequest(http.MethodPost, "/api/quotations/preview", strings.NewReader(""))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCreateQuotationStream(t *testing.T) {
	t.Parallel()

	r, st := newTestRouter(0)
	rec := post(t, r, "/api/quotations/stream", "cotacao.xlsx", quoteXLSX(t), map[string]string{"titulo": "SSE"})
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content-type = %q", ct)
	}

	var types []string
	for _, line := range strings.Split(rec.Body.String(), "\n") {
		payload, ok := strings.CutPrefix(line, "data: ")
		if !ok {
			continue
		}
		var evt importer.ProgressEvent
		if err := json.Unmarshal([]byte(payload), &evt); err != nil {
			t.Fatalf("event: %v", err)
		}
		types = append(types, evt.Type)
	}
	if len(types) == 0 || types[0] != "start" || types[len(types)-1] != "done" {
		t.Fatalf("events = %v", types)
	}
	if st.Count() != 1 {
		t.Fatalf("count = %d", st.Count())
	}
}

func TestGetStatus(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(0)
	rec := get(r, http.MethodGet, "/api/status")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if env := decode(t, rec); env.Code != 0 {
		t.Fatalf("code = %d", env.Code)
	}
}
