package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/sourcing/pkg/application/dto"
	"github.com/vsinha/sourcing/pkg/application/services/planning"
	"github.com/vsinha/sourcing/pkg/infrastructure/cache"
	"github.com/vsinha/sourcing/pkg/infrastructure/logging"
	"github.com/vsinha/sourcing/pkg/infrastructure/repositories/sheet"
	testhelpers "github.com/vsinha/sourcing/pkg/infrastructure/testing"
	"github.com/vsinha/sourcing/pkg/interfaces/http/handlers"
	"github.com/vsinha/sourcing/pkg/interfaces/http/middleware"
)

var scenario = map[string]string{
	"capacity": "Centro,Alias,Capacidad\n0833,DG,500\n0184,MCH,\n",
	"materials": "Material,Unidad,Tamaño lote mínimo,Tamaño lote máximo," +
		"Coste fabricacion unidad DG,Tiempo fabricación unidad DG," +
		"Coste fabricacion unidad MCH,Tiempo fabricación unidad MCH\n" +
		"M1,KG,50,100,1,0.5,2,0.5\n",
	"clients": "Cliente,Distancia a 0833,Distancia a 0184\nC1,100,0\n",
	"demand":  "Material,Unidad,Cliente,Cantidad,Fecha de necesidad\nM1,KG,C1,150,2025-03-04\n",
}

func newTestServer(maxUpload int64) *Server {
	logger := logging.Nop()
	runner := cache.NewCachedPlanner(planning.NewPlanner(2, logger), cache.NewMemoryStore(8), logger)
	return New(Options{
		Address:        ":0",
		MaxUploadBytes: maxUpload,
		Defaults:       planning.DefaultParams(),
	}, runner, logger)
}

func upload(t *testing.T, files map[string]string, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, name := range []string{"demand", "materials", "clients", "capacity"} {
		body, ok := files[name]
		if !ok {
			continue
		}
		fw, err := mw.CreateFormFile(name, name+".csv")
		require.NoError(t, err)
		_, err = fw.Write([]byte(body))
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/plans", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func withFile(name, body string) map[string]string {
	files := make(map[string]string, len(scenario))
	for k, v := range scenario {
		files[k] = v
	}
	if body == "" {
		delete(files, name)
	} else {
		files[name] = body
	}
	return files
}

func TestCreatePlan(t *testing.T) {
	s := newTestServer(1 << 20)

	first := serve(s, upload(t, scenario, nil))
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	assert.Equal(t, "miss", first.Header().Get(handlers.HeaderPlanCache))
	assert.NotEmpty(t, first.Header().Get(handlers.HeaderPlanID))

	var result dto.PlanResult
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &result))
	require.Len(t, result.Orders, 2)
	assert.Equal(t, "75", result.Orders[0].Quantity.String())
	assert.Equal(t, first.Header().Get(handlers.HeaderPlanFingerprint), result.Fingerprint)

	second := serve(s, upload(t, scenario, nil))
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "hit", second.Header().Get(handlers.HeaderPlanCache))
	assert.Equal(t, first.Body.Bytes(), second.Body.Bytes())
	assert.NotEqual(t, first.Header().Get(handlers.HeaderPlanID), second.Header().Get(handlers.HeaderPlanID))
}

func TestCreatePlan_Warnings(t *testing.T) {
	tables, err := testhelpers.BuildBasicScenario().CSV()
	require.NoError(t, err)
	files := map[string]string{
		"demand":    string(tables[sheet.DemandTable]),
		"materials": string(tables[sheet.MaterialTable]),
		"clients":   string(tables[sheet.ClientTable]),
		"capacity":  string(tables[sheet.CapacityTable]),
	}

	rec := serve(newTestServer(1<<20), upload(t, files, map[string]string{"primary_center": "MCH"}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result dto.PlanResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, []string{"0184", "0833"}, result.Centers)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "C9", result.Warnings[0].Value)
}

func TestCreatePlan_CSV(t *testing.T) {
	rec := serve(newTestServer(1<<20), upload(t, scenario, map[string]string{"format": "csv"}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "propuesta_sourcing.csv")
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	assert.Len(t, lines, 3)
}

func TestCreatePlan_Errors(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		fields  map[string]string
		status  int
		kind    string
		message string
	}{
		{
			name:    "missing table",
			files:   withFile("capacity", ""),
			status:  http.StatusBadRequest,
			message: "missing capacity file",
		},
		{
			name:   "unknown price source",
			files:  scenario,
			fields: map[string]string{"price_source": "auction"},
			status: http.StatusBadRequest,
		},
		{
			name:   "negative price",
			files:  scenario,
			fields: map[string]string{"transport_price": "-1"},
			status: http.StatusBadRequest,
		},
		{
			name:   "thresholds out of range",
			files:  scenario,
			fields: map[string]string{"thresholds": `{"2025-W09": 120}`},
			status: http.StatusBadRequest,
		},
		{
			name: "zero max lot",
			files: withFile("materials", "Material,Unidad,Tamaño lote máximo,"+
				"Coste fabricacion unidad DG,Tiempo fabricación unidad DG,"+
				"Coste fabricacion unidad MCH,Tiempo fabricación unidad MCH\n"+
				"M1,KG,0,1,0.5,2,0.5\n"),
			status: http.StatusUnprocessableEntity,
			kind:   "InvalidLotConfiguration",
		},
		{
			name:   "non numeric distance",
			files:  withFile("clients", "Cliente,Distancia a 0833,Distancia a 0184\nC1,far,0\n"),
			status: http.StatusUnprocessableEntity,
			kind:   "NonNumericField",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(newTestServer(1<<20), upload(t, tt.files, tt.fields))
			require.Equal(t, tt.status, rec.Code, rec.Body.String())

			var resp middleware.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.RequestID)
			if tt.kind != "" {
				assert.Equal(t, tt.kind, resp.Meta["kind"])
			}
			if tt.message != "" {
				assert.Contains(t, resp.Message, tt.message)
			}
		})
	}
}

func TestCreatePlan_UploadTooLarge(t *testing.T) {
	rec := serve(newTestServer(64), upload(t, scenario, nil))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(1 << 20)

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = serve(s, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
