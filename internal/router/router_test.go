package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"pet-boarding-backend/internal/platform/logger"
	"pet-boarding-backend/internal/router"
)

// E2E en modo dev: sin verifier y sin gate de permisos, contra el
// adaptador en memoria. Cubre el flujo completo de pensión:
// cliente -> ejemplar -> contrato -> pagos -> cierre.
func TestHTTP_EndToEnd_BoardingFlow(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{
		Logger: logger.Nop(),
	}))
	defer ts.Close()

	// 0) health
	{
		st, _ := doReq(t, ts.URL, "GET", "/health", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 on /health, got %d", st)
		}
	}

	// 1) catálogo base: categoría y servicio
	categoryID := createResource(t, ts.URL, "/categorias", map[string]any{
		"name": "akita",
	})
	serviceID := createResource(t, ts.URL, "/servicios", map[string]any{
		"name":  "pensión completa",
		"price": 80.0,
	})

	// 2) cliente
	clientID := createResource(t, ts.URL, "/clientes", map[string]any{
		"name":     "Juan Pérez",
		"document": "45781236",
		"email":    "jperez@criadero.pe",
	})

	// 3) ejemplar: el contador del dueño sube a 1
	specimenID := createResource(t, ts.URL, "/ejemplares", map[string]any{
		"name":        "Hachi",
		"breed":       "akita",
		"owner_id":    clientID,
		"category_id": categoryID,
	})
	{
		st, body := doReq(t, ts.URL, "GET", "/clientes/"+clientID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 fetching client, got %d body=%s", st, string(body))
		}
		var c struct {
			SpecimenCount int `json:"specimen_count"`
		}
		mustUnmarshal(t, body, &c)
		if c.SpecimenCount != 1 {
			t.Fatalf("expected specimen_count 1, got %d", c.SpecimenCount)
		}
	}

	// 4) contrato con ejemplar y servicio asociados
	var contractID string
	{
		st, body := doReq(t, ts.URL, "POST", "/contratos", map[string]any{
			"client_id":     clientID,
			"start_date":    "2026-03-01",
			"monthly_price": 180.0,
			"specimen_id":   specimenID,
			"service_ids":   []string{serviceID},
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 creating contract, got %d body=%s", st, string(body))
		}
		var d struct {
			ID       string           `json:"id"`
			Status   string           `json:"status"`
			Services []map[string]any `json:"services"`
		}
		mustUnmarshal(t, body, &d)
		if d.Status != "activo" {
			t.Fatalf("expected contract activo, got %s", d.Status)
		}
		if len(d.Services) != 1 {
			t.Fatalf("expected 1 associated service, got %d", len(d.Services))
		}
		contractID = d.ID
	}

	// 5) el ejemplar quedó asociado y no admite un segundo contrato
	{
		st, body := doReq(t, ts.URL, "GET", "/ejemplares/"+specimenID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 fetching specimen, got %d", st)
		}
		var sp struct {
			ContractID *string `json:"contract_id"`
		}
		mustUnmarshal(t, body, &sp)
		if sp.ContractID == nil || *sp.ContractID != contractID {
			t.Fatalf("expected specimen bound to %s, got %v", contractID, sp.ContractID)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "POST", "/contratos", map[string]any{
			"client_id":     clientID,
			"start_date":    "2026-04-01",
			"monthly_price": 200.0,
			"specimen_id":   specimenID,
		})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 binding an already bound specimen, got %d", st)
		}
	}

	// 6) el ejemplar asociado tampoco se puede borrar
	{
		st, _ := doReq(t, ts.URL, "DELETE", "/ejemplares/"+specimenID, nil)
		if st != http.StatusConflict {
			t.Fatalf("expected 409 deleting a bound specimen, got %d", st)
		}
	}

	// 7) pagos: uno por mes, solo contratos activos
	{
		st, body := doReq(t, ts.URL, "POST", "/pagos", map[string]any{
			"contract_id":   contractID,
			"amount":        180.0,
			"method":        "transferencia",
			"payment_month": 3,
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 creating payment, got %d body=%s", st, string(body))
		}
	}
	{
		st, _ := doReq(t, ts.URL, "POST", "/pagos", map[string]any{
			"contract_id":   contractID,
			"amount":        180.0,
			"method":        "efectivo",
			"payment_month": 3,
		})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 for duplicate month, got %d", st)
		}
	}

	// 8) cerrar el contrato: terminal, sin más pagos ni reapertura
	{
		st, body := doReq(t, ts.URL, "PATCH", "/contratos/"+contractID+"/estado", map[string]any{
			"status": "finalizado",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 finishing contract, got %d body=%s", st, string(body))
		}
	}
	{
		st, _ := doReq(t, ts.URL, "POST", "/pagos", map[string]any{
			"contract_id":   contractID,
			"amount":        180.0,
			"method":        "efectivo",
			"payment_month": 4,
		})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 paying a finished contract, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "PATCH", "/contratos/"+contractID+"/estado", map[string]any{
			"status": "activo",
		})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 reopening a finished contract, got %d", st)
		}
	}

	// 9) eliminar el contrato libera al ejemplar
	{
		st, _ := doReq(t, ts.URL, "DELETE", "/contratos/"+contractID, nil)
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 deleting contract, got %d", st)
		}
		st, body := doReq(t, ts.URL, "GET", "/ejemplares/"+specimenID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 fetching specimen, got %d", st)
		}
		var sp struct {
			ContractID *string `json:"contract_id"`
		}
		mustUnmarshal(t, body, &sp)
		if sp.ContractID != nil {
			t.Fatalf("expected specimen freed, got %v", *sp.ContractID)
		}
	}
}

func TestHTTP_ContractImmutableClient(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{
		Logger: logger.Nop(),
	}))
	defer ts.Close()

	clientID := createResource(t, ts.URL, "/clientes", map[string]any{
		"name":     "Ana Quispe",
		"document": "40404040",
		"email":    "aquispe@criadero.pe",
	})
	var contractID string
	{
		st, body := doReq(t, ts.URL, "POST", "/contratos", map[string]any{
			"client_id":     clientID,
			"start_date":    "2026-03-01",
			"monthly_price": 120.0,
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201, got %d body=%s", st, string(body))
		}
		var d struct {
			ID string `json:"id"`
		}
		mustUnmarshal(t, body, &d)
		contractID = d.ID
	}

	// client_id presente en el PATCH se rechaza, aunque sea el mismo valor
	st, _ := doReq(t, ts.URL, "PATCH", "/contratos/"+contractID, map[string]any{
		"client_id": clientID,
	})
	if st != http.StatusBadRequest {
		t.Fatalf("expected 400 patching client_id, got %d", st)
	}
}

// -------------------------
// Helpers
// -------------------------

func doReq(t *testing.T, base, method, path string, payload any) (int, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, base+path, body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer res.Body.Close()

	out, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return res.StatusCode, out
}

func createResource(t *testing.T, base, path string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, base, "POST", path, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 creating %s, got %d body=%s", path, st, string(body))
	}
	var res struct {
		ID string `json:"id"`
	}
	mustUnmarshal(t, body, &res)
	if res.ID == "" {
		t.Fatalf("expected id in %s response, body=%s", path, string(body))
	}
	return res.ID
}

func mustUnmarshal(t *testing.T, b []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(b, v); err != nil {
		t.Fatalf("unmarshal %s: %v", string(b), err)
	}
}
