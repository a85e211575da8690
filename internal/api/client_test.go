package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ziadkadry99/smartcalc/internal/apitest"
	"github.com/ziadkadry99/smartcalc/internal/notify"
)

func newTestClient(baseURL string) (*Client, *notify.Recorder) {
	rec := notify.NewRecorder()
	return NewClient(baseURL,
		WithNotifier(rec),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	), rec
}

func TestConvertPayload(t *testing.T) {
	srv := apitest.New(t)
	client, rec := newTestClient(srv.URL)

	res, err := client.Convert(context.Background(), ConvertRequest{
		Value: 100, FromUnit: "m", ToUnit: "km", Category: "Longueur",
	})
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if !res.Success || res.Result != 0.1 {
		t.Errorf("result = %+v", res)
	}

	reqs := srv.RequestsTo("/api/convert")
	if len(reqs) != 1 {
		t.Fatalf("expected 1 request, got %d", len(reqs))
	}
	body := reqs[0].Body
	if body["value"] != float64(100) || body["from_unit"] != "m" || body["to_unit"] != "km" || body["category"] != "Longueur" {
		t.Errorf("payload = %v", body)
	}
	if len(rec.All()) != 0 {
		t.Errorf("unexpected notifications: %v", rec.All())
	}
}

func TestErrorMessageFromBody(t *testing.T) {
	srv := apitest.New(t)
	client, rec := newTestClient(srv.URL)

	_, err := client.ScientificCalculate(context.Background(), "1/", nil)

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *Error", err)
	}
	if apiErr.Status != http.StatusBadRequest || apiErr.Message != "invalid expression" {
		t.Errorf("apiErr = %+v", apiErr)
	}

	last, ok := rec.Last()
	if !ok || last.Severity != notify.SeverityError || last.Message != "invalid expression" {
		t.Errorf("notification = %+v, %v", last, ok)
	}
}

func TestErrorWithoutMessageIsGeneric(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success":false}`))
	}))
	defer srv.Close()
	client, rec := newTestClient(srv.URL)

	err := client.Do(context.Background(), "/x", RequestOptions{}, nil)

	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Message != genericNetworkMessage {
		t.Fatalf("err = %v", err)
	}
	if last, _ := rec.Last(); last.Message != genericNetworkMessage {
		t.Errorf("notification = %q", last.Message)
	}
}

func TestMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>oops</html>`))
	}))
	defer srv.Close()
	client, rec := newTestClient(srv.URL)

	_, err := client.Units(context.Background(), "Longueur")
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("err = %v, want ErrMalformedResponse", err)
	}
	if len(rec.All()) != 1 {
		t.Errorf("expected one notification, got %d", len(rec.All()))
	}
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client, rec := newTestClient(url)
	_, err := client.Calculate(context.Background(), "number", "5")
	if err == nil {
		t.Fatal("expected error")
	}
	if last, _ := rec.Last(); last.Message != fallbackMessage {
		t.Errorf("notification = %q", last.Message)
	}
}

func TestHeadersMergeOverDefault(t *testing.T) {
	var gotCT, gotExtra, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCT = r.Header.Get("Content-Type")
		gotExtra = r.Header.Get("X-Trace")
		gotMethod = r.Method
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()
	client, _ := newTestClient(srv.URL + "/")

	if err := client.Do(context.Background(), "/ping", RequestOptions{}, nil); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if gotCT != "application/json" || gotMethod != http.MethodGet {
		t.Errorf("defaults: Content-Type=%q method=%q", gotCT, gotMethod)
	}

	err := client.Do(context.Background(), "/ping", RequestOptions{
		Method:  http.MethodPost,
		Headers: map[string]string{"Content-Type": "application/vnd.smartcalc+json", "X-Trace": "abc"},
	}, nil)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if gotCT != "application/vnd.smartcalc+json" || gotExtra != "abc" || gotMethod != http.MethodPost {
		t.Errorf("overrides: Content-Type=%q X-Trace=%q method=%q", gotCT, gotExtra, gotMethod)
	}
}

func TestUnitsEscapesCategory(t *testing.T) {
	srv := apitest.New(t)
	srv.Units = func(category string) (int, any) {
		return http.StatusOK, map[string]any{"success": true, "units": []string{"°C", "°F", "K"}}
	}
	client, _ := newTestClient(srv.URL)

	res, err := client.Units(context.Background(), "Température")
	if err != nil {
		t.Fatalf("Units: %v", err)
	}
	if len(res.Units) != 3 {
		t.Errorf("units = %v", res.Units)
	}
	if reqs := srv.RequestsTo("/api/convert/units/Température"); len(reqs) != 1 {
		t.Errorf("requests = %+v", srv.Requests())
	}
}

func TestScientificSendsEmptyVariables(t *testing.T) {
	srv := apitest.New(t)
	client, _ := newTestClient(srv.URL)

	if _, err := client.ScientificCalculate(context.Background(), "2+2", nil); err != nil {
		t.Fatalf("ScientificCalculate: %v", err)
	}
	body := srv.RequestsTo("/api/scientific/calculate")[0].Body
	vars, ok := body["variables"].(map[string]any)
	if !ok || len(vars) != 0 {
		t.Errorf("variables = %#v", body["variables"])
	}
}

func TestMessage(t *testing.T) {
	if got := Message(&Error{Status: 400, Message: "bad"}); got != "bad" {
		t.Errorf("Message = %q", got)
	}
	if got := Message(errors.New("plain")); got != "plain" {
		t.Errorf("Message = %q", got)
	}
}
