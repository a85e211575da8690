// Package apitest runs an in-process stand-in for the SmartCalc service so
// controllers and commands can be tested without the real backend.
package apitest

import (
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

// Request is one call the fake service received.
type Request struct {
	Method string
	Path   string
	Body   map[string]any
}

// Server is a fake SmartCalc service. Handler fields may be replaced
// before the first request to script specific responses; each returns the
// status code and the JSON body to send.
type Server struct {
	*httptest.Server

	Calc       func(action, value string) (int, any)
	Units      func(category string) (int, any)
	Convert    func(value float64, from, to, category string) (int, any)
	Scientific func(expression string) (int, any)
	AngleMode  func(mode string) (int, any)
	Function   func(name string, value float64) (int, any)

	mu        sync.Mutex
	requests  []Request
	angleMode string
	calc      calcState
}

// Units per category served by default.
var DefaultUnits = map[string][]string{
	"Longueur": {"m", "km", "cm", "mm", "in", "ft", "yd", "mi"},
	"Masse":    {"kg", "g", "mg", "lb", "oz"},
}

var factors = map[string]map[string]float64{
	"Longueur": {"m": 1, "km": 1000, "cm": 0.01, "mm": 0.001, "in": 0.0254, "ft": 0.3048, "yd": 0.9144, "mi": 1609.34},
	"Masse":    {"kg": 1, "g": 0.001, "mg": 0.000001, "lb": 0.453592, "oz": 0.0283495},
}

// New starts a fake service that is shut down when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{angleMode: "DEG", calc: calcState{current: "0", waiting: true}}
	s.Calc = s.defaultCalc
	s.Units = defaultUnits
	s.Convert = defaultConvert
	s.Scientific = s.defaultScientific
	s.AngleMode = s.defaultAngleMode
	s.Function = defaultFunction

	s.Server = httptest.NewServer(s.router())
	t.Cleanup(s.Close)
	return s
}

// Requests returns every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// RequestsTo returns the requests whose path equals path.
func (s *Server) RequestsTo(path string) []Request {
	var out []Request
	for _, r := range s.Requests() {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// CurrentAngleMode returns the mode last accepted by the fake.
func (s *Server) CurrentAngleMode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.angleMode
}

func (s *Server) router() chi.Router {
	r := chi.NewRouter()
	r.Use(s.record)

	r.Post("/api/calculate", func(w http.ResponseWriter, r *http.Request) {
		body := decode(r)
		writeJSON(w)(s.Calc(str(body["action"]), str(body["value"])))
	})
	r.Get("/api/convert/units/{category}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w)(s.Units(chi.URLParam(r, "category")))
	})
	r.Post("/api/convert", func(w http.ResponseWriter, r *http.Request) {
		body := decode(r)
		writeJSON(w)(s.Convert(num(body["value"]), str(body["from_unit"]), str(body["to_unit"]), str(body["category"])))
	})
	r.Post("/api/scientific/calculate", func(w http.ResponseWriter, r *http.Request) {
		body := decode(r)
		writeJSON(w)(s.Scientific(str(body["expression"])))
	})
	r.Post("/api/scientific/angle-mode", func(w http.ResponseWriter, r *http.Request) {
		body := decode(r)
		writeJSON(w)(s.AngleMode(str(body["mode"])))
	})
	r.Post("/api/scientific/function", func(w http.ResponseWriter, r *http.Request) {
		body := decode(r)
		writeJSON(w)(s.Function(str(body["function"]), num(body["value"])))
	})
	return r
}

// record stores the request and replays its body to the handler.
func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		r.Body.Close()

		var body map[string]any
		_ = json.Unmarshal(raw, &body)

		s.mu.Lock()
		s.requests = append(s.requests, Request{Method: r.Method, Path: r.URL.Path, Body: body})
		s.mu.Unlock()

		r.Body = io.NopCloser(strings.NewReader(string(raw)))
		next.ServeHTTP(w, r)
	})
}

func defaultUnits(category string) (int, any) {
	units, ok := DefaultUnits[category]
	if !ok {
		return http.StatusNotFound, map[string]any{"success": false, "error": "unknown category: " + category}
	}
	return http.StatusOK, map[string]any{"success": true, "units": units}
}

func defaultConvert(value float64, from, to, category string) (int, any) {
	table, ok := factors[category]
	if !ok {
		return http.StatusBadRequest, map[string]any{"success": false, "error": "unknown category: " + category}
	}
	f, okFrom := table[from]
	g, okTo := table[to]
	if !okFrom || !okTo {
		return http.StatusBadRequest, map[string]any{"success": false, "error": "unknown unit"}
	}
	return http.StatusOK, map[string]any{"success": true, "result": value * f / g}
}

func (s *Server) defaultScientific(expression string) (int, any) {
	s.mu.Lock()
	mode := s.angleMode
	s.mu.Unlock()

	switch expression {
	case "2+2":
		return http.StatusOK, map[string]any{"success": true, "result": 4}
	case "sqrt(16)":
		return http.StatusOK, map[string]any{"success": true, "result": 4}
	case "sin(30)":
		if mode == "DEG" {
			return http.StatusOK, map[string]any{"success": true, "result": 0.49999999999999994}
		}
		return http.StatusOK, map[string]any{"success": true, "result": -0.9880316240928618}
	}
	return http.StatusBadRequest, map[string]any{"success": false, "error": "invalid expression"}
}

func (s *Server) defaultAngleMode(mode string) (int, any) {
	switch mode {
	case "DEG", "RAD", "GRAD":
	default:
		return http.StatusBadRequest, map[string]any{"success": false, "error": "invalid angle mode"}
	}
	s.mu.Lock()
	s.angleMode = mode
	s.mu.Unlock()
	return http.StatusOK, map[string]any{"success": true, "mode": mode}
}

func defaultFunction(name string, value float64) (int, any) {
	switch name {
	case "sqrt":
		if value < 0 {
			return http.StatusBadRequest, map[string]any{"success": false, "error": "math domain error"}
		}
		return http.StatusOK, map[string]any{"success": true, "result": math.Sqrt(value)}
	case "factorial":
		r := 1.0
		for i := 2; i <= int(value); i++ {
			r *= float64(i)
		}
		return http.StatusOK, map[string]any{"success": true, "result": r}
	}
	return http.StatusBadRequest, map[string]any{"success": false, "error": "unknown function: " + name}
}

// calcState mimics the service's stateful standard calculator closely
// enough for client tests: left-to-right evaluation, no precedence.
type calcState struct {
	current    string
	expression string
	pending    float64
	operator   string
	waiting    bool
}

func (s *Server) defaultCalc(action, value string) (int, any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := &s.calc

	switch action {
	case "clear":
		*c = calcState{current: "0", waiting: true}
	case "number":
		if c.waiting || c.current == "0" {
			c.current = value
		} else {
			c.current += value
		}
		c.waiting = false
	case "decimal":
		if c.waiting {
			c.current = "0."
		} else if !strings.Contains(c.current, ".") {
			c.current += "."
		}
		c.waiting = false
	case "operator":
		c.apply()
		c.operator = value
		c.expression = c.current + " " + value + " "
		c.waiting = true
	case "equals":
		if c.operator != "" {
			c.expression += c.current + " ="
			c.apply()
			c.operator = ""
			c.waiting = true
		}
	case "toggle_sign":
		if strings.HasPrefix(c.current, "-") {
			c.current = c.current[1:]
		} else if c.current != "0" {
			c.current = "-" + c.current
		}
	case "percentage":
		v, _ := strconv.ParseFloat(c.current, 64)
		c.current = strconv.FormatFloat(v/100, 'f', -1, 64)
	default:
		return http.StatusBadRequest, map[string]any{"success": false, "error": "unknown action: " + action}
	}
	return http.StatusOK, map[string]any{"success": true, "current_value": c.current, "expression": c.expression}
}

func (c *calcState) apply() {
	v, err := strconv.ParseFloat(c.current, 64)
	if err != nil {
		c.current = "Error"
		return
	}
	if c.operator == "" {
		c.pending = v
		return
	}
	switch c.operator {
	case "+":
		c.pending += v
	case "-":
		c.pending -= v
	case "×", "*":
		c.pending *= v
	case "÷", "/":
		if v == 0 {
			c.current = "Error"
			return
		}
		c.pending /= v
	}
	c.current = strconv.FormatFloat(c.pending, 'f', -1, 64)
}

func decode(r *http.Request) map[string]any {
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)
	return body
}

func writeJSON(w http.ResponseWriter) func(status int, v any) {
	return func(status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(v)
	}
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func num(v any) float64 {
	f, _ := v.(float64)
	return f
}
