package api

import (
	"context"
	"net/http"
	"net/url"
)

// CalcResult is the standard calculator's state after an action.
type CalcResult struct {
	Success      bool   `json:"success"`
	CurrentValue string `json:"current_value"`
	Expression   string `json:"expression"`
}

// UnitsResult lists the units of a category.
type UnitsResult struct {
	Success bool     `json:"success"`
	Units   []string `json:"units"`
}

// ConvertRequest is the body of a conversion.
type ConvertRequest struct {
	Value    float64 `json:"value"`
	FromUnit string  `json:"from_unit"`
	ToUnit   string  `json:"to_unit"`
	Category string  `json:"category"`
}

// NumberResult carries a single numeric result.
type NumberResult struct {
	Success bool    `json:"success"`
	Result  float64 `json:"result"`
}

// AngleModeResult echoes the mode the service now uses.
type AngleModeResult struct {
	Success bool   `json:"success"`
	Mode    string `json:"mode"`
}

type calcRequest struct {
	Action string `json:"action"`
	Value  string `json:"value,omitempty"`
}

type scientificRequest struct {
	Expression string             `json:"expression"`
	Variables  map[string]float64 `json:"variables"`
}

type functionRequest struct {
	Function string  `json:"function"`
	Value    float64 `json:"value"`
}

type angleModeRequest struct {
	Mode string `json:"mode"`
}

// Calculate forwards one standard-calculator button press.
func (c *Client) Calculate(ctx context.Context, action, value string) (CalcResult, error) {
	var out CalcResult
	err := c.Do(ctx, "/api/calculate", RequestOptions{
		Method: http.MethodPost,
		Body:   calcRequest{Action: action, Value: value},
	}, &out)
	return out, err
}

// Units lists the units available in category.
func (c *Client) Units(ctx context.Context, category string) (UnitsResult, error) {
	var out UnitsResult
	err := c.Do(ctx, "/api/convert/units/"+url.PathEscape(category), RequestOptions{}, &out)
	return out, err
}

// Convert converts a value between two units.
func (c *Client) Convert(ctx context.Context, req ConvertRequest) (NumberResult, error) {
	var out NumberResult
	err := c.Do(ctx, "/api/convert", RequestOptions{
		Method: http.MethodPost,
		Body:   req,
	}, &out)
	return out, err
}

// ScientificCalculate evaluates expression with the given variable bindings.
func (c *Client) ScientificCalculate(ctx context.Context, expression string, variables map[string]float64) (NumberResult, error) {
	if variables == nil {
		variables = map[string]float64{}
	}
	var out NumberResult
	err := c.Do(ctx, "/api/scientific/calculate", RequestOptions{
		Method: http.MethodPost,
		Body:   scientificRequest{Expression: expression, Variables: variables},
	}, &out)
	return out, err
}

// SetAngleMode switches the service's trigonometric angle unit.
func (c *Client) SetAngleMode(ctx context.Context, mode string) (AngleModeResult, error) {
	var out AngleModeResult
	err := c.Do(ctx, "/api/scientific/angle-mode", RequestOptions{
		Method: http.MethodPost,
		Body:   angleModeRequest{Mode: mode},
	}, &out)
	return out, err
}

// ScientificFunction applies a single named function to value.
func (c *Client) ScientificFunction(ctx context.Context, name string, value float64) (NumberResult, error) {
	var out NumberResult
	err := c.Do(ctx, "/api/scientific/function", RequestOptions{
		Method: http.MethodPost,
		Body:   functionRequest{Function: name, Value: value},
	}, &out)
	return out, err
}
