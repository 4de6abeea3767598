package validation

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lineRequest struct {
	Description string          `json:"description" binding:"required,max=20"`
	Quantity    decimal.Decimal `json:"quantity" binding:"decimal_gt0"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"decimal_gte0"`
}

type orderRequest struct {
	CustomerType string        `json:"customer_type" binding:"required,oneof=BUSINESS INDIVIDUAL"`
	CompanyName  string        `json:"company_name" binding:"required_if=CustomerType BUSINESS"`
	Slug         string        `json:"slug" binding:"omitempty,slug"`
	Currency     string        `json:"currency" binding:"omitempty,currency"`
	Email        string        `json:"email" binding:"omitempty,email"`
	Lines        []lineRequest `json:"lines" binding:"required,min=1,dive"`
	Internal     string        `json:"-"`
}

func validOrder() orderRequest {
	return orderRequest{
		CustomerType: "INDIVIDUAL",
		Slug:         "acme-traders",
		Currency:     "INR",
		Lines: []lineRequest{{
			Description: "Widget",
			Quantity:    decimal.NewFromInt(2),
			UnitPrice:   decimal.Zero,
		}},
	}
}

func details(t *testing.T, err error) map[string]string {
	t.Helper()
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	require.Equal(t, shared.CodeValidation, de.Code)
	out := make(map[string]string, len(de.Details))
	for _, d := range de.Details {
		out[d.Field] = d.Message
	}
	return out
}

func TestStruct_Valid(t *testing.T) {
	assert.NoError(t, Default().Struct(validOrder()))
	req := validOrder()
	assert.NoError(t, Default().Struct(&req))
}

func TestStruct_ReportsEveryField(t *testing.T) {
	req := validOrder()
	req.CustomerType = "BUSINESS"
	req.Email = "not-an-email"
	req.Lines = append(req.Lines, lineRequest{
		Description: "",
		Quantity:    decimal.Zero,
		UnitPrice:   decimal.RequireFromString("-0.01"),
	})

	got := details(t, Default().Struct(req))

	assert.Equal(t, map[string]string{
		"company_name":         "This field is required when customer_type is BUSINESS",
		"email":                "Invalid email format",
		"lines[1].description": "This field is required",
		"lines[1].quantity":    "Must be greater than 0",
		"lines[1].unit_price":  "Must be greater than or equal to 0",
	}, got)
}

func TestStruct_CustomRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*orderRequest)
		field  string
		msg    string
	}{
		{"slug without letters", func(r *orderRequest) { r.Slug = "---" }, "slug", "Must contain at least one letter or digit"},
		{"currency too long", func(r *orderRequest) { r.Currency = "RUPEE" }, "currency", "Must be a three-letter ISO 4217 code"},
		{"currency with digits", func(r *orderRequest) { r.Currency = "IN1" }, "currency", "Must be a three-letter ISO 4217 code"},
		{"no lines", func(r *orderRequest) { r.Lines = []lineRequest{} }, "lines", "Must contain at least 1 item(s)"},
		{"missing lines", func(r *orderRequest) { r.Lines = nil }, "lines", "This field is required"},
		{"bad enum", func(r *orderRequest) { r.CustomerType = "VIP" }, "customer_type", "Must be one of: BUSINESS INDIVIDUAL"},
		{"long description", func(r *orderRequest) { r.Lines[0].Description = strings.Repeat("x", 21) }, "lines[0].description", "Must be at most 20 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validOrder()
			tt.mutate(&req)
			got := details(t, Default().Struct(req))
			assert.Equal(t, map[string]string{tt.field: tt.msg}, got)
		})
	}
}

func TestValidateStruct_NonStruct(t *testing.T) {
	v := Default()
	assert.NoError(t, v.ValidateStruct(nil))
	assert.NoError(t, v.ValidateStruct("text"))
	var p *orderRequest
	assert.NoError(t, v.ValidateStruct(p))
	assert.NotNil(t, v.Engine())
}

func TestTranslate(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, Translate(nil))
	})

	t.Run("json type mismatch names the field", func(t *testing.T) {
		var req orderRequest
		err := json.Unmarshal([]byte(`{"customer_type": 7}`), &req)
		require.Error(t, err)
		got := details(t, Translate(err))
		assert.Equal(t, map[string]string{"customer_type": "Must be of type string"}, got)
	})

	t.Run("decimal from a JSON string", func(t *testing.T) {
		var line lineRequest
		require.NoError(t, json.Unmarshal([]byte(`{"description":"a","quantity":"1.5","unit_price":"2"}`), &line))
		assert.True(t, line.Quantity.Equal(decimal.RequireFromString("1.5")))
	})

	t.Run("syntax error", func(t *testing.T) {
		var req orderRequest
		err := json.Unmarshal([]byte(`{"customer_type":`), &req)
		got := details(t, Translate(err))
		assert.Contains(t, got, "body")
	})

	t.Run("empty body", func(t *testing.T) {
		got := details(t, Translate(io.EOF))
		assert.Equal(t, map[string]string{"body": "Request body is not valid JSON"}, got)
	})

	t.Run("domain errors pass through", func(t *testing.T) {
		in := shared.NewConflictError("busy")
		assert.Same(t, in, Translate(in))
	})

	t.Run("anything else becomes a body error", func(t *testing.T) {
		got := details(t, Translate(errors.New("strconv.ParseInt: invalid syntax")))
		assert.Equal(t, "strconv.ParseInt: invalid syntax", got["body"])
	})
}

func TestRequiredIfCondition(t *testing.T) {
	assert.Equal(t, "customer_type is BUSINESS", requiredIfCondition("CustomerType BUSINESS"))
	assert.Equal(t, "Kind", requiredIfCondition("Kind"))
}
