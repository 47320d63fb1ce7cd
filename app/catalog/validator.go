package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/pkg/validate"
)

// MaxNameLength is the longest product name accepted, in characters.
const MaxNameLength = 100

// decimalRE accepts plain decimal literals only: no hex, no NaN/Inf, no
// digit separators.
var decimalRE = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// Price is a price as it arrives at the boundary: a JSON number or a JSON
// string holding a decimal literal. It is only interpreted by ValidateProduct.
type Price struct {
	raw []byte
}

// PriceOf builds a Price from a number already parsed by the caller.
func PriceOf(v float64) Price {
	return Price{raw: []byte(strconv.FormatFloat(v, 'g', -1, 64))}
}

// PriceText builds a Price from text, e.g. a CLI flag or form field.
func PriceText(s string) Price {
	b, _ := json.Marshal(s)
	return Price{raw: b}
}

func (p *Price) UnmarshalJSON(b []byte) error {
	p.raw = append(p.raw[:0], b...)
	return nil
}

func (p Price) MarshalJSON() ([]byte, error) {
	if len(p.raw) == 0 {
		return []byte("null"), nil
	}
	return p.raw, nil
}

// parse returns the numeric price or a field-level message.
func (p Price) parse() (float64, string) {
	raw := bytes.TrimSpace(p.raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, "The price field is required."
	}

	text := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, "The price must be a number."
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return 0, "The price field is required."
		}
	}

	if !decimalRE.MatchString(text) {
		return 0, "The price must be a number."
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, "The price must be a finite number."
	}
	if v <= 0 {
		return 0, "The price must be greater than 0."
	}
	return v, ""
}

// ProductPayload is the untrusted creation body accepted by POST /api/products.
// Decoding never fails on a mistyped field: the mismatch is kept and
// reported by ValidateProduct alongside the other field errors.
type ProductPayload struct {
	Name        string `json:"name"`
	Price       Price  `json:"price"`
	Category    string `json:"category"`
	StockStatus string `json:"stock_status"`

	typeErrs map[string]string
}

var errNotObject = errors.New("the body must be a JSON object")

func (p *ProductPayload) UnmarshalJSON(b []byte) error {
	var raw struct {
		Name        json.RawMessage `json:"name"`
		Price       Price           `json:"price"`
		Category    json.RawMessage `json:"category"`
		StockStatus json.RawMessage `json:"stock_status"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return errNotObject
		}
		return err
	}

	*p = ProductPayload{Price: raw.Price}
	p.Name = p.text("name", raw.Name)
	p.Category = p.text("category", raw.Category)
	p.StockStatus = p.text("stock_status", raw.StockStatus)
	return nil
}

// text decodes a string field. Absent and null fields decode to "" and are
// left to the required rule.
func (p *ProductPayload) text(field string, raw json.RawMessage) string {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		if p.typeErrs == nil {
			p.typeErrs = map[string]string{}
		}
		p.typeErrs[field] = "The " + field + " must be a string."
		return ""
	}
	return s
}

type productRules struct {
	Name        string `json:"name"         validate:"required,max=100"`
	Category    string `json:"category"     validate:"required"`
	StockStatus string `json:"stock_status" validate:"required,in=In Stock,Low Stock,Out of Stock"`
}

// ValidateProduct checks a creation payload and returns the normalized input
// for Store.CreateProduct. It reports all failing fields at once as a
// *ValidationError and never touches a store.
func ValidateProduct(in ProductPayload) (models.ProductInput, error) {
	errs := validate.Struct(productRules{
		Name:        in.Name,
		Category:    in.Category,
		StockStatus: in.StockStatus,
	})

	for field, msg := range in.typeErrs {
		errs[field] = msg
	}

	price, msg := in.Price.parse()
	if msg != "" {
		errs["price"] = msg
	}

	if validate.HasErrors(errs) {
		return models.ProductInput{}, &ValidationError{Fields: errs}
	}

	return models.ProductInput{
		Name:        in.Name,
		Price:       price,
		Category:    in.Category,
		StockStatus: models.StockStatus(in.StockStatus),
	}, nil
}

// CheckInput re-validates an already normalized input. Stores call it so
// no record that would fail ValidateProduct can be inserted.
func CheckInput(in models.ProductInput) error {
	_, err := ValidateProduct(ProductPayload{
		Name:        in.Name,
		Price:       PriceOf(in.Price),
		Category:    in.Category,
		StockStatus: string(in.StockStatus),
	})
	return err
}
