package shared

import (
	"encoding/json"
	"math"
	"math/big"
	"reflect"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mitchellh/mapstructure"

	"zoracoin/pkg/errors"
)

// maxSafeInteger is the largest integer a JSON number decoded as float64 holds exactly
const maxSafeInteger = 1 << 53

var digitsPattern = regexp.MustCompile(`^[0-9]+$`)

// Validator is implemented by request types with checks beyond decoding
type Validator interface {
	Validate() error
}

// Bind decodes the call arguments into dst and runs dst.Validate when present.
// Unknown argument keys are ignored. Every failure is a *errors.ValidationError.
func Bind(req mcp.CallToolRequest, dst interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: strictIntegerHook,
		Result:     dst,
		TagName:    "mapstructure",
	})
	if err != nil {
		return errors.Wrap(err, "build argument decoder")
	}

	if err := decoder.Decode(req.GetArguments()); err != nil {
		return errors.NewValidationError("arguments", decodeMessage(err), nil)
	}

	if v, ok := dst.(Validator); ok {
		if err := v.Validate(); err != nil {
			var vErr *errors.ValidationError
			if errors.As(err, &vErr) {
				return vErr
			}
			return errors.NewValidationError("arguments", err.Error(), nil)
		}
	}
	return nil
}

func decodeMessage(err error) string {
	var msErr *mapstructure.Error
	if errors.As(err, &msErr) {
		return strings.Join(msErr.Errors, "; ")
	}
	return err.Error()
}

// strictIntegerHook rejects JSON numbers with a fractional part, or beyond
// float64's exact range, when the target is an integer.
func strictIntegerHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.Float64 && from.Kind() != reflect.Float32 {
		return data, nil
	}
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
	default:
		return data, nil
	}

	f := reflect.ValueOf(data).Float()
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Trunc(f) != f {
		return nil, errors.Newf("expected an integer, got %v", f)
	}
	if math.Abs(f) > maxSafeInteger {
		return nil, errors.Newf("integer %v exceeds the exactly representable range", f)
	}
	return int64(f), nil
}

// RequireString rejects an empty value for a required text field
func RequireString(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.NewValidationError(field, "is required", value)
	}
	return nil
}

// ParseAddress parses a required hex address
func ParseAddress(field, value string) (common.Address, error) {
	if err := RequireString(field, value); err != nil {
		return common.Address{}, err
	}
	if !common.IsHexAddress(value) {
		return common.Address{}, errors.NewValidationError(field, "must be a hex address", value)
	}
	return common.HexToAddress(value), nil
}

// ParseOptionalAddress parses an optional hex address; absent or empty yields the zero address
func ParseOptionalAddress(field string, value *string) (common.Address, error) {
	if value == nil || *value == "" {
		return common.Address{}, nil
	}
	return ParseAddress(field, *value)
}

// ParseBigInteger accepts a non-negative integer as a digit string, a json.Number,
// or a JSON number within the exactly representable range. nil yields nil.
func ParseBigInteger(field string, value interface{}) (*big.Int, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		s := strings.TrimSpace(v)
		if !digitsPattern.MatchString(s) {
			return nil, errors.NewValidationError(field, "must be a non-negative integer", v)
		}
		n, _ := new(big.Int).SetString(s, 10)
		return n, nil
	case json.Number:
		return ParseBigInteger(field, v.String())
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) || math.Trunc(v) != v || v < 0 {
			return nil, errors.NewValidationError(field, "must be a non-negative integer", v)
		}
		if v > maxSafeInteger {
			return nil, errors.NewValidationError(field, "exceeds 2^53; pass large integers as a digit string", v)
		}
		return big.NewInt(int64(v)), nil
	case int:
		return ParseBigInteger(field, float64(v))
	case int64:
		if v < 0 {
			return nil, errors.NewValidationError(field, "must be a non-negative integer", v)
		}
		return big.NewInt(v), nil
	default:
		return nil, errors.NewValidationError(field, "must be an integer", v)
	}
}
