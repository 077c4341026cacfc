package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/username/office-dates/internal/calendar"
	"go.uber.org/zap"
)

// ErrUnknownTool is returned by Call for names that are not registered
var ErrUnknownTool = errors.New("unknown tool")

// Param describes one tool argument
type Param struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
	Description string `json:"description"`
}

// Tool describes a callable tool
type Tool struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Params      []Param `json:"params"`

	handler handlerFunc
}

type handlerFunc func(ctx context.Context, args json.RawMessage) (any, error)

// normalizer is implemented by argument structs that fix up decoded values before validation
type normalizer interface {
	normalize()
}

// Registry holds the office-date tools bound to one calendar
type Registry struct {
	calendar   calendar.Calendar
	validate   *validator.Validate
	translator ut.Translator
	logger     *zap.Logger
	tools      map[string]*Tool
	order      []string
}

// NewRegistry creates a registry exposing cal through the office-date tools
func NewRegistry(cal calendar.Calendar, logger *zap.Logger) (*Registry, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonFieldName)

	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, fmt.Errorf("failed to register validation translations: %w", err)
	}

	r := &Registry{
		calendar:   cal,
		validate:   validate,
		translator: trans,
		logger:     logger,
		tools:      make(map[string]*Tool),
	}
	r.registerOfficeTools()

	return r, nil
}

// List returns the registered tools in registration order
func (r *Registry) List() []Tool {
	list := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		list = append(list, *r.tools[name])
	}
	return list
}

// Call invokes the named tool with a JSON object of arguments.
// Empty or null args are treated as an empty object.
func (r *Registry) Call(ctx context.Context, name string, args json.RawMessage) (any, error) {
	tool, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}

	trimmed := bytes.TrimSpace(args)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		args = json.RawMessage("{}")
	}

	result, err := tool.handler(ctx, args)
	if err != nil {
		r.logger.Debug("Tool call rejected",
			zap.String("tool", name),
			zap.ByteString("arguments", args),
			zap.Error(err))
		return nil, err
	}

	return result, nil
}

func (r *Registry) register(tool *Tool) {
	r.tools[tool.Name] = tool
	r.order = append(r.order, tool.Name)
}

// decode strictly unmarshals args into dst and validates it
func (r *Registry) decode(args json.RawMessage, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(args))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return decodeError(err)
	}

	if n, ok := dst.(normalizer); ok {
		n.normalize()
	}

	if err := r.validate.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			fe := validationErrors[0]
			return calendar.NewArgumentError(fe.Field(), fe.Translate(r.translator))
		}
		return calendar.NewArgumentError("", err.Error())
	}

	return nil
}

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return calendar.NewArgumentError(typeErr.Field,
			fmt.Sprintf("must be of type %s", typeErr.Type.String()))
	}

	msg := err.Error()
	if field, ok := strings.CutPrefix(msg, "json: unknown field "); ok {
		return calendar.NewArgumentError(strings.Trim(field, `"`), "unknown argument")
	}

	return calendar.NewArgumentError("arguments", msg)
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}
