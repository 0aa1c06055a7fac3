package config

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func settingsValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Report fields by their TOML key so messages match what users write.
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("toml"), ",")
			if name == "" || name == "-" {
				return field.Name
			}
			return name
		})

		_ = validate.RegisterValidation("proxyurl", func(fl validator.FieldLevel) bool {
			parsed, err := url.Parse(fl.Field().String())
			if err != nil {
				return false
			}
			switch strings.ToLower(parsed.Scheme) {
			case "http", "https", "socks5", "socks5h":
				return parsed.Host != ""
			default:
				return false
			}
		})
	})
	return validate
}

// Validate checks every set field against its allowed range. Unset fields
// are not checked. Exclude patterns are compiled to prove they are valid.
func (s Settings) Validate() error {
	if err := settingsValidator().Struct(s); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return fmt.Errorf("%w: %s", ErrInvalid, describeFieldError(fieldErrs[0]))
		}
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	if _, err := CompilePatterns(s.ExcludePatterns); err != nil {
		return err
	}
	return nil
}

func describeFieldError(fe validator.FieldError) string {
	name := fe.Field()
	value := fe.Value()

	switch {
	case name == "timeout" && fe.Tag() == "min":
		return "timeout cannot be 0, expected a positive number of seconds"
	case name == "timeout" && fe.Tag() == "max":
		return fmt.Sprintf("timeout of %v seconds is extremely large (>24 hours)", value)
	case name == "threads" && fe.Tag() == "min":
		return "thread count cannot be 0, expected a positive integer"
	case name == "threads" && fe.Tag() == "max":
		return fmt.Sprintf("thread count of %v is extremely high (max %d)", value, MaxThreads)
	case name == "retry_attempts":
		return fmt.Sprintf("retry attempts of %v is out of range (0-%d)", value, MaxRetryAttempts)
	case name == "retry_delay" || name == "rate_limit_delay":
		return fmt.Sprintf("%s of %v ms is extremely large (max %d ms, 24 hours)", name, value, MaxDelayMillis)
	case strings.HasPrefix(name, "allowed_status_codes"):
		return fmt.Sprintf("status code %v is not a valid HTTP status code, expected 100-599", value)
	case name == "failure_threshold":
		return fmt.Sprintf("failure threshold %v%% is invalid, expected a value between 0-100", value)
	case name == "output_format":
		return fmt.Sprintf("invalid output format %q, expected one of: %s",
			value, strings.ReplaceAll(fe.Param(), " ", ", "))
	case name == "proxy":
		return fmt.Sprintf("proxy %q is not a valid proxy URL", value)
	default:
		return fmt.Sprintf("%s failed %q validation (value %v)", name, fe.Tag(), value)
	}
}
