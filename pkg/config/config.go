package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/travigo/stopservices/pkg/util"

	_ "time/tzdata"
)

const (
	DefaultTimezone    = "Europe/London"
	DefaultShardPrefix = 3
)

var ErrInvalidConfig = errors.New("invalid run configuration")

// Run is everything a build needs, gathered from flags and environment
type Run struct {
	Sources []string `validate:"required,min=1,dive,required"`

	CodeTablePath string
	OverridesPath string

	Output         string `validate:"required"`
	ShardDirectory string
	ShardPrefix    int    `validate:"gte=1"`

	Workers  int    `validate:"gte=1"`
	Timezone string `validate:"required,timezone"`
	Date     string `validate:"omitempty,datetime=2006-01-02"`

	MetricsTextfile string
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (r *Run) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	var problems []string
	for _, fieldError := range validationErrors {
		problems = append(problems, fmt.Sprintf("%s failed %s", fieldError.Namespace(), fieldError.Tag()))
	}

	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, ", "))
}

func (r *Run) Location() (*time.Location, error) {
	return time.LoadLocation(r.Timezone)
}

// Today is the reference date for validity checks, either the configured date or
// the current civil date in the configured time zone
func (r *Run) Today() (time.Time, error) {
	location, err := r.Location()
	if err != nil {
		return time.Time{}, err
	}

	if r.Date != "" {
		return time.ParseInLocation("2006-01-02", r.Date, location)
	}

	return util.Today(location), nil
}
