package weather

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type hourlyParams struct {
	Location string `validate:"required"`
	Units    Units  `validate:"oneof=imperial metric"`
}

// ValidateParams checks the arguments shared by every WeatherClient. It does
// no I/O and fails with an InvalidArgument error.
func ValidateParams(location string, units Units) error {
	p := hourlyParams{
		Location: strings.TrimSpace(location),
		Units:    units,
	}
	err := validate.Struct(p)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 && verrs[0].Field() == "Units" {
		return InvalidArgument("Units must be 'imperial' (Fahrenheit) or 'metric' (Celsius)")
	}
	return InvalidArgument("Location parameter is required and cannot be empty")
}
